package cmd

import (
	"fmt"

	"cpm/internal/shell"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	shellInitOutput string
	shellInitBinary string
)

func init() {
	rootCmd.AddCommand(shellInitCmd)
	shellInitCmd.Flags().StringVarP(&shellInitOutput, "output", "o", "", "Write the wrapper to a file instead of stdout")
	shellInitCmd.Flags().StringVar(&shellInitBinary, "binary", "", "Command the wrapper runs (default \"cpm\")")
}

var shellInitCmd = &cobra.Command{
	Use:   "shell-init",
	Short: "Print the shell wrapper function",
	Long: `Print a shell function that runs cpm and then loads the env file, so a
switch takes effect in the calling shell.

Add this line to ~/.bashrc or ~/.zshrc:
  eval "$(cpm shell-init)"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("")
		if err != nil {
			return err
		}

		gen := shell.NewGenerator(a.manager.Store().Layout().EnvPath())
		if shellInitBinary != "" {
			gen.Binary = shellInitBinary
		}

		if shellInitOutput != "" {
			if err := gen.WriteToFile(afero.NewOsFs(), shellInitOutput); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ Wrote shell wrapper to %s", shellInitOutput)))
			fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render(fmt.Sprintf("Add '. %s' to your shell rc file.", shellInitOutput)))
			return nil
		}

		script, err := gen.Generate()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), script)
		return nil
	},
}
