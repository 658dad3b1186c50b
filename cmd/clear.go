package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(clearCmd)
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Deactivate the active profile",
	Long: `Deactivate the active profile. The env file unsets every managed variable,
the managed settings keys are removed, and the OAuth credentials and account
entry are removed from the assistant's files.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("")
		if err != nil {
			return err
		}

		result, err := a.manager.Clear()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if result.Previous == "" {
			fmt.Fprintln(out, "No profile was active")
		} else {
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ Cleared active profile %s", result.Previous)))
		}
		printEnvHint(cmd, a)
		return nil
	},
}
