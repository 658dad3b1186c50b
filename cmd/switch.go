package cmd

import (
	"fmt"

	"cpm/internal/tui"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(switchCmd)
}

var switchCmd = &cobra.Command{
	Use:   "switch <name|#>",
	Short: "Switch to a profile",
	Long: `Make a profile active. The env file, the assistant settings, credentials
and account files are rewritten to match it.

The profile can be given by name or by its number in 'cpm list'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("")
		if err != nil {
			return err
		}

		name := args[0]
		if reg, err := a.manager.List(); err != nil {
			return err
		} else if resolved, ok := reg.Resolve(name); ok {
			name = resolved
		}

		result, err := a.manager.Switch(name)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ Switched to %s %s", tui.Badge(*result.Profile), result.Profile.Name)))
		printEnvHint(cmd, a)
		return nil
	},
}
