package cmd

import (
	"errors"
	"fmt"

	"cpm/internal/errs"

	"github.com/spf13/cobra"
)

var removeYes bool

func init() {
	rootCmd.AddCommand(removeCmd)
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "Remove without asking for confirmation")
}

var removeCmd = &cobra.Command{
	Use:     "remove [name|#]",
	Aliases: []string{"rm"},
	Short:   "Remove a profile",
	Long: `Remove a profile by name or by its number in 'cpm list'.

Removing the active profile activates the first remaining one, or clears the
active profile when none remain. Without an argument the profile is chosen
from a list, which requires a terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("")
		if err != nil {
			return err
		}

		reg, err := a.manager.List()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			if len(reg.Profiles) == 0 {
				fmt.Fprintln(out, "No profiles. Run 'cpm add' to create one.")
				return nil
			}
			if !stdinIsTerminal() {
				return errs.Invalid("remove", errors.New("a profile name or number is required when stdin is not a terminal"))
			}
			selected, err := promptSelect("Profile to remove", reg.Names())
			if err == errAborted {
				fmt.Fprintln(out, "Aborted")
				return nil
			}
			if err != nil {
				return err
			}
			args = []string{selected}
		}

		name, ok := reg.Resolve(args[0])
		if !ok {
			return errs.NotFound("remove", args[0])
		}

		if !removeYes && stdinIsTerminal() {
			confirmed, err := promptConfirm(fmt.Sprintf("Remove profile '%s'", name))
			if err != nil && err != errAborted {
				return err
			}
			if !confirmed {
				fmt.Fprintln(out, "Aborted")
				return nil
			}
		}

		result, err := a.manager.Remove(name)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ Removed profile %s", result.Removed.Name)))
		switch {
		case result.NewActive != "":
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ Switched to %s", result.NewActive)))
			printEnvHint(cmd, a)
		case result.Cleared:
			fmt.Fprintln(out, "No profiles remain, the active profile was cleared")
			printEnvHint(cmd, a)
		}
		return nil
	},
}
