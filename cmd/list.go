package cmd

import (
	"fmt"

	"cpm/internal/tui"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Long:  "List all saved profiles with their numbers, types and the active marker",
	Args:  cobra.NoArgs,
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
		if len(reg.Profiles) == 0 {
			fmt.Fprintln(out, "No profiles. Run 'cpm add' to create one.")
			return nil
		}

		for i, p := range reg.Profiles {
			line := fmt.Sprintf("%d. %-7s %s", i+1, tui.Badge(p), p.Name)
			if p.Description != "" {
				line += dimStyle.Render(" - " + p.Description)
			}
			if p.Name == reg.Active {
				line += " " + activeStyle.Render("[ACTIVE]")
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}
