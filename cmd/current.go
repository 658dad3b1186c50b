package cmd

import (
	"fmt"
	"io"

	"cpm/config/models"
	"cpm/internal/utils"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(currentCmd)
}

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the active profile",
	Long:  "Show the active profile. API keys are masked.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("")
		if err != nil {
			return err
		}

		p, err := a.manager.Current()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if p == nil {
			fmt.Fprintln(out, "No active profile")
			return nil
		}

		printProfile(out, p)
		return nil
	},
}

func printProfile(out io.Writer, p *models.Profile) {
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(out, "%-14s %s\n", label+":", value)
		}
	}

	row("Name", p.Name)
	row("Type", string(p.Type))
	row("Description", p.Description)
	row("Model", p.Model)

	if p.IsOAuth() && p.OAuth != nil {
		row("Email", p.OAuth.EmailAddress)
		row("Account", p.OAuth.DisplayName)
		row("Organization", p.OAuth.OrganizationName)
		row("Role", p.OAuth.OrganizationRole)
		return
	}

	if key := p.APIKey(); key != "" {
		row("API Key", utils.MaskAPIKey(key))
	} else {
		row("API Key", "(none)")
	}
	row("Base URL", p.BaseURL())
}
