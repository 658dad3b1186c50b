package cmd

import (
	"fmt"

	"cpm/config"

	"github.com/spf13/cobra"
)

var (
	importDescription string
	importModel       string
)

func init() {
	rootCmd.AddCommand(importOAuthCmd)
	importOAuthCmd.Flags().StringVarP(&importDescription, "description", "d", "", "Profile description (default \""+config.DefaultOAuthProfileDescription+"\")")
	importOAuthCmd.Flags().StringVarP(&importModel, "model", "m", "", "Model override")
}

var importOAuthCmd = &cobra.Command{
	Use:   "import-oauth [name]",
	Short: "Save the current OAuth login as a profile",
	Long: `Save the login the assistant currently uses as an OAuth profile.

The account entry and credentials are read from the assistant's files. The
profile is not activated. The default name is "` + config.DefaultOAuthProfileName + `".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("")
		if err != nil {
			return err
		}

		name := ""
		if len(args) == 1 {
			name = args[0]
		}

		p, err := a.manager.ImportOAuth(name, importDescription, importModel)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ Imported OAuth profile %s (%s)", p.Name, p.OAuth.EmailAddress)))
		if len(p.OAuth.Credentials) == 0 {
			fmt.Fprintln(out, dimStyle.Render("No credentials file was found; tokens will be captured the next time this profile is active."))
		}
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("Run 'cpm switch %s' to use it.", p.Name)))
		return nil
	},
}
