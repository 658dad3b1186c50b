package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cpm/internal/watch"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Capture refreshed OAuth tokens while a profile is active",
	Long: `Watch the assistant's credentials and account files and copy refreshed
OAuth tokens into the active profile, so switching away and back keeps a
working login. Stops on Ctrl+C or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("info")
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		layout := a.manager.Store().Layout()
		a.logger.Info().
			Str("credentials", layout.CredentialsPath).
			Str("account", layout.AccountPath).
			Msg("watching for credential changes")

		return watch.New(a.manager, a.logger, layout.CredentialsPath, layout.AccountPath).Run(ctx)
	},
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
