package cmd

import (
	"fmt"
	"os"

	"cpm/config"
	"cpm/config/storage"
	"cpm/internal/logging"
	"cpm/internal/tui"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Version information
var (
	version string
	commit  string
	date    string
)

// SetVersionInfo sets the version information
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Persistent flag values
var rootOpts config.Overrides

// stdinIsTerminal reports whether prompts can be shown
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Output styles
var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

var rootCmd = &cobra.Command{
	Use:   "cpm",
	Short: "Claude profile manager",
	Long: `Switch the Claude command line assistant between API keys, proxies,
local inference servers and OAuth subscription logins.

Run without arguments to open the interactive menu.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !stdinIsTerminal() {
			return fmt.Errorf("the interactive menu requires a terminal, use subcommands such as 'cpm list' and 'cpm switch'")
		}

		a, err := newApp("")
		if err != nil {
			return err
		}

		result, err := tui.Run(a.manager)
		if err != nil {
			return err
		}
		if result.Applied {
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ "+result.Message))
			printEnvHint(cmd, a)
		}
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootOpts.Root, "root", "", "Directory used in place of the home directory")
	flags.StringVar(&rootOpts.ConfigDir, "config-dir", "", "Profile manager configuration directory")
	flags.StringVar(&rootOpts.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&rootOpts.LogFormat, "log-format", "", "Log format (auto, console, json)")
}

// app bundles the per-invocation configuration and manager
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	manager *config.Manager
}

// newApp resolves configuration and builds a manager over the real filesystem.
// defaultLevel replaces the warn default when non-empty.
func newApp(defaultLevel string) (*app, error) {
	overrides := rootOpts
	overrides.DefaultLogLevel = defaultLevel

	cfg, err := config.Load(overrides)
	if err != nil {
		return nil, err
	}

	logger := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	store := storage.NewStore(afero.NewOsFs(), cfg.Layout(), logger)

	return &app{
		cfg:     cfg,
		logger:  logger,
		manager: config.NewManager(store, logger),
	}, nil
}

// printEnvHint tells the user where the environment projection lives
func printEnvHint(cmd *cobra.Command, a *app) {
	envPath := a.manager.Store().Layout().EnvPath()
	fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render(fmt.Sprintf("Environment: %s", envPath)))
	fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render(fmt.Sprintf("Run '. %s' or use the shell wrapper from 'cpm shell-init' to load it.", envPath)))
}

// Execute executes the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`cpm {{.Version}}
Commit: ` + commit + `
Date: ` + date + `
`)

	return rootCmd.Execute()
}
