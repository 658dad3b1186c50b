package tui

import (
	"fmt"
	"os"

	"cpm/config"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Result summarises an interactive session
type Result struct {
	Applied bool   // The active profile changed; the environment needs reloading
	Message string // Final status line
}

// Run starts the interactive menu over manager
func Run(manager *config.Manager) (Result, error) {
	if !isTerminal() {
		return Result{}, fmt.Errorf("the interactive menu requires a terminal, use subcommands for non-interactive mode")
	}

	p := tea.NewProgram(NewFirstRunModel(manager), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return Result{}, err
	}

	m, ok := final.(Model)
	if !ok {
		return Result{}, nil
	}
	return Result{Applied: m.applied, Message: m.message}, nil
}

// isTerminal checks if stdin and stdout are terminals
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
