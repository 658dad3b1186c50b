package shell

import (
	"bytes"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/afero"
)

// Marker identifies the generated block inside a shell rc file
const Marker = "# cpm shell integration"

const shellIntegrationTemplate = `{{.Marker}}
# Generated by cpm shell-init. Add this line to your shell rc file:
#   eval "$({{.Binary}} shell-init)"

{{.Function}}() {
    command {{.Binary}} "$@"
    _cpm_status=$?
    if [ -f {{quote .EnvPath}} ]; then
        . {{quote .EnvPath}}
    fi
    return $_cpm_status
}

# Load the active profile into new shells
if [ -f {{quote .EnvPath}} ]; then
    . {{quote .EnvPath}}
fi
`

// Generator renders the wrapper function that re-sources the env file after every run
type Generator struct {
	Marker   string
	Function string // Name of the shell function
	Binary   string // Command the function wraps
	EnvPath  string // Env file written by switch
}

// NewGenerator creates a generator for the env file at envPath
func NewGenerator(envPath string) *Generator {
	return &Generator{
		Marker:   Marker,
		Function: "cpm",
		Binary:   "cpm",
		EnvPath:  envPath,
	}
}

// Generate renders the shell snippet
func (g *Generator) Generate() (string, error) {
	tmpl, err := template.New("shell").Funcs(template.FuncMap{
		"quote": quote,
	}).Parse(shellIntegrationTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, g); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// WriteToFile writes the snippet to path so it can be sourced from an rc file
func (g *Generator) WriteToFile(fs afero.Fs, path string) error {
	content, err := g.Generate()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return afero.WriteFile(fs, path, []byte(content), 0644)
}

// quote single-quotes a value for POSIX shells
func quote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}
