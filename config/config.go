package config

import (
	"fmt"
	"os"
	"path/filepath"

	"cpm/config/storage"

	"github.com/joho/godotenv"
)

// ConfigFileName is the optional dotenv file read from the config directory
const ConfigFileName = "config.env"

// Environment variables recognised by Load
const (
	EnvHome        = "CPM_HOME"
	EnvConfigDir   = "CPM_CONFIG_DIR"
	EnvClaudeDir   = "CPM_CLAUDE_DIR"
	EnvAccountFile = "CPM_ACCOUNT_FILE"
	EnvLogLevel    = "CPM_LOG_LEVEL"
	EnvLogFormat   = "CPM_LOG_FORMAT"
)

// Config holds the resolved locations and logging settings for one invocation
type Config struct {
	Root        string // Directory standing in for the user's home
	ConfigDir   string // Profile manager directory
	ClaudeDir   string // Assistant directory holding settings.json and .credentials.json
	AccountFile string // Assistant account file holding oauthAccount
	LogLevel    string
	LogFormat   string
}

// Overrides carries command line values; empty fields are ignored
type Overrides struct {
	Root      string
	ConfigDir string
	LogLevel  string
	LogFormat string

	DefaultLogLevel string // Level used when nothing else sets one, "warn" if empty
}

// Load resolves configuration from defaults, the optional config.env file,
// the process environment and finally the command line, in increasing precedence.
func Load(o Overrides) (*Config, error) {
	root := firstNonEmpty(o.Root, os.Getenv(EnvHome))
	if root == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = homeDir
	}

	configDir := firstNonEmpty(o.ConfigDir, os.Getenv(EnvConfigDir))
	if configDir == "" {
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		// A sandboxed root ignores the caller's XDG location
		if xdgConfigHome == "" || o.Root != "" || os.Getenv(EnvHome) != "" {
			xdgConfigHome = filepath.Join(root, ".config")
		}
		configDir = filepath.Join(xdgConfigHome, "claudeProfileManager")
	}

	fileValues, err := readConfigFile(filepath.Join(configDir, ConfigFileName))
	if err != nil {
		return nil, err
	}

	lookup := func(key string) string {
		return firstNonEmpty(os.Getenv(key), fileValues[key])
	}

	cfg := &Config{
		Root:        root,
		ConfigDir:   configDir,
		ClaudeDir:   firstNonEmpty(lookup(EnvClaudeDir), filepath.Join(root, ".claude")),
		AccountFile: firstNonEmpty(lookup(EnvAccountFile), filepath.Join(root, ".claude.json")),
		LogLevel:    firstNonEmpty(o.LogLevel, lookup(EnvLogLevel), o.DefaultLogLevel, "warn"),
		LogFormat:   firstNonEmpty(o.LogFormat, lookup(EnvLogFormat), "auto"),
	}
	return cfg, nil
}

// Layout returns the artifact locations for the store
func (c *Config) Layout() storage.Layout {
	return storage.NewLayout(c.Root, c.ConfigDir, c.ClaudeDir, c.AccountFile)
}

// readConfigFile parses config.env without touching the process environment
func readConfigFile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return values, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
