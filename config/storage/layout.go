package storage

import "path/filepath"

// File names inside the profile manager's config directory
const (
	ProfilesFileName = "profiles.json"
	EnvFileName      = "active_env"
	LockFileName     = ".lock"
)

// Layout locates every artifact the store reads or writes
type Layout struct {
	ConfigDir       string // Profile manager directory (profiles.json, active_env)
	SettingsPath    string // Assistant settings.json
	CredentialsPath string // OAuth credentials file
	AccountPath     string // Account file holding oauthAccount
}

// NewLayout derives the default layout under a root directory.
// configDir, claudeDir and accountFile override the derived paths when non-empty.
func NewLayout(root, configDir, claudeDir, accountFile string) Layout {
	if configDir == "" {
		configDir = filepath.Join(root, ".config", "claudeProfileManager")
	}
	if claudeDir == "" {
		claudeDir = filepath.Join(root, ".claude")
	}
	if accountFile == "" {
		accountFile = filepath.Join(root, ".claude.json")
	}
	return Layout{
		ConfigDir:       configDir,
		SettingsPath:    filepath.Join(claudeDir, "settings.json"),
		CredentialsPath: filepath.Join(claudeDir, ".credentials.json"),
		AccountPath:     accountFile,
	}
}

// ProfilesPath returns the path of the primary store
func (l Layout) ProfilesPath() string {
	return filepath.Join(l.ConfigDir, ProfilesFileName)
}

// EnvPath returns the path of the sourceable env file
func (l Layout) EnvPath() string {
	return filepath.Join(l.ConfigDir, EnvFileName)
}

// LockPath returns the path of the advisory lock file
func (l Layout) LockPath() string {
	return filepath.Join(l.ConfigDir, LockFileName)
}
