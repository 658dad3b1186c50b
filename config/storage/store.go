package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"cpm/config/models"
	"cpm/internal/errs"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Permission bits for the files the store writes
const (
	privateFileMode = 0600
	envFileMode     = 0600
)

// Store gives typed access to the on-disk artifacts. It holds no business logic.
type Store struct {
	fs     afero.Fs
	layout Layout
	logger zerolog.Logger
}

// NewStore creates a store over fs rooted at layout
func NewStore(fs afero.Fs, layout Layout, logger zerolog.Logger) *Store {
	return &Store{
		fs:     fs,
		layout: layout,
		logger: logger,
	}
}

// Layout returns the artifact locations
func (s *Store) Layout() Layout {
	return s.layout
}

// Fs returns the underlying filesystem
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// LoadRegistry reads profiles.json. A missing or empty file yields an empty registry;
// anything unparsable is a CorruptStore error.
func (s *Store) LoadRegistry() (*models.Registry, error) {
	path := s.layout.ProfilesPath()
	data, found, err := s.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile store: %w", err)
	}
	if !found || len(bytes.TrimSpace(data)) == 0 {
		return models.NewRegistry(), nil
	}

	var registry models.Registry
	if err := json.Unmarshal(data, &registry); err != nil {
		return nil, errs.Corrupt(path, err)
	}
	return &registry, nil
}

// SaveRegistry writes profiles.json atomically with owner-only permissions
func (s *Store) SaveRegistry(registry *models.Registry) error {
	data, err := json.MarshalIndent(registry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize profile store: %w", err)
	}
	data = append(data, '\n')

	if err := AtomicWrite(s.fs, s.layout.ProfilesPath(), data, privateFileMode); err != nil {
		return fmt.Errorf("failed to save profile store: %w", err)
	}
	return nil
}

// LoadSettings reads the assistant settings document.
// Missing or malformed documents are reported as not found.
func (s *Store) LoadSettings() ([]byte, bool, error) {
	return s.loadDocument(s.layout.SettingsPath)
}

// SaveSettings replaces the assistant settings document, keeping rotated backups
func (s *Store) SaveSettings(doc []byte) error {
	if err := AtomicFileUpdate(s.fs, s.layout.SettingsPath, doc, s.modeOf(s.layout.SettingsPath, 0644), true); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// LoadAccount reads the account document.
// Missing or malformed documents are reported as not found.
func (s *Store) LoadAccount() ([]byte, bool, error) {
	return s.loadDocument(s.layout.AccountPath)
}

// SaveAccount replaces the account document, keeping rotated backups
func (s *Store) SaveAccount(doc []byte) error {
	if err := AtomicFileUpdate(s.fs, s.layout.AccountPath, doc, s.modeOf(s.layout.AccountPath, privateFileMode), true); err != nil {
		return fmt.Errorf("failed to save account file: %w", err)
	}
	return nil
}

// LoadCredentials reads the live OAuth credentials blob.
// Missing or malformed files are reported as not found.
func (s *Store) LoadCredentials() (json.RawMessage, bool, error) {
	doc, found, err := s.loadDocument(s.layout.CredentialsPath)
	if err != nil || !found {
		return nil, false, err
	}
	return models.Compact(doc), true, nil
}

// SaveCredentials writes the OAuth credentials blob with mode 0600.
// Failing to establish the restrictive mode is a PermissionDenied error.
func (s *Store) SaveCredentials(credentials json.RawMessage) error {
	path := s.layout.CredentialsPath

	var buf bytes.Buffer
	if err := json.Indent(&buf, credentials, "", "  "); err != nil {
		return fmt.Errorf("failed to serialize credentials: %w", err)
	}
	buf.WriteByte('\n')

	if err := AtomicWrite(s.fs, path, buf.Bytes(), privateFileMode); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return errs.PermissionDenied(path, err)
		}
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	info, err := s.fs.Stat(path)
	if err != nil {
		return errs.PermissionDenied(path, err)
	}
	if info.Mode().Perm()&0077 != 0 {
		return errs.PermissionDenied(path, fmt.Errorf("mode is %v, want 0600", info.Mode().Perm()))
	}
	return nil
}

// RemoveCredentials deletes the live OAuth credentials file if present
func (s *Store) RemoveCredentials() error {
	if err := s.fs.Remove(s.layout.CredentialsPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}

// CredentialsExist reports whether the live credentials file is present
func (s *Store) CredentialsExist() bool {
	return FileExists(s.fs, s.layout.CredentialsPath)
}

// WriteEnv replaces the sourceable env file
func (s *Store) WriteEnv(script string) error {
	if err := AtomicWrite(s.fs, s.layout.EnvPath(), []byte(script), envFileMode); err != nil {
		return fmt.Errorf("failed to write env file: %w", err)
	}
	return nil
}

// ReadEnv returns the current env file content
func (s *Store) ReadEnv() (string, bool, error) {
	data, found, err := s.readFile(s.layout.EnvPath())
	if err != nil || !found {
		return "", false, err
	}
	return string(data), true, nil
}

// loadDocument reads a JSON object, treating absence and malformed content alike
func (s *Store) loadDocument(path string) ([]byte, bool, error) {
	data, found, err := s.readFile(path)
	if err != nil || !found {
		return nil, false, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		s.logger.Debug().Str("path", path).Msg("ignoring malformed JSON document")
		return nil, false, nil
	}
	return data, true, nil
}

// readFile returns the file content, or found=false when it does not exist
func (s *Store) readFile(path string) ([]byte, bool, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// modeOf keeps the permissions of an existing file, defaulting for new ones
func (s *Store) modeOf(path string, def os.FileMode) os.FileMode {
	if info, err := s.fs.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return def
}
