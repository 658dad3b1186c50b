package config

import (
	"bytes"
	"fmt"
	"sync"

	"cpm/config/models"
	"cpm/config/storage"
	syncpkg "cpm/config/sync"
	"cpm/config/validation"
	"cpm/internal/errs"

	"github.com/rs/zerolog"
)

// Defaults used by ImportOAuth when the caller leaves name or description empty
const (
	DefaultOAuthProfileName        = "claude-pro"
	DefaultOAuthProfileDescription = "Claude Pro Subscription"
)

// SwitchState is the terminal state of a switch request
type SwitchState int

const (
	// StateRejected means the request was refused and nothing was touched
	StateRejected SwitchState = iota
	// StateCommitted means every artifact reflects the target
	StateCommitted
)

func (s SwitchState) String() string {
	if s == StateCommitted {
		return "committed"
	}
	return "rejected"
}

// SwitchResult describes the outcome of Switch or Clear
type SwitchResult struct {
	State    SwitchState
	Profile  *models.Profile // Target profile, nil when clearing
	Previous string          // Previously active profile name, empty if none
}

// RemoveResult describes the outcome of Remove
type RemoveResult struct {
	Removed   models.Profile
	NewActive string // Profile re-elected after removing the active one
	Cleared   bool   // The active profile was removed and none remained
}

// Manager orchestrates profile operations over the store
type Manager struct {
	store     *storage.Store
	validator *validation.Validator
	logger    zerolog.Logger
	mu        sync.Mutex // Serialises operations within the process
}

// NewManager creates a Manager over store
func NewManager(store *storage.Store, logger zerolog.Logger) *Manager {
	return &Manager{
		store:     store,
		validator: validation.NewValidator(),
		logger:    logger,
	}
}

// Store returns the underlying store
func (m *Manager) Store() *storage.Store {
	return m.store
}

// withLock runs fn while holding both the in-process mutex and the advisory file lock
func (m *Manager) withLock(fn func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	unlock, err := m.store.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	return fn()
}

// loadRegistry loads the registry, dropping an active pointer that names a missing profile
func (m *Manager) loadRegistry() (*models.Registry, error) {
	reg, err := m.store.LoadRegistry()
	if err != nil {
		return nil, err
	}
	if reg.HasDanglingActive() {
		m.logger.Warn().Str("active", reg.Active).Msg("active profile is missing from the store, treating as none")
		reg.ClearActive()
	}
	return reg, nil
}

// List returns a snapshot of the registry
func (m *Manager) List() (*models.Registry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadRegistry()
}

// Current returns the active profile, or nil when none is active
func (m *Manager) Current() (*models.Profile, error) {
	reg, err := m.List()
	if err != nil {
		return nil, err
	}
	p, ok := reg.ActiveProfile()
	if !ok {
		return nil, nil
	}
	current := *p
	return &current, nil
}

// Switch makes name the active profile and rewrites every artifact to match it
func (m *Manager) Switch(name string) (SwitchResult, error) {
	result := SwitchResult{State: StateRejected}

	err := m.withLock(func() error {
		reg, err := m.loadRegistry()
		if err != nil {
			return err
		}
		if _, ok := reg.Find(name); !ok {
			return errs.NotFound("switch", name)
		}
		result.Previous = reg.Active

		if _, err := m.captureInto(reg); err != nil {
			return err
		}

		if err := reg.SetActive(name); err != nil {
			return err
		}
		target, _ := reg.Find(name)
		if err := m.apply(reg, target); err != nil {
			return err
		}

		committed := *target
		result.Profile = &committed
		result.State = StateCommitted
		return nil
	})
	if err != nil {
		return result, err
	}

	m.logger.Debug().
		Str("from", result.Previous).
		Str("to", name).
		Msg("switched profile")
	return result, nil
}

// Clear leaves no profile active and removes every managed setting
func (m *Manager) Clear() (SwitchResult, error) {
	result := SwitchResult{State: StateRejected}

	err := m.withLock(func() error {
		reg, err := m.loadRegistry()
		if err != nil {
			return err
		}
		result.Previous = reg.Active

		if _, err := m.captureInto(reg); err != nil {
			return err
		}

		reg.ClearActive()
		if err := m.apply(reg, nil); err != nil {
			return err
		}
		result.State = StateCommitted
		return nil
	})
	if err != nil {
		return result, err
	}

	m.logger.Debug().Str("from", result.Previous).Msg("cleared active profile")
	return result, nil
}

// Add validates and appends a profile. The first profile in an empty
// registry is activated immediately. providerName is optional and applies
// the preset's key and URL requirements.
func (m *Manager) Add(p models.Profile, providerName string) (activated bool, err error) {
	if err := m.validator.ValidateForProvider(p, providerName); err != nil {
		return false, err
	}

	err = m.withLock(func() error {
		reg, err := m.loadRegistry()
		if err != nil {
			return err
		}
		if err := reg.Add(p); err != nil {
			return err
		}

		if len(reg.Profiles) > 1 {
			return m.store.SaveRegistry(reg)
		}

		if err := reg.SetActive(p.Name); err != nil {
			return err
		}
		target, _ := reg.Find(p.Name)
		if err := m.apply(reg, target); err != nil {
			return err
		}
		activated = true
		return nil
	})
	if err != nil {
		return false, err
	}

	m.logger.Debug().Str("profile", p.Name).Bool("activated", activated).Msg("added profile")
	return activated, nil
}

// Remove deletes the profile addressed by name or 1-based number. Removing
// the active profile activates the first remaining one, or clears when none remain.
func (m *Manager) Remove(nameOrIndex string) (RemoveResult, error) {
	var result RemoveResult

	err := m.withLock(func() error {
		reg, err := m.loadRegistry()
		if err != nil {
			return err
		}
		name, ok := reg.Resolve(nameOrIndex)
		if !ok {
			return errs.NotFound("remove", nameOrIndex)
		}

		wasActive := reg.Active == name
		removed, err := reg.Remove(name)
		if err != nil {
			return err
		}
		result.Removed = removed

		if !wasActive {
			return m.store.SaveRegistry(reg)
		}

		if len(reg.Profiles) == 0 {
			reg.ClearActive()
			result.Cleared = true
			return m.apply(reg, nil)
		}

		next := &reg.Profiles[0]
		reg.Active = next.Name
		result.NewActive = next.Name
		return m.apply(reg, next)
	})
	if err != nil {
		return result, err
	}

	m.logger.Debug().
		Str("profile", result.Removed.Name).
		Str("new_active", result.NewActive).
		Bool("cleared", result.Cleared).
		Msg("removed profile")
	return result, nil
}

// ExtractOAuth reads the live oauthAccount and credentials into an OAuthAuth
func (m *Manager) ExtractOAuth() (models.OAuthAuth, error) {
	doc, found, err := m.store.LoadAccount()
	if err != nil {
		return models.OAuthAuth{}, err
	}
	accountPath := m.store.Layout().AccountPath
	if !found {
		return models.OAuthAuth{}, errs.MissingArtifact("extract oauth account", accountPath)
	}
	account, ok := syncpkg.ExtractOAuthAccount(doc)
	if !ok {
		return models.OAuthAuth{}, errs.MissingArtifact("extract oauth account", accountPath+" oauthAccount")
	}

	credentials, found, err := m.store.LoadCredentials()
	if err != nil {
		return models.OAuthAuth{}, err
	}
	if !found {
		m.logger.Debug().Str("path", m.store.Layout().CredentialsPath).Msg("no live credentials to import")
	}

	return syncpkg.OAuthAuthFromAccount(account, credentials), nil
}

// ImportOAuth stores the live OAuth session as a new profile without activating it
func (m *Manager) ImportOAuth(name, description, model string) (models.Profile, error) {
	if name == "" {
		name = DefaultOAuthProfileName
	}
	if description == "" {
		description = DefaultOAuthProfileDescription
	}

	auth, err := m.ExtractOAuth()
	if err != nil {
		return models.Profile{}, err
	}

	p := models.NewOAuthProfile(name, description, model, auth)
	if err := m.validator.ValidateProfile(p); err != nil {
		return models.Profile{}, err
	}

	err = m.withLock(func() error {
		reg, err := m.loadRegistry()
		if err != nil {
			return err
		}
		if err := reg.Add(p); err != nil {
			return err
		}
		return m.store.SaveRegistry(reg)
	})
	if err != nil {
		return models.Profile{}, err
	}

	m.logger.Debug().Str("profile", name).Str("email", auth.EmailAddress).Msg("imported oauth profile")
	return p, nil
}

// AddOAuth stores the live OAuth session through Add, so the first profile
// in an empty registry is activated. An empty description defaults to the account email.
func (m *Manager) AddOAuth(name, description, model string) (models.Profile, bool, error) {
	if name == "" {
		name = DefaultOAuthProfileName
	}

	auth, err := m.ExtractOAuth()
	if err != nil {
		return models.Profile{}, false, err
	}
	if description == "" {
		description = OAuthDescriptionFor(auth.EmailAddress)
	}

	p := models.NewOAuthProfile(name, description, model, auth)
	activated, err := m.Add(p, "")
	if err != nil {
		return models.Profile{}, false, err
	}
	return p, activated, nil
}

// OAuthDescriptionFor returns the default description of an added OAuth profile
func OAuthDescriptionFor(email string) string {
	if email == "" {
		return DefaultOAuthProfileDescription
	}
	return "Claude Pro - " + email
}

// CaptureLiveCredentials copies refreshed live tokens into the active OAuth
// profile. It reports whether the stored profile changed.
func (m *Manager) CaptureLiveCredentials() (bool, error) {
	var changed bool
	err := m.withLock(func() error {
		reg, err := m.loadRegistry()
		if err != nil {
			return err
		}
		changed, err = m.captureInto(reg)
		if err != nil || !changed {
			return err
		}
		return m.store.SaveRegistry(reg)
	})
	return changed, err
}

// RenderEnv returns the env script for the active profile
func (m *Manager) RenderEnv() (string, error) {
	current, err := m.Current()
	if err != nil {
		return "", err
	}
	return syncpkg.GenerateEnvScript(current), nil
}

// captureInto refreshes the active OAuth profile in reg from the live artifacts
func (m *Manager) captureInto(reg *models.Registry) (bool, error) {
	active, ok := reg.ActiveProfile()
	if !ok || !active.IsOAuth() {
		return false, nil
	}

	changed := false

	credentials, found, err := m.store.LoadCredentials()
	if err != nil {
		return false, fmt.Errorf("failed to capture credentials: %w", err)
	}
	if found && !bytes.Equal(credentials, active.OAuth.Credentials) {
		active.OAuth.Credentials = credentials
		changed = true
	}

	doc, found, err := m.store.LoadAccount()
	if err != nil {
		return false, fmt.Errorf("failed to capture oauth account: %w", err)
	}
	if found {
		if account, ok := syncpkg.ExtractOAuthAccount(doc); ok && !bytes.Equal(account, active.OAuth.Account) {
			active.OAuth.Account = account
			changed = true
		}
	}

	if changed {
		m.logger.Info().Str("profile", active.Name).Msg("captured refreshed oauth credentials")
	}
	return changed, nil
}

// apply persists reg and rewrites every artifact for target; nil target means none.
// Each step is idempotent so re-running after a failure converges.
func (m *Manager) apply(reg *models.Registry, target *models.Profile) error {
	if err := m.store.SaveRegistry(reg); err != nil {
		return err
	}

	if err := m.store.WriteEnv(syncpkg.GenerateEnvScript(target)); err != nil {
		return err
	}

	if err := m.applySettings(target); err != nil {
		return err
	}

	return m.materialize(target)
}

// applySettings patches the managed keys of the assistant settings
func (m *Manager) applySettings(target *models.Profile) error {
	settings, found, err := m.store.LoadSettings()
	if err != nil {
		return err
	}
	// Nothing to remove from a document that does not exist
	if !found && target == nil {
		return nil
	}

	patched, err := syncpkg.PatchSettings(settings, found, target)
	if err != nil {
		return err
	}
	if found && bytes.Equal(patched, settings) {
		return nil
	}
	return m.store.SaveSettings(patched)
}

// materialize mirrors the OAuth artifacts of target, removing them for anything else
func (m *Manager) materialize(target *models.Profile) error {
	if target != nil && target.IsOAuth() {
		if len(target.OAuth.Credentials) > 0 {
			if err := m.store.SaveCredentials(target.OAuth.Credentials); err != nil {
				return err
			}
		} else if err := m.store.RemoveCredentials(); err != nil {
			return err
		}

		if len(target.OAuth.Account) > 0 {
			doc, found, err := m.store.LoadAccount()
			if err != nil {
				return err
			}
			updated, err := syncpkg.SetOAuthAccount(doc, found, target.OAuth.Account)
			if err != nil {
				return err
			}
			if found && bytes.Equal(updated, doc) {
				return nil
			}
			return m.store.SaveAccount(updated)
		}
		return m.removeOAuthAccount()
	}

	if err := m.store.RemoveCredentials(); err != nil {
		return err
	}
	return m.removeOAuthAccount()
}

func (m *Manager) removeOAuthAccount() error {
	doc, found, err := m.store.LoadAccount()
	if err != nil || !found {
		return err
	}
	updated, changed, err := syncpkg.RemoveOAuthAccount(doc)
	if err != nil || !changed {
		return err
	}
	return m.store.SaveAccount(updated)
}
