package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"cpm/config/models"
	"cpm/config/storage"
	"cpm/internal/errs"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const (
	testCredentials = `{"claudeAiOauth":{"accessToken":"at-1","refreshToken":"rt-1","expiresAt":1700000000000}}`
	testAccount     = `{"accountUuid":"acc-1","emailAddress":"user@example.com","organizationName":"Example"}`
)

// setupTestManager creates a manager over an in-memory home directory
func setupTestManager(t *testing.T) (*Manager, afero.Fs, storage.Layout) {
	t.Helper()
	fs := afero.NewMemMapFs()
	layout := storage.NewLayout("/home/test", "", "", "")
	store := storage.NewStore(fs, layout, zerolog.Nop())
	return NewManager(store, zerolog.Nop()), fs, layout
}

func oauthProfile(name, model string) models.Profile {
	return models.NewOAuthProfile(name, "Claude Pro", model, models.OAuthAuth{
		AccountUUID:  "acc-1",
		EmailAddress: "user@example.com",
		Credentials:  json.RawMessage(testCredentials),
		Account:      json.RawMessage(testAccount),
	})
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err, "reading %s", path)
	return string(data)
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
}

func snapshot(t *testing.T, fs afero.Fs, layout storage.Layout) map[string]string {
	t.Helper()
	files := map[string]string{}
	for _, path := range []string{layout.ProfilesPath(), layout.EnvPath(), layout.SettingsPath, layout.CredentialsPath, layout.AccountPath} {
		data, err := afero.ReadFile(fs, path)
		if err == nil {
			files[path] = string(data)
		}
	}
	return files
}

func TestAddFirstProfileActivates(t *testing.T) {
	m, fs, layout := setupTestManager(t)

	activated, err := m.Add(models.NewAPIProfile("direct", "Anthropic", "sk-ant-123", "", ""), "")
	require.NoError(t, err)
	assert.True(t, activated)

	current, err := m.Current()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "direct", current.Name)
	assert.Contains(t, readFile(t, fs, layout.EnvPath()), `export ANTHROPIC_API_KEY="sk-ant-123"`)

	activated, err = m.Add(models.NewAPIProfile("second", "", "sk-2", "", ""), "")
	require.NoError(t, err)
	assert.False(t, activated)

	current, err = m.Current()
	require.NoError(t, err)
	assert.Equal(t, "direct", current.Name)
}

func TestAddRejections(t *testing.T) {
	m, _, _ := setupTestManager(t)
	_, err := m.Add(models.NewAPIProfile("direct", "", "sk-1", "", ""), "")
	require.NoError(t, err)

	tests := []struct {
		name     string
		profile  models.Profile
		provider string
		target   error
	}{
		{"duplicate name", models.NewAPIProfile("direct", "", "sk-2", "", ""), "", errs.ErrDuplicateName},
		{"empty name", models.NewAPIProfile("", "", "sk-2", "", ""), "", errs.ErrInvalidInput},
		{"numeric name", models.NewAPIProfile("3", "", "sk-2", "", ""), "", errs.ErrInvalidInput},
		{"bad url", models.NewAPIProfile("proxy", "", "sk-2", "not a url", ""), "", errs.ErrInvalidInput},
		{"provider requires key", models.NewAPIProfile("openai", "", "", "", ""), "openai", errs.ErrInvalidInput},
		{"unknown provider", models.NewAPIProfile("other", "", "k", "", ""), "nope", errs.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Add(tt.profile, tt.provider)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			assert.True(t, errs.IsRejection(err))
		})
	}

	reg, err := m.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"direct"}, reg.Names())
}

func TestSwitchUnknownProfileTouchesNothing(t *testing.T) {
	m, fs, layout := setupTestManager(t)

	result, err := m.Switch("ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
	assert.Equal(t, "profile 'ghost' not found", err.Error())
	assert.Equal(t, StateRejected, result.State)
	assert.Empty(t, snapshot(t, fs, layout))
}

func TestSwitchOllamaProfile(t *testing.T) {
	m, fs, layout := setupTestManager(t)
	_, err := m.Add(models.NewAPIProfile("ollama", "Local", "", "http://127.0.0.1:11434", ""), "ollama")
	require.NoError(t, err)

	result, err := m.Switch("ollama")
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, result.State)

	env := readFile(t, fs, layout.EnvPath())
	assert.Contains(t, env, "unset ANTHROPIC_API_KEY\n")
	assert.Contains(t, env, "unset ANTHROPIC_AUTH_TOKEN\n")
	assert.Contains(t, env, `export ANTHROPIC_BASE_URL="http://127.0.0.1:11434"`)
	assert.True(t, strings.HasSuffix(env, "export OLLAMA_API_BASE=\"http://127.0.0.1:11434\"\n"))

	settings := readFile(t, fs, layout.SettingsPath)
	assert.Equal(t, "echo ollama", gjson.Get(settings, "apiKeyHelper").String())
	assert.Equal(t, "http://127.0.0.1:11434", gjson.Get(settings, "env.ANTHROPIC_BASE_URL").String())
	assert.False(t, gjson.Get(settings, "model").Exists())
}

func TestSwitchIsIdempotent(t *testing.T) {
	m, fs, layout := setupTestManager(t)
	writeFile(t, fs, layout.SettingsPath, `{"theme":"dark","permissions":{"allow":["Bash"]}}`)
	writeFile(t, fs, layout.AccountPath, `{"numStartups":4}`)

	_, err := m.Add(models.NewAPIProfile("proxy", "", "sk-litellm", "http://localhost:4000", "claude-sonnet"), "")
	require.NoError(t, err)
	_, err = m.Add(oauthProfile("pro", ""), "")
	require.NoError(t, err)

	for _, name := range []string{"proxy", "pro"} {
		t.Run(name, func(t *testing.T) {
			_, err := m.Switch(name)
			require.NoError(t, err)
			first := snapshot(t, fs, layout)

			_, err = m.Switch(name)
			require.NoError(t, err)
			assert.Equal(t, first, snapshot(t, fs, layout))
		})
	}
}

func TestSwitchOAuthToAPI(t *testing.T) {
	m, fs, layout := setupTestManager(t)
	writeFile(t, fs, layout.SettingsPath, `{"theme":"dark","env":{"OTHER":"1"}}`)
	writeFile(t, fs, layout.AccountPath, `{"numStartups":4}`)

	_, err := m.Add(oauthProfile("pro", ""), "")
	require.NoError(t, err)
	_, err = m.Add(models.NewAPIProfile("direct", "", "sk-ant-123", "", ""), "")
	require.NoError(t, err)

	assert.JSONEq(t, testCredentials, readFile(t, fs, layout.CredentialsPath))
	assert.Equal(t, "acc-1", gjson.Get(readFile(t, fs, layout.AccountPath), "oauthAccount.accountUuid").String())

	_, err = m.Switch("direct")
	require.NoError(t, err)

	exists, err := afero.Exists(fs, layout.CredentialsPath)
	require.NoError(t, err)
	assert.False(t, exists, "credentials must be removed for API profiles")

	account := readFile(t, fs, layout.AccountPath)
	assert.False(t, gjson.Get(account, "oauthAccount").Exists())
	assert.Equal(t, int64(4), gjson.Get(account, "numStartups").Int())

	settings := readFile(t, fs, layout.SettingsPath)
	assert.Equal(t, "echo sk-ant-123", gjson.Get(settings, "apiKeyHelper").String())
	assert.Equal(t, "dark", gjson.Get(settings, "theme").String())
	assert.Equal(t, "1", gjson.Get(settings, "env.OTHER").String())
}

func TestSwitchAPIToOAuthWithModel(t *testing.T) {
	m, fs, layout := setupTestManager(t)
	writeFile(t, fs, layout.SettingsPath, `{"theme":"dark"}`)

	_, err := m.Add(models.NewAPIProfile("proxy", "", "sk-1", "http://localhost:4000", ""), "")
	require.NoError(t, err)
	_, err = m.Add(oauthProfile("pro", "claude-opus"), "")
	require.NoError(t, err)

	result, err := m.Switch("pro")
	require.NoError(t, err)
	assert.Equal(t, "proxy", result.Previous)

	settings := readFile(t, fs, layout.SettingsPath)
	assert.False(t, gjson.Get(settings, "apiKeyHelper").Exists())
	assert.False(t, gjson.Get(settings, "env").Exists(), "empty env object should be dropped")
	assert.Equal(t, "claude-opus", gjson.Get(settings, "model").String())
	assert.Equal(t, "dark", gjson.Get(settings, "theme").String())

	assert.JSONEq(t, testCredentials, readFile(t, fs, layout.CredentialsPath))
	info, err := fs.Stat(layout.CredentialsPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	assert.JSONEq(t, testAccount, gjson.Get(readFile(t, fs, layout.AccountPath), "oauthAccount").Raw)

	env := readFile(t, fs, layout.EnvPath())
	assert.Contains(t, env, "unset ANTHROPIC_BASE_URL\n")
	assert.Contains(t, env, "unset LITELLM_PROXY_API_KEY\n")
	assert.Contains(t, env, `export OLLAMA_API_BASE="http://127.0.0.1:11434"`)
}

func TestSwitchAwayCapturesRefreshedTokens(t *testing.T) {
	m, fs, layout := setupTestManager(t)
	_, err := m.Add(oauthProfile("pro", ""), "")
	require.NoError(t, err)
	_, err = m.Add(models.NewAPIProfile("direct", "", "sk-1", "", ""), "")
	require.NoError(t, err)

	refreshed := `{"claudeAiOauth":{"accessToken":"at-2","refreshToken":"rt-2","expiresAt":1800000000000}}`
	writeFile(t, fs, layout.CredentialsPath, refreshed)

	_, err = m.Switch("direct")
	require.NoError(t, err)

	reg, err := m.List()
	require.NoError(t, err)
	pro, ok := reg.Find("pro")
	require.True(t, ok)
	assert.JSONEq(t, refreshed, string(pro.OAuth.Credentials))

	_, err = m.Switch("pro")
	require.NoError(t, err)
	assert.JSONEq(t, refreshed, readFile(t, fs, layout.CredentialsPath))
}

func TestSwitchToOAuthWithoutArtifactsRemovesLiveOnes(t *testing.T) {
	m, fs, layout := setupTestManager(t)
	bare := models.NewOAuthProfile("bare", "", "", models.OAuthAuth{EmailAddress: "x@example.com"})
	_, err := m.Add(models.NewAPIProfile("direct", "", "sk-1", "", ""), "")
	require.NoError(t, err)
	_, err = m.Add(bare, "")
	require.NoError(t, err)

	writeFile(t, fs, layout.CredentialsPath, testCredentials)
	writeFile(t, fs, layout.AccountPath, `{"oauthAccount":{"accountUuid":"someone-else"},"keep":true}`)

	_, err = m.Switch("bare")
	require.NoError(t, err)

	exists, _ := afero.Exists(fs, layout.CredentialsPath)
	assert.False(t, exists)
	account := readFile(t, fs, layout.AccountPath)
	assert.False(t, gjson.Get(account, "oauthAccount").Exists())
	assert.True(t, gjson.Get(account, "keep").Bool())
}

func TestSettingsBackupsArePrivate(t *testing.T) {
	m, fs, layout := setupTestManager(t)
	writeFile(t, fs, layout.SettingsPath, `{"theme":"dark"}`)
	_, err := m.Add(models.NewAPIProfile("direct", "", "sk-ant-secret-123", "", ""), "")
	require.NoError(t, err)
	_, err = m.Add(oauthProfile("pro", ""), "")
	require.NoError(t, err)

	_, err = m.Switch("pro")
	require.NoError(t, err)
	assert.False(t, gjson.Get(readFile(t, fs, layout.SettingsPath), "apiKeyHelper").Exists())

	backups, err := afero.Glob(fs, layout.SettingsPath+".backup-*")
	require.NoError(t, err)
	require.NotEmpty(t, backups)
	for _, backup := range backups {
		info, err := fs.Stat(backup)
		require.NoError(t, err)
		assert.Equal(t, "-rw-------", info.Mode().Perm().String(), backup)
	}

	info, err := fs.Stat(layout.SettingsPath)
	require.NoError(t, err)
	assert.Equal(t, "-rw-r--r--", info.Mode().Perm().String(), "the live settings file keeps its mode")
}

func TestClear(t *testing.T) {
	m, fs, layout := setupTestManager(t)
	writeFile(t, fs, layout.SettingsPath, `{"theme":"dark"}`)
	_, err := m.Add(oauthProfile("pro", "claude-opus"), "")
	require.NoError(t, err)

	result, err := m.Clear()
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, result.State)
	assert.Equal(t, "pro", result.Previous)

	current, err := m.Current()
	require.NoError(t, err)
	assert.Nil(t, current)

	env := readFile(t, fs, layout.EnvPath())
	assert.NotContains(t, env, "export")
	assert.Contains(t, env, "unset OLLAMA_API_BASE\n")

	assert.JSONEq(t, `{"theme":"dark"}`, readFile(t, fs, layout.SettingsPath))
	exists, _ := afero.Exists(fs, layout.CredentialsPath)
	assert.False(t, exists)
	assert.False(t, gjson.Get(readFile(t, fs, layout.AccountPath), "oauthAccount").Exists())

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(readFile(t, fs, layout.ProfilesPath())), &raw))
	assert.Nil(t, raw["active"])
}

func TestClearWithoutSettingsCreatesNothing(t *testing.T) {
	m, fs, layout := setupTestManager(t)

	_, err := m.Clear()
	require.NoError(t, err)

	exists, _ := afero.Exists(fs, layout.SettingsPath)
	assert.False(t, exists)
}

func TestRemove(t *testing.T) {
	t.Run("inactive profile keeps active", func(t *testing.T) {
		m, _, _ := setupTestManager(t)
		for _, name := range []string{"a", "b", "c"} {
			_, err := m.Add(models.NewAPIProfile(name, "", "sk-"+name, "", ""), "")
			require.NoError(t, err)
		}

		result, err := m.Remove("b")
		require.NoError(t, err)
		assert.Equal(t, "b", result.Removed.Name)
		assert.Empty(t, result.NewActive)
		assert.False(t, result.Cleared)

		reg, err := m.List()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "c"}, reg.Names())
		assert.Equal(t, "a", reg.Active)
	})

	t.Run("active profile re-elects first remaining", func(t *testing.T) {
		m, fs, layout := setupTestManager(t)
		for _, name := range []string{"a", "b", "c"} {
			_, err := m.Add(models.NewAPIProfile(name, "", "sk-"+name, "", ""), "")
			require.NoError(t, err)
		}
		_, err := m.Switch("b")
		require.NoError(t, err)

		result, err := m.Remove("b")
		require.NoError(t, err)
		assert.Equal(t, "a", result.NewActive)

		current, err := m.Current()
		require.NoError(t, err)
		assert.Equal(t, "a", current.Name)
		assert.Contains(t, readFile(t, fs, layout.EnvPath()), `export ANTHROPIC_API_KEY="sk-a"`)
	})

	t.Run("by number", func(t *testing.T) {
		m, _, _ := setupTestManager(t)
		for _, name := range []string{"a", "b"} {
			_, err := m.Add(models.NewAPIProfile(name, "", "k", "", ""), "")
			require.NoError(t, err)
		}

		result, err := m.Remove("2")
		require.NoError(t, err)
		assert.Equal(t, "b", result.Removed.Name)
	})

	t.Run("last profile clears", func(t *testing.T) {
		m, fs, layout := setupTestManager(t)
		_, err := m.Add(oauthProfile("pro", ""), "")
		require.NoError(t, err)

		result, err := m.Remove("pro")
		require.NoError(t, err)
		assert.True(t, result.Cleared)

		exists, _ := afero.Exists(fs, layout.CredentialsPath)
		assert.False(t, exists)
		assert.NotContains(t, readFile(t, fs, layout.EnvPath()), "export")
	})

	t.Run("unknown", func(t *testing.T) {
		m, _, _ := setupTestManager(t)
		_, err := m.Remove("9")
		assert.True(t, errors.Is(err, errs.ErrNotFound))
	})
}

func TestImportOAuth(t *testing.T) {
	t.Run("defaults and no activation", func(t *testing.T) {
		m, fs, layout := setupTestManager(t)
		_, err := m.Add(models.NewAPIProfile("direct", "", "sk-1", "", ""), "")
		require.NoError(t, err)
		writeFile(t, fs, layout.AccountPath, `{"oauthAccount":`+testAccount+`,"numStartups":1}`)
		writeFile(t, fs, layout.CredentialsPath, testCredentials)

		p, err := m.ImportOAuth("", "", "")
		require.NoError(t, err)
		assert.Equal(t, DefaultOAuthProfileName, p.Name)
		assert.Equal(t, DefaultOAuthProfileDescription, p.Description)
		assert.Equal(t, "user@example.com", p.OAuth.EmailAddress)
		assert.JSONEq(t, testCredentials, string(p.OAuth.Credentials))

		current, err := m.Current()
		require.NoError(t, err)
		assert.Equal(t, "direct", current.Name)

		_, err = m.ImportOAuth("", "", "")
		assert.True(t, errors.Is(err, errs.ErrDuplicateName))
	})

	t.Run("no live account", func(t *testing.T) {
		m, fs, layout := setupTestManager(t)
		_, err := m.ImportOAuth("pro", "", "")
		assert.True(t, errors.Is(err, errs.ErrNotFound))

		writeFile(t, fs, layout.AccountPath, `{"numStartups":1}`)
		_, err = m.ImportOAuth("pro", "", "")
		assert.True(t, errors.Is(err, errs.ErrNotFound))
	})
}

func TestAddOAuth(t *testing.T) {
	t.Run("first profile is activated", func(t *testing.T) {
		m, fs, layout := setupTestManager(t)
		writeFile(t, fs, layout.AccountPath, `{"oauthAccount":`+testAccount+`}`)
		writeFile(t, fs, layout.CredentialsPath, testCredentials)

		p, activated, err := m.AddOAuth("pro", "", "")
		require.NoError(t, err)
		assert.True(t, activated)
		assert.Equal(t, "Claude Pro - user@example.com", p.Description)

		current, err := m.Current()
		require.NoError(t, err)
		require.NotNil(t, current)
		assert.Equal(t, "pro", current.Name)
		assert.JSONEq(t, testCredentials, readFile(t, fs, layout.CredentialsPath))
	})

	t.Run("later profile stays inactive", func(t *testing.T) {
		m, fs, layout := setupTestManager(t)
		_, err := m.Add(models.NewAPIProfile("direct", "", "sk-1", "", ""), "")
		require.NoError(t, err)
		writeFile(t, fs, layout.AccountPath, `{"oauthAccount":`+testAccount+`}`)

		p, activated, err := m.AddOAuth("", "Team seat", "")
		require.NoError(t, err)
		assert.False(t, activated)
		assert.Equal(t, DefaultOAuthProfileName, p.Name)
		assert.Equal(t, "Team seat", p.Description)

		current, err := m.Current()
		require.NoError(t, err)
		assert.Equal(t, "direct", current.Name)
	})

	t.Run("no live account", func(t *testing.T) {
		m, _, _ := setupTestManager(t)
		_, _, err := m.AddOAuth("pro", "", "")
		assert.True(t, errors.Is(err, errs.ErrNotFound))
	})
}

func TestOAuthDescriptionFor(t *testing.T) {
	assert.Equal(t, "Claude Pro - a@b.c", OAuthDescriptionFor("a@b.c"))
	assert.Equal(t, DefaultOAuthProfileDescription, OAuthDescriptionFor(""))
}

func TestCaptureLiveCredentials(t *testing.T) {
	m, fs, layout := setupTestManager(t)
	_, err := m.Add(oauthProfile("pro", ""), "")
	require.NoError(t, err)

	changed, err := m.CaptureLiveCredentials()
	require.NoError(t, err)
	assert.False(t, changed, "live artifacts match the stored profile")

	refreshed := `{"claudeAiOauth":{"accessToken":"at-9"}}`
	writeFile(t, fs, layout.CredentialsPath, refreshed)
	changed, err = m.CaptureLiveCredentials()
	require.NoError(t, err)
	assert.True(t, changed)

	current, err := m.Current()
	require.NoError(t, err)
	assert.JSONEq(t, refreshed, string(current.OAuth.Credentials))
}

func TestCaptureIgnoresAPIProfile(t *testing.T) {
	m, fs, layout := setupTestManager(t)
	_, err := m.Add(models.NewAPIProfile("direct", "", "sk-1", "", ""), "")
	require.NoError(t, err)
	writeFile(t, fs, layout.CredentialsPath, testCredentials)

	changed, err := m.CaptureLiveCredentials()
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestCorruptStoreIsFatal(t *testing.T) {
	m, fs, layout := setupTestManager(t)
	writeFile(t, fs, layout.ProfilesPath(), `{"active": "a", "profiles": [`)

	for name, op := range map[string]func() error{
		"list":   func() error { _, err := m.List(); return err },
		"switch": func() error { _, err := m.Switch("a"); return err },
		"clear":  func() error { _, err := m.Clear(); return err },
		"add": func() error {
			_, err := m.Add(models.NewAPIProfile("b", "", "k", "", ""), "")
			return err
		},
	} {
		t.Run(name, func(t *testing.T) {
			err := op()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrCorruptStore), "got %v", err)
			assert.True(t, errs.IsFatal(err))
		})
	}
}

func TestDanglingActiveIsTreatedAsNone(t *testing.T) {
	m, fs, layout := setupTestManager(t)
	writeFile(t, fs, layout.ProfilesPath(), `{"active":"gone","profiles":[{"name":"a","description":"","api_key":"k"}]}`)

	current, err := m.Current()
	require.NoError(t, err)
	assert.Nil(t, current)

	env, err := m.RenderEnv()
	require.NoError(t, err)
	assert.NotContains(t, env, "export")

	_, err = m.Switch("a")
	require.NoError(t, err)
	assert.Equal(t, "a", gjson.Get(readFile(t, fs, layout.ProfilesPath()), "active").String())
}

// For any sequence of switches, the OAuth artifacts and apiKeyHelper are never
// present together, and the env file always matches the active profile.
func TestPropertySwitchMutualExclusion(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	names := []string{"pro", "direct", "ollama", "team"}

	properties.Property("oauth artifacts and apiKeyHelper are mutually exclusive", prop.ForAll(
		func(sequence []int) bool {
			m, fs, layout := setupTestManager(t)
			profiles := []models.Profile{
				oauthProfile("pro", ""),
				models.NewAPIProfile("direct", "", "sk-1", "", ""),
				models.NewAPIProfile("ollama", "", "", "http://127.0.0.1:11434", "qwen"),
				oauthProfile("team", "claude-opus"),
			}
			for _, p := range profiles {
				if _, err := m.Add(p, ""); err != nil {
					return false
				}
			}

			for _, idx := range sequence {
				name := names[idx]
				if _, err := m.Switch(name); err != nil {
					return false
				}

				settings, _ := afero.ReadFile(fs, layout.SettingsPath)
				account, _ := afero.ReadFile(fs, layout.AccountPath)
				env, _ := afero.ReadFile(fs, layout.EnvPath())
				credsExist, _ := afero.Exists(fs, layout.CredentialsPath)
				helper := gjson.GetBytes(settings, "apiKeyHelper").Exists()
				oauthAccount := gjson.GetBytes(account, "oauthAccount").Exists()

				isOAuth := name == "pro" || name == "team"
				if isOAuth != credsExist || isOAuth != oauthAccount || isOAuth == helper {
					return false
				}
				if isOAuth && strings.Contains(string(env), "export ANTHROPIC") {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, len(names)-1)),
	))

	properties.TestingRun(t)
}

// Saving and reloading a registry through the store yields equal profiles.
func TestPropertyRegistryRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("save then load preserves profiles", prop.ForAll(
		func(keys []string, withOAuth bool) bool {
			m, _, _ := setupTestManager(t)
			reg := models.NewRegistry()
			for i, key := range keys {
				_ = reg.Add(models.NewAPIProfile(fmt.Sprintf("p%d", i), "d", key, "", ""))
			}
			if withOAuth {
				_ = reg.Add(oauthProfile("pro", "claude-opus"))
			}
			if len(reg.Profiles) > 0 {
				reg.Active = reg.Profiles[0].Name
			}

			if err := m.Store().SaveRegistry(reg); err != nil {
				return false
			}
			loaded, err := m.Store().LoadRegistry()
			if err != nil {
				return false
			}
			if loaded.Active != reg.Active || len(loaded.Profiles) != len(reg.Profiles) {
				return false
			}
			for i := range reg.Profiles {
				want, _ := json.Marshal(reg.Profiles[i])
				got, _ := json.Marshal(loaded.Profiles[i])
				if string(want) != string(got) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
