package sync

import (
	"testing"

	"cpm/config/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestPatchSettingsAPIProfile(t *testing.T) {
	original := []byte(`{"theme":"dark","env":{"OTHER":"1"},"model":"old"}`)
	p := models.NewAPIProfile("proxy", "", "sk-1", "http://localhost:4000", "claude-sonnet")

	patched, err := PatchSettings(original, true, &p)
	require.NoError(t, err)

	assert.Equal(t, "echo sk-1", gjson.GetBytes(patched, "apiKeyHelper").String())
	assert.Equal(t, "http://localhost:4000", gjson.GetBytes(patched, "env.ANTHROPIC_BASE_URL").String())
	assert.Equal(t, "1", gjson.GetBytes(patched, "env.OTHER").String())
	assert.Equal(t, "claude-sonnet", gjson.GetBytes(patched, "model").String())
	assert.Equal(t, "dark", gjson.GetBytes(patched, "theme").String())
}

func TestPatchSettingsPlaceholderKey(t *testing.T) {
	p := models.NewAPIProfile("ollama", "", "", "http://127.0.0.1:11434", "")
	patched, err := PatchSettings(nil, false, &p)
	require.NoError(t, err)
	assert.Equal(t, "echo ollama", gjson.GetBytes(patched, "apiKeyHelper").String())
	assert.False(t, gjson.GetBytes(patched, "model").Exists())
}

func TestPatchSettingsOAuthProfile(t *testing.T) {
	original := []byte(`{"apiKeyHelper":"echo sk","env":{"ANTHROPIC_BASE_URL":"http://x"},"hooks":{"a":[1]}}`)
	p := models.NewOAuthProfile("pro", "", "claude-opus", models.OAuthAuth{})

	patched, err := PatchSettings(original, true, &p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"hooks":{"a":[1]},"model":"claude-opus"}`, string(patched))
}

func TestPatchSettingsClear(t *testing.T) {
	original := []byte(`{"apiKeyHelper":"echo sk","model":"m","env":{"ANTHROPIC_BASE_URL":"http://x","KEEP":"y"}}`)

	patched, err := PatchSettings(original, true, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"env":{"KEEP":"y"}}`, string(patched))
}

func TestPatchSettingsPreservesUnownedBytes(t *testing.T) {
	original := []byte("{\n  \"permissions\": {\"allow\": [\"Bash(ls:*)\"]},\n  \"model\": \"old\"\n}")
	p := models.NewAPIProfile("d", "", "k", "", "")

	patched, err := PatchSettings(original, true, &p)
	require.NoError(t, err)
	assert.Contains(t, string(patched), "\"permissions\": {\"allow\": [\"Bash(ls:*)\"]}")
}

func TestPatchSettingsIsIdempotent(t *testing.T) {
	p := models.NewAPIProfile("d", "", "k", "https://api.example.com", "m")
	once, err := PatchSettings([]byte(`{"theme":"dark"}`), true, &p)
	require.NoError(t, err)
	twice, err := PatchSettings(once, true, &p)
	require.NoError(t, err)
	assert.Equal(t, string(once), string(twice))
}

func TestAPIKeyHelperCommand(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "echo ollama"},
		{"sk-ant-api03-abc_DEF", "echo sk-ant-api03-abc_DEF"},
		{"has space", "echo 'has space'"},
		{"it's", `echo 'it'\''s'`},
		{"$(rm)", "echo '$(rm)'"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, APIKeyHelperCommand(tt.key), tt.key)
	}
}

func TestValidateSettingsUpdate(t *testing.T) {
	assert.NoError(t, validateSettingsUpdate([]byte(`{"a":1}`), []byte(`{"a":1,"model":"m"}`)))
	assert.Error(t, validateSettingsUpdate([]byte(`{"a":1}`), []byte(`{"a":2}`)))
	assert.Error(t, validateSettingsUpdate([]byte(`{"a":1}`), []byte(`{"a":1,"b":2}`)))
	assert.Error(t, validateSettingsUpdate([]byte(`{"a":{"x":1}}`), []byte(`{"a":{}}`)))
}
