package sync

import (
	"strings"

	"cpm/config/models"
)

// Field names an env var can be projected from
const (
	FieldAPIKey  = "api_key"
	FieldBaseURL = "base_url"
)

// Env vars with special handling
const (
	AuthTokenVar = "ANTHROPIC_AUTH_TOKEN"
	APIKeyVar    = "ANTHROPIC_API_KEY"
	BaseURLVar   = "ANTHROPIC_BASE_URL"
)

// EnvMapping binds an environment variable to the profile field it exports
type EnvMapping struct {
	Name  string
	Field string
}

// EnvVarMapping is the fixed, ordered projection table
var EnvVarMapping = []EnvMapping{
	{Name: "LITELLM_PROXY_API_KEY", Field: FieldAPIKey},
	{Name: "LITELLM_PROXY_URL", Field: FieldBaseURL},
	{Name: "GEMINI_API_KEY", Field: FieldAPIKey},
	{Name: "GEMINI_BASE_URL", Field: FieldBaseURL},
	{Name: "OPENAI_API_KEY", Field: FieldAPIKey},
	{Name: "OPENAI_BASE_URL", Field: FieldBaseURL},
	{Name: AuthTokenVar, Field: FieldAPIKey},
	{Name: APIKeyVar, Field: FieldAPIKey},
	{Name: BaseURLVar, Field: FieldBaseURL},
}

// ConstantEnvVar is exported whenever a profile is active
type ConstantEnvVar struct {
	Name  string
	Value string
}

// ConstantEnvVars are exported regardless of profile type
var ConstantEnvVars = []ConstantEnvVar{
	{Name: "OLLAMA_API_BASE", Value: "http://127.0.0.1:11434"},
}

// EnvAssignment is one line of the projection: an export when Set, otherwise an unset
type EnvAssignment struct {
	Name  string
	Value string
	Set   bool
}

// ProjectEnv computes the environment for profile; nil means no active profile
func ProjectEnv(profile *models.Profile) []EnvAssignment {
	assignments := make([]EnvAssignment, 0, len(EnvVarMapping)+len(ConstantEnvVars))

	for _, m := range EnvVarMapping {
		a := EnvAssignment{Name: m.Name}
		// OAuth is managed by the assistant itself, and the auth token var is
		// reserved for it, so neither may leak from an API profile
		if profile != nil && !profile.IsOAuth() && m.Name != AuthTokenVar {
			if value := fieldValue(profile, m.Field); value != "" {
				a.Value = value
				a.Set = true
			}
		}
		assignments = append(assignments, a)
	}

	for _, c := range ConstantEnvVars {
		assignments = append(assignments, EnvAssignment{
			Name:  c.Name,
			Value: c.Value,
			Set:   profile != nil,
		})
	}

	return assignments
}

// GenerateEnvScript renders the projection as a POSIX-sourceable script
func GenerateEnvScript(profile *models.Profile) string {
	var b strings.Builder
	for _, a := range ProjectEnv(profile) {
		if a.Set {
			b.WriteString("export " + a.Name + "=\"" + shellEscape(a.Value) + "\"\n")
		} else {
			b.WriteString("unset " + a.Name + "\n")
		}
	}
	return b.String()
}

func fieldValue(profile *models.Profile, field string) string {
	switch field {
	case FieldAPIKey:
		return profile.APIKey()
	case FieldBaseURL:
		return profile.BaseURL()
	}
	return ""
}

// shellEscape escapes the characters that stay special inside double quotes
func shellEscape(value string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		`$`, `\$`,
		"`", "\\`",
	)
	return replacer.Replace(value)
}
