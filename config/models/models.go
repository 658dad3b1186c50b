package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind discriminates how a profile authenticates
type Kind string

const (
	KindAPI   Kind = "api"
	KindOAuth Kind = "oauth"
)

// APIAuth holds the fields of an API key / proxy / local inference profile
type APIAuth struct {
	APIKey  string
	BaseURL string
}

// OAuthAuth holds the account identity and token material of a subscription profile
type OAuthAuth struct {
	AccountUUID      string
	OrganizationUUID string
	EmailAddress     string
	DisplayName      string
	OrganizationName string
	OrganizationRole string
	Credentials      json.RawMessage // Opaque token blob mirrored to the credentials file
	Account          json.RawMessage // Opaque oauthAccount blob mirrored to the account file
}

// Profile is a named configuration selecting one LLM access method.
// Exactly one of API and OAuth is set, matching Type.
type Profile struct {
	Name        string
	Description string
	Type        Kind
	Model       string // Optional model override written to settings
	API         *APIAuth
	OAuth       *OAuthAuth
}

// NewAPIProfile creates an API profile
func NewAPIProfile(name, description, apiKey, baseURL, model string) Profile {
	return Profile{
		Name:        name,
		Description: description,
		Type:        KindAPI,
		Model:       model,
		API:         &APIAuth{APIKey: apiKey, BaseURL: baseURL},
	}
}

// NewOAuthProfile creates an OAuth profile from extracted account data
func NewOAuthProfile(name, description, model string, auth OAuthAuth) Profile {
	return Profile{
		Name:        name,
		Description: description,
		Type:        KindOAuth,
		Model:       model,
		OAuth:       &auth,
	}
}

// IsOAuth reports whether the profile uses subscription auth
func (p *Profile) IsOAuth() bool {
	return p.Type == KindOAuth
}

// APIKey returns the configured API key, empty for OAuth profiles
func (p *Profile) APIKey() string {
	if p.API == nil {
		return ""
	}
	return p.API.APIKey
}

// BaseURL returns the configured base URL, empty for OAuth profiles
func (p *Profile) BaseURL() string {
	if p.API == nil {
		return ""
	}
	return p.API.BaseURL
}

// Validate checks the variant invariants of a profile
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	switch p.Type {
	case KindAPI:
		if p.API == nil || p.OAuth != nil {
			return fmt.Errorf("profile '%s': api profile must carry only api fields", p.Name)
		}
	case KindOAuth:
		if p.OAuth == nil || p.API != nil {
			return fmt.Errorf("profile '%s': oauth profile must carry only oauth fields", p.Name)
		}
		if err := validBlob(p.OAuth.Credentials); err != nil {
			return fmt.Errorf("profile '%s': credentials: %w", p.Name, err)
		}
		if err := validBlob(p.OAuth.Account); err != nil {
			return fmt.Errorf("profile '%s': oauthAccount: %w", p.Name, err)
		}
	default:
		return fmt.Errorf("profile '%s': unknown type %q", p.Name, p.Type)
	}
	return nil
}

// wireProfile is the flat on-disk representation of a profile
type wireProfile struct {
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Type             Kind            `json:"type"`
	APIKey           string          `json:"api_key,omitempty"`
	BaseURL          string          `json:"base_url,omitempty"`
	AccountUUID      string          `json:"accountUuid,omitempty"`
	OrganizationUUID string          `json:"organizationUuid,omitempty"`
	EmailAddress     string          `json:"emailAddress,omitempty"`
	DisplayName      string          `json:"displayName,omitempty"`
	OrganizationName string          `json:"organizationName,omitempty"`
	OrganizationRole string          `json:"organizationRole,omitempty"`
	Credentials      json.RawMessage `json:"credentials,omitempty"`
	OAuthAccount     json.RawMessage `json:"oauthAccount,omitempty"`
	Model            string          `json:"model,omitempty"`
}

// MarshalJSON writes the profile in the flat layout used by profiles.json
func (p Profile) MarshalJSON() ([]byte, error) {
	w := wireProfile{
		Name:        p.Name,
		Description: p.Description,
		Type:        p.Type,
		Model:       p.Model,
	}
	if p.API != nil {
		w.APIKey = p.API.APIKey
		w.BaseURL = p.API.BaseURL
	}
	if p.OAuth != nil {
		w.AccountUUID = p.OAuth.AccountUUID
		w.OrganizationUUID = p.OAuth.OrganizationUUID
		w.EmailAddress = p.OAuth.EmailAddress
		w.DisplayName = p.OAuth.DisplayName
		w.OrganizationName = p.OAuth.OrganizationName
		w.OrganizationRole = p.OAuth.OrganizationRole
		w.Credentials = p.OAuth.Credentials
		w.OAuthAccount = p.OAuth.Account
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the flat layout into the tagged variant and validates it
func (p *Profile) UnmarshalJSON(data []byte) error {
	var w wireProfile
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Type == "" {
		w.Type = KindAPI
	}

	decoded := Profile{
		Name:        w.Name,
		Description: w.Description,
		Type:        w.Type,
		Model:       w.Model,
	}
	switch w.Type {
	case KindAPI:
		decoded.API = &APIAuth{APIKey: w.APIKey, BaseURL: w.BaseURL}
	case KindOAuth:
		decoded.OAuth = &OAuthAuth{
			AccountUUID:      w.AccountUUID,
			OrganizationUUID: w.OrganizationUUID,
			EmailAddress:     w.EmailAddress,
			DisplayName:      w.DisplayName,
			OrganizationName: w.OrganizationName,
			OrganizationRole: w.OrganizationRole,
			Credentials:      Compact(w.Credentials),
			Account:          Compact(w.OAuthAccount),
		}
	}

	if err := decoded.Validate(); err != nil {
		return err
	}
	*p = decoded
	return nil
}

// Compact returns raw without insignificant whitespace; JSON null becomes nil
func Compact(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return json.RawMessage(buf.Bytes())
}

// validBlob accepts absent blobs and JSON objects
func validBlob(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return fmt.Errorf("expected a JSON object")
	}
	return nil
}
