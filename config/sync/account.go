package sync

import (
	"encoding/json"
	"fmt"

	"cpm/config/models"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// KeyOAuthAccount is the only account file key owned by the profile manager
const KeyOAuthAccount = "oauthAccount"

// SetOAuthAccount stores account under oauthAccount, creating the document when found is false
func SetOAuthAccount(original []byte, found bool, account json.RawMessage) ([]byte, error) {
	doc := original
	if !found {
		doc = []byte("{}")
	}

	updated, err := sjson.SetRawBytes(doc, KeyOAuthAccount, account)
	if err != nil {
		return nil, fmt.Errorf("failed to update oauthAccount: %w", err)
	}
	if !found {
		updated = pretty.Pretty(updated)
	}
	return updated, nil
}

// RemoveOAuthAccount deletes oauthAccount; changed is false when it was already absent
func RemoveOAuthAccount(original []byte) (updated []byte, changed bool, err error) {
	if !gjson.GetBytes(original, KeyOAuthAccount).Exists() {
		return original, false, nil
	}
	updated, err = sjson.DeleteBytes(original, KeyOAuthAccount)
	if err != nil {
		return nil, false, fmt.Errorf("failed to remove oauthAccount: %w", err)
	}
	return updated, true, nil
}

// ExtractOAuthAccount returns the oauthAccount object of an account document
func ExtractOAuthAccount(doc []byte) (json.RawMessage, bool) {
	result := gjson.GetBytes(doc, KeyOAuthAccount)
	if !result.IsObject() {
		return nil, false
	}
	return models.Compact(json.RawMessage(result.Raw)), true
}

// OAuthAuthFromAccount builds the stored identity from a live oauthAccount blob and credentials
func OAuthAuthFromAccount(account json.RawMessage, credentials json.RawMessage) models.OAuthAuth {
	get := func(key string) string {
		return gjson.GetBytes(account, key).String()
	}
	return models.OAuthAuth{
		AccountUUID:      get("accountUuid"),
		OrganizationUUID: get("organizationUuid"),
		EmailAddress:     get("emailAddress"),
		DisplayName:      get("displayName"),
		OrganizationName: get("organizationName"),
		OrganizationRole: get("organizationRole"),
		Credentials:      models.Compact(credentials),
		Account:          models.Compact(account),
	}
}
