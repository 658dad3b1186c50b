package sync

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"cpm/config/models"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Settings keys owned by the profile manager
const (
	KeyAPIKeyHelper = "apiKeyHelper"
	KeyModel        = "model"
	KeyEnv          = "env"
	KeyEnvBaseURL   = "env." + BaseURLVar
)

// PlaceholderAPIKey is emitted by apiKeyHelper when an API profile has no key (e.g. Ollama)
const PlaceholderAPIKey = "ollama"

var plainShellWord = regexp.MustCompile(`^[A-Za-z0-9._:/+=@%-]+$`)

// PatchSettings applies profile to the assistant settings document.
// found=false means no usable document exists yet. A nil profile removes every managed key.
// Keys outside apiKeyHelper, model and env.ANTHROPIC_BASE_URL are preserved byte for byte.
func PatchSettings(original []byte, found bool, profile *models.Profile) ([]byte, error) {
	doc := original
	if !found {
		doc = []byte("{}")
	}

	var err error
	switch {
	case profile == nil:
		doc, err = deleteKeys(doc, KeyAPIKeyHelper, KeyEnvBaseURL, KeyModel)
	case profile.IsOAuth():
		doc, err = deleteKeys(doc, KeyAPIKeyHelper, KeyEnvBaseURL)
		if err == nil {
			doc, err = setOrDelete(doc, KeyModel, profile.Model)
		}
	default:
		doc, err = sjson.SetBytes(doc, KeyAPIKeyHelper, APIKeyHelperCommand(profile.APIKey()))
		if err == nil {
			doc, err = setOrDelete(doc, KeyEnvBaseURL, profile.BaseURL())
		}
		if err == nil {
			doc, err = setOrDelete(doc, KeyModel, profile.Model)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	doc, err = dropEmptyEnv(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	if !found {
		doc = pretty.Pretty(doc)
	} else if err := validateSettingsUpdate(original, doc); err != nil {
		return nil, fmt.Errorf("update validation failed: %w", err)
	}

	return doc, nil
}

// APIKeyHelperCommand returns the echo command the assistant runs to obtain the key
func APIKeyHelperCommand(apiKey string) string {
	if apiKey == "" {
		apiKey = PlaceholderAPIKey
	}
	if plainShellWord.MatchString(apiKey) {
		return "echo " + apiKey
	}
	return "echo '" + strings.ReplaceAll(apiKey, "'", `'\''`) + "'"
}

func setOrDelete(doc []byte, path, value string) ([]byte, error) {
	if value == "" {
		return deleteKeys(doc, path)
	}
	return sjson.SetBytes(doc, path, value)
}

func deleteKeys(doc []byte, paths ...string) ([]byte, error) {
	for _, path := range paths {
		if !gjson.GetBytes(doc, path).Exists() {
			continue
		}
		updated, err := sjson.DeleteBytes(doc, path)
		if err != nil {
			return nil, err
		}
		doc = updated
	}
	return doc, nil
}

// dropEmptyEnv removes an env object left without entries
func dropEmptyEnv(doc []byte) ([]byte, error) {
	env := gjson.GetBytes(doc, KeyEnv)
	if !env.IsObject() {
		return doc, nil
	}
	if len(env.Map()) > 0 {
		return doc, nil
	}
	return sjson.DeleteBytes(doc, KeyEnv)
}

// validateSettingsUpdate checks that only managed keys differ between the two documents
func validateSettingsUpdate(originalContent, updatedContent []byte) error {
	if !json.Valid(updatedContent) {
		return fmt.Errorf("updated JSON is invalid")
	}

	var original, updated map[string]interface{}
	if err := json.Unmarshal(originalContent, &original); err != nil {
		return fmt.Errorf("failed to parse original JSON: %w", err)
	}
	if err := json.Unmarshal(updatedContent, &updated); err != nil {
		return fmt.Errorf("failed to parse updated JSON: %w", err)
	}

	stripManaged(original)
	stripManaged(updated)

	differences := deepCompare(original, updated)
	if len(differences) > 0 {
		return fmt.Errorf("unexpected changes to unmanaged fields: %s", strings.Join(differences, ", "))
	}
	return nil
}

// stripManaged removes the owned keys so the rest can be compared
func stripManaged(doc map[string]interface{}) {
	delete(doc, KeyAPIKeyHelper)
	delete(doc, KeyModel)
	if env, ok := doc[KeyEnv].(map[string]interface{}); ok {
		delete(env, BaseURLVar)
		if len(env) == 0 {
			delete(doc, KeyEnv)
		}
	}
}

// deepCompare compares two maps and returns a list of differing fields
func deepCompare(original, updated map[string]interface{}) []string {
	var differences []string

	for key, originalVal := range original {
		updatedVal, exists := updated[key]
		if !exists {
			differences = append(differences, key+" (missing)")
			continue
		}

		originalMap, originalIsMap := originalVal.(map[string]interface{})
		updatedMap, updatedIsMap := updatedVal.(map[string]interface{})
		if originalIsMap && updatedIsMap {
			for _, diff := range deepCompare(originalMap, updatedMap) {
				differences = append(differences, key+"."+diff)
			}
			continue
		}

		if fmt.Sprintf("%v", originalVal) != fmt.Sprintf("%v", updatedVal) {
			differences = append(differences, key)
		}
	}

	for key := range updated {
		if _, exists := original[key]; !exists {
			differences = append(differences, key+" (new)")
		}
	}

	return differences
}
