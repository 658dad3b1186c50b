package validation

import (
	"fmt"
	"strconv"
	"strings"

	"cpm/internal/utils"
)

// MaxNameLength bounds profile names so the list view stays aligned
const MaxNameLength = 50

// InputValidator validates user input
type InputValidator struct {
}

// NewInputValidator creates a new InputValidator
func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// ValidateName checks if a profile name is valid
func (iv *InputValidator) ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if strings.ContainsAny(name, "<>\"'&/\\ \t\n") {
		return fmt.Errorf("profile name contains invalid characters")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("profile name is too long (max %d characters)", MaxNameLength)
	}
	// Numbers select profiles by position in remove and the menu
	if _, err := strconv.Atoi(name); err == nil {
		return fmt.Errorf("profile name cannot be a number")
	}
	return nil
}

// ValidateURL checks if a URL is valid; empty is allowed
func (iv *InputValidator) ValidateURL(url string) error {
	if url != "" && !utils.ValidateURL(url) {
		return fmt.Errorf("invalid URL format: %s", url)
	}
	return nil
}

// ValidateModelName checks an optional model override
func (iv *InputValidator) ValidateModelName(model string) error {
	if model == "" {
		return nil
	}
	if strings.ContainsAny(model, "<>\"'&\\ \t\n") {
		return fmt.Errorf("model name contains invalid characters")
	}
	return nil
}
