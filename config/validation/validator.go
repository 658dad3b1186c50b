package validation

import (
	"fmt"

	"cpm/config/models"
	"cpm/internal/errs"
	"cpm/internal/providers"
)

// Validator validates profiles before they enter the registry
type Validator struct {
	input *InputValidator
}

// NewValidator creates a new Validator
func NewValidator() *Validator {
	return &Validator{input: NewInputValidator()}
}

// ValidateProfile validates a profile
func (v *Validator) ValidateProfile(p models.Profile) error {
	if err := v.input.ValidateName(p.Name); err != nil {
		return errs.Invalid("validate profile", err)
	}
	if err := p.Validate(); err != nil {
		return errs.Invalid("validate profile", err)
	}
	if err := v.input.ValidateModelName(p.Model); err != nil {
		return errs.Invalid("validate profile", err)
	}
	if p.API != nil {
		if err := v.input.ValidateURL(p.API.BaseURL); err != nil {
			return errs.Invalid("validate profile", err)
		}
	}
	return nil
}

// ValidateForProvider additionally applies the preset's requirements to an API profile
func (v *Validator) ValidateForProvider(p models.Profile, providerName string) error {
	if err := v.ValidateProfile(p); err != nil {
		return err
	}
	if providerName == "" || p.IsOAuth() {
		return nil
	}

	provider, err := providers.Get(providerName)
	if err != nil {
		return errs.Invalid("validate profile", fmt.Errorf("unknown API provider: %s", providerName))
	}
	if err := provider.ValidateConfig(p.BaseURL(), p.APIKey()); err != nil {
		return errs.Invalid("validate profile", err)
	}
	return nil
}
