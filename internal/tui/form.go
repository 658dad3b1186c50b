// Package tui provides the interactive profile menu
package tui

import (
	"errors"
	"fmt"
	"strings"

	"cpm/config/models"
	"cpm/internal/providers"
	"cpm/internal/utils"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// FormField represents the index of each form field
const (
	FormFieldName = iota
	FormFieldDescription
	FormFieldType
	FormFieldProvider
	FormFieldAPIKey
	FormFieldBaseURL
	FormFieldModel
	FormFieldCount // Total number of fields
)

// FormData represents the data collected from the add form
type FormData struct {
	Name        string
	Description string
	Type        string // "api" or "oauth", empty means api
	Provider    string // Optional preset name
	APIKey      string
	BaseURL     string
	Model       string
}

// Kind returns the profile kind selected in the form
func (f *FormData) Kind() models.Kind {
	if strings.EqualFold(strings.TrimSpace(f.Type), string(models.KindOAuth)) {
		return models.KindOAuth
	}
	return models.KindAPI
}

// Validate validates the form data
func (f *FormData) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.New("name cannot be empty")
	}

	kind := strings.ToLower(strings.TrimSpace(f.Type))
	if kind != "" && kind != string(models.KindAPI) && kind != string(models.KindOAuth) {
		return fmt.Errorf("type must be %q or %q", models.KindAPI, models.KindOAuth)
	}

	if f.Kind() == models.KindOAuth {
		// OAuth profiles are imported from the live session
		return nil
	}

	if name := strings.TrimSpace(f.Provider); name != "" {
		if _, err := providers.Get(name); err != nil {
			return err
		}
	}

	if strings.TrimSpace(f.BaseURL) != "" && !utils.ValidateURL(strings.TrimSpace(f.BaseURL)) {
		return errors.New("invalid URL format")
	}

	return nil
}

// Profile builds an API profile from the form, filling the preset's
// default base URL when none was entered
func (f *FormData) Profile() models.Profile {
	baseURL := strings.TrimSpace(f.BaseURL)
	if provider, err := providers.Get(strings.TrimSpace(f.Provider)); err == nil {
		if baseURL == "" {
			baseURL = provider.DefaultBaseURL()
		}
		baseURL = provider.NormalizeConfig(baseURL)
	}
	return models.NewAPIProfile(
		strings.TrimSpace(f.Name),
		strings.TrimSpace(f.Description),
		strings.TrimSpace(f.APIKey),
		baseURL,
		strings.TrimSpace(f.Model),
	)
}

// Form styles
var (
	formLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	formFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true).
				Width(14)

	formErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	formHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

func newFormInput(placeholder string, limit int) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = limit
	input.Width = 40
	input.Prompt = ""
	return input
}

// FormInputs creates and initializes the add form input fields
func FormInputs() []textinput.Model {
	inputs := make([]textinput.Model, FormFieldCount)

	inputs[FormFieldName] = newFormInput("work", 50)
	inputs[FormFieldDescription] = newFormInput("Work API key", 128)
	inputs[FormFieldType] = newFormInput("api", 5)
	inputs[FormFieldProvider] = newFormInput(strings.Join(providers.List(), ", "), 32)

	inputs[FormFieldAPIKey] = newFormInput("sk-ant-...", 256)
	inputs[FormFieldAPIKey].EchoMode = textinput.EchoPassword
	inputs[FormFieldAPIKey].EchoCharacter = '•'

	inputs[FormFieldBaseURL] = newFormInput("https://api.example.com", 256)
	inputs[FormFieldModel] = newFormInput("claude-sonnet-4-20250514", 128)

	inputs[FormFieldName].Focus()

	return inputs
}

// GetFormData extracts FormData from form inputs
func GetFormData(inputs []textinput.Model) FormData {
	return FormData{
		Name:        inputs[FormFieldName].Value(),
		Description: inputs[FormFieldDescription].Value(),
		Type:        inputs[FormFieldType].Value(),
		Provider:    inputs[FormFieldProvider].Value(),
		APIKey:      inputs[FormFieldAPIKey].Value(),
		BaseURL:     inputs[FormFieldBaseURL].Value(),
		Model:       inputs[FormFieldModel].Value(),
	}
}

// SetFormData populates form inputs
func SetFormData(inputs []textinput.Model, data FormData) {
	inputs[FormFieldName].SetValue(data.Name)
	inputs[FormFieldDescription].SetValue(data.Description)
	inputs[FormFieldType].SetValue(data.Type)
	inputs[FormFieldProvider].SetValue(data.Provider)
	inputs[FormFieldAPIKey].SetValue(data.APIKey)
	inputs[FormFieldBaseURL].SetValue(data.BaseURL)
	inputs[FormFieldModel].SetValue(data.Model)
}

// FormLabels returns the labels for each form field
func FormLabels() []string {
	return []string{
		"Name:",
		"Description:",
		"Type:",
		"Provider:",
		"API Key:",
		"Base URL:",
		"Model:",
	}
}

// FormHints returns the hint text for each form field
func FormHints() []string {
	return []string{
		"Unique profile name",
		"Shown next to the name in lists (optional)",
		"api, or oauth to import the current login",
		"Preset that fills the base URL (optional)",
		"Leave empty for local servers",
		"Proxy or local server URL (optional)",
		"Model override (optional)",
	}
}

// RenderForm renders the form view with inputs
func RenderForm(inputs []textinput.Model, focusIndex int, title string, errorMsg string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", 50)))
	b.WriteString("\n\n")

	labels := FormLabels()
	hints := FormHints()

	for i, input := range inputs {
		if i == focusIndex {
			b.WriteString(formFocusedStyle.Render(labels[i]))
		} else {
			b.WriteString(formLabelStyle.Render(labels[i]))
		}
		b.WriteString(" ")
		b.WriteString(input.View())
		b.WriteString("\n")

		if i == focusIndex {
			b.WriteString(formLabelStyle.Render(""))
			b.WriteString(" ")
			b.WriteString(formHintStyle.Render(hints[i]))
			b.WriteString("\n")
		}
	}

	if errorMsg != "" {
		b.WriteString("\n")
		b.WriteString(formErrorStyle.Render("✗ " + errorMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", 50)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Tab/↓: next │ Shift+Tab/↑: previous │ Enter: save │ Esc: cancel"))

	return b.String()
}

// NextFormField moves focus to the next form field
func NextFormField(inputs []textinput.Model, currentFocus int) int {
	inputs[currentFocus].Blur()
	nextFocus := (currentFocus + 1) % len(inputs)
	inputs[nextFocus].Focus()
	return nextFocus
}

// PrevFormField moves focus to the previous form field
func PrevFormField(inputs []textinput.Model, currentFocus int) int {
	inputs[currentFocus].Blur()
	prevFocus := currentFocus - 1
	if prevFocus < 0 {
		prevFocus = len(inputs) - 1
	}
	inputs[prevFocus].Focus()
	return prevFocus
}
