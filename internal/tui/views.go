package tui

import (
	"fmt"
	"strings"

	"cpm/config/models"
	"cpm/internal/utils"

	"github.com/charmbracelet/lipgloss"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(true)

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	activeSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Background(lipgloss.Color("57")).
				Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))
)

// Badge returns the list badge for a profile kind
func Badge(p models.Profile) string {
	if p.IsOAuth() {
		return "[OAuth]"
	}
	return "[API]"
}

// RenderMainView renders the main list view
func (m Model) RenderMainView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Claude Profile Manager"))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.getEffectiveWidth(40))))
	b.WriteString("\n\n")

	if len(m.profiles) == 0 {
		b.WriteString(dimStyle.Render("No profiles yet, press 'a' to add one"))
		b.WriteString("\n")
	} else {
		visibleHeight := m.getVisibleListHeight()
		startIdx := m.scrollOffset
		endIdx := startIdx + visibleHeight
		if endIdx > len(m.profiles) {
			endIdx = len(m.profiles)
		}

		if startIdx > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ↑ %d more...", startIdx)))
			b.WriteString("\n")
		}

		for i := startIdx; i < endIdx; i++ {
			b.WriteString(m.renderProfileLine(i, m.profiles[i]))
			b.WriteString("\n")
		}

		if endIdx < len(m.profiles) {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ↓ %d more...", len(m.profiles)-endIdx)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.getEffectiveWidth(40))))
	b.WriteString("\n")
	b.WriteString(m.RenderStatusBar())

	return b.String()
}

// getEffectiveWidth returns the effective width for rendering, with a minimum and maximum
func (m Model) getEffectiveWidth(defaultWidth int) int {
	if m.width <= 0 {
		return defaultWidth
	}
	maxWidth := 80
	if m.width < maxWidth {
		return m.width - 2
	}
	return maxWidth
}

// renderProfileLine renders a single profile line in the list
func (m Model) renderProfileLine(index int, p models.Profile) string {
	isSelected := index == m.cursor
	isActive := p.Name == m.active

	cursor := "  "
	if isSelected {
		cursor = "> "
	}

	activeMarker := "  "
	if isActive {
		activeMarker = "* "
	}

	description := ""
	if p.Description != "" {
		description = " - " + m.truncateText(p.Description, 40)
	}

	content := fmt.Sprintf("%s%s%d. %-7s %s%s", cursor, activeMarker, index+1, Badge(p), p.Name, description)

	switch {
	case isSelected && isActive:
		return activeSelectedStyle.Render(content)
	case isSelected:
		return selectedStyle.Render(content)
	case isActive:
		return activeStyle.Render(content)
	}
	return normalStyle.Render(content)
}

// Detail view styles
var (
	detailLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Width(14)

	detailValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	detailActiveTagStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Background(lipgloss.Color("22")).
				Bold(true).
				Padding(0, 1)

	detailSectionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)

	detailMaskedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))
)

func (m Model) renderDetailRow(b *strings.Builder, label, value, empty string) {
	b.WriteString(detailLabelStyle.Render(label))
	if value != "" {
		b.WriteString(detailValueStyle.Render(m.truncateText(value, m.getEffectiveWidth(40)-16)))
	} else {
		b.WriteString(dimStyle.Render(empty))
	}
	b.WriteString("\n")
}

// RenderDetailView renders the detail view
func (m Model) RenderDetailView() string {
	var b strings.Builder

	if m.selected < 0 || m.selected >= len(m.profiles) {
		return dimStyle.Render("No profile selected, press 'i' on a profile to view it")
	}

	p := m.profiles[m.selected]
	effectiveWidth := m.getEffectiveWidth(40)

	b.WriteString(titleStyle.Render("Profile Details"))
	if p.Name == m.active {
		b.WriteString("  ")
		b.WriteString(detailActiveTagStyle.Render("★ active"))
	}
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", effectiveWidth)))
	b.WriteString("\n\n")

	b.WriteString(detailSectionStyle.Render("General"))
	b.WriteString("\n")
	m.renderDetailRow(&b, "Name:", p.Name, "")
	m.renderDetailRow(&b, "Description:", p.Description, "(none)")
	m.renderDetailRow(&b, "Type:", string(p.Type), "")
	m.renderDetailRow(&b, "Model:", p.Model, "(default)")
	b.WriteString("\n")

	b.WriteString(detailSectionStyle.Render("Authentication"))
	b.WriteString("\n")
	if p.IsOAuth() && p.OAuth != nil {
		m.renderDetailRow(&b, "Email:", p.OAuth.EmailAddress, "(unknown)")
		m.renderDetailRow(&b, "Account:", p.OAuth.DisplayName, "(unknown)")
		m.renderDetailRow(&b, "Organization:", p.OAuth.OrganizationName, "(none)")
		m.renderDetailRow(&b, "Role:", p.OAuth.OrganizationRole, "(none)")
		tokens := "stored"
		if len(p.OAuth.Credentials) == 0 {
			tokens = ""
		}
		m.renderDetailRow(&b, "Tokens:", tokens, "(not captured)")
	} else {
		b.WriteString(detailLabelStyle.Render("API Key:"))
		if key := p.APIKey(); key != "" {
			b.WriteString(detailMaskedStyle.Render(utils.MaskAPIKey(key)))
		} else {
			b.WriteString(dimStyle.Render("(none)"))
		}
		b.WriteString("\n")
		m.renderDetailRow(&b, "Base URL:", p.BaseURL(), "(default)")
		if host := utils.ExtractHost(p.BaseURL()); host != "" {
			m.renderDetailRow(&b, "Host:", host, "")
		}
	}

	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", effectiveWidth)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Enter: switch │ d: delete │ Esc: back"))

	return b.String()
}

// truncateText truncates text to fit within maxWidth, adding ellipsis if needed
func (m Model) truncateText(text string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if len(text) <= maxWidth {
		return text
	}
	return text[:maxWidth-3] + "..."
}

// RenderDeleteConfirm renders the delete confirmation dialog
func (m Model) RenderDeleteConfirm() string {
	var b strings.Builder
	effectiveWidth := m.getEffectiveWidth(40)

	b.WriteString(titleStyle.Render("Confirm Delete"))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", effectiveWidth)))
	b.WriteString("\n\n")

	if m.hasCursorProfile() {
		p := m.profiles[m.cursor]

		b.WriteString(errorStyle.Render("⚠ This cannot be undone!"))
		b.WriteString("\n\n")
		b.WriteString(normalStyle.Render("Delete profile: "))
		b.WriteString(selectedStyle.Render(p.Name))
		b.WriteString("\n\n")

		if p.Name == m.active {
			b.WriteString(errorStyle.Render("This is the active profile. The first remaining profile will be activated."))
			b.WriteString("\n\n")
		}
	} else {
		b.WriteString(errorStyle.Render("No profile selected"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", effectiveWidth)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("y: delete │ n/Esc: cancel"))

	return b.String()
}

// RenderHelpView renders the help panel with scrolling support
func (m Model) RenderHelpView() string {
	var b strings.Builder
	effectiveWidth := m.getEffectiveWidth(50)

	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", effectiveWidth)))
	b.WriteString("\n")

	helpLines := m.buildHelpLines()

	visibleHeight := m.getVisibleHelpHeight()
	startIdx := m.helpScrollOffset
	endIdx := startIdx + visibleHeight
	if endIdx > len(helpLines) {
		endIdx = len(helpLines)
	}

	if startIdx > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ↑ %d more lines...", startIdx)))
	}
	b.WriteString("\n")

	for i := startIdx; i < endIdx; i++ {
		b.WriteString(helpLines[i])
	}

	if endIdx < len(helpLines) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ↓ %d more lines...", len(helpLines)-endIdx)))
		b.WriteString("\n")
	}

	b.WriteString(separatorStyle.Render(strings.Repeat("─", effectiveWidth)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k: scroll │ q/Esc: back"))

	return b.String()
}

// buildHelpLines builds all help content lines for scrolling
func (m Model) buildHelpLines() []string {
	keys := DefaultKeyMap()
	sections := []string{"Navigation", "Profiles", "General"}

	var lines []string
	for i, group := range keys.FullHelp() {
		lines = append(lines, detailSectionStyle.Render(sections[i])+"\n")
		for _, k := range group {
			lines = append(lines, renderHelpLine(k.Help().Key, k.Help().Desc))
		}
		lines = append(lines, "\n")
	}
	return lines
}

// renderHelpLine renders a single help line with key and description
func renderHelpLine(key, desc string) string {
	keyStyled := helpKeyStyle.Render(fmt.Sprintf("  %-10s", key))
	descStyled := normalStyle.Render(desc)
	return fmt.Sprintf("%s %s\n", keyStyled, descStyled)
}

// RenderStatusBar renders the bottom status bar
func (m Model) RenderStatusBar() string {
	var b strings.Builder

	if m.errorMsg != "" {
		b.WriteString(errorStyle.Render("✗ Error: " + m.errorMsg))
		b.WriteString("\n")
	}
	if m.message != "" {
		b.WriteString(messageStyle.Render("✓ " + m.message))
		b.WriteString("\n")
	}
	if m.errorMsg != "" || m.message != "" {
		b.WriteString("\n")
	}

	keys := DefaultKeyMap()
	shortHelp := keys.ShortHelp()
	hints := make([]string, 0, len(shortHelp))
	for _, k := range shortHelp {
		hints = append(hints, fmt.Sprintf("%s %s", helpKeyStyle.Render(k.Help().Key), helpStyle.Render(k.Help().Desc)))
	}
	b.WriteString(strings.Join(hints, helpStyle.Render(" │ ")))

	return b.String()
}
