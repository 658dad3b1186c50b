package tui

import (
	"strings"

	"cpm/config"
	"cpm/config/models"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view state
type ViewState int

const (
	ViewMain   ViewState = iota // Main list view
	ViewDetail                  // Detail view
	ViewAdd                     // Add profile form
	ViewDelete                  // Delete confirmation dialog
	ViewHelp                    // Help panel
)

// ApplyMessage is shown when the menu exits so the shell wrapper can reload the environment
const ApplyMessage = "Exiting to apply changes..."

// Model is the core state model for TUI
type Model struct {
	profiles  []models.Profile // Profile list in registry order
	active    string           // Active profile name, empty if none
	cursor    int              // Current cursor position
	selected  int              // Profile shown in the detail view
	viewState ViewState        // Current view state
	manager   *config.Manager

	// Form related
	formInputs []textinput.Model
	formFocus  int

	// Messages and errors
	message  string
	errorMsg string

	// Window size
	width  int
	height int

	scrollOffset     int // Scroll offset for main list view
	helpScrollOffset int // Scroll offset for help view

	addOnEmpty bool // Open the add form when the first load finds no profiles
	applied    bool // A change to the active profile was committed
}

// NewModel creates a new TUI model
func NewModel(manager *config.Manager) Model {
	return Model{
		profiles:   []models.Profile{},
		selected:   -1,
		viewState:  ViewMain,
		manager:    manager,
		formInputs: []textinput.Model{},
		width:      80,
		height:     24,
	}
}

// NewFirstRunModel creates a model that opens the add form when no profiles exist
func NewFirstRunModel(manager *config.Manager) Model {
	m := NewModel(manager)
	m.addOnEmpty = true
	return m
}

// Applied reports whether the session changed the active profile
func (m Model) Applied() bool {
	return m.applied
}

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	return loadProfiles(m.manager)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.adjustScrollOffset()
		return m, nil

	case ProfilesLoadedMsg:
		m.profiles = msg.Profiles
		m.active = msg.Active
		if len(m.profiles) > 0 && m.cursor >= len(m.profiles) {
			m.cursor = len(m.profiles) - 1
		}
		if m.selected >= len(m.profiles) {
			m.selected = -1
		}
		m.adjustScrollOffset()
		if m.addOnEmpty {
			m.addOnEmpty = false
			if len(m.profiles) == 0 {
				m.initAddForm()
				m.message = "No profiles yet, add your first one"
			}
		}
		return m, nil

	case ProfileSwitchedMsg:
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.active = msg.Name
		return m.exitToApply("Switched to " + msg.Name)

	case ProfileClearedMsg:
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.active = ""
		return m.exitToApply("Cleared active profile")

	case ProfileAddedMsg:
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.viewState = ViewMain
		m.formInputs = []textinput.Model{}
		m.formFocus = 0
		if msg.Activated {
			m.active = msg.Profile.Name
			return m.exitToApply("Added and activated " + msg.Profile.Name)
		}
		m.message = "Added profile " + msg.Profile.Name
		return m, loadProfiles(m.manager)

	case ProfileDeletedMsg:
		m.viewState = ViewMain
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		switch {
		case msg.Result.NewActive != "":
			m.active = msg.Result.NewActive
			return m.exitToApply("Removed " + msg.Result.Removed.Name + ", switched to " + msg.Result.NewActive)
		case msg.Result.Cleared:
			m.active = ""
			return m.exitToApply("Removed " + msg.Result.Removed.Name + ", no profile is active")
		}
		m.message = "Removed profile " + msg.Result.Removed.Name
		return m, loadProfiles(m.manager)

	case errMsg:
		m.errorMsg = string(msg)
		return m, nil
	}

	return m, nil
}

// exitToApply records a committed change and quits so the caller can reload the environment
func (m Model) exitToApply(message string) (tea.Model, tea.Cmd) {
	m.applied = true
	m.errorMsg = ""
	m.message = message + ". " + ApplyMessage
	return m, tea.Quit
}

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.viewState {
	case ViewMain:
		return m.handleMainViewKeys(msg)
	case ViewDetail:
		return m.handleDetailViewKeys(msg)
	case ViewAdd:
		return m.handleFormViewKeys(msg)
	case ViewDelete:
		return m.handleDeleteViewKeys(msg)
	case ViewHelp:
		return m.handleHelpViewKeys(msg)
	default:
		return m, nil
	}
}

func (m *Model) clearMessages() {
	m.message = ""
	m.errorMsg = ""
}

// hasCursorProfile reports whether the cursor points at a profile
func (m Model) hasCursorProfile() bool {
	return m.cursor >= 0 && m.cursor < len(m.profiles)
}

// handleMainViewKeys handles keyboard input in main view
func (m Model) handleMainViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		m.moveDown()
		m.clearMessages()
		return m, nil

	case "k", "up":
		m.moveUp()
		m.clearMessages()
		return m, nil

	case "g":
		m.moveToTop()
		m.clearMessages()
		return m, nil

	case "G":
		m.moveToBottom()
		m.clearMessages()
		return m, nil

	case "enter":
		if m.hasCursorProfile() {
			m.clearMessages()
			return m, switchProfile(m.manager, m.profiles[m.cursor].Name)
		}
		return m, nil

	case "i":
		if m.hasCursorProfile() {
			m.selected = m.cursor
			m.viewState = ViewDetail
		}
		return m, nil

	case "a":
		m.initAddForm()
		return m, nil

	case "d":
		if m.hasCursorProfile() {
			m.viewState = ViewDelete
			m.clearMessages()
		}
		return m, nil

	case "c":
		if m.active == "" {
			m.errorMsg = "no profile is active"
			return m, nil
		}
		m.clearMessages()
		return m, clearProfile(m.manager)

	case "?":
		m.viewState = ViewHelp
		m.helpScrollOffset = 0
		return m, nil
	}

	return m, nil
}

// handleDetailViewKeys handles keyboard input in detail view
func (m Model) handleDetailViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.viewState = ViewMain
		return m, nil

	case "enter":
		if m.selected >= 0 && m.selected < len(m.profiles) {
			m.clearMessages()
			return m, switchProfile(m.manager, m.profiles[m.selected].Name)
		}
		return m, nil

	case "d":
		if m.selected >= 0 && m.selected < len(m.profiles) {
			m.cursor = m.selected
			m.viewState = ViewDelete
			m.clearMessages()
		}
		return m, nil

	case "?":
		m.viewState = ViewHelp
		m.helpScrollOffset = 0
		return m, nil
	}

	return m, nil
}

// moveUp moves cursor up
func (m *Model) moveUp() {
	if m.cursor > 0 {
		m.cursor--
		m.adjustScrollOffset()
	}
}

// moveDown moves cursor down
func (m *Model) moveDown() {
	if len(m.profiles) > 0 && m.cursor < len(m.profiles)-1 {
		m.cursor++
		m.adjustScrollOffset()
	}
}

// moveToTop moves cursor to top
func (m *Model) moveToTop() {
	m.cursor = 0
	m.scrollOffset = 0
}

// moveToBottom moves cursor to bottom
func (m *Model) moveToBottom() {
	if len(m.profiles) > 0 {
		m.cursor = len(m.profiles) - 1
		m.adjustScrollOffset()
	}
}

// getVisibleListHeight returns the number of lines available for the profile list
func (m *Model) getVisibleListHeight() int {
	// Title, separator and blank line above; blank line, separator and status bar below
	headerLines := 3
	footerLines := 4

	available := m.height - headerLines - footerLines
	if available < 1 {
		available = 1
	}
	return available
}

// adjustScrollOffset adjusts the scroll offset to keep cursor visible
func (m *Model) adjustScrollOffset() {
	visibleHeight := m.getVisibleListHeight()

	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+visibleHeight {
		m.scrollOffset = m.cursor - visibleHeight + 1
	}

	maxOffset := len(m.profiles) - visibleHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.scrollOffset > maxOffset {
		m.scrollOffset = maxOffset
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// View renders the UI
func (m Model) View() string {
	if m.applied {
		return messageStyle.Render("✓ "+m.message) + "\n"
	}
	if m.viewState == ViewAdd && m.message != "" {
		return messageStyle.Render(m.message) + "\n\n" + RenderForm(m.formInputs, m.formFocus, "Add Profile", m.errorMsg)
	}
	switch m.viewState {
	case ViewHelp:
		return m.RenderHelpView()
	case ViewDetail:
		return m.RenderDetailView()
	case ViewAdd:
		return RenderForm(m.formInputs, m.formFocus, "Add Profile", m.errorMsg)
	case ViewDelete:
		return m.RenderDeleteConfirm()
	default:
		return m.RenderMainView()
	}
}

// loadProfiles creates a command to load the registry
func loadProfiles(manager *config.Manager) tea.Cmd {
	return func() tea.Msg {
		reg, err := manager.List()
		if err != nil {
			return errMsg(err.Error())
		}
		return ProfilesLoadedMsg{
			Profiles: reg.Profiles,
			Active:   reg.Active,
		}
	}
}

// switchProfile creates a command to switch to name
func switchProfile(manager *config.Manager, name string) tea.Cmd {
	return func() tea.Msg {
		_, err := manager.Switch(name)
		return ProfileSwitchedMsg{Name: name, Err: err}
	}
}

// clearProfile creates a command to clear the active profile
func clearProfile(manager *config.Manager) tea.Cmd {
	return func() tea.Msg {
		_, err := manager.Clear()
		return ProfileClearedMsg{Err: err}
	}
}

// handleFormViewKeys handles keyboard input in the add form
func (m Model) handleFormViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.viewState = ViewMain
		m.errorMsg = ""
		m.formInputs = []textinput.Model{}
		m.formFocus = 0
		return m, nil

	case "tab", "down":
		m.formFocus = NextFormField(m.formInputs, m.formFocus)
		return m, nil

	case "shift+tab", "up":
		m.formFocus = PrevFormField(m.formInputs, m.formFocus)
		return m, nil

	case "enter":
		formData := GetFormData(m.formInputs)
		if err := formData.Validate(); err != nil {
			m.errorMsg = err.Error()
			return m, nil
		}
		m.errorMsg = ""
		return m, m.submitAddForm(formData)

	default:
		if m.formFocus >= 0 && m.formFocus < len(m.formInputs) {
			var cmd tea.Cmd
			m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

// initAddForm initializes the form for adding a new profile
func (m *Model) initAddForm() {
	m.formInputs = FormInputs()
	m.formFocus = 0
	m.viewState = ViewAdd
	m.clearMessages()
}

// submitAddForm creates a command to add the profile described by data
func (m *Model) submitAddForm(data FormData) tea.Cmd {
	manager := m.manager
	return func() tea.Msg {
		if data.Kind() == models.KindOAuth {
			p, activated, err := manager.AddOAuth(data.Name, data.Description, data.Model)
			return ProfileAddedMsg{Profile: p, Activated: activated, Err: err}
		}

		p := data.Profile()
		activated, err := manager.Add(p, strings.TrimSpace(data.Provider))
		return ProfileAddedMsg{Profile: p, Activated: activated, Err: err}
	}
}

// handleDeleteViewKeys handles keyboard input in delete confirmation view
func (m Model) handleDeleteViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "y", "Y":
		if m.hasCursorProfile() {
			return m, removeProfile(m.manager, m.profiles[m.cursor].Name)
		}
		m.viewState = ViewMain
		return m, nil

	case "n", "N", "esc":
		m.viewState = ViewMain
		m.clearMessages()
		return m, nil
	}

	return m, nil
}

// removeProfile creates a command to delete a profile
func removeProfile(manager *config.Manager, name string) tea.Cmd {
	return func() tea.Msg {
		result, err := manager.Remove(name)
		return ProfileDeletedMsg{Result: result, Err: err}
	}
}

// handleHelpViewKeys handles keyboard input in help view
func (m Model) handleHelpViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc", "q", "?":
		m.viewState = ViewMain
		m.helpScrollOffset = 0
		return m, nil

	case "j", "down":
		m.helpScrollOffset++
		m.adjustHelpScrollOffset()
		return m, nil

	case "k", "up":
		if m.helpScrollOffset > 0 {
			m.helpScrollOffset--
		}
		return m, nil

	case "g":
		m.helpScrollOffset = 0
		return m, nil

	case "G":
		m.helpScrollOffset = len(m.buildHelpLines()) - m.getVisibleHelpHeight()
		m.adjustHelpScrollOffset()
		return m, nil
	}

	return m, nil
}

// getVisibleHelpHeight returns the number of lines available for help content
func (m *Model) getVisibleHelpHeight() int {
	headerLines := 3
	footerLines := 2

	available := m.height - headerLines - footerLines
	if available < 1 {
		available = 1
	}
	return available
}

// adjustHelpScrollOffset keeps the help scroll offset within bounds
func (m *Model) adjustHelpScrollOffset() {
	maxOffset := len(m.buildHelpLines()) - m.getVisibleHelpHeight()
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.helpScrollOffset > maxOffset {
		m.helpScrollOffset = maxOffset
	}
	if m.helpScrollOffset < 0 {
		m.helpScrollOffset = 0
	}
}
