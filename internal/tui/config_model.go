package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/formchat/internal/config"
	"github.com/diogo/formchat/internal/render"
)

// configView represents the current view in the settings menu
type configView int

const (
	viewMain configView = iota
	viewTUIThemeSelect
	viewHelpStyleSelect
	viewLogLevelSelect
)

// Menu item indices for main view
const (
	menuPersistSession = iota
	menuCopyToClipboard
	menuTUITheme
	menuHelpStyle
	menuLogLevel
	menuExit
	menuItemCount
)

// logLevels offered by the menu
var logLevels = []string{"debug", "info", "warn", "error"}

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// ConfigModel represents the settings menu state
type ConfigModel struct {
	config        config.Config
	configPath    string
	sessionPath   string
	sessionExists bool
	save          func(config.Config) error

	// Navigation
	view       configView
	cursor     int
	listCursor int // cursor inside the active selection list

	// Feedback
	feedback        string
	feedbackTimeout time.Duration

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewConfigModel creates a settings menu editing cfg
func NewConfigModel(cfg config.Config) ConfigModel {
	configPath, _ := config.GetConfigPath()
	sessionPath, _ := config.GetSessionPath()

	sessionExists := false
	if sessionPath != "" {
		if _, err := os.Stat(sessionPath); err == nil {
			sessionExists = true
		}
	}

	UpdateTheme(cfg.TUITheme)

	return ConfigModel{
		config:          cfg,
		configPath:      configPath,
		sessionPath:     sessionPath,
		sessionExists:   sessionExists,
		save:            config.SaveConfig,
		view:            viewMain,
		feedbackTimeout: 2 * time.Second,
	}
}

// Config returns the edited configuration
func (m ConfigModel) Config() config.Config {
	return m.config
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// listItems returns the choices of the active selection view
func (m ConfigModel) listItems() []string {
	switch m.view {
	case viewTUIThemeSelect:
		return render.TUIThemeNames()
	case viewHelpStyleSelect:
		return render.HelpStyles()
	case viewLogLevelSelect:
		return logLevels
	default:
		return nil
	}
}

// currentValue returns the configured value shown by a selection view
func (m ConfigModel) currentValue(view configView) string {
	switch view {
	case viewTUIThemeSelect:
		return m.config.TUITheme
	case viewHelpStyleSelect:
		return m.config.HelpStyle
	case viewLogLevelSelect:
		return m.config.LogLevel
	default:
		return ""
	}
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
			} else {
				return m, tea.Quit
			}

		case "up", "k":
			if m.view == viewMain {
				m.cursor = (m.cursor - 1 + menuItemCount) % menuItemCount
			} else if n := len(m.listItems()); n > 0 {
				m.listCursor = (m.listCursor - 1 + n) % n
			}

		case "down", "j":
			if m.view == viewMain {
				m.cursor = (m.cursor + 1) % menuItemCount
			} else if n := len(m.listItems()); n > 0 {
				m.listCursor = (m.listCursor + 1) % n
			}

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

// openList switches to a selection view with the cursor on the current value
func (m ConfigModel) openList(view configView) ConfigModel {
	m.view = view
	m.listCursor = 0
	current := m.currentValue(view)
	for i, item := range m.listItems() {
		if item == current {
			m.listCursor = i
			break
		}
	}
	return m
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	if m.view == viewMain {
		switch m.cursor {
		case menuPersistSession:
			m.config.PersistSession = !m.config.PersistSession
			return m.saved(fmt.Sprintf("Persist session %s", enabledWord(m.config.PersistSession)))

		case menuCopyToClipboard:
			m.config.CopyToClipboard = !m.config.CopyToClipboard
			return m.saved(fmt.Sprintf("Copy to clipboard %s", enabledWord(m.config.CopyToClipboard)))

		case menuTUITheme:
			return m.openList(viewTUIThemeSelect), nil

		case menuHelpStyle:
			return m.openList(viewHelpStyleSelect), nil

		case menuLogLevel:
			return m.openList(viewLogLevelSelect), nil

		case menuExit:
			return m, tea.Quit
		}
		return m, nil
	}

	items := m.listItems()
	if m.listCursor < 0 || m.listCursor >= len(items) {
		return m, nil
	}
	selected := items[m.listCursor]

	var feedback string
	switch m.view {
	case viewTUIThemeSelect:
		m.config.TUITheme = selected
		UpdateTheme(selected)
		feedback = fmt.Sprintf("TUI theme set to %s", selected)
	case viewHelpStyleSelect:
		m.config.HelpStyle = selected
		feedback = fmt.Sprintf("Help style set to %s", selected)
	case viewLogLevelSelect:
		m.config.LogLevel = selected
		feedback = fmt.Sprintf("Log level set to %s", selected)
	}
	m.view = viewMain
	return m.saved(feedback)
}

// saved writes the config and reports the outcome
func (m ConfigModel) saved(feedback string) (tea.Model, tea.Cmd) {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = feedback
	}
	return m, clearFeedback(m.feedbackTimeout)
}

func enabledWord(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

// View renders the settings menu
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	sections := []string{
		configHeaderStyle.Width(contentWidth).Render(configTitleStyle.Render("✦ formchat settings")),
		configPanelStyle.Width(contentWidth).Render(m.renderPaths()),
	}

	var settings string
	switch m.view {
	case viewMain:
		settings = m.renderMainMenu()
	case viewTUIThemeSelect:
		settings = m.renderList("Select TUI Theme")
	case viewHelpStyleSelect:
		settings = m.renderList("Select Help Style")
	case viewLogLevelSelect:
		settings = m.renderList("Select Log Level")
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(settings))

	if m.feedback != "" {
		sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
	}
	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ConfigModel) renderPaths() string {
	sessionStatus := configDisabledStyle.Render("✗ not saved")
	if m.sessionExists {
		sessionStatus = configStatusOkStyle.Render("✓ saved")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("Backend"),
		fmt.Sprintf("   URL:     %s", configValueStyle.Render(m.config.BaseURL+m.config.Endpoint)),
		fmt.Sprintf("   Config:  %s", configPathStyle.Render(m.configPath)),
		fmt.Sprintf("   Session: %s  %s", configPathStyle.Render(m.sessionPath), sessionStatus),
	)
}

// renderMainMenu renders the main settings menu
func (m ConfigModel) renderMainMenu() string {
	entries := []struct {
		label string
		value string
	}{
		{"Persist Session", m.renderBoolValue(m.config.PersistSession)},
		{"Copy to Clipboard", m.renderBoolValue(m.config.CopyToClipboard)},
		{"TUI Theme", configValueStyle.Render(m.config.TUITheme)},
		{"Help Style", configValueStyle.Render(m.config.HelpStyle)},
		{"Log Level", configValueStyle.Render(m.config.LogLevel)},
	}

	items := []string{configSectionTitleStyle.Render("⚙ Settings"), ""}
	for i, e := range entries {
		items = append(items, m.menuLine(i == m.cursor, fmt.Sprintf("%-20s", e.label))+e.value)
	}
	items = append(items, "", m.menuLine(m.cursor == menuExit, "Exit"))

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderList renders the active selection sub-menu
func (m ConfigModel) renderList(title string) string {
	current := m.currentValue(m.view)
	items := []string{configSectionTitleStyle.Render(title), ""}
	for i, item := range m.listItems() {
		line := m.menuLine(i == m.listCursor, item)
		if item == current {
			line += configStatusOkStyle.Render(" (current)")
		}
		items = append(items, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (m ConfigModel) menuLine(selected bool, label string) string {
	if selected {
		return configCursorStyle.Render("▸ ") + configMenuSelectedStyle.Render(label)
	}
	return "  " + configMenuItemStyle.Render(label)
}

// renderBoolValue renders a boolean value with appropriate styling
func (m ConfigModel) renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

// renderStatusBar renders the bottom status bar
func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}
	shortcuts := [][2]string{{"↑↓", "Navigate"}, {"Enter", "Select"}, {"Esc", back}}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s[0])+statusDescStyle.Render(" "+s[1]))
	}
	return configStatusBarStyle.Width(width).Render(strings.Join(items, "  │  "))
}

// RunConfig starts the settings menu on the file configuration
func RunConfig(cfg config.Config) error {
	p := tea.NewProgram(
		NewConfigModel(cfg),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
