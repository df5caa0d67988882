package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/formchat/internal/chat"
	"github.com/diogo/formchat/internal/models"
	"github.com/diogo/formchat/internal/render"
)

// Message types for the TUI
type (
	replyMsg struct {
		turn  chat.Turn
		reply models.Reply
	}
	failMsg struct {
		turn chat.Turn
		err  error
	}
	copiedMsg struct {
		err error
	}
)

// copyFunc writes to the system clipboard; replaced in tests
var copyFunc = clipboard.WriteAll

// ChatOptions carries display settings for the chat window
type ChatOptions struct {
	Endpoint  string // shown in the header
	HelpStyle string // glamour style of the help screen
	Theme     string // TUI theme name, empty keeps the active one
}

// optionRef addresses one option button in the message log
type optionRef struct {
	bubble int
	index  int
}

// Model represents the chat window state
type Model struct {
	ctx    context.Context
	widget *chat.Widget
	opts   ChatOptions

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	inFlight int
	ready    bool
	notice   string

	// Option button focus; focus indexes optionRefs()
	focusing bool
	focus    int

	showHelp bool
	help     string

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a chat window bound to a widget
func NewChatModel(ctx context.Context, widget *chat.Widget, opts ChatOptions) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle
	ta.SetValue(widget.Input())

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		ctx:      ctx,
		widget:   widget,
		opts:     opts,
		textarea: ta,
		spinner:  s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case replyMsg:
		m.inFlight--
		m.apply(m.widget.Resolve(msg.turn, msg.reply))
		return m, nil

	case failMsg:
		m.inFlight--
		m.apply(m.widget.Reject(msg.turn, msg.err))
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.notice = "Copy failed: " + msg.err.Error()
		} else {
			m.notice = "Copied last reply to clipboard"
		}
		return m, nil

	case spinner.TickMsg:
		if m.inFlight > 0 {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc", "f1", "q":
				m.showHelp = false
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.focusing {
				m.setFocusing(false)
				return m, nil
			}
			return m, tea.Quit

		case "f1":
			m.showHelp = true
			m.help = m.renderHelp()
			return m, nil

		case "ctrl+y":
			cmd = m.copyLastReply()
			return m, cmd

		case "pgup", "pgdown":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd

		case "tab":
			if len(m.optionRefs()) > 0 {
				m.setFocusing(!m.focusing)
			}
			return m, nil
		}

		if m.focusing {
			return m.updateFocus(msg)
		}

		if msg.String() == "enter" {
			cmd = m.submit()
			return m, m.withSpinner(cmd)
		}

		m.notice = ""
		m.textarea, cmd = m.textarea.Update(msg)
		m.widget.SetInput(m.textarea.Value())
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// updateFocus handles keys while an option button is focused
func (m Model) updateFocus(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	refs := m.optionRefs()
	if len(refs) == 0 {
		m.setFocusing(false)
		return m, nil
	}

	switch msg.String() {
	case "left", "up", "shift+tab", "k", "h":
		m.focus = (m.focus - 1 + len(refs)) % len(refs)
		m.updateViewport()
	case "right", "down", "l", "j":
		m.focus = (m.focus + 1) % len(refs)
		m.updateViewport()
	case "enter", " ":
		ref := refs[m.focus]
		text, ok := m.widget.Option(ref.bubble, ref.index)
		if !ok {
			return m, nil
		}
		cmd := m.choose(text)
		return m, m.withSpinner(cmd)
	}
	return m, nil
}

// submit starts a primary-path turn with the pending input
func (m *Model) submit() tea.Cmd {
	turn := m.widget.BeginSubmit()
	return m.dispatch(turn)
}

// choose starts an option-path turn; the user bubble appears at once
func (m *Model) choose(option string) tea.Cmd {
	turn, change := m.widget.BeginOption(option)
	m.apply(change)
	return m.dispatch(turn)
}

// dispatch runs the exchange off the update loop
func (m *Model) dispatch(turn chat.Turn) tea.Cmd {
	m.inFlight++
	ctx := m.ctx
	widget := m.widget
	return func() tea.Msg {
		reply, err := widget.Dispatch(ctx, turn)
		if err != nil {
			return failMsg{turn: turn, err: err}
		}
		return replyMsg{turn: turn, reply: reply}
	}
}

// withSpinner starts the spinner when the first request goes out
func (m Model) withSpinner(cmd tea.Cmd) tea.Cmd {
	if m.inFlight == 1 {
		return tea.Batch(cmd, m.spinner.Tick)
	}
	return cmd
}

// apply mirrors a widget change on screen
func (m *Model) apply(change chat.Change) {
	if change.InputCleared {
		m.textarea.Reset()
	}
	if change.Rendered() {
		m.updateViewport()
		m.viewport.GotoBottom()
	}
}

func (m *Model) setFocusing(on bool) {
	m.focusing = on
	if on {
		// Start on the newest option set
		refs := m.optionRefs()
		m.focus = len(refs) - 1
		for m.focus > 0 && refs[m.focus-1].bubble == refs[len(refs)-1].bubble {
			m.focus--
		}
		m.textarea.Blur()
	} else {
		m.textarea.Focus()
	}
	m.updateViewport()
}

// optionRefs lists every option button in log order
func (m Model) optionRefs() []optionRef {
	var refs []optionRef
	for i, b := range m.widget.Bubbles() {
		for j := range b.Options {
			refs = append(refs, optionRef{bubble: i, index: j})
		}
	}
	return refs
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 4 // Header panel with border and margin
	inputHeight := 5  // Input panel with border
	statusHeight := 1
	borders := 2 // Messages panel border

	vpHeight := height - headerHeight - inputHeight - statusHeight - borders
	if vpHeight < 3 {
		vpHeight = 3
	}
	contentWidth := width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
	m.updateViewport()
	m.viewport.GotoBottom()
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if m.showHelp {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderHeader(contentWidth),
			m.help,
			m.renderStatusBar(contentWidth),
		)
	}

	var messagesContent string
	if m.widget.Len() == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent)

	label := inputLabelStyle.Render("You")
	if m.inFlight > 0 {
		label += m.spinner.View() + hintStyle.Render(fmt.Sprintf(" waiting for %d %s", m.inFlight, plural(m.inFlight, "reply", "replies")))
	}
	inputPanel := inputPanelStyle.Width(contentWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, label, m.textarea.View()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(contentWidth),
		messagesPanel,
		inputPanel,
		m.renderStatusBar(contentWidth),
	)
}

func (m Model) renderHeader(width int) string {
	parts := []string{titleStyle.Render("✦ formchat")}
	if m.opts.Endpoint != "" {
		parts = append(parts, hintStyle.Render("  •  "), subtitleStyle.Render(m.opts.Endpoint))
	}
	return headerStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Center, parts...))
}

// renderWelcome renders the welcome panel shown until the first bubble
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 2

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		welcomeIconStyle.Width(width).Render("✦"),
		"",
		welcomeTitleStyle.Width(width).Render("Welcome to formchat"),
		"",
		welcomeStyle.Width(width).Render("Type a message below and press Enter"),
		welcomeStyle.Width(width).Render("F1 shows the keys"),
	)

	topPadding := (m.viewport.Height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	if m.notice != "" {
		return statusBarStyle.Width(width).Align(lipgloss.Center).Render(noticeStyle.Render(m.notice))
	}

	var shortcuts [][2]string
	switch {
	case m.showHelp:
		shortcuts = [][2]string{{"Esc", "Close help"}}
	case m.focusing:
		shortcuts = [][2]string{{"←→", "Choose"}, {"Enter", "Select"}, {"Tab/Esc", "Back to input"}}
	default:
		shortcuts = [][2]string{{"Enter", "Send"}, {"Tab", "Options"}, {"PgUp/PgDn", "Scroll"}, {"F1", "Help"}, {"Esc", "Quit"}}
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s[0])+statusDescStyle.Render(" "+s[1]))
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// updateViewport redraws the message log
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var focused optionRef
	if m.focusing {
		if refs := m.optionRefs(); m.focus >= 0 && m.focus < len(refs) {
			focused = refs[m.focus]
		}
	}

	bubbleWidth := m.viewport.Width - 6
	var content strings.Builder
	for i, b := range m.widget.Bubbles() {
		if i > 0 {
			content.WriteString("\n")
		}

		switch {
		case b.Role == models.RoleUser:
			content.WriteString(userLabelStyle.Render("● You") + "\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(render.Literal(b.Text)))
		case b.IsOptions():
			content.WriteString(robotLabelStyle.Render("✦ Bot") + "\n")
			focus := -1
			if m.focusing && focused.bubble == i {
				focus = focused.index
			}
			content.WriteString(renderOptions(b.Options, focus, bubbleWidth))
		default:
			style := robotTextStyle(b)
			content.WriteString(robotLabelStyle.Render("✦ Bot") + "\n")
			content.WriteString(style.Width(bubbleWidth).Render(render.Literal(b.Text)))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// robotTextStyle picks the bubble style from the reply kind, never the text
func robotTextStyle(b models.Bubble) lipgloss.Style {
	if b.Failed {
		return errorBubbleStyle
	}
	return robotBubbleStyle
}

// renderOptions lays out option buttons in rows that fit the width
func renderOptions(options []string, focus, width int) string {
	if len(options) == 0 {
		return hintStyle.Render("(no options)")
	}

	var rows []string
	var row []string
	rowWidth := 0
	for i, opt := range options {
		style := optionStyle
		if i == focus {
			style = optionFocusedStyle
		}
		button := style.Render(render.Literal(opt))
		w := lipgloss.Width(button)
		if len(row) > 0 && rowWidth+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
			rowWidth = 0
		}
		row = append(row, button)
		rowWidth += w
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// lastReply returns the text of the newest robot text bubble
func (m Model) lastReply() (string, bool) {
	bubbles := m.widget.Bubbles()
	for i := len(bubbles) - 1; i >= 0; i-- {
		if bubbles[i].Role == models.RoleRobot && !bubbles[i].IsOptions() {
			return bubbles[i].Text, true
		}
	}
	return "", false
}

func (m *Model) copyLastReply() tea.Cmd {
	text, ok := m.lastReply()
	if !ok {
		m.notice = "Nothing to copy yet"
		return nil
	}
	return func() tea.Msg {
		return copiedMsg{err: copyFunc(text)}
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// RunChat starts the chat window and blocks until it exits
func RunChat(ctx context.Context, widget *chat.Widget, opts ChatOptions) error {
	if opts.Theme != "" {
		UpdateTheme(opts.Theme)
	}
	m := NewChatModel(ctx, widget, opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
