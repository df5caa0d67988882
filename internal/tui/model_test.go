package tui

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/formchat/internal/api"
	"github.com/diogo/formchat/internal/chat"
	"github.com/diogo/formchat/internal/models"
)

func newTestModel(t *testing.T, mock *api.MockClient) Model {
	t.Helper()
	m := NewChatModel(context.Background(), chat.New(mock), ChatOptions{Endpoint: "http://chat.test/process_chat"})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	return updated.(Model)
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return updated.(Model)
}

// runTurn presses enter and feeds the dispatch result back into the model
func runTurn(t *testing.T, m Model) Model {
	t.Helper()
	cmd := m.submit()
	msg := cmd()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func TestModel_Update_WindowSize(t *testing.T) {
	m := NewChatModel(context.Background(), chat.New(&api.MockClient{}), ChatOptions{})

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	got := updated.(Model)

	if !got.ready {
		t.Error("model should be ready after the first size message")
	}
	if got.width != 100 || got.height != 40 {
		t.Errorf("size = %dx%d, want 100x40", got.width, got.height)
	}
	if got.viewport.Height < 3 {
		t.Errorf("viewport height = %d", got.viewport.Height)
	}
}

func TestModel_View_NotReady(t *testing.T) {
	m := NewChatModel(context.Background(), chat.New(&api.MockClient{}), ChatOptions{})
	if !strings.Contains(m.View(), "Initializing") {
		t.Error("view should show the initializing text before sizing")
	}
}

func TestModel_View_Welcome(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})
	if !strings.Contains(m.View(), "Welcome to formchat") {
		t.Error("welcome panel should show while the log is empty")
	}
}

func TestModel_TypingMirrorsInput(t *testing.T) {
	mock := &api.MockClient{}
	m := newTestModel(t, mock)

	m = typeText(t, m, "hello")

	if got := m.widget.Input(); got != "hello" {
		t.Errorf("widget input = %q, want hello", got)
	}
}

func TestModel_Enter_SendsOneRequest(t *testing.T) {
	mock := &api.MockClient{Reply: models.PlainReply("hi back")}
	m := newTestModel(t, mock)
	m = typeText(t, m, "hi")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("enter should return a command")
	}
	if m.inFlight != 1 {
		t.Errorf("inFlight = %d, want 1", m.inFlight)
	}
	if !strings.Contains(m.View(), "waiting for 1 reply") {
		t.Error("view should show the pending request")
	}
}

func TestModel_Enter_EmptyInputIsSent(t *testing.T) {
	mock := &api.MockClient{Reply: models.PlainReply("say something")}
	m := newTestModel(t, mock)

	m = runTurn(t, m)

	if got := mock.Calls(); len(got) != 1 || got[0] != "" {
		t.Errorf("dispatched %q, want [\"\"]", got)
	}
	want := []models.Bubble{models.UserBubble(""), models.RobotBubble("say something")}
	if got := m.widget.Bubbles(); !reflect.DeepEqual(got, want) {
		t.Errorf("Bubbles() = %#v, want %#v", got, want)
	}
}

func TestModel_Reply_ClearsInputAndScrolls(t *testing.T) {
	mock := &api.MockClient{Reply: models.StructuredReply("line one\nline two\nline three")}
	m := newTestModel(t, mock)

	for i := 0; i < 8; i++ {
		m = typeText(t, m, fmt.Sprintf("message %d", i))
		m = runTurn(t, m)

		if m.textarea.Value() != "" {
			t.Fatalf("turn %d: textarea should be empty, got %q", i, m.textarea.Value())
		}
		if m.widget.Input() != "" {
			t.Fatalf("turn %d: widget input should be empty", i)
		}
		if !m.viewport.AtBottom() {
			t.Fatalf("turn %d: viewport should be at the bottom", i)
		}
	}
	if m.inFlight != 0 {
		t.Errorf("inFlight = %d, want 0", m.inFlight)
	}
	if m.viewport.TotalLineCount() <= m.viewport.Height {
		t.Error("test needs more content than the viewport holds")
	}
}

func TestModel_Failure_ChangesNothing(t *testing.T) {
	mock := &api.MockClient{Err: errors.New("connection refused")}
	m := newTestModel(t, mock)
	m = typeText(t, m, "hello")

	m = runTurn(t, m)

	if m.widget.Len() != 0 {
		t.Errorf("no bubble expected, got %d", m.widget.Len())
	}
	if m.textarea.Value() != "hello" {
		t.Errorf("textarea = %q, want hello", m.textarea.Value())
	}
	if m.inFlight != 0 {
		t.Errorf("inFlight = %d, want 0", m.inFlight)
	}
}

func TestModel_OptionActivation(t *testing.T) {
	mock := &api.MockClient{Replies: map[string]models.Reply{
		"start": models.OptionsReply([]string{"A", "B"}),
		"B":     models.StructuredReply("you picked B"),
	}}
	m := newTestModel(t, mock)
	m = typeText(t, m, "start")
	m = runTurn(t, m)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	if !m.focusing {
		t.Fatal("tab should focus the option buttons")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = updated.(Model)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("activating an option should dispatch")
	}

	// The user bubble is on screen before the request completes
	bubbles := m.widget.Bubbles()
	if last := bubbles[len(bubbles)-1]; !reflect.DeepEqual(last, models.UserBubble("B")) {
		t.Errorf("last bubble = %#v, want user B", last)
	}
	if !m.viewport.AtBottom() {
		t.Error("viewport should be at the bottom after the user bubble")
	}
	if len(mock.Calls()) != 1 {
		t.Errorf("request should not have run yet, calls = %q", mock.Calls())
	}
}

func TestModel_OptionPath_EndToEnd(t *testing.T) {
	mock := &api.MockClient{Replies: map[string]models.Reply{
		"start": models.OptionsReply([]string{"A", "B"}),
		"A":     models.StructuredReply("noted"),
	}}
	m := newTestModel(t, mock)
	m = typeText(t, m, "start")
	m = runTurn(t, m)

	cmd := m.choose("A")
	updated, _ := m.Update(cmd())
	m = updated.(Model)

	want := []models.Bubble{
		models.UserBubble("start"),
		models.OptionsBubble([]string{"A", "B"}),
		models.UserBubble("A"),
		models.RobotBubble("noted"),
	}
	if got := m.widget.Bubbles(); !reflect.DeepEqual(got, want) {
		t.Errorf("Bubbles() = %#v, want %#v", got, want)
	}
	if got := mock.Calls(); !reflect.DeepEqual(got, []string{"start", "A"}) {
		t.Errorf("calls = %q", got)
	}
}

func TestModel_OptionsReply_KeepsTypedInput(t *testing.T) {
	mock := &api.MockClient{Reply: models.OptionsReply([]string{"X"})}
	m := newTestModel(t, mock)

	cmd := m.choose("A")
	m = typeText(t, m, "draft")
	updated, _ := m.Update(cmd())
	m = updated.(Model)

	if m.textarea.Value() != "draft" {
		t.Errorf("an options bubble must not clear the input, got %q", m.textarea.Value())
	}
}

func TestModel_OutOfOrderReplies(t *testing.T) {
	mock := &api.MockClient{Replies: map[string]models.Reply{
		"one": models.PlainReply("1"),
		"two": models.PlainReply("2"),
	}}
	m := newTestModel(t, mock)

	m = typeText(t, m, "one")
	first := m.submit()
	m.textarea.Reset()
	m.widget.SetInput("")
	m = typeText(t, m, "two")
	second := m.submit()

	if m.inFlight != 2 {
		t.Fatalf("inFlight = %d, want 2", m.inFlight)
	}

	updated, _ := m.Update(second())
	m = updated.(Model)
	updated, _ = m.Update(first())
	m = updated.(Model)

	want := []models.Bubble{
		models.UserBubble("two"), models.RobotBubble("2"),
		models.UserBubble("one"), models.RobotBubble("1"),
	}
	if got := m.widget.Bubbles(); !reflect.DeepEqual(got, want) {
		t.Errorf("Bubbles() = %#v, want %#v", got, want)
	}
}

func TestModel_LiteralRendering(t *testing.T) {
	mock := &api.MockClient{Reply: models.StructuredReply("<b>x</b>\x1b[31mred")}
	m := newTestModel(t, mock)
	m = runTurn(t, m)

	content := m.viewport.View()
	if !strings.Contains(content, "<b>x</b>") {
		t.Error("markup should be drawn as text")
	}
	if strings.Contains(content, "\x1b[31mred") {
		t.Error("escape sequences from the backend must not reach the terminal")
	}
}

func TestModel_TabWithoutOptions(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if updated.(Model).focusing {
		t.Error("tab should do nothing without option buttons")
	}
}

func TestModel_EscLeavesFocusThenQuits(t *testing.T) {
	mock := &api.MockClient{Reply: models.OptionsReply([]string{"A"})}
	m := newTestModel(t, mock)
	m = runTurn(t, m)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.focusing || cmd != nil {
		t.Error("first esc should only leave option focus")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("second esc should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected a quit message")
	}
}

func TestModel_CopyLastReply(t *testing.T) {
	var copied string
	orig := copyFunc
	copyFunc = func(s string) error {
		copied = s
		return nil
	}
	defer func() { copyFunc = orig }()

	mock := &api.MockClient{Reply: models.PlainReply("copy me")}
	m := newTestModel(t, mock)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	m = updated.(Model)
	if cmd != nil || m.notice == "" {
		t.Error("nothing to copy before the first reply")
	}

	m = runTurn(t, m)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	if cmd == nil {
		t.Fatal("ctrl+y should copy")
	}
	updated, _ = m.Update(cmd())
	m = updated.(Model)

	if copied != "copy me" {
		t.Errorf("copied %q, want %q", copied, "copy me")
	}
	if !strings.Contains(m.notice, "Copied") {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestModel_Help(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyF1})
	m = updated.(Model)
	if !m.showHelp || !strings.Contains(m.View(), "clipboard") {
		t.Error("F1 should show the key reference")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if updated.(Model).showHelp {
		t.Error("esc should close help")
	}
}

func TestRenderOptions_Wraps(t *testing.T) {
	out := renderOptions([]string{"first option", "second option", "third option"}, 1, 20)
	if strings.Count(out, "\n") < 5 {
		t.Errorf("narrow width should wrap buttons onto several rows:\n%s", out)
	}
	if !strings.Contains(out, "second option") {
		t.Error("every option should be drawn")
	}
}

func TestRobotTextStyle_FollowsReplyKind(t *testing.T) {
	mock := &api.MockClient{Replies: map[string]models.Reply{
		"plain": models.PlainReply("Error: this is just text"),
		"fail":  models.FailureReply("bad input"),
	}}
	m := newTestModel(t, mock)
	m = typeText(t, m, "plain")
	m = runTurn(t, m)
	m = typeText(t, m, "fail")
	m = runTurn(t, m)

	bubbles := m.widget.Bubbles()
	if len(bubbles) != 3 {
		t.Fatalf("bubbles = %+v", bubbles)
	}
	if got := robotTextStyle(bubbles[1]).GetForeground(); got != colorText {
		t.Errorf("plain reply starting with the error prefix got foreground %v", got)
	}
	if got := robotTextStyle(bubbles[2]).GetForeground(); got != colorError {
		t.Errorf("failure reply foreground = %v, want %v", got, colorError)
	}
}
