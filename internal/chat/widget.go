// Package chat holds the chat widget state: the pending input and the
// append-only message log, plus the rules that turn replies into bubbles.
//
// A turn goes through three steps so that a UI loop can run the network
// exchange elsewhere: Begin* records the turn (and, on the option path,
// renders the user bubble right away), Dispatch performs the exchange, and
// Resolve or Reject applies the outcome. Submit and Choose do all three.
package chat

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/diogo/formchat/internal/logging"
	"github.com/diogo/formchat/internal/models"
)

// Dispatcher sends one turn to the backend
type Dispatcher interface {
	Send(ctx context.Context, input string) (models.Reply, error)
}

// Path identifies how a turn was started
type Path string

const (
	// PathPrimary is a submission of the input field
	PathPrimary Path = "primary"
	// PathOption is the activation of an option button
	PathOption Path = "option"
)

// Turn is one request/response exchange in flight
type Turn struct {
	ID    string
	Path  Path
	Input string
}

// Change describes what a step did to the widget
type Change struct {
	Appended     []models.Bubble
	InputCleared bool
}

// Rendered reports whether anything was appended.
// Every append leaves the log scrolled to its bottom.
func (c Change) Rendered() bool {
	return len(c.Appended) > 0
}

func (c *Change) merge(o Change) {
	c.Appended = append(c.Appended, o.Appended...)
	c.InputCleared = c.InputCleared || o.InputCleared
}

// Widget is one chat instance. It is safe for concurrent use.
type Widget struct {
	dispatcher Dispatcher
	logger     logrus.FieldLogger

	mu    sync.Mutex
	input string
	log   []models.Bubble
}

// Option configures a Widget
type Option func(*Widget)

// WithLogger sets the diagnostic logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(w *Widget) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a widget with an empty log and input
func New(dispatcher Dispatcher, opts ...Option) *Widget {
	w := &Widget{
		dispatcher: dispatcher,
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SetInput replaces the pending input
func (w *Widget) SetInput(s string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.input = s
}

// Input returns the pending input
func (w *Widget) Input() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.input
}

// Bubbles returns a copy of the message log, oldest first
func (w *Widget) Bubbles() []models.Bubble {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.Bubble, len(w.log))
	copy(out, w.log)
	return out
}

// Len returns the number of bubbles in the log
func (w *Widget) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.log)
}

// Option returns the text of an option button, addressed by bubble index and
// position within the bubble's option set
func (w *Widget) Option(bubble, index int) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if bubble < 0 || bubble >= len(w.log) {
		return "", false
	}
	opts := w.log[bubble].Options
	if index < 0 || index >= len(opts) {
		return "", false
	}
	return opts[index], true
}

// BeginSubmit starts a primary-path turn with the current pending input.
// Nothing is rendered until the reply arrives.
func (w *Widget) BeginSubmit() Turn {
	w.mu.Lock()
	input := w.input
	w.mu.Unlock()

	turn := newTurn(PathPrimary, input)
	w.turnLogger(turn).Debug("submitting input")
	return turn
}

// BeginOption starts an option-path turn. The user bubble with the option
// text is appended immediately, before any request is made.
func (w *Widget) BeginOption(option string) (Turn, Change) {
	turn := newTurn(PathOption, option)

	w.mu.Lock()
	change := w.appendLocked(models.UserBubble(option))
	w.mu.Unlock()

	w.turnLogger(turn).Debug("option activated")
	return turn, change
}

// Dispatch performs the exchange for a turn. It holds no lock while waiting.
func (w *Widget) Dispatch(ctx context.Context, turn Turn) (models.Reply, error) {
	return w.dispatcher.Send(ctx, turn.Input)
}

// Resolve renders a reply for a turn
func (w *Widget) Resolve(turn Turn, reply models.Reply) Change {
	logger := w.turnLogger(turn).WithField("kind", reply.Kind.String())

	if reply.Kind == models.ReplyUnrecognized {
		logger.WithField("raw", reply.Raw).Debug("unrecognized reply, nothing rendered")
		return Change{}
	}

	bubbles := reply.Bubbles()
	if turn.Path == PathPrimary && reply.EchoesInput() {
		bubbles = append([]models.Bubble{models.UserBubble(turn.Input)}, bubbles...)
	}

	w.mu.Lock()
	change := w.appendLocked(bubbles...)
	w.mu.Unlock()

	logger.WithField("bubbles", len(change.Appended)).Debug("reply rendered")
	return change
}

// Reject records a failed turn. Nothing is rendered and the input is kept.
func (w *Widget) Reject(turn Turn, err error) Change {
	w.turnLogger(turn).WithError(err).Error("chat turn failed")
	return Change{}
}

// Submit sends the pending input and renders the outcome
func (w *Widget) Submit(ctx context.Context) Change {
	turn := w.BeginSubmit()
	return w.finish(ctx, turn, Change{})
}

// Choose activates an option button and renders the outcome
func (w *Widget) Choose(ctx context.Context, option string) Change {
	turn, change := w.BeginOption(option)
	return w.finish(ctx, turn, change)
}

func (w *Widget) finish(ctx context.Context, turn Turn, change Change) Change {
	reply, err := w.Dispatch(ctx, turn)
	if err != nil {
		change.merge(w.Reject(turn, err))
		return change
	}
	change.merge(w.Resolve(turn, reply))
	return change
}

// appendLocked appends bubbles in order; a text bubble clears the input
func (w *Widget) appendLocked(bubbles ...models.Bubble) Change {
	var change Change
	for _, b := range bubbles {
		w.log = append(w.log, b)
		change.Appended = append(change.Appended, b)
		if !b.IsOptions() {
			w.input = ""
			change.InputCleared = true
		}
	}
	return change
}

func (w *Widget) turnLogger(turn Turn) logrus.FieldLogger {
	return w.logger.WithFields(logrus.Fields{
		"turn_id": turn.ID,
		"path":    string(turn.Path),
	})
}

func newTurn(path Path, input string) Turn {
	return Turn{ID: uuid.NewString(), Path: path, Input: input}
}
