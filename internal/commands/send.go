package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/formchat/internal/chat"
	apierrors "github.com/diogo/formchat/internal/errors"
	"github.com/diogo/formchat/internal/models"
	"github.com/diogo/formchat/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"),
	lipgloss.Color("#feca57"),
	lipgloss.Color("#48dbfb"),
	lipgloss.Color("#ff9ff3"),
	lipgloss.Color("#54a0ff"),
	lipgloss.Color("#5f27cd"),
	lipgloss.Color("#00d2d3"),
	lipgloss.Color("#1dd1a1"),
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorPrimary  = lipgloss.Color("#7aa2f7")
	colorUser     = lipgloss.Color("#bb9af7")
	colorOption   = lipgloss.Color("#e0af68")
	colorError    = lipgloss.Color("#f7768e")
)

// Styles matching the chat TUI
var (
	robotLabelStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(colorUser).
			Bold(true)

	robotBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginBottom(1)

	optionNumberStyle = lipgloss.NewStyle().Foreground(colorOption).Bold(true)
	optionTextStyle   = lipgloss.NewStyle().Foreground(colorText)
	dimStyle          = lipgloss.NewStyle().Foreground(colorTextDim)
	successStyle      = lipgloss.NewStyle().Foreground(colorSuccess)
	warnStyle         = lipgloss.NewStyle().Foreground(colorError)
)

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

// newSpinner creates a new animated spinner drawing to out
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	fmt.Fprintf(s.out, "%s %s\n", checkmark, successStyle.Render(message))
}

// stopWithError stops the spinner without a message
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// sendOptions are the one-shot send flags
type sendOptions struct {
	file   string
	option string
	raw    bool
	output string
}

// runSend runs one turn through a fresh widget and prints what it rendered.
// On the option path the user bubble is rendered before the request goes out.
func runSend(ctx context.Context, deps *Dependencies, opts *globalOptions, send *sendOptions, input string, path chat.Path) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := opts.settings()
	if err != nil {
		return err
	}

	rt, err := newRuntime(deps, cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	w := rt.widget()
	decorated := !send.raw && deps.IsTTY != nil && deps.IsTTY()
	printing := !send.raw && send.output == ""

	width := 80
	if decorated {
		width = getTerminalWidth()
	}

	var (
		turn    chat.Turn
		changes chat.Change
	)
	if path == chat.PathOption {
		turn, changes = w.BeginOption(input)
		if printing {
			printBubbles(deps.Stdout, changes.Appended, width)
		}
	} else {
		w.SetInput(input)
		turn = w.BeginSubmit()
	}

	var spin *spinner
	if decorated {
		spin = newSpinner(deps.Stderr, "Waiting for reply")
		spin.start()
	}

	reply, err := w.Dispatch(ctx, turn)
	if err != nil {
		w.Reject(turn, err)
		if spin != nil {
			spin.stopWithError()
		}
		return fmt.Errorf("send failed: %w", err)
	}
	if spin != nil {
		spin.stopWithSuccess("Done")
	}

	resolved := w.Resolve(turn, reply)
	if !resolved.Rendered() && !send.raw {
		fmt.Fprintln(deps.Stderr, dimStyle.Render("The backend reply had no renderable content"))
	}
	text := replyText(resolved.Appended)

	if rt.cfg.CopyToClipboard && text != "" && deps.Clipboard != nil {
		if err := deps.Clipboard(text); err != nil {
			rt.logger.WithError(err).Warn("clipboard copy failed")
			if !send.raw {
				fmt.Fprintln(deps.Stderr, warnStyle.Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
			}
		} else if !send.raw {
			fmt.Fprintln(deps.Stderr, successStyle.Render("✓ Copied to clipboard"))
		}
	}

	if send.output != "" {
		if err := os.WriteFile(send.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !send.raw {
			fmt.Fprintln(deps.Stderr, successStyle.Render(fmt.Sprintf("✓ Reply saved to %s", send.output)))
		}
		return nil
	}

	if send.raw {
		if text != "" {
			fmt.Fprintln(deps.Stdout, text)
		}
		return nil
	}

	printBubbles(deps.Stdout, resolved.Appended, width)
	return nil
}

// replyText is the robot side of bubbles as plain text, options one per line
func replyText(bubbles []models.Bubble) string {
	var parts []string
	for _, b := range bubbles {
		if b.Role != models.RoleRobot {
			continue
		}
		if b.IsOptions() {
			parts = append(parts, render.LiteralAll(b.Options)...)
			continue
		}
		parts = append(parts, render.Literal(b.Text))
	}
	return strings.Join(parts, "\n")
}

// printBubbles writes bubbles in display order, options as a numbered list
func printBubbles(out io.Writer, bubbles []models.Bubble, termWidth int) {
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	for _, b := range bubbles {
		switch {
		case b.Role == models.RoleUser:
			fmt.Fprintln(out, userLabelStyle.Render("› You")+" "+render.Literal(b.Text))
		case b.IsOptions():
			fmt.Fprintln(out, robotLabelStyle.Render("✦ Robot"))
			for i, opt := range b.Options {
				fmt.Fprintf(out, "  %s %s\n",
					optionNumberStyle.Render(fmt.Sprintf("%d.", i+1)),
					optionTextStyle.Render(render.Literal(opt)))
			}
			fmt.Fprintln(out, dimStyle.Render(`  Reply with: formchat --option "<text>"`))
		default:
			style := robotStyle(b)
			fmt.Fprintln(out, robotLabelStyle.Render("✦ Robot"))
			fmt.Fprintln(out, style.Width(bubbleWidth).Render(render.Literal(b.Text)))
		}
	}
}

// robotStyle is the bubble style for a robot text bubble
func robotStyle(b models.Bubble) lipgloss.Style {
	if b.Failed {
		return robotBubbleStyle.BorderForeground(colorError)
	}
	return robotBubbleStyle
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorError)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if body := apierrors.GetResponseBody(err); body != "" {
		body = render.Literal(body)
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
	} else {
		switch {
		case apierrors.IsTimeoutError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Raise timeout_seconds or check the backend"))
		case apierrors.IsNetworkError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Check that the backend is running (formchat config show)"))
		case apierrors.IsParseError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: The backend answered with something other than JSON"))
		}
	}

	return sb.String()
}
