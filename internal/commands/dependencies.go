package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"

	"github.com/diogo/formchat/internal/api"
	"github.com/diogo/formchat/internal/browser"
	"github.com/diogo/formchat/internal/chat"
	"github.com/diogo/formchat/internal/config"
	"github.com/diogo/formchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, widget *chat.Widget, opts tui.ChatOptions) error
	RunConfig(cfg config.Config) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client, when set, replaces the HTTP client built from the config.
	Client api.ChatClientInterface

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Stdin, Stdout and Stderr default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Clipboard writes text to the system clipboard.
	Clipboard func(string) error

	// ExtractCookies reads session cookies from a browser profile.
	ExtractCookies func(ctx context.Context, b browser.SupportedBrowser, host string) (*browser.ExtractResult, error)

	// IsTTY reports whether stdout is a terminal.
	IsTTY func() bool
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, widget *chat.Widget, opts tui.ChatOptions) error {
	return tui.RunChat(ctx, widget, opts)
}

func (d *DefaultTUI) RunConfig(cfg config.Config) error {
	return tui.RunConfig(cfg)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:            &DefaultTUI{},
		Stdin:          os.Stdin,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		Clipboard:      clipboard.WriteAll,
		ExtractCookies: browser.ExtractSessionCookies,
		IsTTY:          isStdoutTTY,
	}
}
