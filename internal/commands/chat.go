package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diogo/formchat/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat window",
		Long: `Start the interactive chat window.

Type a message and press Enter to send it. When the backend answers with
options, press Tab to move to the buttons and Enter to choose one. Older
option buttons stay selectable. Press Esc or Ctrl+C to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), deps, opts)
		},
	}
}

func runChat(ctx context.Context, deps *Dependencies, opts *globalOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := opts.settings()
	if err != nil {
		return err
	}

	rt, err := newRuntime(deps, cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	rt.logger.WithField("base_url", cfg.BaseURL).Info("chat window opened")

	return deps.TUI.RunChat(ctx, rt.widget(), tui.ChatOptions{
		Endpoint:  cfg.BaseURL + cfg.Endpoint,
		HelpStyle: cfg.HelpStyle,
		Theme:     cfg.TUITheme,
	})
}
