package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/formchat/internal/api"
	"github.com/diogo/formchat/internal/config"
	apierrors "github.com/diogo/formchat/internal/errors"
	"github.com/diogo/formchat/internal/models"
)

func TestSend_Replies(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		reply    models.Reply
		wantSent string
		want     []string
		notWant  []string
	}{
		{
			name:     "plain",
			args:     []string{"hi"},
			reply:    models.PlainReply("hello"),
			wantSent: "hi",
			want:     []string{"You", "hi", "Robot", "hello"},
		},
		{
			name:     "structured",
			args:     []string{"hi"},
			reply:    models.StructuredReply("structured answer"),
			wantSent: "hi",
			want:     []string{"You", "structured answer"},
		},
		{
			name:     "options",
			args:     []string{"pick"},
			reply:    models.OptionsReply([]string{"A", "B"}),
			wantSent: "pick",
			want:     []string{"You", "pick", "1.", "A", "2.", "B", "--option"},
		},
		{
			name:     "failure has no user bubble",
			args:     []string{"bad"},
			reply:    models.FailureReply("bad input"),
			wantSent: "bad",
			want:     []string{"Error: bad input"},
			notWant:  []string{"You"},
		},
		{
			name:     "option path keeps its user bubble on failure",
			args:     []string{"--option", "A"},
			reply:    models.FailureReply("nope"),
			wantSent: "A",
			want:     []string{"You", "A", "Error: nope"},
		},
		{
			name:     "empty input is sent",
			args:     []string{""},
			reply:    models.PlainReply("empty ok"),
			wantSent: "",
			want:     []string{"empty ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.client.Reply = tt.reply

			if err := env.run(tt.args...); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			calls := env.client.Calls()
			if len(calls) != 1 || calls[0] != tt.wantSent {
				t.Fatalf("calls = %q, want [%q]", calls, tt.wantSent)
			}

			out := env.stdout.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("stdout missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("stdout should not contain %q:\n%s", w, out)
				}
			}
			if !env.client.CloseCalled {
				t.Error("client should be closed after the turn")
			}
		})
	}
}

func TestSend_Raw(t *testing.T) {
	tests := []struct {
		name  string
		reply models.Reply
		want  string
	}{
		{"plain", models.PlainReply("hello"), "hello\n"},
		{"options", models.OptionsReply([]string{"A", "B"}), "A\nB\n"},
		{"failure", models.FailureReply("bad"), "Error: bad\n"},
		{"unrecognized", models.UnrecognizedReply(`{"question":"?"}`), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.client.Reply = tt.reply

			if err := env.run("--raw", "hi"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := env.stdout.String(); got != tt.want {
				t.Errorf("stdout = %q, want %q", got, tt.want)
			}
			if env.stderr.Len() != 0 {
				t.Errorf("raw mode should keep stderr quiet, got %q", env.stderr.String())
			}
		})
	}
}

func TestSend_TransportFailure(t *testing.T) {
	env := newTestEnv(t)
	env.client.Err = apierrors.NewNetworkError("send", errors.New("connection refused"))

	err := env.run("hi")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !apierrors.IsNetworkError(err) {
		t.Errorf("expected a network error in the chain, got %v", err)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("nothing should be printed, got %q", env.stdout.String())
	}
}

func TestSend_Unrecognized(t *testing.T) {
	env := newTestEnv(t)
	env.client.Reply = models.UnrecognizedReply(`{"question":"?"}`)

	if err := env.run("hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing", env.stdout.String())
	}
	if !strings.Contains(env.stderr.String(), "no renderable content") {
		t.Errorf("stderr = %q", env.stderr.String())
	}
}

func TestSend_OutputFile(t *testing.T) {
	env := newTestEnv(t)
	env.client.Reply = models.PlainReply("saved text")
	path := filepath.Join(t.TempDir(), "reply.txt")

	if err := env.run("-o", path, "hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "saved text" {
		t.Errorf("file = %q", data)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("stdout should be empty when writing a file, got %q", env.stdout.String())
	}
	if !strings.Contains(env.stderr.String(), path) {
		t.Errorf("stderr should name the file, got %q", env.stderr.String())
	}
}

func TestSend_Clipboard(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		env := newTestEnv(t)
		cfg := config.DefaultConfig()
		cfg.CopyToClipboard = true
		writeConfig(t, cfg)
		env.client.Reply = models.PlainReply("copy me")

		if err := env.run("hi"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(env.copied) != 1 || env.copied[0] != "copy me" {
			t.Errorf("copied = %q", env.copied)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("hi"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(env.copied) != 0 {
			t.Errorf("copied = %q", env.copied)
		}
	})

	t.Run("failure is a warning", func(t *testing.T) {
		env := newTestEnv(t)
		cfg := config.DefaultConfig()
		cfg.CopyToClipboard = true
		writeConfig(t, cfg)
		env.deps.Clipboard = func(string) error { return errors.New("no display") }

		if err := env.run("hi"); err != nil {
			t.Fatalf("clipboard failure should not fail the command: %v", err)
		}
		if !strings.Contains(env.stderr.String(), "no display") {
			t.Errorf("stderr = %q", env.stderr.String())
		}
	})
}

func TestReplyText(t *testing.T) {
	bubbles := []models.Bubble{
		models.UserBubble("ignored"),
		models.RobotBubble("\x1b[31mred\x1b[0m"),
		models.OptionsBubble([]string{"A", "B\x07"}),
	}
	if got := replyText(bubbles); got != "red\nA\nB" {
		t.Errorf("replyText = %q", got)
	}
	if got := replyText(nil); got != "" {
		t.Errorf("replyText(nil) = %q", got)
	}
}

func TestPrintBubbles_Literal(t *testing.T) {
	var buf bytes.Buffer
	printBubbles(&buf, []models.Bubble{
		models.UserBubble("\x1b]0;title\x07me"),
		models.RobotBubble("\x1b[2Jclear"),
	}, 80)

	out := buf.String()
	if strings.Contains(out, "\x1b]0;") || strings.Contains(out, "\x1b[2J") {
		t.Errorf("control sequences should be stripped: %q", out)
	}
	if !strings.Contains(out, "me") || !strings.Contains(out, "clear") {
		t.Errorf("text missing: %q", out)
	}
}

func TestRobotStyle_FollowsReplyKind(t *testing.T) {
	if got := robotStyle(models.RobotBubble("Error: plain text")).GetBorderTopForeground(); got != colorPrimary {
		t.Errorf("plain bubble border = %v, want %v", got, colorPrimary)
	}
	if got := robotStyle(models.ErrorBubble("bad")).GetBorderTopForeground(); got != colorError {
		t.Errorf("failure bubble border = %v, want %v", got, colorError)
	}
}

// snapshotClient records what was printed at the moment the request went out
type snapshotClient struct {
	*api.MockClient
	out         *bytes.Buffer
	printedThen string
}

func (c *snapshotClient) Send(ctx context.Context, input string) (models.Reply, error) {
	c.printedThen = c.out.String()
	return c.MockClient.Send(ctx, input)
}

func TestSend_OptionBubblePrintedBeforeRequest(t *testing.T) {
	env := newTestEnv(t)
	client := &snapshotClient{
		MockClient: &api.MockClient{Reply: models.StructuredReply("noted")},
		out:        env.stdout,
	}
	env.deps.Client = client

	if err := env.run("--option", "Option A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(client.printedThen, "Option A") {
		t.Errorf("user bubble should be printed before the request, got %q", client.printedThen)
	}
	if strings.Contains(client.printedThen, "noted") {
		t.Error("reply cannot be printed before the request")
	}
	if out := env.stdout.String(); strings.Count(out, "Option A") != 1 || !strings.Contains(out, "noted") {
		t.Errorf("stdout = %q", out)
	}
}

func TestSend_OptionBubbleStaysOnTransportFailure(t *testing.T) {
	env := newTestEnv(t)
	env.client.Err = apierrors.NewNetworkError("send", errors.New("refused"))

	if err := env.run("--option", "Option A"); err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(env.stdout.String(), "Option A") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}
