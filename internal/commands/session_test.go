package commands

import (
	"io"
	"testing"

	"github.com/diogo/formchat/internal/api"
	"github.com/diogo/formchat/internal/config"
	"github.com/diogo/formchat/internal/logging"
	"github.com/diogo/formchat/internal/models"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

var _ io.Closer = nopCloser{}

func newTestRuntime(cfg config.Config, client *api.MockClient) *runtime {
	return &runtime{cfg: cfg, client: client, logger: logging.Discard(), closer: nopCloser{}}
}

func TestRestoreSession(t *testing.T) {
	cookies := []config.SessionCookie{{Name: "session", Value: "abc", Path: "/"}}

	tests := []struct {
		name      string
		persist   bool
		savedFor  string
		wantCount int
	}{
		{"same backend", true, "http://chat.test", 1},
		{"no base url recorded", true, "", 1},
		{"other backend", true, "http://elsewhere.test", 0},
		{"persistence off", false, "http://chat.test", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			if err := config.SaveSession(config.NewSession(tt.savedFor, cookies)); err != nil {
				t.Fatalf("SaveSession: %v", err)
			}

			cfg := config.DefaultConfig()
			cfg.BaseURL = "http://chat.test"
			cfg.PersistSession = tt.persist
			client := &api.MockClient{}

			restoreSession(newTestRuntime(cfg, client))

			if got := len(client.SessionCookies()); got != tt.wantCount {
				t.Errorf("restored %d cookies, want %d", got, tt.wantCount)
			}
		})
	}
}

func TestRestoreSession_NoSavedSession(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.DefaultConfig()
	cfg.PersistSession = true
	client := &api.MockClient{}

	restoreSession(newTestRuntime(cfg, client))

	if client.SessionCookies() != nil {
		t.Errorf("cookies = %+v", client.SessionCookies())
	}
}

func TestPersistSession(t *testing.T) {
	t.Run("saves cookies", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		cfg := config.DefaultConfig()
		cfg.BaseURL = "http://chat.test"
		cfg.PersistSession = true
		client := &api.MockClient{Cookies: []config.SessionCookie{{Name: "session", Value: "xyz"}}}

		persistSession(newTestRuntime(cfg, client))

		s, err := config.LoadSession()
		if err != nil || s == nil {
			t.Fatalf("LoadSession: %v, %v", s, err)
		}
		if s.BaseURL != "http://chat.test" || s.Len() != 1 || s.Snapshot()[0].Value != "xyz" {
			t.Errorf("saved session = %+v", s.Snapshot())
		}
	})

	t.Run("off", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		cfg := config.DefaultConfig()
		client := &api.MockClient{Cookies: []config.SessionCookie{{Name: "session", Value: "xyz"}}}

		persistSession(newTestRuntime(cfg, client))

		if s, _ := config.LoadSession(); s != nil {
			t.Errorf("nothing should be saved, got %+v", s.Snapshot())
		}
	})

	t.Run("no cookies", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		cfg := config.DefaultConfig()
		cfg.PersistSession = true

		persistSession(newTestRuntime(cfg, &api.MockClient{}))

		if s, _ := config.LoadSession(); s != nil {
			t.Errorf("nothing should be saved, got %+v", s.Snapshot())
		}
	})
}

func TestSession_RoundTripAcrossRuns(t *testing.T) {
	env := newTestEnv(t)
	cfg := config.DefaultConfig()
	cfg.PersistSession = true
	writeConfig(t, cfg)

	env.client.Cookies = []config.SessionCookie{{Name: "session", Value: "first"}}
	if err := env.run("hi"); err != nil {
		t.Fatalf("first run: %v", err)
	}

	next := &api.MockClient{Reply: models.PlainReply("again")}
	env.deps.Client = next
	if err := env.run("hi"); err != nil {
		t.Fatalf("second run: %v", err)
	}

	got := next.SessionCookies()
	if len(got) != 1 || got[0].Value != "first" {
		t.Errorf("second run cookies = %+v", got)
	}
}
