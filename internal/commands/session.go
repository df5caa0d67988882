package commands

import (
	"github.com/diogo/formchat/internal/config"
)

// restoreSession seeds the client's cookie jar from the saved session.
// A session saved for another base URL is left alone.
func restoreSession(rt *runtime) {
	if !rt.cfg.PersistSession {
		return
	}

	s, err := config.LoadSession()
	if err != nil {
		rt.logger.WithError(err).Warn("could not load saved session")
		return
	}
	if s == nil || s.Len() == 0 {
		return
	}
	if s.BaseURL != "" && s.BaseURL != rt.cfg.BaseURL {
		rt.logger.WithField("session_url", s.BaseURL).Debug("saved session belongs to another backend, skipped")
		return
	}

	rt.client.SetSessionCookies(s.Snapshot())
	rt.logger.WithField("cookies", s.Len()).Debug("session restored")
}

// persistSession saves the client's backend cookies for the next run
func persistSession(rt *runtime) {
	if !rt.cfg.PersistSession {
		return
	}

	cookies := rt.client.SessionCookies()
	if len(cookies) == 0 {
		return
	}

	if err := config.SaveSession(config.NewSession(rt.cfg.BaseURL, cookies)); err != nil {
		rt.logger.WithError(err).Warn("could not save session")
		return
	}
	rt.logger.WithField("cookies", len(cookies)).Debug("session saved")
}
