package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// SessionCookie is one backend cookie, in browser export format
type SessionCookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain,omitempty"`
	Path   string `json:"path,omitempty"`
}

// Session holds the backend cookies for one base URL
type Session struct {
	mu      sync.RWMutex
	BaseURL string          `json:"base_url"`
	Cookies []SessionCookie `json:"cookies"`
}

// NewSession creates a session for baseURL holding a copy of cookies
func NewSession(baseURL string, cookies []SessionCookie) *Session {
	s := &Session{BaseURL: baseURL}
	s.Replace(cookies)
	return s
}

// Snapshot returns a copy of the cookies (for serialization or HTTP requests)
func (s *Session) Snapshot() []SessionCookie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SessionCookie, len(s.Cookies))
	copy(out, s.Cookies)
	return out
}

// Replace swaps the stored cookies atomically
func (s *Session) Replace(cookies []SessionCookie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cookies = make([]SessionCookie, len(cookies))
	copy(s.Cookies, cookies)
}

// Len returns the number of stored cookies
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Cookies)
}

// LoadSession loads the saved session. A missing file yields (nil, nil).
func LoadSession() (*Session, error) {
	sessionPath, err := GetSessionPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(sessionPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	return parseSession(data, "")
}

// parseSession parses cookies from JSON data.
// Supports the saved format {base_url, cookies}, list format [{name, value}]
// and dict format {name: value}.
func parseSession(data []byte, baseURL string) (*Session, error) {
	var saved struct {
		BaseURL string          `json:"base_url"`
		Cookies []SessionCookie `json:"cookies"`
	}
	if err := json.Unmarshal(data, &saved); err == nil && saved.Cookies != nil {
		if baseURL == "" {
			baseURL = saved.BaseURL
		}
		return NewSession(baseURL, validCookies(saved.Cookies)), nil
	}

	var listFormat []SessionCookie
	if err := json.Unmarshal(data, &listFormat); err == nil {
		cookies := validCookies(listFormat)
		if len(cookies) == 0 {
			return nil, fmt.Errorf("no cookies found in list")
		}
		return NewSession(baseURL, cookies), nil
	}

	var dictFormat map[string]string
	if err := json.Unmarshal(data, &dictFormat); err == nil {
		var cookies []SessionCookie
		for name, value := range dictFormat {
			cookies = append(cookies, SessionCookie{Name: name, Value: value})
		}
		cookies = validCookies(cookies)
		if len(cookies) == 0 {
			return nil, fmt.Errorf("no cookies found in dict")
		}
		sortCookies(cookies)
		return NewSession(baseURL, cookies), nil
	}

	return nil, fmt.Errorf("invalid cookies format: expected list [{name, value}] or dict {name: value}")
}

// validCookies drops entries without a name
func validCookies(in []SessionCookie) []SessionCookie {
	out := make([]SessionCookie, 0, len(in))
	for _, c := range in {
		if c.Name == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func sortCookies(cookies []SessionCookie) {
	sort.Slice(cookies, func(i, j int) bool { return cookies[i].Name < cookies[j].Name })
}

// SaveSession saves the session to the session file
func SaveSession(s *Session) error {
	if s == nil {
		return fmt.Errorf("session is nil")
	}

	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	s.mu.RLock()
	data, err := json.MarshalIndent(s, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Owner read/write only: these cookies authenticate the conversation
	if err := os.WriteFile(filepath.Join(configDir, "session.json"), data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// ImportSession imports cookies for baseURL from a source file
func ImportSession(sourcePath, baseURL string) (*Session, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("source file not found: %s", sourcePath)
		}
		return nil, fmt.Errorf("could not read file: %w", err)
	}

	s, err := parseSession(data, baseURL)
	if err != nil {
		return nil, err
	}

	if err := SaveSession(s); err != nil {
		return nil, err
	}
	return s, nil
}

// ClearSession removes the saved session, if any
func ClearSession() error {
	sessionPath, err := GetSessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(sessionPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
