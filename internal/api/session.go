package api

import (
	http "github.com/bogdanfinn/fhttp"

	"github.com/diogo/formchat/internal/config"
)

// SessionCookies returns the backend cookies currently held by the jar
func (c *Client) SessionCookies() []config.SessionCookie {
	cookies := c.transport.GetCookies(c.baseURL)
	out := make([]config.SessionCookie, 0, len(cookies))
	for _, ck := range cookies {
		out = append(out, config.SessionCookie{
			Name:   ck.Name,
			Value:  ck.Value,
			Domain: ck.Domain,
			Path:   ck.Path,
		})
	}
	return out
}

// SetSessionCookies seeds the jar, e.g. to resume a saved or imported session
func (c *Client) SetSessionCookies(cookies []config.SessionCookie) {
	if len(cookies) == 0 {
		return
	}
	jar := make([]*http.Cookie, 0, len(cookies))
	for _, ck := range cookies {
		path := ck.Path
		if path == "" {
			path = "/"
		}
		jar = append(jar, &http.Cookie{
			Name:  ck.Name,
			Value: ck.Value,
			Path:  path,
		})
	}
	c.transport.SetCookies(c.baseURL, jar)
}
