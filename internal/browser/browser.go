// Package browser reads the chat backend's session cookies from local browser profiles.
package browser

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/chrome"
	_ "github.com/browserutils/kooky/browser/chromium"
	_ "github.com/browserutils/kooky/browser/edge"
	_ "github.com/browserutils/kooky/browser/firefox"
	_ "github.com/browserutils/kooky/browser/opera"

	"github.com/diogo/formchat/internal/config"
)

// SupportedBrowser represents a supported browser type
type SupportedBrowser string

const (
	BrowserAuto     SupportedBrowser = "auto"
	BrowserChrome   SupportedBrowser = "chrome"
	BrowserChromium SupportedBrowser = "chromium"
	BrowserFirefox  SupportedBrowser = "firefox"
	BrowserEdge     SupportedBrowser = "edge"
	BrowserOpera    SupportedBrowser = "opera"
)

// AllSupportedBrowsers returns a list of all supported browsers
func AllSupportedBrowsers() []SupportedBrowser {
	return []SupportedBrowser{
		BrowserChrome,
		BrowserChromium,
		BrowserFirefox,
		BrowserEdge,
		BrowserOpera,
	}
}

// String returns the string representation of the browser
func (b SupportedBrowser) String() string {
	return string(b)
}

// ParseBrowser parses a browser string into a SupportedBrowser
func ParseBrowser(s string) (SupportedBrowser, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return BrowserAuto, nil
	case "chrome", "google-chrome":
		return BrowserChrome, nil
	case "chromium":
		return BrowserChromium, nil
	case "firefox", "mozilla", "mozilla-firefox":
		return BrowserFirefox, nil
	case "edge", "microsoft-edge", "msedge":
		return BrowserEdge, nil
	case "opera":
		return BrowserOpera, nil
	default:
		return "", fmt.Errorf("unsupported browser: %s. Supported: chrome, chromium, firefox, edge, opera", s)
	}
}

// ExtractResult contains the result of cookie extraction
type ExtractResult struct {
	Cookies     []config.SessionCookie
	BrowserName string
}

// ExtractSessionCookies reads the chat backend's session cookies for host
// from a local browser profile
func ExtractSessionCookies(ctx context.Context, browser SupportedBrowser, host string) (*ExtractResult, error) {
	host = normalizeHost(host)
	if host == "" {
		return nil, fmt.Errorf("no backend host to look up cookies for")
	}
	if browser == BrowserAuto {
		return extractFromAllBrowsers(ctx, host)
	}
	return extractFromBrowser(ctx, browser, host)
}

// extractFromAllBrowsers tries every supported browser in order of popularity
func extractFromAllBrowsers(ctx context.Context, host string) (*ExtractResult, error) {
	browsers := []SupportedBrowser{
		BrowserChrome,
		BrowserFirefox,
		BrowserEdge,
		BrowserChromium,
		BrowserOpera,
	}

	var lastErr error
	for _, browser := range browsers {
		result, err := extractFromBrowser(ctx, browser, host)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return nil, fmt.Errorf("could not find cookies for %s in any browser: %w", host, lastErr)
	}
	return nil, fmt.Errorf("could not find cookies for %s in any supported browser", host)
}

// extractFromBrowser tries all profiles of one browser until one holds cookies for host
func extractFromBrowser(ctx context.Context, browser SupportedBrowser, host string) (*ExtractResult, error) {
	stores := kooky.FindAllCookieStores(ctx)

	var matchingStores []kooky.CookieStore
	for _, store := range stores {
		if matchesBrowser(store.Browser(), browser) {
			matchingStores = append(matchingStores, store)
		} else {
			store.Close()
		}
	}
	defer func() {
		for _, s := range matchingStores {
			s.Close()
		}
	}()

	if len(matchingStores) == 0 {
		return nil, fmt.Errorf("browser %s not found or no cookie store available", browser)
	}

	var lastErr error
	for _, store := range matchingStores {
		result, err := extractCookiesFromStore(ctx, store, host)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// matchesBrowser checks if a browser name matches the target browser
func matchesBrowser(browserName string, target SupportedBrowser) bool {
	browserName = strings.ToLower(browserName)

	switch target {
	case BrowserChrome:
		return strings.Contains(browserName, "chrome") && !strings.Contains(browserName, "chromium")
	case BrowserChromium:
		return strings.Contains(browserName, "chromium")
	case BrowserFirefox:
		return strings.Contains(browserName, "firefox")
	case BrowserEdge:
		return strings.Contains(browserName, "edge")
	case BrowserOpera:
		return strings.Contains(browserName, "opera")
	default:
		return false
	}
}

// extractCookiesFromStore collects the cookies a browser would send to host
func extractCookiesFromStore(ctx context.Context, store kooky.CookieStore, host string) (*ExtractResult, error) {
	cookies := store.TraverseCookies(
		kooky.Valid,
		kooky.DomainContains(host),
	).OnlyCookies()

	var collector cookieCollector
	for cookie := range cookies {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		collector.add(host, cookie.Name, cookie.Value, cookie.Domain, cookie.Path)
	}

	displayName := store.Browser()
	if profile := store.Profile(); profile != "" {
		displayName = fmt.Sprintf("%s (profile: %s)", displayName, profile)
	}

	if len(collector.cookies) == 0 {
		return nil, fmt.Errorf("no cookies for %s found in %s. Open the chat page in that browser first", host, displayName)
	}

	return &ExtractResult{
		Cookies:     collector.cookies,
		BrowserName: displayName,
	}, nil
}

// cookieCollector keeps one cookie per name, preferring an exact host match
// over a parent-domain cookie
type cookieCollector struct {
	cookies []config.SessionCookie
	exact   map[string]bool
}

func (c *cookieCollector) add(host, name, value, domain, path string) {
	if name == "" || !domainMatches(domain, host) {
		return
	}
	if c.exact == nil {
		c.exact = make(map[string]bool)
	}
	exact := normalizeHost(domain) == host

	for i, existing := range c.cookies {
		if existing.Name != name {
			continue
		}
		if exact && !c.exact[name] {
			c.cookies[i] = config.SessionCookie{Name: name, Value: value, Domain: domain, Path: path}
			c.exact[name] = true
		}
		return
	}
	c.cookies = append(c.cookies, config.SessionCookie{Name: name, Value: value, Domain: domain, Path: path})
	c.exact[name] = exact
}

// domainMatches reports whether a cookie set for domain is sent to host
func domainMatches(domain, host string) bool {
	domain = normalizeHost(domain)
	if domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// normalizeHost lowercases a host and strips the port and any leading dot
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimPrefix(host, ".")
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return host
}

// ListAvailableBrowsers returns a list of browsers that have cookie stores
func ListAvailableBrowsers() []string {
	ctx := context.Background()
	stores := kooky.FindAllCookieStores(ctx)
	var browsers []string

	seen := make(map[string]bool)
	for _, store := range stores {
		name := store.Browser()
		if !seen[name] {
			browsers = append(browsers, name)
			seen[name] = true
		}
		store.Close()
	}

	return browsers
}
