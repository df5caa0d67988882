package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/diogo/formchat/internal/config"
	"github.com/diogo/formchat/internal/models"
)

// Transport is the subset of tls_client.HttpClient the chat client needs
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
	GetCookies(u *url.URL) []*http.Cookie
	SetCookies(u *url.URL, cookies []*http.Cookie)
	CloseIdleConnections()
}

// ChatClientInterface is what the widget and commands need from a chat client
type ChatClientInterface interface {
	Send(ctx context.Context, input string) (models.Reply, error)
	SessionCookies() []config.SessionCookie
	SetSessionCookies(cookies []config.SessionCookie)
	Endpoint() string
	IsClosed() bool
	Close()
}

// Client talks to one chat backend endpoint
type Client struct {
	transport Transport
	baseURL   *url.URL
	endpoint  string
	timeout   time.Duration
	headers   map[string]string
	mu        sync.RWMutex
	closed    bool
}

var _ ChatClientInterface = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithEndpoint sets the path of the chat endpoint (default /process_chat)
func WithEndpoint(path string) ClientOption {
	return func(c *Client) {
		if path == "" {
			return
		}
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		c.endpoint = path
	}
}

// WithTimeout bounds each request/response exchange
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithTransport replaces the default TLS client, mainly for tests
func WithTransport(t Transport) ClientOption {
	return func(c *Client) {
		c.transport = t
	}
}

// WithHeader adds or overrides a request header
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", baseURL)
	}

	client := &Client{
		baseURL:  u,
		endpoint: models.EndpointProcess,
		timeout:  60 * time.Second,
		headers:  models.DefaultHeaders(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.transport == nil {
		// The cookie jar carries the backend's session between turns
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithCookieJar(tls_client.NewCookieJar()),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.transport = httpClient
	}

	return client, nil
}

// Endpoint returns the absolute URL requests are sent to
func (c *Client) Endpoint() string {
	return c.baseURL.String() + c.endpoint
}

// BaseURL returns the parsed base URL
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Close shuts down the client and releases idle connections
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.transport.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
