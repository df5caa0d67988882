package api

import (
	"io"
	"net/url"
	"strings"
	"sync"

	http "github.com/bogdanfinn/fhttp"
)

// fakeTransport records requests and answers with a canned response
type fakeTransport struct {
	mu sync.Mutex

	statusCode int
	body       string
	err        error
	readErr    error

	requests []*http.Request
	bodies   []string
	cookies  map[string][]*http.Cookie
	closed   bool
}

var _ Transport = (*fakeTransport)(nil)

func newFakeTransport(status int, body string) *fakeTransport {
	return &fakeTransport{statusCode: status, body: body, cookies: map[string][]*http.Cookie{}}
}

func (f *fakeTransport) Do(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		f.bodies = append(f.bodies, string(data))
	}

	if f.err != nil {
		return nil, f.err
	}

	var body io.ReadCloser = io.NopCloser(strings.NewReader(f.body))
	if f.readErr != nil {
		body = io.NopCloser(&failingReader{err: f.readErr})
	}
	return &http.Response{
		StatusCode: f.statusCode,
		Body:       body,
		Header:     make(http.Header),
	}, nil
}

func (f *fakeTransport) GetCookies(u *url.URL) []*http.Cookie {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cookies[u.Host]
}

func (f *fakeTransport) SetCookies(u *url.URL, cookies []*http.Cookie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cookies[u.Host] = append(f.cookies[u.Host], cookies...)
}

func (f *fakeTransport) CloseIdleConnections() {
	f.closed = true
}

type failingReader struct {
	err error
}

func (r *failingReader) Read(p []byte) (int, error) {
	return 0, r.err
}
