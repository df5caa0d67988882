package api

import (
	"context"
	"sync"

	"github.com/diogo/formchat/internal/config"
	"github.com/diogo/formchat/internal/models"
)

// MockClient is a mock implementation of ChatClientInterface for testing
type MockClient struct {
	mu sync.Mutex

	// Mock return values
	Reply       models.Reply
	Err         error
	Replies     map[string]models.Reply // per-input replies, checked before Reply
	Errs        map[string]error        // per-input errors, checked before Err
	Cookies     []config.SessionCookie
	EndpointVal string
	IsClosedVal bool

	// Gate, when set, blocks every Send until it is closed or ctx is done
	Gate chan struct{}

	// Call recorders
	Inputs      []string
	CloseCalled bool
}

// Ensure MockClient implements ChatClientInterface
var _ ChatClientInterface = (*MockClient)(nil)

func (m *MockClient) Send(ctx context.Context, input string) (models.Reply, error) {
	m.mu.Lock()
	m.Inputs = append(m.Inputs, input)
	gate := m.Gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return models.Reply{}, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.Errs[input]; ok {
		return models.Reply{}, err
	}
	if reply, ok := m.Replies[input]; ok {
		return reply, nil
	}
	return m.Reply, m.Err
}

// Calls returns a copy of the recorded inputs
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Inputs))
	copy(out, m.Inputs)
	return out
}

func (m *MockClient) SessionCookies() []config.SessionCookie {
	return m.Cookies
}

func (m *MockClient) SetSessionCookies(cookies []config.SessionCookie) {
	m.Cookies = cookies
}

func (m *MockClient) Endpoint() string {
	return m.EndpointVal
}

func (m *MockClient) IsClosed() bool {
	return m.IsClosedVal
}

func (m *MockClient) Close() {
	m.CloseCalled = true
}
