package llm

import (
	"context"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Text  string
	Usage Usage
	Err   error
}

// MockProvider is a deterministic Provider for testing and offline play.
// It returns canned responses in FIFO order and records all requests.
// With an empty queue it falls back to Fallback when set.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request

	// Fallback answers requests once the queue is drained.
	Fallback func(req Request) string
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response, the fallback text, or
// ErrProviderUnavailable if neither is available.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		if m.Fallback != nil {
			return &Response{Text: m.Fallback(req), Model: "mock", StopReason: "end"}, nil
		}
		return nil, &ErrProviderUnavailable{Err: nil}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Text:       resp.Text,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

func (m *MockProvider) Name() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// NewOfflineProvider returns a MockProvider that answers every request with
// fixed lesson material, for playing without an API key.
func NewOfflineProvider() *MockProvider {
	m := NewMockProvider()
	m.Fallback = func(req Request) string {
		if req.JSON {
			return `{"question":"Which action reduces household energy use the most?",` +
				`"options":["Leaving chargers plugged in","Switching to LED bulbs","Opening the fridge often","Running half-empty dishwasher loads"],` +
				`"correctIndex":1}`
		}
		return "Small daily choices add up. LED bulbs use far less electricity than " +
			"incandescent ones and last many times longer, which cuts both power-plant " +
			"emissions and waste. Unplugging idle chargers and running full appliance " +
			"loads are other easy ways to save energy at home."
	}
	return m
}
