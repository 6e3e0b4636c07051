package llm

import (
	"context"
	"sync"
)

// MockClient implements Client for testing. It records every request and
// replays either a fixed reply or a scripted function.
type MockClient struct {
	ModelName string
	Reply     string
	Err       error
	// ReplyFunc, when set, wins over Reply.
	ReplyFunc func(req CompletionRequest) (string, error)

	mu       sync.Mutex
	requests []CompletionRequest
}

func (m *MockClient) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

func (m *MockClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.ReplyFunc != nil {
		content, err := m.ReplyFunc(req)
		if err != nil {
			return nil, err
		}
		return &CompletionResponse{Content: content, StopReason: "stop"}, nil
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &CompletionResponse{
		Content:    m.Reply,
		StopReason: "stop",
		Usage:      TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}, nil
}

// Requests returns a copy of all requests seen so far.
func (m *MockClient) Requests() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CompletionRequest(nil), m.requests...)
}
