package agents

import (
	"context"
	"fmt"

	"familyconnect/internal/llm"
	"familyconnect/internal/logging"
	"familyconnect/internal/persona"
)

// ChatAgent answers free-text queries through the LLM, optionally speaking as
// a persona. LLM failures are trapped into a readable message rather than an
// error: the chat collaborator reports problems as text, never as an
// exception to the router.
type ChatAgent struct {
	client      llm.Client
	persona     *persona.Persona
	temperature float64
	maxTokens   int
	logger      logging.Logger
}

// ChatOption customizes a ChatAgent.
type ChatOption func(*ChatAgent)

// WithPersona makes the agent answer in the given persona's voice.
func WithPersona(p *persona.Persona) ChatOption {
	return func(a *ChatAgent) { a.persona = p }
}

// WithSampling overrides temperature and max tokens.
func WithSampling(temperature float64, maxTokens int) ChatOption {
	return func(a *ChatAgent) {
		a.temperature = temperature
		a.maxTokens = maxTokens
	}
}

// NewChatAgent builds a ChatAgent around client.
func NewChatAgent(client llm.Client, opts ...ChatOption) *ChatAgent {
	a := &ChatAgent{
		client:      client,
		temperature: 0.7,
		maxTokens:   500,
		logger:      logging.NewComponentLogger("ChatAgent"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Query sends prompt to the model and returns the reply text.
func (a *ChatAgent) Query(ctx context.Context, prompt string) (string, error) {
	var messages []llm.Message
	if a.persona != nil {
		messages = append(messages, llm.Message{Role: "system", Content: a.persona.SystemPrompt})
	}
	messages = append(messages, llm.Message{Role: "user", Content: prompt})
	return a.complete(ctx, messages)
}

func (a *ChatAgent) complete(ctx context.Context, messages []llm.Message) (string, error) {
	resp, err := a.client.Complete(ctx, llm.CompletionRequest{
		Messages:    messages,
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	})
	if err != nil {
		a.logger.Error("Chat completion failed: %v", err)
		return fmt.Sprintf("Une erreur est survenue : %v", err), nil
	}
	return resp.Content, nil
}
