package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"familyconnect/internal/logging"
)

// OpenAI API compatible client
type openaiClient struct {
	model      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
	headers    map[string]string
	maxRetries int
}

// NewOpenAIClient constructs an LLM client that speaks the OpenAI-compatible
// chat completions API using the provided configuration.
func NewOpenAIClient(model string, config Config) (Client, error) {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}

	timeout := 120 * time.Second
	if config.Timeout > 0 {
		timeout = time.Duration(config.Timeout) * time.Second
	}

	return &openaiClient{
		model:      model,
		apiKey:     config.APIKey,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewComponentLogger("LLM"),
		headers:    config.Headers,
		maxRetries: config.MaxRetries,
	}, nil
}

func (c *openaiClient) Model() string {
	return c.model
}

func (c *openaiClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	requestID := extractRequestID(req.Metadata)
	if requestID == "" {
		requestID = uuid.NewString()[:8]
	}
	prefix := fmt.Sprintf("[req:%s] ", requestID)

	oaiReq := map[string]any{
		"model":       c.model,
		"messages":    req.Messages,
		"temperature": req.Temperature,
		"max_tokens":  req.MaxTokens,
		"stream":      false,
	}

	body, err := json.Marshal(oaiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	c.logger.Debug("%s=== LLM Request ===", prefix)
	c.logger.Debug("%sURL: POST %s/chat/completions", prefix, c.baseURL)
	c.logger.Debug("%sModel: %s", prefix, c.model)

	var lastErr error
	attempts := c.maxRetries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
			c.logger.Debug("%sRetry %d/%d", prefix, attempt, c.maxRetries)
		}

		resp, err := c.doRequest(ctx, body)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.retryable {
			lastErr = resp.err
			continue
		}
		if resp.err != nil {
			return nil, resp.err
		}

		c.logger.Debug("%sStop Reason: %s", prefix, resp.completion.StopReason)
		c.logger.Debug("%sUsage: %d prompt + %d completion = %d total tokens",
			prefix,
			resp.completion.Usage.PromptTokens,
			resp.completion.Usage.CompletionTokens,
			resp.completion.Usage.TotalTokens)
		return resp.completion, nil
	}

	return nil, fmt.Errorf("llm request failed after %d attempts: %w", attempts, lastErr)
}

type completionResult struct {
	completion *CompletionResponse
	err        error
	retryable  bool
}

func (c *openaiClient) doRequest(ctx context.Context, body []byte) (completionResult, error) {
	endpoint := c.baseURL + "/chat/completions"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return completionResult{}, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return completionResult{}, fmt.Errorf("llm request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return completionResult{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := fmt.Errorf("llm api status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
		// Rate limits and upstream hiccups are worth a retry; client errors are not.
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return completionResult{err: apiErr, retryable: retryable}, nil
	}

	var oaiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
		Error *struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(respBody, &oaiResp); err != nil {
		return completionResult{err: fmt.Errorf("decode response: %w", err)}, nil
	}

	if oaiResp.Error != nil && oaiResp.Error.Message != "" {
		errMsg := oaiResp.Error.Message
		if oaiResp.Error.Type != "" {
			errMsg = fmt.Sprintf("%s: %s", oaiResp.Error.Type, oaiResp.Error.Message)
		}
		return completionResult{err: errors.New(errMsg)}, nil
	}

	if len(oaiResp.Choices) == 0 {
		return completionResult{err: errors.New("no choices in response"), retryable: true}, nil
	}

	return completionResult{
		completion: &CompletionResponse{
			Content:    strings.TrimSpace(oaiResp.Choices[0].Message.Content),
			StopReason: oaiResp.Choices[0].FinishReason,
			Usage: TokenUsage{
				PromptTokens:     oaiResp.Usage.PromptTokens,
				CompletionTokens: oaiResp.Usage.CompletionTokens,
				TotalTokens:      oaiResp.Usage.TotalTokens,
			},
		},
	}, nil
}

func extractRequestID(metadata map[string]any) string {
	if metadata == nil {
		return ""
	}
	if id, ok := metadata["request_id"].(string); ok {
		return id
	}
	return ""
}
