package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	lru "github.com/hashicorp/golang-lru/v2"

	"familyconnect/internal/logging"
)

// cachedClient memoizes completions keyed on model plus the full message
// list. Useful for the persona fallbacks and repeated calendar questions; the
// cache is per-process and bounded.
type cachedClient struct {
	inner  Client
	cache  *lru.Cache[string, *CompletionResponse]
	logger logging.Logger
}

// NewCachedClient wraps client with an LRU response cache of the given size.
// A size <= 0 disables caching and returns client unchanged.
func NewCachedClient(client Client, size int) Client {
	if size <= 0 {
		return client
	}
	cache, err := lru.New[string, *CompletionResponse](size)
	if err != nil {
		return client
	}
	return &cachedClient{
		inner:  client,
		cache:  cache,
		logger: logging.NewComponentLogger("LLMCache"),
	}
}

func (c *cachedClient) Model() string {
	return c.inner.Model()
}

func (c *cachedClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	key := cacheKey(c.inner.Model(), req)
	if resp, ok := c.cache.Get(key); ok {
		c.logger.Debug("Cache hit for model %s", c.inner.Model())
		return resp, nil
	}

	resp, err := c.inner.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, resp)
	return resp, nil
}

func cacheKey(model string, req CompletionRequest) string {
	h := sha256.New()
	h.Write([]byte(model))
	// Metadata (request IDs) deliberately excluded so identical conversations hit.
	payload, _ := json.Marshal(struct {
		Messages    []Message `json:"messages"`
		Temperature float64   `json:"temperature"`
		MaxTokens   int       `json:"max_tokens"`
	}{req.Messages, req.Temperature, req.MaxTokens})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
