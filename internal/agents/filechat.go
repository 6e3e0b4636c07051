package agents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"golang.org/x/sync/errgroup"

	"familyconnect/internal/llm"
	"familyconnect/internal/logging"
)

// ContextChat answers queries with the contents of the configured document
// folders inlined as system context. It is the handler behind the
// birthday-phrase, appointment and file/document intents.
type ContextChat struct {
	client      llm.Client
	dirs        []string
	tokenBudget int
	temperature float64
	maxTokens   int
	logger      logging.Logger

	encOnce  sync.Once
	encoding *tiktoken.Tiktoken
}

// ContextChatConfig configures a ContextChat.
type ContextChatConfig struct {
	// Dirs are scanned non-recursively, in order.
	Dirs []string
	// TokenBudget caps the accumulated file context; 0 means no cap.
	TokenBudget int
	Temperature float64
	MaxTokens   int
}

// NewContextChat builds a ContextChat over the given client and folders.
func NewContextChat(client llm.Client, cfg ContextChatConfig) *ContextChat {
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}
	return &ContextChat{
		client:      client,
		dirs:        cfg.Dirs,
		tokenBudget: cfg.TokenBudget,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      logging.NewComponentLogger("ContextChat"),
	}
}

// Query builds the file context and asks the model. LLM failures are trapped
// into a readable message, same as the plain chat handler.
func (c *ContextChat) Query(ctx context.Context, query string) (string, error) {
	contextText, err := c.buildContext(ctx)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: "Contexte: " + contextText},
			{Role: "user", Content: query},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		c.logger.Error("Context chat completion failed: %v", err)
		return fmt.Sprintf("Une erreur est survenue : %v", err), nil
	}
	return resp.Content, nil
}

type fileContent struct {
	dir  string
	name string
	text string
}

// buildContext reads every regular file directly under each configured dir.
// Directories that do not exist are skipped. Unreadable files contribute an
// error note instead of aborting the whole context, so one bad file cannot
// take down the document intents.
func (c *ContextChat) buildContext(ctx context.Context) (string, error) {
	var (
		mu       sync.Mutex
		contents []fileContent
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, dir := range c.dirs {
		g.Go(func() error {
			entries, err := os.ReadDir(dir)
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return fmt.Errorf("read context dir %s: %w", dir, err)
			}
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				path := filepath.Join(dir, entry.Name())
				data, readErr := os.ReadFile(path)
				text := ""
				if readErr != nil {
					text = fmt.Sprintf("Erreur lors de la lecture du fichier %s: %v", entry.Name(), readErr)
				} else {
					text = fmt.Sprintf("Contenu du fichier %s:\n%s", entry.Name(), string(data))
				}
				mu.Lock()
				contents = append(contents, fileContent{dir: dir, name: entry.Name(), text: text})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	// Deterministic order regardless of which goroutine finished first.
	sort.Slice(contents, func(i, j int) bool {
		if contents[i].dir != contents[j].dir {
			return dirIndex(c.dirs, contents[i].dir) < dirIndex(c.dirs, contents[j].dir)
		}
		return contents[i].name < contents[j].name
	})

	var b strings.Builder
	for _, fc := range contents {
		b.WriteString("\n")
		b.WriteString(fc.text)
		b.WriteString("\n")
	}

	return c.truncateToBudget(b.String()), nil
}

func dirIndex(dirs []string, dir string) int {
	for i, d := range dirs {
		if d == dir {
			return i
		}
	}
	return len(dirs)
}

// truncateToBudget trims the context to the token budget using cl100k_base,
// falling back to a rune heuristic when the encoding is unavailable.
func (c *ContextChat) truncateToBudget(text string) string {
	if c.tokenBudget <= 0 {
		return text
	}

	c.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			c.logger.Warn("tiktoken unavailable, using rune heuristic: %v", err)
			return
		}
		c.encoding = enc
	})

	if c.encoding != nil {
		tokens := c.encoding.Encode(text, nil, nil)
		if len(tokens) <= c.tokenBudget {
			return text
		}
		c.logger.Debug("Context truncated from %d to %d tokens", len(tokens), c.tokenBudget)
		return c.encoding.Decode(tokens[:c.tokenBudget])
	}

	runes := []rune(text)
	limit := c.tokenBudget * 4
	if limit >= len(runes) {
		return text
	}
	return string(runes[:limit])
}
