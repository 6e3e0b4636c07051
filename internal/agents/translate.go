package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"familyconnect/internal/logging"
)

// Translator translates free text into the configured target language by
// calling a LibreTranslate-compatible service. Source language is detected
// server-side. Transport and API failures are returned as errors and left to
// the caller; the translator itself never swallows them.
type Translator struct {
	baseURL    string
	apiKey     string
	target     string
	httpClient *http.Client
	logger     logging.Logger
}

// TranslatorConfig carries the service endpoint and target language.
type TranslatorConfig struct {
	BaseURL string
	APIKey  string
	Target  string // ISO 639-1 code, e.g. "en"
	Timeout time.Duration
}

// NewTranslator builds a Translator. Target defaults to English.
func NewTranslator(cfg TranslatorConfig) *Translator {
	if cfg.Target == "" {
		cfg.Target = "en"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Translator{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		target:     cfg.Target,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewComponentLogger("Translator"),
	}
}

// Translate sends text to the translation service and returns the translated
// sentence.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	payload := map[string]string{
		"q":      text,
		"source": "auto",
		"target": t.target,
		"format": "text",
	}
	if t.apiKey != "" {
		payload["api_key"] = t.apiKey
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	t.logger.Debug("Translating %d chars to %s", len(text), t.target)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var decoded struct {
		TranslatedText string `json:"translatedText"`
		Error          string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := decoded.Error
		if msg == "" {
			msg = resp.Status
		}
		return "", fmt.Errorf("translate service: %s", msg)
	}
	return decoded.TranslatedText, nil
}
