package agents

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"familyconnect/internal/llm"
	"familyconnect/internal/persona"
)

func TestTranslatorPostsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/translate", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "bonjour le monde", body["q"])
		assert.Equal(t, "auto", body["source"])
		assert.Equal(t, "en", body["target"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"translatedText": "hello world"}`))
	}))
	defer srv.Close()

	tr := NewTranslator(TranslatorConfig{BaseURL: srv.URL})
	got, err := tr.Translate(context.Background(), "bonjour le monde")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestTranslatorPropagatesServiceErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "unsupported language"}`))
	}))
	defer srv.Close()

	tr := NewTranslator(TranslatorConfig{BaseURL: srv.URL})
	_, err := tr.Translate(context.Background(), "bonjour")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language")
}

func weatherPayload() string {
	return `{
		"cod": 200,
		"main": {"temp_min": 8.2, "temp_max": 14.5, "humidity": 71},
		"wind": {"speed": 3.6, "deg": 90},
		"weather": [{"description": "ciel dégagé"}],
		"sys": {"sunrise": 1719809220, "sunset": 1719866040},
		"dt": 1719830000
	}`
}

func TestWeatherLookupFormatsReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "paris", q.Get("q"))
		assert.Equal(t, "metric", q.Get("units"))
		assert.Equal(t, "fr", q.Get("lang"))
		assert.Equal(t, "test-key", q.Get("appid"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(weatherPayload()))
	}))
	defer srv.Close()

	ws := NewWeatherService(WeatherConfig{BaseURL: srv.URL, APIKey: "test-key"})
	report, err := ws.Lookup(context.Background(), "paris")
	require.NoError(t, err)

	assert.Contains(t, report, "Paris")
	assert.Contains(t, report, "Ciel dégagé")
	assert.Contains(t, report, "8.2°C")
	assert.Contains(t, report, "14.5°C")
	assert.Contains(t, report, "71%")
	assert.Contains(t, report, "3.6 m/s (E)")
}

func TestWeatherLookupAPIErrorBecomesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cod": "404", "message": "city not found"}`))
	}))
	defer srv.Close()

	ws := NewWeatherService(WeatherConfig{BaseURL: srv.URL, APIKey: "k"})
	report, err := ws.Lookup(context.Background(), "nowhere")
	require.NoError(t, err, "API-level failures are messages, not errors")
	assert.Contains(t, report, "city not found")
}

func TestDegToDirection(t *testing.T) {
	cases := map[float64]string{
		0:   "N",
		45:  "NE",
		90:  "E",
		135: "SE",
		180: "S",
		225: "SW",
		270: "W",
		315: "NW",
		350: "N",
		360: "N",
		// Out-of-contract values must not panic the report path.
		-50:  "NW",
		-90:  "W",
		-360: "N",
		405:  "NE",
		720:  "N",
	}
	for deg, want := range cases {
		assert.Equal(t, want, degToDirection(deg), "deg %v", deg)
	}
}

func TestWeatherLookupToleratesNegativeWindDegrees(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"cod": 200,
			"main": {"temp_min": 1, "temp_max": 2, "humidity": 50},
			"wind": {"speed": 2, "deg": -50},
			"weather": [{"description": "brume"}],
			"sys": {"sunrise": 1719809220, "sunset": 1719866040},
			"dt": 1719830000
		}`))
	}))
	defer srv.Close()

	ws := NewWeatherService(WeatherConfig{BaseURL: srv.URL, APIKey: "k"})
	report, err := ws.Lookup(context.Background(), "brest")
	require.NoError(t, err)
	assert.Contains(t, report, "(NW)")
}

func TestChatAgentSendsPersonaPrompt(t *testing.T) {
	mock := &llm.MockClient{Reply: "bonjour à vous"}
	grace, err := persona.NewRegistry().Get("grace")
	require.NoError(t, err)

	agent := NewChatAgent(mock, WithPersona(grace))
	reply, err := agent.Query(context.Background(), "bonjour")
	require.NoError(t, err)
	assert.Equal(t, "bonjour à vous", reply)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Messages, 2)
	assert.Equal(t, "system", reqs[0].Messages[0].Role)
	assert.Equal(t, grace.SystemPrompt, reqs[0].Messages[0].Content)
	assert.Equal(t, "bonjour", reqs[0].Messages[1].Content)
}

func TestChatAgentTrapsClientErrors(t *testing.T) {
	mock := &llm.MockClient{Err: errors.New("rate limited")}
	agent := NewChatAgent(mock)

	reply, err := agent.Query(context.Background(), "bonjour")
	require.NoError(t, err, "chat collaborator reports failures as text")
	assert.Contains(t, reply, "Une erreur est survenue")
	assert.Contains(t, reply, "rate limited")
}

func TestChatAgentWithoutPersonaSendsBareQuery(t *testing.T) {
	mock := &llm.MockClient{Reply: "réponse"}
	agent := NewChatAgent(mock)

	_, err := agent.Query(context.Background(), "bonjour")
	require.NoError(t, err)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Messages, 1)
	assert.Equal(t, "user", reqs[0].Messages[0].Role)
}

func TestContextChatInlinesFiles(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "birthdays.json"), []byte(`{"birthdays": []}`), 0644))

	mock := &llm.MockClient{Reply: "d'après vos fichiers..."}
	chat := NewContextChat(mock, ContextChatConfig{Dirs: []string{dataDir}})

	reply, err := chat.Query(context.Background(), "quelles sont les dates anniversaires ?")
	require.NoError(t, err)
	assert.Equal(t, "d'après vos fichiers...", reply)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Messages, 2)
	system := reqs[0].Messages[0]
	assert.Equal(t, "system", system.Role)
	assert.True(t, strings.HasPrefix(system.Content, "Contexte: "))
	assert.Contains(t, system.Content, "Contenu du fichier birthdays.json")
	assert.Contains(t, system.Content, `{"birthdays": []}`)
}

func TestContextChatSkipsMissingDirs(t *testing.T) {
	mock := &llm.MockClient{Reply: "ok"}
	chat := NewContextChat(mock, ContextChatConfig{Dirs: []string{"does-not-exist"}})

	_, err := chat.Query(context.Background(), "question")
	require.NoError(t, err)
}

func TestContextChatDeterministicFileOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("second"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("first"), 0644))

	mock := &llm.MockClient{Reply: "ok"}
	chat := NewContextChat(mock, ContextChatConfig{Dirs: []string{dir}})

	_, err := chat.Query(context.Background(), "question")
	require.NoError(t, err)

	system := mock.Requests()[0].Messages[0].Content
	assert.Less(t, strings.Index(system, "a.txt"), strings.Index(system, "b.txt"))
}

func TestContextChatHonorsTokenBudget(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.txt"), []byte(strings.Repeat("beaucoup de texte ", 500)), 0644))

	mock := &llm.MockClient{Reply: "ok"}
	chat := NewContextChat(mock, ContextChatConfig{Dirs: []string{dir}, TokenBudget: 50})

	_, err := chat.Query(context.Background(), "question")
	require.NoError(t, err)

	system := mock.Requests()[0].Messages[0].Content
	// 50 tokens of context plus the prefix stays well under the raw size.
	assert.Less(t, len(system), 1000)
}

func TestNotePlayer(t *testing.T) {
	got, err := NotePlayer{}.Play(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Musique créée.", got)
}
