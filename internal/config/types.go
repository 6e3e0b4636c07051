package config

// ValueSource describes where a configuration value originated from.
type ValueSource string

const (
	SourceDefault  ValueSource = "default"
	SourceFile     ValueSource = "file"
	SourceEnv      ValueSource = "environment"
	SourceOverride ValueSource = "override"
)

const (
	DefaultLLMModel       = "gpt-4o-mini"
	DefaultLLMBaseURL     = "https://api.openai.com/v1"
	DefaultLLMTimeout     = 120
	DefaultLLMMaxRetries  = 2
	DefaultLLMCacheSize   = 64
	DefaultMaxTokens      = 500
	DefaultTemperature    = 0.7
	DefaultWeatherBaseURL = "http://api.openweathermap.org/data/2.5"
	DefaultTranslateURL   = "http://localhost:5001"
	DefaultTargetLanguage = "en"
	DefaultStorePath      = "data/birthdays.json"
	DefaultSessionDir     = "~/.familyconnect-sessions"
	DefaultServerHost     = "localhost"
	DefaultServerPort     = 8080
	DefaultPersona        = "grace"
	DefaultContextBudget  = 6000
)

// Config captures user-configurable settings shared across binaries.
//
// All secrets live here and are injected at construction time; nothing in the
// codebase hard-codes an API key.
type Config struct {
	// LLM settings
	LLMModel      string  `json:"llm_model"`
	LLMAPIKey     string  `json:"llm_api_key"`
	LLMBaseURL    string  `json:"llm_base_url"`
	LLMTimeout    int     `json:"llm_timeout_seconds"`
	LLMMaxRetries int     `json:"llm_max_retries"`
	LLMCacheSize  int     `json:"llm_cache_size"`
	MaxTokens     int     `json:"max_tokens"`
	Temperature   float64 `json:"temperature"`

	// Collaborator services
	WeatherAPIKey    string `json:"weather_api_key"`
	WeatherBaseURL   string `json:"weather_base_url"`
	TranslateBaseURL string `json:"translate_base_url"`
	TranslateAPIKey  string `json:"translate_api_key"`
	TargetLanguage   string `json:"target_language"`

	// Calendar and context stores
	StorePath     string   `json:"store_path"`
	ContextDirs   []string `json:"context_dirs"`
	ContextBudget int      `json:"context_budget"`
	SessionDir    string   `json:"session_dir"`

	// Persona service
	Persona     string `json:"persona"`
	PersonaFile string `json:"persona_file"`

	// HTTP server
	ServerHost     string   `json:"server_host"`
	ServerPort     int      `json:"server_port"`
	EnableCORS     bool     `json:"enable_cors"`
	AllowedOrigins []string `json:"allowed_origins"`

	// Observability
	MetricsEnabled  bool    `json:"metrics_enabled"`
	TracingEnabled  bool    `json:"tracing_enabled"`
	TraceExporter   string  `json:"trace_exporter"`
	TraceEndpoint   string  `json:"trace_endpoint"`
	TraceSampleRate float64 `json:"trace_sample_rate"`
}

// Metadata records value provenance so diagnostics can explain where a
// setting came from.
type Metadata struct {
	sources map[string]ValueSource
}

// Source returns the provenance for a named field, defaulting to SourceDefault.
func (m Metadata) Source(field string) ValueSource {
	if m.sources == nil {
		return SourceDefault
	}
	if src, ok := m.sources[field]; ok {
		return src
	}
	return SourceDefault
}
