package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// EnvLookup abstracts os.LookupEnv so tests can inject environments.
type EnvLookup func(key string) (string, bool)

// DefaultEnvLookup reads from the process environment.
func DefaultEnvLookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

type loadOptions struct {
	envLookup EnvLookup
	readFile  func(string) ([]byte, error)
	homeDir   func() (string, error)
	filePath  string
	overrides []func(*Config)
}

// Option customizes Load behaviour.
type Option func(*loadOptions)

// WithEnv replaces the environment lookup used during Load.
func WithEnv(lookup EnvLookup) Option {
	return func(o *loadOptions) { o.envLookup = lookup }
}

// WithFileReader replaces the file reader used during Load.
func WithFileReader(read func(string) ([]byte, error)) Option {
	return func(o *loadOptions) { o.readFile = read }
}

// WithConfigFile points Load at an explicit config file path.
func WithConfigFile(path string) Option {
	return func(o *loadOptions) { o.filePath = path }
}

// WithOverride applies a programmatic override after file and env layers.
func WithOverride(fn func(*Config)) Option {
	return func(o *loadOptions) { o.overrides = append(o.overrides, fn) }
}

// Load assembles configuration in layers: defaults, then the JSON config
// file when present, then FAMILYCONNECT_* environment variables, then caller
// overrides. Missing files are fine; a file that exists but does not parse is
// an error since it usually means a typo the user should know about.
func Load(opts ...Option) (Config, Metadata, error) {
	options := loadOptions{
		envLookup: DefaultEnvLookup,
		readFile:  os.ReadFile,
		homeDir:   os.UserHomeDir,
	}
	for _, opt := range opts {
		opt(&options)
	}

	meta := Metadata{sources: map[string]ValueSource{}}

	cfg := Config{
		LLMModel:         DefaultLLMModel,
		LLMBaseURL:       DefaultLLMBaseURL,
		LLMTimeout:       DefaultLLMTimeout,
		LLMMaxRetries:    DefaultLLMMaxRetries,
		LLMCacheSize:     DefaultLLMCacheSize,
		MaxTokens:        DefaultMaxTokens,
		Temperature:      DefaultTemperature,
		WeatherBaseURL:   DefaultWeatherBaseURL,
		TranslateBaseURL: DefaultTranslateURL,
		TargetLanguage:   DefaultTargetLanguage,
		StorePath:        DefaultStorePath,
		ContextDirs:      []string{"data", "script", "docs"},
		ContextBudget:    DefaultContextBudget,
		SessionDir:       DefaultSessionDir,
		Persona:          DefaultPersona,
		ServerHost:       DefaultServerHost,
		ServerPort:       DefaultServerPort,
		EnableCORS:       true,
		TraceSampleRate:  1.0,
	}

	if err := applyFile(&cfg, &meta, options); err != nil {
		return Config{}, Metadata{}, err
	}
	applyEnv(&cfg, &meta, options.envLookup)
	for _, override := range options.overrides {
		override(&cfg)
	}
	normalize(&cfg, options)

	return cfg, meta, nil
}

func applyFile(cfg *Config, meta *Metadata, options loadOptions) error {
	path := options.filePath
	if path == "" {
		home, err := options.homeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, "familyconnect-config.json")
	}

	data, err := options.readFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	merged := *cfg
	if err := json.Unmarshal(data, &merged); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	*cfg = merged
	for field := range raw {
		meta.sources[field] = SourceFile
	}
	return nil
}

// envBindings maps environment variables onto config fields. The JSON field
// name doubles as the provenance key.
func applyEnv(cfg *Config, meta *Metadata, lookup EnvLookup) {
	setString := func(env, field string, dst *string) {
		if v, ok := lookup(env); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
			meta.sources[field] = SourceEnv
		}
	}
	setInt := func(env, field string, dst *int) {
		if v, ok := lookup(env); ok {
			if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*dst = parsed
				meta.sources[field] = SourceEnv
			}
		}
	}
	setBool := func(env, field string, dst *bool) {
		if v, ok := lookup(env); ok {
			if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				*dst = parsed
				meta.sources[field] = SourceEnv
			}
		}
	}

	// Generic names bind before the FAMILYCONNECT_* namespace so the
	// project-specific variable wins when both are set.
	setString("OPENAI_API_KEY", "llm_api_key", &cfg.LLMAPIKey)
	setString("FAMILYCONNECT_LLM_API_KEY", "llm_api_key", &cfg.LLMAPIKey)
	setString("FAMILYCONNECT_LLM_MODEL", "llm_model", &cfg.LLMModel)
	setString("FAMILYCONNECT_LLM_BASE_URL", "llm_base_url", &cfg.LLMBaseURL)
	setString("OPENWEATHER_API_KEY", "weather_api_key", &cfg.WeatherAPIKey)
	setString("FAMILYCONNECT_WEATHER_API_KEY", "weather_api_key", &cfg.WeatherAPIKey)
	setString("FAMILYCONNECT_TRANSLATE_BASE_URL", "translate_base_url", &cfg.TranslateBaseURL)
	setString("FAMILYCONNECT_TRANSLATE_API_KEY", "translate_api_key", &cfg.TranslateAPIKey)
	setString("FAMILYCONNECT_TARGET_LANGUAGE", "target_language", &cfg.TargetLanguage)
	setString("FAMILYCONNECT_STORE_PATH", "store_path", &cfg.StorePath)
	setString("FAMILYCONNECT_SESSION_DIR", "session_dir", &cfg.SessionDir)
	setString("FAMILYCONNECT_PERSONA", "persona", &cfg.Persona)
	setString("FAMILYCONNECT_PERSONA_FILE", "persona_file", &cfg.PersonaFile)
	setString("FAMILYCONNECT_SERVER_HOST", "server_host", &cfg.ServerHost)
	setInt("FAMILYCONNECT_SERVER_PORT", "server_port", &cfg.ServerPort)
	setBool("FAMILYCONNECT_METRICS_ENABLED", "metrics_enabled", &cfg.MetricsEnabled)
	setBool("FAMILYCONNECT_TRACING_ENABLED", "tracing_enabled", &cfg.TracingEnabled)
	setString("FAMILYCONNECT_TRACE_EXPORTER", "trace_exporter", &cfg.TraceExporter)
	setString("FAMILYCONNECT_TRACE_ENDPOINT", "trace_endpoint", &cfg.TraceEndpoint)
}

func normalize(cfg *Config, options loadOptions) {
	cfg.SessionDir = expandHome(cfg.SessionDir, options.homeDir)
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = DefaultLLMTimeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.ServerPort <= 0 {
		cfg.ServerPort = DefaultServerPort
	}
	if cfg.TargetLanguage == "" {
		cfg.TargetLanguage = DefaultTargetLanguage
	}
	if len(cfg.ContextDirs) == 0 {
		cfg.ContextDirs = []string{"data", "script", "docs"}
	}
	if cfg.ContextBudget <= 0 {
		cfg.ContextBudget = DefaultContextBudget
	}
}

func expandHome(path string, homeDir func() (string, error)) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := homeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
