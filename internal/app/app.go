// Package app assembles the assistant from configuration: the LLM client and
// its collaborators, the calendar store, the intent router and the optional
// observability stack. Both binaries build through here so the CLI and the
// server wire the exact same pipeline.
package app

import (
	"context"
	"fmt"
	"time"

	"familyconnect/internal/agents"
	"familyconnect/internal/calendar"
	"familyconnect/internal/config"
	"familyconnect/internal/llm"
	"familyconnect/internal/logging"
	"familyconnect/internal/observability"
	"familyconnect/internal/persona"
	"familyconnect/internal/router"
	"familyconnect/internal/session"
)

// App holds the assembled components.
type App struct {
	Config   config.Config
	Router   *router.Router
	Store    *calendar.Store
	Sessions *session.Store
	Personas *persona.Registry
	// LLMClient is nil when no API key is configured; LLM-backed handlers
	// then answer with a configuration hint instead of calling out.
	LLMClient llm.Client
	Metrics   *observability.Metrics
	Tracing   *observability.TracerProvider

	logger logging.Logger
}

// Build assembles an App from cfg.
func Build(cfg config.Config) (*App, error) {
	logger := logging.NewComponentLogger("App")

	metrics, err := observability.NewMetrics(observability.MetricsConfig{Enabled: cfg.MetricsEnabled})
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	tracing, err := observability.NewTracerProvider(observability.TracingConfig{
		Enabled:    cfg.TracingEnabled,
		Exporter:   cfg.TraceExporter,
		Endpoint:   cfg.TraceEndpoint,
		SampleRate: cfg.TraceSampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	var client llm.Client
	if cfg.LLMAPIKey != "" {
		client, err = llm.NewOpenAIClient(cfg.LLMModel, llm.Config{
			APIKey:     cfg.LLMAPIKey,
			BaseURL:    cfg.LLMBaseURL,
			Timeout:    cfg.LLMTimeout,
			MaxRetries: cfg.LLMMaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("init llm client: %w", err)
		}
		if cfg.LLMCacheSize > 0 {
			client = llm.NewCachedClient(client, cfg.LLMCacheSize)
		}
	} else {
		logger.Warn("No LLM API key configured, chat intents will answer with a hint")
	}

	store := calendar.Open(cfg.StorePath)

	sessions, err := session.NewStore(cfg.SessionDir)
	if err != nil {
		return nil, fmt.Errorf("init session store: %w", err)
	}

	personas := persona.NewRegistry()
	if cfg.PersonaFile != "" {
		if err := personas.LoadFile(cfg.PersonaFile); err != nil {
			return nil, fmt.Errorf("load personas: %w", err)
		}
	}
	activePersona, err := personas.Get(cfg.Persona)
	if err != nil {
		return nil, err
	}

	r := router.New(buildHandlers(cfg, client, activePersona),
		router.WithMetrics(metrics),
		router.WithTracer(tracing.Tracer()),
	)

	return &App{
		Config:    cfg,
		Router:    r,
		Store:     store,
		Sessions:  sessions,
		Personas:  personas,
		LLMClient: client,
		Metrics:   metrics,
		Tracing:   tracing,
		logger:    logger,
	}, nil
}

const noLLMHint = "Aucun modèle de langage n'est configuré. Renseignez une clé API pour activer cette fonction."

func buildHandlers(cfg config.Config, client llm.Client, activePersona *persona.Persona) router.Handlers {
	translator := agents.NewTranslator(agents.TranslatorConfig{
		BaseURL: cfg.TranslateBaseURL,
		APIKey:  cfg.TranslateAPIKey,
		Target:  cfg.TargetLanguage,
	})
	weather := agents.NewWeatherService(agents.WeatherConfig{
		BaseURL: cfg.WeatherBaseURL,
		APIKey:  cfg.WeatherAPIKey,
	})

	handlers := router.Handlers{
		Translate: translator.Translate,
		Weather:   weather.Lookup,
		PlayMusic: agents.NotePlayer{}.Play,
	}

	if client == nil {
		unavailable := func(ctx context.Context, _ string) (string, error) {
			return noLLMHint, nil
		}
		handlers.Summarize = unavailable
		handlers.Chat = unavailable
		handlers.FileChat = unavailable
		return handlers
	}

	chat := agents.NewChatAgent(client,
		agents.WithPersona(activePersona),
		agents.WithSampling(cfg.Temperature, cfg.MaxTokens),
	)
	fileChat := agents.NewContextChat(client, agents.ContextChatConfig{
		Dirs:        cfg.ContextDirs,
		TokenBudget: cfg.ContextBudget,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})

	handlers.Summarize = chat.Query
	handlers.Chat = chat.Query
	handlers.FileChat = fileChat.Query
	return handlers
}

// Shutdown flushes observability pipelines.
func (a *App) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	a.logger.Debug("Flushing observability pipelines")

	var firstErr error
	if a.Metrics != nil {
		if err := a.Metrics.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if a.Tracing != nil {
		if err := a.Tracing.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
