package router

import (
	"context"
	"regexp"
	"strings"
)

// The trigger vocabulary is French, matching the product's audience. Argument
// extraction uses a fixed fallback chain per intent: the first pattern that
// captures wins.
var (
	translatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`traduit (.+)`),
		regexp.MustCompile(`traduire (.+)`),
		regexp.MustCompile(`traduction de (.+)`),
	}
	summarizePattern = regexp.MustCompile(`résumer de (\w+)`)
	weatherPatterns  = []*regexp.Regexp{
		regexp.MustCompile(`météo de (\w+)`),
		regexp.MustCompile(`le temps à (.+)`),
		regexp.MustCompile(`il fait à (.+)`),
	}
)

const noSentenceFound = "Aucune phrase à traduire trouvée."

func containsAny(query string, markers ...string) bool {
	for _, marker := range markers {
		if strings.Contains(query, marker) {
			return true
		}
	}
	return false
}

func firstCapture(query string, patterns []*regexp.Regexp) string {
	for _, pattern := range patterns {
		if m := pattern.FindStringSubmatch(query); m != nil {
			return m[1]
		}
	}
	return ""
}

// buildRules returns the dispatch table in priority order. The order is a
// contract: a query containing both a translate marker and a weather marker
// goes to translation because rule 1 precedes rule 5.
func (r *Router) buildRules() []rule {
	return []rule{
		{
			intent: IntentTranslate,
			match: func(q string) bool {
				return containsAny(q, "traduit", "traduire", "traduction")
			},
			run: func(ctx context.Context, q string) (Result, error) {
				sentence := firstCapture(q, translatePatterns)
				if sentence == "" {
					// Trigger word present but nothing to translate; answer
					// directly instead of calling the handler with empty input.
					return Result{Intent: IntentTranslate, Reply: noSentenceFound}, nil
				}
				reply, err := r.handlers.Translate(ctx, sentence)
				if err != nil {
					return Result{Intent: IntentTranslate}, err
				}
				return Result{Intent: IntentTranslate, Reply: reply}, nil
			},
		},
		{
			intent: IntentSummarize,
			match: func(q string) bool {
				return strings.Contains(q, "résumer")
			},
			run: func(ctx context.Context, q string) (Result, error) {
				// The extraction pattern is evaluated but its capture is
				// unused: the whole query goes to the summarizer.
				// TODO: forward the captured argument instead of the full
				// query once product confirms the intended behavior.
				_ = summarizePattern.FindStringSubmatch(q)
				reply, err := r.handlers.Summarize(ctx, q)
				if err != nil {
					return Result{Intent: IntentSummarize}, err
				}
				return Result{Intent: IntentSummarize, Reply: reply}, nil
			},
		},
		{
			// The birthday phrase routes to the file-context chat handler, not
			// the calendar store: the pattern-matched calendar logic and the
			// document-reading LLM path coexist as independent subsystems.
			intent: IntentBirthday,
			match: func(q string) bool {
				return strings.Contains(q, "dates anniversaires")
			},
			run: func(ctx context.Context, q string) (Result, error) {
				reply, err := r.handlers.FileChat(ctx, q)
				if err != nil {
					return Result{Intent: IntentBirthday}, err
				}
				return Result{Intent: IntentBirthday, Reply: reply}, nil
			},
		},
		{
			intent: IntentAppointment,
			match: func(q string) bool {
				return strings.Contains(q, "rendez-vous")
			},
			run: func(ctx context.Context, q string) (Result, error) {
				reply, err := r.handlers.FileChat(ctx, q)
				if err != nil {
					return Result{Intent: IntentAppointment}, err
				}
				return Result{Intent: IntentAppointment, Reply: reply}, nil
			},
		},
		{
			intent: IntentWeather,
			match: func(q string) bool {
				return containsAny(q, "météo", "le temps à", "il fait à")
			},
			run: func(ctx context.Context, q string) (Result, error) {
				city := firstCapture(q, weatherPatterns)
				reply, err := r.handlers.Weather(ctx, city)
				if err != nil {
					return Result{Intent: IntentWeather}, err
				}
				return Result{Intent: IntentWeather, Reply: reply}, nil
			},
		},
		{
			intent: IntentMusic,
			match: func(q string) bool {
				return strings.Contains(q, "musique")
			},
			run: func(ctx context.Context, q string) (Result, error) {
				reply, err := r.handlers.PlayMusic(ctx)
				if err != nil {
					return Result{Intent: IntentMusic}, err
				}
				return Result{Intent: IntentMusic, Reply: reply}, nil
			},
		},
		{
			intent: IntentFile,
			match: func(q string) bool {
				return containsAny(q, "fichier", "document", "documentation")
			},
			run: func(ctx context.Context, q string) (Result, error) {
				// The handler runs but its reply is discarded; the caller gets
				// an explicit no-response result. Known defect kept for parity
				// with the shipped behavior.
				// TODO: surface the handler reply once product signs off.
				if _, err := r.handlers.FileChat(ctx, q); err != nil {
					return Result{Intent: IntentFile}, err
				}
				return Result{Intent: IntentFile, NoReply: true}, nil
			},
		},
		{
			intent: IntentFallback,
			match:  func(string) bool { return true },
			run: func(ctx context.Context, q string) (Result, error) {
				reply, err := r.handlers.Chat(ctx, q)
				if err != nil {
					return Result{Intent: IntentFallback}, err
				}
				return Result{Intent: IntentFallback, Reply: reply}, nil
			},
		},
	}
}
