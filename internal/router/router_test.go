package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"familyconnect/internal/logging"
)

// recordingHandlers captures every handler invocation so tests can assert
// which collaborator ran and with what argument.
type recordingHandlers struct {
	calls []string
	args  []string
}

func (h *recordingHandlers) handlers() Handlers {
	record := func(name string) func(context.Context, string) (string, error) {
		return func(_ context.Context, arg string) (string, error) {
			h.calls = append(h.calls, name)
			h.args = append(h.args, arg)
			return name + " reply", nil
		}
	}
	return Handlers{
		Translate: record("translate"),
		Summarize: record("summarize"),
		Weather:   record("weather"),
		Chat:      record("chat"),
		FileChat:  record("filechat"),
		PlayMusic: func(context.Context) (string, error) {
			h.calls = append(h.calls, "music")
			h.args = append(h.args, "")
			return "Musique créée.", nil
		},
	}
}

func newTestRouter(h *recordingHandlers) *Router {
	return New(h.handlers(), WithLogger(logging.Nop()))
}

func TestDispatchTranslateExtractsSentence(t *testing.T) {
	h := &recordingHandlers{}
	r := newTestRouter(h)

	result, err := r.Dispatch(context.Background(), "traduit bonjour le monde")
	require.NoError(t, err)

	assert.Equal(t, IntentTranslate, result.Intent)
	assert.Equal(t, []string{"translate"}, h.calls)
	assert.Equal(t, []string{"bonjour le monde"}, h.args)
	assert.Equal(t, "translate reply", result.Reply)
}

func TestDispatchTranslateFallbackChain(t *testing.T) {
	cases := []struct {
		query string
		arg   string
	}{
		{"traduit bonjour", "bonjour"},
		{"peux-tu traduire merci beaucoup", "merci beaucoup"},
		{"traduction de au revoir", "au revoir"},
	}
	for _, tc := range cases {
		h := &recordingHandlers{}
		r := newTestRouter(h)

		_, err := r.Dispatch(context.Background(), tc.query)
		require.NoError(t, err)
		require.Equal(t, []string{"translate"}, h.calls, "query %q", tc.query)
		assert.Equal(t, tc.arg, h.args[0], "query %q", tc.query)
	}
}

func TestDispatchTranslateWithoutSentence(t *testing.T) {
	h := &recordingHandlers{}
	r := newTestRouter(h)

	// Trigger word present, nothing capturable after it.
	result, err := r.Dispatch(context.Background(), "traduction")
	require.NoError(t, err)

	assert.Equal(t, IntentTranslate, result.Intent)
	assert.Equal(t, "Aucune phrase à traduire trouvée.", result.Reply)
	assert.Empty(t, h.calls, "handler must not be invoked with empty input")
}

func TestDispatchSummarizeForwardsWholeQuery(t *testing.T) {
	h := &recordingHandlers{}
	r := newTestRouter(h)

	// The extraction pattern captures "rapport" but current behavior forwards
	// the full query. Pinned on purpose; see the TODO at the dispatch rule.
	query := "résumer de rapport sur la montagne"
	result, err := r.Dispatch(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, IntentSummarize, result.Intent)
	assert.Equal(t, []string{"summarize"}, h.calls)
	assert.Equal(t, []string{query}, h.args)
}

func TestDispatchBirthdayPhraseUsesFileChat(t *testing.T) {
	h := &recordingHandlers{}
	r := newTestRouter(h)

	result, err := r.Dispatch(context.Background(), "quelles sont les dates anniversaires de la famille")
	require.NoError(t, err)

	// The textual trigger routes to the contextual LLM handler, not the
	// calendar store. Intentional indirection.
	assert.Equal(t, IntentBirthday, result.Intent)
	assert.Equal(t, []string{"filechat"}, h.calls)
	assert.Equal(t, "filechat reply", result.Reply)
}

func TestDispatchAppointmentUsesFileChat(t *testing.T) {
	h := &recordingHandlers{}
	r := newTestRouter(h)

	result, err := r.Dispatch(context.Background(), "quels sont mes rendez-vous")
	require.NoError(t, err)
	assert.Equal(t, IntentAppointment, result.Intent)
	assert.Equal(t, []string{"filechat"}, h.calls)
}

func TestDispatchWeatherExtractsCity(t *testing.T) {
	h := &recordingHandlers{}
	r := newTestRouter(h)

	result, err := r.Dispatch(context.Background(), "météo de paris")
	require.NoError(t, err)

	assert.Equal(t, IntentWeather, result.Intent)
	assert.Equal(t, []string{"weather"}, h.calls)
	assert.Equal(t, []string{"paris"}, h.args)
}

func TestDispatchWeatherFallbackChain(t *testing.T) {
	cases := []struct {
		query string
		city  string
	}{
		{"météo de lyon", "lyon"},
		{"quel est le temps à marseille", "marseille"},
		{"quel temps il fait à aix en provence", "aix en provence"},
	}
	for _, tc := range cases {
		h := &recordingHandlers{}
		r := newTestRouter(h)

		_, err := r.Dispatch(context.Background(), tc.query)
		require.NoError(t, err)
		require.Equal(t, []string{"weather"}, h.calls, "query %q", tc.query)
		assert.Equal(t, tc.city, h.args[0], "query %q", tc.query)
	}
}

func TestDispatchWeatherWithoutCityStillCallsHandler(t *testing.T) {
	h := &recordingHandlers{}
	r := newTestRouter(h)

	// "météo" alone matches no extraction pattern; the handler receives an
	// empty city and owns the resulting error message.
	_, err := r.Dispatch(context.Background(), "météo")
	require.NoError(t, err)
	require.Equal(t, []string{"weather"}, h.calls)
	assert.Equal(t, "", h.args[0])
}

func TestDispatchMusic(t *testing.T) {
	h := &recordingHandlers{}
	r := newTestRouter(h)

	result, err := r.Dispatch(context.Background(), "mets de la musique")
	require.NoError(t, err)
	assert.Equal(t, IntentMusic, result.Intent)
	assert.Equal(t, "Musique créée.", result.Reply)
}

func TestDispatchFileBranchDiscardsReply(t *testing.T) {
	h := &recordingHandlers{}
	r := newTestRouter(h)

	result, err := r.Dispatch(context.Background(), "ouvre le document de la mutuelle")
	require.NoError(t, err)

	// The handler runs but its reply is dropped. Pinned defect.
	assert.Equal(t, IntentFile, result.Intent)
	assert.True(t, result.NoReply)
	assert.Empty(t, result.Reply)
	assert.Equal(t, []string{"filechat"}, h.calls)
}

func TestDispatchFallback(t *testing.T) {
	h := &recordingHandlers{}
	r := newTestRouter(h)

	result, err := r.Dispatch(context.Background(), "raconte-moi une histoire")
	require.NoError(t, err)
	assert.Equal(t, IntentFallback, result.Intent)
	assert.Equal(t, []string{"chat"}, h.calls)
	assert.Equal(t, []string{"raconte-moi une histoire"}, h.args)
}

func TestDispatchPriorityTranslateBeatsWeather(t *testing.T) {
	h := &recordingHandlers{}
	r := newTestRouter(h)

	// Matches both the translate marker and the weather marker; rule 1 wins.
	_, err := r.Dispatch(context.Background(), "traduit la météo de paris")
	require.NoError(t, err)
	assert.Equal(t, []string{"translate"}, h.calls)
}

func TestDispatchPriorityBirthdayBeatsFile(t *testing.T) {
	h := &recordingHandlers{}
	r := newTestRouter(h)

	result, err := r.Dispatch(context.Background(), "dates anniversaires dans le document")
	require.NoError(t, err)
	assert.Equal(t, IntentBirthday, result.Intent)
	assert.False(t, result.NoReply)
}

func TestClassifyDoesNotInvokeHandlers(t *testing.T) {
	h := &recordingHandlers{}
	r := newTestRouter(h)

	assert.Equal(t, IntentWeather, r.Classify("météo de paris"))
	assert.Equal(t, IntentFallback, r.Classify("bonjour"))
	assert.Empty(t, h.calls)
}

func TestDispatchPropagatesHandlerErrors(t *testing.T) {
	boom := errors.New("translation service down")
	handlers := (&recordingHandlers{}).handlers()
	handlers.Translate = func(context.Context, string) (string, error) {
		return "", boom
	}
	r := New(handlers, WithLogger(logging.Nop()))

	_, err := r.Dispatch(context.Background(), "traduit bonjour")
	require.ErrorIs(t, err, boom)
}

func TestDispatchStateless(t *testing.T) {
	h := &recordingHandlers{}
	r := newTestRouter(h)

	// Two independent calls; no state carries over between them.
	_, err := r.Dispatch(context.Background(), "météo de paris")
	require.NoError(t, err)
	result, err := r.Dispatch(context.Background(), "bonjour")
	require.NoError(t, err)
	assert.Equal(t, IntentFallback, result.Intent)
	assert.Equal(t, []string{"weather", "chat"}, h.calls)
}
