package analysis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenticv-server/internal/config"
	"agenticv-server/internal/logging"
	"agenticv-server/pkg/models"
)

func pipelineConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Webhook.Timeout = 5 * time.Second
	cfg.CORS.Origin = "http://localhost:3000"
	return cfg
}

func analysisRequest() models.AnalysisRequest {
	return models.AnalysisRequest{
		SessionID:      "session-1",
		CVURL:          "https://cv-uploads.example.com/cv.pdf",
		JobDescription: "A long enough job description for the pipeline to forward.",
	}
}

func TestPipeline_SuccessfulAnalysis(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(validAnalysisJSON))
	}))
	defer server.Close()

	cfg := pipelineConfig()
	cfg.Webhook.URL = server.URL

	tracker := NewTracker(0)
	defer tracker.Stop()
	pipeline := NewPipeline(cfg, tracker)

	result, err := pipeline.Analyze(context.Background(), analysisRequest())

	require.NoError(t, err)
	assert.Equal(t, 85.0, result.Analysis.MatchScore.Overall)
	assert.Equal(t, "green", result.ScoreBand)

	state, _ := tracker.StateOf("session-1")
	assert.Equal(t, StateComplete, state)
}

func TestPipeline_NoEndpointConfigured(t *testing.T) {
	cfg := pipelineConfig()

	tracker := NewTracker(0)
	defer tracker.Stop()
	pipeline := NewPipeline(cfg, tracker)

	_, err := pipeline.Analyze(context.Background(), analysisRequest())

	require.Error(t, err)
	aerr := AsError(err)
	assert.Equal(t, ErrorTypeGeneral, aerr.Type)
}

func TestPipeline_WebhookRejectsRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	cfg := pipelineConfig()
	cfg.Webhook.URL = server.URL

	tracker := NewTracker(0)
	defer tracker.Stop()
	pipeline := NewPipeline(cfg, tracker)

	_, err := pipeline.Analyze(context.Background(), analysisRequest())

	require.Error(t, err)
	aerr := AsError(err)
	assert.Equal(t, ErrorTypeCORS, aerr.Type)
	assert.Contains(t, aerr.Message, cfg.CORS.Origin)

	state, stateErr := tracker.StateOf("session-1")
	assert.Equal(t, StateError, state)
	require.NotNil(t, stateErr)
	assert.Equal(t, ErrorTypeCORS, stateErr.Type)
}

func TestPipeline_WebhookNotActive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code": 404, "message": "The requested webhook is not registered."}`))
	}))
	defer server.Close()

	cfg := pipelineConfig()
	cfg.Webhook.URL = server.URL

	tracker := NewTracker(0)
	defer tracker.Stop()
	pipeline := NewPipeline(cfg, tracker)

	_, err := pipeline.Analyze(context.Background(), analysisRequest())

	require.Error(t, err)
	assert.Equal(t, ErrorTypeWebhookNotActive, AsError(err).Type)
}

func TestPipeline_RetryAfterFailureSucceeds(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if atomic.AddInt32(&calls, 1) == 1 {
			_, _ = w.Write([]byte(`{"code": 500, "message": "Workflow execution failed"}`))
			return
		}
		_, _ = w.Write([]byte(validAnalysisJSON))
	}))
	defer server.Close()

	cfg := pipelineConfig()
	cfg.Webhook.URL = server.URL

	tracker := NewTracker(0)
	defer tracker.Stop()
	pipeline := NewPipeline(cfg, tracker)

	_, err := pipeline.Analyze(context.Background(), analysisRequest())
	require.Error(t, err)

	state, _ := tracker.StateOf("session-1")
	assert.Equal(t, StateError, state)

	// The retry is just another Analyze call with the same inputs
	result, err := pipeline.Analyze(context.Background(), analysisRequest())
	require.NoError(t, err)
	assert.Equal(t, "green", result.ScoreBand)

	state, _ = tracker.StateOf("session-1")
	assert.Equal(t, StateComplete, state)
}

func TestPipeline_ForceRelay(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The relay path is a plain POST, not a CORS proxy attempt
		assert.Empty(t, r.Header.Get("X-Requested-With"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(validAnalysisJSON))
	}))
	defer relay.Close()

	cfg := pipelineConfig()
	cfg.Webhook.URL = "https://webhook.example.com/analyze"
	cfg.Webhook.RelayURL = relay.URL
	cfg.Webhook.ForceRelay = true

	tracker := NewTracker(0)
	defer tracker.Stop()
	pipeline := NewPipeline(cfg, tracker)

	result, err := pipeline.Analyze(context.Background(), analysisRequest())

	require.NoError(t, err)
	assert.Equal(t, "green", result.ScoreBand)
}

func TestPipeline_RelayUnreachable(t *testing.T) {
	cfg := pipelineConfig()
	cfg.Webhook.RelayURL = "http://127.0.0.1:1/relay"
	cfg.Webhook.ForceRelay = true

	tracker := NewTracker(0)
	defer tracker.Stop()
	pipeline := NewPipeline(cfg, tracker)

	_, err := pipeline.Analyze(context.Background(), analysisRequest())

	require.Error(t, err)
	assert.Equal(t, ErrorTypeNetwork, AsError(err).Type)
}

func TestPipeline_PanicMarksSessionFailed(t *testing.T) {
	cfg := pipelineConfig()
	cfg.Webhook.URL = "https://analysis.example.com/webhook"

	tracker := NewTracker(0)
	defer tracker.Stop()

	// A nil corsClient makes the run panic once the request is in flight.
	pipeline := &Pipeline{
		cfg:     cfg,
		tracker: tracker,
		logger:  logging.GetGlobalLogger(),
	}

	assert.Panics(t, func() {
		_, _ = pipeline.Analyze(context.Background(), analysisRequest())
	})

	state, aerr := tracker.StateOf("session-1")
	assert.Equal(t, StateError, state)
	require.NotNil(t, aerr)
	assert.Equal(t, ErrorTypeGeneral, aerr.Type)

	// The session is retryable again instead of stuck in-flight.
	require.NoError(t, tracker.Begin("session-1"))
}
