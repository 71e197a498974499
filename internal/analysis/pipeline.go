package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"agenticv-server/internal/config"
	"agenticv-server/internal/logging"
	"agenticv-server/pkg/corsfetch"
	"agenticv-server/pkg/models"
	"agenticv-server/pkg/utils"
)

// Pipeline sends analysis requests to the gap-analysis webhook and normalizes
// its replies. Every failure carries a typed *Error; nothing is retried
// automatically - a retry is simply another Analyze call with the same inputs.
type Pipeline struct {
	cfg        *config.Config
	corsClient *corsfetch.Client
	relay      *http.Client
	tracker    *Tracker
	logger     logging.Logger
}

// NewPipeline builds an analysis pipeline from the configuration
func NewPipeline(cfg *config.Config, tracker *Tracker) *Pipeline {
	logger := logging.GetGlobalLogger()

	return &Pipeline{
		cfg: cfg,
		corsClient: corsfetch.NewClient(corsfetch.Options{
			Proxies: cfg.CORS.Proxies,
			Origin:  cfg.CORS.Origin,
			Timeout: cfg.Webhook.Timeout,
			Logger:  logger,
		}),
		relay:   &http.Client{Timeout: cfg.Webhook.Timeout},
		tracker: tracker,
		logger:  logger,
	}
}

// Tracker exposes the session state machine
func (p *Pipeline) Tracker() *Tracker {
	return p.tracker
}

// Analyze runs the full request/response pipeline for one session. Errors are
// always *Error so handlers can map the type without inspecting messages.
func (p *Pipeline) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	if err := p.tracker.Begin(req.SessionID); err != nil {
		return nil, err
	}

	// A panic in the run must not leave the session stuck in-flight, or every
	// retry would be rejected. Mark it failed, then let the panic propagate.
	defer func() {
		if r := recover(); r != nil {
			p.tracker.Fail(req.SessionID, newGeneralError("analysis run panicked: %v", r))
			panic(r)
		}
	}()

	result, aerr := p.run(ctx, req)
	if aerr != nil {
		p.tracker.Fail(req.SessionID, aerr)
		return nil, aerr
	}

	p.tracker.Complete(req.SessionID)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, *Error) {
	endpoint, viaRelay := p.selectEndpoint()
	if endpoint == "" {
		return nil, newGeneralError("no analysis webhook is configured")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, newGeneralError("failed to encode analysis request: %v", err)
	}

	start := time.Now()
	p.logger.Info("Sending analysis request", map[string]interface{}{
		"session_id": req.SessionID,
		"endpoint":   endpoint,
		"via_relay":  viaRelay,
	})

	resp, sendErr := p.send(ctx, endpoint, payload, viaRelay)
	if sendErr != nil {
		if viaRelay {
			return nil, newNetworkError("analysis relay is unreachable: %v", sendErr)
		}
		return nil, newCORSError("cross-origin request to the analysis webhook failed: %v", sendErr)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if viaRelay {
			return nil, newCORSError(
				"analysis relay rejected the request with status %d; check the relay configuration",
				resp.StatusCode,
			)
		}
		return nil, newCORSError(
			"analysis webhook rejected the cross-origin request with status %d; configure it to allow requests from %s",
			resp.StatusCode, p.cfg.CORS.Origin,
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError("failed to read analysis response: %v", err)
	}

	result, aerr := Normalize(body)
	if aerr != nil {
		p.logger.Warn("Analysis response rejected", map[string]interface{}{
			"session_id": req.SessionID,
			"error_type": string(aerr.Type),
			"error":      aerr.Message,
		})
		return nil, aerr
	}

	p.logger.Info("Analysis completed", map[string]interface{}{
		"session_id":      req.SessionID,
		"overall_score":   result.Analysis.MatchScore.Overall,
		"score_band":      result.ScoreBand,
		"processing_time": utils.FormatDuration(time.Since(start)),
	})

	return result, nil
}

// selectEndpoint picks the relay when forced (or when no direct webhook URL
// exists), the webhook otherwise
func (p *Pipeline) selectEndpoint() (string, bool) {
	if p.cfg.Webhook.ForceRelay && p.cfg.Webhook.RelayURL != "" {
		return p.cfg.Webhook.RelayURL, true
	}
	if p.cfg.Webhook.URL != "" {
		return p.cfg.Webhook.URL, false
	}
	if p.cfg.Webhook.RelayURL != "" {
		return p.cfg.Webhook.RelayURL, true
	}
	return "", false
}

// send posts the payload. The direct path goes through the CORS-aware client
// with its proxy fallback chain; the relay path is a plain same-origin POST.
func (p *Pipeline) send(ctx context.Context, endpoint string, payload []byte, viaRelay bool) (*http.Response, error) {
	if !viaRelay {
		return p.corsClient.Post(ctx, endpoint, "application/json", payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return p.relay.Do(httpReq)
}
