package analysis

import (
	"encoding/json"
	"strconv"
	"strings"

	"agenticv-server/pkg/models"
)

// platformError is the automation platform's own error envelope, returned
// with HTTP 200 when the workflow itself fails
type platformError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Normalize turns whatever shape the webhook actually returned into the fixed
// AnalysisResult. Accepted shapes: a plain object, a one-element array
// wrapping it, and an object whose "output" field is either the analysis
// object or a stringified-JSON copy of it.
func Normalize(body []byte) (*models.AnalysisResult, *Error) {
	payload := json.RawMessage(body)

	// One-element array unwrap
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var elements []json.RawMessage
		if err := json.Unmarshal(payload, &elements); err != nil {
			return nil, newInvalidResponseError("analysis response is not valid JSON: %v", err)
		}
		if len(elements) == 0 {
			return nil, newInvalidResponseError("analysis response is an empty array")
		}
		payload = elements[0]
	}

	var outer map[string]json.RawMessage
	if err := json.Unmarshal(payload, &outer); err != nil {
		return nil, newInvalidResponseError("analysis response is not valid JSON: %v", err)
	}

	// The platform reports workflow-level failures in its own envelope
	if rawCode, ok := outer["code"]; ok {
		var envelope platformError
		envelope.Code = decodeInt(rawCode)
		if rawMsg, ok := outer["message"]; ok {
			_ = json.Unmarshal(rawMsg, &envelope.Message)
		}
		if envelope.Code == 404 || envelope.Code == 500 {
			return nil, classifyPlatformError(envelope)
		}
	}

	// Unwrap the "output" field: stringified JSON or a plain object
	inner := payload
	if rawOutput, ok := outer["output"]; ok {
		var asString string
		if err := json.Unmarshal(rawOutput, &asString); err == nil {
			inner = json.RawMessage(asString)
		} else {
			inner = rawOutput
		}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(inner, &fields); err != nil {
		return nil, newInvalidResponseError("analysis payload is not valid JSON: %v", err)
	}

	for _, required := range []string{"cv_highlighting", "jd_highlighting", "match_score"} {
		if _, ok := fields[required]; !ok {
			return nil, newInvalidResponseError("analysis payload is missing %q", required)
		}
	}

	var parsed models.Analysis
	if err := json.Unmarshal(inner, &parsed); err != nil {
		return nil, newInvalidResponseError("analysis payload has unexpected field types: %v", err)
	}

	if isEmpty(parsed) {
		return nil, newEmptyResultsError()
	}

	result := &models.AnalysisResult{
		Analysis:  parsed,
		ScoreBand: string(BandForScore(parsed.MatchScore.Overall)),
	}

	// cvData/jdData ride alongside the analysis when the webhook includes them
	if raw, ok := outer["cvData"]; ok {
		var v interface{}
		if err := json.Unmarshal(raw, &v); err == nil {
			result.CVData = v
		}
	}
	if raw, ok := outer["jdData"]; ok {
		var v interface{}
		if err := json.Unmarshal(raw, &v); err == nil {
			result.JDData = v
		}
	}

	return result, nil
}

// classifyPlatformError separates "workflow not active" from other platform
// failures. This is the one place message text is inspected, because the
// platform's envelope carries no finer-grained code.
func classifyPlatformError(envelope platformError) *Error {
	msg := strings.ToLower(envelope.Message)
	if strings.Contains(msg, "webhook") && strings.Contains(msg, "not registered") {
		return newWebhookNotActiveError(
			"the analysis workflow is not active; activate it and try again",
		)
	}
	return newServiceError(envelope.Code, envelope.Message)
}

func isEmpty(a models.Analysis) bool {
	return len(a.CVHighlighting) == 0 &&
		len(a.JDHighlighting) == 0 &&
		a.MatchScore.Overall == 0 &&
		len(a.MatchScore.Sections) == 0
}

func decodeInt(raw json.RawMessage) int {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	// Some platforms stringify numeric codes
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.Atoi(s); err == nil {
			return parsed
		}
	}
	return 0
}
