package models

import "time"

// AnalysisRequest is the payload sent to the gap-analysis webhook. It is built
// once both the uploaded CV and the job description draft are ready and is
// immutable once sent.
type AnalysisRequest struct {
	SessionID      string `json:"sessionId" validate:"required"`
	CVURL          string `json:"cvUrl" validate:"required,url"`
	JobDescription string `json:"jobDescription" validate:"required"`
}

// Highlight marks a span of one document that matched, partially matched, or
// gapped relative to the other document
type Highlight struct {
	Address string `json:"address"`
	Class   string `json:"class"`
	Reason  string `json:"reason"`
}

// MatchScore carries the overall match percentage plus any per-section scores
// the webhook chooses to include
type MatchScore struct {
	Overall  float64            `json:"overall"`
	Sections map[string]float64 `json:"sections,omitempty"`
}

// Analysis is the normalized analysis payload the results view expects
type Analysis struct {
	CVHighlighting []Highlight `json:"cv_highlighting"`
	JDHighlighting []Highlight `json:"jd_highlighting"`
	MatchScore     MatchScore  `json:"match_score"`
}

// AnalysisResult is the fixed internal shape produced after unwrapping
// whatever shape the webhook actually returned
type AnalysisResult struct {
	CVData    interface{} `json:"cvData,omitempty"`
	JDData    interface{} `json:"jdData,omitempty"`
	Analysis  Analysis    `json:"analysis"`
	ScoreBand string      `json:"score_band"`
}

// AnalysisResponse represents the response from an analyze request
type AnalysisResponse struct {
	Success        bool            `json:"success"`
	SessionID      string          `json:"session_id"`
	Result         *AnalysisResult `json:"result,omitempty"`
	ProcessingTime time.Duration   `json:"processing_time"`
	RequestID      string          `json:"request_id"`
}

// AnalysisStateResponse reports the current pipeline state for a session
type AnalysisStateResponse struct {
	SessionID string `json:"session_id"`
	State     string `json:"state"`
	ErrorType string `json:"error_type,omitempty"`
	Error     string `json:"error,omitempty"`
}
