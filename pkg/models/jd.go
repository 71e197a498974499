package models

import "time"

// JobDescriptionDraft is the server-side mirror of the client's job description
// input, keyed by session so a reload can restore it
type JobDescriptionDraft struct {
	SessionID string    `json:"session_id"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveDraftRequest represents the payload for saving a job description draft
type SaveDraftRequest struct {
	Text string `json:"text" validate:"required"`
}

// DraftResponse reports the draft's readiness against the length threshold
type DraftResponse struct {
	SessionID string    `json:"session_id"`
	Text      string    `json:"text"`
	Length    int       `json:"length"`
	MinLength int       `json:"min_length"`
	Ready     bool      `json:"ready"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FetchJDRequest represents the payload for fetching a job description from a URL
type FetchJDRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// FetchJDResponse carries the text extracted from a fetched page
type FetchJDResponse struct {
	URL    string `json:"url"`
	Text   string `json:"text"`
	Length int    `json:"length"`
	Ready  bool   `json:"ready"`
}
