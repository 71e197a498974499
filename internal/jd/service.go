package jd

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"agenticv-server/internal/config"
	"agenticv-server/internal/logging"
	"agenticv-server/pkg/models"
)

// sampleText is the canned job description offered for demos. It comfortably
// exceeds the readiness threshold.
const sampleText = `We are looking for a Senior Software Engineer to join our platform team. ` +
	`You will design, build, and operate the services that power our customer-facing products, ` +
	`working across the stack from API design to deployment automation. ` +
	`Requirements: 5+ years of professional software development experience, strong proficiency in Go or a similar ` +
	`systems language, hands-on experience with cloud object storage and message queues, and a track record of ` +
	`shipping reliable distributed services. Familiarity with CI/CD pipelines, infrastructure as code, and ` +
	`observability tooling is a significant plus. You will collaborate closely with product managers and designers, ` +
	`mentor junior engineers, and take part in an on-call rotation. We offer flexible remote work, a generous ` +
	`learning budget, and a culture that values pragmatic engineering over process.`

// Service owns job description drafts: readiness against the length
// threshold, session-keyed persistence, URL fetching, and the demo sample.
type Service struct {
	drafts    Drafts
	fetcher   Fetcher
	minLength int
	logger    logging.Logger
}

// NewService wires the draft store and fetcher together
func NewService(cfg *config.Config, drafts Drafts, fetcher Fetcher) *Service {
	return &Service{
		drafts:    drafts,
		fetcher:   fetcher,
		minLength: cfg.JobDescription.MinLength,
		logger:    logging.GetGlobalLogger(),
	}
}

// MinLength returns the readiness threshold in characters
func (s *Service) MinLength() int {
	return s.minLength
}

// Ready reports whether the text meets the length threshold. The threshold
// counts characters, not bytes, so multi-byte text is measured in runes.
func (s *Service) Ready(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= s.minLength
}

// SaveDraft persists the draft for the session and reports its readiness
func (s *Service) SaveDraft(ctx context.Context, sessionID, text string) (*models.DraftResponse, error) {
	draft := &models.JobDescriptionDraft{
		SessionID: sessionID,
		Text:      text,
		UpdatedAt: time.Now(),
	}

	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}

	return s.draftResponse(draft), nil
}

// GetDraft loads the draft for the session
func (s *Service) GetDraft(ctx context.Context, sessionID string) (*models.DraftResponse, error) {
	draft, err := s.drafts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.draftResponse(draft), nil
}

// FetchFromURL pulls job description text from a remote page
func (s *Service) FetchFromURL(ctx context.Context, url string) (*models.FetchJDResponse, error) {
	text, err := s.fetcher.FetchText(ctx, url)
	if err != nil {
		return nil, err
	}

	return &models.FetchJDResponse{
		URL:    url,
		Text:   text,
		Length: utf8.RuneCountInString(text),
		Ready:  s.Ready(text),
	}, nil
}

// Sample returns the canned demo job description
func (s *Service) Sample() string {
	return sampleText
}

func (s *Service) draftResponse(draft *models.JobDescriptionDraft) *models.DraftResponse {
	return &models.DraftResponse{
		SessionID: draft.SessionID,
		Text:      draft.Text,
		Length:    utf8.RuneCountInString(draft.Text),
		MinLength: s.minLength,
		Ready:     s.Ready(draft.Text),
		UpdatedAt: draft.UpdatedAt,
	}
}
