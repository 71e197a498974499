package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenticv-server/internal/config"
	"agenticv-server/internal/jd"
	"agenticv-server/pkg/models"
)

type memoryDrafts struct {
	drafts map[string]*models.JobDescriptionDraft
}

func (m *memoryDrafts) Save(ctx context.Context, draft *models.JobDescriptionDraft) error {
	m.drafts[draft.SessionID] = draft
	return nil
}

func (m *memoryDrafts) Get(ctx context.Context, sessionID string) (*models.JobDescriptionDraft, error) {
	draft, ok := m.drafts[sessionID]
	if !ok {
		return nil, jd.ErrDraftNotFound
	}
	return draft, nil
}

func (m *memoryDrafts) Delete(ctx context.Context, sessionID string) error {
	delete(m.drafts, sessionID)
	return nil
}

type stubFetcher struct {
	text string
	err  error
}

func (s *stubFetcher) FetchText(ctx context.Context, url string) (string, error) {
	return s.text, s.err
}

func jdService(fetcher jd.Fetcher) *jd.Service {
	cfg := &config.Config{}
	cfg.JobDescription.MinLength = 100
	return jd.NewService(cfg, &memoryDrafts{drafts: make(map[string]*models.JobDescriptionDraft)}, fetcher)
}

func TestSaveDraftHandler(t *testing.T) {
	e := echo.New()
	svc := jdService(&stubFetcher{})

	payload := `{"text": "` + strings.Repeat("a", 120) + `"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/jd/session-1", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("session_id")
	c.SetParamValues("session-1")

	err := SaveDraftHandler(svc)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.DraftResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "session-1", resp.SessionID)
	assert.Equal(t, 120, resp.Length)
	assert.True(t, resp.Ready)
}

func TestSaveDraftHandler_MissingText(t *testing.T) {
	e := echo.New()
	svc := jdService(&stubFetcher{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/jd/session-1", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("session_id")
	c.SetParamValues("session-1")

	err := SaveDraftHandler(svc)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDraftHandler_NotFound(t *testing.T) {
	e := echo.New()
	svc := jdService(&stubFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jd/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("session_id")
	c.SetParamValues("missing")

	err := GetDraftHandler(svc)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "draft_not_found", resp.Error)
}

func TestFetchJDHandler(t *testing.T) {
	e := echo.New()
	fetched := strings.Repeat("requirement ", 20)
	svc := jdService(&stubFetcher{text: fetched})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jd/fetch",
		strings.NewReader(`{"url": "https://example.com/jobs/42"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := FetchJDHandler(svc)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.FetchJDResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, fetched, resp.Text)
	assert.True(t, resp.Ready)
}

func TestFetchJDHandler_InvalidURL(t *testing.T) {
	e := echo.New()
	svc := jdService(&stubFetcher{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jd/fetch",
		strings.NewReader(`{"url": "not a url"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := FetchJDHandler(svc)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFetchJDHandler_FetchFailure(t *testing.T) {
	e := echo.New()
	svc := jdService(&stubFetcher{err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jd/fetch",
		strings.NewReader(`{"url": "https://example.com/jobs/42"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := FetchJDHandler(svc)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSampleJDHandler(t *testing.T) {
	e := echo.New()
	svc := jdService(&stubFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jd/sample", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := SampleJDHandler(svc)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.FetchJDResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Text)
	assert.True(t, resp.Ready)
	assert.GreaterOrEqual(t, resp.Length, 100)
}
