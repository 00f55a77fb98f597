package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statutelabs/statuted/internal/auditlog"
	"github.com/statutelabs/statuted/internal/clarify"
	"github.com/statutelabs/statuted/internal/session"
)

// scriptedDetector flags questions containing a marker as ambiguous.
type scriptedDetector struct{}

func (scriptedDetector) Detect(ctx context.Context, question string) (clarify.Verdict, error) {
	if strings.Contains(question, "section 17(5)") && !strings.Contains(question, "Act") {
		return clarify.Verdict{
			Ambiguous:             true,
			ClarificationQuestion: "Which Act are you referring to?",
		}, nil
	}
	return clarify.Unambiguous, nil
}

// scriptedAnswerer echoes the resolved question.
type scriptedAnswerer struct {
	err error
}

func (a scriptedAnswerer) Answer(ctx context.Context, question string) (*clarify.Answer, error) {
	if a.err != nil {
		return nil, a.err
	}
	return &clarify.Answer{
		Text:    "answer to: " + question,
		Sources: map[string]int{"cgst_act_2017.txt": 2},
	}, nil
}

// captureRecorder remembers the last audit record.
type captureRecorder struct {
	records []auditlog.Record
}

func (r *captureRecorder) Record(rec auditlog.Record) { r.records = append(r.records, rec) }
func (r *captureRecorder) Close()                     {}

func newTestServer(t *testing.T, answerErr error) (*Server, *captureRecorder) {
	t.Helper()
	sessions := session.NewStore(5*time.Minute, nil)
	manager, err := clarify.NewManager(sessions, scriptedDetector{}, scriptedAnswerer{err: answerErr}, nil, clarify.Config{})
	require.NoError(t, err)

	audit := &captureRecorder{}
	srv, err := NewServer(manager, sessions, audit, nil, Config{})
	require.NoError(t, err)
	return srv, audit
}

func postQuery(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func TestQuery_DirectAnswer(t *testing.T) {
	srv, audit := newTestServer(t, nil)

	rec := postQuery(t, srv, `{"question":"What is the GST rate on cement?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.SessionID)
	assert.False(t, resp.RequiresClarification)
	assert.Empty(t, resp.ClarificationQuestion)
	assert.Equal(t, "answer to: What is the GST rate on cement?", resp.Answer)
	assert.Equal(t, map[string]int{"cgst_act_2017.txt": 2}, resp.Sources)

	require.Len(t, audit.records, 1)
	assert.Equal(t, "answered", audit.records[0].Outcome)
	assert.Equal(t, resp.SessionID, audit.records[0].SessionID)
}

func TestQuery_ClarificationRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	// First turn: ambiguous question raises a clarification.
	rec := postQuery(t, srv, `{"question":"What is section 17(5)?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var first QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	require.True(t, first.RequiresClarification)
	assert.Equal(t, "Which Act are you referring to?", first.ClarificationQuestion)
	assert.Equal(t, "What is section 17(5)?", first.PendingQuestion)
	assert.Empty(t, first.Answer)

	// Second turn: the reply merges and answers within the same session.
	body, err := json.Marshal(QueryRequest{Question: "CGST Act", SessionID: first.SessionID})
	require.NoError(t, err)
	rec = postQuery(t, srv, string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	var second QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.False(t, second.RequiresClarification)
	assert.Equal(t, "answer to: What is section 17(5)? (CGST Act)", second.Answer)
}

// A blank reply to a pending clarification repeats the prompt with 200,
// not a 400; only blank fresh questions are rejected.
func TestQuery_BlankClarificationReply(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := postQuery(t, srv, `{"question":"What is section 17(5)?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var first QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	require.True(t, first.RequiresClarification)

	body, err := json.Marshal(QueryRequest{Question: "   ", SessionID: first.SessionID})
	require.NoError(t, err)
	rec = postQuery(t, srv, string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	var second QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.True(t, second.RequiresClarification)
	assert.Equal(t, first.ClarificationQuestion, second.ClarificationQuestion)
	assert.Equal(t, "What is section 17(5)?", second.PendingQuestion)
}

func TestQuery_UnknownSessionStartsFresh(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := postQuery(t, srv, `{"question":"What is the GST rate on cement?","session_id":"no-such-session"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEqual(t, "no-such-session", resp.SessionID)
	assert.False(t, resp.RequiresClarification)
}

func TestQuery_EmptyQuestion(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := postQuery(t, srv, `{"question":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuery_InvalidBody(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := postQuery(t, srv, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuery_AnswerFailure(t *testing.T) {
	srv, audit := newTestServer(t, errors.New("model unavailable"))

	rec := postQuery(t, srv, `{"question":"What is the GST rate on cement?"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	require.Len(t, audit.records, 1)
	assert.Equal(t, "error", audit.records[0].Outcome)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	srv.SetVersion("1.2.3")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, 0, resp.Sessions)
}

func TestMetricsMiddleware(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	srv.SetMetrics(NewMetrics(prometheus.NewRegistry()))

	rec := postQuery(t, srv, `{"question":"What is the GST rate on cement?"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewServer_Validation(t *testing.T) {
	sessions := session.NewStore(0, nil)
	manager, err := clarify.NewManager(sessions, nil, scriptedAnswerer{}, nil, clarify.Config{})
	require.NoError(t, err)

	_, err = NewServer(nil, sessions, nil, nil, Config{})
	assert.Error(t, err)

	_, err = NewServer(manager, nil, nil, nil, Config{})
	assert.Error(t, err)

	// Nil audit recorder falls back to Nop.
	srv, err := NewServer(manager, sessions, nil, nil, Config{})
	require.NoError(t, err)
	assert.NotNil(t, srv)
}
