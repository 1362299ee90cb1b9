package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/privscore/privscore/pkg/export"
	"github.com/privscore/privscore/pkg/models"
)

func TestAssessmentFlow(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	id := s.createSession()

	r := s.do(fasthttp.MethodGet, "/api/sessions/"+id, "")
	assert.Equal(t, fasthttp.StatusOK, r.status)
	var view models.SessionResponse
	r.api(t, &view)
	require.NotNil(t, view.CurrentQuestion)
	assert.Equal(t, 0, *view.CurrentQuestion)
	assert.Equal(t, s.bank.Len(), view.TotalQuestions)

	r = s.do(fasthttp.MethodPost, "/api/sessions/"+id+"/answer", `{"choice":0}`)
	assert.Equal(t, fasthttp.StatusOK, r.status)
	r.api(t, &view)
	q0, _ := s.bank.At(0)
	assert.Equal(t, q0.Choices[0].Tip, view.LastTip)
	assert.Equal(t, 1, *view.CurrentQuestion)

	r = s.do(fasthttp.MethodPost, "/api/sessions/"+id+"/skip", "")
	assert.Equal(t, fasthttp.StatusOK, r.status)

	r = s.do(fasthttp.MethodPost, "/api/sessions/"+id+"/back", "")
	assert.Equal(t, fasthttp.StatusOK, r.status)
	view = models.SessionResponse{}
	r.api(t, &view)
	assert.Equal(t, []int{q0.Choices[0].Score}, view.Session.Scores)

	assert.Equal(t, fasthttp.StatusConflict, s.do(fasthttp.MethodGet, "/api/sessions/"+id+"/results", "").status)
}

func TestAnswerValidation(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	id := s.createSession()

	assert.Equal(t, fasthttp.StatusBadRequest, s.do(fasthttp.MethodPost, "/api/sessions/"+id+"/answer", `{`).status)
	assert.Equal(t, fasthttp.StatusBadRequest, s.do(fasthttp.MethodPost, "/api/sessions/"+id+"/answer", `{}`).status)
	assert.Equal(t, fasthttp.StatusBadRequest, s.do(fasthttp.MethodPost, "/api/sessions/"+id+"/answer", `{"choice":42}`).status)
	assert.Equal(t, fasthttp.StatusNotFound, s.do(fasthttp.MethodPost, "/api/sessions/ghost/answer", `{"choice":0}`).status)
	assert.Equal(t, fasthttp.StatusConflict, s.do(fasthttp.MethodPost, "/api/sessions/"+id+"/back", "").status)
}

func TestResultsAndExport(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	id := s.createSession()
	s.completeSession(id)

	assert.Equal(t, fasthttp.StatusConflict, s.do(fasthttp.MethodPost, "/api/sessions/"+id+"/answer", `{"choice":0}`).status)

	r := s.do(fasthttp.MethodGet, "/api/sessions/"+id+"/results", "")
	assert.Equal(t, fasthttp.StatusOK, r.status)
	var results struct {
		SessionID  string               `json:"sessionId"`
		TotalScore int                  `json:"totalScore"`
		MaxScore   int                  `json:"maxScore"`
		Level      models.SecurityLevel `json:"level"`
		Risk       models.RiskAnalysis  `json:"risk"`
	}
	r.api(t, &results)
	assert.Equal(t, id, results.SessionID)
	assert.Equal(t, s.bank.MaxScore(), results.MaxScore)
	assert.NotEmpty(t, results.Level.Label)
	assert.NotNil(t, results.Risk.Patterns)

	r = s.do(fasthttp.MethodGet, "/api/sessions/"+id+"/export", "")
	assert.Equal(t, fasthttp.StatusOK, r.status)
	assert.True(t, strings.HasPrefix(r.header("Content-Type"), "text/plain"))
	assert.Equal(t, `attachment; filename="`+export.Filename(time.Now())+`"`, r.header("Content-Disposition"))
	assert.Contains(t, string(r.body), "=== CATEGORY BREAKDOWN ===")
}

func TestResetKeepsPreviousScore(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	id := s.createSession()
	s.completeSession(id)

	r := s.do(fasthttp.MethodPost, "/api/sessions/"+id+"/reset", "")
	assert.Equal(t, fasthttp.StatusOK, r.status)
	var view models.SessionResponse
	r.api(t, &view)
	assert.Empty(t, view.Session.Scores)
	assert.NotNil(t, view.Session.PreviousScore)
	assert.False(t, view.Complete)
}

func TestUnknownSession(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	for _, path := range []string{"/api/sessions/ghost", "/api/sessions/ghost/results", "/api/sessions/ghost/export", "/api/sessions/ghost/advice"} {
		assert.Equal(t, fasthttp.StatusNotFound, s.do(fasthttp.MethodGet, path, "").status, path)
	}
}
