package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formroute/formroute"
	"github.com/formroute/formroute/internal/testutils"
	"github.com/formroute/formroute/pkg/adapters/memory"
	"github.com/formroute/formroute/pkg/domain"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	graphs := memory.NewGraphStore()
	graphs.Seed(testutils.ScoringQuiz())
	eng := formroute.New(graphs, formroute.WithSessions(memory.NewSessionStore()))

	srv := httptest.NewServer(NewHandler(eng, nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetQuestionByIndex(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/forms/1/questions?index=0")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page formroute.RenderedQuestion
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, 1, page.Page.Question.ID)
	assert.False(t, page.Page.Completed)
}

func TestGetQuestionByIndex_PastEndIsCompleted(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/forms/1/questions?index=3")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page formroute.RenderedQuestion
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.True(t, page.Page.Completed)
}

func TestGetQuestionByID_FinalScreen(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/forms/1/questions/9?final=true")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page formroute.RenderedQuestion
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, 9, page.Page.Question.ID)
}

func TestGetQuestion_UnknownForm(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/forms/42/questions?index=0")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetQuestion_BadIndex(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/forms/1/questions?index=abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPostAnswer_JumpAndScore(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(AnswerRequest{QuestionID: 1, Answer: "yes"})
	resp, err := http.Post(srv.URL+"/forms/1/sessions/s1/answers", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out domain.StepOutcome
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Jumped)
	assert.Equal(t, 3, out.NextQuestionID)
}

func TestPostAnswer_UnknownQuestion(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(AnswerRequest{QuestionID: 777, Answer: "x"})
	resp, err := http.Post(srv.URL+"/forms/1/sessions/s1/answers", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubmitFlow(t *testing.T) {
	srv := newTestServer(t)

	answer := func(q int, a string) {
		body, _ := json.Marshal(AnswerRequest{QuestionID: q, Answer: a})
		resp, err := http.Post(srv.URL+"/forms/1/sessions/s1/answers", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	answer(1, "yes")
	answer(3, "fmt")

	resp, err := http.Post(srv.URL+"/forms/1/sessions/s1/submit", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out SubmitResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.SubmissionID)
	assert.Equal(t, "https://example.com/fans", out.RedirectURL)
}

func TestSaveQuestions(t *testing.T) {
	srv := newTestServer(t)

	incoming := []domain.Question{
		{ID: 1, Position: 0, Payload: "Do you like Go?"},
		{TempID: "n1", Position: 1, Payload: "Which version?"},
	}
	body, _ := json.Marshal(incoming)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/forms/1/questions", bytes.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Trimmed questions are gone from the secure sequence.
	got, err := http.Get(srv.URL + "/forms/1/questions?index=2")
	require.NoError(t, err)
	defer got.Body.Close()
	var page formroute.RenderedQuestion
	require.NoError(t, json.NewDecoder(got.Body).Decode(&page))
	assert.True(t, page.Page.Completed)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
