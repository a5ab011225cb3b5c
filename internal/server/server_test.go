package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonathan/resume-forge/internal/coordinator"
	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/invoker"
	"github.com/jonathan/resume-forge/internal/router"
	"github.com/jonathan/resume-forge/internal/server/ratelimit"
	"github.com/jonathan/resume-forge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, rl *ratelimit.Config) (*Server, *document.Store) {
	t.Helper()
	store := document.NewStore(&types.Resume{
		Summary:     "Engineer",
		Experiences: []types.Experience{{ID: "exp_1", Company: "Acme", Role: "Dev", Dates: "2020", Bullets: []string{"Shipped"}}},
		Skills:      []string{"Python"},
	})
	c := coordinator.New(store, invoker.New(store, nil, nil))
	if rl == nil {
		rl = &ratelimit.Config{Enabled: false}
	}
	s := New(Config{Port: 0, RateLimit: rl}, router.New(c, nil, router.DefaultConfig()), c)
	t.Cleanup(s.rateLimiter.Stop)
	return s, store
}

func do(t *testing.T, s *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w, body := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w, _ := do(t, s, http.MethodOptions, "/requests", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestGetResumeAndSection(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w, body := do(t, s, http.MethodGet, "/resume", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Engineer", body["summary"])

	w, body = do(t, s, http.MethodGet, "/resume/skills", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "skills", body["section"])
	assert.Equal(t, []any{"Python"}, body["data"])

	w, body = do(t, s, http.MethodGet, "/resume/hobbies", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, body["error"], "hobbies")
}

func TestToolsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w, body := do(t, s, http.MethodGet, "/tools", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"get_resume", "get_section"}, body["coordinator"])
	assert.NotEmpty(t, body["tools"])
}

func TestSchemaEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w, body := do(t, s, http.MethodGet, "/schema", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/schema+json", w.Header().Get("Content-Type"))
	assert.Equal(t, "Resume", body["title"])
	assert.Contains(t, body["properties"], "skills")
}

func TestPostRequest_Tool(t *testing.T) {
	s, store := newTestServer(t, nil)

	w, body := do(t, s, http.MethodPost, "/requests", types.EditRequest{Tool: "add_skill", Args: map[string]any{"skill": "AWS"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Skill 'AWS' added.", body["message"])
	assert.Nil(t, body["error"])
	assert.Equal(t, []string{"Python", "AWS"}, store.Snapshot().Skills)
}

func TestPostRequest_Errors(t *testing.T) {
	s, store := newTestServer(t, nil)
	before := store.Revision()

	tests := []struct {
		name   string
		req    types.EditRequest
		status int
	}{
		{name: "missing skill", req: types.EditRequest{Tool: "remove_skill", Args: map[string]any{"skill": "Go"}}, status: http.StatusNotFound},
		{name: "duplicate skill", req: types.EditRequest{Tool: "add_skill", Args: map[string]any{"skill": "Python"}}, status: http.StatusConflict},
		{name: "unknown tool", req: types.EditRequest{Tool: "fly_to_moon"}, status: http.StatusNotFound},
		{name: "unknown section", req: types.EditRequest{Section: "hobbies", Operation: "add"}, status: http.StatusNotFound},
		{name: "missing argument", req: types.EditRequest{Tool: "add_skill"}, status: http.StatusBadRequest},
		{name: "bullet out of range", req: types.EditRequest{Tool: "remove_bullet", Args: map[string]any{"experience_id": "exp_1", "bullet_index": 5}}, status: http.StatusBadRequest},
		{name: "no extractor", req: types.EditRequest{Text: "Add Go to my skills"}, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := do(t, s, http.MethodPost, "/requests", tt.req)
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
	assert.Equal(t, before, store.Revision())
}

func TestPostRequest_ClarificationIsOK(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w, body := do(t, s, http.MethodPost, "/requests", types.EditRequest{Text: "Move the skill from my summary"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, router.ClarificationQuestion, body["message"])
	decision := body["decision"].(map[string]any)
	assert.Equal(t, true, decision["ambiguous"])
}

func TestPostRequest_Conversational(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w, body := do(t, s, http.MethodPost, "/requests", types.EditRequest{Text: "Hello"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, router.Capabilities(), body["message"])
}

func TestPostRequest_MalformedBody(t *testing.T) {
	s, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/requests", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDispatch(t *testing.T) {
	s, store := newTestServer(t, nil)

	w, body := do(t, s, http.MethodPost, "/sections/experience/add_bullet", map[string]any{"experience_id": "exp_1", "bullet": "Led migration"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["committed"])
	assert.Equal(t, []string{"Shipped", "Led migration"}, store.Snapshot().Experiences[0].Bullets)

	w, body = do(t, s, http.MethodPost, "/sections/skills/get", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["committed"])
	result := body["result"].(map[string]any)
	assert.Equal(t, []any{"Python"}, result["data"])

	w, body = do(t, s, http.MethodPost, "/sections/experience/update", map[string]any{"experience_id": "exp_99", "role": "Lead"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, body["committed"])
	assert.Equal(t, "Dev", store.Snapshot().Experiences[0].Role)

	w, _ = do(t, s, http.MethodPost, "/sections/skills/rename", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)
	w, _ := do(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "not mounted without a handler")

	store := document.NewStore(&types.Resume{Summary: "Engineer"})
	c := coordinator.New(store, invoker.New(store, nil, nil))
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("resume_forge_edits_total 0\n"))
	})
	withMetrics := New(Config{RateLimit: &ratelimit.Config{Enabled: false}, Metrics: metrics}, router.New(c, nil, router.DefaultConfig()), c)
	t.Cleanup(withMetrics.rateLimiter.Stop)

	w, _ = do(t, withMetrics, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "resume_forge_edits_total")
}

func TestRateLimit(t *testing.T) {
	s, _ := newTestServer(t, &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  2,
		DefaultWindow: time.Hour,
	})

	for i := 0; i < 2; i++ {
		w, _ := do(t, s, http.MethodGet, "/resume", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w, body := do(t, s, http.MethodGet, "/resume", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limit_exceeded", body["error"])
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	w, _ = do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
