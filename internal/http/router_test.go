package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"test-rol/internal/domain"
	"test-rol/internal/rolapi"
	"test-rol/internal/service"
	"test-rol/internal/session"
)

type stubIdentity struct {
	user domain.Postulante
	err  error
}

func (s stubIdentity) Register(context.Context, rolapi.RegisterInput) (domain.Postulante, error) {
	return s.user, s.err
}

func (s stubIdentity) Login(context.Context, rolapi.LoginInput) (domain.Postulante, error) {
	return s.user, s.err
}

type stubResults struct {
	rows []domain.TestSummary
}

func (s stubResults) ListResults(context.Context, string) ([]domain.TestSummary, error) {
	return s.rows, nil
}

type captureSink struct {
	subs []domain.Submission
}

func (c *captureSink) Enqueue(sub domain.Submission) error {
	c.subs = append(c.subs, sub)
	return nil
}

type testEnv struct {
	router *gin.Engine
	jwt    *service.JWTService
	sink   *captureSink
}

func newTestEnv(t *testing.T, identity service.IdentityProvider, results service.ResultsSource) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtSvc := newJWT()
	hub := session.NewHub()
	sink := &captureSink{}

	tests := service.NewTestService(nil, nil, nil, sink)
	t.Cleanup(tests.Watch(hub))

	authH := NewAuthHandler(nil, service.NewAuthService(nil, identity, jwtSvc, nil, hub))
	testH := NewTestHandler(nil, tests)
	adminH := NewAdminHandler(nil, service.NewAdminService(nil, results))
	return testEnv{router: NewRouter(nil, jwtSvc, authH, testH, adminH), jwt: jwtSvc, sink: sink}
}

func (e testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func loginToken(t *testing.T, env testEnv) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/auth/login", "", map[string]any{"nombre": "Ana", "id_usuario": "42"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status %d body %s", rec.Code, rec.Body.String())
	}
	var sess service.Session
	decode(t, rec, &sess)
	return sess.Tokens.AccessToken
}

func TestRouter_Health(t *testing.T) {
	env := newTestEnv(t, stubIdentity{}, stubResults{})
	if rec := env.do(t, http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_TestFlow(t *testing.T) {
	env := newTestEnv(t, stubIdentity{user: domain.Postulante{ID: "42", Nombre: "Ana"}}, stubResults{})
	token := loginToken(t, env)

	if rec := env.do(t, http.MethodGet, "/test", token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before start, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/test/start", token, nil); rec.Code != http.StatusCreated {
		t.Fatalf("start status %d", rec.Code)
	}

	rec := env.do(t, http.MethodPost, "/test/submit", token, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty test, got %d", rec.Code)
	}
	var incomplete struct {
		Unanswered []int `json:"unanswered"`
	}
	decode(t, rec, &incomplete)
	if len(incomplete.Unanswered) != domain.QuestionCount {
		t.Fatalf("expected %d unanswered, got %d", domain.QuestionCount, len(incomplete.Unanswered))
	}

	if rec := env.do(t, http.MethodPut, "/test/answers/0", token, map[string]int{"value": 0}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out of range, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodPut, "/test/answers/abc", token, map[string]int{"value": 5}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad index, got %d", rec.Code)
	}
	for i := 0; i < domain.QuestionCount; i++ {
		rec := env.do(t, http.MethodPut, fmt.Sprintf("/test/answers/%d", i), token, map[string]int{"value": 10})
		if rec.Code != http.StatusOK {
			t.Fatalf("answer %d status %d", i, rec.Code)
		}
	}

	rec = env.do(t, http.MethodPost, "/test/next", token, nil)
	var progress service.Progress
	decode(t, rec, &progress)
	if rec.Code != http.StatusOK || progress.Current != 1 || progress.Answered != domain.QuestionCount {
		t.Fatalf("unexpected progress after next: %d %+v", rec.Code, progress)
	}

	rec = env.do(t, http.MethodPost, "/test/submit", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit status %d body %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Result service.Result `json:"result"`
	}
	decode(t, rec, &out)
	if out.Result.Verdict.Dominant != domain.CategoryC || out.Result.Role.Name != "Desarrollador" {
		t.Fatalf("unexpected result %+v", out.Result)
	}
	if len(env.sink.subs) != 1 || env.sink.subs[0].PostulanteID != "42" {
		t.Fatalf("expected one forwarded submission, got %+v", env.sink.subs)
	}

	if rec := env.do(t, http.MethodPost, "/test/submit", token, nil); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on resubmit, got %d", rec.Code)
	}
}

func TestRouter_TestRequiresToken(t *testing.T) {
	env := newTestEnv(t, stubIdentity{}, stubResults{})
	if rec := env.do(t, http.MethodGet, "/test/questions", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_LoginErrors(t *testing.T) {
	env := newTestEnv(t, stubIdentity{err: &rolapi.APIError{Status: http.StatusInternalServerError, Message: "down"}}, stubResults{})
	rec := env.do(t, http.MethodPost, "/auth/login", "", map[string]any{"nombre": "Ana", "id_usuario": "1"})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	env = newTestEnv(t, stubIdentity{err: &rolapi.APIError{Status: http.StatusNotFound}}, stubResults{})
	rec = env.do(t, http.MethodPost, "/auth/login", "", map[string]any{"nombre": "Ana", "id_usuario": "1"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/auth/login", "", map[string]any{"es_admin": true})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRouter_LogoutDiscardsTest(t *testing.T) {
	env := newTestEnv(t, stubIdentity{user: domain.Postulante{ID: "42", Nombre: "Ana"}}, stubResults{})
	rec := env.do(t, http.MethodPost, "/auth/login", "", map[string]any{"nombre": "Ana", "id_usuario": "42"})
	var sess service.Session
	decode(t, rec, &sess)

	if rec := env.do(t, http.MethodPost, "/test/start", sess.Tokens.AccessToken, nil); rec.Code != http.StatusCreated {
		t.Fatalf("start status %d", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/auth/logout", "", map[string]string{"refresh_token": sess.Tokens.RefreshToken}); rec.Code != http.StatusNoContent {
		t.Fatalf("logout status %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/test", sess.Tokens.AccessToken, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after logout, got %d", rec.Code)
	}
}

func TestRouter_AdminTests(t *testing.T) {
	rows := []domain.TestSummary{{ID: "1", PostulanteNombre: "Ana", PuntajeTotal: 120}, {ID: "2", PostulanteNombre: "Luis", PuntajeTotal: 95}}
	env := newTestEnv(t, stubIdentity{}, stubResults{rows: rows})

	user, _ := env.jwt.GeneratePair(domain.Postulante{ID: "5", Nombre: "Ana"})
	if rec := env.do(t, http.MethodGet, "/admin/tests", user.AccessToken, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	admin, _ := env.jwt.GeneratePair(domain.Postulante{ID: "1", Nombre: "Root", EsAdmin: true})
	rec := env.do(t, http.MethodGet, "/admin/tests", admin.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out struct {
		Resultados []domain.TestSummary `json:"resultados"`
		Stats      domain.AdminStats    `json:"stats"`
	}
	decode(t, rec, &out)
	if len(out.Resultados) != 2 || out.Stats != (domain.AdminStats{Total: 2, Average: 107.5, Max: 120}) {
		t.Fatalf("unexpected admin payload %+v", out)
	}
}
