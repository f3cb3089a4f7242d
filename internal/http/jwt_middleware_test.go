package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"test-rol/internal/domain"
	"test-rol/internal/service"
)

func newJWT() *service.JWTService {
	return service.NewJWTServiceWithStore("secret", 15*time.Minute, 30*time.Minute, service.NewMemoryRefreshTokenStore())
}

func protectedRouter(jwtSvc *service.JWTService, mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuthMiddleware(jwtSvc)}, mw...)
	handlers = append(handlers, func(c *gin.Context) {
		p, ok := currentPostulante(c)
		if !ok || p.ID != "u1" {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.Status(http.StatusOK)
	})
	r.GET("/protected", handlers...)
	return r
}

func doAuthorized(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMiddleware_AllowsValidAccessToken(t *testing.T) {
	jwtSvc := newJWT()
	pair, err := jwtSvc.GeneratePair(domain.Postulante{ID: "u1", Nombre: "Ana"})
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	if rec := doAuthorized(protectedRouter(jwtSvc), pair.AccessToken); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestJWTAuthMiddleware_RejectsMissingToken(t *testing.T) {
	if rec := doAuthorized(protectedRouter(newJWT()), ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTAuthMiddleware_RejectsRefreshToken(t *testing.T) {
	jwtSvc := newJWT()
	pair, err := jwtSvc.GeneratePair(domain.Postulante{ID: "u1", Nombre: "Ana"})
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	if rec := doAuthorized(protectedRouter(jwtSvc), pair.RefreshToken); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAdminRequiredMiddleware(t *testing.T) {
	jwtSvc := newJWT()
	r := protectedRouter(jwtSvc, AdminRequiredMiddleware())

	user, _ := jwtSvc.GeneratePair(domain.Postulante{ID: "u1", Nombre: "Ana"})
	if rec := doAuthorized(r, user.AccessToken); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non admin, got %d", rec.Code)
	}
	admin, _ := jwtSvc.GeneratePair(domain.Postulante{ID: "u1", Nombre: "Root", EsAdmin: true})
	if rec := doAuthorized(r, admin.AccessToken); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}
