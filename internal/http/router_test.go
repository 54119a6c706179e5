package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newRouterForFlags(enableComments bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	gw := &mockGateway{validToken: "tok-abc", userID: "user-1"}

	return NewRouter(RouterDeps{
		Logger:         logger,
		Auth:           NewAuthHandler(logger, gw),
		Users:          NewUserHandler(logger, nil),
		Napps:          NewNappHandler(logger, nil),
		Comments:       NewCommentHandler(logger),
		Resolver:       gw,
		EnableComments: enableComments,
	})
}

func TestRouter_Health(t *testing.T) {
	router := newRouterForFlags(false)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_CommentsDisabledByDefault(t *testing.T) {
	router := newRouterForFlags(false)

	req := httptest.NewRequest(http.MethodGet, "/api/comments", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with comments off, got %d", rec.Code)
	}
}

func TestRouter_CommentsEnabledByFlag(t *testing.T) {
	router := newRouterForFlags(true)

	req := httptest.NewRequest(http.MethodGet, "/api/comments", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with comments on, got %d", rec.Code)
	}
}

func TestRouter_ProtectedNappRoutesRequireSession(t *testing.T) {
	router := newRouterForFlags(false)

	req := httptest.NewRequest(http.MethodPost, "/api/napps", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/napps/alice/of_core", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rec.Code)
	}
}
