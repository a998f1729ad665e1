package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"waste-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

func doRequest(t *testing.T, mw gin.HandlerFunc, role string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", mw, func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if role != "" {
		req = req.WithContext(auth.WithIdentity(req.Context(), "u1", role))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAnyRole(t *testing.T) {
	mw := RequireAnyRole(RoleAgent, RoleWorker)

	if w := doRequest(t, mw, "agent"); w.Code != http.StatusOK {
		t.Fatalf("agent: expected 200, got %d", w.Code)
	}
	if w := doRequest(t, mw, "worker"); w.Code != http.StatusOK {
		t.Fatalf("worker: expected 200, got %d", w.Code)
	}
	if w := doRequest(t, mw, "citizen"); w.Code != http.StatusForbidden {
		t.Fatalf("citizen: expected 403, got %d", w.Code)
	}
	if w := doRequest(t, mw, "admin"); w.Code != http.StatusForbidden {
		t.Fatalf("unknown role: expected 403, got %d", w.Code)
	}
	if w := doRequest(t, mw, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing identity: expected 401, got %d", w.Code)
	}
}
