package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jatinbhagat/decipherworld-backend/pkg/auth"
)

const testSecret = "test-secret"

func newProtectedRouter(role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	group := router.Group("/protected")
	group.Use(JWTAuth(testSecret))
	if role != "" {
		group.Use(RequireRole(role))
	}
	group.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	return router
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	router := newProtectedRouter("")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestJWTAuthRejectsMalformedHeader(t *testing.T) {
	router := newProtectedRouter("")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestJWTAuthRejectsBadSignature(t *testing.T) {
	router := newProtectedRouter("")

	pair, err := auth.GenerateTokenPair("admin", "admin@example.com", "admin", "other-secret")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	router := newProtectedRouter("")

	pair, err := auth.GenerateTokenPair("admin", "admin@example.com", "admin", testSecret)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	router := newProtectedRouter("admin")

	pair, err := auth.GenerateTokenPair("user-1", "user@example.com", "player", testSecret)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("player hitting admin route: status = %d, want 403", w.Code)
	}
}
