package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/metaman/internal/platform/logger"
	"github.com/yungbote/metaman/internal/requestdata"
	"github.com/yungbote/metaman/internal/services"
)

func authRouter(required bool, as services.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewAuthMiddleware(logger.Nop(), as, required).Authenticate())
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, requestdata.UserID(c.Request.Context()).String())
	})
	return r
}

func TestAuthenticateRequired(t *testing.T) {
	as := services.NewAuthService(logger.Nop(), "secret")
	r := authRouter(true, as)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}

	userID := uuid.New()
	token, err := as.IssueToken(userID, time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != userID.String() {
		t.Fatalf("valid token: status=%d body=%q", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticateOptional(t *testing.T) {
	r := authRouter(false, services.NewAuthService(logger.Nop(), ""))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != uuid.Nil.String() {
		t.Fatalf("anonymous: status=%d body=%q", rec.Code, rec.Body.String())
	}
}
