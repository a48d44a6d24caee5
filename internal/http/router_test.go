package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/metaman/internal/data/repos"
	"github.com/yungbote/metaman/internal/data/repos/testutil"
	httpH "github.com/yungbote/metaman/internal/http/handlers"
	httpMW "github.com/yungbote/metaman/internal/http/middleware"
	"github.com/yungbote/metaman/internal/observability"
	"github.com/yungbote/metaman/internal/services"
)

func testRouter(t *testing.T, required bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := services.NewMarkingService(db, log, repos.NewMarkingRepo(db, log), uuid.New())
	return NewRouter(RouterConfig{
		Log:            log,
		MaxBodyBytes:   1 << 10,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, services.NewAuthService(log, "secret"), required),
		MarkingHandler: httpH.NewMarkingHandler(log, svc, nil),
		HealthHandler:  httpH.NewHealthHandler(nil),
	})
}

func TestRouterServesBothPrefixes(t *testing.T) {
	r := testRouter(t, false)
	for _, path := range []string{"/markings", "/api/markings"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"name":"tlp_red","definition_type":"tlp","definition":"TLP Red"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("%s: got=%d body=%s", path, rec.Code, rec.Body.String())
		}
		if rec.Header().Get("X-Request-Id") == "" {
			t.Fatalf("%s: missing X-Request-Id", path)
		}
	}
}

func TestRouterRequiresTokenForWrites(t *testing.T) {
	r := testRouter(t, true)

	req := httptest.NewRequest(http.MethodPost, "/markings", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/markings", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("reads stay public: got=%d", rec.Code)
	}
}

func TestRouterLimitsBodySize(t *testing.T) {
	r := testRouter(t, false)
	body := `{"name":"a","definition_type":"tlp","definition":"` + strings.Repeat("x", 2048) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/markings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("got=%d want=%d", rec.Code, http.StatusRequestEntityTooLarge)
	}
	if !strings.Contains(rec.Body.String(), `"body_too_large"`) {
		t.Fatalf("body=%s", rec.Body.String())
	}
}

func TestRouterExposesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	m := observability.NewMetrics(log, observability.MetricsConfig{Enabled: true})
	svc := services.NewMarkingService(db, log, repos.NewMarkingRepo(db, log), uuid.New())
	r := NewRouter(RouterConfig{
		Metrics:        m,
		MarkingHandler: httpH.NewMarkingHandler(log, svc, nil).WithMetrics(m),
	})

	req := httptest.NewRequest(http.MethodPost, "/markings", strings.NewReader(`{"name":"Foo","definition_type":"tlp","definition":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: got=%d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`metaman_markings_rejected_total{field="name"} 1`,
		`metaman_api_requests_total{method="POST",route="/markings",status="400"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in:\n%s", want, body)
		}
	}
}
