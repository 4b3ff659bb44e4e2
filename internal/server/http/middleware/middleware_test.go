package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/frelanci/orderchat/internal/pkg/auth"
	testhelpers "github.com/frelanci/orderchat/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authedRouter(parser TokenParser) (*gin.Engine, *string) {
	router := gin.New()
	var seen string
	router.GET("/secure", AuthRequired(parser), func(c *gin.Context) {
		val, _ := c.Get(UserIDContextKey)
		seen, _ = val.(string)
		c.Status(http.StatusOK)
	})
	return router, &seen
}

func TestAuthRequiredAcceptsBearerToken(t *testing.T) {
	router, seen := authedRouter(testhelpers.TokenParserStub{ID: "user-7"})

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if *seen != "user-7" {
		t.Fatalf("expected user id in context, got %q", *seen)
	}
}

func TestAuthRequiredRejectsMissingHeader(t *testing.T) {
	router, _ := authedRouter(testhelpers.TokenParserStub{ID: "user-7"})

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "error") {
		t.Fatalf("expected json error body, got %q", w.Body.String())
	}
}

func TestAuthRequiredRejectsInvalidToken(t *testing.T) {
	router, _ := authedRouter(testhelpers.TokenParserStub{Err: pkgAuth.ErrInvalidToken})

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer stale")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestAuthRequiredParserFailure(t *testing.T) {
	router, _ := authedRouter(testhelpers.TokenParserStub{Err: errors.New("backend down")})

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
}

func TestExtractTokenIsCaseInsensitive(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "bearer lower-token")
	if got := extractToken(c); got != "lower-token" {
		t.Fatalf("expected lower-token, got %q", got)
	}

	c.Request.Header.Set("Authorization", "Basic abc")
	if got := extractToken(c); got != "" {
		t.Fatalf("expected empty token for non-bearer scheme, got %q", got)
	}
}

func TestRequestLoggerEmitsStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	out := buf.String()
	for _, want := range []string{`"method":"GET"`, `"path":"/ping"`, `"status":200`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in log output, got %s", want, out)
		}
	}
}
