package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const testSecret = "test-secret"

func newProtectedServer(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	g := e.Group("/api", JWTMiddleware(testSecret))
	g.GET("/me", func(c echo.Context) error {
		return c.String(http.StatusOK, GetUserIDFromToken(c)+":"+ExtractRole(c))
	}, mw...)
	return e
}

func TestJWTMiddleware(t *testing.T) {
	e := newProtectedServer()

	token, err := GenerateJWT(testSecret, "user-1", "jane@example.com", "customer", time.Hour)
	require.NoError(t, err)
	expired, err := GenerateJWT(testSecret, "user-1", "jane@example.com", "customer", -time.Hour)
	require.NoError(t, err)
	forged, err := GenerateJWT("other-secret", "user-1", "jane@example.com", "customer", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		query    string
		wantCode int
		wantBody string
	}{
		{"bearer header", "Bearer " + token, "", http.StatusOK, "user-1:customer"},
		{"query token", "", "?token=" + token, http.StatusOK, "user-1:customer"},
		{"missing", "", "", http.StatusUnauthorized, ""},
		{"wrong secret", "Bearer " + forged, "", http.StatusUnauthorized, ""},
		{"expired", "Bearer " + expired, "", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestJWTMiddleware_NoSecret(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, JWTMiddleware(""))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGenerateJWT_Expiry(t *testing.T) {
	tests := []struct {
		name  string
		ttl   time.Duration
		check func(t *testing.T, expiresAt int64)
	}{
		{"future", time.Hour, func(t *testing.T, expiresAt int64) { assert.Greater(t, expiresAt, time.Now().Unix()) }},
		{"past", -time.Hour, func(t *testing.T, expiresAt int64) { assert.Less(t, expiresAt, time.Now().Unix()) }},
		{"no expiry", 0, func(t *testing.T, expiresAt int64) { assert.Zero(t, expiresAt) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, err := GenerateJWT(testSecret, "user-1", "", "customer", tt.ttl)
			require.NoError(t, err)

			claims := &JwtCustomClaims{}
			_, _, err = new(jwt.Parser).ParseUnverified(signed, claims)
			require.NoError(t, err)
			tt.check(t, claims.ExpiresAt)
		})
	}
}

func TestGenerateJWT_RequiresSecret(t *testing.T) {
	_, err := GenerateJWT("", "user-1", "", "customer", 0)
	assert.Error(t, err)
}

func TestRequireRole(t *testing.T) {
	e := newProtectedServer(RequireRole("admin"))

	tests := []struct {
		role     string
		wantCode int
	}{
		{"admin", http.StatusOK},
		{"customer", http.StatusForbidden},
		{"", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			token, err := GenerateJWT(testSecret, "user-1", "", tt.role, time.Hour)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	limiter := NewRateLimiter(map[string]EndpointLimit{
		"/api/email/contact": {Limit: rate.Every(time.Hour), Burst: 2},
	})

	e := echo.New()
	e.Use(limiter.RateLimit())
	e.POST("/api/email/contact", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/api/status", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	send := func(method, path, ip string) int {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send(http.MethodPost, "/api/email/contact", "10.0.0.1"))
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "/api/email/contact", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPost, "/api/email/contact", "10.0.0.1"))

	// the offending IP is blocked everywhere, others are not
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodGet, "/api/status", "10.0.0.1"))
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "/api/email/contact", "10.0.0.2"))
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	e.Use(SecurityHeaders(SecurityConfig{ConnectSources: []string{"wss://api.savora.test"}, HSTS: true}))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "connect-src 'self' wss://api.savora.test")
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}
