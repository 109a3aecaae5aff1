package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	admindomain "github.com/Rhey-Ranido/service-hub-sub001/internal/admin/domain"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/config"
	adminhttp "github.com/Rhey-Ranido/service-hub-sub001/internal/interfaces/http/admin"
	publichttp "github.com/Rhey-Ranido/service-hub-sub001/internal/interfaces/http/public"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

const (
	testSecret   = "test-secret"
	testIssuer   = "service-hub-auth"
	testAudience = "service-hub"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context, *readpref.ReadPref) error { return f.err }

type stubModeration struct{ calls int }

func (s *stubModeration) List(_ context.Context, _ domain.ListingKind, _ string, page, _ int) (domain.Page[admindomain.Listing], error) {
	s.calls++
	return domain.Page[admindomain.Listing]{Items: []admindomain.Listing{}, CurrentPage: page}, nil
}

func (s *stubModeration) ChangeStatus(context.Context, domain.ListingKind, string, string) (*admindomain.Listing, error) {
	s.calls++
	return nil, domain.ErrNotFound
}

func newTestServer(p pinger, moderation *stubModeration) *Server {
	logger := zap.NewNop()
	return &Server{
		logger:   logger,
		pinger:   p,
		location: time.UTC,
		auth: newAuthenticator([]config.JWTConfig{
			{Issuer: testIssuer, Secret: []byte(testSecret)},
			{Issuer: "partner", Secret: []byte("partner-secret")},
		}, testAudience, logger),
		public:         publichttp.NewHandler(publichttp.Config{Logger: logger}),
		admin:          adminhttp.NewHandler(adminhttp.Config{Logger: logger, Moderation: moderation}),
		allowedOrigins: []string{"https://app.example"},
	}
}

func signToken(t *testing.T, secret, issuer string, mutate func(*authClaims)) string {
	t.Helper()
	claims := &authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Name: "Ana",
	}
	if mutate != nil {
		mutate(claims)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func do(t *testing.T, h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		rec := do(t, newTestServer(fakePinger{}, nil).routes(), http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	})

	t.Run("degraded", func(t *testing.T) {
		rec := do(t, newTestServer(fakePinger{err: errors.New("no primary")}, nil).routes(), http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "degraded")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(t, newTestServer(fakePinger{}, nil).routes(), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAuthVerify(t *testing.T) {
	router := newTestServer(fakePinger{}, nil).routes()

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", status: http.StatusUnauthorized},
		{name: "valid primary issuer", header: "Bearer " + signToken(t, testSecret, testIssuer, nil), status: http.StatusOK},
		{name: "valid secondary issuer", header: "Bearer " + signToken(t, "partner-secret", "partner", nil), status: http.StatusOK},
		{name: "issuer signed with other secret", header: "Bearer " + signToken(t, testSecret, "partner", nil), status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAuthVerifyReturnsUser(t *testing.T) {
	token := signToken(t, testSecret, testIssuer, func(c *authClaims) { c.Role = "admin" })
	rec := do(t, newTestServer(fakePinger{}, nil).routes(), http.MethodGet, "/auth/verify", token)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		User struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body.User.ID)
	assert.Equal(t, "Ana", body.User.Name)
	assert.Equal(t, "admin", body.User.Role)
}

func TestParseRejectsInvalidClaims(t *testing.T) {
	a := newAuthenticator([]config.JWTConfig{{Issuer: testIssuer, Secret: []byte(testSecret)}}, testAudience, zap.NewNop())

	tests := map[string]func(*authClaims){
		"expired": func(c *authClaims) {
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		},
		"not yet valid": func(c *authClaims) {
			c.NotBefore = jwt.NewNumericDate(time.Now().Add(time.Hour))
		},
		"missing subject": func(c *authClaims) { c.Subject = "" },
		"wrong audience":  func(c *authClaims) { c.Audience = jwt.ClaimStrings{"other"} },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := a.parse(signToken(t, testSecret, testIssuer, mutate))
			assert.ErrorIs(t, err, errInvalidToken)
		})
	}
}

func TestParseWithoutConfigs(t *testing.T) {
	a := newAuthenticator(nil, "", zap.NewNop())
	_, err := a.parse("anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errInvalidToken)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	moderation := &stubModeration{}
	router := newTestServer(fakePinger{}, moderation).routes()

	rec := do(t, router, http.MethodGet, "/admin/providers", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, router, http.MethodGet, "/admin/providers", signToken(t, testSecret, testIssuer, nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, moderation.calls)

	admin := signToken(t, testSecret, testIssuer, func(c *authClaims) { c.Role = "admin" })
	rec = do(t, router, http.MethodGet, "/admin/providers", admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, moderation.calls)
}

func TestCORSPreflight(t *testing.T) {
	router := newTestServer(fakePinger{}, nil).routes()

	req := httptest.NewRequest(http.MethodOptions, "/services", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
