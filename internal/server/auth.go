package server

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/config"
	commonhttp "github.com/Rhey-Ranido/service-hub-sub001/internal/interfaces/http/common"
)

var errInvalidToken = errors.New("invalid access token")

type authClaims struct {
	jwt.RegisteredClaims
	Name              string `json:"name,omitempty"`
	Picture           string `json:"picture,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	Role              string `json:"role,omitempty"`
}

// authenticator verifies bearer tokens against every configured issuer.
type authenticator struct {
	configs  []config.JWTConfig
	audience string
	logger   *zap.Logger
}

func newAuthenticator(configs []config.JWTConfig, audience string, logger *zap.Logger) *authenticator {
	return &authenticator{
		configs:  append([]config.JWTConfig(nil), configs...),
		audience: audience,
		logger:   logger,
	}
}

// middleware validates the Authorization header and stores the user in context.
func (a *authenticator) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			commonhttp.WriteError(a.logger, w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			commonhttp.WriteError(a.logger, w, http.StatusUnauthorized, "bearer token required")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			commonhttp.WriteError(a.logger, w, http.StatusUnauthorized, "empty access token")
			return
		}

		claims, err := a.parse(tokenString)
		if err != nil {
			commonhttp.WriteError(a.logger, w, http.StatusUnauthorized, err.Error())
			return
		}

		user := commonhttp.AuthenticatedUser{
			ID:       claims.Subject,
			Name:     claims.Name,
			Username: claims.PreferredUsername,
			Picture:  claims.Picture,
			Role:     claims.Role,
		}

		ctx := commonhttp.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parse tries each issuer config in order and returns the first that verifies
// signature, issuer, audience and subject.
func (a *authenticator) parse(tokenString string) (*authClaims, error) {
	if len(a.configs) == 0 {
		return nil, errors.New("authentication is not configured")
	}

	for _, cfg := range a.configs {
		opts := []jwt.ParserOption{
			jwt.WithLeeway(30 * time.Second),
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		}
		if cfg.Issuer != "" {
			opts = append(opts, jwt.WithIssuer(cfg.Issuer))
		}

		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return cfg.Secret, nil
		}, opts...)
		if err != nil || !token.Valid {
			continue
		}
		if claims.Subject == "" {
			continue
		}
		if a.audience != "" && !slices.Contains(claims.Audience, a.audience) {
			continue
		}

		return claims, nil
	}

	return nil, errInvalidToken
}
