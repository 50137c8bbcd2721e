// Package auth bridges the external identity provider into the API.
//
// OpenShelf never stores credentials. Users authenticate against the identity
// provider (Firebase); this package only verifies the bearer token the
// provider issued and exposes the external UID to handlers. AUTH_MODE=none
// disables verification entirely for local development.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/openshelf/openshelf/internal/config"
)

const (
	// ContextKeyExternalUID holds the identity provider's UID for the request.
	ContextKeyExternalUID = "auth_external_uid"

	// ContextKeyEmail holds the token's email claim, when present.
	ContextKeyEmail = "auth_email"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

// IdentityClaims is the subset of provider token claims the API cares about.
// Subject carries the external UID.
type IdentityClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Middleware gates requests on a verified identity-provider token.
type Middleware struct {
	mode   config.AuthMode
	secret []byte
}

func NewMiddleware(cfg config.Auth) *Middleware {
	return &Middleware{
		mode:   cfg.Mode,
		secret: []byte(cfg.TokenSecret),
	}
}

// Handler returns the gin middleware. In none mode every request passes
// through untouched; in token mode a valid HS256 bearer token is required.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.mode != config.AuthModeToken {
			c.Next()
			return
		}

		claims, err := m.verify(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(ContextKeyExternalUID, claims.Subject)
		if claims.Email != "" {
			c.Set(ContextKeyEmail, claims.Email)
		}
		c.Next()
	}
}

func (m *Middleware) verify(header string) (*IdentityClaims, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, ErrMissingToken
	}

	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GetExternalUID returns the verified external UID for the request, or ""
// when auth is disabled.
func GetExternalUID(c *gin.Context) string {
	if uid, ok := c.Get(ContextKeyExternalUID); ok {
		if s, ok := uid.(string); ok {
			return s
		}
	}
	return ""
}
