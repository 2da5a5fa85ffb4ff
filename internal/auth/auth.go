// Package auth guards the dashboard API with the configured static
// credentials. A successful login is exchanged for a signed token; the
// middleware validates it per request and attaches the principal to the
// request context. No session state lives in the process.
package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const principalKey = "auth.principal"

type Service struct {
	logger   *logrus.Logger
	username string
	password string
	secret   []byte
	tokenTTL time.Duration
}

func NewService(username, password, secret string, ttlMinutes int, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		logger:   logger,
		username: username,
		password: password,
		secret:   []byte(secret),
		tokenTTL: time.Duration(ttlMinutes) * time.Minute,
	}
}

// Authenticate checks the static credentials and returns a signed token
// on success.
func (s *Service) Authenticate(username, password string) (string, error) {
	if username != s.username || password != s.password {
		return "", fmt.Errorf("invalid credentials")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses a token and returns its subject.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid token")
	}
	return claims.Subject, nil
}

// RequireAuth rejects requests without a valid bearer token and stores
// the authenticated principal on the context.
func (s *Service) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		principal, err := s.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			s.logger.WithError(err).Debug("Rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// Principal returns the authenticated user for the request, if any.
func Principal(c *gin.Context) string {
	return c.GetString(principalKey)
}
