package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/yasinhessnawi1/chatbridge/internal/config"
	"github.com/yasinhessnawi1/chatbridge/internal/constants"
)

// Session token errors
var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrExpiredToken         = errors.New("token has expired")
	ErrInvalidSigningMethod = errors.New("invalid signing method")
)

// SessionClaims are the claims carried by the session cookie. The session ID
// is the registered jti claim; all session state lives server side.
type SessionClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies session cookies
type JWTService struct {
	Config *config.SessionSettings
	now    func() time.Time
}

// NewJWTService creates a new JWTService instance
func NewJWTService(cfg *config.SessionSettings) *JWTService {
	return &JWTService{
		Config: cfg,
		now:    time.Now,
	}
}

// GenerateSessionToken signs a token referencing sessionID that expires
// after the configured session ttl.
func (s *JWTService) GenerateSessionToken(sessionID string) (string, error) {
	now := s.now()
	claims := SessionClaims{
		TokenType: constants.TokenTypeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.Config.TTL)),
			NotBefore: jwt.NewNumericDate(now),
			ID:        sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.Config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateSessionToken verifies a session token and returns the session ID
func (s *JWTService) ValidateSessionToken(tokenString string) (string, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return []byte(s.Config.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.TokenType != constants.TokenTypeSession || claims.ID == "" {
		return "", ErrInvalidToken
	}

	if s.Config.Issuer != "" && claims.Issuer != s.Config.Issuer {
		return "", ErrInvalidToken
	}

	return claims.ID, nil
}
