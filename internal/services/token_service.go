package services

import (
	"fmt"
	"time"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService mints and parses the bearer tokens carried by every
// authenticated request
type TokenService struct {
	secret []byte
}

// NewTokenService creates a token service from the configured JWT secret
func NewTokenService() (*TokenService, error) {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// NewTokenServiceWithSecret creates a token service with an explicit secret
func NewTokenServiceWithSecret(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// ActorClaims are the claims carried by a service token
type ActorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// MintToken issues a signed token for a profile
func (s *TokenService) MintToken(profileUUID, role string, ttl time.Duration) (string, error) {
	claims := ActorClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileUUID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken validates a token string and returns its claims
func (s *TokenService) ParseToken(tokenString string) (*ActorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActorClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(*ActorClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token missing subject")
	}
	return claims, nil
}
