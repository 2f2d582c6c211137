package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types embedded in the "typ" claim.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenSubject identifies who a token is issued for.
type TokenSubject struct {
	ID      string
	Email   string
	IsAdmin bool
}

// TokenIssuer signs and verifies HMAC JWTs for access and refresh flows.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenIssuer constructs an issuer using the shared signing secret.
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// AccessToken signs a short-lived token accepted by the JWT middleware.
func (t *TokenIssuer) AccessToken(subject TokenSubject) (string, error) {
	return t.sign(subject, tokenTypeAccess, t.accessTTL)
}

// RefreshToken signs a long-lived token exchangeable for new access tokens.
func (t *TokenIssuer) RefreshToken(subject TokenSubject) (string, error) {
	return t.sign(subject, tokenTypeRefresh, t.refreshTTL)
}

// ParseRefreshToken validates a refresh token and returns its subject.
func (t *TokenIssuer) ParseRefreshToken(value string) (TokenSubject, error) {
	token, err := jwt.Parse(value, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return TokenSubject{}, ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenSubject{}, ErrInvalidRefreshToken
	}
	if typ, _ := claims["typ"].(string); typ != tokenTypeRefresh {
		return TokenSubject{}, ErrInvalidRefreshToken
	}

	subject := TokenSubject{}
	subject.ID, _ = claims["sub"].(string)
	subject.Email, _ = claims["email"].(string)
	subject.IsAdmin, _ = claims["isAdmin"].(bool)
	if subject.ID == "" {
		return TokenSubject{}, ErrInvalidRefreshToken
	}
	return subject, nil
}

func (t *TokenIssuer) sign(subject TokenSubject, typ string, ttl time.Duration) (string, error) {
	issuedAt := t.now()
	claims := jwt.MapClaims{
		"sub":     subject.ID,
		"email":   subject.Email,
		"isAdmin": subject.IsAdmin,
		"typ":     typ,
		"jti":     uuid.NewString(),
		"iat":     issuedAt.Unix(),
		"exp":     issuedAt.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}
