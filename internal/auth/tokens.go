package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind selects which secret and lifetime a token is issued or verified
// against. Access and refresh tokens use distinct secrets, so one kind never
// verifies as the other.
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

var (
	// ErrInvalidToken covers bad signatures, garbage input, and wrong-kind
	// tokens. ErrTokenExpired is separate because the client remedy differs:
	// refresh versus re-login.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims carries the user id; nothing else in the token is trusted for
// authorization decisions.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies the access/refresh token pair.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// RefreshTTL reports the refresh token lifetime, used to size the cookie.
func (t *TokenIssuer) RefreshTTL() time.Duration { return t.refreshTTL }

// IssueAccess signs a short-lived access token for the given user.
func (t *TokenIssuer) IssueAccess(userID string) (string, error) {
	return t.sign(userID, t.accessSecret, t.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for the given user. The jti
// claim guarantees consecutive tokens differ even within the same second.
func (t *TokenIssuer) IssueRefresh(userID string) (string, error) {
	return t.sign(userID, t.refreshSecret, t.refreshTTL)
}

// Verify checks signature and expiry for the given kind and returns the
// embedded user id.
func (t *TokenIssuer) Verify(tokenStr string, kind TokenKind) (string, error) {
	secret := t.accessSecret
	if kind == RefreshToken {
		secret = t.refreshSecret
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

func (t *TokenIssuer) sign(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
