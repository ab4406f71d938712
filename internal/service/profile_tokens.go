package service

import (
	"fmt"
	"time"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const profileTokenType = "settings_profile"

// ProfileClaims are the claims carried by a settings profile token.
// The subject is the profile id.
type ProfileClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// ProfileTokens issues and verifies HS256 profile tokens.
type ProfileTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewProfileTokens creates a token issuer. A zero ttl means tokens never expire.
func NewProfileTokens(secret string, ttl time.Duration) *ProfileTokens {
	return &ProfileTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for profileID.
func (t *ProfileTokens) Issue(profileID string) (string, error) {
	now := t.now()
	claims := ProfileClaims{
		Type: profileTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  profileID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if t.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign profile token: %w", err)
	}
	return signed, nil
}

// Parse verifies tokenString and returns its profile id.
func (t *ProfileTokens) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ProfileClaims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return "", &domain.ErrUnauthorized{Message: "invalid or expired profile token"}
	}

	claims, ok := token.Claims.(*ProfileClaims)
	if !ok || !token.Valid {
		return "", &domain.ErrUnauthorized{Message: "invalid profile token"}
	}
	if claims.Type != profileTokenType || claims.Subject == "" {
		return "", &domain.ErrUnauthorized{Message: "invalid profile token type"}
	}
	return claims.Subject, nil
}
