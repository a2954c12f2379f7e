package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Maker issues and verifies the access/refresh token pair.
type Maker interface {
	// GenerateAccessToken returns a short-lived token for the given user id.
	GenerateAccessToken(userID string) (string, error)
	// GenerateRefreshToken returns a long-lived token for the given user id.
	GenerateRefreshToken(userID string) (string, error)
	// ParseToken verifies signature and expiry and returns the claims.
	ParseToken(tokenStr string) (*Claims, error)
}

// MakerImpl signs tokens with a configured secret key. The key comes from
// configuration and survives restarts, so issued tokens stay valid across
// deploys; rotating the key is the explicit way to invalidate all sessions.
type MakerImpl struct {
	secretKey  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewMaker creates a MakerImpl with the given secret and TTLs.
func NewMaker(secretKey string, accessTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateAccessToken issues a token with token_use=access and the access TTL.
func (m *MakerImpl) GenerateAccessToken(userID string) (string, error) {
	return m.generate(userID, UseAccess, m.accessTTL)
}

// GenerateRefreshToken issues a token with token_use=refresh and the refresh TTL.
func (m *MakerImpl) GenerateRefreshToken(userID string) (string, error) {
	return m.generate(userID, UseRefresh, m.refreshTTL)
}

func (m *MakerImpl) generate(userID, use string, ttl time.Duration) (string, error) {
	const op = "jwt.generate"
	claims := Claims{
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken checks the signature and validity window and returns the claims.
func (m *MakerImpl) ParseToken(tokenStr string) (*Claims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
