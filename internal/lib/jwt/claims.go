// Package jwt issues and parses the HS256 tokens used by the HTTP layer.
//
// Tokens deliberately carry only the subject user id (plus standard expiry
// claims and a token_use marker): role and disabled status are re-fetched
// from storage on every authenticated request, so a profile change takes
// effect without waiting for the token to expire.
package jwt

import "github.com/golang-jwt/jwt/v5"

const (
	// UseAccess marks short-lived tokens accepted by the auth middleware.
	UseAccess = "access"
	// UseRefresh marks long-lived tokens accepted only by the refresh endpoint.
	UseRefresh = "refresh"
)

// Claims is the full claim set of an issued token. Subject holds the user id.
type Claims struct {
	TokenUse             string `json:"token_use"`
	jwt.RegisteredClaims        // ExpiresAt, IssuedAt, Subject, ID
}
