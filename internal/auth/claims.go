// claims.go - Unverified JWT claim decoding for inbound bearer tokens.
//
// Signature, issuer, and audience validation is the job of the identity
// provider and the gateway in front of this server; nothing here verifies
// a signature. The decoded claims are used for cache keys, audience
// sanity checks, logging context, and the get_user_info tool.

package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Claims is the subset of Microsoft Entra ID access-token claims the server
// reads. All fields are optional on the wire.
type Claims struct {
	Subject           string `json:"sub"`
	ObjectID          string `json:"oid"`
	TenantID          string `json:"tid"`
	Audience          string `json:"aud"`
	Expiry            int64  `json:"exp"`
	Scope             string `json:"scp"` // space-separated delegated scopes
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
}

// Scopes returns the delegated scopes granted to the inbound token.
func (c Claims) Scopes() []string {
	return strings.Fields(c.Scope)
}

// ExpiresAt returns the expiry as a time.Time, zero when the claim is absent.
func (c Claims) ExpiresAt() time.Time {
	if c.Expiry == 0 {
		return time.Time{}
	}
	return time.Unix(c.Expiry, 0)
}

// IsExpired reports whether the token's exp claim has passed. Tokens without
// an exp claim are treated as expired.
func (c Claims) IsExpired() bool {
	return c.Expiry == 0 || time.Now().Unix() > c.Expiry
}

// ParseClaims decodes the payload segment of a JWT without verifying its
// signature. Returns an error for anything that is not a three-part JWT
// with a base64url JSON payload.
func ParseClaims(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("token is not a JWT: expected 3 segments, got %d", len(parts))
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("failed to decode token payload: %w", err)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}, fmt.Errorf("failed to parse token claims: %w", err)
	}
	return claims, nil
}

// maskSensitiveData masks token and identifier values for logging.
func maskSensitiveData(value string) string {
	if value == "" {
		return "<empty>"
	}
	if len(value) <= 8 {
		return "***"
	}
	return value[:4] + "***" + value[len(value)-4:]
}
