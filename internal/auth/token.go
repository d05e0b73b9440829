// token.go - Request-scoped token types for the On-Behalf-Of flow.

package auth

import (
	"time"
)

// expiryBuffer is subtracted from a token's lifetime so a token is treated
// as expired slightly before the provider would reject it.
const expiryBuffer = 60 * time.Second

// InboundToken is the bearer credential presented by the MCP client,
// together with its unverified decoded claims. It lives for exactly one
// request and is never persisted.
type InboundToken struct {
	Raw    string
	Claims Claims
}

// ExchangeRequest describes one On-Behalf-Of exchange: the user assertion,
// the downstream resource identifier, and the delegated scopes the caller
// actually needs.
type ExchangeRequest struct {
	Assertion string
	Resource  string   // e.g. "https://graph.microsoft.com"
	Scopes    []string // bare scope names, e.g. "User.Read"
}

// ExchangedToken is the downstream credential produced by an OBO exchange.
// It is owned by the call that requested it, must never be logged, and
// becomes unusable at expiry.
type ExchangedToken struct {
	AccessToken   string
	ExpiresAt     time.Time
	GrantedScopes []string
	Resource      string
}

// IsExpired reports whether the token is expired, applying the expiry
// buffer so in-flight requests do not race the provider's clock.
func (t *ExchangedToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt.Add(-expiryBuffer))
}

// HasScope reports whether the token was granted the named scope. Granted
// scopes may come back resource-qualified; comparison is on the bare name.
func (t *ExchangedToken) HasScope(scope string) bool {
	for _, s := range t.GrantedScopes {
		if bareScope(s) == bareScope(scope) {
			return true
		}
	}
	return false
}
