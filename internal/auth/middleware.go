// middleware.go - HTTP bearer-token middleware for the MCP server.
//
// The middleware extracts the inbound bearer credential when the server
// runs over Streamable HTTP, decodes its claims, and performs cheap
// structural checks: the token must be a JWT, must not be expired, and
// must be addressed to this application (audience matches the Application
// ID URI or client ID). Signature and issuer validation is the identity
// provider's job and is deliberately not reimplemented here.
//
// Requests that pass are forwarded with the InboundToken available via
// InboundTokenFromContext, so tool handlers can feed it to the OBO
// exchanger.

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/bcperry/graph-mcp/internal/logging"
)

// BearerPolicy configures the inbound-token checks.
type BearerPolicy struct {
	// Audiences the inbound token may be addressed to, typically the
	// Application ID URI and the bare client ID. Empty disables the check.
	Audiences []string
}

// BearerTokenMiddleware validates the Authorization header against the
// policy and rejects requests that cannot possibly complete an OBO
// exchange. It does not attach the token to the request context itself;
// HTTPContextFunc does that via the MCP server's HTTP context function
// so the token rides the same context the tool handlers receive.
func BearerTokenMiddleware(policy BearerPolicy) func(http.Handler) http.Handler {
	logger := logging.AuthLogger

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" || r.URL.Path == "/ping" {
				next.ServeHTTP(w, r)
				return
			}

			raw := bearerFromHeader(r.Header.Get("Authorization"))
			if raw == "" {
				logger.Warn("Authentication failed: missing bearer token",
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"method", r.Method)
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			claims, err := ParseClaims(raw)
			if err != nil {
				logger.Warn("Authentication failed: malformed token",
					"remote_addr", r.RemoteAddr,
					"error", err)
				w.Header().Set("WWW-Authenticate", "Bearer error=\"invalid_token\"")
				http.Error(w, "Invalid bearer token", http.StatusUnauthorized)
				return
			}

			if claims.IsExpired() {
				logger.Warn("Authentication failed: expired token",
					"remote_addr", r.RemoteAddr,
					"subject", maskSensitiveData(claims.Subject),
					"expired_at", claims.ExpiresAt())
				w.Header().Set("WWW-Authenticate", "Bearer error=\"invalid_token\"")
				http.Error(w, "Token expired", http.StatusUnauthorized)
				return
			}

			if len(policy.Audiences) > 0 && !audienceAllowed(claims.Audience, policy.Audiences) {
				logger.Warn("Authentication failed: audience mismatch",
					"remote_addr", r.RemoteAddr,
					"audience", claims.Audience)
				w.Header().Set("WWW-Authenticate", "Bearer error=\"invalid_token\"")
				http.Error(w, "Token audience mismatch", http.StatusUnauthorized)
				return
			}

			logger.Debug("Inbound bearer token accepted",
				"subject", maskSensitiveData(claims.Subject),
				"tenant", claims.TenantID,
				"scopes", claims.Scopes())

			next.ServeHTTP(w, r)
		})
	}
}

// HTTPContextFunc is the MCP server's HTTP context function: it lifts the
// bearer credential off the request into the handler context so tool
// handlers can feed it to the OBO exchanger. Tokens that fail to decode
// are not attached; the middleware has already rejected those in front of
// the MCP handler.
func HTTPContextFunc(ctx context.Context, r *http.Request) context.Context {
	raw := bearerFromHeader(r.Header.Get("Authorization"))
	if raw == "" {
		return ctx
	}
	claims, err := ParseClaims(raw)
	if err != nil {
		return ctx
	}
	return WithInboundToken(ctx, InboundToken{Raw: raw, Claims: claims})
}

// bearerFromHeader extracts the credential from an Authorization header,
// accepting both "Bearer <token>" and a raw token for MCP clients that
// omit the scheme.
func bearerFromHeader(header string) string {
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

func audienceAllowed(audience string, allowed []string) bool {
	for _, a := range allowed {
		if audience == a {
			return true
		}
	}
	return false
}
