// errors.go - Error taxonomy for identity and token-exchange failures.
//
// Every failure mode of the On-Behalf-Of exchange maps to exactly one of
// these types so callers can tell "you are not authorized" apart from
// "the user must re-consent" and "the identity provider is temporarily
// down". Handlers must never collapse these into a generic failure.
//
// None of these errors ever carry token material or the client secret.

package auth

import (
	"errors"
	"fmt"
)

// ConfigurationError indicates missing or invalid application configuration
// (client credential, tenant, resource identifier). It is fatal: the server
// should refuse to serve OBO-dependent tools until corrected, and it is
// never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// AuthorizationError indicates the inbound token or the requested scopes
// were rejected: expired assertion, revoked session, scope outside policy,
// or consent withheld. Surfaced to the caller as a denial and never retried.
type AuthorizationError struct {
	Code        string // OAuth2 error code, e.g. "invalid_grant"
	Description string // provider description, sanitized of credentials
}

func (e *AuthorizationError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("authorization failed: %s", e.Code)
	}
	return fmt.Sprintf("authorization failed: %s: %s", e.Code, e.Description)
}

// InteractionRequiredError indicates the downstream resource demands user
// interaction (MFA, consent) that this headless server cannot satisfy.
// Surfaced distinctly so the client can redirect the user; never retried.
type InteractionRequiredError struct {
	Code        string
	SubError    string // provider suberror, e.g. "consent_required"
	Description string
	Claims      string // optional claims challenge to replay in a new auth request
}

func (e *InteractionRequiredError) Error() string {
	if e.SubError != "" {
		return fmt.Sprintf("interaction required (%s/%s): %s", e.Code, e.SubError, e.Description)
	}
	return fmt.Sprintf("interaction required (%s): %s", e.Code, e.Description)
}

// TransientProviderError indicates the identity provider failed in a way
// that may succeed on retry (5xx, timeout, connection error). The exchanger
// retries a bounded number of times before surfacing it.
type TransientProviderError struct {
	StatusCode int // last HTTP status, 0 for transport errors
	Attempts   int
	Err        error
}

func (e *TransientProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("identity provider unavailable after %d attempts (status %d)", e.Attempts, e.StatusCode)
	}
	return fmt.Sprintf("identity provider unavailable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TransientProviderError) Unwrap() error { return e.Err }

// NotImplementedError marks a tool that is declared but intentionally not
// built yet. It is a first-class outcome, distinct from a failure.
type NotImplementedError struct {
	Tool string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("tool %s is not implemented", e.Tool)
}

// IsAuthorization reports whether err is a per-request denial.
func IsAuthorization(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}

// IsInteractionRequired reports whether err requires user interaction.
func IsInteractionRequired(err error) bool {
	var target *InteractionRequiredError
	return errors.As(err, &target)
}

// IsTransient reports whether err is a retriable provider failure.
func IsTransient(err error) bool {
	var target *TransientProviderError
	return errors.As(err, &target)
}

// IsConfiguration reports whether err is a fatal configuration problem.
func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}
