// Copyright (c) 2025 graph-mcp contributors
//
// Licensed under the MIT License. See LICENSE file in the project root for full license information.

// obo.go - OAuth2 On-Behalf-Of token exchange against Microsoft Entra ID.
//
// The exchanger converts the inbound, narrowly-scoped user assertion into a
// new access token for a downstream resource (Microsoft Graph) without ever
// exposing the user's original credential to that resource. It posts the
// jwt-bearer grant to the tenant's v2.0 token endpoint and classifies every
// failure into the taxonomy in errors.go.
//
// Scope policy is enforced on both sides of the exchange: requested scopes
// must be within the configured allow-list before any network call, and
// granted scopes coming back must stay within that list. A grant outside
// policy is a hard authorization failure, never a silent downgrade.

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	httputils "github.com/bcperry/graph-mcp/internal/http"
	"github.com/bcperry/graph-mcp/internal/logging"
)

const (
	oboGrantType      = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	requestedTokenUse = "on_behalf_of"

	exchangeTimeout = 15 * time.Second
	maxAttempts     = 3
	backoffBase     = 500 * time.Millisecond
)

// Exchanger performs On-Behalf-Of token exchanges. Implemented by
// OBOExchanger and by the caching wrapper in cache.go.
type Exchanger interface {
	Exchange(ctx context.Context, req ExchangeRequest) (*ExchangedToken, error)
}

// Credentials holds the confidential-client registration used for the
// jwt-bearer grant.
type Credentials struct {
	ClientID     string
	ClientSecret string
	TenantID     string
}

// OBOExchanger exchanges inbound user assertions for downstream tokens at
// a single authority. Safe for concurrent use.
type OBOExchanger struct {
	creds         Credentials
	authorityHost string // e.g. "https://login.microsoftonline.com"
	allowed       map[string]bool
	client        *http.Client
}

// NewOBOExchanger builds an exchanger for the given credentials, authority
// host, and allowed delegated scopes. Absent credentials are a
// configuration error so the server can fail fast at startup rather than
// per request.
func NewOBOExchanger(creds Credentials, authorityHost string, allowedScopes []string) (*OBOExchanger, error) {
	switch {
	case creds.ClientID == "":
		return nil, &ConfigurationError{Reason: "client ID is not configured"}
	case creds.ClientSecret == "":
		return nil, &ConfigurationError{Reason: "client secret is not configured"}
	case creds.TenantID == "":
		return nil, &ConfigurationError{Reason: "tenant ID is not configured"}
	case authorityHost == "":
		return nil, &ConfigurationError{Reason: "authority host is not configured"}
	}

	allowed := make(map[string]bool, len(allowedScopes))
	for _, s := range allowedScopes {
		allowed[bareScope(s)] = true
	}

	logging.AuthLogger.Debug("On-Behalf-Of exchanger initialized",
		"client_id", maskSensitiveData(creds.ClientID),
		"tenant_id", creds.TenantID,
		"authority_host", authorityHost,
		"allowed_scopes", allowedScopes)

	return &OBOExchanger{
		creds:         creds,
		authorityHost: authorityHost,
		allowed:       allowed,
		client:        &http.Client{Timeout: exchangeTimeout},
	}, nil
}

// tokenEndpoint returns the tenant's v2.0 token endpoint on the configured
// authority host.
func (e *OBOExchanger) tokenEndpoint() string {
	return fmt.Sprintf("%s/%s/oauth2/v2.0/token", e.authorityHost, url.PathEscape(e.creds.TenantID))
}

// Exchange performs the On-Behalf-Of exchange for req. Transient provider
// failures are retried with doubling backoff up to maxAttempts; all other
// failures surface immediately with their taxonomy type.
func (e *OBOExchanger) Exchange(ctx context.Context, req ExchangeRequest) (*ExchangedToken, error) {
	if req.Assertion == "" {
		return nil, &AuthorizationError{Code: "invalid_request", Description: "no inbound token to exchange"}
	}
	if req.Resource == "" {
		return nil, &ConfigurationError{Reason: "exchange requested without a target resource identifier"}
	}
	if len(req.Scopes) == 0 {
		return nil, &AuthorizationError{Code: "invalid_request", Description: "no scopes requested"}
	}
	for _, s := range req.Scopes {
		if !e.allowed[bareScope(s)] {
			logging.AuthLogger.Warn("Requested scope outside configured policy",
				"scope", s, "resource", req.Resource)
			return nil, &AuthorizationError{
				Code:        "invalid_scope",
				Description: fmt.Sprintf("scope %s is not in the configured allow-list", s),
			}
		}
	}

	data := url.Values{}
	data.Set("grant_type", oboGrantType)
	data.Set("client_id", e.creds.ClientID)
	data.Set("client_secret", e.creds.ClientSecret)
	data.Set("assertion", req.Assertion)
	data.Set("scope", qualifyScopes(req.Resource, req.Scopes))
	data.Set("requested_token_use", requestedTokenUse)

	logging.AuthLogger.Info("Starting On-Behalf-Of exchange",
		"resource", req.Resource,
		"scopes", req.Scopes)

	var lastStatus int
	var lastErr error
	backoff := backoffBase

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		status, body, err := e.post(ctx, data)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logging.AuthLogger.Warn("Token endpoint request failed",
				"attempt", attempt, "error", err)
			lastStatus, lastErr = 0, err
		} else if status >= 500 {
			logging.AuthLogger.Warn("Token endpoint returned server error",
				"attempt", attempt, "status_code", status)
			lastStatus, lastErr = status, fmt.Errorf("token endpoint returned status %d", status)
		} else {
			return e.parseResponse(status, body, req)
		}

		if attempt < maxAttempts {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}
	}

	return nil, &TransientProviderError{StatusCode: lastStatus, Attempts: maxAttempts, Err: lastErr}
}

// post submits the form-encoded grant and returns the status and body.
func (e *OBOExchanger) post(ctx context.Context, data url.Values) (int, []byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.tokenEndpoint(), strings.NewReader(data.Encode()))
	if err != nil {
		return 0, nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return 0, nil, err
	}

	body, err := httputils.ReadAllAndClose(resp)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

// tokenResponse is the v2.0 token endpoint response shape, success and
// failure fields combined.
type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int64  `json:"expires_in"`
	Scope            string `json:"scope"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	SubError         string `json:"suberror"`
	Claims           string `json:"claims"`
}

// parseResponse maps a non-5xx token endpoint response to an ExchangedToken
// or a classified error.
func (e *OBOExchanger) parseResponse(status int, body []byte, req ExchangeRequest) (*ExchangedToken, error) {
	var res tokenResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("failed to decode token endpoint response (status %d): %w", status, err)
	}

	if status != http.StatusOK || res.Error != "" {
		return nil, classifyProviderError(res)
	}
	if res.AccessToken == "" {
		return nil, fmt.Errorf("token endpoint returned status %d without an access token", status)
	}

	granted := strings.Fields(res.Scope)
	for _, s := range granted {
		if !e.allowed[bareScope(s)] {
			// A token broader than policy must not be handed to any caller.
			logging.AuthLogger.Error("Provider granted scope outside configured policy",
				"scope", s, "resource", req.Resource)
			return nil, &AuthorizationError{
				Code:        "invalid_scope",
				Description: fmt.Sprintf("granted scope %s exceeds configured policy", s),
			}
		}
	}

	logging.AuthLogger.Info("On-Behalf-Of exchange succeeded",
		"resource", req.Resource,
		"granted_scopes", granted,
		"expires_in_seconds", res.ExpiresIn)

	return &ExchangedToken{
		AccessToken:   res.AccessToken,
		ExpiresAt:     time.Now().Add(time.Duration(res.ExpiresIn) * time.Second),
		GrantedScopes: granted,
		Resource:      req.Resource,
	}, nil
}

// classifyProviderError maps an OAuth2 error response to the taxonomy.
func classifyProviderError(res tokenResponse) error {
	switch res.Error {
	case "interaction_required":
		return &InteractionRequiredError{
			Code:        res.Error,
			SubError:    res.SubError,
			Description: res.ErrorDescription,
			Claims:      res.Claims,
		}
	case "invalid_grant":
		// Entra reports consent problems as invalid_grant with a suberror.
		switch res.SubError {
		case "consent_required", "basic_action":
			return &InteractionRequiredError{
				Code:        res.Error,
				SubError:    res.SubError,
				Description: res.ErrorDescription,
				Claims:      res.Claims,
			}
		}
		return &AuthorizationError{Code: res.Error, Description: res.ErrorDescription}
	case "invalid_scope":
		return &AuthorizationError{Code: res.Error, Description: res.ErrorDescription}
	case "invalid_client", "unauthorized_client":
		return &ConfigurationError{
			Reason: fmt.Sprintf("identity provider rejected the client registration (%s): %s", res.Error, res.ErrorDescription),
		}
	default:
		return &AuthorizationError{Code: res.Error, Description: res.ErrorDescription}
	}
}

// qualifyScopes joins scopes into the space-separated form the v2.0
// endpoint expects, prefixing bare scope names with the resource
// identifier (User.Read -> https://graph.microsoft.com/User.Read).
func qualifyScopes(resource string, scopes []string) string {
	qualified := make([]string, 0, len(scopes))
	for _, s := range scopes {
		if strings.Contains(s, "://") {
			qualified = append(qualified, s)
			continue
		}
		qualified = append(qualified, strings.TrimSuffix(resource, "/")+"/"+s)
	}
	return strings.Join(qualified, " ")
}

// bareScope strips a resource qualifier from a scope name.
func bareScope(scope string) string {
	if idx := strings.LastIndex(scope, "/"); idx >= 0 {
		return scope[idx+1:]
	}
	return scope
}
