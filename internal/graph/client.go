// Copyright (c) 2025 graph-mcp contributors
//
// Licensed under the MIT License. See LICENSE file in the project root for full license information.

// client.go - Microsoft Graph client factory bound to an exchanged token.
//
// A Client is a capability handle: it wraps the Graph SDK with an
// authentication provider bound to exactly one ExchangedToken and the
// resolved cloud environment. The handle is request-scoped — it is built
// after a successful On-Behalf-Of exchange, used for one or a few Graph
// calls, and discarded. Once the token expires the provider refuses to
// authenticate further requests.
//
// Usage:
//   client, err := graph.NewClient(token, env)
//   if err != nil { ... }
//   profile, err := users.NewProfileClient(client).GetMe(ctx)

package graph

import (
	"context"
	"fmt"
	"time"

	abstractions "github.com/microsoft/kiota-abstractions-go"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	msgraphsdkcore "github.com/microsoftgraph/msgraph-sdk-go-core"

	"github.com/bcperry/graph-mcp/internal/auth"
	"github.com/bcperry/graph-mcp/internal/logging"
)

// CallTimeout bounds every Graph call issued through a Client. Exceeding
// it is an UnavailableError, not an indefinite hang.
const CallTimeout = 30 * time.Second

// Client handles Microsoft Graph API requests on behalf of one exchanged
// token. Domain packages (users, mail) embed it for their operations.
type Client struct {
	GraphClient *msgraphsdk.GraphServiceClient
	Token       *auth.ExchangedToken
	Environment Environment
}

// NewClient creates a Graph client bound to token and env using the SDK's
// adapter pattern. The token must be live; a nil or expired token cannot
// produce a usable handle.
func NewClient(token *auth.ExchangedToken, env Environment) (*Client, error) {
	if token == nil || token.AccessToken == "" {
		return nil, &auth.AuthorizationError{Code: "invalid_token", Description: "no exchanged token available"}
	}
	if token.IsExpired() {
		return nil, &auth.AuthorizationError{Code: "invalid_token", Description: "exchanged token is expired"}
	}
	if env.GraphHost == "" {
		return nil, &auth.ConfigurationError{Reason: "graph client requested without a cloud environment"}
	}

	provider := &ExchangedTokenProvider{Token: token}
	adapter, err := msgraphsdkcore.NewGraphRequestAdapterBase(provider, msgraphsdkcore.GraphClientOptions{
		GraphServiceVersion: "v1.0",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Graph request adapter: %w", err)
	}
	adapter.SetBaseUrl(env.GraphBaseURL())

	logging.GraphLogger.Debug("Graph client created",
		"cloud", env.Name,
		"base_url", env.GraphBaseURL(),
		"granted_scopes", token.GrantedScopes)

	return &Client{
		GraphClient: msgraphsdk.NewGraphServiceClient(adapter),
		Token:       token,
		Environment: env,
	}, nil
}

// CallContext derives the bounded context every Graph call runs under.
func (c *Client) CallContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, CallTimeout)
}

// ExchangedTokenProvider implements the kiota AuthenticationProvider
// interface for a token produced by the OBO exchanger. Unlike a static
// provider it enforces the token's lifetime: an expired token invalidates
// the handle instead of sending a doomed request.
type ExchangedTokenProvider struct {
	Token *auth.ExchangedToken
}

// AuthenticateRequest adds the Authorization header to the request.
func (p *ExchangedTokenProvider) AuthenticateRequest(ctx context.Context, request *abstractions.RequestInformation, additionalAuthenticationContext map[string]interface{}) error {
	if request == nil {
		return fmt.Errorf("request cannot be nil")
	}
	if request.Headers == nil {
		return fmt.Errorf("request headers cannot be nil")
	}
	if p.Token == nil || p.Token.AccessToken == "" {
		return &auth.AuthorizationError{Code: "invalid_token", Description: "no exchanged token available"}
	}
	if p.Token.IsExpired() {
		return &auth.AuthorizationError{Code: "invalid_token", Description: "exchanged token is expired"}
	}

	request.Headers.Add("Authorization", "Bearer "+p.Token.AccessToken)
	return nil
}
