// Copyright (c) 2025 graph-mcp contributors
//
// Licensed under the MIT License. See LICENSE file in the project root for full license information.

package graph

import (
	"context"
	"testing"
	"time"

	abstractions "github.com/microsoft/kiota-abstractions-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcperry/graph-mcp/internal/auth"
)

func liveExchangedToken() *auth.ExchangedToken {
	return &auth.ExchangedToken{
		AccessToken:   "downstream-token",
		ExpiresAt:     time.Now().Add(time.Hour),
		GrantedScopes: []string{"User.Read"},
		Resource:      "https://graph.microsoft.com",
	}
}

func publicEnv(t *testing.T) Environment {
	t.Helper()
	env, err := EnvironmentFromName("public")
	require.NoError(t, err)
	return env
}

func TestNewClient_Success(t *testing.T) {
	client, err := NewClient(liveExchangedToken(), publicEnv(t))
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.NotNil(t, client.GraphClient)
	assert.Equal(t, "public", client.Environment.Name)
}

func TestNewClient_RejectsNilToken(t *testing.T) {
	_, err := NewClient(nil, publicEnv(t))
	require.Error(t, err)
	assert.True(t, auth.IsAuthorization(err))
}

func TestNewClient_RejectsEmptyToken(t *testing.T) {
	_, err := NewClient(&auth.ExchangedToken{ExpiresAt: time.Now().Add(time.Hour)}, publicEnv(t))
	require.Error(t, err)
	assert.True(t, auth.IsAuthorization(err))
}

func TestNewClient_RejectsExpiredToken(t *testing.T) {
	expired := &auth.ExchangedToken{
		AccessToken: "stale",
		ExpiresAt:   time.Now().Add(-time.Minute),
	}
	_, err := NewClient(expired, publicEnv(t))
	require.Error(t, err)
	assert.True(t, auth.IsAuthorization(err))
}

func TestNewClient_RejectsMissingEnvironment(t *testing.T) {
	_, err := NewClient(liveExchangedToken(), Environment{})
	require.Error(t, err)
	assert.True(t, auth.IsConfiguration(err))
}

func TestClient_CallContextHasDeadline(t *testing.T) {
	client, err := NewClient(liveExchangedToken(), publicEnv(t))
	require.NoError(t, err)

	ctx, cancel := client.CallContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(CallTimeout), deadline, time.Second)
}

func newRequestInformation() *abstractions.RequestInformation {
	req := abstractions.NewRequestInformation()
	req.Headers = abstractions.NewRequestHeaders()
	return req
}

func TestExchangedTokenProvider_AddsAuthorizationHeader(t *testing.T) {
	provider := &ExchangedTokenProvider{Token: liveExchangedToken()}
	req := newRequestInformation()

	err := provider.AuthenticateRequest(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Contains(t, req.Headers.Get("Authorization"), "Bearer downstream-token")
}

func TestExchangedTokenProvider_RefusesExpiredToken(t *testing.T) {
	provider := &ExchangedTokenProvider{Token: &auth.ExchangedToken{
		AccessToken: "stale",
		ExpiresAt:   time.Now().Add(-time.Minute),
	}}
	req := newRequestInformation()

	err := provider.AuthenticateRequest(context.Background(), req, nil)
	require.Error(t, err)
	assert.True(t, auth.IsAuthorization(err))
	assert.Empty(t, req.Headers.Get("Authorization"))
}

func TestExchangedTokenProvider_RefusesMissingToken(t *testing.T) {
	provider := &ExchangedTokenProvider{}
	req := newRequestInformation()

	err := provider.AuthenticateRequest(context.Background(), req, nil)
	require.Error(t, err)
	assert.True(t, auth.IsAuthorization(err))
}

func TestExchangedTokenProvider_NilRequest(t *testing.T) {
	provider := &ExchangedTokenProvider{Token: liveExchangedToken()}
	assert.Error(t, provider.AuthenticateRequest(context.Background(), nil, nil))
}
