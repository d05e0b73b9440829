// Copyright (c) 2025 graph-mcp contributors
//
// Licensed under the MIT License. See LICENSE file in the project root for full license information.

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func liveToken(t *testing.T, audience string) string {
	t.Helper()
	return makeTestToken(t, map[string]interface{}{
		"sub": "subject-1",
		"tid": "tenant-1",
		"aud": audience,
		"exp": time.Now().Add(time.Hour).Unix(),
		"scp": "User.Read",
	})
}

func middlewareHandler(policy BearerPolicy) (http.Handler, *bool) {
	reached := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	return BearerTokenMiddleware(policy)(inner), &reached
}

func TestBearerTokenMiddleware_MissingToken(t *testing.T) {
	handler, reached := middlewareHandler(BearerPolicy{})

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.False(t, *reached)
}

func TestBearerTokenMiddleware_MalformedToken(t *testing.T) {
	handler, reached := middlewareHandler(BearerPolicy{})

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	assert.False(t, *reached)
}

func TestBearerTokenMiddleware_ExpiredToken(t *testing.T) {
	handler, reached := middlewareHandler(BearerPolicy{})

	expired := makeTestToken(t, map[string]interface{}{
		"sub": "subject-1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestBearerTokenMiddleware_AudienceMismatch(t *testing.T) {
	handler, reached := middlewareHandler(BearerPolicy{
		Audiences: []string{"api://expected-client"},
	})

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer "+liveToken(t, "api://some-other-app"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestBearerTokenMiddleware_ValidToken(t *testing.T) {
	handler, reached := middlewareHandler(BearerPolicy{
		Audiences: []string{"api://expected-client", "client-id"},
	})

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer "+liveToken(t, "api://expected-client"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}

func TestBearerTokenMiddleware_HealthBypass(t *testing.T) {
	handler, reached := middlewareHandler(BearerPolicy{})

	for _, path := range []string{"/health", "/ping"} {
		*reached = false
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.True(t, *reached, path)
	}
}

func TestHTTPContextFunc_AttachesToken(t *testing.T) {
	raw := liveToken(t, "api://client")
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer "+raw)

	ctx := HTTPContextFunc(context.Background(), req)
	token, ok := InboundTokenFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, raw, token.Raw)
	assert.Equal(t, "subject-1", token.Claims.Subject)
}

func TestHTTPContextFunc_SchemelessHeader(t *testing.T) {
	raw := liveToken(t, "api://client")
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", raw)

	ctx := HTTPContextFunc(context.Background(), req)
	token, ok := InboundTokenFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, raw, token.Raw)
}

func TestHTTPContextFunc_NoToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)

	ctx := HTTPContextFunc(context.Background(), req)
	_, ok := InboundTokenFromContext(ctx)
	assert.False(t, ok)
}

func TestHTTPContextFunc_UndecodableToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	ctx := HTTPContextFunc(context.Background(), req)
	_, ok := InboundTokenFromContext(ctx)
	assert.False(t, ok)
}
