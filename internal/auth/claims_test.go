// Copyright (c) 2025 graph-mcp contributors
//
// Licensed under the MIT License. See LICENSE file in the project root for full license information.

package auth

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeTestToken builds an unsigned JWT with the given claims. Shared by the
// claims, cache, and middleware tests.
func makeTestToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payloadJSON, err := json.Marshal(claims)
	require.NoError(t, err)
	payload := base64.RawURLEncoding.EncodeToString(payloadJSON)

	return header + "." + payload + ".signature"
}

func TestParseClaims_ValidToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	token := makeTestToken(t, map[string]interface{}{
		"sub":                "subject-123",
		"oid":                "object-456",
		"tid":                "tenant-789",
		"aud":                "api://client-id",
		"exp":                exp,
		"scp":                "User.Read Mail.Read",
		"name":               "Test User",
		"preferred_username": "test@example.com",
	})

	claims, err := ParseClaims(token)
	require.NoError(t, err)

	assert.Equal(t, "subject-123", claims.Subject)
	assert.Equal(t, "object-456", claims.ObjectID)
	assert.Equal(t, "tenant-789", claims.TenantID)
	assert.Equal(t, "api://client-id", claims.Audience)
	assert.Equal(t, exp, claims.Expiry)
	assert.Equal(t, "Test User", claims.Name)
	assert.Equal(t, "test@example.com", claims.PreferredUsername)
	assert.Equal(t, []string{"User.Read", "Mail.Read"}, claims.Scopes())
	assert.False(t, claims.IsExpired())
}

func TestParseClaims_NotAJWT(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"opaque", "not-a-jwt"},
		{"two segments", "aaaa.bbbb"},
		{"four segments", "a.b.c.d"},
		{"bad base64 payload", "header.!!!not-base64!!!.sig"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseClaims(tc.token)
			assert.Error(t, err)
		})
	}
}

func TestParseClaims_NonJSONPayload(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte("plain text"))
	_, err := ParseClaims("header." + payload + ".sig")
	assert.Error(t, err)
}

func TestClaims_IsExpired(t *testing.T) {
	expired := Claims{Expiry: time.Now().Add(-time.Minute).Unix()}
	assert.True(t, expired.IsExpired())

	live := Claims{Expiry: time.Now().Add(time.Hour).Unix()}
	assert.False(t, live.IsExpired())

	// Missing exp claim counts as expired.
	assert.True(t, Claims{}.IsExpired())
	assert.True(t, Claims{}.ExpiresAt().IsZero())
}

func TestMaskSensitiveData(t *testing.T) {
	assert.Equal(t, "<empty>", maskSensitiveData(""))
	assert.Equal(t, "***", maskSensitiveData("short"))
	assert.Equal(t, "abcd***wxyz", maskSensitiveData("abcdefghijklmnopqrstuvwxyz"))
}
