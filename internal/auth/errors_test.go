// Copyright (c) 2025 graph-mcp contributors
//
// Licensed under the MIT License. See LICENSE file in the project root for full license information.

package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorPredicates(t *testing.T) {
	authErr := &AuthorizationError{Code: "invalid_grant", Description: "denied"}
	interactionErr := &InteractionRequiredError{Code: "interaction_required"}
	transientErr := &TransientProviderError{StatusCode: 503, Attempts: 3}
	configErr := &ConfigurationError{Reason: "client secret is not configured"}

	assert.True(t, IsAuthorization(authErr))
	assert.True(t, IsInteractionRequired(interactionErr))
	assert.True(t, IsTransient(transientErr))
	assert.True(t, IsConfiguration(configErr))

	// The categories are disjoint.
	assert.False(t, IsAuthorization(interactionErr))
	assert.False(t, IsInteractionRequired(authErr))
	assert.False(t, IsTransient(authErr))
	assert.False(t, IsConfiguration(authErr))

	// Predicates see through wrapping.
	wrapped := fmt.Errorf("exchange failed: %w", authErr)
	assert.True(t, IsAuthorization(wrapped))
}

func TestTransientProviderError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &TransientProviderError{Attempts: 3, Err: cause}
	assert.ErrorIs(t, err, cause)
}
