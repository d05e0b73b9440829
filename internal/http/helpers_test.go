// Copyright (c) 2025 graph-mcp contributors
//
// Licensed under the MIT License. See LICENSE file in the project root for full license information.

package http

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// closeTrackingBody records whether Close was called.
type closeTrackingBody struct {
	io.Reader
	closed bool
}

func (b *closeTrackingBody) Close() error {
	b.closed = true
	return nil
}

func testResponse(content string) (*http.Response, *closeTrackingBody) {
	body := &closeTrackingBody{Reader: strings.NewReader(content)}
	return &http.Response{StatusCode: http.StatusOK, Body: body}, body
}

func TestWithAutoCleanup_ClosesBody(t *testing.T) {
	resp, body := testResponse("payload")

	err := WithAutoCleanup(resp, func(resp *http.Response) error {
		return nil
	})
	require.NoError(t, err)
	assert.True(t, body.closed)
}

func TestWithAutoCleanup_ClosesBodyOnError(t *testing.T) {
	resp, body := testResponse("payload")
	wantErr := errors.New("handler failed")

	err := WithAutoCleanup(resp, func(resp *http.Response) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.True(t, body.closed)
}

func TestWithAutoCleanup_NilResponse(t *testing.T) {
	err := WithAutoCleanup(nil, func(resp *http.Response) error {
		t.Fatal("fn must not run for a nil response")
		return nil
	})
	assert.Error(t, err)
}

func TestReadAllAndClose(t *testing.T) {
	resp, body := testResponse("token response body")

	data, err := ReadAllAndClose(resp)
	require.NoError(t, err)
	assert.Equal(t, "token response body", string(data))
	assert.True(t, body.closed)
}

func TestReadAllAndClose_ReadFailure(t *testing.T) {
	body := &closeTrackingBody{Reader: iotest.ErrReader(errors.New("connection reset"))}
	resp := &http.Response{StatusCode: http.StatusOK, Body: body}

	_, err := ReadAllAndClose(resp)
	assert.Error(t, err)
	assert.True(t, body.closed, "body must be closed even when reading fails")
}
