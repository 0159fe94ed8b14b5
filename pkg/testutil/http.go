// Package testutil holds helpers shared by handler, store and end-to-end tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MessagesPath is the turn endpoint.
const MessagesPath = "/api/messages"

// NewJSONRequest marshals body and builds a request declared as JSON.
// A nil body sends no payload.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err, "marshal request body")
	}
	return NewRawRequest(t, method, path, "application/json", string(payload))
}

// NewRawRequest builds a request with a literal body and content type.
// An empty contentType leaves the header unset.
func NewRawRequest(t *testing.T, method, path, contentType, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

// NewRequest builds a request without a body.
func NewRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

// DoRequest serves req on handler and returns the recorder.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// PostMessage sends one chat turn to the turn endpoint.
func PostMessage(t *testing.T, handler http.Handler, conversationID, userID, text string) *httptest.ResponseRecorder {
	t.Helper()
	return DoRequest(handler, NewJSONRequest(t, http.MethodPost, MessagesPath, map[string]string{
		"conversation_id": conversationID,
		"user_id":         userID,
		"text":            text,
	}))
}

// DecodeJSON decodes the recorded body into T.
func DecodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "decode response body: %s", rr.Body.String())
	return out
}

// AssertStatus checks the response status.
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, rr.Code, "unexpected status, body: %s", rr.Body.String())
}

// AssertMessages checks a 200 turn response carries exactly want, in order.
func AssertMessages(t *testing.T, rr *httptest.ResponseRecorder, want ...string) {
	t.Helper()
	AssertStatus(t, rr, http.StatusOK)
	body := DecodeJSON[struct {
		Messages []string `json:"messages"`
	}](t, rr)
	if want == nil {
		want = []string{}
	}
	assert.Equal(t, want, body.Messages)
}

// AssertError checks the status and the code of the JSON error envelope.
func AssertError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	AssertStatus(t, rr, status)
	body := DecodeJSON[map[string]string](t, rr)
	assert.Equal(t, code, body["error"], "unexpected error code")
}

// AssertJSONField checks one top-level field of a JSON object body.
func AssertJSONField(t *testing.T, rr *httptest.ResponseRecorder, key string, expected any) {
	t.Helper()
	body := DecodeJSON[map[string]any](t, rr)
	assert.Equal(t, expected, body[key], "unexpected value for %q", key)
}
