// Common helpers for E2E tests: request builders, response decoding and
// mode guards.
package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// requireEmbedded skips tests that depend on the stub upstream fixtures.
func requireEmbedded(t *testing.T) {
	t.Helper()
	if env == nil || env.fake == nil {
		t.Skip("needs embedded mode")
	}
}

func do(t *testing.T, method, path string, body io.Reader, hdr map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, env.baseURL+path, body)
	require.NoError(t, err)
	req.Header.Set("X-E2E-Test", "true")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	resp, err := env.httpClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	t.Logf("%s %s -> %d", method, path, resp.StatusCode)
	return resp
}

func doGet(t *testing.T, path string) *http.Response {
	t.Helper()
	return do(t, http.MethodGet, path, nil, map[string]string{"Accept": "application/json"})
}

func doPost(t *testing.T, path string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	return do(t, http.MethodPost, path, r, map[string]string{"Content-Type": "application/json"})
}

// decode reads a JSON body into a new T after checking the status.
func decode[T any](t *testing.T, resp *http.Response, wantStatus int) T {
	t.Helper()
	var v T
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, wantStatus, resp.StatusCode, "body: %s", raw)
	require.NoError(t, json.Unmarshal(raw, &v), "body: %s", raw)
	return v
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

//Personal.AI order the ending
