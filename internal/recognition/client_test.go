package recognition

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certapi/internal/config"
)

func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cert.jpg")
	require.NoError(t, os.WriteFile(path, []byte("fake-jpeg-bytes"), 0o644))
	return path
}

func newTestClient(t *testing.T, apiURL string) *Client {
	t.Helper()
	c, err := NewClient(config.RecognitionConfig{
		APIKey:     "test-key",
		APIURL:     apiURL,
		Model:      "qwen-vl-plus",
		TimeoutSec: 5,
	}, nil)
	require.NoError(t, err)
	return c
}

func modelReply(content string) string {
	b, _ := json.Marshal(map[string]any{
		"output": map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		},
	})
	return string(b)
}

func TestClient_RecognizeSuccess(t *testing.T) {
	img := writeTestImage(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req apiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "qwen-vl-plus", req.Model)
		require.Len(t, req.Input.Messages, 1)
		assert.Equal(t, "user", req.Input.Messages[0].Role)
		require.Len(t, req.Input.Messages[0].Content, 2)
		assert.Contains(t, req.Input.Messages[0].Content[0].Image, "data:image/jpeg;base64,")
		assert.Contains(t, req.Input.Messages[0].Content[1].Text, "certificate_name")

		w.Write([]byte(modelReply("```json\n" + validJSON + "\n```")))
	}))
	defer srv.Close()

	env := newTestClient(t, srv.URL).Recognize(context.Background(), img)

	require.True(t, env.Success, env.Error)
	require.NotNil(t, env.Data)
	assert.Equal(t, "Math Olympiad", env.Data.CertificateName)
	assert.Equal(t, "qwen-vl-plus", env.Data.ModelUsed)
	assert.Empty(t, env.Error)
	assert.NotEmpty(t, env.RawResponse)
}

func TestClient_RecognizeFailures(t *testing.T) {
	img := writeTestImage(t)

	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantErrPart string
	}{
		{
			"non-2xx response",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			"API request failed: status 502",
		},
		{
			"missing response shape",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"output":{}}`))
			},
			"unexpected response format",
		},
		{
			"non-JSON body",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>gateway</html>"))
			},
			"unexpected response format",
		},
		{
			"model reply is not JSON",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(modelReply("sorry, can't read this")))
			},
			"failed to parse JSON response",
		},
		{
			"model reply misses mandatory fields",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(modelReply(`{"certificate_name":"A"}`)))
			},
			"missing required fields: recipient_name, issuing_organization",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			env := newTestClient(t, srv.URL).Recognize(context.Background(), img)

			assert.False(t, env.Success)
			assert.Nil(t, env.Data, "no partial record on failure")
			assert.Contains(t, env.Error, tt.wantErrPart)
		})
	}
}

func TestClient_RecognizeMissingAPIKey(t *testing.T) {
	img := writeTestImage(t)

	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c, err := NewClient(config.RecognitionConfig{APIURL: srv.URL, Model: "m"}, nil)
	require.NoError(t, err)

	env := c.Recognize(context.Background(), img)

	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "not configured")
	assert.False(t, called, "no network call without an API key")
}

func TestClient_RecognizeTransportError(t *testing.T) {
	img := writeTestImage(t)

	// A closed server produces a connection failure.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	env := newTestClient(t, srv.URL).Recognize(context.Background(), img)

	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "API request failed")
}

func TestClient_RecognizeUnreadableImage(t *testing.T) {
	env := newTestClient(t, "http://unused.invalid").Recognize(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"))

	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "failed to read image")
}

func TestClient_RecognizeBatch(t *testing.T) {
	good := writeTestImage(t)
	missing := filepath.Join(t.TempDir(), "gone.jpg")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(modelReply(validJSON)))
	}))
	defer srv.Close()

	results := newTestClient(t, srv.URL).RecognizeBatch(context.Background(), []string{missing, good, missing})

	require.Len(t, results, 3, "one envelope per input, in order")
	assert.False(t, results[0].Success)
	assert.True(t, results[1].Success, "a failing item does not abort the batch")
	assert.False(t, results[2].Success)
}
