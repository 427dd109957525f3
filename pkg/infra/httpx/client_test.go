package httpx_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NeuralTrust/toolhub/pkg/infra/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastHTTPClient_PostJSON(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := httpx.NewFastHTTPClient(httpx.WithUserAgent("toolhub-test"))
	req, err := httpx.NewJSONRequest(context.Background(), http.MethodPost, srv.URL+"/tools/call", map[string]any{"name": "get_weather"})
	require.NoError(t, err)
	req.Header.Set("X-Api-Key", "secret")

	resp, err := client.Do(req)
	require.NoError(t, err)
	body, err := httpx.ReadBody(resp)
	require.NoError(t, err)

	assert.True(t, httpx.IsSuccess(resp.StatusCode))
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, "get_weather", received["name"])
}

func TestFastHTTPClient_DecodesCompressedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, _ = gz.Write([]byte(`{"compressed":true}`))
		_ = gz.Close()
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	req, err := httpx.NewJSONRequest(context.Background(), http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := httpx.NewFastHTTPClient().Do(req)
	require.NoError(t, err)
	body, err := httpx.ReadBody(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"compressed":true}`, string(body))
}

func TestFastHTTPClient_HonorsContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, err := httpx.NewJSONRequest(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	start := time.Now()
	_, err = httpx.NewFastHTTPClient().Do(req)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}

func TestFastHTTPClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req, err := httpx.NewJSONRequest(ctx, http.MethodGet, "http://127.0.0.1:1", nil)
	require.NoError(t, err)

	_, err = httpx.NewFastHTTPClient().Do(req)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFastHTTPClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	req, err := httpx.NewJSONRequest(context.Background(), http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := httpx.NewFastHTTPClient().Do(req)
	require.NoError(t, err)
	body, err := httpx.ReadBody(resp)
	require.NoError(t, err)
	assert.False(t, httpx.IsSuccess(resp.StatusCode))
	assert.Equal(t, "upstream down", string(body))
}
