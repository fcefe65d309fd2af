package internal

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// apiCall is a request seen by the fake Sentinel server.
type apiCall struct {
	Path string
	Body map[string]any
}

// fakeSentinel serves canned envelopes per endpoint path and records every
// request body.
type fakeSentinel struct {
	mu       sync.Mutex
	calls    []apiCall
	handlers map[string]func(body map[string]any) string
}

func (f *fakeSentinel) handle(path string, fn func(body map[string]any) string) {
	f.handlers["/api/v1/"+path] = fn
}

func (f *fakeSentinel) reply(path, envelope string) {
	f.handle(path, func(map[string]any) string { return envelope })
}

func (f *fakeSentinel) Calls(path string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []apiCall
	for _, c := range f.calls {
		if c.Path == "/api/v1/"+path {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeSentinel) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSentinel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{Path: r.URL.Path, Body: body})
	fn, ok := f.handlers[r.URL.Path]
	f.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, fn(body))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestAPI returns a Client backed by a fake Sentinel server.
func newTestAPI(t *testing.T) (*fakeSentinel, *Client) {
	t.Helper()

	fake := &fakeSentinel{handlers: map[string]func(map[string]any) string{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	return fake, NewClientWithHTTPClient(server.Client(), server.URL+"/api/v1/", discardLogger())
}

func TestPost_Success(t *testing.T) {
	fake, api := newTestAPI(t)
	fake.reply("device", `{"result":{"success":true,"code":0},"response":{"device":[]}}`)

	res, err := api.Post(context.Background(), EndpointDevice, map[string]any{"request_type": "read"})

	require.NoError(t, err)
	assert.True(t, res.Result.Success)
	assert.JSONEq(t, `{"device":[]}`, string(res.Response))

	calls := fake.Calls("device")
	require.Len(t, calls, 1)
	assert.Equal(t, "read", calls[0].Body["request_type"])
}

func TestPost_Headers(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		assert.Equal(t, http.MethodPost, r.Method)
		io.WriteString(w, `{"result":{"success":true,"code":0}}`)
	}))
	t.Cleanup(server.Close)

	api := NewClientWithHTTPClient(server.Client(), server.URL, discardLogger())
	_, err := api.Post(context.Background(), EndpointLogin, struct{}{})

	require.NoError(t, err)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, UserAgent(), got.Get("User-Agent"))
	assert.Len(t, got.Get("X-Request-Id"), 36)
}

func TestPost_SessionExpired(t *testing.T) {
	fake, api := newTestAPI(t)
	fake.reply("device", `{"result":{"success":false,"code":2,"message":"session expired"}}`)

	res, err := api.Post(context.Background(), EndpointDevice, map[string]any{})

	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.NotErrorIs(t, err, ErrRequestRejected)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 2, apiErr.Result.Code)
}

func TestPost_Rejected(t *testing.T) {
	fake, api := newTestAPI(t)
	fake.reply("device", `{"result":{"success":false,"code":5,"message":"invalid device"}}`)

	_, err := api.Post(context.Background(), EndpointDevice, map[string]any{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestRejected)
	assert.NotErrorIs(t, err, ErrSessionExpired)
	assert.Contains(t, err.Error(), "invalid device", "the full result is kept for diagnostics")
}

func TestPost_NotJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>bad gateway</html>")
	}))
	t.Cleanup(server.Close)

	api := NewClientWithHTTPClient(server.Client(), server.URL, discardLogger())
	_, err := api.Post(context.Background(), EndpointDevice, map[string]any{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "HTTP 502")

	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, EndpointDevice, tErr.Endpoint)
}

func TestPost_MissingResult(t *testing.T) {
	fake, api := newTestAPI(t)
	fake.reply("device", `{"response":{}}`)

	_, err := api.Post(context.Background(), EndpointDevice, map[string]any{})

	assert.ErrorIs(t, err, ErrTransport)
}

func TestPost_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	api := NewClientWithHTTPClient(http.DefaultClient, url, discardLogger())
	_, err := api.Post(context.Background(), EndpointDevice, map[string]any{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestPost_UnencodablePayload(t *testing.T) {
	_, api := newTestAPI(t)

	_, err := api.Post(context.Background(), EndpointDevice, map[string]any{"bad": make(chan int)})

	assert.ErrorIs(t, err, ErrTransport)
}

func TestNewClient_Defaults(t *testing.T) {
	api := NewClient("", 0, nil)

	assert.Equal(t, DefaultBaseURL, api.baseURL)
	hc, ok := api.http.(*http.Client)
	require.True(t, ok)
	assert.Equal(t, DefaultRequestTimeout, hc.Timeout)
	assert.True(t, strings.HasPrefix(UserAgent(), "sentinelctl/"))
}
