package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/HartBrook/promptcraft/internal/config"
	"github.com/HartBrook/promptcraft/internal/llm"
	"github.com/HartBrook/promptcraft/internal/optimize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend replays canned responses in order. Safe for concurrent use.
type fakeBackend struct {
	mu        sync.Mutex
	responses []string
	err       error
	requests  []llm.Request
}

func (f *fakeBackend) Complete(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.requests)
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", nil
}

func (f *fakeBackend) failWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeBackend) recorded() []llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]llm.Request(nil), f.requests...)
}

func newTestServer(t *testing.T, backend llm.Backend) (*httptest.Server, *http.Client) {
	t.Helper()
	s := NewServer(config.Default(), optimize.NewOptimizer(backend), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return ts, &http.Client{Jar: jar}
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) (int, string) {
	t.Helper()
	resp, err := client.PostForm(target, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestIndex_SetsSessionCookie(t *testing.T) {
	ts, client := newTestServer(t, &fakeBackend{})

	resp, err := client.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "Enter Your Prompt")
	assert.Contains(t, string(body), "GPT-3.5 Turbo")

	u, _ := url.Parse(ts.URL)
	cookies := client.Jar.Cookies(u)
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)
	assert.Len(t, cookies[0].Value, 36)
}

func TestIndex_UnknownPathIsNotFound(t *testing.T) {
	ts, client := newTestServer(t, &fakeBackend{})

	resp, err := client.Get(ts.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOptimizeSelectExplain_Flow(t *testing.T) {
	backend := &fakeBackend{responses: []string{"1. Foo prompt\n2. Bar prompt", "Because it is specific."}}
	ts, client := newTestServer(t, backend)

	code, body := postForm(t, client, ts.URL+"/optimize", url.Values{
		"prompt":      {"write a poem"},
		"model":       {"gpt-4"},
		"temperature": {"0.3"},
		"count":       {"2"},
	})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Generated 2 optimized prompts")
	assert.Contains(t, body, "Foo prompt")
	assert.Contains(t, body, optimize.Placeholder)
	assert.Contains(t, body, "Prompt Comparison")

	code, body = postForm(t, client, ts.URL+"/select", url.Values{"selected": {"Bar prompt"}})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Selected Prompt")

	code, body = postForm(t, client, ts.URL+"/explain", url.Values{
		"prompt":   {"write a poem"},
		"model":    {"gpt-4"},
		"selected": {"Bar prompt"},
	})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Because it is specific.")

	reqs := backend.recorded()
	require.Len(t, reqs, 2)
	assert.Equal(t, "gpt-4", reqs[0].Model)
	assert.InDelta(t, 0.3, reqs[0].Temperature, 1e-9)
	assert.Contains(t, reqs[0].Messages[0].Content, "Suggest 2 optimized versions")
	assert.Equal(t, optimize.ExplainTemperature, reqs[1].Temperature)
	assert.Contains(t, reqs[1].Messages[1].Content, "Improved Prompt: Bar prompt")
}

func TestOptimize_EmptyPromptWarns(t *testing.T) {
	backend := &fakeBackend{}
	ts, client := newTestServer(t, backend)

	code, body := postForm(t, client, ts.URL+"/optimize", url.Values{"prompt": {"   "}})

	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Please enter a prompt.")
	assert.Contains(t, body, `class="notice warning"`)
	assert.Empty(t, backend.recorded())
}

func TestOptimize_InvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{name: "unknown model", form: url.Values{"prompt": {"x"}, "model": {"davinci"}}, want: "unknown model"},
		{name: "temperature out of range", form: url.Values{"prompt": {"x"}, "temperature": {"3"}}, want: "out of range"},
		{name: "count not a number", form: url.Values{"prompt": {"x"}, "count": {"many"}}, want: "invalid syntax"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{}
			ts, client := newTestServer(t, backend)

			code, body := postForm(t, client, ts.URL+"/optimize", tt.form)

			assert.Equal(t, http.StatusBadRequest, code)
			assert.Contains(t, body, tt.want)
			assert.Empty(t, backend.recorded())
		})
	}
}

func TestOptimize_BackendError(t *testing.T) {
	ts, client := newTestServer(t, &fakeBackend{err: errors.New("connection refused")})

	code, body := postForm(t, client, ts.URL+"/optimize", url.Values{"prompt": {"write a poem"}})

	assert.Equal(t, http.StatusBadGateway, code)
	assert.Contains(t, body, "Error generating prompts: connection refused")
	assert.Contains(t, body, `class="notice error"`)
}

func TestOptimize_FailureKeepsPreviousSession(t *testing.T) {
	backend := &fakeBackend{responses: []string{"1. Alpha prompt\n2. Beta prompt"}}
	ts, client := newTestServer(t, backend)

	code, _ := postForm(t, client, ts.URL+"/optimize", url.Values{
		"prompt": {"first"}, "model": {"gpt-4"}, "temperature": {"0.7"}, "count": {"2"},
	})
	require.Equal(t, http.StatusOK, code)
	code, _ = postForm(t, client, ts.URL+"/select", url.Values{"selected": {"Beta prompt"}})
	require.Equal(t, http.StatusOK, code)

	backend.failWith(errors.New("connection refused"))
	code, body := postForm(t, client, ts.URL+"/optimize", url.Values{
		"prompt": {"second"}, "model": {"gpt-3.5-turbo"}, "temperature": {"1.9"}, "count": {"9"},
	})
	require.Equal(t, http.StatusBadGateway, code)
	assert.Contains(t, body, "Error generating prompts: connection refused")
	assert.Contains(t, body, ">second</textarea>", "submitted prompt is echoed back")
	assert.Contains(t, body, "Alpha prompt")

	resp, err := client.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	page, _ := io.ReadAll(resp.Body)

	assert.Contains(t, string(page), ">first</textarea>")
	assert.Contains(t, string(page), `value="2"`)
	assert.Contains(t, string(page), `<option value="gpt-4" selected>`)
	assert.Contains(t, string(page), "<h3>Selected Prompt</h3>\n  <p>Beta prompt</p>")
	assert.Contains(t, string(page), "Alpha prompt")
}

func TestOptimize_EmptyPromptKeepsPreviousPrompt(t *testing.T) {
	backend := &fakeBackend{responses: []string{"1. Alpha prompt"}}
	ts, client := newTestServer(t, backend)

	postForm(t, client, ts.URL+"/optimize", url.Values{"prompt": {"first"}})
	postForm(t, client, ts.URL+"/optimize", url.Values{"prompt": {"   "}})

	resp, err := client.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	page, _ := io.ReadAll(resp.Body)

	assert.Contains(t, string(page), ">first</textarea>")
	assert.Len(t, backend.recorded(), 1)
}

func TestIndex_EmptyStateHint(t *testing.T) {
	ts, client := newTestServer(t, &fakeBackend{})

	resp, err := client.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Contains(t, string(body), "Enter a prompt and click Optimize to begin.")
	assert.NotContains(t, string(body), "Prompt Comparison")
}

func TestExplain_WithoutSelectionWarns(t *testing.T) {
	backend := &fakeBackend{responses: []string{"1. Foo prompt"}}
	ts, client := newTestServer(t, backend)

	postForm(t, client, ts.URL+"/optimize", url.Values{"prompt": {"write a poem"}})
	code, body := postForm(t, client, ts.URL+"/explain", url.Values{"selected": {optimize.Placeholder}})

	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Please select a prompt first.")
	assert.Len(t, backend.recorded(), 1)
}

func TestSessions_AreIsolated(t *testing.T) {
	backend := &fakeBackend{responses: []string{"1. Foo prompt"}}
	ts, first := newTestServer(t, backend)

	postForm(t, first, ts.URL+"/optimize", url.Values{"prompt": {"write a poem"}})

	jar, _ := cookiejar.New(nil)
	second := &http.Client{Jar: jar}
	resp, err := second.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.NotContains(t, string(body), "Foo prompt")
}

func TestHealth(t *testing.T) {
	ts, client := newTestServer(t, &fakeBackend{})

	resp, err := client.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var health healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 0, health.Sessions)
}

func TestServe_StopsOnCancel(t *testing.T) {
	s := NewServer(config.Default(), optimize.NewOptimizer(&fakeBackend{}), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestWithAddr(t *testing.T) {
	s := NewServer(config.Default(), optimize.NewOptimizer(&fakeBackend{}), WithAddr("127.0.0.1:9999"))
	assert.Equal(t, "127.0.0.1:9999", s.Addr())

	s = NewServer(config.Default(), optimize.NewOptimizer(&fakeBackend{}))
	assert.Equal(t, ":8501", s.Addr())
}
