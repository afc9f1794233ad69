package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ziadkadry99/partscope/internal/catalog"
	"github.com/ziadkadry99/partscope/internal/config"
	"github.com/ziadkadry99/partscope/internal/notify"
)

const testKey = "sk-or-v1-0123456789abcdefwxyz"

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
			Auth:   r.Header.Get("Authorization"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"detail":"not found"}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func testServices(t *testing.T, ts *testServer) *services {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Backend.URL = ts.server.URL
	cfg.Chat.URL = ts.server.URL + "/chat"
	cfg.Chat.KeyInfoURL = ts.server.URL + "/auth/key"

	svc, err := newServices(cfg)
	if err != nil {
		t.Fatalf("newServices: %v", err)
	}
	t.Cleanup(func() { svc.db.Close() })
	return svc
}

var ctx = context.Background()

func TestSearchUsesStoredKey(t *testing.T) {
	t.Setenv(config.APIKeyEnvVar, "")
	ts := newTestServer(t, map[string]string{
		"POST /api/ai-query": `{"success":true,"result":{"components":[{"id":"KT315","name":"КТ315Б","type":"transistor"}],"count":1}}`,
	})
	svc := testServices(t, ts)

	if !svc.keys().Save(ctx, testKey, notify.Discard) {
		t.Fatal("Save returned false")
	}

	res := svc.dispatcher().Dispatch(ctx, "КТ315 характеристики", notify.Discard)
	if !res.Success || res.Mode != catalog.ModeBrain {
		t.Fatalf("result = %+v", res)
	}
	if len(ts.requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(ts.requests))
	}
	if !strings.Contains(ts.requests[0].Body, testKey) {
		t.Errorf("body = %s, want stored key forwarded", ts.requests[0].Body)
	}

	entries := svc.history().List(ctx, 0)
	if len(entries) != 1 || entries[0].Query != "КТ315 характеристики" || entries[0].ResultCount != 1 {
		t.Errorf("history = %+v", entries)
	}
}

func TestChatPrefersEnvironmentKey(t *testing.T) {
	envKey := "sk-or-v1-fromenvironment000000"
	t.Setenv(config.APIKeyEnvVar, envKey)
	ts := newTestServer(t, map[string]string{
		"POST /chat": `{"id":"1","model":"deepseek/deepseek-chat","choices":[{"index":0,"message":{"role":"assistant","content":"Транзистор **усиливает** ток."},"finish_reason":"stop"}]}`,
	})
	svc := testServices(t, ts)
	svc.keys().Save(ctx, testKey, notify.Discard)

	res := svc.dispatcher().Dispatch(ctx, "Объясни принцип работы биполярного транзистора", notify.Discard)
	if !res.Success || res.Mode != catalog.ModeOpenRouter {
		t.Fatalf("result = %+v", res)
	}
	if got := ts.requests[0].Auth; got != "Bearer "+envKey {
		t.Errorf("Authorization = %q, want environment key", got)
	}
	if !strings.Contains(svc.renderer.Text(res), "усиливает") {
		t.Errorf("text = %q", svc.renderer.Text(res))
	}
}

func TestChatWithoutKey(t *testing.T) {
	t.Setenv(config.APIKeyEnvVar, "")
	ts := newTestServer(t, nil)
	svc := testServices(t, ts)

	res := svc.dispatcher().Dispatch(ctx, "Объясни принцип работы биполярного транзистора", notify.Discard)
	if res.Success || res.Mode != catalog.ModeNoKey {
		t.Fatalf("result = %+v, want no_key", res)
	}
	if len(ts.requests) != 0 {
		t.Errorf("requests = %d, want none", len(ts.requests))
	}
}

func TestCLISessionIsolatedFromBrowsers(t *testing.T) {
	t.Setenv(config.APIKeyEnvVar, "")
	ts := newTestServer(t, nil)
	svc := testServices(t, ts)

	svc.keys().Save(ctx, testKey, notify.Discard)

	if _, ok, _ := svc.store.Get(ctx, "openrouter_api_key"); ok {
		t.Error("CLI key should not be stored unscoped")
	}
	if _, ok, _ := svc.store.Get(ctx, "session/cli/openrouter_api_key"); !ok {
		t.Error("CLI key should live under the cli session")
	}
}

func TestAskFailureReturnsError(t *testing.T) {
	t.Setenv(config.APIKeyEnvVar, "")
	ts := newTestServer(t, nil)

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Backend.URL = ts.server.URL
	path := filepath.Join(t.TempDir(), "partscope.yml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	oldCfg := cfgFile
	cfgFile = path
	t.Cleanup(func() {
		cfgFile = oldCfg
		askCmd.Flags().Set("component", "")
		askCmd.Flags().Set("quiet", "false")
	})
	askCmd.Flags().Set("component", "KT315")
	askCmd.Flags().Set("quiet", "true")

	err := runAsk(askCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "query failed") {
		t.Fatalf("runAsk error = %v, want query failed", err)
	}
	if len(ts.requests) != 1 || !strings.Contains(ts.requests[0].Path, "/KT315/characteristics") {
		t.Errorf("requests = %+v", ts.requests)
	}
}

func TestCommandContextDefault(t *testing.T) {
	c, cancel := commandContext(0)
	defer cancel()

	deadline, ok := c.Deadline()
	if !ok {
		t.Fatal("context has no deadline")
	}
	if left := time.Until(deadline); left < 29*time.Second || left > 30*time.Second {
		t.Errorf("deadline in %s, want about 30s", left)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"server", "ask", "key", "history", "init", "mcp", "version"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}
