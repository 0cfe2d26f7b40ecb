package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"turkgpt/internal/bootstrap"
	"turkgpt/internal/config"
	"turkgpt/internal/dto"
	"turkgpt/internal/websocket"
	"turkgpt/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			LogFilePath:        "logs/app.log",
			AuditLogFilePath:   "logs/chat_audit.log",
			WSLogFilePath:      "logs/websocket.log",
			CorsAllowedOrigins: "*",
		},
		Database: config.DatabaseConfig{Backend: "memory"},
		Ai:       config.AIConfig{LLMProvider: "mock", LLMTimeout: time.Second},
	}
}

func post[T any](t *testing.T, srv *Server, path, body string) T {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.GetApp().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var env struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	return env.Data
}

func TestServer_ChatEventsReachSessionWatchers(t *testing.T) {
	chdir(t, t.TempDir())
	cfg := testConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, err := bootstrap.NewContainer(ctx, cfg)
	require.NoError(t, err)
	defer container.Close()
	require.NoError(t, container.Start(ctx))

	srv := New(cfg, container)

	session := post[dto.SessionResponse](t, srv, "/api/sessions", `{"title":"Canlı"}`)

	watcher := &websocket.Client{Hub: container.WebSocketHub, SessionID: session.Id, Send: make(chan []byte, 8)}
	container.WebSocketHub.Register(watcher)

	chat := post[dto.SendChatResponse](t, srv, "/api/chat", `{"session_id":"`+session.Id.String()+`","content":"Merhaba"}`)
	require.NotNil(t, chat.AssistantMessage)

	var roles []string
	for len(roles) < 2 {
		select {
		case raw := <-watcher.Send:
			var frame struct {
				Type string                 `json:"type"`
				Data map[string]interface{} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(raw, &frame))
			if frame.Type != events.MessageCreated {
				// the session.created event may land after Register
				continue
			}
			roles = append(roles, frame.Data["role"].(string))
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d events delivered", len(roles))
		}
	}
	assert.Equal(t, []string{"user", "assistant"}, roles)
}

func TestServer_UnknownRoute(t *testing.T) {
	chdir(t, t.TempDir())
	cfg := testConfig()

	container, err := bootstrap.NewContainer(context.Background(), cfg)
	require.NoError(t, err)
	defer container.Close()

	resp, err := New(cfg, container).GetApp().Test(httptest.NewRequest(http.MethodGet, "/api/nope", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNewContainer_BadBackend(t *testing.T) {
	chdir(t, t.TempDir())
	cfg := testConfig()
	cfg.Database.Backend = "cassandra"

	_, err := bootstrap.NewContainer(context.Background(), cfg)
	assert.Error(t, err)
}
