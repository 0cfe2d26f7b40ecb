package desktop

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_CreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sessions", r.URL.Path)
		assert.Equal(t, "desktop", r.Header.Get("X-Caller-ID"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Test", body["title"])

		_, _ = w.Write([]byte(`{"success":true,"code":200,"message":"ok","data":{"id":"s-1","title":"Test","created_at":"2024-01-01T00:00:00Z"}}`))
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL+"/api/", "desktop", time.Second)
	session, err := client.CreateSession(context.Background(), "Test")
	require.NoError(t, err)
	assert.Equal(t, "s-1", session.ID)
	assert.Equal(t, "Test", session.Title)
}

func TestAPIClient_SendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "s-1", body["session_id"])
		assert.Equal(t, "Merhaba", body["content"])

		_, _ = w.Write([]byte(`{"success":true,"code":200,"data":{
			"user_message":{"id":"m1","session_id":"s-1","role":"user","content":"Merhaba","timestamp":"2024-01-01T00:00:00.000001Z"},
			"assistant_message":{"id":"m2","session_id":"s-1","role":"assistant","content":"Selam!","timestamp":"2024-01-01T00:00:01Z"}}}`))
	}))
	defer srv.Close()

	result, err := NewAPIClient(srv.URL, "", time.Second).SendMessage(context.Background(), "s-1", "Merhaba")
	require.NoError(t, err)
	require.NotNil(t, result.AssistantMessage)
	assert.Equal(t, "Selam!", result.AssistantMessage.Content)
	assert.Equal(t, "user", result.UserMessage.Role)
	assert.Equal(t, 1000, result.UserMessage.Timestamp.Nanosecond())
}

func TestAPIClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "envelope", status: http.StatusNotFound, body: `{"success":false,"code":404,"message":"Oturum bulunamadı"}`, message: "Oturum bulunamadı"},
		{name: "plain body", status: http.StatusBadGateway, body: "upstream down", message: "upstream down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewAPIClient(srv.URL, "", time.Second).SendMessage(context.Background(), "s", "x")

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestAPIClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewAPIClient(srv.URL, "", 50*time.Millisecond).CreateSession(context.Background(), "x")
	assert.Error(t, err)
}
