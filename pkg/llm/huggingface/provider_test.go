package huggingface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"turkgpt/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHuggingFaceProvider_Chat(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer hf_token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Merhaba!"}}]}`))
	}))
	defer srv.Close()

	p := NewHuggingFaceProvider("hf_token", srv.URL, "mistral")
	reply, err := p.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "Selam"}})
	require.NoError(t, err)
	assert.Equal(t, "Merhaba!", reply)

	assert.Equal(t, "mistral", got.Model)
	assert.Equal(t, llm.DefaultMaxTokens, got.MaxTokens)
	assert.Equal(t, llm.DefaultTemperature, got.Temperature)
	require.Len(t, got.Messages, 1)
}

func TestHuggingFaceProvider_NoAuthWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	_, err := NewHuggingFaceProvider("", srv.URL, "m").Chat(context.Background(), nil)
	require.NoError(t, err)
}

func TestHuggingFaceProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "non 200", status: http.StatusTooManyRequests, body: "slow down", want: "status 429"},
		{name: "api error", status: http.StatusOK, body: `{"error":{"message":"bad model"}}`, want: "bad model"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, want: "empty choices"},
		{name: "bad json", status: http.StatusOK, body: `{`, want: "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHuggingFaceProvider("k", srv.URL, "m").Chat(context.Background(), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
