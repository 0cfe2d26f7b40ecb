package mock

import (
	"context"
	"testing"

	"turkgpt/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_EchoesLastUserMessage(t *testing.T) {
	p := NewMockProvider()

	reply, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "persona"},
		{Role: llm.RoleUser, Content: "ilk"},
		{Role: llm.RoleAssistant, Content: "cevap"},
		{Role: llm.RoleUser, Content: "  Merhaba  "},
	})
	require.NoError(t, err)
	assert.Equal(t, `Mesajınızı aldım: "Merhaba"`, reply)
}

func TestMockProvider_Greeting(t *testing.T) {
	reply, err := NewMockProvider().Chat(context.Background(), []llm.Message{{Role: llm.RoleSystem, Content: "persona"}})
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
}

func TestMockProvider_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockProvider().Chat(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
