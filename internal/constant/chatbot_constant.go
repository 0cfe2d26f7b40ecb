package constant

import "time"

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"

	ChatSessionCollection = "chat_sessions"
	ChatMessageCollection = "messages"

	DefaultSessionTitle = "Yeni Sohbet"

	// MaxListResults caps every list response and the history sent upstream.
	MaxListResults = 1000

	DefaultLLMTimeout = 60 * time.Second

	ChatSystemPrompt = "Sen TürkGPT'sin, Türkçe konuşan yardımsever bir yapay zeka asistanısın. Her zaman kibar, bilgili ve dostça bir şekilde yanıt verirsin."
)
