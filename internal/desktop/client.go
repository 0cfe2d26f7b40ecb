package desktop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type SendResult struct {
	UserMessage      *Message `json:"user_message"`
	AssistantMessage *Message `json:"assistant_message"`
}

// ChatAPI is the part of the HTTP surface the desktop client uses.
type ChatAPI interface {
	CreateSession(ctx context.Context, title string) (*Session, error)
	SendMessage(ctx context.Context, sessionID, content string) (*SendResult, error)
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

type APIClient struct {
	baseURL  string
	callerID string
	http     *http.Client
}

var _ ChatAPI = (*APIClient)(nil)

func NewAPIClient(baseURL, callerID string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		callerID: callerID,
		http:     &http.Client{Timeout: timeout},
	}
}

func (c *APIClient) CreateSession(ctx context.Context, title string) (*Session, error) {
	return do[*Session](ctx, c, http.MethodPost, "/sessions", map[string]string{"title": title})
}

func (c *APIClient) SendMessage(ctx context.Context, sessionID, content string) (*SendResult, error) {
	return do[*SendResult](ctx, c, http.MethodPost, "/chat", map[string]string{
		"session_id": sessionID,
		"content":    content,
	})
}

func do[T any](ctx context.Context, c *APIClient, method, path string, body interface{}) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return zero, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.callerID != "" {
		req.Header.Set("X-Caller-ID", c.callerID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("read response: %w", err)
	}

	var env envelope[T]
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: env.Message}
		if decodeErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return zero, apiErr
	}
	if decodeErr != nil {
		return zero, fmt.Errorf("decode response: %w", decodeErr)
	}
	return env.Data, nil
}
