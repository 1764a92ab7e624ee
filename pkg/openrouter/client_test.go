package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakhongir/openrouter-telegram-bot/pkg/domain"
)

func newTestClient(baseURL string, timeout time.Duration) *client {
	hc := &http.Client{Timeout: timeout}

	cfg := openai.DefaultConfig("test-token")
	cfg.BaseURL = baseURL
	cfg.HTTPClient = hc

	return &client{
		api:     openai.NewClientWithConfig(cfg),
		hc:      hc,
		token:   "test-token",
		model:   "openai/gpt-4o-mini",
		baseURL: baseURL,
	}
}

func TestCreateChatCompletion(t *testing.T) {
	var gotRequest struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Hi there"}}]}`))
	}))
	defer ts.Close()

	c := newTestClient(ts.URL, time.Second)

	chat := &domain.Chat{
		ID: 1,
		Messages: []domain.Message{
			{Role: domain.MessageRoleSystem, Content: "be helpful"},
			{Role: domain.MessageRoleUser, Content: "Hello"},
		},
	}

	content, err := c.CreateChatCompletion(context.Background(), chat)
	require.NoError(t, err)

	assert.Equal(t, "Hi there", content)
	assert.Equal(t, "openai/gpt-4o-mini", gotRequest.Model)
	require.Len(t, gotRequest.Messages, 2)
	assert.Equal(t, "user", gotRequest.Messages[1].Role)
	assert.Equal(t, "Hello", gotRequest.Messages[1].Content)
}

func TestCreateChatCompletion_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"choices":[]}`))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(tc.handler)
			defer ts.Close()

			c := newTestClient(ts.URL, 50*time.Millisecond)

			_, err := c.CreateChatCompletion(context.Background(), &domain.Chat{
				Messages: []domain.Message{{Role: domain.MessageRoleUser, Content: "Hello"}},
			})

			assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
		})
	}
}

func TestGetCredits(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/credits", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"total_credits":10,"total_usage":2.5}}`))
	}))
	defer ts.Close()

	c := newTestClient(ts.URL, time.Second)

	credits, err := c.GetCredits(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.Credits{TotalCredits: 10, TotalUsage: 2.5}, credits)
}

func TestGetCredits_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer ts.Close()

	c := newTestClient(ts.URL, time.Second)

	_, err := c.GetCredits(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestNewClient_EmptyToken(t *testing.T) {
	_, err := NewClient("", "openai/gpt-4o-mini", time.Second)
	assert.Error(t, err)
}
