// Package ai wraps the chat-completion endpoint behind the free Q&A flow.
//
// The Completer interface exists so the dialog router can be tested without
// the network. The HTTP client degrades gracefully: any transport, auth, or
// decode failure yields ErrUnavailable, which the router turns into a
// user-safe apology instead of an error reply.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/elevatehq/go-booking-bot/internal/config"
)

// SystemPrompt frames every completion request.
const SystemPrompt = "You are a helpful assistant for Elevate platform."

// ErrUnavailable is returned for any completion failure. Callers show a
// fallback string and keep the dialog alive.
var ErrUnavailable = errors.New("ai: completion unavailable")

// Message is one turn sent to the completion endpoint.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer produces an assistant answer for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Client is the HTTP Completer implementation.
type Client struct {
	cfg  config.CompletionConfig
	http *http.Client
}

// New builds a Client from the completion config. The request timeout comes
// from cfg.Timeout.
func New(cfg config.CompletionConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete implements Completer. The system prompt is prepended; callers pass
// only the conversation turns.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	payload := completionRequest{
		Model:       c.cfg.Model,
		Messages:    append([]Message{{Role: "system", Content: SystemPrompt}}, messages...),
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal: %v", ErrUnavailable, err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("completion request failed")
		return "", fmt.Errorf("%w: request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("completion request rejected")
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}
	return out.Choices[0].Message.Content, nil
}
