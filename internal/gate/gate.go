// Package gate asks an LLM whether a question is about county demographics
// at all, before the deterministic engine is invoked. The verdict is
// advisory: the caller decides what to do when the gate fails or declines.
package gate

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

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

const classifyPrompt = `You are a relevance filter for a county demographics assistant.
The assistant can only answer questions about county population, Hispanic population,
projected Hispanic population, regions (east, west, central), totals and percentages.

Question: %q

Respond with JSON only:
{ "relevant": true or false, "reason": "short explanation" }`

// Config holds gate configuration.
type Config struct {
	APIKey   string
	Model    string // e.g. "gpt-4o-mini"
	Endpoint string // API endpoint override (empty = default)
}

// Client calls the OpenAI chat completions API to classify questions.
type Client struct {
	config Config
	client *http.Client
}

// Verdict is the gate's decision for one question.
type Verdict struct {
	Relevant bool   `json:"relevant"`
	Reason   string `json:"reason,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewClient creates a gate client. Model and endpoint fall back to defaults.
func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	return &Client{
		config: cfg,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Classify asks the model whether the question is on-topic.
func (c *Client) Classify(ctx context.Context, question string) (*Verdict, error) {
	reqBody := chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "user", Content: fmt.Sprintf(classifyPrompt, question)},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gate API returned %d: %.200s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if chatResp.Error != nil {
		return nil, fmt.Errorf("gate API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("gate returned empty response")
	}

	return parseVerdict(chatResp.Choices[0].Message.Content)
}

// parseVerdict extracts the JSON verdict from the model reply, tolerating
// markdown code fences around it.
func parseVerdict(reply string) (*Verdict, error) {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	reply = strings.TrimSpace(reply)

	var v Verdict
	if err := json.Unmarshal([]byte(reply), &v); err != nil {
		return nil, fmt.Errorf("failed to parse verdict: %w (reply: %.200s)", err, reply)
	}
	return &v, nil
}
