package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/vox-agenda/internal/domain"
	"github.com/seu-repo/vox-agenda/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/vox-agenda/pkg/config"
)

// Client provides access to the OpenAI chat completions API with tool
// calling.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *circuitbreaker.HTTPClient
	log        *zap.Logger
}

// NewClient creates a new OpenAI API client.
func NewClient(cfg config.OpenAIConfig, httpClient *circuitbreaker.HTTPClient, log *zap.Logger) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o"
	}
	return &Client{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log,
	}
}

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string              `json:"model"`
	Messages []Message           `json:"messages"`
	Tools    []domain.ToolSchema `json:"tools,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				ID       string `json:"id"`
				Type     string `json:"type"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat completion request carrying the tool registry
// and resolves the response into literal content and/or tool invocations.
func (c *Client) Complete(ctx context.Context, system, user string, tools []domain.ToolSchema) (*domain.ChatResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openai: API key not configured")
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Tools: tools,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("openai: create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{
			Service:    "openai",
			StatusCode: resp.StatusCode,
			Message:    "chat completion rejected",
		}
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return nil, &domain.UpstreamError{Service: "openai", Message: "no choices returned"}
	}

	msg := result.Choices[0].Message
	out := &domain.ChatResult{Content: msg.Content}

	for _, call := range msg.ToolCalls {
		args := map[string]string{}
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				return nil, fmt.Errorf("openai: decode tool arguments for %s: %w", call.Function.Name, err)
			}
		}
		out.ToolInvocations = append(out.ToolInvocations, domain.ToolInvocation{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: args,
		})
	}

	c.log.Debug("Chat completion resolved",
		zap.Int("tool_calls", len(out.ToolInvocations)),
		zap.Bool("has_content", out.Content != ""),
	)

	return out, nil
}
