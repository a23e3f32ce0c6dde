package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/vox-agenda/internal/domain"
	"github.com/seu-repo/vox-agenda/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/vox-agenda/pkg/config"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := newTestLogger()
	httpClient := circuitbreaker.NewHTTPClient("openai-test", server.Client(), config.CircuitBreakerConfig{}, log)

	client := NewClient(config.OpenAIConfig{
		APIKey:  "test-key",
		Model:   "gpt-4o",
		BaseURL: server.URL,
	}, httpClient, log)

	return client, server
}

func TestComplete_ToolCallsResolved(t *testing.T) {
	// Arrange
	var gotRequest map[string]interface{}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{
				"message": {
					"content": null,
					"tool_calls": [{
						"id": "call_1",
						"type": "function",
						"function": {
							"name": "create_calendar_event",
							"arguments": "{\"name\":\"Alice\",\"date\":\"2024-06-01\",\"time\":\"14:00\"}"
						}
					}]
				}
			}]
		}`))
	})

	tools := []domain.ToolSchema{{
		Type: "function",
		Function: domain.ToolFunction{
			Name:        "create_calendar_event",
			Description: "Schedule a meeting",
		},
	}}

	// Act
	result, err := client.Complete(context.Background(), "system text", "book a meeting", tools)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.ToolInvocations) != 1 {
		t.Fatalf("expected one tool invocation, got %d", len(result.ToolInvocations))
	}
	inv := result.ToolInvocations[0]
	if inv.ID != "call_1" || inv.Name != "create_calendar_event" {
		t.Errorf("unexpected invocation: %+v", inv)
	}
	if inv.Arguments["name"] != "Alice" || inv.Arguments["date"] != "2024-06-01" || inv.Arguments["time"] != "14:00" {
		t.Errorf("unexpected arguments: %v", inv.Arguments)
	}

	if gotRequest["model"] != "gpt-4o" {
		t.Errorf("expected gpt-4o in request, got %v", gotRequest["model"])
	}
	if _, ok := gotRequest["tools"]; !ok {
		t.Error("expected the tool registry in the request body")
	}
	messages, _ := gotRequest["messages"].([]interface{})
	if len(messages) != 2 {
		t.Fatalf("expected exactly system and user messages, got %d", len(messages))
	}
}

func TestComplete_PlainContent(t *testing.T) {
	// Arrange
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"What time works for you?"}}]}`))
	})

	// Act
	result, err := client.Complete(context.Background(), "system text", "book something", nil)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Content != "What time works for you?" {
		t.Errorf("unexpected content: %q", result.Content)
	}
	if len(result.ToolInvocations) != 0 {
		t.Errorf("expected no tool invocations, got %d", len(result.ToolInvocations))
	}
}

func TestComplete_UpstreamError(t *testing.T) {
	// Arrange
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	// Act
	_, err := client.Complete(context.Background(), "system text", "hello", nil)

	// Assert
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if upstream.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", upstream.StatusCode)
	}
}

func TestComplete_MissingAPIKey(t *testing.T) {
	// Arrange
	log := newTestLogger()
	httpClient := circuitbreaker.NewHTTPClient("openai-test", nil, config.CircuitBreakerConfig{}, log)
	client := NewClient(config.OpenAIConfig{}, httpClient, log)

	// Act
	_, err := client.Complete(context.Background(), "system text", "hello", nil)

	// Assert
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}
