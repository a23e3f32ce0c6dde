package domain

// ToolInvocation is a structured action request emitted by the language
// model. Arguments are validated against the tool registry's required
// fields before dispatch.
type ToolInvocation struct {
	ID        string            `json:"id,omitempty"`
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments"`
}

// ChatResult is the resolved outcome of one chat completion: either
// literal assistant text, or one or more tool invocations (in the order
// the model returned them), or both.
type ChatResult struct {
	Content         string
	ToolInvocations []ToolInvocation
}

// ToolSchema describes one callable action in the shape the chat API
// expects. The registry is pure data, sent verbatim on every turn.
type ToolSchema struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

type ToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// SpeechChunk is one opaque synthesized audio payload, base64-encoded as
// received from the synthesis service. Chunks are forwarded to the client
// in arrival order.
type SpeechChunk string
