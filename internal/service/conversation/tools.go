package conversation

import "github.com/seu-repo/vox-agenda/internal/domain"

const toolCreateCalendarEvent = "create_calendar_event"

// requiredToolFields are validated before a tool invocation is dispatched.
var requiredToolFields = []string{"name", "date", "time"}

// Registry returns the static tool registry presented to the language
// model on every turn. A single hardcoded entry; there is no registration
// mechanism.
func Registry() []domain.ToolSchema {
	return []domain.ToolSchema{
		{
			Type: "function",
			Function: domain.ToolFunction{
				Name:        toolCreateCalendarEvent,
				Description: "Schedules a meeting in Google Calendar",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{"type": "string"},
						"date": map[string]any{"type": "string", "description": "YYYY-MM-DD"},
						"time": map[string]any{"type": "string", "description": "HH:MM"},
					},
					"required": []string{"name", "date", "time"},
				},
			},
		},
	}
}
