package intake

import (
	"context"
	"strings"
	"testing"
)

func TestSystemPrompt(t *testing.T) {
	now := "2025-05-12T08:00:00+02:00"
	busy := "2025-05-12T09:00:00 Consultation\n"

	prompt := SystemPrompt(now, busy)

	if !strings.Contains(prompt, now) {
		t.Error("prompt must contain the current time label")
	}
	if !strings.Contains(prompt, busy) {
		t.Error("prompt must contain the busy-slot block")
	}
	if !strings.Contains(prompt, "create_event") {
		t.Error("prompt must direct the model to call create_event")
	}
	if !strings.Contains(prompt, "Emma") || !strings.Contains(prompt, "ServiceMed") {
		t.Error("prompt must carry the assistant persona")
	}
}

func TestSystemPromptEmptyAvailability(t *testing.T) {
	prompt := SystemPrompt("2025-05-12T08:00:00+02:00", "")
	if !strings.Contains(prompt, "Les créneaux qui ne sont pas disponibles sont : Commencez") {
		t.Error("empty busy block should leave the slot list empty, not break the script")
	}
}

func TestToolsDeclaration(t *testing.T) {
	b := NewBooker(&fakeCalendar{}, discard())
	tools := Tools(context.Background(), b)

	if len(tools) != 1 {
		t.Fatalf("got %d tools, want exactly 1", len(tools))
	}

	tool := tools[0]
	if tool.Name != CreateEventTool {
		t.Errorf("tool name = %q, want create_event", tool.Name)
	}
	if len(tool.Required) != 1 || tool.Required[0] != "date" {
		t.Errorf("required = %v, want [date]", tool.Required)
	}

	date, ok := tool.Parameters["date"].(map[string]any)
	if !ok {
		t.Fatal("date parameter schema missing")
	}
	if date["type"] != "string" {
		t.Errorf("date type = %v, want string", date["type"])
	}
	desc, _ := date["description"].(string)
	if !strings.Contains(desc, "YYYY-MM-DDTHH:MM:SS") {
		t.Error("date description must instruct the model to convert to YYYY-MM-DDTHH:MM:SS")
	}

	if tool.Handler == nil {
		t.Fatal("tool handler must be set")
	}
	out, err := tool.Handler(map[string]any{"date": "2025-05-12T10:30:00"})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if out != DirectiveBooked {
		t.Errorf("handler = %q, want booked directive", out)
	}
}
