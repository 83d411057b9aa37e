package bundled

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/servicemed/go-intake/pkg/voice"
)

func TestRealtimeEventEnvelope(t *testing.T) {
	raw := `{
		"type": "response.function_call_arguments.done",
		"name": "create_event",
		"call_id": "call_123",
		"arguments": "{\"date\":\"2025-05-12T10:30:00\"}"
	}`

	var ev realtimeEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Type != "response.function_call_arguments.done" {
		t.Errorf("type = %q", ev.Type)
	}
	if ev.Name != "create_event" || ev.CallID != "call_123" {
		t.Errorf("name/call_id = %q/%q", ev.Name, ev.CallID)
	}
}

func TestRealtimeErrorEnvelope(t *testing.T) {
	raw := `{"type":"error","error":{"type":"invalid_request_error","code":"bad","message":"nope"}}`

	var ev realtimeEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Error == nil || ev.Error.Message != "nope" {
		t.Errorf("error field not decoded: %+v", ev.Error)
	}
}

func TestDispatchToolCallParsesArguments(t *testing.T) {
	p, err := NewOpenAI(voice.Config{Provider: voice.ProviderOpenAI, OpenAIKey: "test"})
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}

	var (
		mu   sync.Mutex
		got  map[string]any
		done = make(chan struct{})
	)
	p.RegisterTool(voice.Tool{
		Name: "create_event",
		Handler: func(args map[string]any) (string, error) {
			mu.Lock()
			got = args
			mu.Unlock()
			close(done)
			return "ok", nil
		},
	})

	p.dispatchToolCall(&realtimeEvent{
		Type:      "response.function_call_arguments.done",
		Name:      "create_event",
		CallID:    "call_1",
		Arguments: `{"date":"2025-05-12T10:30:00"}`,
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tool handler was not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	if got["date"] != "2025-05-12T10:30:00" {
		t.Errorf("handler args = %v", got)
	}
}

func TestDispatchToolCallMalformedArguments(t *testing.T) {
	p, err := NewOpenAI(voice.Config{Provider: voice.ProviderOpenAI, OpenAIKey: "test"})
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}

	done := make(chan map[string]any, 1)
	p.RegisterTool(voice.Tool{
		Name: "create_event",
		Handler: func(args map[string]any) (string, error) {
			done <- args
			return "ok", nil
		},
	})

	p.dispatchToolCall(&realtimeEvent{Name: "create_event", CallID: "call_2", Arguments: "{not json"})

	select {
	case args := <-done:
		if len(args) != 0 {
			t.Errorf("expected empty args for malformed arguments, got %v", args)
		}
	case <-time.After(time.Second):
		t.Fatal("tool handler was not invoked")
	}
}

func TestSendAudioNotConnected(t *testing.T) {
	p, err := NewOpenAI(voice.Config{Provider: voice.ProviderOpenAI, OpenAIKey: "test"})
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}
	if err := p.SendAudio([]byte{0, 0}); err != voice.ErrNotConnected {
		t.Errorf("SendAudio before Start = %v, want ErrNotConnected", err)
	}
}
