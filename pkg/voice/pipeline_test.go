package voice

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected provider openai, got %s", cfg.Provider)
	}
	if cfg.InputSampleRate != 24000 {
		t.Errorf("expected input sample rate 24000, got %d", cfg.InputSampleRate)
	}
	if cfg.VADThreshold != 0.5 {
		t.Errorf("expected VAD threshold 0.5, got %f", cfg.VADThreshold)
	}
	if cfg.ASRLanguage != "fr" {
		t.Errorf("expected ASR language fr, got %s", cfg.ASRLanguage)
	}
	if cfg.ASRModel != "whisper-1" {
		t.Errorf("expected ASR model whisper-1, got %s", cfg.ASRModel)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  Config{Provider: ProviderOpenAI, OpenAIKey: "test-key"},
			wantErr: false,
		},
		{
			name:    "missing api key",
			config:  Config{Provider: ProviderOpenAI},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			config:  Config{Provider: "daily", OpenAIKey: "test-key"},
			wantErr: true,
		},
		{
			name:    "vad threshold too high",
			config:  Config{Provider: ProviderOpenAI, OpenAIKey: "k", VADThreshold: 1.5},
			wantErr: true,
		},
		{
			name:    "temperature too high",
			config:  Config{Provider: ProviderOpenAI, OpenAIKey: "k", LLMTemperature: 3.0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigWithMethods(t *testing.T) {
	cfg := DefaultConfig()

	cfg = cfg.WithSystemPrompt("Vous êtes Emma.")
	if cfg.SystemPrompt != "Vous êtes Emma." {
		t.Errorf("WithSystemPrompt did not set prompt")
	}

	cfg = cfg.WithVoice("shimmer")
	if cfg.TTSVoice != "shimmer" {
		t.Errorf("WithVoice did not set voice, got %s", cfg.TTSVoice)
	}

	cfg = cfg.WithVAD(0.7, 300*time.Millisecond)
	if cfg.VADThreshold != 0.7 || cfg.VADSilenceDuration != 300*time.Millisecond {
		t.Errorf("WithVAD did not apply settings")
	}

	cfg = cfg.WithDebug(true)
	if !cfg.Debug {
		t.Errorf("WithDebug did not set debug flag")
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "daily", OpenAIKey: "k"})
	if err == nil {
		t.Fatal("expected error for unregistered provider")
	}
}

func TestRegisterAndNew(t *testing.T) {
	const provider Provider = "test-provider"
	Register(provider, func(cfg Config) (Pipeline, error) {
		return nil, nil
	})

	found := false
	for _, p := range Providers() {
		if p == provider {
			found = true
		}
	}
	if !found {
		t.Errorf("Providers() = %v, missing %q", Providers(), provider)
	}
}

func TestMetricsCollector(t *testing.T) {
	mc := NewMetricsCollector()

	mc.MarkSpeechEnd()
	time.Sleep(5 * time.Millisecond)
	mc.MarkTranscript()
	time.Sleep(5 * time.Millisecond)
	mc.MarkFirstToken()
	time.Sleep(5 * time.Millisecond)
	mc.MarkFirstAudio()
	mc.AddToolTime(42 * time.Millisecond)
	mc.MarkResponseDone()

	m := mc.Current()
	if m.ASRLatency <= 0 {
		t.Errorf("expected positive ASR latency, got %v", m.ASRLatency)
	}
	if m.LLMFirstToken <= m.ASRLatency {
		t.Errorf("first token latency %v should exceed ASR latency %v", m.LLMFirstToken, m.ASRLatency)
	}
	if m.TTSFirstAudio <= m.LLMFirstToken {
		t.Errorf("first audio latency %v should exceed first token latency %v", m.TTSFirstAudio, m.LLMFirstToken)
	}
	if m.ToolLatency != 42*time.Millisecond {
		t.Errorf("tool latency = %v, want 42ms", m.ToolLatency)
	}
	if m.TotalLatency <= 0 {
		t.Errorf("expected positive total latency, got %v", m.TotalLatency)
	}

	avg := mc.Average()
	if avg.TotalLatency <= 0 {
		t.Errorf("expected averaged total latency after one turn, got %v", avg.TotalLatency)
	}
}

func TestMetricsFirstMarksAreSticky(t *testing.T) {
	mc := NewMetricsCollector()
	mc.MarkSpeechEnd()
	mc.MarkFirstAudio()
	first := mc.Current().FirstAudioTime

	time.Sleep(2 * time.Millisecond)
	mc.MarkFirstAudio()
	if !mc.Current().FirstAudioTime.Equal(first) {
		t.Error("MarkFirstAudio should only record the first chunk")
	}
}

func TestToolStruct(t *testing.T) {
	tool := Tool{
		Name:        "create_event",
		Description: "Enregistre le rendez-vous.",
		Parameters: map[string]any{
			"date": map[string]any{"type": "string"},
		},
		Required: []string{"date"},
		Handler: func(args map[string]any) (string, error) {
			return "ok", nil
		},
	}

	if tool.Name != "create_event" {
		t.Errorf("expected name create_event, got %s", tool.Name)
	}
	result, err := tool.Handler(map[string]any{"date": "2025-05-12T10:30:00"})
	if err != nil {
		t.Errorf("handler returned error: %v", err)
	}
	if result != "ok" {
		t.Errorf("expected result 'ok', got %q", result)
	}
}
