package voice

import (
	"errors"
	"time"
)

// Provider identifies the voice pipeline provider.
type Provider string

// ProviderOpenAI uses OpenAI's Realtime API (VAD, ASR, LLM and TTS in a
// single WebSocket session).
const ProviderOpenAI Provider = "openai"

// Config holds all tunable parameters for voice pipelines.
// Parameters are organized by stage for clarity.
type Config struct {
	// Provider selection
	Provider Provider

	// API keys (provider-specific)
	OpenAIKey string

	// Audio settings
	InputSampleRate  int // input audio sample rate (default: 24000)
	OutputSampleRate int // output audio sample rate (default: 24000)

	// VAD (voice activity detection) settings
	VADThreshold       float64       // activation threshold 0.0-1.0 (default: 0.5)
	VADPrefixPadding   time.Duration // audio included before speech start (default: 300ms)
	VADSilenceDuration time.Duration // silence marking end of speech (default: 500ms)

	// ASR settings
	ASRModel    string // transcription model (default: whisper-1)
	ASRLanguage string // language hint (default: "fr")

	// LLM settings
	LLMModel       string  // model name (default: provider-specific)
	LLMTemperature float64 // response randomness 0.0-2.0 (default: 0.8)
	SystemPrompt   string  // system instructions for the assistant

	// TTS settings
	TTSVoice string // voice name (default: provider-specific)

	// Debug settings
	Debug bool // enable verbose event logging
}

// DefaultConfig returns a Config with defaults for the OpenAI provider and a
// French-speaking caller.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderOpenAI,

		InputSampleRate:  24000,
		OutputSampleRate: 24000,

		VADThreshold:       0.5,
		VADPrefixPadding:   300 * time.Millisecond,
		VADSilenceDuration: 500 * time.Millisecond,

		ASRModel:    "whisper-1",
		ASRLanguage: "fr",

		LLMTemperature: 0.8,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIKey == "" {
			return ErrMissingAPIKey
		}
	default:
		return errors.New("voice: unknown provider: " + string(c.Provider))
	}

	if c.VADThreshold < 0 || c.VADThreshold > 1 {
		return errors.New("voice: VAD threshold must be between 0 and 1")
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return errors.New("voice: LLM temperature must be between 0 and 2")
	}
	return nil
}

// WithSystemPrompt returns a copy with the system prompt set.
func (c Config) WithSystemPrompt(prompt string) Config {
	c.SystemPrompt = prompt
	return c
}

// WithVoice returns a copy with the TTS voice set.
func (c Config) WithVoice(voice string) Config {
	c.TTSVoice = voice
	return c
}

// WithVAD returns a copy with VAD settings.
func (c Config) WithVAD(threshold float64, silenceDuration time.Duration) Config {
	c.VADThreshold = threshold
	c.VADSilenceDuration = silenceDuration
	return c
}

// WithDebug returns a copy with debug enabled.
func (c Config) WithDebug(debug bool) Config {
	c.Debug = debug
	return c
}
