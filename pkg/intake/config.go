// Package intake wires the appointment-scheduling assistant together: the
// calendar client, the system prompt, the create_event tool, the voice
// pipeline, and the console.
package intake

import (
	"os"

	"github.com/servicemed/go-intake/pkg/gcal"
)

// Default configuration values.
const (
	DefaultConsolePort = "8080"
	DefaultTTSVoice    = "alloy"
	DefaultLogLevel    = "info"
)

// Config holds all configuration for the intake application.
// Flag parsing is done in cmd/intake/main.go; this struct is data only.
type Config struct {
	// Debug enables verbose debug logging.
	Debug bool

	// LogLevel for the structured logger.
	LogLevel string

	// ConsolePort is the port for the status console and call bridge.
	ConsolePort string

	// TTSVoice is the assistant's synthesized voice.
	TTSVoice string

	// TokenFile is the cached OAuth token location.
	TokenFile string

	// API keys (typically from environment variables).
	OpenAIKey string

	// Google OAuth client (env or credentials.json).
	GoogleClientID     string
	GoogleClientSecret string
}

// DefaultConfig returns sensible defaults for the intake application.
func DefaultConfig() Config {
	return Config{
		LogLevel:    DefaultLogLevel,
		ConsolePort: DefaultConsolePort,
		TTSVoice:    DefaultTTSVoice,
		TokenFile:   gcal.DefaultTokenFile,
	}
}

// LoadEnvConfig loads configuration values from environment variables.
// Call this after flag parsing to apply environment overrides.
func (c *Config) LoadEnvConfig() {
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	c.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	c.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		c.LogLevel = lvl
	}
	if port := os.Getenv("CONSOLE_PORT"); port != "" {
		c.ConsolePort = port
	}
	if voice := os.Getenv("TTS_VOICE"); voice != "" {
		c.TTSVoice = voice
	}
	if tok := os.Getenv("GOOGLE_TOKEN_FILE"); tok != "" {
		c.TokenFile = tok
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.OpenAIKey == "" {
		return &ConfigError{Field: "OpenAIKey", Message: "OPENAI_API_KEY environment variable is required"}
	}
	if c.ConsolePort == "" {
		return &ConfigError{Field: "ConsolePort", Message: "console port must not be empty"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}
