package voice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Common errors returned by pipelines.
var (
	ErrNotConnected   = errors.New("voice: pipeline not connected")
	ErrAlreadyStarted = errors.New("voice: pipeline already started")
	ErrMissingAPIKey  = errors.New("voice: missing API key")
)

// Pipeline is the interface for a realtime speech-to-speech conversation.
type Pipeline interface {
	// Lifecycle

	// Start establishes the connection and begins processing.
	// Call this after registering tools and setting up callbacks.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the pipeline.
	Stop() error

	// IsConnected returns true if the pipeline is connected and the
	// session is ready for conversation.
	IsConnected() bool

	// Audio I/O

	// SendAudio sends mono PCM16 audio to the pipeline.
	SendAudio(pcm16 []byte) error

	// OnAudioOut sets the callback for synthesized audio output.
	OnAudioOut(fn func(pcm16 []byte))

	// Events

	// OnSpeechStart is called when the caller starts speaking.
	OnSpeechStart(fn func())

	// OnSpeechEnd is called when the caller stops speaking.
	OnSpeechEnd(fn func())

	// OnTranscript is called with the caller's transcribed speech.
	OnTranscript(fn func(text string, isFinal bool))

	// OnResponse is called with the assistant's text response.
	OnResponse(fn func(text string, isFinal bool))

	// OnError is called when an error occurs.
	OnError(fn func(err error))

	// Tools

	// RegisterTool adds a tool the model can invoke.
	// Must be called before Start().
	RegisterTool(tool Tool)

	// OnToolResult is called after a registered tool ran and its result was
	// delivered back to the model. Observational: the console uses it.
	OnToolResult(fn func(res ToolResult))

	// Control

	// Interrupt stops the current assistant response (for barge-in).
	Interrupt() error

	// Metrics & Config

	// Metrics returns current latency metrics.
	Metrics() Metrics

	// Config returns the current configuration.
	Config() Config
}

// Factory creates a Pipeline for a provider.
type Factory func(cfg Config) (Pipeline, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[Provider]Factory)
)

// Register associates a provider name with a pipeline factory.
// Bundled implementations call this from init().
func Register(p Provider, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[p] = f
}

// Providers returns the registered provider names, sorted.
func Providers() []Provider {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ps := make([]Provider, 0, len(registry))
	for p := range registry {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i] < ps[j] })
	return ps
}

// New creates a Pipeline for cfg.Provider.
// Returns an error if the config is invalid or the provider is unknown.
func New(cfg Config) (Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registryMu.RLock()
	f, ok := registry[cfg.Provider]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("voice: no pipeline registered for provider %q", cfg.Provider)
	}
	return f(cfg)
}
