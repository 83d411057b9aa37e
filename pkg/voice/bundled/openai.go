// Package bundled provides the pipeline implementations shipped with go-intake.
// Importing it registers each provider with the voice package.
package bundled

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/servicemed/go-intake/internal/log"
	"github.com/servicemed/go-intake/pkg/voice"
)

const (
	openAIRealtimeURL = "wss://api.openai.com/v1/realtime"
	openAIModel       = "gpt-4o-realtime-preview-2024-12-17"
)

// realtimeEvent is the envelope for every server event we care about.
// Fields are sparse; only those matching the event type are populated.
type realtimeEvent struct {
	Type       string `json:"type"`
	Delta      string `json:"delta,omitempty"`
	Transcript string `json:"transcript,omitempty"`

	// function_call_arguments.done
	Name      string `json:"name,omitempty"`
	CallID    string `json:"call_id,omitempty"`
	Arguments string `json:"arguments,omitempty"`

	Error *realtimeError `json:"error,omitempty"`
}

type realtimeError struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OpenAI implements voice.Pipeline using OpenAI's Realtime API: server-side
// VAD, whisper transcription, GPT and built-in TTS over a single WebSocket.
type OpenAI struct {
	config voice.Config

	ws   *websocket.Conn
	wsMu sync.Mutex

	tools    []voice.Tool
	toolsMap map[string]voice.Tool

	mu           sync.RWMutex
	connected    bool
	sessionReady bool
	closed       bool
	cancel       context.CancelFunc

	metrics *voice.MetricsCollector

	onAudioOut    func(pcm16 []byte)
	onSpeechStart func()
	onSpeechEnd   func()
	onTranscript  func(text string, isFinal bool)
	onResponse    func(text string, isFinal bool)
	onToolResult  func(res voice.ToolResult)
	onError       func(err error)
}

// NewOpenAI creates a new OpenAI Realtime pipeline.
func NewOpenAI(cfg voice.Config) (*OpenAI, error) {
	if cfg.OpenAIKey == "" {
		return nil, voice.ErrMissingAPIKey
	}
	return &OpenAI{
		config:   cfg,
		toolsMap: make(map[string]voice.Tool),
		metrics:  voice.NewMetricsCollector(),
	}, nil
}

// Start establishes the WebSocket connection and begins processing.
func (o *OpenAI) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.connected {
		o.mu.Unlock()
		return voice.ErrAlreadyStarted
	}
	o.mu.Unlock()

	ctx, o.cancel = context.WithCancel(ctx)

	model := o.config.LLMModel
	if model == "" {
		model = openAIModel
	}
	url := fmt.Sprintf("%s?model=%s", openAIRealtimeURL, model)

	header := map[string][]string{
		"Authorization": {"Bearer " + o.config.OpenAIKey},
		"OpenAI-Beta":   {"realtime=v1"},
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	ws, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return fmt.Errorf("voice/openai: failed to connect: %w", err)
	}
	o.ws = ws

	o.mu.Lock()
	o.connected = true
	o.closed = false
	o.mu.Unlock()

	if err := o.configureSession(); err != nil {
		o.Stop()
		return fmt.Errorf("voice/openai: failed to configure session: %w", err)
	}

	go o.readLoop()
	return nil
}

// Stop gracefully shuts down the pipeline.
func (o *OpenAI) Stop() error {
	o.mu.Lock()
	o.closed = true
	o.connected = false
	o.sessionReady = false
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	if o.ws != nil {
		return o.ws.Close()
	}
	return nil
}

// IsConnected returns true if connected and the session is ready.
func (o *OpenAI) IsConnected() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.connected && o.sessionReady && !o.closed
}

// SendAudio sends PCM16 audio to the pipeline.
func (o *OpenAI) SendAudio(pcm16 []byte) error {
	o.mu.RLock()
	if !o.connected || o.closed {
		o.mu.RUnlock()
		return voice.ErrNotConnected
	}
	o.mu.RUnlock()

	o.metrics.IncrementAudioIn()
	return o.sendJSON(map[string]any{
		"type":  "input_audio_buffer.append",
		"audio": base64.StdEncoding.EncodeToString(pcm16),
	})
}

// OnAudioOut sets the callback for audio output.
func (o *OpenAI) OnAudioOut(fn func(pcm16 []byte)) { o.onAudioOut = fn }

// OnSpeechStart sets the callback for speech start.
func (o *OpenAI) OnSpeechStart(fn func()) { o.onSpeechStart = fn }

// OnSpeechEnd sets the callback for speech end.
func (o *OpenAI) OnSpeechEnd(fn func()) { o.onSpeechEnd = fn }

// OnTranscript sets the callback for caller transcripts.
func (o *OpenAI) OnTranscript(fn func(text string, isFinal bool)) { o.onTranscript = fn }

// OnResponse sets the callback for assistant responses.
func (o *OpenAI) OnResponse(fn func(text string, isFinal bool)) { o.onResponse = fn }

// OnError sets the error callback.
func (o *OpenAI) OnError(fn func(err error)) { o.onError = fn }

// RegisterTool adds a tool the model can invoke.
func (o *OpenAI) RegisterTool(tool voice.Tool) {
	o.tools = append(o.tools, tool)
	o.toolsMap[tool.Name] = tool
}

// OnToolResult sets the observational callback for completed tool calls.
func (o *OpenAI) OnToolResult(fn func(res voice.ToolResult)) { o.onToolResult = fn }

// Interrupt stops the current assistant response.
func (o *OpenAI) Interrupt() error {
	return o.sendJSON(map[string]string{"type": "response.cancel"})
}

// Metrics returns current latency metrics.
func (o *OpenAI) Metrics() voice.Metrics { return o.metrics.Current() }

// Config returns the current configuration.
func (o *OpenAI) Config() voice.Config { return o.config }

// configureSession pushes instructions, voice, VAD and tool declarations.
func (o *OpenAI) configureSession() error {
	ttsVoice := o.config.TTSVoice
	if ttsVoice == "" {
		ttsVoice = "alloy"
	}
	asrModel := o.config.ASRModel
	if asrModel == "" {
		asrModel = "whisper-1"
	}

	apiTools := make([]map[string]any, len(o.tools))
	for i, tool := range o.tools {
		required := tool.Required
		if required == nil {
			required = []string{}
		}
		apiTools[i] = map[string]any{
			"type":        "function",
			"name":        tool.Name,
			"description": tool.Description,
			"parameters": map[string]any{
				"type":       "object",
				"properties": tool.Parameters,
				"required":   required,
			},
		}
	}

	prefixPaddingMs := int(o.config.VADPrefixPadding.Milliseconds())
	if prefixPaddingMs == 0 {
		prefixPaddingMs = 300
	}
	silenceDurationMs := int(o.config.VADSilenceDuration.Milliseconds())
	if silenceDurationMs == 0 {
		silenceDurationMs = 500
	}
	threshold := o.config.VADThreshold
	if threshold == 0 {
		threshold = 0.5
	}

	transcription := map[string]any{"model": asrModel}
	if o.config.ASRLanguage != "" {
		transcription["language"] = o.config.ASRLanguage
	}

	return o.sendJSON(map[string]any{
		"type": "session.update",
		"session": map[string]any{
			"modalities":                []string{"text", "audio"},
			"instructions":              o.config.SystemPrompt,
			"voice":                     ttsVoice,
			"input_audio_format":        "pcm16",
			"output_audio_format":       "pcm16",
			"input_audio_transcription": transcription,
			"turn_detection": map[string]any{
				"type":                "server_vad",
				"threshold":           threshold,
				"prefix_padding_ms":   prefixPaddingMs,
				"silence_duration_ms": silenceDurationMs,
			},
			"temperature": o.config.LLMTemperature,
			"tools":       apiTools,
			"tool_choice": "auto",
		},
	})
}

// readLoop processes incoming WebSocket events until the connection closes.
func (o *OpenAI) readLoop() {
	for {
		o.mu.RLock()
		closed := o.closed
		o.mu.RUnlock()
		if closed {
			return
		}

		_, message, err := o.ws.ReadMessage()
		if err != nil {
			o.mu.RLock()
			closed := o.closed
			o.mu.RUnlock()
			if !closed && o.onError != nil {
				o.onError(err)
			}
			return
		}

		var ev realtimeEvent
		if err := json.Unmarshal(message, &ev); err != nil {
			continue
		}
		o.handleEvent(&ev)
	}
}

func (o *OpenAI) handleEvent(ev *realtimeEvent) {
	switch ev.Type {
	case "session.created":
		o.mu.Lock()
		o.sessionReady = true
		o.mu.Unlock()
		if o.config.Debug {
			log.Debug("openai session created")
		}
		// Ask the model to speak first: the assistant opens the call.
		if err := o.sendJSON(map[string]string{"type": "response.create"}); err != nil && o.onError != nil {
			o.onError(err)
		}

	case "session.updated":
		if o.config.Debug {
			log.Debug("openai session configured")
		}

	case "input_audio_buffer.speech_started":
		if o.onSpeechStart != nil {
			o.onSpeechStart()
		}

	case "input_audio_buffer.speech_stopped":
		o.metrics.MarkSpeechEnd()
		if o.onSpeechEnd != nil {
			o.onSpeechEnd()
		}

	case "conversation.item.input_audio_transcription.completed":
		o.metrics.MarkTranscript()
		if ev.Transcript != "" && o.onTranscript != nil {
			o.onTranscript(ev.Transcript, true)
		}

	case "response.audio.delta":
		o.metrics.MarkFirstAudio()
		o.metrics.IncrementAudioOut()
		if o.onAudioOut != nil {
			if audio, err := base64.StdEncoding.DecodeString(ev.Delta); err == nil {
				o.onAudioOut(audio)
			}
		}

	case "response.audio.done":
		o.metrics.MarkResponseDone()
		if o.config.Debug {
			m := o.metrics.Current()
			log.Debug("turn complete", "latency", m.FormatLatency())
		}

	case "response.audio_transcript.delta":
		o.metrics.MarkFirstToken()
		if ev.Delta != "" && o.onResponse != nil {
			o.onResponse(ev.Delta, false)
		}

	case "response.audio_transcript.done":
		if ev.Transcript != "" && o.onResponse != nil {
			o.onResponse(ev.Transcript, true)
		}

	case "response.function_call_arguments.done":
		o.dispatchToolCall(ev)

	case "error":
		if ev.Error != nil && o.onError != nil {
			o.onError(fmt.Errorf("voice/openai: API error %s: %s", ev.Error.Code, ev.Error.Message))
		}

	default:
		if o.config.Debug && ev.Type != "" {
			log.Debug("openai event", "type", ev.Type)
		}
	}
}

// dispatchToolCall executes a registered tool off the read loop and delivers
// its result back to the model. The realtime contract delivers one call at a
// time; there is no batching.
func (o *OpenAI) dispatchToolCall(ev *realtimeEvent) {
	call := voice.ToolCall{ID: ev.CallID, Name: ev.Name}
	if err := json.Unmarshal([]byte(ev.Arguments), &call.Arguments); err != nil {
		call.Arguments = map[string]any{}
	}

	go func() {
		started := time.Now()

		res := voice.ToolResult{CallID: call.ID}
		if tool, ok := o.toolsMap[call.Name]; ok && tool.Handler != nil {
			out, err := tool.Handler(call.Arguments)
			if err != nil {
				res.Error = err
				res.Result = fmt.Sprintf("Error: %v", err)
			} else {
				res.Result = out
			}
		} else {
			res.Result = "Function not found"
		}

		o.metrics.AddToolTime(time.Since(started))

		if !o.IsConnected() {
			return
		}
		if err := o.submitToolResult(res.CallID, res.Result); err != nil {
			if o.onError != nil {
				o.onError(fmt.Errorf("voice/openai: failed to send tool result: %w", err))
			}
			return
		}
		if o.onToolResult != nil {
			o.onToolResult(res)
		}
	}()
}

// submitToolResult returns a tool output to the model and requests the
// follow-up response.
func (o *OpenAI) submitToolResult(callID, result string) error {
	if err := o.sendJSON(map[string]any{
		"type": "conversation.item.create",
		"item": map[string]any{
			"type":    "function_call_output",
			"call_id": callID,
			"output":  result,
		},
	}); err != nil {
		return err
	}
	return o.sendJSON(map[string]string{"type": "response.create"})
}

// sendJSON sends a JSON message over the WebSocket.
func (o *OpenAI) sendJSON(v any) error {
	o.wsMu.Lock()
	defer o.wsMu.Unlock()
	if o.ws == nil {
		return voice.ErrNotConnected
	}
	return o.ws.WriteJSON(v)
}

// Ensure OpenAI implements voice.Pipeline at compile time.
var _ voice.Pipeline = (*OpenAI)(nil)

func init() {
	voice.Register(voice.ProviderOpenAI, func(cfg voice.Config) (voice.Pipeline, error) {
		return NewOpenAI(cfg)
	})
}
