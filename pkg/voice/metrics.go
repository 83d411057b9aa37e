package voice

import (
	"sync"
	"time"
)

// Metrics tracks latency at each stage of one conversation turn.
// All durations are measured from the moment the caller stops speaking.
type Metrics struct {
	// Timestamps for key events
	SpeechEndTime    time.Time // when VAD detected end of speech
	TranscriptTime   time.Time // when transcription completed
	FirstTokenTime   time.Time // when the model produced its first token
	FirstAudioTime   time.Time // when the first audio chunk arrived
	ResponseDoneTime time.Time // when the response was fully delivered

	// Computed latencies (from speech end)
	ASRLatency    time.Duration // time to complete transcription
	LLMFirstToken time.Duration // time to first model token
	TTSFirstAudio time.Duration // time to first audio chunk
	ToolLatency   time.Duration // time spent inside a tool handler, if any
	TotalLatency  time.Duration // total end-to-end latency

	// Counts for this turn
	AudioChunksIn  int
	AudioChunksOut int
}

// MetricsCollector accumulates per-turn metrics. It is goroutine-safe and can
// be driven from the pipeline's read loop and tool goroutines concurrently.
type MetricsCollector struct {
	mu      sync.Mutex
	current Metrics
	history []Metrics
}

const metricsHistorySize = 100

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		history: make([]Metrics, 0, metricsHistorySize),
	}
}

// MarkSpeechEnd records when the caller stopped speaking and resets the turn.
// This is the reference point for all latency measurements.
func (m *MetricsCollector) MarkSpeechEnd() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Metrics{SpeechEndTime: time.Now()}
}

// MarkTranscript records when transcription completed.
func (m *MetricsCollector) MarkTranscript() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.TranscriptTime = time.Now()
	if !m.current.SpeechEndTime.IsZero() {
		m.current.ASRLatency = m.current.TranscriptTime.Sub(m.current.SpeechEndTime)
	}
}

// MarkFirstToken records when the model produced its first token.
func (m *MetricsCollector) MarkFirstToken() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.current.FirstTokenTime.IsZero() {
		return
	}
	m.current.FirstTokenTime = time.Now()
	if !m.current.SpeechEndTime.IsZero() {
		m.current.LLMFirstToken = m.current.FirstTokenTime.Sub(m.current.SpeechEndTime)
	}
}

// MarkFirstAudio records when the first audio chunk arrived.
func (m *MetricsCollector) MarkFirstAudio() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.current.FirstAudioTime.IsZero() {
		return
	}
	m.current.FirstAudioTime = time.Now()
	if !m.current.SpeechEndTime.IsZero() {
		m.current.TTSFirstAudio = m.current.FirstAudioTime.Sub(m.current.SpeechEndTime)
	}
}

// AddToolTime accrues time spent inside a tool handler this turn.
func (m *MetricsCollector) AddToolTime(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.ToolLatency += d
}

// MarkResponseDone records when the response was fully delivered and archives
// the turn.
func (m *MetricsCollector) MarkResponseDone() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.ResponseDoneTime = time.Now()
	if !m.current.SpeechEndTime.IsZero() {
		m.current.TotalLatency = m.current.ResponseDoneTime.Sub(m.current.SpeechEndTime)
	}
	m.history = append(m.history, m.current)
	if len(m.history) > metricsHistorySize {
		m.history = m.history[1:]
	}
}

// IncrementAudioIn counts an audio chunk sent to the provider.
func (m *MetricsCollector) IncrementAudioIn() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.AudioChunksIn++
}

// IncrementAudioOut counts an audio chunk received from the provider.
func (m *MetricsCollector) IncrementAudioOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.AudioChunksOut++
}

// Current returns the current turn's metrics snapshot.
func (m *MetricsCollector) Current() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Average returns average latencies over recent turns.
func (m *MetricsCollector) Average() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.history) == 0 {
		return Metrics{}
	}

	var avg Metrics
	for _, h := range m.history {
		avg.ASRLatency += h.ASRLatency
		avg.LLMFirstToken += h.LLMFirstToken
		avg.TTSFirstAudio += h.TTSFirstAudio
		avg.ToolLatency += h.ToolLatency
		avg.TotalLatency += h.TotalLatency
	}

	n := time.Duration(len(m.history))
	avg.ASRLatency /= n
	avg.LLMFirstToken /= n
	avg.TTSFirstAudio /= n
	avg.ToolLatency /= n
	avg.TotalLatency /= n
	return avg
}

// FormatLatency returns a formatted string of the turn's latencies.
func (m *Metrics) FormatLatency() string {
	return formatDuration(m.ASRLatency) + " ASR | " +
		formatDuration(m.LLMFirstToken) + " LLM | " +
		formatDuration(m.TTSFirstAudio) + " TTS | " +
		formatDuration(m.TotalLatency) + " TOTAL"
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "---ms"
	}
	return d.Round(time.Millisecond).String()
}
