package intake

import (
	"context"
	"fmt"
	"sync"

	"github.com/servicemed/go-intake/internal/log"
	"github.com/servicemed/go-intake/pkg/agenda"
	"github.com/servicemed/go-intake/pkg/gcal"
	"github.com/servicemed/go-intake/pkg/voice"
	_ "github.com/servicemed/go-intake/pkg/voice/bundled" // register voice providers
	"github.com/servicemed/go-intake/pkg/web"
)

// App is the intake application orchestrator.
// It owns the calendar client, the voice pipeline, and the console, and runs
// one conversation per process: the caller connects, negotiates a slot, the
// assistant books it, the call ends.
type App struct {
	config Config

	cal      *gcal.Client
	booker   *Booker
	pipeline voice.Pipeline
	console  *web.Server

	availability agenda.Availability

	started   bool
	startedMu sync.Mutex

	// callDone closes when the caller hangs up; Run returns then.
	callDone chan struct{}
	doneOnce sync.Once
}

// New creates the application with the given configuration.
func New(cfg Config) (*App, error) {
	cfg.LoadEnvConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Init(cfg.LogLevel)
	return &App{
		config:   cfg,
		callDone: make(chan struct{}),
	}, nil
}

// Init initializes all components: calendar access, the availability fetch,
// the prompt, the pipeline, and the console. Call after New() and before Run().
func (a *App) Init(ctx context.Context) error {
	if err := a.initCalendar(ctx); err != nil {
		return err
	}

	// Busy slots are fetched once, before the conversation can start; a
	// provider failure degrades to an empty agenda.
	a.availability = a.cal.Availability(ctx)

	a.booker = NewBooker(a.cal, log.With("component", "booker"))

	if err := a.initPipeline(ctx); err != nil {
		return err
	}
	a.initConsole(ctx)
	return nil
}

func (a *App) initCalendar(ctx context.Context) error {
	oauthCfg, err := gcal.OAuthConfig(a.config.GoogleClientID, a.config.GoogleClientSecret, "")
	if err != nil {
		return fmt.Errorf("calendar auth: %w", err)
	}
	tok, err := gcal.TokenFromFile(a.config.TokenFile)
	if err != nil {
		return fmt.Errorf("calendar token: %w (run gcal-auth first)", err)
	}
	a.cal, err = gcal.NewClient(ctx, log.With("component", "gcal"), oauthCfg, tok)
	if err != nil {
		return fmt.Errorf("calendar client: %w", err)
	}
	return nil
}

func (a *App) initPipeline(ctx context.Context) error {
	cfg := voice.DefaultConfig().
		WithSystemPrompt(SystemPrompt(agenda.NowLabel(), a.availability.Block())).
		WithVoice(a.config.TTSVoice).
		WithDebug(a.config.Debug)
	cfg.OpenAIKey = a.config.OpenAIKey

	p, err := voice.New(cfg)
	if err != nil {
		return fmt.Errorf("voice pipeline: %w", err)
	}

	for _, tool := range Tools(ctx, a.booker) {
		p.RegisterTool(tool)
	}

	a.pipeline = p
	return nil
}

func (a *App) initConsole(ctx context.Context) {
	console := web.NewServer(a.config.ConsolePort)
	console.UpdateState(func(st *web.State) {
		st.AvailabilityDegraded = a.availability.Degraded
		st.BusySlotCount = len(a.availability.Slots)
	})

	console.OnCallAudio = func(pcm16 []byte) {
		if err := a.pipeline.SendAudio(pcm16); err != nil && err != voice.ErrNotConnected {
			log.Warn("failed to forward caller audio", "error", err)
		}
	}

	console.OnCallStart = func(callID string) {
		a.startConversation(ctx, callID)
	}

	// The caller hanging up ends the run. An in-flight tool call is
	// abandoned; a write already submitted to the provider stands.
	console.OnCallEnd = func(callID string) {
		log.Info("call ended", "call_id", callID)
		a.doneOnce.Do(func() { close(a.callDone) })
	}

	a.wireCallbacks(console)
	a.console = console
}

// startConversation connects the realtime session the first time a caller
// joins. The model opens the conversation by presenting itself.
func (a *App) startConversation(ctx context.Context, callID string) {
	a.startedMu.Lock()
	defer a.startedMu.Unlock()
	if a.started {
		return
	}
	if err := a.pipeline.Start(ctx); err != nil {
		log.Error("failed to start voice pipeline", "call_id", callID, "error", err)
		a.doneOnce.Do(func() { close(a.callDone) })
		return
	}
	a.started = true
	a.console.UpdateState(func(st *web.State) { st.PipelineConnected = true })
	log.Info("conversation started", "call_id", callID)
}

// wireCallbacks connects pipeline events to the console.
func (a *App) wireCallbacks(console *web.Server) {
	a.pipeline.OnAudioOut(console.WriteCallAudio)

	a.pipeline.OnTranscript(func(text string, isFinal bool) {
		if isFinal {
			console.AddConversation("caller", text)
		}
	})

	a.pipeline.OnResponse(func(text string, isFinal bool) {
		if isFinal {
			console.AddConversation("assistant", text)
		}
	})

	a.pipeline.OnToolResult(func(res voice.ToolResult) {
		console.Emit(web.Event{Type: "tool", Message: res.Result})
		if res.Result == DirectiveBooked {
			console.UpdateState(func(st *web.State) { st.Bookings++ })
		}
	})

	a.pipeline.OnError(func(err error) {
		log.Error("pipeline error", "error", err)
		console.Emit(web.Event{Type: "error", Message: err.Error()})
	})
}

// Run serves the console and blocks until the context is cancelled, the
// caller hangs up, or the console listener fails.
func (a *App) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		if err := a.console.Start(); err != nil {
			serveErr <- err
		}
	}()

	log.Info("intake assistant ready",
		"console_port", a.config.ConsolePort,
		"busy_slots", len(a.availability.Slots),
		"availability_degraded", a.availability.Degraded)

	select {
	case <-ctx.Done():
		return nil
	case <-a.callDone:
		return nil
	case err := <-serveErr:
		return fmt.Errorf("console server: %w", err)
	}
}

// Shutdown releases all resources.
func (a *App) Shutdown() {
	a.startedMu.Lock()
	started := a.started
	a.startedMu.Unlock()

	if started {
		if err := a.pipeline.Stop(); err != nil {
			log.Warn("pipeline stop", "error", err)
		}
	}
	if a.console != nil {
		if err := a.console.Shutdown(); err != nil {
			log.Warn("console shutdown", "error", err)
		}
	}
}
