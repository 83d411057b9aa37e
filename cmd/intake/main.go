// intake - voice appointment-scheduling assistant for ServiceMed.
// Bridges a caller's audio to the OpenAI Realtime API and books 30-minute
// appointments into Google Calendar through a single create_event tool.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/servicemed/go-intake/pkg/intake"
)

func main() {
	// Load .env first; absence is fine.
	_ = godotenv.Load()

	cfg := parseFlags()

	app, err := intake.New(cfg)
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Init(ctx); err != nil {
		log.Fatalf("initialization failed: %v", err)
	}
	defer app.Shutdown()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("runtime error: %v", err)
	}
}

// parseFlags parses command line flags and returns configuration.
func parseFlags() intake.Config {
	cfg := intake.DefaultConfig()

	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	port := flag.String("port", cfg.ConsolePort, "Console and call-bridge port")
	voice := flag.String("voice", cfg.TTSVoice, "Assistant TTS voice")
	tokenFile := flag.String("token-file", cfg.TokenFile, "Cached Google OAuth token file")
	flag.Parse()

	cfg.Debug = *debug
	cfg.ConsolePort = *port
	cfg.TTSVoice = *voice
	cfg.TokenFile = *tokenFile
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}
	return cfg
}
