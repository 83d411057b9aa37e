// Package voice provides a unified interface for realtime voice conversation
// pipelines.
//
// The package abstracts speech-to-speech providers behind a common Pipeline
// interface: the caller streams PCM16 audio in, receives synthesized audio and
// transcripts back, and registers tools the model can invoke mid-conversation.
// Voice activity detection, transcription, the language model, and synthesis
// all live on the provider side.
//
// # Usage
//
// Create a pipeline for a registered provider:
//
//	cfg := voice.DefaultConfig()
//	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
//	cfg.SystemPrompt = prompt
//
//	pipeline, err := voice.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pipeline.RegisterTool(voice.Tool{
//	    Name:        "create_event",
//	    Description: "Enregistre le rendez-vous dans le calendrier.",
//	    Handler: func(args map[string]any) (string, error) {
//	        return booker.Handle(args), nil
//	    },
//	})
//
//	pipeline.OnAudioOut(func(pcm []byte) { bridge.Write(pcm) })
//	pipeline.OnTranscript(func(text string, final bool) { console.User(text) })
//
//	if err := pipeline.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer pipeline.Stop()
//
// Providers register themselves from the bundled subpackage; import it for
// side effects:
//
//	import _ "github.com/servicemed/go-intake/pkg/voice/bundled"
package voice
