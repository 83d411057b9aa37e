// gcal-auth - one-shot Google Calendar authorization.
// Prints the consent URL, waits for the redirect on a local callback server,
// and persists the token for the intake assistant to reuse.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/servicemed/go-intake/pkg/gcal"
)

func main() {
	_ = godotenv.Load()

	port := flag.String("port", "8484", "Local port for the OAuth callback")
	tokenFile := flag.String("token-file", gcal.DefaultTokenFile, "Where to store the token")
	flag.Parse()

	redirect := fmt.Sprintf("http://localhost:%s/oauth/callback", *port)
	cfg, err := gcal.OAuthConfig(os.Getenv("GOOGLE_CLIENT_ID"), os.Getenv("GOOGLE_CLIENT_SECRET"), redirect)
	if err != nil {
		log.Fatalf("oauth config: %v", err)
	}

	codeCh := make(chan string, 1)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/oauth/callback", func(c *fiber.Ctx) error {
		code := c.Query("code")
		if code == "" {
			return c.Status(fiber.StatusBadRequest).SendString("missing authorization code")
		}
		codeCh <- code
		return c.SendString("Authorization complete. You can close this tab.")
	})

	go func() {
		if err := app.Listen(":" + *port); err != nil {
			log.Fatalf("callback server: %v", err)
		}
	}()

	fmt.Println("Open the following link in your browser and grant access:")
	fmt.Println()
	fmt.Println("  " + gcal.AuthURL(cfg))
	fmt.Println()

	var code string
	select {
	case code = <-codeCh:
	case <-time.After(5 * time.Minute):
		log.Fatal("timed out waiting for authorization")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tok, err := gcal.Exchange(ctx, cfg, code)
	if err != nil {
		log.Fatalf("token exchange: %v", err)
	}
	if err := gcal.SaveToken(*tokenFile, tok); err != nil {
		log.Fatalf("save token: %v", err)
	}

	_ = app.Shutdown()
	fmt.Printf("Token saved to %s\n", *tokenFile)
}
