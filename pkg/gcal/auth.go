// Package gcal is the Google Calendar side of the assistant: OAuth token
// lifecycle, the availability read, and the appointment write.
package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

// Default file locations, relative to the working directory.
// Writing an event requires the full calendar scope, so a token minted for an
// older read-only scope must be re-issued (delete token.json and re-run auth).
const (
	DefaultCredentialsFile = "credentials.json"
	DefaultTokenFile       = "token.json"
)

// OAuthConfig builds the OAuth2 config for the calendar scope.
// Client ID and secret from the environment win over credentials.json.
func OAuthConfig(clientID, clientSecret, redirectURL string) (*oauth2.Config, error) {
	if clientID != "" && clientSecret != "" {
		return &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{calendar.CalendarScope},
			Endpoint:     google.Endpoint,
		}, nil
	}

	b, err := os.ReadFile(DefaultCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("no GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET set and %s unreadable: %w", DefaultCredentialsFile, err)
	}
	cfg, err := google.ConfigFromJSON(b, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", DefaultCredentialsFile, err)
	}
	if redirectURL != "" {
		cfg.RedirectURL = redirectURL
	}
	return cfg, nil
}

// TokenFromFile loads a cached OAuth token.
func TokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("malformed token file %s: %w", path, err)
	}
	return tok, nil
}

// SaveToken persists a token for the next run.
func SaveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to create token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}

// Exchange trades an authorization code for a token.
func Exchange(ctx context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error) {
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	return tok, nil
}

// AuthURL returns the consent URL for the interactive authorization flow.
func AuthURL(cfg *oauth2.Config) string {
	return cfg.AuthCodeURL("intake-state", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}
