package gmail

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

const (
	oauthCallbackPort = 8089

	// CallbackPath is the local path Google redirects to after consent.
	CallbackPath = "/oauth/callback"
)

// OAuthScopes contains the Gmail scopes the bot needs: modify covers reading
// mail and clearing the UNREAD label, send covers the reply.
var OAuthScopes = []string{
	gmail.GmailModifyScope,
	gmail.GmailSendScope,
}

// CallbackURL is where Google redirects after consent. The auth command
// listens here during the interactive flow.
func CallbackURL() string {
	return fmt.Sprintf("http://localhost:%d%s", oauthCallbackPort, CallbackPath)
}

// CallbackAddr is the listen address for the local callback server.
func CallbackAddr() string {
	return fmt.Sprintf(":%d", oauthCallbackPort)
}

// LoadOAuthConfig loads OAuth2 configuration from credentials file or environment variable
func LoadOAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	// Try environment variable first (useful for container deployments)
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS_JSON"); credJSON != "" {
		config, err := google.ConfigFromJSON([]byte(credJSON), OAuthScopes...)
		if err == nil {
			config.RedirectURL = CallbackURL()
			return config, nil
		}
	}

	// Try specified file
	if credentialsFile != "" {
		if config, err := loadConfigFromFile(credentialsFile); err == nil {
			return config, nil
		}
	}

	// Try default credentials.json in current directory
	if config, err := loadConfigFromFile("./credentials.json"); err == nil {
		return config, nil
	}

	return nil, fmt.Errorf("no credentials file found - please provide credentials.json or set GOOGLE_CREDENTIALS_JSON env var")
}

// loadConfigFromFile attempts to load OAuth config from a file
func loadConfigFromFile(path string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config, err := google.ConfigFromJSON(data, OAuthScopes...)
	if err != nil {
		return nil, err
	}

	config.RedirectURL = CallbackURL()
	return config, nil
}

// TokenFromFile reads a stored OAuth2 token
func TokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open token file: %w", err)
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("failed to decode token file: %w", err)
	}

	return token, nil
}

// SaveToken writes an OAuth2 token to disk, readable only by the owner
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}
