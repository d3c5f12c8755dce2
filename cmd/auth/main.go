// Package main runs the one-time OAuth consent flow for the Gmail account
// replycal watches. It opens a local callback server, prints the consent
// URL, and writes the resulting token to disk for the daemon to use.
//
// Usage:
//
//	go run ./cmd/auth -credentials ./credentials.json -token ./token.json
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/replycal/replycal/internal/gmail"
)

const authTimeout = 5 * time.Minute

func main() {
	credentialsFile := flag.String("credentials", "./credentials.json", "path to the Google OAuth credentials file")
	tokenFile := flag.String("token", "./token.json", "where to write the OAuth token")
	flag.Parse()

	oauthConfig, err := gmail.LoadOAuthConfig(*credentialsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load OAuth config: %v\n", err)
		os.Exit(1)
	}

	state := uuid.NewString()
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(gmail.CallbackPath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			errCh <- fmt.Errorf("state mismatch in callback")
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing authorization code", http.StatusBadRequest)
			errCh <- fmt.Errorf("authorization was denied")
			return
		}
		fmt.Fprintln(w, "Authorization complete. You can close this tab.")
		codeCh <- code
	})

	srv := &http.Server{Addr: gmail.CallbackAddr(), Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	authURL := oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Println("Open this URL in your browser to authorize replycal:")
	fmt.Println()
	fmt.Println("  " + authURL)
	fmt.Println()
	fmt.Println("Waiting for authorization...")

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "Authorization failed: %v\n", err)
		os.Exit(1)
	case <-time.After(authTimeout):
		fmt.Fprintln(os.Stderr, "Timed out waiting for authorization")
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)

	token, err := oauthConfig.Exchange(context.Background(), code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to exchange authorization code: %v\n", err)
		os.Exit(1)
	}

	if err := gmail.SaveToken(*tokenFile, token); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Token saved to %s\n", *tokenFile)
	fmt.Println("replycal can now read and reply to mail for this account.")
}
