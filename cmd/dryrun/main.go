// Package main runs the extraction pipeline over a single email without
// touching Gmail and without sending anything. It prints the extracted
// event, the reply text, and the rendered invite, which makes prompt and
// validation changes cheap to try out.
//
// Usage:
//
//	ANTHROPIC_API_KEY=sk-... go run ./cmd/dryrun \
//	    -subject "Dinner on Friday" -from alice@example.com -body email.txt
//
// With -body - (or no -body flag) the email body is read from stdin.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"github.com/replycal/replycal/internal/claude"
	"github.com/replycal/replycal/internal/config"
	"github.com/replycal/replycal/internal/gmail"
	"github.com/replycal/replycal/internal/processor"
)

func main() {
	subject := flag.String("subject", "", "email subject")
	from := flag.String("from", "sender@example.com", "email From header")
	bodyFile := flag.String("body", "-", "path to a file with the email body, - for stdin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	body, err := readBody(*bodyFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read body: %v\n", err)
		os.Exit(1)
	}

	// Results go to stdout, logs to stderr.
	logger := slog.New(tint.NewHandler(os.Stderr, nil))

	claudeClient := claude.NewClient(cfg.AnthropicAPIKey, cfg.ClaudeModel, cfg.ClaudeTemperature)
	proc := processor.New(claudeClient, nil, nil, logger)

	email := &gmail.Email{
		Subject: *subject,
		From:    *from,
		Body:    body,
	}

	result, err := proc.Extract(context.Background(), email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Extraction failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Event:")
	fmt.Printf("  Title:    %s\n", result.Event.Title)
	fmt.Printf("  Start:    %s\n", result.Event.Start)
	fmt.Printf("  End:      %s\n", result.Event.End)
	if result.Event.Location != "" {
		fmt.Printf("  Location: %s\n", result.Event.Location)
	}

	fmt.Println()
	fmt.Println("Reply body:")
	fmt.Println()
	fmt.Println(result.ReplyBody)

	fmt.Println("Invite (invite.ics):")
	fmt.Println()
	fmt.Print(result.Invite)
}

func readBody(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
