package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/replycal/replycal/internal/claude"
	"github.com/replycal/replycal/internal/config"
	"github.com/replycal/replycal/internal/database"
	"github.com/replycal/replycal/internal/gmail"
	"github.com/replycal/replycal/internal/notify"
	"github.com/replycal/replycal/internal/processor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting replycal")

	db, err := database.New(cfg.DBPath)
	if err != nil {
		fatal(logger, "failed to open database", err)
	}
	defer db.Close()

	gmailClient, err := initGmail(cfg)
	if err != nil {
		fatal(logger, "failed to initialize gmail", err)
	}
	logger.Info("gmail client initialized")

	claudeClient := claude.NewClient(cfg.AnthropicAPIKey, cfg.ClaudeModel, cfg.ClaudeTemperature)
	logger.Info("extraction model configured", "model", cfg.ClaudeModel)

	sender, err := initSender(cfg, gmailClient)
	if err != nil {
		fatal(logger, "failed to initialize reply sender", err)
	}
	logger.Info("reply sender configured", "sender", sender.Name())

	proc := processor.New(claudeClient, sender, db, logger)

	worker := gmail.NewWorker(gmailClient, db, proc, gmail.WorkerConfig{
		Query:        cfg.GmailQuery,
		PollInterval: cfg.PollInterval,
		MaxPerPoll:   cfg.MaxPerPoll,
	}, logger)
	worker.Start()

	waitForShutdown(logger, worker)
}

func initGmail(cfg *config.Config) (*gmail.Client, error) {
	oauthConfig, err := gmail.LoadOAuthConfig(cfg.GoogleCredentialsFile)
	if err != nil {
		return nil, err
	}

	token, err := gmail.TokenFromFile(cfg.GoogleTokenFile)
	if err != nil {
		return nil, fmt.Errorf("no usable OAuth token, run the auth command first: %w", err)
	}

	return gmail.NewClient(oauthConfig, token)
}

func initSender(cfg *config.Config, gmailClient *gmail.Client) (notify.Sender, error) {
	switch cfg.ReplyMode {
	case config.ReplyModeResend:
		sender := notify.NewResendSender(cfg.ResendAPIKey, cfg.ReplyFrom)
		if sender == nil || !sender.IsConfigured() {
			return nil, fmt.Errorf("resend reply mode needs RESEND_API_KEY and REPLYCAL_REPLY_FROM")
		}
		return sender, nil
	default:
		return notify.NewGmailSender(gmailClient, cfg.ReplyFrom), nil
	}
}

func waitForShutdown(logger *slog.Logger, worker *gmail.Worker) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	sig := <-c

	logger.Info("received shutdown signal", "signal", sig.String())
	worker.Stop()
	logger.Info("replycal stopped")
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}

func setupLogger(level, format string) *slog.Logger {
	var handler slog.Handler
	logLevel := parseLevel(level)

	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		})
	} else {
		// Pretty colored output for console
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.DateTime,
		})
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
