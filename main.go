package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/db"
	"github.com/nijaru/yt-summary/handlers"
	"github.com/nijaru/yt-summary/logger"
	"github.com/nijaru/yt-summary/middleware"
	"github.com/nijaru/yt-summary/summary"
	"github.com/nijaru/yt-summary/transcription"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	logCloser, err := logger.Setup(cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize logger")
	}
	defer logCloser.Close()

	var cache transcription.Cache
	if cfg.DBPath != "" {
		store, err := db.Open(cfg.DBPath)
		if err != nil {
			logrus.WithError(err).WithField("path", cfg.DBPath).Fatal("Failed to initialize database")
		}
		defer func() {
			if err := store.Close(); err != nil {
				logrus.WithError(err).Error("Failed to close database")
			}
		}()
		cache = store
		logrus.WithField("path", cfg.DBPath).Info("Transcript cache enabled")
	}

	transcripts := transcription.NewTranscriptionService(
		transcription.NewYouTubeProvider(cfg.Transcript.Language),
		cache,
		cfg.Transcript.MaxChars,
	)
	summarizer := summary.NewClient(summary.Config{
		APIKey:  cfg.Groq.APIKey,
		BaseURL: cfg.Groq.BaseURL,
		Model:   cfg.Groq.Model,
		Timeout: cfg.Groq.Timeout,
	})

	h := handlers.New(cfg, transcripts, summarizer)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      withMiddleware(cfg, h.Routes()),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logrus.WithField("port", cfg.ServerPort).Info("Listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatalf("Could not listen on :%s", cfg.ServerPort)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop

	logrus.Info("Shutting down the server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
}

// withMiddleware wraps routes so that a recovered panic is still logged as a
// completed 500 request.
func withMiddleware(cfg *config.Config, routes http.Handler) http.Handler {
	return middleware.Chain(
		routes,
		middleware.RequestID,
		middleware.LoggingMiddleware,
		middleware.Recover,
		middleware.CORS(cfg.AllowedOrigins),
	)
}
