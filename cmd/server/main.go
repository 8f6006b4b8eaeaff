package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notexlabs/notex/internal/api"
	"github.com/notexlabs/notex/internal/config"
	"github.com/notexlabs/notex/internal/extract"
	"github.com/notexlabs/notex/internal/inference"
	"github.com/notexlabs/notex/internal/session"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	models := inference.NewClient(cfg.HFAPIToken, cfg.SummaryModel, cfg.QAModel,
		inference.WithBaseURL(cfg.HFAPIURL),
		inference.WithTimeout(cfg.InferenceTimeout),
	)
	transcripts := extract.NewTranscriptClient(extract.WithTranscriptLanguage(cfg.TranscriptLanguage))
	articles := extract.NewArticleClient()

	// Initialize session state.
	sessions := session.NewStore(cfg.SessionTTL)
	go sessions.Run(ctx, 5*time.Minute)

	// Initialize HTTP server.
	srv := api.NewServer(sessions, models, models, transcripts, articles, models.Stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		models.Close()
	}()

	log.Info("starting notex", "port", cfg.Port, "summary_model", cfg.SummaryModel, "qa_model", cfg.QAModel)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
