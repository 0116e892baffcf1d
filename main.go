package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/example/vocabtrainer/internal/bot"
	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/internal/enrich"
	"github.com/example/vocabtrainer/internal/importer"
	"github.com/example/vocabtrainer/internal/reminder"
	"github.com/example/vocabtrainer/internal/srs"
	"github.com/example/vocabtrainer/internal/study"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	cfg, err := bot.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	store, err := database.Open(database.Config{
		Driver: os.Getenv("DB_DRIVER"),
		DSN:    os.Getenv("DB_DSN"),
	})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	svc := study.NewService(store.Vocabularies, store.Progress, store.Stats, store.Settings, srs.New())
	enricher := enrich.New(cfg.TargetLang)
	imp := importer.New(store.Vocabularies, enricher)

	b, err := bot.New(cfg, store, svc, imp)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	rem := reminder.New(store.Progress, b, cfg.NotificationStartHour, cfg.NotificationEndHour)
	rem.Start()
	defer rem.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		sig := <-sigChan
		log.Printf("Received signal: %v, shutting down", sig)
		b.Stop()
		cancel()
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	if err := b.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Bot stopped with error: %v", err)
	}
	log.Println("Bot stopped")
}
