package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"trivia-quiz/internal/catalog"
	"trivia-quiz/internal/cli"
	"trivia-quiz/internal/config"
	"trivia-quiz/internal/logger"
	"trivia-quiz/internal/opentdb"
	"trivia-quiz/internal/quiz"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := opentdb.NewClientWithBaseURL(cfg.Source.BaseURL, &http.Client{Timeout: cfg.Source.Timeout})

	store, err := catalog.NewSQLiteStore(cfg.Catalog.DSN)
	if err != nil {
		return fmt.Errorf("open category catalog: %w", err)
	}
	defer store.Close()

	if cfg.Catalog.RefreshOnStart {
		n, err := store.Refresh(ctx, client)
		if err != nil {
			log.Warn("category refresh failed, using built-in list", "error", err)
		} else {
			log.Info("categories refreshed", "count", n)
		}
	}

	source := quiz.NewSource(client,
		quiz.WithAmount(cfg.Source.Amount),
		quiz.WithQuestionType(cfg.Source.QuestionType),
	)

	return cli.Run(ctx, os.Stdin, os.Stdout, cli.Config{
		Source:          source,
		Catalog:         store,
		Logger:          log,
		QuestionSeconds: cfg.Session.QuestionSeconds,
		TickInterval:    cfg.Session.TickInterval,
	})
}
