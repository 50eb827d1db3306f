package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"trivia-quiz/internal/catalog"
	"trivia-quiz/internal/config"
	"trivia-quiz/internal/httpapi"
	"trivia-quiz/internal/logger"
	"trivia-quiz/internal/opentdb"
	"trivia-quiz/internal/quiz"
	"trivia-quiz/internal/session"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	flag.Parse()

	if err := run(*configPath, *addr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath, addrOverride string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addrOverride != "" {
		cfg.Server.Addr = addrOverride
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
	controller := session.NewController(source,
		session.WithLogger(log),
		session.WithQuestionSeconds(cfg.Session.QuestionSeconds),
		session.WithTickInterval(cfg.Session.TickInterval),
	)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           httpapi.NewRouter(httpapi.NewAPI(controller, store, log), cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return controller.Run(ctx)
	})
	g.Go(func() error {
		log.Info("quiz-server listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
