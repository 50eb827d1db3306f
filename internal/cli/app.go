package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"trivia-quiz/internal/catalog"
	"trivia-quiz/internal/logger"
	"trivia-quiz/internal/session"
)

type Catalog interface {
	List(ctx context.Context) ([]catalog.Category, error)
	Resolve(ctx context.Context, input string) (catalog.Category, error)
}

type Config struct {
	Source          session.QuestionSource
	Catalog         Catalog
	Logger          *logger.Logger
	QuestionSeconds int
	TickInterval    time.Duration
}

// Run plays quizzes on the terminal until the user quits or in is exhausted.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	if cfg.Source == nil {
		return errors.New("question source is required")
	}
	if cfg.Catalog == nil {
		return errors.New("category catalog is required")
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	term := newTerminal(out)
	controller := session.NewController(cfg.Source,
		session.WithRenderer(term),
		session.WithLogger(log),
		session.WithQuestionSeconds(cfg.QuestionSeconds),
		session.WithTickInterval(cfg.TickInterval),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return controller.Run(ctx)
	})
	g.Go(func() error {
		defer cancel()
		app := &app{term: term, controller: controller, catalog: cfg.Catalog}
		return app.loop(ctx, in)
	})
	return g.Wait()
}

type app struct {
	term       *terminal
	controller *session.Controller
	catalog    Catalog
}

func (a *app) loop(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	a.term.printf("trivia-quiz\n")
	printHelp(a.term)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case line := <-lines:
			quit, err := a.handle(ctx, line)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

func (a *app) handle(ctx context.Context, line string) (bool, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}
	command := strings.ToLower(args[0])

	switch command {
	case "help", "?":
		printHelp(a.term)
	case "quit", "exit":
		return true, nil
	case "categories":
		return false, a.listCategories(ctx)
	case "start":
		return false, a.start(ctx, strings.Join(args[1:], " "))
	case "retry":
		return false, a.dispatchAndSettle(ctx, session.RetryEvent{})
	case "next":
		return false, a.dispatch(ctx, session.NextEvent{})
	case "prev", "back":
		return false, a.dispatch(ctx, session.PrevEvent{})
	case "submit":
		return false, a.dispatch(ctx, session.SubmitEvent{})
	case "restart":
		return false, a.dispatch(ctx, session.RestartEvent{})
	default:
		index, ok := parseOption(command)
		if !ok {
			a.term.printf("Unknown command %q. Type 'help' for usage.\n", command)
			return false, nil
		}
		return false, a.dispatch(ctx, session.SelectEvent{Index: index})
	}
	return false, nil
}

func (a *app) start(ctx context.Context, input string) error {
	category, err := a.catalog.Resolve(ctx, input)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			a.term.printf("Unknown category %q. Type 'categories' to list them.\n", input)
			return nil
		}
		return err
	}
	a.term.printf("Category: %s\n", category.Name)
	return a.dispatchAndSettle(ctx, session.StartEvent{Category: category.Param()})
}

// dispatchAndSettle holds further input while questions load.
func (a *app) dispatchAndSettle(ctx context.Context, event session.Event) error {
	select {
	case <-a.term.settled:
	default:
	}

	snap, err := a.controller.Dispatch(ctx, event)
	if err != nil {
		return a.report(err)
	}
	if snap.Phase != session.PhaseLoading {
		return nil
	}

	select {
	case <-a.term.settled:
		return nil
	case <-ctx.Done():
		return nil
	}
}

func (a *app) dispatch(ctx context.Context, event session.Event) error {
	_, err := a.controller.Dispatch(ctx, event)
	return a.report(err)
}

// report prints rejected user input and passes through anything fatal.
func (a *app) report(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, session.ErrInvalidOption):
		a.term.printf("That option does not exist.\n")
	case errors.Is(err, session.ErrNotInProgress):
		a.term.printf("No quiz in progress. Type 'start [category]' to begin.\n")
	case errors.Is(err, session.ErrBusy):
		a.term.printf("A quiz is already running. Type 'restart' to abandon it.\n")
	case errors.Is(err, context.Canceled), errors.Is(err, session.ErrStopped):
		return nil
	default:
		return err
	}
	return nil
}

func (a *app) listCategories(ctx context.Context) error {
	categories, err := a.catalog.List(ctx)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("Categories:\n")
	b.WriteString("  any  Any Category\n")
	for _, category := range categories {
		fmt.Fprintf(&b, "  %-4d %s\n", category.ID, category.Name)
	}
	a.term.printf("%s", b.String())
	return nil
}

// parseOption accepts a letter (A-Z) or a 1-based number.
func parseOption(input string) (int, bool) {
	input = strings.ToUpper(strings.TrimSpace(input))
	if len(input) == 1 && input[0] >= 'A' && input[0] <= 'Z' {
		return int(input[0] - 'A'), true
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 {
		return -1, false
	}
	return n - 1, true
}

func printHelp(term *terminal) {
	term.printf(`Commands:
  start [category]   fetch 10 questions (id or name, default any)
  categories         list categories
  A-D or 1-4         choose an option
  next | prev        move between questions
  submit             finish and show results
  retry              fetch again after an error
  restart            back to category selection
  help | quit
`)
}
