package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"trivia-quiz/internal/logger"
	"trivia-quiz/internal/quiz"
)

const DefaultTickInterval = time.Second

var ErrStopped = errors.New("session controller stopped")

type QuestionSource interface {
	FetchQuestions(ctx context.Context, category string) ([]quiz.Question, error)
}

// Renderer receives a snapshot after every processed event. It is called from
// the controller goroutine and must not block for long.
type Renderer interface {
	Render(Snapshot)
}

type RendererFunc func(Snapshot)

func (f RendererFunc) Render(s Snapshot) {
	f(s)
}

type envelope struct {
	event Event
	reply chan dispatchResult
}

type dispatchResult struct {
	snapshot Snapshot
	err      error
}

// Controller serialises user events, countdown ticks and fetch results into
// one loop that owns the session state.
type Controller struct {
	source       QuestionSource
	log          *logger.Logger
	renderer     Renderer
	tickInterval time.Duration

	state *State
	inbox chan envelope
	done  chan struct{}

	tickCancel  context.CancelFunc
	fetchCancel context.CancelFunc

	mu   sync.RWMutex
	last Snapshot
}

type Option func(*Controller)

func WithLogger(log *logger.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

func WithRenderer(renderer Renderer) Option {
	return func(c *Controller) {
		c.renderer = renderer
	}
}

func WithTickInterval(interval time.Duration) Option {
	return func(c *Controller) {
		if interval > 0 {
			c.tickInterval = interval
		}
	}
}

func WithQuestionSeconds(seconds int) Option {
	return func(c *Controller) {
		c.state = NewState(seconds)
	}
}

func NewController(source QuestionSource, opts ...Option) *Controller {
	c := &Controller{
		source:       source,
		log:          logger.Nop(),
		tickInterval: DefaultTickInterval,
		state:        NewState(DefaultQuestionSeconds),
		inbox:        make(chan envelope),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.last = c.state.Snapshot()
	return c
}

// Run processes events until ctx is cancelled. It must be called once.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)
	defer c.stopTicker()
	defer c.cancelFetch()

	for {
		select {
		case <-ctx.Done():
			return nil
		case env := <-c.inbox:
			snap, err := c.apply(ctx, env.event)
			if env.reply != nil {
				env.reply <- dispatchResult{snapshot: snap, err: err}
			}
		}
	}
}

// Dispatch delivers a user event and waits until it has been applied.
func (c *Controller) Dispatch(ctx context.Context, event Event) (Snapshot, error) {
	reply := make(chan dispatchResult, 1)
	select {
	case c.inbox <- envelope{event: event, reply: reply}:
	case <-c.done:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	select {
	case result := <-reply:
		return result.snapshot, result.err
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Snapshot returns the state as of the last processed event.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

func (c *Controller) apply(ctx context.Context, event Event) (Snapshot, error) {
	prevPhase := c.state.Phase
	commands, err := Update(c.state, event)
	if err != nil {
		c.log.Debug("event rejected", "event", event.eventName(), "phase", c.state.Phase, "error", err)
	}

	for _, command := range commands {
		c.execute(ctx, command)
	}
	c.logTransition(prevPhase, event)

	snap := c.state.Snapshot()
	c.mu.Lock()
	c.last = snap
	c.mu.Unlock()

	if c.renderer != nil {
		c.renderer.Render(snap)
	}
	return snap, err
}

func (c *Controller) execute(ctx context.Context, command Command) {
	switch cmd := command.(type) {
	case FetchQuestions:
		c.fetch(ctx, cmd)
	case StartTicker:
		c.startTicker(ctx, cmd.Generation)
	case StopTicker:
		c.stopTicker()
	case CancelFetch:
		c.cancelFetch()
	default:
		c.log.Warn("unknown command", "command", command.commandName())
	}
}

func (c *Controller) logTransition(prev Phase, event Event) {
	s := c.state
	if prev == s.Phase {
		return
	}
	log := c.log.With("session_id", s.ID, "event", event.eventName())
	switch s.Phase {
	case PhaseLoading:
		log.Info("fetching questions", "category", s.Category)
	case PhaseActive:
		log.Info("quiz started", "questions", len(s.Questions))
	case PhaseError:
		log.Warn("question fetch failed", "category", s.Category, "error", s.ErrorMessage)
	case PhaseCompleted:
		log.Info("quiz submitted", "score", s.Score, "total", len(s.Questions))
	case PhaseIdle:
		log.Info("quiz restarted")
	}
}

func (c *Controller) fetch(ctx context.Context, cmd FetchQuestions) {
	c.cancelFetch()
	fetchCtx, cancel := context.WithCancel(ctx)
	c.fetchCancel = cancel

	go func() {
		defer cancel()
		questions, err := c.source.FetchQuestions(fetchCtx, cmd.Category)
		var event Event = LoadedEvent{Seq: cmd.Seq, Questions: questions}
		if err != nil {
			event = FetchFailedEvent{Seq: cmd.Seq, Err: err}
		}
		c.post(fetchCtx, event)
	}()
}

func (c *Controller) cancelFetch() {
	if c.fetchCancel != nil {
		c.fetchCancel()
		c.fetchCancel = nil
	}
}

// startTicker cancels the previous ticker before starting a new one, so at
// most one tick source is live.
func (c *Controller) startTicker(ctx context.Context, generation uint64) {
	c.stopTicker()
	tickCtx, cancel := context.WithCancel(ctx)
	c.tickCancel = cancel

	go func() {
		ticker := time.NewTicker(c.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-tickCtx.Done():
				return
			case <-ticker.C:
				if !c.post(tickCtx, TickEvent{Generation: generation}) {
					return
				}
			}
		}
	}()
}

func (c *Controller) stopTicker() {
	if c.tickCancel != nil {
		c.tickCancel()
		c.tickCancel = nil
	}
}

func (c *Controller) post(ctx context.Context, event Event) bool {
	select {
	case c.inbox <- envelope{event: event}:
		return true
	case <-ctx.Done():
		return false
	case <-c.done:
		return false
	}
}
