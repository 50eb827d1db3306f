package httpapi

import (
	"context"

	"trivia-quiz/internal/catalog"
	"trivia-quiz/internal/logger"
	"trivia-quiz/internal/session"
)

type Catalog interface {
	List(ctx context.Context) ([]catalog.Category, error)
	Resolve(ctx context.Context, input string) (catalog.Category, error)
}

type Controller interface {
	Dispatch(ctx context.Context, event session.Event) (session.Snapshot, error)
	Snapshot() session.Snapshot
}

// API exposes the one quiz session owned by this process.
type API struct {
	controller Controller
	catalog    Catalog
	log        *logger.Logger
}

func NewAPI(controller Controller, categories Catalog, log *logger.Logger) *API {
	if log == nil {
		log = logger.Nop()
	}
	return &API{
		controller: controller,
		catalog:    categories,
		log:        log,
	}
}
