package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"trivia-quiz/internal/catalog"
	"trivia-quiz/internal/session"
)

const maxRequestBytes = 1 << 10

func (a *API) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.controller.Snapshot())
}

func (a *API) HandleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.catalog.List(r.Context())
	if err != nil {
		a.log.Error("list categories", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list categories"})
		return
	}
	writeJSON(w, http.StatusOK, categoriesResponse{
		Categories: append([]catalog.Category{catalog.Any}, categories...),
	})
}

func (a *API) HandleStart(w http.ResponseWriter, r *http.Request) {
	var request startRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	category, err := a.catalog.Resolve(r.Context(), request.Category)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown category"})
			return
		}
		a.log.Error("resolve category", "category", request.Category, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
		return
	}

	a.dispatch(w, r, session.StartEvent{Category: category.Param()}, http.StatusAccepted)
}

func (a *API) HandleRetry(w http.ResponseWriter, r *http.Request) {
	a.dispatch(w, r, session.RetryEvent{}, http.StatusAccepted)
}

func (a *API) HandleSelect(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "option index must be an integer"})
		return
	}
	a.dispatch(w, r, session.SelectEvent{Index: index}, http.StatusOK)
}

func (a *API) HandleNext(w http.ResponseWriter, r *http.Request) {
	a.dispatch(w, r, session.NextEvent{}, http.StatusOK)
}

func (a *API) HandlePrev(w http.ResponseWriter, r *http.Request) {
	a.dispatch(w, r, session.PrevEvent{}, http.StatusOK)
}

func (a *API) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	a.dispatch(w, r, session.SubmitEvent{}, http.StatusOK)
}

func (a *API) HandleRestart(w http.ResponseWriter, r *http.Request) {
	a.dispatch(w, r, session.RestartEvent{}, http.StatusOK)
}

func (a *API) dispatch(w http.ResponseWriter, r *http.Request, event session.Event, okStatus int) {
	snap, err := a.controller.Dispatch(r.Context(), event)
	if err != nil {
		writeDispatchError(w, err)
		return
	}
	writeJSON(w, okStatus, snap)
}
