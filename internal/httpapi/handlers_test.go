package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"trivia-quiz/internal/catalog"
	"trivia-quiz/internal/quiz"
	"trivia-quiz/internal/session"
)

type sourceFunc func(ctx context.Context, category string) ([]quiz.Question, error)

func (f sourceFunc) FetchQuestions(ctx context.Context, category string) ([]quiz.Question, error) {
	return f(ctx, category)
}

type staticCatalog struct{}

func (staticCatalog) List(ctx context.Context) ([]catalog.Category, error) {
	return []catalog.Category{{ID: 9, Name: "General Knowledge"}}, nil
}

func (staticCatalog) Resolve(ctx context.Context, input string) (catalog.Category, error) {
	switch strings.TrimSpace(input) {
	case "":
		return catalog.Any, nil
	case "9":
		return catalog.Category{ID: 9, Name: "General Knowledge"}, nil
	}
	return catalog.Category{}, catalog.ErrCategoryNotFound
}

func newTestServer(t *testing.T, source sourceFunc) *httptest.Server {
	t.Helper()

	controller := session.NewController(source, session.WithTickInterval(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = controller.Run(ctx)
	}()

	server := httptest.NewServer(NewRouter(NewAPI(controller, staticCatalog{}, nil), nil))
	t.Cleanup(func() {
		server.Close()
		cancel()
		<-done
	})
	return server
}

func doJSON(t *testing.T, server *httptest.Server, method, path, body string, wantStatus int) session.Snapshot {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s status = %d, want %d", method, path, resp.StatusCode, wantStatus)
	}

	var snap session.Snapshot
	if wantStatus < 300 {
		if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
	}
	return snap
}

func waitForPhase(t *testing.T, server *httptest.Server, phase session.Phase) session.Snapshot {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := doJSON(t, server, http.MethodGet, "/api/state", "", http.StatusOK)
		if snap.Phase == phase {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for phase %q", phase)
	return session.Snapshot{}
}

func twoQuestions() []quiz.Question {
	return []quiz.Question{
		{Text: "Capital of France?", Options: []string{"Berlin", "Paris", "Rome", "Madrid"}, CorrectAnswer: 1},
		{Text: "Sky color?", Options: []string{"Blue", "Green", "Red", "Black"}, CorrectAnswer: 0},
	}
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	server := newTestServer(t, func(ctx context.Context, category string) ([]quiz.Question, error) {
		if category != "9" {
			t.Errorf("category = %q, want 9", category)
		}
		return twoQuestions(), nil
	})

	snap := doJSON(t, server, http.MethodPost, "/api/session", `{"category":"9"}`, http.StatusAccepted)
	if snap.Phase != session.PhaseLoading && snap.Phase != session.PhaseActive {
		t.Fatalf("phase after start = %q", snap.Phase)
	}

	snap = waitForPhase(t, server, session.PhaseActive)
	if snap.Question == nil || snap.Question.Text != "Capital of France?" || !snap.Question.IsFirst {
		t.Fatalf("unexpected first question %+v", snap.Question)
	}
	if snap.Progress.Current != 1 || snap.Progress.Total != 2 {
		t.Fatalf("progress = %+v", snap.Progress)
	}

	snap = doJSON(t, server, http.MethodPost, "/api/session/options/1", "", http.StatusOK)
	if snap.Question.Selected != 1 {
		t.Fatalf("selected = %d, want 1", snap.Question.Selected)
	}

	doJSON(t, server, http.MethodPost, "/api/session/options/7", "", http.StatusBadRequest)
	doJSON(t, server, http.MethodPost, "/api/session/options/x", "", http.StatusBadRequest)

	snap = doJSON(t, server, http.MethodPost, "/api/session/next", "", http.StatusOK)
	if snap.Question.Index != 1 || !snap.Question.IsLast || snap.Question.Selected != -1 {
		t.Fatalf("unexpected second question %+v", snap.Question)
	}

	snap = doJSON(t, server, http.MethodPost, "/api/session/prev", "", http.StatusOK)
	if snap.Question.Index != 0 || snap.Question.Selected != 1 {
		t.Fatalf("answer not kept across navigation: %+v", snap.Question)
	}

	snap = doJSON(t, server, http.MethodPost, "/api/session/submit", "", http.StatusOK)
	if snap.Phase != session.PhaseCompleted || snap.Result == nil {
		t.Fatalf("unexpected submit snapshot %+v", snap)
	}
	if snap.Result.Score != 1 || snap.Result.Total != 2 {
		t.Fatalf("score = %d/%d, want 1/2", snap.Result.Score, snap.Result.Total)
	}
	if snap.Result.Review[1].YourAnswer != session.NotAnswered {
		t.Fatalf("review = %+v", snap.Result.Review)
	}

	doJSON(t, server, http.MethodPost, "/api/session/next", "", http.StatusConflict)

	snap = doJSON(t, server, http.MethodPost, "/api/session/restart", "", http.StatusOK)
	if snap.Phase != session.PhaseIdle || snap.Result != nil || snap.Progress.Total != 0 {
		t.Fatalf("restart snapshot = %+v", snap)
	}
}

func TestStartRejectsUnknownCategory(t *testing.T) {
	server := newTestServer(t, func(ctx context.Context, category string) ([]quiz.Question, error) {
		t.Errorf("source should not be called")
		return nil, nil
	})

	doJSON(t, server, http.MethodPost, "/api/session", `{"category":"999"}`, http.StatusBadRequest)
	doJSON(t, server, http.MethodPost, "/api/session", `{`, http.StatusBadRequest)
}

func TestStartWithoutBodyUsesAnyCategory(t *testing.T) {
	seen := make(chan string, 1)
	server := newTestServer(t, func(ctx context.Context, category string) ([]quiz.Question, error) {
		seen <- category
		return twoQuestions(), nil
	})

	doJSON(t, server, http.MethodPost, "/api/session", "", http.StatusAccepted)
	waitForPhase(t, server, session.PhaseActive)
	if got := <-seen; got != "" {
		t.Fatalf("category = %q, want empty", got)
	}

	doJSON(t, server, http.MethodPost, "/api/session", "", http.StatusConflict)
}

func TestFetchFailureAndRetryOverHTTP(t *testing.T) {
	calls := make(chan struct{}, 2)
	server := newTestServer(t, func(ctx context.Context, category string) ([]quiz.Question, error) {
		calls <- struct{}{}
		if len(calls) == 1 {
			return nil, quiz.ErrSourceUnavailable
		}
		return twoQuestions(), nil
	})

	doJSON(t, server, http.MethodPost, "/api/session", `{"category":"9"}`, http.StatusAccepted)
	snap := waitForPhase(t, server, session.PhaseError)
	if snap.Error == "" || snap.Question != nil || snap.Progress.Total != 0 {
		t.Fatalf("error snapshot = %+v", snap)
	}

	doJSON(t, server, http.MethodPost, "/api/session/retry", "", http.StatusAccepted)
	waitForPhase(t, server, session.PhaseActive)
}

func TestCategoriesIncludesAny(t *testing.T) {
	server := newTestServer(t, func(ctx context.Context, category string) ([]quiz.Question, error) {
		return nil, nil
	})

	resp, err := server.Client().Get(server.URL + "/api/categories")
	if err != nil {
		t.Fatalf("GET categories: %v", err)
	}
	defer resp.Body.Close()

	var payload categoriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Categories) != 2 || payload.Categories[0] != catalog.Any || payload.Categories[1].ID != 9 {
		t.Fatalf("categories = %+v", payload.Categories)
	}
}
