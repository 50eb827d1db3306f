package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"trivia-quiz/internal/session"
)

const progressWidth = 20

// terminal renders snapshots as they arrive from the controller. Output from
// the command loop goes through the same lock.
type terminal struct {
	mu   sync.Mutex
	out  io.Writer
	prev session.Snapshot

	settled chan session.Snapshot
}

func newTerminal(out io.Writer) *terminal {
	return &terminal{
		out:     out,
		prev:    session.Snapshot{Phase: session.PhaseIdle},
		settled: make(chan session.Snapshot, 1),
	}
}

func (t *terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

func (t *terminal) Render(snap session.Snapshot) {
	t.mu.Lock()
	prev := t.prev
	t.prev = snap

	switch snap.Phase {
	case session.PhaseLoading:
		if prev.Phase != session.PhaseLoading {
			fmt.Fprintln(t.out, "Loading questions...")
		}
	case session.PhaseError:
		if prev.Phase != session.PhaseError {
			fmt.Fprintf(t.out, "Could not load questions: %s\n", snap.Error)
			fmt.Fprintln(t.out, "Type 'retry' to try again or 'restart' to pick another category.")
		}
	case session.PhaseActive:
		t.renderActive(prev, snap)
	case session.PhaseCompleted:
		if prev.Phase != session.PhaseCompleted {
			if snap.TimedOut {
				fmt.Fprintln(t.out, "Time's up!")
			}
			writeResults(t.out, snap.Result)
		}
	case session.PhaseIdle:
		if prev.Phase != session.PhaseIdle {
			fmt.Fprintln(t.out, "Quiz reset. Type 'start [category]' to play again.")
		}
	}
	t.mu.Unlock()

	if snap.Phase != session.PhaseLoading && prev.Phase == session.PhaseLoading {
		select {
		case t.settled <- snap:
		default:
		}
	}
}

func (t *terminal) renderActive(prev, snap session.Snapshot) {
	question := snap.Question
	if question == nil {
		return
	}

	moved := prev.Phase != session.PhaseActive || prev.Question == nil || prev.Question.Index != question.Index
	if moved {
		if snap.TimedOut {
			fmt.Fprintln(t.out, "Time's up!")
		}
		writeQuestion(t.out, snap)
		return
	}

	if question.Selected != prev.Question.Selected && question.Selected >= 0 {
		fmt.Fprintf(t.out, "Selected %s. %s\n", optionLetter(question.Selected), question.Options[question.Selected])
	}

	if snap.TimeRemaining != prev.TimeRemaining && shouldAnnounce(snap.TimeRemaining) {
		fmt.Fprintf(t.out, "%ds left\n", snap.TimeRemaining)
	}
}

func shouldAnnounce(remaining int) bool {
	return remaining == 20 || remaining == 10 || (remaining > 0 && remaining <= 5)
}

func writeQuestion(out io.Writer, snap session.Snapshot) {
	question := snap.Question
	progress := snap.Progress

	filled := int(progress.Percent / 100 * progressWidth)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Question %d/%d [%s%s] %.0f%%\n",
		progress.Current,
		progress.Total,
		strings.Repeat("#", filled),
		strings.Repeat("-", progressWidth-filled),
		progress.Percent,
	)
	fmt.Fprintf(out, "%s\n\n", question.Text)
	for idx, option := range question.Options {
		marker := " "
		if idx == question.Selected {
			marker = "*"
		}
		fmt.Fprintf(out, " %s %s. %s\n", marker, optionLetter(idx), option)
	}
	fmt.Fprintln(out)

	nav := []string{}
	if !question.IsFirst {
		nav = append(nav, "prev")
	}
	if question.IsLast {
		nav = append(nav, "submit")
	} else {
		nav = append(nav, "next", "submit")
	}
	fmt.Fprintf(out, "Time left: %ds | answer A-%s | %s\n", snap.TimeRemaining, optionLetter(len(question.Options)-1), strings.Join(nav, ", "))
}

func writeResults(out io.Writer, result *session.Result) {
	if result == nil {
		return
	}

	fmt.Fprintf(out, "\nFinal score: %d/%d\n\n", result.Score, result.Total)
	for _, item := range result.Review {
		verdict := "Incorrect"
		if item.Correct {
			verdict = "Correct"
		}
		fmt.Fprintf(out, "%d. %s\n", item.Number, item.Question)
		fmt.Fprintf(out, "   Your answer: %s\n", item.YourAnswer)
		fmt.Fprintf(out, "   Correct answer: %s\n", item.CorrectAnswer)
		fmt.Fprintf(out, "   %s\n", verdict)
	}
	fmt.Fprintln(out, "\nType 'restart' to play again.")
}

func optionLetter(index int) string {
	if index < 0 || index > 25 {
		return "?"
	}
	return string(rune('A' + index))
}
