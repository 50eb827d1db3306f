package session

// Snapshot is the read-only view handed to renderers.
type Snapshot struct {
	SessionID     string        `json:"session_id,omitempty"`
	Phase         Phase         `json:"phase"`
	Category      string        `json:"category,omitempty"`
	Loading       bool          `json:"loading"`
	Error         string        `json:"error,omitempty"`
	Question      *QuestionView `json:"question,omitempty"`
	Progress      Progress      `json:"progress"`
	TimeRemaining int           `json:"time_remaining"`
	TimedOut      bool          `json:"timed_out"`
	Result        *Result       `json:"result,omitempty"`
}

type QuestionView struct {
	Index   int      `json:"index"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	// Selected is -1 when the question has no recorded answer.
	Selected int  `json:"selected"`
	IsFirst  bool `json:"is_first"`
	IsLast   bool `json:"is_last"`
}

type Progress struct {
	Current int     `json:"current"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

type Result struct {
	Score  int          `json:"score"`
	Total  int          `json:"total"`
	Review []ReviewItem `json:"review"`
}

func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:     s.ID,
		Phase:         s.Phase,
		Category:      s.Category,
		Loading:       s.Phase == PhaseLoading,
		Error:         s.ErrorMessage,
		TimeRemaining: s.Timer.Remaining,
		TimedOut:      s.TimedOut,
	}

	if total := len(s.Questions); total > 0 {
		snap.Progress = Progress{
			Current: s.CurrentIndex + 1,
			Total:   total,
			Percent: float64(s.CurrentIndex+1) / float64(total) * 100,
		}
	}

	if question, ok := s.CurrentQuestion(); ok {
		selected, answered := s.Answers[s.CurrentIndex]
		if !answered {
			selected = -1
		}
		snap.Question = &QuestionView{
			Index:    s.CurrentIndex,
			Text:     question.Text,
			Options:  question.Options,
			Selected: selected,
			IsFirst:  s.CurrentIndex == 0,
			IsLast:   s.isLast(),
		}
	}

	if s.Completed {
		snap.Result = &Result{
			Score:  s.Score,
			Total:  len(s.Questions),
			Review: s.Review,
		}
	}

	return snap
}
