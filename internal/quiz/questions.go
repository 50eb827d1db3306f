package quiz

import (
	"html"
	"math/rand"

	"trivia-quiz/internal/opentdb"
)

// Question is immutable once built: CorrectAnswer indexes Options after the
// shuffle and never changes.
type Question struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

func (q Question) CorrectText() string {
	return OptionText(q.Options, q.CorrectAnswer)
}

// Builder turns raw payload items into questions. Intn picks the swap
// partner during the shuffle and defaults to math/rand.
type Builder struct {
	Intn func(n int) int
}

func BuildQuestions(raw []opentdb.RawQuestion) []Question {
	return Builder{}.Build(raw)
}

func (b Builder) Build(raw []opentdb.RawQuestion) []Question {
	questions := make([]Question, 0, len(raw))
	for _, item := range raw {
		questions = append(questions, b.buildQuestion(item))
	}
	return questions
}

func (b Builder) buildQuestion(raw opentdb.RawQuestion) Question {
	type choice struct {
		text      string
		isCorrect bool
	}

	choices := make([]choice, 0, len(raw.IncorrectAnswers)+1)
	for _, incorrect := range raw.IncorrectAnswers {
		choices = append(choices, choice{text: html.UnescapeString(incorrect)})
	}
	choices = append(choices, choice{
		text:      html.UnescapeString(raw.CorrectAnswer),
		isCorrect: true,
	})

	intn := b.Intn
	if intn == nil {
		intn = rand.Intn
	}
	for i := len(choices) - 1; i > 0; i-- {
		j := intn(i + 1)
		choices[i], choices[j] = choices[j], choices[i]
	}

	options := make([]string, len(choices))
	correctAnswer := -1
	for idx, candidate := range choices {
		options[idx] = candidate.text
		if candidate.isCorrect {
			correctAnswer = idx
		}
	}

	return Question{
		Text:          html.UnescapeString(raw.Question),
		Options:       options,
		CorrectAnswer: correctAnswer,
	}
}

func OptionText(options []string, index int) string {
	if index < 0 || index >= len(options) {
		return ""
	}
	return options[index]
}
