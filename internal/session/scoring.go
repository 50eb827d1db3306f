package session

import "trivia-quiz/internal/quiz"

// NotAnswered stands in for the chosen option of a skipped question.
const NotAnswered = "Not answered"

type ReviewItem struct {
	Number        int    `json:"number"`
	Question      string `json:"question"`
	YourAnswer    string `json:"your_answer"`
	Answered      bool   `json:"answered"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
}

func Score(questions []quiz.Question, answers map[int]int) int {
	score := 0
	for idx, question := range questions {
		if chosen, ok := answers[idx]; ok && chosen == question.CorrectAnswer {
			score++
		}
	}
	return score
}

func BuildReview(questions []quiz.Question, answers map[int]int) []ReviewItem {
	review := make([]ReviewItem, 0, len(questions))
	for idx, question := range questions {
		item := ReviewItem{
			Number:        idx + 1,
			Question:      question.Text,
			YourAnswer:    NotAnswered,
			CorrectAnswer: question.CorrectText(),
		}
		if chosen, ok := answers[idx]; ok {
			if text := quiz.OptionText(question.Options, chosen); text != "" {
				item.YourAnswer = text
				item.Answered = true
			}
			item.Correct = chosen == question.CorrectAnswer
		}
		review = append(review, item)
	}
	return review
}
