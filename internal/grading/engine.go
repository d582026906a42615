package grading

import (
	"math"

	"github.com/edulane/edulane-api/internal/quiz"
)

// QuestionResult is the per-question correctness breakdown returned alongside
// the percentage score.
type QuestionResult struct {
	QuestionID string `json:"question_id"`
	Chosen     string `json:"chosen,omitempty"`
	Correct    bool   `json:"correct"`
	Points     int    `json:"points"`
	Awarded    int    `json:"awarded"`
}

// Score computes the points-weighted percentage for an answer map. Exact
// option match only, no partial credit. A quiz with zero questions (or zero
// total points) scores 0 rather than dividing by zero.
func Score(questions []quiz.Question, answers map[string]string) (int, []QuestionResult) {
	results := make([]QuestionResult, 0, len(questions))

	total := 0
	awarded := 0
	for _, q := range questions {
		chosen := answers[q.ID.String()]
		correct := chosen != "" && chosen == q.CorrectOption

		points := q.Points
		if points < 0 {
			points = 0
		}
		total += points

		res := QuestionResult{
			QuestionID: q.ID.String(),
			Chosen:     chosen,
			Correct:    correct,
			Points:     points,
		}
		if correct {
			res.Awarded = points
			awarded += points
		}
		results = append(results, res)
	}

	if total == 0 {
		return 0, results
	}

	pct := int(math.Round(float64(awarded) / float64(total) * 100))
	return pct, results
}

// Passed applies a quiz-specific passing threshold to a percentage score.
func Passed(score, passingScore int) bool {
	return score >= passingScore
}
