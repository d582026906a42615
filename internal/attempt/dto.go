package attempt

import (
	"time"

	"github.com/edulane/edulane-api/internal/grading"
	"github.com/edulane/edulane-api/internal/quiz"
	"github.com/google/uuid"
)

type SessionView struct {
	AttemptID        uuid.UUID            `json:"attempt_id"`
	QuizID           string               `json:"quiz_id"`
	State            SessionState         `json:"state"`
	Quiz             *quiz.Definition     `json:"quiz,omitempty"`
	Answers          map[string]string    `json:"answers,omitempty"`
	RemainingSeconds int                  `json:"remaining_seconds"`
	Score            *int                 `json:"score,omitempty"`
	MasteryLevel     grading.MasteryLevel `json:"mastery_level,omitempty"`
}

type AnswerRequest struct {
	QuestionID     string `json:"question_id"`
	SelectedOption string `json:"selected_option"`
}

type AnswerAck struct {
	Accepted         bool `json:"accepted"`
	RemainingSeconds int  `json:"remaining_seconds"`
}

type Result struct {
	AttemptID    uuid.UUID                `json:"attempt_id"`
	QuizID       string                   `json:"quiz_id"`
	Score        int                      `json:"score"`
	Passed       bool                     `json:"passed"`
	MasteryLevel grading.MasteryLevel     `json:"mastery_level"`
	Results      []grading.QuestionResult `json:"results,omitempty"`
	Persisted    bool                     `json:"persisted"`
	CompletedAt  time.Time                `json:"completed_at"`
}
