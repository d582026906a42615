package progress

import (
	"github.com/edulane/edulane-api/internal/grading"
	"github.com/google/uuid"
)

type TopicProgressSummary struct {
	TopicID         uuid.UUID            `json:"topic_id"`
	Percent         int                  `json:"percent"`
	Phase           Phase                `json:"phase"`
	PreTestScore    *int                 `json:"pre_test_score,omitempty"`
	PostTestScore   *int                 `json:"post_test_score,omitempty"`
	MasteryLevel    grading.MasteryLevel `json:"mastery_level,omitempty"`
	MaterialsViewed int                  `json:"materials_viewed"`
	MaterialsTotal  int                  `json:"materials_total"`
	IsCompleted     bool                 `json:"is_completed"`
}

type CourseProgressSummary struct {
	CourseID                uuid.UUID `json:"course_id"`
	CompletedTopics         int       `json:"completed_topics"`
	TotalTopics             int       `json:"total_topics"`
	Percent                 int       `json:"percent"`
	FinalAssessmentUnlocked bool      `json:"final_assessment_unlocked"`
}
