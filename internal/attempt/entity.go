package attempt

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Attempt is the persisted record of one student run through a quiz. The
// Answers column always holds the full snapshot, never a delta, so a lost
// push is healed by the next one.
type Attempt struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID      string         `gorm:"not null;index:idx_attempts_student_quiz" json:"quiz_id"`
	StudentID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_attempts_student_quiz" json:"student_id"`
	Status      Status         `gorm:"not null;default:'in_progress'" json:"status"`
	Answers     datatypes.JSON `gorm:"type:jsonb" json:"answers,omitempty"`
	Score       *int           `json:"score,omitempty"`
	StartedAt   time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

func (Attempt) TableName() string {
	return "quiz_attempts"
}
