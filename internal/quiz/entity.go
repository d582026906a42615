package quiz

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Question is a bank row scoped to a topic (pre/post tests) or to a course
// (final assessment).
type Question struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TopicID       *uuid.UUID     `gorm:"type:uuid;index" json:"topic_id,omitempty"`
	CourseID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"course_id"`
	Kind          TestKind       `gorm:"not null;index" json:"kind"`
	Prompt        string         `gorm:"type:text;not null" json:"prompt"`
	Options       datatypes.JSON `gorm:"type:jsonb;not null" json:"options"`
	CorrectOption string         `gorm:"type:text;not null" json:"correct_option,omitempty"`
	Points        int            `gorm:"not null;default:1" json:"points"`
	Difficulty    string         `json:"difficulty,omitempty"`
	Explanation   *string        `gorm:"type:text" json:"explanation,omitempty"`
	OrderIndex    int            `gorm:"not null" json:"order_index"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// Definition is the immutable quiz handed to a session: assembled from the
// question bank, never persisted as its own row.
type Definition struct {
	ID                    string     `json:"id"`
	Title                 string     `json:"title"`
	Kind                  TestKind   `json:"kind"`
	CourseID              uuid.UUID  `json:"course_id"`
	TopicID               *uuid.UUID `json:"topic_id,omitempty"`
	Questions             []Question `json:"questions"`
	TimeLimitMinutes      int        `json:"time_limit_minutes"`
	MaxAttempts           int        `json:"max_attempts"`
	PassingScore          int        `json:"passing_score"`
	RequiresSecureBrowser bool       `json:"requires_secure_browser"`
}

func (d *Definition) TimeLimit() time.Duration {
	return time.Duration(d.TimeLimitMinutes) * time.Minute
}

// Sanitized returns a copy safe to serve to students: answer keys and
// explanations are stripped until the attempt is completed.
func (d *Definition) Sanitized() *Definition {
	out := *d
	out.Questions = make([]Question, len(d.Questions))
	for i, q := range d.Questions {
		q.CorrectOption = ""
		q.Explanation = nil
		out.Questions[i] = q
	}
	return &out
}
