package progress

import (
	"time"

	"github.com/edulane/edulane-api/internal/grading"
	"github.com/google/uuid"
)

// TopicProgress keeps one row per (student, topic, type); writes go through
// an upsert so re-recording a milestone replaces the previous row instead of
// duplicating it. TopicID is null for course-level rows.
type TopicProgress struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	StudentID uuid.UUID  `gorm:"column:student_id;not null;uniqueIndex:idx_topic_progress_key" json:"student_id"`
	CourseID  uuid.UUID  `gorm:"column:course_id;not null;index" json:"course_id"`
	TopicID   *uuid.UUID `gorm:"column:topic_id;uniqueIndex:idx_topic_progress_key" json:"topic_id,omitempty"`

	Type         ProgressType          `gorm:"column:progress_type;not null;uniqueIndex:idx_topic_progress_key" json:"progress_type"`
	Score        *int                  `json:"score,omitempty"`
	IsCompleted  bool                  `gorm:"not null;default:false" json:"is_completed"`
	MasteryLevel grading.MasteryLevel  `json:"mastery_level,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TopicProgress) TableName() string { return "topic_progress" }

// MaterialView records that a student viewed one learning material. The
// (student, material) pair is unique; repeat views are no-ops.
type MaterialView struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	StudentID  uuid.UUID `gorm:"column:student_id;not null;uniqueIndex:idx_material_view_key" json:"student_id"`
	TopicID    uuid.UUID `gorm:"column:topic_id;not null;index" json:"topic_id"`
	MaterialID uuid.UUID `gorm:"column:material_id;not null;uniqueIndex:idx_material_view_key" json:"material_id"`
	ViewedAt   time.Time `json:"viewed_at"`
}

func (MaterialView) TableName() string { return "material_views" }
