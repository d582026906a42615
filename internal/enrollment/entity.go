package enrollment

import (
	"time"

	"github.com/edulane/edulane-api/internal/course"
	"github.com/edulane/edulane-api/internal/user"
	"github.com/google/uuid"
)

type Enrollment struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	StudentID uuid.UUID     `gorm:"column:student_id;not null;index:idx_enrollment_student_course,unique" json:"student_id"`
	Student   user.User     `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CourseID  uuid.UUID     `gorm:"column:course_id;not null;index:idx_enrollment_student_course,unique" json:"course_id"`
	Course    course.Course `gorm:"foreignKey:CourseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// Progress is owned by the progress aggregator; nothing else writes it.
	Progress    int        `gorm:"not null;default:0" json:"progress"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type StudentGroup struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CourseID  uuid.UUID `gorm:"column:course_id;not null;index" json:"course_id"`
	CreatedAt time.Time `json:"created_at"`

	Members []GroupMember `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

type GroupMember struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	GroupID   uuid.UUID `gorm:"column:group_id;not null;index:idx_group_member,unique" json:"group_id"`
	StudentID uuid.UUID `gorm:"column:student_id;not null;index:idx_group_member,unique" json:"student_id"`
	JoinedAt  time.Time `json:"joined_at"`
}
