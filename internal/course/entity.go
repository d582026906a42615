package course

import (
	"time"

	"github.com/edulane/edulane-api/internal/user"
	"github.com/google/uuid"
)

type Course struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `json:"description,omitempty"`
	InstructorID uuid.UUID `gorm:"column:instructor_id;not null" json:"instructor_id"`
	Instructor   user.User `gorm:"foreignKey:InstructorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Published    bool      `gorm:"default:false" json:"published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Modules []Module `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"modules,omitempty"`
}

type Module struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	CourseID   uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Title      string    `gorm:"not null" json:"title"`
	OrderIndex int       `gorm:"not null" json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Topics []Topic `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"topics,omitempty"`
}

type Topic struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	ModuleID   uuid.UUID `gorm:"type:uuid;not null;index" json:"module_id"`
	CourseID   uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Title      string    `gorm:"not null" json:"title"`
	OrderIndex int       `gorm:"not null" json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Materials []Material `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE" json:"materials,omitempty"`
}

type Material struct {
	ID         uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	TopicID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"topic_id"`
	Title      string       `gorm:"not null" json:"title"`
	Kind       MaterialKind `gorm:"not null" json:"kind"`
	ContentURL string       `json:"content_url,omitempty"`
	OrderIndex int          `gorm:"not null" json:"order_index"`
	Required   bool         `gorm:"default:true" json:"required"`
	CreatedAt  time.Time    `json:"created_at"`
}
