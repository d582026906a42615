package progress

import (
	"github.com/edulane/edulane-api/internal/course"
	"github.com/edulane/edulane-api/internal/enrollment"
	"gorm.io/gorm"
)

type ProgressContainer struct {
	Handler *Handler
	Service ProgressService
	Repo    ProgressRepository
}

func NewProgressContainer(db *gorm.DB, courses course.CourseService, enrollments enrollment.EnrollmentService) *ProgressContainer {
	repo := NewRepository(db)
	service := NewService(repo, courses, enrollments)
	handler := NewHandler(service)

	return &ProgressContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
