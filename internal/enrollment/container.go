package enrollment

import "gorm.io/gorm"

type EnrollmentContainer struct {
	Handler *Handler
	Service EnrollmentService
	Repo    EnrollmentRepository
}

func NewEnrollmentContainer(db *gorm.DB) *EnrollmentContainer {
	repo := NewRepository(db)
	service := NewService(repo)
	handler := NewHandler(service)

	return &EnrollmentContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
