package attempt

import (
	"github.com/edulane/edulane-api/internal/progress"
	"github.com/edulane/edulane-api/internal/quiz"
	util "github.com/edulane/edulane-api/internal/utils"
	"gorm.io/gorm"
)

type AttemptContainer struct {
	Handler *Handler
	Service AttemptService
	Repo    AttemptRepository
}

func NewAttemptContainer(db *gorm.DB, quizzes quiz.QuizService, prog progress.ProgressService, clock util.Clock) *AttemptContainer {
	repo := NewRepository(db)
	service := NewService(repo, prog, clock)
	handler := NewHandler(service, quizzes, prog)

	return &AttemptContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
