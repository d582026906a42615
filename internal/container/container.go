package container

import (
	"context"
	"log"
	"os"

	"github.com/edulane/edulane-api/internal/attempt"
	"github.com/edulane/edulane-api/internal/auth"
	"github.com/edulane/edulane-api/internal/config"
	"github.com/edulane/edulane-api/internal/course"
	"github.com/edulane/edulane-api/internal/enrollment"
	"github.com/edulane/edulane-api/internal/progress"
	"github.com/edulane/edulane-api/internal/quiz"
	"github.com/edulane/edulane-api/internal/user"
	util "github.com/edulane/edulane-api/internal/utils"
)

type Container struct {
	UserContainer       *user.UserContainer
	CourseContainer     *course.CourseContainer
	EnrollmentContainer *enrollment.EnrollmentContainer
	QuizContainer       *quiz.QuizContainer
	ProgressContainer   *progress.ProgressContainer
	AttemptContainer    *attempt.AttemptContainer
}

func New() *Container {
	config.Init()
	auth.Init()
	config.InitCrypto()

	dsn := os.Getenv("DATABASE_DSN")
	if err := config.Connect(context.Background(), dsn); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}

	userContainer := user.NewUserContainer(config.DB)
	courseContainer := course.NewCourseContainer(config.DB)
	enrollmentContainer := enrollment.NewEnrollmentContainer(config.DB)
	quizContainer := quiz.NewQuizContainer(config.DB)

	progressContainer := progress.NewProgressContainer(
		config.DB,
		courseContainer.Service,
		enrollmentContainer.Service,
	)

	attemptContainer := attempt.NewAttemptContainer(
		config.DB,
		quizContainer.Service,
		progressContainer.Service,
		util.NewClock(),
	)

	return &Container{
		UserContainer:       userContainer,
		CourseContainer:     courseContainer,
		EnrollmentContainer: enrollmentContainer,
		QuizContainer:       quizContainer,
		ProgressContainer:   progressContainer,
		AttemptContainer:    attemptContainer,
	}
}
