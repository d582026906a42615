package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/edulane/edulane-api/internal/attempt"
	"github.com/edulane/edulane-api/internal/auth"
	"github.com/edulane/edulane-api/internal/course"
	"github.com/edulane/edulane-api/internal/enrollment"
	"github.com/edulane/edulane-api/internal/middlewares"
	"github.com/edulane/edulane-api/internal/progress"
	"github.com/edulane/edulane-api/internal/quiz"
	"github.com/edulane/edulane-api/internal/user"
)

type RouterConfig struct {
	UserHandler       *user.Handler
	CourseHandler     *course.Handler
	EnrollmentHandler *enrollment.Handler
	QuizHandler       *quiz.Handler
	ProgressHandler   *progress.Handler
	AttemptHandler    *attempt.Handler
}

func New(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", cfg.UserHandler.GoogleLogin)
		r.Post("/refresh", cfg.UserHandler.RefreshToken)
		r.Post("/logout", auth.NewHandler().Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/users", user.Routes(cfg.UserHandler))
		r.Mount("/courses", course.Routes(cfg.CourseHandler))
		r.Mount("/enrollments", enrollment.Routes(cfg.EnrollmentHandler))
		r.Mount("/quizzes", quiz.Routes(cfg.QuizHandler))
		r.Mount("/progress", progress.Routes(cfg.ProgressHandler))
		r.Mount("/attempts", attempt.Routes(cfg.AttemptHandler))
	})
	return r
}
