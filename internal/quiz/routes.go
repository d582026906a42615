package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/questions", h.AddQuestions)
	r.Delete("/questions/{questionID}", h.RemoveQuestion)
	r.Get("/{quizID}/seb", h.SecureBrowserConfig)
	return r
}
