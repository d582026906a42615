package attempt

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/courses/{courseID}/topics/{topicID}/tests/{kind}/start", h.StartTopicTest)
	r.Post("/courses/{courseID}/topics/{topicID}/tests/{kind}/answers", h.AnswerTopicTest)
	r.Post("/courses/{courseID}/topics/{topicID}/tests/{kind}/submit", h.SubmitTopicTest)

	r.Post("/courses/{courseID}/final/start", h.StartFinal)
	r.Post("/courses/{courseID}/final/answers", h.AnswerFinal)
	r.Post("/courses/{courseID}/final/submit", h.SubmitFinal)

	r.Get("/mine", h.ListMine)
	return r
}
