package progress

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/courses/{courseID}", h.CourseSummary)
	r.Get("/courses/{courseID}/topics/{topicID}", h.TopicSummary)
	r.Get("/courses/{courseID}/students/{studentID}", h.StudentCourseSummary)
	r.Post("/courses/{courseID}/topics/{topicID}/materials/{materialID}/view", h.MarkMaterialViewed)
	return r
}
