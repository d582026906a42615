package course

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.CreateCourse)
	r.Get("/", h.ListCourses)
	r.Get("/{id}", h.GetCourse)
	r.Put("/{id}", h.UpdateCourse)
	r.Delete("/{id}", h.DeleteCourse)

	r.Post("/{id}/modules", h.AddModule)
	r.Post("/modules/{moduleID}/topics", h.AddTopic)
	r.Get("/topics/{topicID}", h.GetTopic)
	r.Post("/topics/{topicID}/materials", h.AddMaterial)
	r.Get("/topics/{topicID}/materials", h.ListMaterials)
	return r
}
