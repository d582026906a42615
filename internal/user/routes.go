package user

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/me", h.GetUser)
	r.Patch("/me", h.UpdateProfile)
	r.Get("/students", h.ListStudents)
	return r
}
