package enrollment

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/{courseID}", h.Enroll)
	r.Get("/", h.ListMine)
	r.Get("/{courseID}/roster", h.Roster)
	r.Post("/{courseID}/groups", h.CreateGroup)
	r.Get("/{courseID}/groups", h.ListGroups)
	r.Post("/groups/{groupID}/members", h.AddGroupMember)
	return r
}
