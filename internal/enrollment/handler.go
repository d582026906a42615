package enrollment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edulane/edulane-api/internal/auth"
	"github.com/edulane/edulane-api/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service EnrollmentService
}

func NewHandler(s EnrollmentService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	courseID, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		http.Error(w, "invalid course id", http.StatusBadRequest)
		return
	}

	e, err := h.service.Enroll(r.Context(), uuid.MustParse(claims.UserID), courseID)
	if err != nil {
		if errors.Is(err, ErrAlreadyEnrolled) {
			http.Error(w, "already enrolled", http.StatusConflict)
			return
		}
		log.WithError(err).Error("Failed to enroll student")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusCreated, e)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	enrollments, err := h.service.ListByStudent(r.Context(), uuid.MustParse(claims.UserID))
	if err != nil {
		log.WithError(err).Error("Failed to list enrollments")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, enrollments)
}

func (h *Handler) Roster(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	courseID, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		http.Error(w, "invalid course id", http.StatusBadRequest)
		return
	}

	roster, err := h.service.Roster(r.Context(), courseID)
	if err != nil {
		log.WithError(err).Error("Failed to list course roster")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, roster)
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	courseID, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		http.Error(w, "invalid course id", http.StatusBadRequest)
		return
	}

	var g StudentGroup
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil || g.Name == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	g.CourseID = courseID

	created, err := h.service.CreateGroup(r.Context(), &g)
	if err != nil {
		log.WithError(err).Error("Failed to create group")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusCreated, created)
}

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	courseID, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		http.Error(w, "invalid course id", http.StatusBadRequest)
		return
	}

	groups, err := h.service.ListGroups(r.Context(), courseID)
	if err != nil {
		log.WithError(err).Error("Failed to list groups")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, groups)
}

func (h *Handler) AddGroupMember(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return
	}

	var payload struct {
		StudentID uuid.UUID `json:"student_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.StudentID == uuid.Nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.AddGroupMember(r.Context(), groupID, payload.StudentID); err != nil {
		log.WithError(err).Error("Failed to add group member")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusCreated, map[string]string{
		"message": "member added successfully",
	})
}
