package course

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
	service CourseService
}

func NewHandler(s CourseService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var c Course
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		log.WithError(err).Error("Invalid request body for course creation")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if c.Title == "" {
		http.Error(w, "course title required", http.StatusBadRequest)
		return
	}

	c.InstructorID = uuid.MustParse(claims.UserID)

	created, err := h.service.CreateCourse(r.Context(), &c)
	if err != nil {
		log.WithError(err).Error("Failed to create course")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusCreated, created)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid course id", http.StatusBadRequest)
		return
	}

	c, err := h.service.GetCourse(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			http.Error(w, "course not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to get course")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, c)
}

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	courses, err := h.service.ListCourses(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list courses")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, courses)
}

func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid course id", http.StatusBadRequest)
		return
	}

	var c Course
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		log.WithError(err).Error("Invalid request body for course update")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	c.ID = id

	updated, err := h.service.UpdateCourse(r.Context(), uuid.MustParse(claims.UserID), &c)
	if err != nil {
		switch {
		case errors.Is(err, ErrCourseNotFound):
			http.Error(w, "course not found", http.StatusNotFound)
		case errors.Is(err, ErrUnauthorized):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			log.WithError(err).Error("Failed to update course")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid course id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteCourse(r.Context(), uuid.MustParse(claims.UserID), id); err != nil {
		switch {
		case errors.Is(err, ErrCourseNotFound):
			http.Error(w, "course not found", http.StatusNotFound)
		case errors.Is(err, ErrUnauthorized):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			log.WithError(err).Error("Failed to delete course")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusOK, map[string]string{
		"message": "course deleted successfully",
	})
}

func (h *Handler) AddModule(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid course id", http.StatusBadRequest)
		return
	}

	var m Module
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		log.WithError(err).Error("Invalid request body for module creation")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	m.CourseID = courseID

	created, err := h.service.AddModule(r.Context(), &m)
	if err != nil {
		log.WithError(err).Error("Failed to create module")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusCreated, created)
}

func (h *Handler) AddTopic(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	moduleID, err := uuid.Parse(chi.URLParam(r, "moduleID"))
	if err != nil {
		http.Error(w, "invalid module id", http.StatusBadRequest)
		return
	}

	var t Topic
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		log.WithError(err).Error("Invalid request body for topic creation")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	t.ModuleID = moduleID

	created, err := h.service.AddTopic(r.Context(), &t)
	if err != nil {
		log.WithError(err).Error("Failed to create topic")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusCreated, created)
}

func (h *Handler) GetTopic(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "topicID"))
	if err != nil {
		http.Error(w, "invalid topic id", http.StatusBadRequest)
		return
	}

	t, err := h.service.GetTopic(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTopicNotFound) {
			http.Error(w, "topic not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to get topic")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, t)
}

func (h *Handler) AddMaterial(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	topicID, err := uuid.Parse(chi.URLParam(r, "topicID"))
	if err != nil {
		http.Error(w, "invalid topic id", http.StatusBadRequest)
		return
	}

	var m Material
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		log.WithError(err).Error("Invalid request body for material creation")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	m.TopicID = topicID

	created, err := h.service.AddMaterial(r.Context(), &m)
	if err != nil {
		if errors.Is(err, ErrInvalidKind) {
			http.Error(w, "invalid material kind", http.StatusBadRequest)
			return
		}
		log.WithError(err).Error("Failed to create material")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusCreated, created)
}

func (h *Handler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	topicID, err := uuid.Parse(chi.URLParam(r, "topicID"))
	if err != nil {
		http.Error(w, "invalid topic id", http.StatusBadRequest)
		return
	}

	materials, err := h.service.ListMaterials(r.Context(), topicID)
	if err != nil {
		log.WithError(err).Error("Failed to list materials")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, materials)
}
