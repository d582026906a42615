package progress

import (
	"errors"
	"net/http"

	"github.com/edulane/edulane-api/internal/auth"
	"github.com/edulane/edulane-api/internal/config"
	"github.com/edulane/edulane-api/internal/course"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service ProgressService
}

func NewHandler(s ProgressService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) TopicSummary(w http.ResponseWriter, r *http.Request) {
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
	topicID, err := uuid.Parse(chi.URLParam(r, "topicID"))
	if err != nil {
		http.Error(w, "invalid topic id", http.StatusBadRequest)
		return
	}

	summary, err := h.service.TopicSummary(r.Context(), uuid.MustParse(claims.UserID), courseID, topicID)
	if err != nil {
		log.WithError(err).Error("Failed to build topic progress summary")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, summary)
}

func (h *Handler) CourseSummary(w http.ResponseWriter, r *http.Request) {
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

	summary, err := h.service.CourseSummary(r.Context(), uuid.MustParse(claims.UserID), courseID)
	if err != nil {
		log.WithError(err).Error("Failed to build course progress summary")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, summary)
}

// StudentCourseSummary serves instructor dashboards; students may only read
// their own rows through the routes above.
func (h *Handler) StudentCourseSummary(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if claims.Role == "STUDENT" {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	courseID, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		http.Error(w, "invalid course id", http.StatusBadRequest)
		return
	}
	studentID, err := uuid.Parse(chi.URLParam(r, "studentID"))
	if err != nil {
		http.Error(w, "invalid student id", http.StatusBadRequest)
		return
	}

	summary, err := h.service.CourseSummary(r.Context(), studentID, courseID)
	if err != nil {
		log.WithError(err).Error("Failed to build student course summary")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, summary)
}

func (h *Handler) MarkMaterialViewed(w http.ResponseWriter, r *http.Request) {
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
	topicID, err := uuid.Parse(chi.URLParam(r, "topicID"))
	if err != nil {
		http.Error(w, "invalid topic id", http.StatusBadRequest)
		return
	}
	materialID, err := uuid.Parse(chi.URLParam(r, "materialID"))
	if err != nil {
		http.Error(w, "invalid material id", http.StatusBadRequest)
		return
	}

	studentID := uuid.MustParse(claims.UserID)
	if err := h.service.MarkMaterialViewed(r.Context(), studentID, courseID, topicID, materialID); err != nil {
		switch {
		case errors.Is(err, course.ErrMaterialNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrMaterialNotInTopic):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.WithError(err).Error("Failed to mark material viewed")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	summary, err := h.service.TopicSummary(r.Context(), studentID, courseID, topicID)
	if err != nil {
		log.WithError(err).Error("Failed to rebuild topic summary after view")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, summary)
}
