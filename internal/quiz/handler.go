package quiz

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
	service QuizService
}

func NewHandler(s QuizService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) AddQuestions(w http.ResponseWriter, r *http.Request) {
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

	var questions []*Question
	if err := json.NewDecoder(r.Body).Decode(&questions); err != nil {
		log.WithError(err).Error("Invalid request body for question creation")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(questions) == 0 {
		http.Error(w, "at least one question required", http.StatusBadRequest)
		return
	}

	if err := h.service.AddQuestions(r.Context(), questions); err != nil {
		if errors.Is(err, ErrInvalidKind) {
			http.Error(w, "invalid test kind", http.StatusBadRequest)
			return
		}
		log.WithError(err).Error("Failed to add questions")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusCreated, questions)
}

func (h *Handler) RemoveQuestion(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	questionID, err := uuid.Parse(chi.URLParam(r, "questionID"))
	if err != nil {
		http.Error(w, "invalid question id", http.StatusBadRequest)
		return
	}

	if err := h.service.RemoveQuestion(r.Context(), questionID); err != nil {
		log.WithError(err).Error("Failed to remove question")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, map[string]string{
		"message": "question removed successfully",
	})
}

// SecureBrowserConfig exposes the only two fields the downstream secure exam
// browser generator consumes: the quiz identifier and whether it applies.
func (h *Handler) SecureBrowserConfig(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")

	_, kind, err := ParseKey(quizID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	config.JSON(w, http.StatusOK, map[string]interface{}{
		"quiz_id":                 quizID,
		"requires_secure_browser": kind == KindFinal,
	})
}
