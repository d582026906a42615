package attempt

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edulane/edulane-api/internal/auth"
	"github.com/edulane/edulane-api/internal/config"
	"github.com/edulane/edulane-api/internal/progress"
	"github.com/edulane/edulane-api/internal/quiz"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service  AttemptService
	quizzes  quiz.QuizService
	progress progress.ProgressService
}

func NewHandler(service AttemptService, quizzes quiz.QuizService, prog progress.ProgressService) *Handler {
	return &Handler{
		service:  service,
		quizzes:  quizzes,
		progress: prog,
	}
}

func parseKind(raw string) (quiz.TestKind, bool) {
	switch raw {
	case "pre":
		return quiz.KindPreTest, true
	case "post":
		return quiz.KindPostTest, true
	default:
		return "", false
	}
}

func (h *Handler) resolveTopicQuiz(r *http.Request) (*quiz.Definition, error) {
	courseID, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		return nil, errors.New("invalid course id")
	}
	topicID, err := uuid.Parse(chi.URLParam(r, "topicID"))
	if err != nil {
		return nil, errors.New("invalid topic id")
	}
	kind, ok := parseKind(chi.URLParam(r, "kind"))
	if !ok {
		return nil, quiz.ErrInvalidKind
	}
	return h.quizzes.BuildTopicQuiz(r.Context(), courseID, topicID, kind)
}

func (h *Handler) resolveFinalQuiz(r *http.Request) (*quiz.Definition, uuid.UUID, error) {
	courseID, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		return nil, uuid.Nil, errors.New("invalid course id")
	}
	def, err := h.quizzes.BuildFinalQuiz(r.Context(), courseID)
	return def, courseID, err
}

func writeQuizError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrContentUnavailable):
		http.Error(w, "quiz content unavailable", http.StatusNotFound)
	case errors.Is(err, quiz.ErrInvalidKind):
		http.Error(w, "invalid test kind", http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func (h *Handler) StartTopicTest(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	def, err := h.resolveTopicQuiz(r)
	if err != nil {
		writeQuizError(w, err)
		return
	}

	view, err := h.service.StartOrResume(r.Context(), uuid.MustParse(claims.UserID), def)
	if err != nil {
		log.WithError(err).Error("Failed to start topic test")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, view)
}

func (h *Handler) AnswerTopicTest(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	def, err := h.resolveTopicQuiz(r)
	if err != nil {
		writeQuizError(w, err)
		return
	}

	h.answer(w, r, uuid.MustParse(claims.UserID), def)
}

func (h *Handler) SubmitTopicTest(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	def, err := h.resolveTopicQuiz(r)
	if err != nil {
		writeQuizError(w, err)
		return
	}

	h.submit(w, r, uuid.MustParse(claims.UserID), def)
}

func (h *Handler) StartFinal(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	studentID := uuid.MustParse(claims.UserID)

	def, courseID, err := h.resolveFinalQuiz(r)
	if err != nil {
		writeQuizError(w, err)
		return
	}

	unlocked, err := h.progress.CanUnlockFinalAssessment(r.Context(), studentID, courseID)
	if err != nil {
		log.WithError(err).Error("Failed to check final assessment gate")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !unlocked {
		http.Error(w, ErrFinalLocked.Error(), http.StatusForbidden)
		return
	}

	view, err := h.service.StartOrResume(r.Context(), studentID, def)
	if err != nil {
		log.WithError(err).Error("Failed to start final assessment")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, view)
}

func (h *Handler) AnswerFinal(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	def, _, err := h.resolveFinalQuiz(r)
	if err != nil {
		writeQuizError(w, err)
		return
	}

	h.answer(w, r, uuid.MustParse(claims.UserID), def)
}

func (h *Handler) SubmitFinal(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	def, _, err := h.resolveFinalQuiz(r)
	if err != nil {
		writeQuizError(w, err)
		return
	}

	h.submit(w, r, uuid.MustParse(claims.UserID), def)
}

func (h *Handler) answer(w http.ResponseWriter, r *http.Request, studentID uuid.UUID, def *quiz.Definition) {
	log := config.WithContext(r.Context())

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.QuestionID == "" {
		http.Error(w, "question_id is required", http.StatusBadRequest)
		return
	}

	ack, err := h.service.RecordAnswer(r.Context(), studentID, def, req.QuestionID, req.SelectedOption)
	if err != nil {
		switch {
		case errors.Is(err, ErrAttemptCompleted), errors.Is(err, ErrTimeExpired):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, ErrNoActiveSession):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			log.WithError(err).Error("Failed to record answer")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusOK, ack)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, studentID uuid.UUID, def *quiz.Definition) {
	log := config.WithContext(r.Context())

	result, err := h.service.Submit(r.Context(), studentID, def)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoActiveSession):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			log.WithError(err).Error("Failed to submit attempt")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusOK, result)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	attempts, err := h.service.ListByStudent(r.Context(), uuid.MustParse(claims.UserID))
	if err != nil {
		log.WithError(err).Error("Failed to list attempts")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, attempts)
}
