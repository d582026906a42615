package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/edulane/edulane-api/internal/config"
	"github.com/google/uuid"
)

var (
	// ErrContentUnavailable covers missing topics and empty question sets; it
	// is surfaced to the UI as an explicit state, never as a scoring error.
	ErrContentUnavailable = errors.New("quiz content unavailable")
	ErrInvalidKind        = errors.New("invalid test kind")
	ErrInvalidQuizID      = errors.New("invalid quiz identifier")
)

const (
	defaultPassingScore = 70

	preTestTimeLimitMinutes  = 10
	postTestTimeLimitMinutes = 20
	finalTimeLimitMinutes    = 45
)

type QuizService interface {
	BuildTopicQuiz(ctx context.Context, courseID, topicID uuid.UUID, kind TestKind) (*Definition, error)
	BuildFinalQuiz(ctx context.Context, courseID uuid.UUID) (*Definition, error)
	AddQuestions(ctx context.Context, questions []*Question) error
	RemoveQuestion(ctx context.Context, questionID uuid.UUID) error
}

type quizService struct {
	repo QuestionRepository
}

func NewService(repo QuestionRepository) QuizService {
	return &quizService{repo: repo}
}

func (s *quizService) BuildTopicQuiz(ctx context.Context, courseID, topicID uuid.UUID, kind TestKind) (*Definition, error) {
	log := config.WithContext(ctx)

	if kind != KindPreTest && kind != KindPostTest {
		return nil, ErrInvalidKind
	}

	questions, err := s.repo.ListByTopicAndKind(topicID, kind)
	if err != nil {
		log.WithError(err).Error("Failed to load topic question bank")
		return nil, err
	}
	if len(questions) == 0 {
		log.WithField("topic_id", topicID).Warn("Topic has no questions for requested kind")
		return nil, ErrContentUnavailable
	}

	limit := preTestTimeLimitMinutes
	if kind == KindPostTest {
		limit = postTestTimeLimitMinutes
	}

	return &Definition{
		ID:               Key(topicID, kind),
		Title:            fmt.Sprintf("%s assessment", kind),
		Kind:             kind,
		CourseID:         courseID,
		TopicID:          &topicID,
		Questions:        questions,
		TimeLimitMinutes: limit,
		MaxAttempts:      1,
		PassingScore:     defaultPassingScore,
	}, nil
}

func (s *quizService) BuildFinalQuiz(ctx context.Context, courseID uuid.UUID) (*Definition, error) {
	log := config.WithContext(ctx)

	questions, err := s.repo.ListByCourseFinal(courseID)
	if err != nil {
		log.WithError(err).Error("Failed to load final assessment question bank")
		return nil, err
	}
	if len(questions) == 0 {
		log.WithField("course_id", courseID).Warn("Course has no final assessment questions")
		return nil, ErrContentUnavailable
	}

	return &Definition{
		ID:                    Key(courseID, KindFinal),
		Title:                 "Final assessment",
		Kind:                  KindFinal,
		CourseID:              courseID,
		Questions:             questions,
		TimeLimitMinutes:      finalTimeLimitMinutes,
		MaxAttempts:           1,
		PassingScore:          defaultPassingScore,
		RequiresSecureBrowser: true,
	}, nil
}

func (s *quizService) AddQuestions(ctx context.Context, questions []*Question) error {
	log := config.WithContext(ctx)

	for _, q := range questions {
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		if !q.Kind.IsValid() {
			return ErrInvalidKind
		}
		if q.Points <= 0 {
			q.Points = 1
		}
	}

	if err := s.repo.AddQuestions(questions); err != nil {
		log.WithError(err).Error("Failed to add questions")
		return err
	}

	log.WithField("count", len(questions)).Info("Questions added to bank")
	return nil
}

func (s *quizService) RemoveQuestion(ctx context.Context, questionID uuid.UUID) error {
	log := config.WithContext(ctx)

	if err := s.repo.DeleteQuestion(questionID); err != nil {
		log.WithError(err).Error("Failed to remove question")
		return err
	}

	log.WithField("question_id", questionID).Info("Question removed")
	return nil
}
