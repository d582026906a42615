package quiz

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	AddQuestions(questions []*Question) error
	ListByTopicAndKind(topicID uuid.UUID, kind TestKind) ([]Question, error)
	ListByCourseFinal(courseID uuid.UUID) ([]Question, error)
	DeleteQuestion(id uuid.UUID) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) AddQuestions(questions []*Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.Create(&questions).Error
}

func (r *questionRepository) ListByTopicAndKind(topicID uuid.UUID, kind TestKind) ([]Question, error) {
	var questions []Question
	if err := r.db.
		Where("topic_id = ? AND kind = ?", topicID, kind).
		Order("order_index ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) ListByCourseFinal(courseID uuid.UUID) ([]Question, error) {
	var questions []Question
	if err := r.db.
		Where("course_id = ? AND kind = ?", courseID, KindFinal).
		Order("order_index ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) DeleteQuestion(id uuid.UUID) error {
	return r.db.Delete(&Question{}, "id = ?", id).Error
}
