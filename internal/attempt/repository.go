package attempt

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(a *Attempt) error
	GetByID(id uuid.UUID) (*Attempt, error)
	// FindLatest returns the newest attempt whose quiz id matches any of the
	// given identifiers, or nil when the student has never started this quiz.
	FindLatest(studentID uuid.UUID, quizIDs []string) (*Attempt, error)
	ListByStudent(studentID uuid.UUID) ([]Attempt, error)
	UpdateAnswers(id uuid.UUID, answers datatypes.JSON) error
	// Complete flips an in_progress attempt to completed and reports whether
	// this call won the flip. An attempt that is already completed is left
	// untouched and Complete returns false.
	Complete(id uuid.UUID, answers datatypes.JSON, score int, completedAt time.Time) (bool, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(a *Attempt) error {
	return r.db.Create(a).Error
}

func (r *attemptRepository) GetByID(id uuid.UUID) (*Attempt, error) {
	var a Attempt
	err := r.db.First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attemptRepository) FindLatest(studentID uuid.UUID, quizIDs []string) (*Attempt, error) {
	var a Attempt
	err := r.db.
		Where("student_id = ? AND quiz_id IN ?", studentID, quizIDs).
		Order("started_at DESC").
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attemptRepository) ListByStudent(studentID uuid.UUID) ([]Attempt, error) {
	var attempts []Attempt
	err := r.db.
		Where("student_id = ?", studentID).
		Order("started_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *attemptRepository) UpdateAnswers(id uuid.UUID, answers datatypes.JSON) error {
	return r.db.Model(&Attempt{}).
		Where("id = ? AND status = ?", id, StatusInProgress).
		Update("answers", answers).Error
}

func (r *attemptRepository) Complete(id uuid.UUID, answers datatypes.JSON, score int, completedAt time.Time) (bool, error) {
	res := r.db.Model(&Attempt{}).
		Where("id = ? AND status = ?", id, StatusInProgress).
		Updates(map[string]interface{}{
			"status":       StatusCompleted,
			"answers":      answers,
			"score":        score,
			"completed_at": completedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
