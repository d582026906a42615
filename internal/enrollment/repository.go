package enrollment

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentRepository interface {
	Create(e *Enrollment) error
	GetByStudentAndCourse(studentID, courseID uuid.UUID) (*Enrollment, error)
	ListByStudent(studentID uuid.UUID) ([]*Enrollment, error)
	ListByCourse(courseID uuid.UUID) ([]*Enrollment, error)
	Update(e *Enrollment) error

	CreateGroup(g *StudentGroup) error
	ListGroupsByCourse(courseID uuid.UUID) ([]*StudentGroup, error)
	AddGroupMember(m *GroupMember) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(e *Enrollment) error {
	return r.db.Create(e).Error
}

func (r *enrollmentRepository) GetByStudentAndCourse(studentID, courseID uuid.UUID) (*Enrollment, error) {
	var e Enrollment
	if err := r.db.
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepository) ListByStudent(studentID uuid.UUID) ([]*Enrollment, error) {
	var enrollments []*Enrollment
	if err := r.db.
		Where("student_id = ?", studentID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepository) ListByCourse(courseID uuid.UUID) ([]*Enrollment, error) {
	var enrollments []*Enrollment
	if err := r.db.
		Where("course_id = ?", courseID).
		Order("enrolled_at ASC").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepository) Update(e *Enrollment) error {
	return r.db.Save(e).Error
}

func (r *enrollmentRepository) CreateGroup(g *StudentGroup) error {
	return r.db.Create(g).Error
}

func (r *enrollmentRepository) ListGroupsByCourse(courseID uuid.UUID) ([]*StudentGroup, error) {
	var groups []*StudentGroup
	if err := r.db.
		Preload("Members").
		Where("course_id = ?", courseID).
		Order("name ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *enrollmentRepository) AddGroupMember(m *GroupMember) error {
	return r.db.Create(m).Error
}
