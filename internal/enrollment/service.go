package enrollment

import (
	"context"
	"errors"
	"time"

	"github.com/edulane/edulane-api/internal/config"
	"github.com/google/uuid"
)

var (
	ErrAlreadyEnrolled    = errors.New("student already enrolled in course")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, courseID uuid.UUID) (*Enrollment, error)
	GetEnrollment(ctx context.Context, studentID, courseID uuid.UUID) (*Enrollment, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*Enrollment, error)
	Roster(ctx context.Context, courseID uuid.UUID) ([]*Enrollment, error)

	// SetProgress is called only by the progress aggregator's course recount.
	SetProgress(ctx context.Context, studentID, courseID uuid.UUID, progress int) error

	CreateGroup(ctx context.Context, g *StudentGroup) (*StudentGroup, error)
	ListGroups(ctx context.Context, courseID uuid.UUID) ([]*StudentGroup, error)
	AddGroupMember(ctx context.Context, groupID, studentID uuid.UUID) error
}

type enrollmentService struct {
	repo EnrollmentRepository
}

func NewService(repo EnrollmentRepository) EnrollmentService {
	return &enrollmentService{repo: repo}
}

func (s *enrollmentService) Enroll(ctx context.Context, studentID, courseID uuid.UUID) (*Enrollment, error) {
	log := config.WithContext(ctx)

	existing, err := s.repo.GetByStudentAndCourse(studentID, courseID)
	if err != nil {
		log.WithError(err).Error("Failed to check existing enrollment")
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyEnrolled
	}

	e := &Enrollment{
		ID:         uuid.New(),
		StudentID:  studentID,
		CourseID:   courseID,
		Progress:   0,
		EnrolledAt: time.Now(),
	}

	if err := s.repo.Create(e); err != nil {
		log.WithError(err).Error("Failed to create enrollment")
		return nil, err
	}

	log.WithField("enrollment_id", e.ID).Info("Student enrolled in course")
	return e, nil
}

func (s *enrollmentService) GetEnrollment(ctx context.Context, studentID, courseID uuid.UUID) (*Enrollment, error) {
	log := config.WithContext(ctx)

	e, err := s.repo.GetByStudentAndCourse(studentID, courseID)
	if err != nil {
		log.WithError(err).Error("Failed to get enrollment")
		return nil, err
	}
	if e == nil {
		return nil, ErrEnrollmentNotFound
	}
	return e, nil
}

func (s *enrollmentService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*Enrollment, error) {
	log := config.WithContext(ctx)

	enrollments, err := s.repo.ListByStudent(studentID)
	if err != nil {
		log.WithError(err).Error("Failed to list enrollments by student")
		return nil, err
	}
	return enrollments, nil
}

func (s *enrollmentService) Roster(ctx context.Context, courseID uuid.UUID) ([]*Enrollment, error) {
	log := config.WithContext(ctx)

	enrollments, err := s.repo.ListByCourse(courseID)
	if err != nil {
		log.WithError(err).Error("Failed to list course roster")
		return nil, err
	}
	return enrollments, nil
}

func (s *enrollmentService) SetProgress(ctx context.Context, studentID, courseID uuid.UUID, progress int) error {
	log := config.WithContext(ctx)

	e, err := s.repo.GetByStudentAndCourse(studentID, courseID)
	if err != nil {
		log.WithError(err).Error("Failed to get enrollment for progress update")
		return err
	}
	if e == nil {
		return ErrEnrollmentNotFound
	}

	e.Progress = progress
	if progress >= 100 && e.CompletedAt == nil {
		now := time.Now()
		e.CompletedAt = &now
	}

	if err := s.repo.Update(e); err != nil {
		log.WithError(err).Error("Failed to update enrollment progress")
		return err
	}
	return nil
}

func (s *enrollmentService) CreateGroup(ctx context.Context, g *StudentGroup) (*StudentGroup, error) {
	log := config.WithContext(ctx)

	g.ID = uuid.New()
	g.CreatedAt = time.Now()

	if err := s.repo.CreateGroup(g); err != nil {
		log.WithError(err).Error("Failed to create student group")
		return nil, err
	}
	return g, nil
}

func (s *enrollmentService) ListGroups(ctx context.Context, courseID uuid.UUID) ([]*StudentGroup, error) {
	log := config.WithContext(ctx)

	groups, err := s.repo.ListGroupsByCourse(courseID)
	if err != nil {
		log.WithError(err).Error("Failed to list student groups")
		return nil, err
	}
	return groups, nil
}

func (s *enrollmentService) AddGroupMember(ctx context.Context, groupID, studentID uuid.UUID) error {
	log := config.WithContext(ctx)

	m := &GroupMember{
		ID:        uuid.New(),
		GroupID:   groupID,
		StudentID: studentID,
		JoinedAt:  time.Now(),
	}

	if err := s.repo.AddGroupMember(m); err != nil {
		log.WithError(err).Error("Failed to add group member")
		return err
	}
	return nil
}
