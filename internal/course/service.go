package course

import (
	"context"
	"errors"
	"time"

	"github.com/edulane/edulane-api/internal/config"
	"github.com/google/uuid"
)

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrTopicNotFound    = errors.New("topic not found")
	ErrMaterialNotFound = errors.New("material not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidKind      = errors.New("invalid material kind")
)

type CourseService interface {
	CreateCourse(ctx context.Context, c *Course) (*Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*Course, error)
	ListCourses(ctx context.Context) ([]*Course, error)
	UpdateCourse(ctx context.Context, instructorID uuid.UUID, c *Course) (*Course, error)
	DeleteCourse(ctx context.Context, instructorID, id uuid.UUID) error

	AddModule(ctx context.Context, m *Module) (*Module, error)
	AddTopic(ctx context.Context, t *Topic) (*Topic, error)
	GetTopic(ctx context.Context, id uuid.UUID) (*Topic, error)
	ListTopics(ctx context.Context, courseID uuid.UUID) ([]*Topic, error)

	AddMaterial(ctx context.Context, m *Material) (*Material, error)
	GetMaterial(ctx context.Context, id uuid.UUID) (*Material, error)
	ListMaterials(ctx context.Context, topicID uuid.UUID) ([]*Material, error)

	// Counts consumed by the progress aggregator.
	CountTopics(ctx context.Context, courseID uuid.UUID) (int, error)
	CountRequiredMaterials(ctx context.Context, topicID uuid.UUID) (int, error)
}

type courseService struct {
	repo CourseRepository
}

func NewService(repo CourseRepository) CourseService {
	return &courseService{repo: repo}
}

func (s *courseService) CreateCourse(ctx context.Context, c *Course) (*Course, error) {
	log := config.WithContext(ctx)

	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()

	if err := s.repo.Create(c); err != nil {
		log.WithError(err).Error("Failed to create course")
		return nil, err
	}

	log.WithField("course_id", c.ID).Info("Course created")
	return c, nil
}

func (s *courseService) GetCourse(ctx context.Context, id uuid.UUID) (*Course, error) {
	log := config.WithContext(ctx)

	c, err := s.repo.GetByID(id)
	if err != nil {
		log.WithError(err).Error("Failed to get course")
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}
	return c, nil
}

func (s *courseService) ListCourses(ctx context.Context) ([]*Course, error) {
	log := config.WithContext(ctx)

	courses, err := s.repo.List()
	if err != nil {
		log.WithError(err).Error("Failed to list courses")
		return nil, err
	}
	return courses, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, instructorID uuid.UUID, c *Course) (*Course, error) {
	log := config.WithContext(ctx)

	existing, err := s.repo.GetByID(c.ID)
	if err != nil {
		log.WithError(err).Error("Failed to get course for update")
		return nil, err
	}
	if existing == nil {
		return nil, ErrCourseNotFound
	}
	if existing.InstructorID != instructorID {
		return nil, ErrUnauthorized
	}

	if c.Title != "" {
		existing.Title = c.Title
	}
	if c.Description != "" {
		existing.Description = c.Description
	}
	existing.Published = c.Published
	existing.UpdatedAt = time.Now()

	if err := s.repo.Update(existing); err != nil {
		log.WithError(err).Error("Failed to update course")
		return nil, err
	}
	return existing, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, instructorID, id uuid.UUID) error {
	log := config.WithContext(ctx)

	existing, err := s.repo.GetByID(id)
	if err != nil {
		log.WithError(err).Error("Failed to get course for deletion")
		return err
	}
	if existing == nil {
		return ErrCourseNotFound
	}
	if existing.InstructorID != instructorID {
		return ErrUnauthorized
	}

	if err := s.repo.Delete(id); err != nil {
		log.WithError(err).Error("Failed to delete course")
		return err
	}

	log.WithField("course_id", id).Info("Course deleted")
	return nil
}

func (s *courseService) AddModule(ctx context.Context, m *Module) (*Module, error) {
	log := config.WithContext(ctx)

	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	m.UpdatedAt = time.Now()

	if err := s.repo.CreateModule(m); err != nil {
		log.WithError(err).Error("Failed to create module")
		return nil, err
	}
	return m, nil
}

func (s *courseService) AddTopic(ctx context.Context, t *Topic) (*Topic, error) {
	log := config.WithContext(ctx)

	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()

	if err := s.repo.CreateTopic(t); err != nil {
		log.WithError(err).Error("Failed to create topic")
		return nil, err
	}
	return t, nil
}

func (s *courseService) GetTopic(ctx context.Context, id uuid.UUID) (*Topic, error) {
	log := config.WithContext(ctx)

	t, err := s.repo.GetTopicByID(id)
	if err != nil {
		log.WithError(err).Error("Failed to get topic")
		return nil, err
	}
	if t == nil {
		return nil, ErrTopicNotFound
	}
	return t, nil
}

func (s *courseService) ListTopics(ctx context.Context, courseID uuid.UUID) ([]*Topic, error) {
	log := config.WithContext(ctx)

	topics, err := s.repo.ListTopicsByCourse(courseID)
	if err != nil {
		log.WithError(err).Error("Failed to list topics")
		return nil, err
	}
	return topics, nil
}

func (s *courseService) AddMaterial(ctx context.Context, m *Material) (*Material, error) {
	log := config.WithContext(ctx)

	if !m.Kind.IsValid() {
		return nil, ErrInvalidKind
	}

	m.ID = uuid.New()
	m.CreatedAt = time.Now()

	if err := s.repo.CreateMaterial(m); err != nil {
		log.WithError(err).Error("Failed to create material")
		return nil, err
	}
	return m, nil
}

func (s *courseService) GetMaterial(ctx context.Context, id uuid.UUID) (*Material, error) {
	log := config.WithContext(ctx)

	m, err := s.repo.GetMaterialByID(id)
	if err != nil {
		log.WithError(err).Error("Failed to load material")
		return nil, err
	}
	if m == nil {
		return nil, ErrMaterialNotFound
	}
	return m, nil
}

func (s *courseService) ListMaterials(ctx context.Context, topicID uuid.UUID) ([]*Material, error) {
	log := config.WithContext(ctx)

	materials, err := s.repo.ListMaterialsByTopic(topicID)
	if err != nil {
		log.WithError(err).Error("Failed to list materials")
		return nil, err
	}
	return materials, nil
}

func (s *courseService) CountTopics(ctx context.Context, courseID uuid.UUID) (int, error) {
	count, err := s.repo.CountTopicsByCourse(courseID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to count topics")
		return 0, err
	}
	return int(count), nil
}

func (s *courseService) CountRequiredMaterials(ctx context.Context, topicID uuid.UUID) (int, error) {
	count, err := s.repo.CountRequiredMaterials(topicID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to count required materials")
		return 0, err
	}
	return int(count), nil
}
