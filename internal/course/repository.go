package course

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(c *Course) error
	GetByID(id uuid.UUID) (*Course, error)
	List() ([]*Course, error)
	Update(c *Course) error
	Delete(id uuid.UUID) error

	CreateModule(m *Module) error
	CreateTopic(t *Topic) error
	GetTopicByID(id uuid.UUID) (*Topic, error)
	ListTopicsByCourse(courseID uuid.UUID) ([]*Topic, error)
	CountTopicsByCourse(courseID uuid.UUID) (int64, error)

	CreateMaterial(m *Material) error
	GetMaterialByID(id uuid.UUID) (*Material, error)
	ListMaterialsByTopic(topicID uuid.UUID) ([]*Material, error)
	CountRequiredMaterials(topicID uuid.UUID) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(c *Course) error {
	return r.db.Create(c).Error
}

func (r *courseRepository) GetByID(id uuid.UUID) (*Course, error) {
	var c Course
	if err := r.db.
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Preload("Modules.Topics", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *courseRepository) List() ([]*Course, error) {
	var courses []*Course
	if err := r.db.
		Where("published = ?", true).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) Update(c *Course) error {
	return r.db.Save(c).Error
}

func (r *courseRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&Course{}, "id = ?", id).Error
}

func (r *courseRepository) CreateModule(m *Module) error {
	return r.db.Create(m).Error
}

func (r *courseRepository) CreateTopic(t *Topic) error {
	return r.db.Create(t).Error
}

func (r *courseRepository) GetTopicByID(id uuid.UUID) (*Topic, error) {
	var t Topic
	if err := r.db.
		Preload("Materials", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *courseRepository) ListTopicsByCourse(courseID uuid.UUID) ([]*Topic, error) {
	var topics []*Topic
	if err := r.db.
		Where("course_id = ?", courseID).
		Order("order_index ASC").
		Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *courseRepository) CountTopicsByCourse(courseID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&Topic{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *courseRepository) CreateMaterial(m *Material) error {
	return r.db.Create(m).Error
}

func (r *courseRepository) GetMaterialByID(id uuid.UUID) (*Material, error) {
	var m Material
	if err := r.db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *courseRepository) ListMaterialsByTopic(topicID uuid.UUID) ([]*Material, error) {
	var materials []*Material
	if err := r.db.
		Where("topic_id = ?", topicID).
		Order("order_index ASC").
		Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *courseRepository) CountRequiredMaterials(topicID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&Material{}).
		Where("topic_id = ? AND required = ?", topicID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
