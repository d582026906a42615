package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository interface {
	UpsertTopicProgress(p *TopicProgress) error
	ListByStudentAndTopic(studentID, topicID uuid.UUID) ([]TopicProgress, error)
	CountCompletedTopics(studentID, courseID uuid.UUID) (int64, error)

	MarkMaterialViewed(v *MaterialView) error
	// CountViewedMaterials counts only views of the topic's required
	// materials, so it is always comparable against the required total.
	CountViewedMaterials(studentID, topicID uuid.UUID) (int64, error)
}

type progressRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) UpsertTopicProgress(p *TopicProgress) error {
	p.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "student_id"},
			{Name: "topic_id"},
			{Name: "progress_type"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"score", "is_completed", "mastery_level", "updated_at",
		}),
	}).Create(p).Error
}

func (r *progressRepository) ListByStudentAndTopic(studentID, topicID uuid.UUID) ([]TopicProgress, error) {
	var rows []TopicProgress
	if err := r.db.
		Where("student_id = ? AND topic_id = ?", studentID, topicID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *progressRepository) CountCompletedTopics(studentID, courseID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&TopicProgress{}).
		Where("student_id = ? AND course_id = ? AND progress_type = ? AND is_completed = ?",
			studentID, courseID, TypePostTest, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *progressRepository) MarkMaterialViewed(v *MaterialView) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "student_id"},
			{Name: "material_id"},
		},
		DoNothing: true,
	}).Create(v).Error
}

func (r *progressRepository) CountViewedMaterials(studentID, topicID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&MaterialView{}).
		Joins("JOIN materials ON materials.id = material_views.material_id").
		Where("material_views.student_id = ? AND materials.topic_id = ? AND materials.required = ?",
			studentID, topicID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
