package progress

import (
	"context"
	"errors"
	"time"

	"github.com/edulane/edulane-api/internal/config"
	"github.com/edulane/edulane-api/internal/course"
	"github.com/edulane/edulane-api/internal/enrollment"
	"github.com/edulane/edulane-api/internal/grading"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidProgressType = errors.New("invalid progress type for test result")
	ErrMaterialNotInTopic  = errors.New("material does not belong to topic")
)

// postTestPassThreshold marks a topic completed once the post-test reaches it.
const postTestPassThreshold = 70

type ProgressService interface {
	// RecordTestResult upserts a pre/post test milestone and, for a passed
	// post-test, recounts the course roll-up. Called by the attempt
	// lifecycle controller only.
	RecordTestResult(ctx context.Context, studentID, courseID uuid.UUID, topicID uuid.UUID, progressType ProgressType, score int) error

	MarkMaterialViewed(ctx context.Context, studentID, courseID, topicID, materialID uuid.UUID) error

	TopicSummary(ctx context.Context, studentID, courseID, topicID uuid.UUID) (*TopicProgressSummary, error)
	CourseSummary(ctx context.Context, studentID, courseID uuid.UUID) (*CourseProgressSummary, error)

	RecomputeCourseProgress(ctx context.Context, studentID, courseID uuid.UUID) (int, error)
	CanUnlockFinalAssessment(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)
}

type progressService struct {
	repo        ProgressRepository
	courses     course.CourseService
	enrollments enrollment.EnrollmentService
}

func NewService(repo ProgressRepository, courses course.CourseService, enrollments enrollment.EnrollmentService) ProgressService {
	return &progressService{
		repo:        repo,
		courses:     courses,
		enrollments: enrollments,
	}
}

func (s *progressService) RecordTestResult(ctx context.Context, studentID, courseID, topicID uuid.UUID, progressType ProgressType, score int) error {
	log := config.WithContext(ctx)

	if progressType != TypePreTest && progressType != TypePostTest {
		return ErrInvalidProgressType
	}

	completed := true
	if progressType == TypePostTest {
		completed = score >= postTestPassThreshold
	}

	row := &TopicProgress{
		ID:           uuid.New(),
		StudentID:    studentID,
		CourseID:     courseID,
		TopicID:      &topicID,
		Type:         progressType,
		Score:        &score,
		IsCompleted:  completed,
		MasteryLevel: grading.Level(score),
		CreatedAt:    time.Now(),
	}

	if err := s.upsertWithRetry(row); err != nil {
		log.WithError(err).Error("Failed to record test result")
		return err
	}

	log.WithFields(logrus.Fields{
		"student_id": studentID,
		"topic_id":   topicID,
		"type":       progressType,
		"score":      score,
	}).Info("Test result recorded")

	if progressType == TypePostTest && completed {
		if _, err := s.RecomputeCourseProgress(ctx, studentID, courseID); err != nil {
			// Roll-up failures must not block the learner; the next
			// completion event recounts from scratch anyway.
			log.WithError(err).Warn("Course progress recount failed, will recover on next event")
		}
	}
	return nil
}

// upsertWithRetry gives transient store errors one immediate second chance;
// beyond that the caller decides.
func (s *progressService) upsertWithRetry(row *TopicProgress) error {
	if err := s.repo.UpsertTopicProgress(row); err != nil {
		return s.repo.UpsertTopicProgress(row)
	}
	return nil
}

func (s *progressService) MarkMaterialViewed(ctx context.Context, studentID, courseID, topicID, materialID uuid.UUID) error {
	log := config.WithContext(ctx)

	// The material id comes straight from the client; only views of the
	// topic's own materials may count toward its gate.
	material, err := s.courses.GetMaterial(ctx, materialID)
	if err != nil {
		return err
	}
	if material.TopicID != topicID {
		return ErrMaterialNotInTopic
	}

	view := &MaterialView{
		ID:         uuid.New(),
		StudentID:  studentID,
		TopicID:    topicID,
		MaterialID: materialID,
		ViewedAt:   time.Now(),
	}

	if err := s.repo.MarkMaterialViewed(view); err != nil {
		log.WithError(err).Error("Failed to mark material viewed")
		return err
	}
	return nil
}

func (s *progressService) TopicSummary(ctx context.Context, studentID, courseID, topicID uuid.UUID) (*TopicProgressSummary, error) {
	log := config.WithContext(ctx)

	rows, err := s.repo.ListByStudentAndTopic(studentID, topicID)
	if err != nil {
		log.WithError(err).Error("Failed to load topic progress rows")
		return nil, err
	}

	viewed, err := s.repo.CountViewedMaterials(studentID, topicID)
	if err != nil {
		log.WithError(err).Error("Failed to count viewed materials")
		return nil, err
	}

	total, err := s.courses.CountRequiredMaterials(ctx, topicID)
	if err != nil {
		log.WithError(err).Error("Failed to count required materials")
		return nil, err
	}

	summary := &TopicProgressSummary{
		TopicID:         topicID,
		MaterialsViewed: int(viewed),
		MaterialsTotal:  total,
	}

	snapshot := TopicSnapshot{
		MaterialsViewed: int(viewed),
		MaterialsTotal:  total,
	}

	for _, row := range rows {
		switch row.Type {
		case TypePreTest:
			snapshot.PreTestCompleted = row.IsCompleted
			summary.PreTestScore = row.Score
		case TypePostTest:
			if row.IsCompleted {
				snapshot.PostTestCompleted = true
				summary.IsCompleted = true
			}
			summary.PostTestScore = row.Score
			summary.MasteryLevel = row.MasteryLevel
		}
	}

	summary.Percent, summary.Phase = ComputeTopicProgress(snapshot)
	return summary, nil
}

func (s *progressService) CourseSummary(ctx context.Context, studentID, courseID uuid.UUID) (*CourseProgressSummary, error) {
	completed, total, err := s.countTopics(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}

	return &CourseProgressSummary{
		CourseID:                courseID,
		CompletedTopics:         completed,
		TotalTopics:             total,
		Percent:                 ComputeCourseProgress(completed, total),
		FinalAssessmentUnlocked: FinalAssessmentUnlocked(completed, total),
	}, nil
}

func (s *progressService) RecomputeCourseProgress(ctx context.Context, studentID, courseID uuid.UUID) (int, error) {
	log := config.WithContext(ctx)

	completed, total, err := s.countTopics(ctx, studentID, courseID)
	if err != nil {
		return 0, err
	}

	pct := ComputeCourseProgress(completed, total)

	if err := s.enrollments.SetProgress(ctx, studentID, courseID, pct); err != nil {
		if errors.Is(err, enrollment.ErrEnrollmentNotFound) {
			log.WithFields(logrus.Fields{
				"student_id": studentID,
				"course_id":  courseID,
			}).Warn("No enrollment row to carry course progress")
			return pct, nil
		}
		log.WithError(err).Error("Failed to write course progress to enrollment")
		return pct, err
	}

	log.WithFields(logrus.Fields{
		"student_id": studentID,
		"course_id":  courseID,
		"progress":   pct,
	}).Info("Course progress recounted")
	return pct, nil
}

func (s *progressService) CanUnlockFinalAssessment(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	completed, total, err := s.countTopics(ctx, studentID, courseID)
	if err != nil {
		return false, err
	}
	return FinalAssessmentUnlocked(completed, total), nil
}

func (s *progressService) countTopics(ctx context.Context, studentID, courseID uuid.UUID) (completed, total int, err error) {
	log := config.WithContext(ctx)

	completedCount, err := s.repo.CountCompletedTopics(studentID, courseID)
	if err != nil {
		log.WithError(err).Error("Failed to count completed topics")
		return 0, 0, err
	}

	total, err = s.courses.CountTopics(ctx, courseID)
	if err != nil {
		log.WithError(err).Error("Failed to count course topics")
		return 0, 0, err
	}

	return int(completedCount), total, nil
}
