package progress

import (
	"context"
	"errors"
	"testing"

	"github.com/edulane/edulane-api/internal/course"
	"github.com/edulane/edulane-api/internal/enrollment"
	"github.com/google/uuid"
)

type rowKey struct {
	studentID uuid.UUID
	topicID   uuid.UUID
	progress  ProgressType
}

type viewKey struct {
	studentID  uuid.UUID
	materialID uuid.UUID
}

type fakeProgressRepo struct {
	rows      map[rowKey]*TopicProgress
	views     map[viewKey]bool
	materials map[uuid.UUID]*course.Material
}

func newFakeProgressRepo(materials map[uuid.UUID]*course.Material) *fakeProgressRepo {
	return &fakeProgressRepo{
		rows:      make(map[rowKey]*TopicProgress),
		views:     make(map[viewKey]bool),
		materials: materials,
	}
}

func (r *fakeProgressRepo) UpsertTopicProgress(p *TopicProgress) error {
	key := rowKey{studentID: p.StudentID, progress: p.Type}
	if p.TopicID != nil {
		key.topicID = *p.TopicID
	}
	r.rows[key] = p
	return nil
}

func (r *fakeProgressRepo) ListByStudentAndTopic(studentID, topicID uuid.UUID) ([]TopicProgress, error) {
	var out []TopicProgress
	for key, row := range r.rows {
		if key.studentID == studentID && key.topicID == topicID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *fakeProgressRepo) CountCompletedTopics(studentID, courseID uuid.UUID) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.StudentID == studentID && row.CourseID == courseID &&
			row.Type == TypePostTest && row.IsCompleted {
			count++
		}
	}
	return count, nil
}

func (r *fakeProgressRepo) MarkMaterialViewed(v *MaterialView) error {
	r.views[viewKey{studentID: v.StudentID, materialID: v.MaterialID}] = true
	return nil
}

func (r *fakeProgressRepo) CountViewedMaterials(studentID, topicID uuid.UUID) (int64, error) {
	var count int64
	for key := range r.views {
		if key.studentID != studentID {
			continue
		}
		m, ok := r.materials[key.materialID]
		if !ok || m.TopicID != topicID || !m.Required {
			continue
		}
		count++
	}
	return count, nil
}

type fakeCourses struct {
	topicsPerCourse int
	materials       map[uuid.UUID]*course.Material
}

func (c *fakeCourses) CreateCourse(ctx context.Context, cr *course.Course) (*course.Course, error) {
	return cr, nil
}

func (c *fakeCourses) GetCourse(ctx context.Context, id uuid.UUID) (*course.Course, error) {
	return nil, nil
}

func (c *fakeCourses) ListCourses(ctx context.Context) ([]*course.Course, error) {
	return nil, nil
}

func (c *fakeCourses) UpdateCourse(ctx context.Context, instructorID uuid.UUID, cr *course.Course) (*course.Course, error) {
	return cr, nil
}

func (c *fakeCourses) DeleteCourse(ctx context.Context, instructorID, id uuid.UUID) error {
	return nil
}

func (c *fakeCourses) AddModule(ctx context.Context, m *course.Module) (*course.Module, error) {
	return m, nil
}

func (c *fakeCourses) AddTopic(ctx context.Context, t *course.Topic) (*course.Topic, error) {
	return t, nil
}

func (c *fakeCourses) GetTopic(ctx context.Context, id uuid.UUID) (*course.Topic, error) {
	return nil, nil
}

func (c *fakeCourses) ListTopics(ctx context.Context, courseID uuid.UUID) ([]*course.Topic, error) {
	return nil, nil
}

func (c *fakeCourses) AddMaterial(ctx context.Context, m *course.Material) (*course.Material, error) {
	return m, nil
}

func (c *fakeCourses) GetMaterial(ctx context.Context, id uuid.UUID) (*course.Material, error) {
	m, ok := c.materials[id]
	if !ok {
		return nil, course.ErrMaterialNotFound
	}
	return m, nil
}

func (c *fakeCourses) ListMaterials(ctx context.Context, topicID uuid.UUID) ([]*course.Material, error) {
	return nil, nil
}

func (c *fakeCourses) CountTopics(ctx context.Context, courseID uuid.UUID) (int, error) {
	return c.topicsPerCourse, nil
}

func (c *fakeCourses) CountRequiredMaterials(ctx context.Context, topicID uuid.UUID) (int, error) {
	count := 0
	for _, m := range c.materials {
		if m.TopicID == topicID && m.Required {
			count++
		}
	}
	return count, nil
}

type fakeEnrollments struct {
	progressByStudent map[uuid.UUID]int
}

func (e *fakeEnrollments) Enroll(ctx context.Context, studentID, courseID uuid.UUID) (*enrollment.Enrollment, error) {
	return nil, nil
}

func (e *fakeEnrollments) GetEnrollment(ctx context.Context, studentID, courseID uuid.UUID) (*enrollment.Enrollment, error) {
	return nil, nil
}

func (e *fakeEnrollments) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*enrollment.Enrollment, error) {
	return nil, nil
}

func (e *fakeEnrollments) Roster(ctx context.Context, courseID uuid.UUID) ([]*enrollment.Enrollment, error) {
	return nil, nil
}

func (e *fakeEnrollments) SetProgress(ctx context.Context, studentID, courseID uuid.UUID, progress int) error {
	if e.progressByStudent == nil {
		e.progressByStudent = make(map[uuid.UUID]int)
	}
	e.progressByStudent[studentID] = progress
	return nil
}

func (e *fakeEnrollments) CreateGroup(ctx context.Context, g *enrollment.StudentGroup) (*enrollment.StudentGroup, error) {
	return g, nil
}

func (e *fakeEnrollments) ListGroups(ctx context.Context, courseID uuid.UUID) ([]*enrollment.StudentGroup, error) {
	return nil, nil
}

func (e *fakeEnrollments) AddGroupMember(ctx context.Context, groupID, studentID uuid.UUID) error {
	return nil
}

type progressFixture struct {
	repo        *fakeProgressRepo
	courses     *fakeCourses
	enrollments *fakeEnrollments
	service     ProgressService

	studentID uuid.UUID
	courseID  uuid.UUID
	topicID   uuid.UUID
}

func newProgressFixture(materials map[uuid.UUID]*course.Material) *progressFixture {
	f := &progressFixture{
		repo:        newFakeProgressRepo(materials),
		courses:     &fakeCourses{topicsPerCourse: 1, materials: materials},
		enrollments: &fakeEnrollments{},
		studentID:   uuid.New(),
		courseID:    uuid.New(),
		topicID:     uuid.New(),
	}
	f.service = NewService(f.repo, f.courses, f.enrollments)
	return f
}

func TestOptionalMaterialViewDoesNotOpenPractice(t *testing.T) {
	topicID := uuid.New()
	requiredID := uuid.New()
	optionalID := uuid.New()

	materials := map[uuid.UUID]*course.Material{
		requiredID: {ID: requiredID, TopicID: topicID, Required: true},
		optionalID: {ID: optionalID, TopicID: topicID, Required: false},
	}
	f := newProgressFixture(materials)
	f.topicID = topicID
	ctx := context.Background()

	if err := f.service.RecordTestResult(ctx, f.studentID, f.courseID, f.topicID, TypePreTest, 60); err != nil {
		t.Fatal(err)
	}

	if err := f.service.MarkMaterialViewed(ctx, f.studentID, f.courseID, f.topicID, optionalID); err != nil {
		t.Fatal(err)
	}

	summary, err := f.service.TopicSummary(ctx, f.studentID, f.courseID, f.topicID)
	if err != nil {
		t.Fatal(err)
	}
	if summary.MaterialsViewed != 0 {
		t.Errorf("optional view must not count toward the gate, got %d", summary.MaterialsViewed)
	}
	if summary.Phase != PhaseLearning {
		t.Errorf("expected LEARNING with the required material unviewed, got %s", summary.Phase)
	}
	if summary.Percent != 25 {
		t.Errorf("expected 25%% with no required materials viewed, got %d%%", summary.Percent)
	}

	if err := f.service.MarkMaterialViewed(ctx, f.studentID, f.courseID, f.topicID, requiredID); err != nil {
		t.Fatal(err)
	}

	summary, err = f.service.TopicSummary(ctx, f.studentID, f.courseID, f.topicID)
	if err != nil {
		t.Fatal(err)
	}
	if summary.MaterialsViewed != 1 {
		t.Errorf("expected the required view to count, got %d", summary.MaterialsViewed)
	}
	if summary.Phase != PhasePractice {
		t.Errorf("expected PRACTICE once every required material is viewed, got %s", summary.Phase)
	}
	if summary.Percent != 90 {
		t.Errorf("expected 90%%, got %d%%", summary.Percent)
	}
}

func TestMarkMaterialViewedValidatesMembership(t *testing.T) {
	topicID := uuid.New()
	otherTopicMaterial := uuid.New()

	materials := map[uuid.UUID]*course.Material{
		otherTopicMaterial: {ID: otherTopicMaterial, TopicID: uuid.New(), Required: true},
	}
	f := newProgressFixture(materials)
	f.topicID = topicID
	ctx := context.Background()

	err := f.service.MarkMaterialViewed(ctx, f.studentID, f.courseID, f.topicID, otherTopicMaterial)
	if !errors.Is(err, ErrMaterialNotInTopic) {
		t.Errorf("expected ErrMaterialNotInTopic, got %v", err)
	}

	err = f.service.MarkMaterialViewed(ctx, f.studentID, f.courseID, f.topicID, uuid.New())
	if !errors.Is(err, course.ErrMaterialNotFound) {
		t.Errorf("expected ErrMaterialNotFound, got %v", err)
	}

	if len(f.repo.views) != 0 {
		t.Error("rejected views must not be recorded")
	}
}

func TestPassedPostTestRecountsCourseProgress(t *testing.T) {
	f := newProgressFixture(map[uuid.UUID]*course.Material{})
	ctx := context.Background()

	if err := f.service.RecordTestResult(ctx, f.studentID, f.courseID, f.topicID, TypePostTest, 75); err != nil {
		t.Fatal(err)
	}

	if got := f.enrollments.progressByStudent[f.studentID]; got != 100 {
		t.Errorf("expected enrollment progress 100 after the only topic passed, got %d", got)
	}
}

func TestFailedPostTestDoesNotRecount(t *testing.T) {
	f := newProgressFixture(map[uuid.UUID]*course.Material{})
	ctx := context.Background()

	if err := f.service.RecordTestResult(ctx, f.studentID, f.courseID, f.topicID, TypePostTest, 65); err != nil {
		t.Fatal(err)
	}

	if _, ok := f.enrollments.progressByStudent[f.studentID]; ok {
		t.Error("a failed post-test must not trigger the course recount")
	}

	summary, err := f.service.TopicSummary(ctx, f.studentID, f.courseID, f.topicID)
	if err != nil {
		t.Fatal(err)
	}
	if summary.IsCompleted {
		t.Error("a failed post-test must not complete the topic")
	}
}
