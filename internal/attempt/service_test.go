package attempt

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/edulane/edulane-api/internal/progress"
	"github.com/edulane/edulane-api/internal/quiz"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeRepo struct {
	mu       sync.Mutex
	attempts map[uuid.UUID]*Attempt

	failFind     bool
	failCreate   bool
	failComplete bool

	completeCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{attempts: make(map[uuid.UUID]*Attempt)}
}

func (r *fakeRepo) Create(a *Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errors.New("store down")
	}
	cp := *a
	r.attempts[a.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(id uuid.UUID) (*Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeRepo) FindLatest(studentID uuid.UUID, quizIDs []string) (*Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFind {
		return nil, errors.New("store down")
	}
	var latest *Attempt
	for _, a := range r.attempts {
		if a.StudentID != studentID {
			continue
		}
		matched := false
		for _, id := range quizIDs {
			if a.QuizID == id {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if latest == nil || a.StartedAt.After(latest.StartedAt) {
			latest = a
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeRepo) ListByStudent(studentID uuid.UUID) ([]Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Attempt
	for _, a := range r.attempts {
		if a.StudentID == studentID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateAnswers(id uuid.UUID, answers datatypes.JSON) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[id]
	if !ok || a.Status != StatusInProgress {
		return nil
	}
	a.Answers = answers
	return nil
}

func (r *fakeRepo) Complete(id uuid.UUID, answers datatypes.JSON, score int, completedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failComplete {
		return false, errors.New("store down")
	}
	a, ok := r.attempts[id]
	if !ok || a.Status != StatusInProgress {
		return false, nil
	}
	r.completeCalls++
	a.Status = StatusCompleted
	a.Answers = answers
	a.Score = &score
	at := completedAt
	a.CompletedAt = &at
	return true, nil
}

type recordedResult struct {
	topicID      uuid.UUID
	progressType progress.ProgressType
	score        int
}

type fakeProgress struct {
	mu      sync.Mutex
	results []recordedResult
}

func (p *fakeProgress) RecordTestResult(ctx context.Context, studentID, courseID, topicID uuid.UUID, progressType progress.ProgressType, score int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, recordedResult{topicID: topicID, progressType: progressType, score: score})
	return nil
}

func (p *fakeProgress) MarkMaterialViewed(ctx context.Context, studentID, courseID, topicID, materialID uuid.UUID) error {
	return nil
}

func (p *fakeProgress) TopicSummary(ctx context.Context, studentID, courseID, topicID uuid.UUID) (*progress.TopicProgressSummary, error) {
	return nil, nil
}

func (p *fakeProgress) CourseSummary(ctx context.Context, studentID, courseID uuid.UUID) (*progress.CourseProgressSummary, error) {
	return nil, nil
}

func (p *fakeProgress) RecomputeCourseProgress(ctx context.Context, studentID, courseID uuid.UUID) (int, error) {
	return 0, nil
}

func (p *fakeProgress) CanUnlockFinalAssessment(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	return true, nil
}

func (p *fakeProgress) recorded() []recordedResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]recordedResult, len(p.results))
	copy(out, p.results)
	return out
}

type fixture struct {
	repo    *fakeRepo
	clock   *fakeClock
	prog    *fakeProgress
	service AttemptService

	studentID uuid.UUID
	courseID  uuid.UUID
	topicID   uuid.UUID
	q1        uuid.UUID
	q2        uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		repo:      newFakeRepo(),
		clock:     &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
		prog:      &fakeProgress{},
		studentID: uuid.New(),
		courseID:  uuid.New(),
		topicID:   uuid.New(),
		q1:        uuid.New(),
		q2:        uuid.New(),
	}
	f.service = NewService(f.repo, f.prog, f.clock)
	return f
}

func (f *fixture) definition(kind quiz.TestKind) *quiz.Definition {
	topicID := f.topicID
	return &quiz.Definition{
		ID:       quiz.Key(topicID, kind),
		Kind:     kind,
		CourseID: f.courseID,
		TopicID:  &topicID,
		Questions: []quiz.Question{
			{ID: f.q1, CorrectOption: "A", Points: 1},
			{ID: f.q2, CorrectOption: "B", Points: 1},
		},
		TimeLimitMinutes: 15,
		MaxAttempts:      1,
		PassingScore:     70,
	}
}

func TestStartCreatesFreshAttempt(t *testing.T) {
	f := newFixture()
	def := f.definition(quiz.KindPreTest)

	view, err := f.service.StartOrResume(context.Background(), f.studentID, def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.State != StateFresh {
		t.Errorf("expected FRESH, got %s", view.State)
	}
	if view.RemainingSeconds != 15*60 {
		t.Errorf("expected full budget, got %d seconds", view.RemainingSeconds)
	}

	stored, _ := f.repo.GetByID(view.AttemptID)
	if stored == nil {
		t.Fatal("expected attempt row to be created")
	}
	if stored.Status != StatusInProgress {
		t.Errorf("expected in_progress, got %s", stored.Status)
	}
}

func TestStartResumesLegacyAttempt(t *testing.T) {
	f := newFixture()
	def := f.definition(quiz.KindPreTest)

	answers, _ := json.Marshal(map[string]string{f.q1.String(): "A"})
	legacy := &Attempt{
		ID:        uuid.New(),
		QuizID:    "pre_" + f.topicID.String(),
		StudentID: f.studentID,
		Status:    StatusInProgress,
		Answers:   answers,
		StartedAt: f.clock.Now().Add(-5 * time.Minute),
	}
	if err := f.repo.Create(legacy); err != nil {
		t.Fatal(err)
	}

	view, err := f.service.StartOrResume(context.Background(), f.studentID, def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.State != StateResumable {
		t.Fatalf("expected RESUMABLE, got %s", view.State)
	}
	if view.AttemptID != legacy.ID {
		t.Error("expected the stored attempt to be resumed, not a new one")
	}
	if got := view.Answers[f.q1.String()]; got != "A" {
		t.Errorf("expected stored answer to survive resume, got %q", got)
	}
	if view.RemainingSeconds != 10*60 {
		t.Errorf("expected 10 minutes left, got %d seconds", view.RemainingSeconds)
	}
}

func TestStartAfterCompletionIsLocked(t *testing.T) {
	f := newFixture()
	def := f.definition(quiz.KindPostTest)

	score := 85
	done := f.clock.Now().Add(-time.Hour)
	if err := f.repo.Create(&Attempt{
		ID:          uuid.New(),
		QuizID:      def.ID,
		StudentID:   f.studentID,
		Status:      StatusCompleted,
		Score:       &score,
		StartedAt:   done.Add(-10 * time.Minute),
		CompletedAt: &done,
	}); err != nil {
		t.Fatal(err)
	}

	view, err := f.service.StartOrResume(context.Background(), f.studentID, def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.State != StateLocked {
		t.Fatalf("expected LOCKED, got %s", view.State)
	}
	if view.Score == nil || *view.Score != 85 {
		t.Errorf("expected stored score 85, got %v", view.Score)
	}
	if view.Quiz != nil {
		t.Error("locked view must not carry the quiz payload")
	}
}

func TestSubmitScoresExactlyOnce(t *testing.T) {
	f := newFixture()
	def := f.definition(quiz.KindPostTest)
	ctx := context.Background()

	if _, err := f.service.StartOrResume(ctx, f.studentID, def); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.RecordAnswer(ctx, f.studentID, def, f.q1.String(), "A"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.RecordAnswer(ctx, f.studentID, def, f.q2.String(), "B"); err != nil {
		t.Fatal(err)
	}

	first, err := f.service.Submit(ctx, f.studentID, def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Score != 100 {
		t.Errorf("expected 100, got %d", first.Score)
	}
	if !first.Passed {
		t.Error("expected a passing result")
	}

	second, err := f.service.Submit(ctx, f.studentID, def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Score != first.Score || !second.CompletedAt.Equal(first.CompletedAt) {
		t.Error("repeat submit must return the original outcome")
	}

	f.repo.mu.Lock()
	calls := f.repo.completeCalls
	f.repo.mu.Unlock()
	if calls != 1 {
		t.Errorf("expected exactly one completion, got %d", calls)
	}
}

func TestFirstCompletionWinsAcrossNodes(t *testing.T) {
	f := newFixture()
	def := f.definition(quiz.KindPostTest)
	ctx := context.Background()

	other := NewService(f.repo, f.prog, f.clock)

	if _, err := f.service.StartOrResume(ctx, f.studentID, def); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.RecordAnswer(ctx, f.studentID, def, f.q1.String(), "A"); err != nil {
		t.Fatal(err)
	}

	// Second node picks up the same stored attempt before the first submits.
	if _, err := other.StartOrResume(ctx, f.studentID, def); err != nil {
		t.Fatal(err)
	}

	winner, err := f.service.Submit(ctx, f.studentID, def)
	if err != nil {
		t.Fatal(err)
	}
	loser, err := other.Submit(ctx, f.studentID, def)
	if err != nil {
		t.Fatal(err)
	}

	if winner.Score != 50 {
		t.Errorf("expected winning score 50, got %d", winner.Score)
	}
	if loser.Score != winner.Score {
		t.Errorf("losing submit must surface the stored outcome, got %d", loser.Score)
	}

	f.repo.mu.Lock()
	calls := f.repo.completeCalls
	f.repo.mu.Unlock()
	if calls != 1 {
		t.Errorf("expected exactly one completion across nodes, got %d", calls)
	}
}

func TestExpiredAttemptSettledOnStart(t *testing.T) {
	f := newFixture()
	def := f.definition(quiz.KindPostTest)

	answers, _ := json.Marshal(map[string]string{f.q1.String(): "A"})
	stale := &Attempt{
		ID:        uuid.New(),
		QuizID:    def.ID,
		StudentID: f.studentID,
		Status:    StatusInProgress,
		Answers:   answers,
		StartedAt: f.clock.Now().Add(-16 * time.Minute),
	}
	if err := f.repo.Create(stale); err != nil {
		t.Fatal(err)
	}

	view, err := f.service.StartOrResume(context.Background(), f.studentID, def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.State != StateLocked {
		t.Fatalf("expected LOCKED, got %s", view.State)
	}
	if view.Score == nil || *view.Score != 50 {
		t.Fatalf("expected partial answers to score 50, got %v", view.Score)
	}

	stored, _ := f.repo.GetByID(stale.ID)
	if stored.Status != StatusCompleted {
		t.Errorf("expected expired attempt to be completed, got %s", stored.Status)
	}

	results := f.prog.recorded()
	if len(results) != 1 || results[0].progressType != progress.TypePostTest || results[0].score != 50 {
		t.Errorf("expected post-test result recorded with score 50, got %+v", results)
	}
}

func TestAnswerAfterExpiryRejected(t *testing.T) {
	f := newFixture()
	def := f.definition(quiz.KindPreTest)
	ctx := context.Background()

	if _, err := f.service.StartOrResume(ctx, f.studentID, def); err != nil {
		t.Fatal(err)
	}

	f.clock.Advance(16 * time.Minute)

	if _, err := f.service.RecordAnswer(ctx, f.studentID, def, f.q1.String(), "A"); !errors.Is(err, ErrTimeExpired) {
		t.Errorf("expected ErrTimeExpired, got %v", err)
	}
}

func TestStoreOutageFallsBackToEphemeralSession(t *testing.T) {
	f := newFixture()
	def := f.definition(quiz.KindPreTest)
	ctx := context.Background()

	f.repo.mu.Lock()
	f.repo.failFind = true
	f.repo.mu.Unlock()

	view, err := f.service.StartOrResume(ctx, f.studentID, def)
	if err != nil {
		t.Fatalf("store outage must not block the student: %v", err)
	}
	if view.State != StateFresh {
		t.Fatalf("expected FRESH, got %s", view.State)
	}

	if _, err := f.service.RecordAnswer(ctx, f.studentID, def, f.q1.String(), "A"); err != nil {
		t.Fatal(err)
	}

	// Store recovers before submit; the outcome is persisted after all.
	f.repo.mu.Lock()
	f.repo.failFind = false
	f.repo.mu.Unlock()

	result, err := f.service.Submit(ctx, f.studentID, def)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Persisted {
		t.Error("expected the ephemeral attempt to be persisted at submit")
	}
	if result.Score != 50 {
		t.Errorf("expected 50, got %d", result.Score)
	}

	stored, _ := f.repo.GetByID(result.AttemptID)
	if stored == nil || stored.Status != StatusCompleted {
		t.Error("expected a completed row for the ephemeral attempt")
	}
}

func TestSubmitSurvivesPersistFailure(t *testing.T) {
	f := newFixture()
	def := f.definition(quiz.KindPostTest)
	ctx := context.Background()

	if _, err := f.service.StartOrResume(ctx, f.studentID, def); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.RecordAnswer(ctx, f.studentID, def, f.q1.String(), "A"); err != nil {
		t.Fatal(err)
	}

	f.repo.mu.Lock()
	f.repo.failComplete = true
	f.repo.mu.Unlock()

	result, err := f.service.Submit(ctx, f.studentID, def)
	if err != nil {
		t.Fatalf("persist failure must not hide the outcome: %v", err)
	}
	if result.Persisted {
		t.Error("expected Persisted=false while the store is down")
	}
	if result.Score != 50 {
		t.Errorf("expected 50, got %d", result.Score)
	}
	if got := f.prog.recorded(); len(got) != 0 {
		t.Error("unpersisted outcome must not reach the progress aggregator")
	}

	f.repo.mu.Lock()
	f.repo.failComplete = false
	f.repo.mu.Unlock()

	retry, err := f.service.Submit(ctx, f.studentID, def)
	if err != nil {
		t.Fatal(err)
	}
	if !retry.Persisted {
		t.Error("expected the retry to persist the completion")
	}
	if got := f.prog.recorded(); len(got) != 1 {
		t.Errorf("expected one recorded result after retry, got %d", len(got))
	}
}

func TestSettledSessionEvictedFromRegistry(t *testing.T) {
	f := newFixture()
	def := f.definition(quiz.KindPostTest)
	ctx := context.Background()

	if _, err := f.service.StartOrResume(ctx, f.studentID, def); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.RecordAnswer(ctx, f.studentID, def, f.q1.String(), "A"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.Submit(ctx, f.studentID, def); err != nil {
		t.Fatal(err)
	}

	if got := f.service.(*attemptService).sessions.len(); got != 0 {
		t.Errorf("expected settled session to be evicted, registry holds %d", got)
	}

	view, err := f.service.StartOrResume(ctx, f.studentID, def)
	if err != nil {
		t.Fatal(err)
	}
	if view.State != StateLocked {
		t.Fatalf("expected LOCKED from the store after eviction, got %s", view.State)
	}
	if view.Score == nil || *view.Score != 50 {
		t.Errorf("expected stored score 50, got %v", view.Score)
	}
	if view.Answers[f.q1.String()] != "A" {
		t.Error("locked view must carry the submitted answers")
	}
}

func TestSubmitReportsTopicProgress(t *testing.T) {
	f := newFixture()
	def := f.definition(quiz.KindPostTest)
	ctx := context.Background()

	if _, err := f.service.StartOrResume(ctx, f.studentID, def); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.RecordAnswer(ctx, f.studentID, def, f.q1.String(), "A"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.RecordAnswer(ctx, f.studentID, def, f.q2.String(), "B"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.Submit(ctx, f.studentID, def); err != nil {
		t.Fatal(err)
	}

	results := f.prog.recorded()
	if len(results) != 1 {
		t.Fatalf("expected one recorded result, got %d", len(results))
	}
	if results[0].topicID != f.topicID || results[0].progressType != progress.TypePostTest || results[0].score != 100 {
		t.Errorf("unexpected recorded result: %+v", results[0])
	}
}
