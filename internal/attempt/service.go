package attempt

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/edulane/edulane-api/internal/config"
	"github.com/edulane/edulane-api/internal/grading"
	"github.com/edulane/edulane-api/internal/progress"
	"github.com/edulane/edulane-api/internal/quiz"
	util "github.com/edulane/edulane-api/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

var (
	ErrNoActiveSession  = errors.New("no active attempt session")
	ErrAttemptCompleted = errors.New("attempt already completed")
	ErrTimeExpired      = errors.New("attempt time expired")
	ErrFinalLocked      = errors.New("final assessment is locked")
)

type AttemptService interface {
	// StartOrResume is the single entry point to a quiz: it creates a fresh
	// attempt, resumes an in-progress one, or reports the settled outcome.
	StartOrResume(ctx context.Context, studentID uuid.UUID, def *quiz.Definition) (*SessionView, error)

	// RecordAnswer updates the live answer map and pushes the full snapshot
	// to the store in the background. The student never waits on the push.
	RecordAnswer(ctx context.Context, studentID uuid.UUID, def *quiz.Definition, questionID, option string) (*AnswerAck, error)

	// Submit settles the attempt. Repeated submits return the same result;
	// only the first completion is ever scored into the store.
	Submit(ctx context.Context, studentID uuid.UUID, def *quiz.Definition) (*Result, error)

	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]Attempt, error)
}

type attemptService struct {
	repo     AttemptRepository
	progress progress.ProgressService
	clock    util.Clock
	sessions *sessionRegistry
}

func NewService(repo AttemptRepository, prog progress.ProgressService, clock util.Clock) AttemptService {
	return &attemptService{
		repo:     repo,
		progress: prog,
		clock:    clock,
		sessions: newSessionRegistry(),
	}
}

func scopeOf(def *quiz.Definition) uuid.UUID {
	if def.TopicID != nil {
		return *def.TopicID
	}
	return def.CourseID
}

func (s *attemptService) StartOrResume(ctx context.Context, studentID uuid.UUID, def *quiz.Definition) (*SessionView, error) {
	log := config.WithContext(ctx)
	key := sessionKey{studentID: studentID, quizID: def.ID}

	if sess, ok := s.sessions.get(key); ok {
		return s.liveView(sess), nil
	}

	latest, err := s.repo.FindLatest(studentID, quiz.KeyCandidates(scopeOf(def), def.Kind))
	if err != nil {
		// A store outage must not block the student; run the attempt in
		// memory and persist what we can at submit time.
		log.WithError(err).Warn("Attempt lookup failed, starting ephemeral session")
		return s.startSession(ctx, studentID, def, nil, true)
	}

	if latest == nil {
		return s.startSession(ctx, studentID, def, nil, false)
	}

	if latest.Status == StatusCompleted {
		return lockedView(latest), nil
	}

	// An in-progress attempt whose budget ran out while nobody was looking
	// is settled right here, with whatever answers were pushed before.
	if util.Remaining(def.TimeLimit(), latest.StartedAt, s.clock.Now()) <= 0 {
		res, err := s.finalizeStored(ctx, studentID, def, latest)
		if err != nil {
			log.WithError(err).Error("Failed to settle expired attempt")
			return nil, err
		}
		return &SessionView{
			AttemptID:    latest.ID,
			QuizID:       latest.QuizID,
			State:        StateLocked,
			Score:        &res.Score,
			MasteryLevel: res.MasteryLevel,
		}, nil
	}

	return s.startSession(ctx, studentID, def, latest, false)
}

func (s *attemptService) startSession(ctx context.Context, studentID uuid.UUID, def *quiz.Definition, resumeFrom *Attempt, ephemeral bool) (*SessionView, error) {
	log := config.WithContext(ctx)

	answers := map[string]string{}
	state := StateFresh

	var att *Attempt
	if resumeFrom != nil {
		att = resumeFrom
		state = StateResumable
		if len(att.Answers) > 0 {
			if err := json.Unmarshal(att.Answers, &answers); err != nil {
				log.WithError(err).Warn("Stored answers are unreadable, resuming empty")
				answers = map[string]string{}
			}
		}
	} else {
		att = &Attempt{
			ID:        uuid.New(),
			QuizID:    def.ID,
			StudentID: studentID,
			Status:    StatusInProgress,
			StartedAt: s.clock.Now(),
		}
		if !ephemeral {
			if err := s.repo.Create(att); err != nil {
				log.WithError(err).Warn("Attempt create failed, starting ephemeral session")
				ephemeral = true
			}
		}
	}

	sess := &Session{
		studentID: studentID,
		quiz:      def,
		attempt:   att,
		answers:   answers,
		ephemeral: ephemeral,
		done:      make(chan struct{}),
	}

	key := sessionKey{studentID: studentID, quizID: def.ID}
	existing, created := s.sessions.putIfAbsent(key, sess)
	if !created {
		// Lost the race with a concurrent tab; theirs is the session now.
		return s.liveView(existing), nil
	}

	go s.watch(sess)

	log.WithFields(logrus.Fields{
		"attempt_id": att.ID,
		"quiz_id":    def.ID,
		"state":      state,
		"ephemeral":  ephemeral,
	}).Info("Attempt session started")

	view := s.liveView(sess)
	view.State = state
	return view, nil
}

func (s *attemptService) liveView(sess *Session) *SessionView {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.result != nil {
		answers, _ := sess.snapshotLocked()
		return &SessionView{
			AttemptID:    sess.attempt.ID,
			QuizID:       sess.quiz.ID,
			State:        StateLocked,
			Answers:      answers,
			Score:        &sess.result.Score,
			MasteryLevel: sess.result.MasteryLevel,
		}
	}

	answers, _ := sess.snapshotLocked()
	return &SessionView{
		AttemptID:        sess.attempt.ID,
		QuizID:           sess.quiz.ID,
		State:            StateResumable,
		Quiz:             sess.quiz.Sanitized(),
		Answers:          answers,
		RemainingSeconds: int(sess.remaining(s.clock.Now()).Seconds()),
	}
}

// lockedView is the read-only shape of a settled attempt: outcome and the
// submitted answers, never a fresh quiz payload.
func lockedView(att *Attempt) *SessionView {
	view := &SessionView{
		AttemptID: att.ID,
		QuizID:    att.QuizID,
		State:     StateLocked,
		Score:     att.Score,
	}
	if len(att.Answers) > 0 {
		answers := map[string]string{}
		if err := json.Unmarshal(att.Answers, &answers); err == nil {
			view.Answers = answers
		}
	}
	if att.Score != nil {
		view.MasteryLevel = grading.Level(*att.Score)
	}
	return view
}

func (s *attemptService) RecordAnswer(ctx context.Context, studentID uuid.UUID, def *quiz.Definition, questionID, option string) (*AnswerAck, error) {
	key := sessionKey{studentID: studentID, quizID: def.ID}

	sess, ok := s.sessions.get(key)
	if !ok {
		// Rehydrate after a restart; only an in-progress stored attempt
		// comes back as a live session.
		view, err := s.StartOrResume(ctx, studentID, def)
		if err != nil {
			return nil, err
		}
		if view.State == StateLocked {
			return nil, ErrAttemptCompleted
		}
		sess, ok = s.sessions.get(key)
		if !ok {
			return nil, ErrNoActiveSession
		}
	}

	now := s.clock.Now()
	if sess.remaining(now) <= 0 {
		return nil, ErrTimeExpired
	}

	if err := sess.setAnswer(questionID, option); err != nil {
		return nil, err
	}

	go s.flush(sess)

	return &AnswerAck{
		Accepted:         true,
		RemainingSeconds: int(sess.remaining(now).Seconds()),
	}, nil
}

// flush pushes the full answer snapshot to the store. A failed push leaves
// the session dirty so the next answer, or the submit itself, carries the
// same data again.
func (s *attemptService) flush(sess *Session) {
	sess.mu.Lock()
	if !sess.dirty || sess.ephemeral || sess.result != nil {
		sess.mu.Unlock()
		return
	}
	snap, version := sess.snapshotLocked()
	id := sess.attempt.ID
	sess.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return
	}

	if err := s.repo.UpdateAnswers(id, datatypes.JSON(data)); err != nil {
		config.WithContext(context.Background()).
			WithError(err).WithField("attempt_id", id).
			Warn("Answer push failed, snapshot stays dirty")
		return
	}

	sess.mu.Lock()
	if sess.version == version {
		sess.dirty = false
	}
	sess.mu.Unlock()
}

func (s *attemptService) Submit(ctx context.Context, studentID uuid.UUID, def *quiz.Definition) (*Result, error) {
	key := sessionKey{studentID: studentID, quizID: def.ID}

	if sess, ok := s.sessions.get(key); ok {
		return s.finalize(ctx, sess)
	}

	// No live session on this node; settle directly against the store.
	latest, err := s.repo.FindLatest(studentID, quiz.KeyCandidates(scopeOf(def), def.Kind))
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, ErrNoActiveSession
	}
	if latest.Status == StatusCompleted {
		return s.storedResult(def, latest), nil
	}
	return s.finalizeStored(ctx, studentID, def, latest)
}

func (s *attemptService) finalize(ctx context.Context, sess *Session) (*Result, error) {
	log := config.WithContext(ctx)

	sess.mu.Lock()
	if sess.result != nil {
		res := sess.result
		sess.mu.Unlock()
		return res, nil
	}
	answers, _ := sess.snapshotLocked()
	sess.mu.Unlock()

	score, results := grading.Score(sess.quiz.Questions, answers)
	now := s.clock.Now()
	data, _ := json.Marshal(answers)

	persisted := true
	winner := true

	if sess.ephemeral {
		row := *sess.attempt
		row.Status = StatusCompleted
		row.Answers = datatypes.JSON(data)
		row.Score = &score
		row.CompletedAt = &now
		if err := s.repo.Create(&row); err != nil {
			log.WithError(err).Error("Could not persist ephemeral attempt, result is in-memory only")
			persisted = false
		}
	} else {
		won, err := s.repo.Complete(sess.attempt.ID, datatypes.JSON(data), score, now)
		if err != nil {
			// The outcome still goes to the student; the row stays
			// in_progress and the next submit retries the flip.
			log.WithError(err).Error("Failed to persist completion")
			persisted = false
		} else if !won {
			winner = false
			// Another submit got there first; surface that one's outcome.
			if stored, gerr := s.repo.GetByID(sess.attempt.ID); gerr == nil && stored != nil && stored.Score != nil {
				var storedAnswers map[string]string
				if len(stored.Answers) > 0 {
					_ = json.Unmarshal(stored.Answers, &storedAnswers)
				}
				score, results = grading.Score(sess.quiz.Questions, storedAnswers)
				if stored.CompletedAt != nil {
					now = *stored.CompletedAt
				}
			}
		}
	}

	res := &Result{
		AttemptID:    sess.attempt.ID,
		QuizID:       sess.quiz.ID,
		Score:        score,
		Passed:       grading.Passed(score, sess.quiz.PassingScore),
		MasteryLevel: grading.Level(score),
		Results:      results,
		Persisted:    persisted,
		CompletedAt:  now,
	}

	if persisted {
		sess.mu.Lock()
		sess.result = res
		sess.mu.Unlock()
		sess.stopTimer()
		s.sessions.remove(sessionKey{studentID: sess.studentID, quizID: sess.quiz.ID})

		if winner {
			s.reportProgress(ctx, sess.studentID, sess.quiz, score)
		}
	}

	log.WithFields(logrus.Fields{
		"attempt_id": sess.attempt.ID,
		"quiz_id":    sess.quiz.ID,
		"score":      score,
		"persisted":  persisted,
	}).Info("Attempt submitted")

	return res, nil
}

// finalizeStored settles an in-progress row that has no live session, for
// example one found already expired at acquire time.
func (s *attemptService) finalizeStored(ctx context.Context, studentID uuid.UUID, def *quiz.Definition, att *Attempt) (*Result, error) {
	answers := map[string]string{}
	if len(att.Answers) > 0 {
		_ = json.Unmarshal(att.Answers, &answers)
	}

	score, results := grading.Score(def.Questions, answers)
	now := s.clock.Now()

	won, err := s.repo.Complete(att.ID, att.Answers, score, now)
	if err != nil {
		return nil, err
	}

	if won {
		s.reportProgress(ctx, studentID, def, score)
	} else if stored, gerr := s.repo.GetByID(att.ID); gerr == nil && stored != nil && stored.Score != nil {
		score = *stored.Score
		results = nil
		if stored.CompletedAt != nil {
			now = *stored.CompletedAt
		}
	}

	return &Result{
		AttemptID:    att.ID,
		QuizID:       att.QuizID,
		Score:        score,
		Passed:       grading.Passed(score, def.PassingScore),
		MasteryLevel: grading.Level(score),
		Results:      results,
		Persisted:    true,
		CompletedAt:  now,
	}, nil
}

func (s *attemptService) storedResult(def *quiz.Definition, att *Attempt) *Result {
	res := &Result{
		AttemptID: att.ID,
		QuizID:    att.QuizID,
		Persisted: true,
	}
	if att.Score != nil {
		res.Score = *att.Score
		res.Passed = grading.Passed(*att.Score, def.PassingScore)
		res.MasteryLevel = grading.Level(*att.Score)
	}
	if att.CompletedAt != nil {
		res.CompletedAt = *att.CompletedAt
	}
	return res
}

// reportProgress feeds topic test outcomes to the progress aggregator. A
// failure there never fails the submit; the aggregator recounts from stored
// attempts on its next event.
func (s *attemptService) reportProgress(ctx context.Context, studentID uuid.UUID, def *quiz.Definition, score int) {
	if def.TopicID == nil {
		return
	}

	var progressType progress.ProgressType
	switch def.Kind {
	case quiz.KindPreTest:
		progressType = progress.TypePreTest
	case quiz.KindPostTest:
		progressType = progress.TypePostTest
	default:
		return
	}

	if err := s.progress.RecordTestResult(ctx, studentID, def.CourseID, *def.TopicID, progressType, score); err != nil {
		config.WithContext(ctx).WithError(err).Warn("Failed to record test result in progress")
	}
}

func (s *attemptService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]Attempt, error) {
	log := config.WithContext(ctx)

	attempts, err := s.repo.ListByStudent(studentID)
	if err != nil {
		log.WithError(err).Error("Failed to list attempts")
		return nil, err
	}
	return attempts, nil
}
