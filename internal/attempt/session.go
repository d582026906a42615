package attempt

import (
	"sync"
	"time"

	"github.com/edulane/edulane-api/internal/quiz"
	util "github.com/edulane/edulane-api/internal/utils"
	"github.com/google/uuid"
)

// SessionState tells the client what it got back from an acquire: a brand new
// attempt, an in-progress one to pick back up, or a settled one it can only
// read.
type SessionState string

const (
	StateFresh     SessionState = "FRESH"
	StateResumable SessionState = "RESUMABLE"
	StateLocked    SessionState = "LOCKED"
)

type sessionKey struct {
	studentID uuid.UUID
	quizID    string
}

// Session is the live, in-memory side of an attempt. The store is the source
// of truth for lifecycle state; the session carries the working answer map
// and the countdown between pushes.
type Session struct {
	mu sync.Mutex

	studentID uuid.UUID
	quiz      *quiz.Definition
	attempt   *Attempt

	answers map[string]string
	version uint64
	dirty   bool

	// ephemeral marks a session whose attempt row could not be created; it
	// lives only in memory and is persisted best-effort at submit.
	ephemeral bool

	result *Result

	done     chan struct{}
	stopOnce sync.Once
}

func (s *Session) stopTimer() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

func (s *Session) setAnswer(questionID, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil {
		return ErrAttemptCompleted
	}
	s.answers[questionID] = option
	s.version++
	s.dirty = true
	return nil
}

func (s *Session) snapshotLocked() (map[string]string, uint64) {
	out := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out, s.version
}

// remaining is safe without the lock: the quiz definition and the attempt
// start time never change after the session is built.
func (s *Session) remaining(now time.Time) time.Duration {
	return util.Remaining(s.quiz.TimeLimit(), s.attempt.StartedAt, now)
}

type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[sessionKey]*Session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[sessionKey]*Session)}
}

func (r *sessionRegistry) get(key sessionKey) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[key]
	return sess, ok
}

// putIfAbsent keeps concurrent tabs on one session: the first acquire wins
// and every later one gets the same pointer back.
func (r *sessionRegistry) putIfAbsent(key sessionKey, sess *Session) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[key]; ok {
		return existing, false
	}
	r.sessions[key] = sess
	return sess, true
}

// remove evicts a settled session so a long-lived server does not accumulate
// one map entry per attempt ever taken; the store serves the locked view from
// here on.
func (r *sessionRegistry) remove(key sessionKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key)
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
