package util

import "time"

// Clock abstracts wall-clock reads so session timing can be tested
// without sleeping.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func NewClock() Clock { return realClock{} }

// Remaining converts elapsed wall-clock time into the session budget left.
// Clock skew can make elapsed negative or larger than the limit; both ends
// are clamped so callers only ever see a value in [0, limit].
func Remaining(limit time.Duration, startedAt, now time.Time) time.Duration {
	elapsed := now.Sub(startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := limit - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
