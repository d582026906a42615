package quiz

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type TestKind string

const (
	KindPreTest  TestKind = "PRE_TEST"
	KindPostTest TestKind = "POST_TEST"
	KindFinal    TestKind = "FINAL"
)

var AllTestKinds = []TestKind{
	KindPreTest,
	KindPostTest,
	KindFinal,
}

func (k TestKind) IsValid() bool {
	for _, v := range AllTestKinds {
		if k == v {
			return true
		}
	}
	return false
}

func (k TestKind) slug() string {
	switch k {
	case KindPreTest:
		return "pre"
	case KindPostTest:
		return "post"
	default:
		return "final"
	}
}

// Key builds the deterministic quiz identifier for a scope and kind.
func Key(scopeID uuid.UUID, kind TestKind) string {
	return fmt.Sprintf("%s-%s", scopeID, kind.slug())
}

// KeyCandidates returns every identifier format ever written for this quiz,
// newest first. Attempts created before the identifier scheme changed used
// "<kind>_<scope>", so lookups must match both.
func KeyCandidates(scopeID uuid.UUID, kind TestKind) []string {
	return []string{
		Key(scopeID, kind),
		fmt.Sprintf("%s_%s", kind.slug(), scopeID),
	}
}

func kindFromSlug(s string) (TestKind, bool) {
	switch s {
	case "pre":
		return KindPreTest, true
	case "post":
		return KindPostTest, true
	case "final":
		return KindFinal, true
	default:
		return "", false
	}
}

// ParseKey inverts Key for both identifier formats, so behavior keyed on the
// kind never has to sniff the string shape.
func ParseKey(id string) (uuid.UUID, TestKind, error) {
	if i := strings.Index(id, "_"); i > 0 {
		if kind, ok := kindFromSlug(id[:i]); ok {
			if scopeID, err := uuid.Parse(id[i+1:]); err == nil {
				return scopeID, kind, nil
			}
		}
	}
	if i := strings.LastIndex(id, "-"); i > 0 {
		if kind, ok := kindFromSlug(id[i+1:]); ok {
			if scopeID, err := uuid.Parse(id[:i]); err == nil {
				return scopeID, kind, nil
			}
		}
	}
	return uuid.Nil, "", ErrInvalidQuizID
}
