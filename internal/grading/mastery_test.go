package grading_test

import (
	"testing"

	"github.com/edulane/edulane-api/internal/grading"
)

func TestLevel(t *testing.T) {
	cases := []struct {
		score    int
		expected grading.MasteryLevel
	}{
		{0, grading.MasteryBeginning},
		{69, grading.MasteryBeginning},
		{70, grading.MasteryDeveloping},
		{79, grading.MasteryDeveloping},
		{80, grading.MasteryProficient},
		{89, grading.MasteryProficient},
		{90, grading.MasteryMastered},
		{100, grading.MasteryMastered},
	}

	for _, c := range cases {
		if got := grading.Level(c.score); got != c.expected {
			t.Errorf("Level(%d) = %s, expected %s", c.score, got, c.expected)
		}
	}
}
