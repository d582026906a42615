package progress

import "math"

const (
	preTestCredit   = 25
	materialsCredit = 50

	// practicePhaseCredit is a flat grant: practice engagement is not
	// separately measured, reaching the phase is what earns the credit.
	// Deliberate simplification; replace this constant if practice ever
	// gets its own tracking.
	practicePhaseCredit = 15
)

// TopicSnapshot is everything the topic roll-up needs, already loaded.
type TopicSnapshot struct {
	PreTestCompleted  bool
	MaterialsViewed   int
	MaterialsTotal    int
	PostTestCompleted bool
}

// ComputeTopicProgress rolls a snapshot up into a 0-100 value and the phase
// the learner is in. Phases gate linearly: materials only count after the
// pre-test, practice only opens once every material is viewed, and a
// completed post-test forces exactly 100.
func ComputeTopicProgress(s TopicSnapshot) (int, Phase) {
	if s.PostTestCompleted {
		return 100, PhaseCompleted
	}

	if !s.PreTestCompleted {
		return 0, PhasePreTest
	}

	pct := preTestCredit
	phase := PhaseLearning

	viewed := s.MaterialsViewed
	if viewed > s.MaterialsTotal {
		viewed = s.MaterialsTotal
	}

	if s.MaterialsTotal > 0 {
		pct += int(math.Round(float64(materialsCredit) * float64(viewed) / float64(s.MaterialsTotal)))
	}

	// A topic with no required materials has nothing to view; the learning
	// phase is vacuously satisfied.
	if viewed == s.MaterialsTotal {
		if s.MaterialsTotal == 0 {
			pct += materialsCredit
		}
		pct += practicePhaseCredit
		phase = PhasePractice
	}

	if pct > 100 {
		pct = 100
	}
	return pct, phase
}

// ComputeCourseProgress is the enrollment roll-up: a full recount, never an
// increment, so missed events cannot make it drift.
func ComputeCourseProgress(completedTopics, totalTopics int) int {
	if totalTopics <= 0 {
		return 0
	}
	return int(math.Round(float64(completedTopics) / float64(totalTopics) * 100))
}

// FinalAssessmentUnlocked requires every topic complete; a course with no
// topics never unlocks its final assessment.
func FinalAssessmentUnlocked(completedTopics, totalTopics int) bool {
	return totalTopics > 0 && completedTopics == totalTopics
}
