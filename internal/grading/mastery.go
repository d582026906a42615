package grading

type MasteryLevel string

const (
	MasteryBeginning  MasteryLevel = "BEGINNING"
	MasteryDeveloping MasteryLevel = "DEVELOPING"
	MasteryProficient MasteryLevel = "PROFICIENT"
	MasteryMastered   MasteryLevel = "MASTERED"
)

// Level maps a percentage score to a mastery tier. Boundaries are inclusive
// at the bottom of each tier: 90 is mastered, 80 proficient, 70 developing.
func Level(score int) MasteryLevel {
	switch {
	case score >= 90:
		return MasteryMastered
	case score >= 80:
		return MasteryProficient
	case score >= 70:
		return MasteryDeveloping
	default:
		return MasteryBeginning
	}
}
