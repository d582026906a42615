package progress

type ProgressType string

const (
	TypePreTest        ProgressType = "PRE_TEST"
	TypePostTest       ProgressType = "POST_TEST"
	TypeMaterialViewed ProgressType = "MATERIAL_VIEWED"
	TypePractice       ProgressType = "PRACTICE"
)

// Phase is the sequential gate a learner is currently in for a topic.
type Phase string

const (
	PhasePreTest   Phase = "PRE_TEST"
	PhaseLearning  Phase = "LEARNING"
	PhasePractice  Phase = "PRACTICE"
	PhaseCompleted Phase = "COMPLETED"
)
