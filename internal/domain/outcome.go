package domain

// SubmissionOutcome is the closed set of results a code submission can end in:
// *GradedOutcome, *InputRequiredOutcome, *ValidationFailedOutcome or *ServiceErrorOutcome.
type SubmissionOutcome interface {
	isSubmissionOutcome()
}

// GradedOutcome carries exactly one of Answer or Exercise, depending on the submission target.
type GradedOutcome struct {
	Feedback      *Feedback
	Answer        *CodeAnswer
	Exercise      *PersonalizedExercise
	PointsAwarded int
}

// InputRequiredOutcome ends the workflow before grading because the program blocked on stdin.
type InputRequiredOutcome struct {
	Message     string
	StdoutSoFar string
}

type ValidationFailedOutcome struct {
	Err error
}

// ServiceErrorOutcome wraps executor, grader and parser failures.
type ServiceErrorOutcome struct {
	Err error
}

func (*GradedOutcome) isSubmissionOutcome()           {}
func (*InputRequiredOutcome) isSubmissionOutcome()    {}
func (*ValidationFailedOutcome) isSubmissionOutcome() {}
func (*ServiceErrorOutcome) isSubmissionOutcome()     {}

const InputRequiredMessage = "Your program is waiting for input. Provide values in inputs and submit again."
