package reservation

import "fmt"

type Step int

const (
	StepDates Step = iota + 1
	StepContact
	StepConfirm
	StepSubmitted
)

func (s Step) String() string {
	switch s {
	case StepDates:
		return "dates"
	case StepContact:
		return "contact"
	case StepConfirm:
		return "confirm"
	case StepSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Validate reports whether the fields required by step are filled in.
// Steps without requirements are always valid.
func Validate(step Step, d Draft) bool {
	switch step {
	case StepDates:
		return d.StartDate != "" && d.EndDate != ""
	case StepContact:
		return d.FirstName != "" && d.LastName != "" && d.Email != "" && d.Phone != ""
	case StepConfirm:
		return d.AcceptedTerms
	default:
		return true
	}
}
