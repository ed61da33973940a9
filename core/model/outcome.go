package model

// Outcome classifies what happened to one instance of a batch.
type Outcome string

const (
	OutcomeSolved  Outcome = "solved"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// Valid reports whether o is one of the known outcomes.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeSolved, OutcomeFailed, OutcomeSkipped:
		return true
	}
	return false
}
