package fsrs

import "fmt"

// Grade is the model-internal rating of a single recall attempt.
//
// The sprout root package maps its public Rating onto a Grade; the numeric
// values 1..4 are the G term in the FSRS weight formulas.
type Grade int

const (
	GradeAgain Grade = iota + 1 // Failed to recall.
	GradeHard                   // Recalled with serious difficulty.
	GradeGood                   // Recalled with some effort.
	GradeEasy                   // Recalled effortlessly.
)

var gradeNames = [...]string{GradeAgain: "Again", GradeHard: "Hard", GradeGood: "Good", GradeEasy: "Easy"}

// IsValid reports whether g is a valid grade (GradeAgain through GradeEasy).
func (g Grade) IsValid() bool {
	return g >= GradeAgain && g <= GradeEasy
}

// String returns the name of the grade. For invalid values it returns
// "Grade(n)".
func (g Grade) String() string {
	if g.IsValid() {
		return gradeNames[g]
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}
