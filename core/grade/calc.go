package grade

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

// Letter determines the letter grade for a percentage score.
// Breakpoints are inclusive lower bounds; out-of-range values are not
// clamped, the request validation layer bounds inputs.
func Letter(percentage float64) string {
	switch {
	case percentage >= 90:
		return LetterA
	case percentage >= 80:
		return LetterB
	case percentage >= 70:
		return LetterC
	case percentage >= 60:
		return LetterD
	default:
		return LetterF
	}
}

// Recompute re-derives GradeValue and LetterGrade from the grade's points.
// When earned points are set (and max points > 0) the percentage is the
// rounded points ratio; otherwise a directly supplied grade value stands and
// only the letter grade is re-derived.
func Recompute(g *Grade) {
	if g.EarnedPoints.Valid && g.MaxPoints > 0 {
		g.GradeValue = null.Float64From(core.Round2(g.EarnedPoints.Float64 / g.MaxPoints * 100))
	}
	if g.GradeValue.Valid {
		g.LetterGrade = Letter(g.GradeValue.Float64)
	}
}
