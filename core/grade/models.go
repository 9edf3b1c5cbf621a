package grade

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

// Grade types
const (
	TypeAssignment    = "assignment"
	TypeQuiz          = "quiz"
	TypeExam          = "exam"
	TypeProject       = "project"
	TypeParticipation = "participation"
)

// Letter grades
const (
	LetterA = "A"
	LetterB = "B"
	LetterC = "C"
	LetterD = "D"
	LetterF = "F"
)

var AllTypes = []string{TypeAssignment, TypeQuiz, TypeExam, TypeProject, TypeParticipation}

// Grade records one assessment outcome for a student in a subject.
// GradeValue and LetterGrade are derived; any mutation of EarnedPoints,
// MaxPoints or GradeValue must go through Recompute in the same operation.
type Grade struct {
	ID             int          `json:"id"`
	StudentID      int          `json:"student_id"`
	SubjectID      int          `json:"subject_id"`
	TeacherID      int          `json:"teacher_id"`
	GradeType      string       `json:"grade_type"`
	AssignmentName string       `json:"assignment_name"`
	GradeValue     null.Float64 `json:"grade_value"` // percentage (0-100)
	LetterGrade    string       `json:"letter_grade"`
	MaxPoints      float64      `json:"max_points"`
	EarnedPoints   null.Float64 `json:"earned_points"`
	Weight         float64      `json:"weight"`
	GradedDate     time.Time    `json:"graded_date"`
	DueDate        null.Time    `json:"due_date"`
	Comments       string       `json:"comments"`
	IsPublished    bool         `json:"is_published"`
	CreatedAt      time.Time    `json:"created_at"` // UTC
	UpdatedAt      time.Time    `json:"updated_at"` // UTC
}

// Percentage returns the normalized score; the points ratio when earned
// points are set, the directly supplied grade value otherwise.
func (g Grade) Percentage() float64 {
	if g.EarnedPoints.Valid && g.MaxPoints > 0 {
		return core.Round2(g.EarnedPoints.Float64 / g.MaxPoints * 100)
	}
	return g.GradeValue.Float64
}

// NewGrade contains information needed to record a new Grade.
type NewGrade struct {
	StudentID      int       `json:"student_id" validate:"required"`
	SubjectID      int       `json:"subject_id" validate:"required"`
	TeacherID      int       `json:"teacher_id" validate:"required"`
	GradeType      string    `json:"grade_type" validate:"required,oneof=assignment quiz exam project participation"`
	AssignmentName string    `json:"assignment_name"`
	GradeValue     *float64  `json:"grade_value" validate:"omitempty,gte=0,lte=100"`
	MaxPoints      float64   `json:"max_points" validate:"omitempty,gt=0"`
	EarnedPoints   *float64  `json:"earned_points" validate:"omitempty,gte=0"`
	Weight         float64   `json:"weight" validate:"omitempty,gt=0"`
	DueDate        null.Time `json:"due_date"`
	Comments       string    `json:"comments"`
}

func (ng *NewGrade) Validate() error {
	ng.AssignmentName = core.CleanString(ng.AssignmentName)
	if ng.MaxPoints == 0 {
		ng.MaxPoints = 100
	}
	if ng.Weight == 0 {
		ng.Weight = 1
	}
	return core.Validate.Struct(ng)
}

// UpdateGrade defines what information may be provided to re-grade an
// existing Grade. Nil fields keep their original values.
type UpdateGrade struct {
	AssignmentName string    `json:"assignment_name"`
	GradeValue     *float64  `json:"grade_value" validate:"omitempty,gte=0,lte=100"`
	MaxPoints      *float64  `json:"max_points" validate:"omitempty,gt=0"`
	EarnedPoints   *float64  `json:"earned_points" validate:"omitempty,gte=0"`
	Weight         *float64  `json:"weight" validate:"omitempty,gt=0"`
	DueDate        null.Time `json:"due_date"`
	Comments       string    `json:"comments"`
}

func (ug *UpdateGrade) Validate() error {
	ug.AssignmentName = core.CleanString(ug.AssignmentName)
	return core.Validate.Struct(ug)
}
