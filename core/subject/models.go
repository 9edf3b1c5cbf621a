package subject

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

// Subject is one course offering for an academic year; its credits weight
// the report-card GPA.
type Subject struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	Credits      float64   `json:"credits"`
	AcademicYear string    `json:"academic_year"`
	TeacherID    null.Int  `json:"teacher_id"`
	ClassID      null.Int  `json:"class_id"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name         string   `json:"name" validate:"required"`
	Code         string   `json:"code" validate:"required,alphanum_"`
	Credits      float64  `json:"credits" validate:"required,gt=0"`
	AcademicYear string   `json:"academic_year" validate:"omitempty,academicyear"`
	TeacherID    null.Int `json:"teacher_id"`
	ClassID      null.Int `json:"class_id"`
}

func (ns *NewSubject) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Code = core.CleanString(ns.Code, true /* lower */)
	if ns.AcademicYear == "" {
		ns.AcademicYear = core.CurrentAcademicYear()
	}
	return core.Validate.Struct(ns)
}
