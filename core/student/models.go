package student

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

// Lifecycle statuses
const (
	StatusActive      = "active"
	StatusDeactivated = "deactivated"
)

// Student is one enrolled learner. Lifecycle is an explicit tagged status
// rather than an is_active flag.
type Student struct {
	ID              int       `json:"id"`
	UserID          null.Int  `json:"user_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	AdmissionNumber string    `json:"admission_number"`
	ClassID         null.Int  `json:"class_id"`
	DateOfBirth     null.Time `json:"date_of_birth"`
	EnrollmentDate  time.Time `json:"enrollment_date"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"` // UTC
	UpdatedAt       time.Time `json:"updated_at"` // UTC
}

func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

func (s Student) IsActive() bool {
	return s.Status == StatusActive
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	UserID          null.Int  `json:"user_id"`
	FirstName       string    `json:"first_name" validate:"required"`
	LastName        string    `json:"last_name" validate:"required"`
	AdmissionNumber string    `json:"admission_number" validate:"required,alphanum_"`
	ClassID         null.Int  `json:"class_id"`
	DateOfBirth     null.Time `json:"date_of_birth"`
}

func (ns *NewStudent) Validate() error {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.AdmissionNumber = core.CleanString(ns.AdmissionNumber, true /* lower */)
	return core.Validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an
// existing Student.
type UpdateStudent struct {
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	ClassID     null.Int  `json:"class_id"`
	DateOfBirth null.Time `json:"date_of_birth"`
}

func (us *UpdateStudent) Validate() error {
	us.FirstName = core.CleanString(us.FirstName)
	us.LastName = core.CleanString(us.LastName)
	return core.Validate.Struct(us)
}
