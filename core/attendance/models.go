package attendance

import (
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

// Attendance statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusExcused = "excused"
)

var AllStatuses = []string{StatusPresent, StatusAbsent, StatusLate, StatusExcused}

// Record is one presence marking for a student on a date, optionally scoped
// to a subject and period. At most one record may exist per
// (student, date, subject, period) tuple.
type Record struct {
	ID           int       `json:"id"`
	StudentID    int       `json:"student_id"`
	Date         time.Time `json:"date"`
	Status       string    `json:"status"`
	SubjectID    null.Int  `json:"subject_id"`
	Period       string    `json:"period"` // Morning, Afternoon, Period 1, etc.
	CheckInTime  null.Time `json:"check_in_time"`
	CheckOutTime null.Time `json:"check_out_time"`
	Notes        string    `json:"notes"`
	MarkedBy     null.Int  `json:"marked_by"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

// IsPresentEquivalent reports whether the record counts toward presence;
// late arrivals still count as present for aggregation purposes.
func (r Record) IsPresentEquivalent() bool {
	return r.Status == StatusPresent || r.Status == StatusLate
}

// Key identifies the record's uniqueness tuple.
func (r Record) Key() string {
	return fmt.Sprintf("%d|%s|%d|%s", r.StudentID, r.Date.Format("2006-01-02"), r.SubjectID.Int, r.Period)
}

// DurationHours is the time between check-in and check-out, when both are set.
func (r Record) DurationHours() (float64, bool) {
	if !r.CheckInTime.Valid || !r.CheckOutTime.Valid {
		return 0, false
	}
	d := r.CheckOutTime.Time.Sub(r.CheckInTime.Time)
	return core.Round2(d.Hours()), true
}

// NewRecord contains information needed to mark attendance.
type NewRecord struct {
	StudentID    int       `json:"student_id" validate:"required"`
	Date         time.Time `json:"date"`
	Status       string    `json:"status" validate:"omitempty,oneof=present absent late excused"`
	SubjectID    null.Int  `json:"subject_id"`
	Period       string    `json:"period"`
	CheckInTime  null.Time `json:"check_in_time"`
	CheckOutTime null.Time `json:"check_out_time"`
	Notes        string    `json:"notes"`
}

func (nr *NewRecord) Validate() error {
	nr.Period = core.CleanString(nr.Period)
	nr.Notes = core.CleanString(nr.Notes)
	if nr.Status == "" {
		nr.Status = StatusPresent
	}
	if nr.Date.IsZero() {
		nr.Date = core.Today()
	}
	return core.Validate.Struct(nr)
}

// UpdateRecord defines what information may be provided to correct an
// existing attendance record.
type UpdateRecord struct {
	Status       string    `json:"status" validate:"omitempty,oneof=present absent late excused"`
	CheckInTime  null.Time `json:"check_in_time"`
	CheckOutTime null.Time `json:"check_out_time"`
	Notes        string    `json:"notes"`
}

func (ur *UpdateRecord) Validate() error {
	ur.Notes = core.CleanString(ur.Notes)
	return core.Validate.Struct(ur)
}
