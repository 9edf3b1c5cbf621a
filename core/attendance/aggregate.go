package attendance

import "github.com/trezcool/shule/core"

// Summary rolls a set of attendance records into presence counts and a
// percentage. PresentDays counts present-equivalent records (present and
// late); LateDays is also reported standalone, so the per-status counts
// deliberately overlap with PresentDays and need not sum to TotalDays.
type Summary struct {
	TotalDays   int     `json:"total_days"`
	PresentDays int     `json:"present_days"`
	AbsentDays  int     `json:"absent_days"`
	LateDays    int     `json:"late_days"`
	ExcusedDays int     `json:"excused_days"`
	Percentage  float64 `json:"attendance_percentage"`
}

// Aggregate computes a Summary over the given records. Pure function: no
// side effects, no persistence. Records violating the uniqueness tuple are
// counted once (first wins) so an upstream violation never double-counts.
func Aggregate(records []Record) Summary {
	var sum Summary
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		key := r.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		sum.TotalDays++
		if r.IsPresentEquivalent() {
			sum.PresentDays++
		}
		switch r.Status {
		case StatusAbsent:
			sum.AbsentDays++
		case StatusLate:
			sum.LateDays++
		case StatusExcused:
			sum.ExcusedDays++
		}
	}
	if sum.TotalDays > 0 {
		sum.Percentage = core.Round2(float64(sum.PresentDays) / float64(sum.TotalDays) * 100)
	}
	return sum
}

// DayStatus reduces a student's subject-scoped records for a single date to
// one overall status. Priority: present > late > excused > absent (default).
// Used by class-level daily summaries only, never by Aggregate.
func DayStatus(records []Record) string {
	status := StatusAbsent
	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			return StatusPresent
		case StatusLate:
			status = StatusLate
		case StatusExcused:
			if status != StatusLate {
				status = StatusExcused
			}
		}
	}
	return status
}
