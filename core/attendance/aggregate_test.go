package attendance

import (
	"testing"
	"time"

	"github.com/volatiletech/null/v8"
)

func record(studentID int, date time.Time, status string, subjectID int, period string) Record {
	r := Record{StudentID: studentID, Date: date, Status: status, Period: period}
	if subjectID > 0 {
		r.SubjectID = null.IntFrom(subjectID)
	}
	return r
}

func TestAggregate(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name    string
		records []Record
		want    Summary
	}{
		{
			name: "empty",
			want: Summary{},
		},
		{
			name: "late counts as present",
			records: []Record{
				record(1, day(1), StatusPresent, 0, ""),
				record(1, day(2), StatusLate, 0, ""),
				record(1, day(3), StatusAbsent, 0, ""),
				record(1, day(4), StatusExcused, 0, ""),
			},
			want: Summary{TotalDays: 4, PresentDays: 2, AbsentDays: 1, LateDays: 1, ExcusedDays: 1, Percentage: 50},
		},
		{
			name: "percentage rounds to 2 decimals",
			records: []Record{
				record(1, day(1), StatusPresent, 0, ""),
				record(1, day(2), StatusPresent, 0, ""),
				record(1, day(3), StatusAbsent, 0, ""),
			},
			want: Summary{TotalDays: 3, PresentDays: 2, AbsentDays: 1, Percentage: 66.67},
		},
		{
			name: "duplicate tuple counted once",
			records: []Record{
				record(1, day(1), StatusPresent, 0, ""),
				record(1, day(1), StatusAbsent, 0, ""),
			},
			want: Summary{TotalDays: 1, PresentDays: 1, Percentage: 100},
		},
		{
			name: "subject and period scope distinct tuples",
			records: []Record{
				record(1, day(1), StatusPresent, 1, "Period 1"),
				record(1, day(1), StatusAbsent, 2, "Period 2"),
			},
			want: Summary{TotalDays: 2, PresentDays: 1, AbsentDays: 1, Percentage: 50},
		},
		{
			name: "all absent",
			records: []Record{
				record(1, day(1), StatusAbsent, 0, ""),
				record(1, day(2), StatusAbsent, 0, ""),
			},
			want: Summary{TotalDays: 2, AbsentDays: 2, Percentage: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aggregate(tt.records); got != tt.want {
				t.Errorf("Aggregate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDayStatus(t *testing.T) {
	day := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		records []Record
		want    string
	}{
		{name: "no records defaults to absent", want: StatusAbsent},
		{
			name: "present wins",
			records: []Record{
				record(1, day, StatusAbsent, 1, "Period 1"),
				record(1, day, StatusPresent, 2, "Period 2"),
			},
			want: StatusPresent,
		},
		{
			name: "late beats excused",
			records: []Record{
				record(1, day, StatusExcused, 1, "Period 1"),
				record(1, day, StatusLate, 2, "Period 2"),
			},
			want: StatusLate,
		},
		{
			name: "excused beats absent",
			records: []Record{
				record(1, day, StatusAbsent, 1, "Period 1"),
				record(1, day, StatusExcused, 2, "Period 2"),
			},
			want: StatusExcused,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayStatus(tt.records); got != tt.want {
				t.Errorf("DayStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}
