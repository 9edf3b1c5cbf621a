package attendance

import (
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
)

var (
	// errors
	ErrNotFound        = errors.New("attendance record not found")
	ErrDuplicateRecord = errors.New("attendance already marked for this student, date, subject and period")
)

type (
	Repository interface {
		// CreateRecord fails with ErrDuplicateRecord when a record already
		// exists for the (student, date, subject, period) tuple.
		CreateRecord(r Record) (Record, error)
		GetRecordByID(id int) (Record, error)
		// QueryStudentRecords returns a student's records; from/to bound the
		// date range when non-zero.
		QueryStudentRecords(studentID int, from, to time.Time) ([]Record, error)
		QueryDateRecords(studentIDs []int, date time.Time) ([]Record, error)
		UpdateRecord(r Record) (Record, error)
		DeleteRecordsByID(ids ...int) error
	}

	// Roster resolves class membership; backed by the student store.
	Roster interface {
		ClassStudentIDs(classID int) ([]int, error)
	}

	// StudentDaySummary is one student's reduced status for a single date.
	StudentDaySummary struct {
		StudentID     int      `json:"student_id"`
		OverallStatus string   `json:"overall_status"`
		Records       []Record `json:"records"`
	}

	// ClassDaySummary reduces a class's records for a single date.
	ClassDaySummary struct {
		Date         time.Time           `json:"date"`
		Students     []StudentDaySummary `json:"students"`
		PresentCount int                 `json:"present_count"`
		AbsentCount  int                 `json:"absent_count"`
	}

	Service struct {
		repo   Repository
		roster Roster
	}
)

func NewService(repo Repository, roster Roster) *Service {
	return &Service{repo: repo, roster: roster}
}

// Mark records one presence marking; at most one record may exist per
// (student, date, subject, period) tuple.
func (svc *Service) Mark(nr NewRecord, markedBy null.Int) (Record, error) {
	now := time.Now().UTC()
	r := Record{
		StudentID:    nr.StudentID,
		Date:         nr.Date,
		Status:       nr.Status,
		SubjectID:    nr.SubjectID,
		Period:       nr.Period,
		CheckInTime:  nr.CheckInTime,
		CheckOutTime: nr.CheckOutTime,
		Notes:        nr.Notes,
		MarkedBy:     markedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateRecord(r)
}

func (svc *Service) GetByID(id int) (Record, error) {
	return svc.repo.GetRecordByID(id)
}

func (svc *Service) QueryByStudent(studentID int, from, to time.Time) ([]Record, error) {
	return svc.repo.QueryStudentRecords(studentID, from, to)
}

// StudentSummary aggregates a student's records over an optional date range.
func (svc *Service) StudentSummary(studentID int, from, to time.Time) (Summary, error) {
	records, err := svc.repo.QueryStudentRecords(studentID, from, to)
	if err != nil {
		return Summary{}, err
	}
	return Aggregate(records), nil
}

// ClassDaily reduces each class member's subject-scoped records for one date
// to an overall status; students with no record default to absent.
func (svc *Service) ClassDaily(classID int, date time.Time) (ClassDaySummary, error) {
	studentIDs, err := svc.roster.ClassStudentIDs(classID)
	if err != nil {
		return ClassDaySummary{}, err
	}
	records, err := svc.repo.QueryDateRecords(studentIDs, date)
	if err != nil {
		return ClassDaySummary{}, err
	}

	byStudent := make(map[int][]Record, len(studentIDs))
	for _, r := range records {
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
	}

	sum := ClassDaySummary{Date: date, Students: make([]StudentDaySummary, 0, len(studentIDs))}
	for _, sid := range studentIDs {
		recs := byStudent[sid]
		status := DayStatus(recs)
		if recs == nil {
			recs = []Record{}
		}
		sum.Students = append(sum.Students, StudentDaySummary{StudentID: sid, OverallStatus: status, Records: recs})
		if status == StatusPresent || status == StatusLate {
			sum.PresentCount++
		} else {
			sum.AbsentCount++
		}
	}
	return sum, nil
}

// Update corrects an existing record.
func (svc *Service) Update(id int, ur UpdateRecord) (Record, error) {
	r, err := svc.repo.GetRecordByID(id)
	if err != nil {
		return Record{}, err
	}

	if ur.Status != "" {
		r.Status = ur.Status
	}
	if ur.CheckInTime.Valid {
		r.CheckInTime = ur.CheckInTime
	}
	if ur.CheckOutTime.Valid {
		r.CheckOutTime = ur.CheckOutTime
	}
	if ur.Notes != "" {
		r.Notes = ur.Notes
	}
	r.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateRecord(r)
}

func (svc *Service) Delete(ids ...int) error {
	return svc.repo.DeleteRecordsByID(ids...)
}
