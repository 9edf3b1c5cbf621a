package sqlxrepos

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/reportcard"
)

type attendanceRow struct {
	ID           int       `db:"id"`
	StudentID    int       `db:"student_id"`
	Date         time.Time `db:"date"`
	Status       string    `db:"status"`
	SubjectID    null.Int  `db:"subject_id"`
	Period       string    `db:"period"`
	CheckInTime  null.Time `db:"check_in_time"`
	CheckOutTime null.Time `db:"check_out_time"`
	Notes        string    `db:"notes"`
	MarkedBy     null.Int  `db:"marked_by"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r attendanceRow) model() attendance.Record {
	return attendance.Record{
		ID:           r.ID,
		StudentID:    r.StudentID,
		Date:         r.Date,
		Status:       r.Status,
		SubjectID:    r.SubjectID,
		Period:       r.Period,
		CheckInTime:  r.CheckInTime,
		CheckOutTime: r.CheckOutTime,
		Notes:        r.Notes,
		MarkedBy:     r.MarkedBy,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func attendanceModels(rows []attendanceRow) []attendance.Record {
	records := make([]attendance.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.model())
	}
	return records
}

type attendanceRepository struct {
	db *sqlx.DB
}

var (
	_ attendance.Repository       = (*attendanceRepository)(nil) // interface compliance check
	_ reportcard.AttendanceSource = (*attendanceRepository)(nil)
)

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo attendanceRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return attendance.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo attendanceRepository) CreateRecord(r attendance.Record) (attendance.Record, error) {
	// the table's UNIQUE constraint does not fire on NULL subject_id,
	// so the tuple has to be checked up front
	var exists bool
	dupQuery := `
SELECT EXISTS (
    SELECT 1 FROM attendance
    WHERE student_id = $1 AND date = $2 AND COALESCE(subject_id, 0) = $3 AND period = $4
)`
	if err := repo.db.Get(&exists, dupQuery, r.StudentID, r.Date, r.SubjectID.Int, r.Period); err != nil {
		return attendance.Record{}, errors.Wrap(err, "checking attendance uniqueness")
	}
	if exists {
		return attendance.Record{}, attendance.ErrDuplicateRecord
	}

	query := `
INSERT INTO attendance (student_id, date, status, subject_id, period, check_in_time, check_out_time, notes, marked_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id`
	err := repo.db.Get(
		&r.ID, query,
		r.StudentID, r.Date, r.Status, r.SubjectID, r.Period, r.CheckInTime, r.CheckOutTime, r.Notes, r.MarkedBy, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Record{}, attendance.ErrDuplicateRecord
		}
		return attendance.Record{}, errors.Wrap(err, "inserting attendance record")
	}
	return r, nil
}

func (repo attendanceRepository) GetRecordByID(id int) (attendance.Record, error) {
	var row attendanceRow
	if err := repo.db.Get(&row, `SELECT * FROM attendance WHERE id = $1`, id); err != nil {
		return attendance.Record{}, repo.trapNoRowsErr(err, "finding attendance record by ID")
	}
	return row.model(), nil
}

func (repo attendanceRepository) QueryStudentRecords(studentID int, from, to time.Time) ([]attendance.Record, error) {
	query := `SELECT * FROM attendance WHERE student_id = $1`
	args := []interface{}{studentID}
	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(` AND date >= $%d`, len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(` AND date <= $%d`, len(args))
	}
	query += ` ORDER BY date, id`

	var rows []attendanceRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying student attendance")
	}
	return attendanceModels(rows), nil
}

func (repo attendanceRepository) QueryDateRecords(studentIDs []int, date time.Time) ([]attendance.Record, error) {
	var rows []attendanceRow
	query := `SELECT * FROM attendance WHERE student_id = ANY($1) AND date = $2 ORDER BY student_id, id`
	if err := repo.db.Select(&rows, query, pq.Array(studentIDs), date); err != nil {
		return nil, errors.Wrap(err, "querying attendance by date")
	}
	return attendanceModels(rows), nil
}

func (repo attendanceRepository) UpdateRecord(r attendance.Record) (attendance.Record, error) {
	query := `
UPDATE attendance
SET status = $1, check_in_time = $2, check_out_time = $3, notes = $4, updated_at = $5
WHERE id = $6
RETURNING *`
	var row attendanceRow
	err := repo.db.Get(
		&row, query,
		r.Status, r.CheckInTime, r.CheckOutTime, r.Notes, r.UpdatedAt.UTC(), r.ID,
	)
	if err != nil {
		return attendance.Record{}, repo.trapNoRowsErr(err, "updating attendance record")
	}
	return row.model(), nil
}

func (repo attendanceRepository) DeleteRecordsByID(ids ...int) error {
	_, err := repo.db.Exec(`DELETE FROM attendance WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting attendance records")
}

// StudentRecords feeds the report-card attendance aggregation.
func (repo attendanceRepository) StudentRecords(studentID int) ([]attendance.Record, error) {
	return repo.QueryStudentRecords(studentID, time.Time{}, time.Time{})
}
