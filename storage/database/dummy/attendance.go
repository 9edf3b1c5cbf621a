package dummydb

import (
	"sort"
	"time"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/reportcard"
)

type attendanceRepository struct {
	db *attendanceTable
}

// interface compliance checks
var (
	_ attendance.Repository       = (*attendanceRepository)(nil)
	_ reportcard.AttendanceSource = (*attendanceRepository)(nil)
)

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) query() []attendance.Record {
	records := make([]attendance.Record, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		records = append(records, *r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}

func (repo *attendanceRepository) CreateRecord(r attendance.Record) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, rec := range repo.db.table {
		if rec.Key() == r.Key() {
			return attendance.Record{}, attendance.ErrDuplicateRecord
		}
	}

	repo.db.pkCount++
	r.ID = repo.db.pkCount
	repo.db.table[r.ID] = &r
	return r, nil
}

func (repo *attendanceRepository) GetRecordByID(id int) (attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.table[id]; ok {
		return *r, nil
	}
	return attendance.Record{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) QueryStudentRecords(studentID int, from, to time.Time) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var res []attendance.Record
	for _, r := range repo.query() {
		if r.StudentID != studentID {
			continue
		}
		if !from.IsZero() && r.Date.Before(from) {
			continue
		}
		if !to.IsZero() && r.Date.After(to) {
			continue
		}
		res = append(res, r)
	}
	return res, nil
}

func (repo *attendanceRepository) QueryDateRecords(studentIDs []int, date time.Time) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := make(map[int]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		ids[id] = struct{}{}
	}

	var res []attendance.Record
	for _, r := range repo.query() {
		if _, ok := ids[r.StudentID]; !ok {
			continue
		}
		if !sameDay(r.Date, date) {
			continue
		}
		res = append(res, r)
	}
	return res, nil
}

func (repo *attendanceRepository) UpdateRecord(r attendance.Record) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[r.ID]; !ok {
		return attendance.Record{}, attendance.ErrNotFound
	}
	repo.db.table[r.ID] = &r
	return r, nil
}

func (repo *attendanceRepository) DeleteRecordsByID(ids ...int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

// StudentRecords feeds the report card attendance rollup.
func (repo *attendanceRepository) StudentRecords(studentID int) ([]attendance.Record, error) {
	return repo.QueryStudentRecords(studentID, time.Time{}, time.Time{})
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}
