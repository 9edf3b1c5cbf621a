package attendance_test

import (
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/student"
	dummydb "github.com/trezcool/shule/storage/database/dummy"
	testutil "github.com/trezcool/shule/tests"
)

func newAttendanceSvc(t *testing.T) (*attendance.Service, attendance.Repository, student.Repository) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	repo := dummydb.NewAttendanceRepository(db)
	studentRepo := dummydb.NewStudentRepository(db)
	roster := student.NewService(studentRepo)
	return attendance.NewService(repo, roster), repo, studentRepo
}

func TestServiceMark(t *testing.T) {
	svc, _, _ := newAttendanceSvc(t)

	day := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	nr := attendance.NewRecord{StudentID: 1, Date: day, Status: attendance.StatusPresent}

	if _, err := svc.Mark(nr, null.IntFrom(5)); err != nil {
		t.Fatalf("Mark() failed: %v", err)
	}

	// same (student, date, subject, period) tuple is rejected
	if _, err := svc.Mark(nr, null.IntFrom(5)); err != attendance.ErrDuplicateRecord {
		t.Errorf("Mark() error = %v, want %v", err, attendance.ErrDuplicateRecord)
	}

	// another period on the same day is fine
	perPeriod := nr
	perPeriod.SubjectID = null.IntFrom(2)
	perPeriod.Period = "Period 2"
	if _, err := svc.Mark(perPeriod, null.IntFrom(5)); err != nil {
		t.Errorf("Mark() failed: %v", err)
	}
}

func TestServiceStudentSummary(t *testing.T) {
	svc, repo, _ := newAttendanceSvc(t)

	day := func(d int) time.Time { return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC) }
	testutil.MarkAttendance(t, repo, 1, day(1), attendance.StatusPresent)
	testutil.MarkAttendance(t, repo, 1, day(2), attendance.StatusLate)
	testutil.MarkAttendance(t, repo, 1, day(3), attendance.StatusAbsent)
	testutil.MarkAttendance(t, repo, 1, day(4), attendance.StatusExcused)
	testutil.MarkAttendance(t, repo, 1, day(10), attendance.StatusAbsent)

	sum, err := svc.StudentSummary(1, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("StudentSummary() failed: %v", err)
	}
	want := attendance.Summary{TotalDays: 5, PresentDays: 2, AbsentDays: 2, LateDays: 1, ExcusedDays: 1, Percentage: 40}
	if sum != want {
		t.Errorf("StudentSummary() = %+v, want %+v", sum, want)
	}

	// date range bounds the rollup
	sum, err = svc.StudentSummary(1, day(1), day(4))
	if err != nil {
		t.Fatalf("StudentSummary() failed: %v", err)
	}
	want = attendance.Summary{TotalDays: 4, PresentDays: 2, AbsentDays: 1, LateDays: 1, ExcusedDays: 1, Percentage: 50}
	if sum != want {
		t.Errorf("StudentSummary() = %+v, want %+v", sum, want)
	}
}

func TestServiceClassDaily(t *testing.T) {
	svc, repo, studentRepo := newAttendanceSvc(t)

	classID := null.IntFrom(1)
	s1 := testutil.CreateStudent(t, studentRepo, "Asha", "Odhiambo", "adm001", classID)
	s2 := testutil.CreateStudent(t, studentRepo, "Brian", "Mwangi", "adm002", classID)
	s3 := testutil.CreateStudent(t, studentRepo, "Caro", "Njeri", "adm003", classID)
	testutil.CreateStudent(t, studentRepo, "Dida", "Wafula", "adm004", null.IntFrom(2)) // another class

	day := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	testutil.MarkAttendance(t, repo, s1.ID, day, attendance.StatusPresent)
	testutil.MarkAttendance(t, repo, s2.ID, day, attendance.StatusLate)
	// s3 has no record and defaults to absent

	sum, err := svc.ClassDaily(1, day)
	if err != nil {
		t.Fatalf("ClassDaily() failed: %v", err)
	}
	if len(sum.Students) != 3 {
		t.Fatalf("ClassDaily() = %d students, want 3", len(sum.Students))
	}
	if sum.PresentCount != 2 || sum.AbsentCount != 1 {
		t.Errorf("ClassDaily() present/absent = %d/%d, want 2/1", sum.PresentCount, sum.AbsentCount)
	}
	for _, ss := range sum.Students {
		if ss.StudentID == s3.ID && ss.OverallStatus != attendance.StatusAbsent {
			t.Errorf("student %d status = %v, want %v", s3.ID, ss.OverallStatus, attendance.StatusAbsent)
		}
	}
}

func TestServiceUpdate(t *testing.T) {
	svc, repo, _ := newAttendanceSvc(t)

	day := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	r := testutil.MarkAttendance(t, repo, 1, day, attendance.StatusAbsent)

	r, err := svc.Update(r.ID, attendance.UpdateRecord{Status: attendance.StatusExcused, Notes: "sick note"})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if r.Status != attendance.StatusExcused {
		t.Errorf("Status = %v, want %v", r.Status, attendance.StatusExcused)
	}
	if r.Notes != "sick note" {
		t.Errorf("Notes = %v, want %v", r.Notes, "sick note")
	}
}
