package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/attendance"
	testutil "github.com/trezcool/shule/tests"
)

func TestAttendanceAPIMark(t *testing.T) {
	a := setup(t)
	teacherToken := getToken(t, a.teacher(t))
	studentToken := getToken(t, a.student(t))

	body := map[string]interface{}{
		"student_id": 1,
		"date":       "2025-03-03T00:00:00Z",
		"status":     attendance.StatusPresent,
	}

	// staff required
	rec := a.request(t, http.MethodPost, "/v1/attendance", studentToken, body)
	checkCode(t, rec, http.StatusForbidden)

	rec = a.request(t, http.MethodPost, "/v1/attendance", teacherToken, body)
	checkCode(t, rec, http.StatusCreated)

	var r attendance.Record
	decode(t, rec, &r)
	if r.Status != attendance.StatusPresent {
		t.Errorf("Status = %v, want %v", r.Status, attendance.StatusPresent)
	}
	if !r.MarkedBy.Valid {
		t.Error("MarkedBy was not stamped from the token")
	}

	// same (student, date, subject, period) tuple is rejected
	rec = a.request(t, http.MethodPost, "/v1/attendance", teacherToken, body)
	checkCode(t, rec, http.StatusConflict)

	// another period on the same day is fine
	body["period"] = "Period 2"
	rec = a.request(t, http.MethodPost, "/v1/attendance", teacherToken, body)
	checkCode(t, rec, http.StatusCreated)
}

func TestAttendanceAPIClassDaily(t *testing.T) {
	a := setup(t)
	teacherToken := getToken(t, a.teacher(t))

	classID := null.IntFrom(1)
	s1 := testutil.CreateStudent(t, a.studentRepo, "Asha", "Odhiambo", "adm001", classID)
	s2 := testutil.CreateStudent(t, a.studentRepo, "Brian", "Mwangi", "adm002", classID)
	testutil.CreateStudent(t, a.studentRepo, "Caro", "Njeri", "adm003", classID)

	day := "2025-03-03"
	testutil.MarkAttendance(t, a.attRepo, s1.ID, mustDate(t, day), attendance.StatusPresent)
	testutil.MarkAttendance(t, a.attRepo, s2.ID, mustDate(t, day), attendance.StatusLate)

	rec := a.request(t, http.MethodGet, "/v1/attendance/class/1/daily?date="+day, teacherToken, nil)
	checkCode(t, rec, http.StatusOK)

	var sum attendance.ClassDaySummary
	decode(t, rec, &sum)
	if len(sum.Students) != 3 {
		t.Fatalf("students = %d, want 3", len(sum.Students))
	}
	if sum.PresentCount != 2 || sum.AbsentCount != 1 {
		t.Errorf("present/absent = %d/%d, want 2/1", sum.PresentCount, sum.AbsentCount)
	}
}

func TestAttendanceAPIStudentSummary(t *testing.T) {
	a := setup(t)
	teacherToken := getToken(t, a.teacher(t))

	testutil.MarkAttendance(t, a.attRepo, 1, mustDate(t, "2025-03-01"), attendance.StatusPresent)
	testutil.MarkAttendance(t, a.attRepo, 1, mustDate(t, "2025-03-02"), attendance.StatusLate)
	testutil.MarkAttendance(t, a.attRepo, 1, mustDate(t, "2025-03-03"), attendance.StatusAbsent)
	testutil.MarkAttendance(t, a.attRepo, 1, mustDate(t, "2025-03-10"), attendance.StatusAbsent)

	rec := a.request(t, http.MethodGet, "/v1/attendance/student/1/summary", teacherToken, nil)
	checkCode(t, rec, http.StatusOK)

	var sum attendance.Summary
	decode(t, rec, &sum)
	if sum.TotalDays != 4 || sum.PresentDays != 2 {
		t.Errorf("summary = %+v, want 4 days with 2 present", sum)
	}

	// date range bounds the rollup
	rec = a.request(t, http.MethodGet, "/v1/attendance/student/1/summary?from=2025-03-01&to=2025-03-03", teacherToken, nil)
	checkCode(t, rec, http.StatusOK)
	decode(t, rec, &sum)
	if sum.TotalDays != 3 {
		t.Errorf("TotalDays = %d, want 3", sum.TotalDays)
	}

	// malformed bounds are rejected
	rec = a.request(t, http.MethodGet, "/v1/attendance/student/1/summary?from=lol", teacherToken, nil)
	checkCode(t, rec, http.StatusBadRequest)
}
