package echoapi_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/reportcard"
	testutil "github.com/trezcool/shule/tests"
)

func TestReportCardAPILifecycle(t *testing.T) {
	a := setup(t)
	adminToken := getToken(t, a.admin(t))
	studentToken := getToken(t, a.student(t))

	const year = "2024-2025"
	classID := null.IntFrom(1)
	s := testutil.CreateStudent(t, a.studentRepo, "Asha", "Odhiambo", "adm001", classID)
	math := testutil.CreateSubject(t, a.subjectRepo, "Mathematics", "math101", 4, year, classID)
	eng := testutil.CreateSubject(t, a.subjectRepo, "English", "eng101", 2, year, classID)
	testutil.CreateGrade(t, a.gradeRepo, s.ID, math.ID, 80, 100, true)
	testutil.CreateGrade(t, a.gradeRepo, s.ID, eng.ID, 90, 100, true)
	testutil.MarkAttendance(t, a.attRepo, s.ID, mustDate(t, "2025-03-03"), attendance.StatusPresent)

	body := map[string]interface{}{"student_id": s.ID, "academic_year": year, "semester": "first"}
	rec := a.request(t, http.MethodPost, "/v1/report-cards", adminToken, body)
	checkCode(t, rec, http.StatusCreated)

	var rc reportcard.ReportCard
	decode(t, rec, &rc)
	if rc.OverallGPA != 83.33 {
		t.Errorf("OverallGPA = %v, want 83.33", rc.OverallGPA)
	}
	if rc.OverallGrade != "B" {
		t.Errorf("OverallGrade = %v, want B", rc.OverallGrade)
	}

	// one card per (student, academic year, semester)
	rec = a.request(t, http.MethodPost, "/v1/report-cards", adminToken, body)
	checkCode(t, rec, http.StatusConflict)

	// students only see published cards
	rec = a.request(t, http.MethodGet, fmt.Sprintf("/v1/report-cards/student/%d", s.ID), studentToken, nil)
	checkCode(t, rec, http.StatusOK)
	var cards []reportcard.ReportCard
	decode(t, rec, &cards)
	if len(cards) != 0 {
		t.Errorf("student sees %d unpublished cards, want 0", len(cards))
	}

	rec = a.request(t, http.MethodPost, fmt.Sprintf("/v1/report-cards/%d/publish", rc.ID), adminToken, nil)
	checkCode(t, rec, http.StatusOK)

	// the response carries the derived academic status
	var payload struct {
		reportcard.ReportCard
		AcademicStatus string `json:"academic_status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
	if !payload.IsPublished {
		t.Error("card was not published")
	}
	if payload.AcademicStatus != reportcard.StatusGood {
		t.Errorf("academic_status = %v, want %v", payload.AcademicStatus, reportcard.StatusGood)
	}
	if got, want := payload.RankInClass, null.IntFrom(1); got != want {
		t.Errorf("RankInClass = %v, want %v", got, want)
	}

	// publishing twice conflicts; republish is the explicit refresh path
	rec = a.request(t, http.MethodPost, fmt.Sprintf("/v1/report-cards/%d/publish", rc.ID), adminToken, nil)
	checkCode(t, rec, http.StatusConflict)
	rec = a.request(t, http.MethodPost, fmt.Sprintf("/v1/report-cards/%d/republish", rc.ID), adminToken, nil)
	checkCode(t, rec, http.StatusOK)

	rec = a.request(t, http.MethodGet, fmt.Sprintf("/v1/report-cards/student/%d", s.ID), studentToken, nil)
	checkCode(t, rec, http.StatusOK)
	decode(t, rec, &cards)
	if len(cards) != 1 {
		t.Errorf("student sees %d published cards, want 1", len(cards))
	}

	// comments stay editable after publication, deletion does not
	rec = a.request(t, http.MethodPut, fmt.Sprintf("/v1/report-cards/%d", rc.ID), adminToken, map[string]interface{}{
		"teacher_comments": "Solid term.",
	})
	checkCode(t, rec, http.StatusOK)
	rec = a.request(t, http.MethodDelete, fmt.Sprintf("/v1/report-cards/%d", rc.ID), adminToken, nil)
	checkCode(t, rec, http.StatusConflict)
}

func TestReportCardAPIPublishClass(t *testing.T) {
	a := setup(t)
	adminToken := getToken(t, a.admin(t))

	const year = "2024-2025"
	classID := null.IntFrom(1)
	s1 := testutil.CreateStudent(t, a.studentRepo, "Asha", "Odhiambo", "adm001", classID)
	s2 := testutil.CreateStudent(t, a.studentRepo, "Brian", "Mwangi", "adm002", classID)
	math := testutil.CreateSubject(t, a.subjectRepo, "Mathematics", "math101", 4, year, classID)
	testutil.CreateGrade(t, a.gradeRepo, s1.ID, math.ID, 80, 100, true)
	testutil.CreateGrade(t, a.gradeRepo, s2.ID, math.ID, 90, 100, true)

	for _, sid := range []int{s1.ID, s2.ID} {
		rec := a.request(t, http.MethodPost, "/v1/report-cards", adminToken, map[string]interface{}{
			"student_id": sid, "academic_year": year, "semester": "first",
		})
		checkCode(t, rec, http.StatusCreated)
	}

	rec := a.request(t, http.MethodPost, "/v1/report-cards/class/1/publish?academic_year="+year+"&semester=first", adminToken, nil)
	checkCode(t, rec, http.StatusOK)

	var cards []reportcard.ReportCard
	decode(t, rec, &cards)
	if len(cards) != 2 {
		t.Fatalf("published %d cards, want 2", len(cards))
	}
	for _, rc := range cards {
		if !rc.IsPublished {
			t.Errorf("card %d was not published", rc.ID)
		}
		wantRank := 1
		if rc.StudentID == s1.ID {
			wantRank = 2 // lower GPA
		}
		if got := rc.RankInClass; got != null.IntFrom(wantRank) {
			t.Errorf("card %d rank = %v, want %d", rc.ID, got, wantRank)
		}
		if rc.TotalStudentsInClass != 2 {
			t.Errorf("card %d class size = %d, want 2", rc.ID, rc.TotalStudentsInClass)
		}
	}
}
