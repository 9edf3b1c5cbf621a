package reportcard_test

import (
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/reportcard"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/subject"
	dummydb "github.com/trezcool/shule/storage/database/dummy"
	testutil "github.com/trezcool/shule/tests"
)

const (
	academicYear = "2024-2025"
	semester     = "first"
)

type fixture struct {
	svc            *reportcard.Service
	studentRepo    student.Repository
	subjectRepo    subject.Repository
	gradeRepo      grade.Repository
	attendanceRepo attendance.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	gradeRepo := dummydb.NewGradeRepository(db)
	attendanceRepo := dummydb.NewAttendanceRepository(db)
	studentRepo := dummydb.NewStudentRepository(db)
	return &fixture{
		svc:            reportcard.NewService(dummydb.NewReportCardRepository(db), gradeRepo, attendanceRepo, studentRepo),
		studentRepo:    studentRepo,
		subjectRepo:    dummydb.NewSubjectRepository(db),
		gradeRepo:      gradeRepo,
		attendanceRepo: attendanceRepo,
	}
}

// enroll creates a student in class 1 with a published math (4 credits) and
// english (2 credits) grade at the given percentages.
func (fx *fixture) enroll(t *testing.T, admissionNo string, mathPct, engPct float64) student.Student {
	t.Helper()
	s := testutil.CreateStudent(t, fx.studentRepo, "Test", admissionNo, admissionNo, null.IntFrom(1))
	math := testutil.CreateSubject(t, fx.subjectRepo, "Mathematics", "math-"+admissionNo, 4, academicYear, null.IntFrom(1))
	eng := testutil.CreateSubject(t, fx.subjectRepo, "English", "eng-"+admissionNo, 2, academicYear, null.IntFrom(1))
	testutil.CreateGrade(t, fx.gradeRepo, s.ID, math.ID, mathPct, 100, true)
	testutil.CreateGrade(t, fx.gradeRepo, s.ID, eng.ID, engPct, 100, true)
	return s
}

func TestServiceCreateComputesMetrics(t *testing.T) {
	fx := newFixture(t)
	s := fx.enroll(t, "adm001", 80, 90)

	// an unpublished grade must not count toward the GPA
	failed := testutil.CreateSubject(t, fx.subjectRepo, "Chemistry", "chem", 4, academicYear, null.IntFrom(1))
	testutil.CreateGrade(t, fx.gradeRepo, s.ID, failed.ID, 10, 100, false)

	day := func(d int) time.Time { return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC) }
	for d := 1; d <= 9; d++ {
		testutil.MarkAttendance(t, fx.attendanceRepo, s.ID, day(d), attendance.StatusPresent)
	}
	testutil.MarkAttendance(t, fx.attendanceRepo, s.ID, day(10), attendance.StatusAbsent)

	rc, err := fx.svc.Create(reportcard.NewReportCard{StudentID: s.ID, AcademicYear: academicYear, Semester: semester}, null.IntFrom(1))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// credit-weighted: (80*4 + 90*2) / 6
	if rc.OverallGPA != 83.33 {
		t.Errorf("OverallGPA = %v, want 83.33", rc.OverallGPA)
	}
	if rc.OverallGrade != grade.LetterB {
		t.Errorf("OverallGrade = %v, want %v", rc.OverallGrade, grade.LetterB)
	}
	if rc.AcademicStatus() != reportcard.StatusGood {
		t.Errorf("AcademicStatus() = %v, want %v", rc.AcademicStatus(), reportcard.StatusGood)
	}
	if rc.TotalDays != 10 || rc.DaysPresent != 9 || rc.DaysAbsent != 1 {
		t.Errorf("attendance days = %d/%d/%d, want 10/9/1", rc.TotalDays, rc.DaysPresent, rc.DaysAbsent)
	}
	if rc.AttendancePercentage != 90 {
		t.Errorf("AttendancePercentage = %v, want 90", rc.AttendancePercentage)
	}
	if rc.IsPublished {
		t.Error("new report card must not be published")
	}
}

func TestServiceCreateDuplicate(t *testing.T) {
	fx := newFixture(t)
	s := fx.enroll(t, "adm001", 80, 90)

	nrc := reportcard.NewReportCard{StudentID: s.ID, AcademicYear: academicYear, Semester: semester}
	if _, err := fx.svc.Create(nrc, null.Int{}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err := fx.svc.Create(nrc, null.Int{}); !core.IsConflict(err) {
		t.Errorf("Create() error = %v, want conflict", err)
	}

	// a different semester is a new card
	nrc.Semester = "second"
	if _, err := fx.svc.Create(nrc, null.Int{}); err != nil {
		t.Errorf("Create() failed: %v", err)
	}
}

func TestServiceCreateNoGrades(t *testing.T) {
	fx := newFixture(t)
	s := testutil.CreateStudent(t, fx.studentRepo, "Test", "Nograde", "adm009", null.IntFrom(1))

	rc, err := fx.svc.Create(reportcard.NewReportCard{StudentID: s.ID, AcademicYear: academicYear, Semester: semester}, null.Int{})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if rc.OverallGPA != 0 || rc.OverallGrade != "" {
		t.Errorf("GPA/grade = %v/%v, want zero values", rc.OverallGPA, rc.OverallGrade)
	}
}

func TestServicePublish(t *testing.T) {
	fx := newFixture(t)
	s := fx.enroll(t, "adm001", 80, 90)

	rc, err := fx.svc.Create(reportcard.NewReportCard{StudentID: s.ID, AcademicYear: academicYear, Semester: semester}, null.Int{})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	rc, err = fx.svc.Publish(rc.ID)
	if err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	if !rc.IsPublished || !rc.PublishedDate.Valid {
		t.Error("Publish() did not stamp the card")
	}
	if rc.RankInClass != null.IntFrom(1) || rc.TotalStudentsInClass != 1 {
		t.Errorf("rank = %v of %d, want 1 of 1", rc.RankInClass, rc.TotalStudentsInClass)
	}

	// publishing twice is a conflict; Republish is the explicit path
	if _, err = fx.svc.Publish(rc.ID); !core.IsConflict(err) {
		t.Errorf("Publish() error = %v, want conflict", err)
	}
	if _, err = fx.svc.Republish(rc.ID); err != nil {
		t.Errorf("Republish() failed: %v", err)
	}

	// a published card's metrics are stable
	if _, err = fx.svc.CalculateMetrics(rc.ID); !core.IsConflict(err) {
		t.Errorf("CalculateMetrics() error = %v, want conflict", err)
	}
}

func TestServicePublishClassRanks(t *testing.T) {
	fx := newFixture(t)
	s1 := fx.enroll(t, "adm001", 80, 90) // GPA 83.33
	s2 := fx.enroll(t, "adm002", 90, 90) // GPA 90

	for _, sid := range []int{s1.ID, s2.ID} {
		if _, err := fx.svc.Create(reportcard.NewReportCard{StudentID: sid, AcademicYear: academicYear, Semester: semester}, null.Int{}); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	published, err := fx.svc.PublishClass(1, academicYear, semester)
	if err != nil {
		t.Fatalf("PublishClass() failed: %v", err)
	}
	if len(published) != 2 {
		t.Fatalf("PublishClass() = %d cards, want 2", len(published))
	}

	wantRanks := map[int]int{s2.ID: 1, s1.ID: 2}
	for _, rc := range published {
		if !rc.IsPublished {
			t.Errorf("student %d card not published", rc.StudentID)
		}
		if rc.TotalStudentsInClass != 2 {
			t.Errorf("student %d TotalStudentsInClass = %d, want 2", rc.StudentID, rc.TotalStudentsInClass)
		}
		if want := wantRanks[rc.StudentID]; rc.RankInClass != null.IntFrom(want) {
			t.Errorf("student %d rank = %v, want %d", rc.StudentID, rc.RankInClass, want)
		}
	}
}

func TestServiceRankTieBreak(t *testing.T) {
	fx := newFixture(t)
	s1 := fx.enroll(t, "adm001", 85, 85)
	s2 := fx.enroll(t, "adm002", 85, 85)

	for _, sid := range []int{s1.ID, s2.ID} {
		if _, err := fx.svc.Create(reportcard.NewReportCard{StudentID: sid, AcademicYear: academicYear, Semester: semester}, null.Int{}); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	published, err := fx.svc.PublishClass(1, academicYear, semester)
	if err != nil {
		t.Fatalf("PublishClass() failed: %v", err)
	}

	// equal GPAs rank by ascending student ID
	wantRanks := map[int]int{s1.ID: 1, s2.ID: 2}
	for _, rc := range published {
		if want := wantRanks[rc.StudentID]; rc.RankInClass != null.IntFrom(want) {
			t.Errorf("student %d rank = %v, want %d", rc.StudentID, rc.RankInClass, want)
		}
	}
}

func TestServiceRankNoClass(t *testing.T) {
	fx := newFixture(t)
	s := testutil.CreateStudent(t, fx.studentRepo, "Test", "Homeschool", "adm050", null.Int{})

	rc, err := fx.svc.Create(reportcard.NewReportCard{StudentID: s.ID, AcademicYear: academicYear, Semester: semester}, null.Int{})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	rc, err = fx.svc.Publish(rc.ID)
	if err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	if rc.RankInClass.Valid {
		t.Errorf("rank = %v, want unranked", rc.RankInClass)
	}
}

func TestServiceUpdateAfterPublish(t *testing.T) {
	fx := newFixture(t)
	s := fx.enroll(t, "adm001", 80, 90)

	rc, err := fx.svc.Create(reportcard.NewReportCard{StudentID: s.ID, AcademicYear: academicYear, Semester: semester}, null.Int{})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if rc, err = fx.svc.Publish(rc.ID); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}

	// comments stay editable after publication
	rc, err = fx.svc.Update(rc.ID, reportcard.UpdateReportCard{TeacherComments: "Keep it up"})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if rc.TeacherComments != "Keep it up" {
		t.Errorf("TeacherComments = %q, want %q", rc.TeacherComments, "Keep it up")
	}

	// the published card itself cannot be deleted
	if err = fx.svc.Delete(rc.ID); !core.IsConflict(err) {
		t.Errorf("Delete() error = %v, want conflict", err)
	}
}

func TestServiceAcademicStatus(t *testing.T) {
	tests := []struct {
		gpa  float64
		want string
	}{
		{90, reportcard.StatusExcellent},
		{85, reportcard.StatusExcellent},
		{84.99, reportcard.StatusGood},
		{75, reportcard.StatusGood},
		{65, reportcard.StatusSatisfactory},
		{50, reportcard.StatusNeedsImprovement},
		{49.99, reportcard.StatusUnsatisfactory},
	}
	for _, tt := range tests {
		rc := reportcard.ReportCard{OverallGPA: tt.gpa}
		if got := rc.AcademicStatus(); got != tt.want {
			t.Errorf("AcademicStatus(%v) = %v, want %v", tt.gpa, got, tt.want)
		}
	}
}
