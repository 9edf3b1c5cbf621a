package echoapi_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/trezcool/shule/core/grade"
)

func TestGradeAPIPublishFlow(t *testing.T) {
	a := setup(t)
	teacherToken := getToken(t, a.teacher(t))
	studentToken := getToken(t, a.student(t))

	rec := a.request(t, http.MethodPost, "/v1/grades", teacherToken, map[string]interface{}{
		"student_id":    1,
		"subject_id":    1,
		"teacher_id":    1,
		"grade_type":    grade.TypeExam,
		"max_points":    100,
		"earned_points": 92,
	})
	checkCode(t, rec, http.StatusCreated)

	var g grade.Grade
	decode(t, rec, &g)
	if g.LetterGrade != grade.LetterA {
		t.Errorf("LetterGrade = %v, want %v", g.LetterGrade, grade.LetterA)
	}
	if g.IsPublished {
		t.Error("new grade must not be published")
	}

	// drafts are invisible to students
	rec = a.request(t, http.MethodGet, "/v1/grades/student/1", studentToken, nil)
	checkCode(t, rec, http.StatusOK)
	var grades []grade.Grade
	decode(t, rec, &grades)
	if len(grades) != 0 {
		t.Errorf("student sees %d draft grades, want 0", len(grades))
	}

	// staff sees drafts
	rec = a.request(t, http.MethodGet, "/v1/grades/student/1", teacherToken, nil)
	checkCode(t, rec, http.StatusOK)
	decode(t, rec, &grades)
	if len(grades) != 1 {
		t.Errorf("teacher sees %d grades, want 1", len(grades))
	}

	rec = a.request(t, http.MethodPost, fmt.Sprintf("/v1/grades/%d/publish", g.ID), teacherToken, nil)
	checkCode(t, rec, http.StatusOK)

	rec = a.request(t, http.MethodGet, "/v1/grades/student/1", studentToken, nil)
	checkCode(t, rec, http.StatusOK)
	decode(t, rec, &grades)
	if len(grades) != 1 {
		t.Errorf("student sees %d published grades, want 1", len(grades))
	}

	// a published grade cannot be deleted
	rec = a.request(t, http.MethodDelete, fmt.Sprintf("/v1/grades/%d", g.ID), teacherToken, nil)
	checkCode(t, rec, http.StatusConflict)
}

func TestGradeAPIUpdateRecomputes(t *testing.T) {
	a := setup(t)
	teacherToken := getToken(t, a.teacher(t))

	rec := a.request(t, http.MethodPost, "/v1/grades", teacherToken, map[string]interface{}{
		"student_id":    1,
		"subject_id":    1,
		"teacher_id":    1,
		"grade_type":    grade.TypeQuiz,
		"max_points":    30,
		"earned_points": 23,
	})
	checkCode(t, rec, http.StatusCreated)

	var g grade.Grade
	decode(t, rec, &g)
	if got := g.GradeValue.Float64; got != 76.67 {
		t.Errorf("GradeValue = %v, want 76.67", got)
	}

	rec = a.request(t, http.MethodPut, fmt.Sprintf("/v1/grades/%d", g.ID), teacherToken, map[string]interface{}{
		"earned_points": 15,
	})
	checkCode(t, rec, http.StatusOK)
	decode(t, rec, &g)
	if g.LetterGrade != grade.LetterF {
		t.Errorf("LetterGrade = %v, want %v", g.LetterGrade, grade.LetterF)
	}

	// unknown grade reads as not found
	rec = a.request(t, http.MethodGet, "/v1/grades/999", teacherToken, nil)
	checkCode(t, rec, http.StatusNotFound)
}
