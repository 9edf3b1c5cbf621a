package grade_test

import (
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/grade"
	dummydb "github.com/trezcool/shule/storage/database/dummy"
	testutil "github.com/trezcool/shule/tests"
)

func newGradeSvc(t *testing.T) (*grade.Service, grade.Repository) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	repo := dummydb.NewGradeRepository(db)
	return grade.NewService(repo), repo
}

func floatPtr(v float64) *float64 { return &v }

func TestServiceCreate(t *testing.T) {
	svc, _ := newGradeSvc(t)

	g, err := svc.Create(grade.NewGrade{
		StudentID:    1,
		SubjectID:    1,
		TeacherID:    1,
		GradeType:    grade.TypeExam,
		MaxPoints:    100,
		EarnedPoints: floatPtr(92),
		Weight:       1,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if got, want := g.GradeValue, null.Float64From(92); got != want {
		t.Errorf("GradeValue = %v, want %v", got, want)
	}
	if g.LetterGrade != grade.LetterA {
		t.Errorf("LetterGrade = %v, want %v", g.LetterGrade, grade.LetterA)
	}
	if g.IsPublished {
		t.Error("new grade must not be published")
	}
}

func TestServiceUpdateRecomputes(t *testing.T) {
	svc, repo := newGradeSvc(t)

	g := testutil.CreateGrade(t, repo, 1, 1, 92, 100, false)

	g, err := svc.Update(g.ID, grade.UpdateGrade{EarnedPoints: floatPtr(55)})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if got, want := g.GradeValue, null.Float64From(55); got != want {
		t.Errorf("GradeValue = %v, want %v", got, want)
	}
	if g.LetterGrade != grade.LetterF {
		t.Errorf("LetterGrade = %v, want %v", g.LetterGrade, grade.LetterF)
	}

	// shrinking max points re-derives the percentage
	g, err = svc.Update(g.ID, grade.UpdateGrade{MaxPoints: floatPtr(60)})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if got, want := g.GradeValue, null.Float64From(91.67); got != want {
		t.Errorf("GradeValue = %v, want %v", got, want)
	}
	if g.LetterGrade != grade.LetterA {
		t.Errorf("LetterGrade = %v, want %v", g.LetterGrade, grade.LetterA)
	}
}

func TestServicePublish(t *testing.T) {
	svc, repo := newGradeSvc(t)

	g := testutil.CreateGrade(t, repo, 1, 1, 80, 100, false)

	g, err := svc.Publish(g.ID)
	if err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	if !g.IsPublished {
		t.Fatal("Publish() did not publish")
	}

	// publishing again is a no-op
	updatedAt := g.UpdatedAt
	g, err = svc.Publish(g.ID)
	if err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	if g.UpdatedAt != updatedAt {
		t.Error("Publish() touched an already published grade")
	}
}

func TestServiceDelete(t *testing.T) {
	svc, repo := newGradeSvc(t)

	published := testutil.CreateGrade(t, repo, 1, 1, 80, 100, true)
	draft := testutil.CreateGrade(t, repo, 1, 1, 70, 100, false)

	if err := svc.Delete(published.ID); err != grade.ErrPublished {
		t.Errorf("Delete() error = %v, want %v", err, grade.ErrPublished)
	}
	if err := svc.Delete(draft.ID); err != nil {
		t.Errorf("Delete() failed: %v", err)
	}
	if _, err := svc.GetByID(draft.ID); err != grade.ErrNotFound {
		t.Errorf("GetByID() error = %v, want %v", err, grade.ErrNotFound)
	}
}

func TestServiceQueryByStudent(t *testing.T) {
	svc, repo := newGradeSvc(t)

	testutil.CreateGrade(t, repo, 1, 1, 80, 100, true)
	testutil.CreateGrade(t, repo, 1, 1, 70, 100, false)
	testutil.CreateGrade(t, repo, 2, 1, 60, 100, true) // another student

	all, err := svc.QueryByStudent(1, false, "")
	if err != nil {
		t.Fatalf("QueryByStudent() failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("QueryByStudent() = %d grades, want 2", len(all))
	}

	published, err := svc.QueryByStudent(1, true, "")
	if err != nil {
		t.Fatalf("QueryByStudent() failed: %v", err)
	}
	if len(published) != 1 {
		t.Errorf("QueryByStudent(publishedOnly) = %d grades, want 1", len(published))
	}
}
