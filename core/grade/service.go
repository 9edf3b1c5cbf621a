package grade

import (
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
)

var (
	// errors
	ErrNotFound  = errors.New("grade not found")
	ErrPublished = errors.New("a published grade cannot be deleted")
)

type (
	Repository interface {
		CreateGrade(g Grade) (Grade, error)
		GetGradeByID(id int) (Grade, error)
		// QueryStudentGrades returns a student's grades; restricted to
		// published ones when publishedOnly is set. academicYear filters via
		// the grade's subject when non-empty.
		QueryStudentGrades(studentID int, publishedOnly bool, academicYear string) ([]Grade, error)
		QuerySubjectGrades(subjectID int) ([]Grade, error)
		UpdateGrade(g Grade) (Grade, error)
		DeleteGradesByID(ids ...int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create records a new grade; the derived percentage and letter grade are
// computed in the same operation.
func (svc *Service) Create(ng NewGrade) (Grade, error) {
	now := time.Now().UTC()
	g := Grade{
		StudentID:      ng.StudentID,
		SubjectID:      ng.SubjectID,
		TeacherID:      ng.TeacherID,
		GradeType:      ng.GradeType,
		AssignmentName: ng.AssignmentName,
		MaxPoints:      ng.MaxPoints,
		EarnedPoints:   null.Float64FromPtr(ng.EarnedPoints),
		GradeValue:     null.Float64FromPtr(ng.GradeValue),
		Weight:         ng.Weight,
		GradedDate:     now,
		DueDate:        ng.DueDate,
		Comments:       ng.Comments,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	Recompute(&g)
	return svc.repo.CreateGrade(g)
}

func (svc *Service) GetByID(id int) (Grade, error) {
	return svc.repo.GetGradeByID(id)
}

func (svc *Service) QueryByStudent(studentID int, publishedOnly bool, academicYear string) ([]Grade, error) {
	return svc.repo.QueryStudentGrades(studentID, publishedOnly, academicYear)
}

func (svc *Service) QueryBySubject(subjectID int) ([]Grade, error) {
	return svc.repo.QuerySubjectGrades(subjectID)
}

// Update re-grades an existing grade. The derived fields are recomputed in
// the same operation; a stale letter grade is a correctness bug.
func (svc *Service) Update(id int, ug UpdateGrade) (Grade, error) {
	g, err := svc.repo.GetGradeByID(id)
	if err != nil {
		return Grade{}, err
	}

	if ug.AssignmentName != "" {
		g.AssignmentName = ug.AssignmentName
	}
	if ug.MaxPoints != nil {
		g.MaxPoints = *ug.MaxPoints
	}
	if ug.EarnedPoints != nil {
		g.EarnedPoints = null.Float64FromPtr(ug.EarnedPoints)
	}
	if ug.GradeValue != nil {
		g.GradeValue = null.Float64FromPtr(ug.GradeValue)
	}
	if ug.Weight != nil {
		g.Weight = *ug.Weight
	}
	if ug.DueDate.Valid {
		g.DueDate = ug.DueDate
	}
	if ug.Comments != "" {
		g.Comments = ug.Comments
	}
	g.UpdatedAt = time.Now().UTC()

	Recompute(&g)
	return svc.repo.UpdateGrade(g)
}

// Publish makes the grade visible to students and parents. This is a one-way
// transition; unpublish is not supported.
func (svc *Service) Publish(id int) (Grade, error) {
	g, err := svc.repo.GetGradeByID(id)
	if err != nil {
		return Grade{}, err
	}
	if g.IsPublished {
		return g, nil
	}
	g.IsPublished = true
	g.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateGrade(g)
}

func (svc *Service) Delete(ids ...int) error {
	for _, id := range ids {
		g, err := svc.repo.GetGradeByID(id)
		if err != nil {
			return err
		}
		if g.IsPublished {
			return ErrPublished
		}
	}
	return svc.repo.DeleteGradesByID(ids...)
}
