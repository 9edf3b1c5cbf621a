package subject

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("subject not found")

type (
	Repository interface {
		CreateSubject(s Subject) (Subject, error)
		GetSubjectByID(id int) (Subject, error)
		QueryAllSubjects() ([]Subject, error)
		QueryClassSubjects(classID int, academicYear string) ([]Subject, error)
		UpdateSubject(s Subject) (Subject, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ns NewSubject) (Subject, error) {
	now := time.Now().UTC()
	s := Subject{
		Name:         ns.Name,
		Code:         ns.Code,
		Credits:      ns.Credits,
		AcademicYear: ns.AcademicYear,
		TeacherID:    ns.TeacherID,
		ClassID:      ns.ClassID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateSubject(s)
}

func (svc *Service) GetByID(id int) (Subject, error) {
	return svc.repo.GetSubjectByID(id)
}

func (svc *Service) QueryAll() ([]Subject, error) {
	return svc.repo.QueryAllSubjects()
}

func (svc *Service) QueryByClass(classID int, academicYear string) ([]Subject, error) {
	return svc.repo.QueryClassSubjects(classID, academicYear)
}
