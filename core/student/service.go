package student

import (
	"errors"
	"time"
)

var (
	// errors
	ErrNotFound        = errors.New("student not found")
	ErrAdmissionExists = errors.New("a student with this admission number already exists")
)

type (
	Repository interface {
		CreateStudent(s Student) (Student, error)
		GetStudentByID(id int) (Student, error)
		GetStudentByAdmissionNumber(admissionNumber string) (Student, error)
		QueryAllStudents() ([]Student, error)
		QueryClassStudents(classID int) ([]Student, error)
		UpdateStudent(s Student) (Student, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ns NewStudent) (Student, error) {
	if _, err := svc.repo.GetStudentByAdmissionNumber(ns.AdmissionNumber); err == nil {
		return Student{}, ErrAdmissionExists
	} else if err != ErrNotFound {
		return Student{}, err
	}

	now := time.Now().UTC()
	s := Student{
		UserID:          ns.UserID,
		FirstName:       ns.FirstName,
		LastName:        ns.LastName,
		AdmissionNumber: ns.AdmissionNumber,
		ClassID:         ns.ClassID,
		DateOfBirth:     ns.DateOfBirth,
		EnrollmentDate:  now,
		Status:          StatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return svc.repo.CreateStudent(s)
}

func (svc *Service) GetByID(id int) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

func (svc *Service) QueryAll() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

func (svc *Service) QueryByClass(classID int) ([]Student, error) {
	return svc.repo.QueryClassStudents(classID)
}

// ClassStudentIDs implements the roster lookup the attendance service needs.
func (svc *Service) ClassStudentIDs(classID int) ([]int, error) {
	students, err := svc.repo.QueryClassStudents(classID)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(students))
	for _, s := range students {
		if s.IsActive() {
			ids = append(ids, s.ID)
		}
	}
	return ids, nil
}

func (svc *Service) Update(id int, us UpdateStudent) (Student, error) {
	s, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}

	if us.FirstName != "" {
		s.FirstName = us.FirstName
	}
	if us.LastName != "" {
		s.LastName = us.LastName
	}
	if us.ClassID.Valid {
		s.ClassID = us.ClassID
	}
	if us.DateOfBirth.Valid {
		s.DateOfBirth = us.DateOfBirth
	}
	s.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(s)
}

// Deactivate marks the student as no longer enrolled; records are kept.
func (svc *Service) Deactivate(id int) (Student, error) {
	s, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	s.Status = StatusDeactivated
	s.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(s)
}
