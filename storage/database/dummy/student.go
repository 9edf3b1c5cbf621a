package dummydb

import (
	"sort"

	"github.com/trezcool/shule/core/reportcard"
	"github.com/trezcool/shule/core/student"
)

type studentRepository struct {
	db *studentTable
}

// interface compliance checks
var (
	_ student.Repository = (*studentRepository)(nil)
	_ reportcard.Roster  = (*studentRepository)(nil)
)

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		students = append(students, *s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students
}

func (repo *studentRepository) CreateStudent(s student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	s.ID = repo.db.pkCount
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *studentRepository) GetStudentByID(id int) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByAdmissionNumber(admissionNumber string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.query() {
		if s.AdmissionNumber == admissionNumber {
			return s, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *studentRepository) QueryClassStudents(classID int) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var students []student.Student
	for _, s := range repo.query() {
		if s.ClassID.Valid && s.ClassID.Int == classID {
			students = append(students, s)
		}
	}
	return students, nil
}

func (repo *studentRepository) UpdateStudent(s student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[s.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.table[s.ID] = &s
	return s, nil
}

// StudentClassID resolves a student's class for the report card ranking.
func (repo *studentRepository) StudentClassID(studentID int) (int, bool, error) {
	s, err := repo.GetStudentByID(studentID)
	if err != nil {
		return 0, false, err
	}
	if !s.ClassID.Valid {
		return 0, false, nil
	}
	return s.ClassID.Int, true, nil
}
