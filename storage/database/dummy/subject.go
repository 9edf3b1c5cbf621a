package dummydb

import (
	"sort"

	"github.com/trezcool/shule/core/subject"
)

type subjectRepository struct {
	db *subjectTable
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *DB) subject.Repository {
	return &subjectRepository{db: db.subject}
}

func (repo *subjectRepository) query() []subject.Subject {
	subjects := make([]subject.Subject, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		subjects = append(subjects, *s)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].ID < subjects[j].ID })
	return subjects
}

func (repo *subjectRepository) CreateSubject(s subject.Subject) (subject.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	s.ID = repo.db.pkCount
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *subjectRepository) GetSubjectByID(id int) (subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (repo *subjectRepository) QueryAllSubjects() ([]subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *subjectRepository) QueryClassSubjects(classID int, academicYear string) ([]subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var subjects []subject.Subject
	for _, s := range repo.query() {
		if !s.ClassID.Valid || s.ClassID.Int != classID {
			continue
		}
		if academicYear != "" && s.AcademicYear != academicYear {
			continue
		}
		subjects = append(subjects, s)
	}
	return subjects, nil
}

func (repo *subjectRepository) UpdateSubject(s subject.Subject) (subject.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[s.ID]; !ok {
		return subject.Subject{}, subject.ErrNotFound
	}
	repo.db.table[s.ID] = &s
	return s, nil
}
