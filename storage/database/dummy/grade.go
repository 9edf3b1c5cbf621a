package dummydb

import (
	"sort"

	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/reportcard"
)

type gradeRepository struct {
	db       *gradeTable
	subjects *subjectTable
}

// interface compliance checks
var (
	_ grade.Repository       = (*gradeRepository)(nil)
	_ reportcard.GradeSource = (*gradeRepository)(nil)
)

func NewGradeRepository(db *DB) *gradeRepository {
	return &gradeRepository{db: db.grade, subjects: db.subject}
}

func (repo *gradeRepository) query() []grade.Grade {
	grades := make([]grade.Grade, 0, len(repo.db.table))
	for _, g := range repo.db.table {
		grades = append(grades, *g)
	}
	sort.Slice(grades, func(i, j int) bool { return grades[i].ID < grades[j].ID })
	return grades
}

// subjectYear resolves a grade's academic year through its subject.
func (repo *gradeRepository) subjectYear(subjectID int) (string, bool) {
	repo.subjects.RLock()
	defer repo.subjects.RUnlock()

	if s, ok := repo.subjects.table[subjectID]; ok {
		return s.AcademicYear, true
	}
	return "", false
}

func (repo *gradeRepository) CreateGrade(g grade.Grade) (grade.Grade, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	g.ID = repo.db.pkCount
	repo.db.table[g.ID] = &g
	return g, nil
}

func (repo *gradeRepository) GetGradeByID(id int) (grade.Grade, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if g, ok := repo.db.table[id]; ok {
		return *g, nil
	}
	return grade.Grade{}, grade.ErrNotFound
}

func (repo *gradeRepository) QueryStudentGrades(studentID int, publishedOnly bool, academicYear string) ([]grade.Grade, error) {
	repo.db.RLock()
	grades := repo.query()
	repo.db.RUnlock()

	var res []grade.Grade
	for _, g := range grades {
		if g.StudentID != studentID {
			continue
		}
		if publishedOnly && !g.IsPublished {
			continue
		}
		if academicYear != "" {
			if year, ok := repo.subjectYear(g.SubjectID); !ok || year != academicYear {
				continue
			}
		}
		res = append(res, g)
	}
	return res, nil
}

func (repo *gradeRepository) QuerySubjectGrades(subjectID int) ([]grade.Grade, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var res []grade.Grade
	for _, g := range repo.query() {
		if g.SubjectID == subjectID {
			res = append(res, g)
		}
	}
	return res, nil
}

func (repo *gradeRepository) UpdateGrade(g grade.Grade) (grade.Grade, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[g.ID]; !ok {
		return grade.Grade{}, grade.ErrNotFound
	}
	repo.db.table[g.ID] = &g
	return g, nil
}

func (repo *gradeRepository) DeleteGradesByID(ids ...int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

// PublishedGrades joins a student's published grades with their subjects'
// credit weights for the GPA computation.
func (repo *gradeRepository) PublishedGrades(studentID int, academicYear string) ([]reportcard.PublishedGrade, error) {
	grades, err := repo.QueryStudentGrades(studentID, true /* publishedOnly */, academicYear)
	if err != nil {
		return nil, err
	}

	res := make([]reportcard.PublishedGrade, 0, len(grades))
	for _, g := range grades {
		repo.subjects.RLock()
		subj, ok := repo.subjects.table[g.SubjectID]
		repo.subjects.RUnlock()
		if !ok {
			continue
		}
		res = append(res, reportcard.PublishedGrade{Percentage: g.Percentage(), Credits: subj.Credits})
	}
	return res, nil
}
