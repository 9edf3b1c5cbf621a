package dummydb

import (
	"sort"

	"github.com/trezcool/shule/core/reportcard"
)

type reportCardRepository struct {
	db       *reportCardTable
	students *studentTable
}

var _ reportcard.Repository = (*reportCardRepository)(nil) // interface compliance check

func NewReportCardRepository(db *DB) reportcard.Repository {
	return &reportCardRepository{db: db.reportCard, students: db.student}
}

func (repo *reportCardRepository) query() []reportcard.ReportCard {
	cards := make([]reportcard.ReportCard, 0, len(repo.db.table))
	for _, rc := range repo.db.table {
		cards = append(cards, *rc)
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards
}

// studentClassID resolves a card's class through its student.
func (repo *reportCardRepository) studentClassID(studentID int) (int, bool) {
	repo.students.RLock()
	defer repo.students.RUnlock()

	if s, ok := repo.students.table[studentID]; ok && s.ClassID.Valid {
		return s.ClassID.Int, true
	}
	return 0, false
}

func (repo *reportCardRepository) CreateReportCard(rc reportcard.ReportCard) (reportcard.ReportCard, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	rc.ID = repo.db.pkCount
	repo.db.table[rc.ID] = &rc
	return rc, nil
}

func (repo *reportCardRepository) GetReportCardByID(id int) (reportcard.ReportCard, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rc, ok := repo.db.table[id]; ok {
		return *rc, nil
	}
	return reportcard.ReportCard{}, reportcard.ErrNotFound
}

func (repo *reportCardRepository) GetReportCard(studentID int, academicYear, semester string) (reportcard.ReportCard, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, rc := range repo.query() {
		if rc.StudentID == studentID && rc.AcademicYear == academicYear && rc.Semester == semester {
			return rc, nil
		}
	}
	return reportcard.ReportCard{}, reportcard.ErrNotFound
}

func (repo *reportCardRepository) QueryStudentReportCards(studentID int) ([]reportcard.ReportCard, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var res []reportcard.ReportCard
	for _, rc := range repo.query() {
		if rc.StudentID == studentID {
			res = append(res, rc)
		}
	}
	return res, nil
}

func (repo *reportCardRepository) QueryPeerReportCards(classID int, academicYear, semester string) ([]reportcard.ReportCard, error) {
	repo.db.RLock()
	cards := repo.query()
	repo.db.RUnlock()

	var res []reportcard.ReportCard
	for _, rc := range cards {
		if rc.AcademicYear != academicYear || rc.Semester != semester {
			continue
		}
		if cid, ok := repo.studentClassID(rc.StudentID); !ok || cid != classID {
			continue
		}
		res = append(res, rc)
	}
	return res, nil
}

func (repo *reportCardRepository) UpdateReportCard(rc reportcard.ReportCard) (reportcard.ReportCard, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[rc.ID]; !ok {
		return reportcard.ReportCard{}, reportcard.ErrNotFound
	}
	repo.db.table[rc.ID] = &rc
	return rc, nil
}

func (repo *reportCardRepository) DeleteReportCardsByID(ids ...int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
