package dummydb

import (
	"sort"

	"github.com/trezcool/shule/core/fee"
)

type feeRepository struct {
	db *feeTable
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *DB) fee.Repository {
	return &feeRepository{db: db.fee}
}

func (repo *feeRepository) query() []fee.Fee {
	fees := make([]fee.Fee, 0, len(repo.db.table))
	for _, f := range repo.db.table {
		fees = append(fees, *f)
	}
	sort.Slice(fees, func(i, j int) bool { return fees[i].ID < fees[j].ID })
	return fees
}

func (repo *feeRepository) CreateFee(f fee.Fee) (fee.Fee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	return repo.create(f), nil
}

func (repo *feeRepository) CreateFees(fees ...fee.Fee) ([]fee.Fee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	created := make([]fee.Fee, 0, len(fees))
	for _, f := range fees {
		created = append(created, repo.create(f))
	}
	return created, nil
}

// create assumes the write lock is held.
func (repo *feeRepository) create(f fee.Fee) fee.Fee {
	repo.db.pkCount++
	f.ID = repo.db.pkCount
	repo.db.table[f.ID] = &f
	return f
}

func (repo *feeRepository) GetFeeByID(id int) (fee.Fee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if f, ok := repo.db.table[id]; ok {
		return *f, nil
	}
	return fee.Fee{}, fee.ErrNotFound
}

func (repo *feeRepository) QueryStudentFees(studentID int, academicYear string) ([]fee.Fee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var res []fee.Fee
	for _, f := range repo.query() {
		if f.StudentID != studentID {
			continue
		}
		if academicYear != "" && f.AcademicYear != academicYear {
			continue
		}
		res = append(res, f)
	}
	return res, nil
}

func (repo *feeRepository) QueryFeesByStatus(statuses ...string) ([]fee.Fee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var res []fee.Fee
	for _, f := range repo.query() {
		for _, status := range statuses {
			if f.Status == status {
				res = append(res, f)
				break
			}
		}
	}
	return res, nil
}

func (repo *feeRepository) UpdateFee(f fee.Fee) (fee.Fee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[f.ID]; !ok {
		return fee.Fee{}, fee.ErrNotFound
	}
	repo.db.table[f.ID] = &f
	return f, nil
}

func (repo *feeRepository) DeleteFeesByID(ids ...int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
