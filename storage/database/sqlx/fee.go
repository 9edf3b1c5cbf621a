package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/fee"
)

type feeRow struct {
	ID            int             `db:"id"`
	StudentID     int             `db:"student_id"`
	FeeType       string          `db:"fee_type"`
	Amount        decimal.Decimal `db:"amount"`
	LateFee       decimal.Decimal `db:"late_fee"`
	Discount      decimal.Decimal `db:"discount"`
	DueDate       time.Time       `db:"due_date"`
	PaidDate      null.Time       `db:"paid_date"`
	PaidAmount    decimal.Decimal `db:"paid_amount"`
	Status        string          `db:"status"`
	AcademicYear  string          `db:"academic_year"`
	Semester      string          `db:"semester"`
	Description   string          `db:"description"`
	PaymentMethod string          `db:"payment_method"`
	TransactionID string          `db:"transaction_id"`
	Notes         string          `db:"notes"`
	CreatedBy     null.Int        `db:"created_by"`
	ProcessedBy   null.Int        `db:"processed_by"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (r feeRow) model() fee.Fee {
	return fee.Fee{
		ID:            r.ID,
		StudentID:     r.StudentID,
		FeeType:       r.FeeType,
		Amount:        r.Amount,
		LateFee:       r.LateFee,
		Discount:      r.Discount,
		DueDate:       r.DueDate,
		PaidDate:      r.PaidDate,
		PaidAmount:    r.PaidAmount,
		Status:        r.Status,
		AcademicYear:  r.AcademicYear,
		Semester:      r.Semester,
		Description:   r.Description,
		PaymentMethod: r.PaymentMethod,
		TransactionID: r.TransactionID,
		Notes:         r.Notes,
		CreatedBy:     r.CreatedBy,
		ProcessedBy:   r.ProcessedBy,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func feeModels(rows []feeRow) []fee.Fee {
	fees := make([]fee.Fee, 0, len(rows))
	for _, r := range rows {
		fees = append(fees, r.model())
	}
	return fees
}

type feeRepository struct {
	db *sqlx.DB
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *sqlx.DB) *feeRepository {
	return &feeRepository{db: db}
}

func (repo feeRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return fee.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

const feeInsertQuery = `
INSERT INTO fee (student_id, fee_type, amount, late_fee, discount, due_date, paid_date, paid_amount, status,
                 academic_year, semester, description, payment_method, transaction_id, notes, created_by, processed_by,
                 created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
RETURNING id`

func (repo feeRepository) CreateFee(f fee.Fee) (fee.Fee, error) {
	err := repo.db.Get(
		&f.ID, feeInsertQuery,
		f.StudentID, f.FeeType, f.Amount, f.LateFee, f.Discount, f.DueDate, f.PaidDate, f.PaidAmount, f.Status,
		f.AcademicYear, f.Semester, f.Description, f.PaymentMethod, f.TransactionID, f.Notes, f.CreatedBy, f.ProcessedBy,
		f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		return fee.Fee{}, errors.Wrap(err, "inserting fee")
	}
	return f, nil
}

func (repo feeRepository) CreateFees(fees ...fee.Fee) ([]fee.Fee, error) {
	tx, err := repo.db.Beginx()
	if err != nil {
		return nil, errors.Wrap(err, "opening transaction")
	}
	defer func() { _ = tx.Rollback() }()

	created := make([]fee.Fee, 0, len(fees))
	for _, f := range fees {
		err = tx.Get(
			&f.ID, feeInsertQuery,
			f.StudentID, f.FeeType, f.Amount, f.LateFee, f.Discount, f.DueDate, f.PaidDate, f.PaidAmount, f.Status,
			f.AcademicYear, f.Semester, f.Description, f.PaymentMethod, f.TransactionID, f.Notes, f.CreatedBy, f.ProcessedBy,
			f.CreatedAt, f.UpdatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "inserting fee")
		}
		created = append(created, f)
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing transaction")
	}
	return created, nil
}

func (repo feeRepository) GetFeeByID(id int) (fee.Fee, error) {
	var row feeRow
	if err := repo.db.Get(&row, `SELECT * FROM fee WHERE id = $1`, id); err != nil {
		return fee.Fee{}, repo.trapNoRowsErr(err, "finding fee by ID")
	}
	return row.model(), nil
}

func (repo feeRepository) QueryStudentFees(studentID int, academicYear string) ([]fee.Fee, error) {
	query := `SELECT * FROM fee WHERE student_id = $1`
	args := []interface{}{studentID}
	if academicYear != "" {
		query += ` AND academic_year = $2`
		args = append(args, academicYear)
	}
	query += ` ORDER BY id`

	var rows []feeRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying student fees")
	}
	return feeModels(rows), nil
}

func (repo feeRepository) QueryFeesByStatus(statuses ...string) ([]fee.Fee, error) {
	var rows []feeRow
	if err := repo.db.Select(&rows, `SELECT * FROM fee WHERE status = ANY($1) ORDER BY id`, pq.Array(statuses)); err != nil {
		return nil, errors.Wrap(err, "querying fees by status")
	}
	return feeModels(rows), nil
}

func (repo feeRepository) UpdateFee(f fee.Fee) (fee.Fee, error) {
	query := `
UPDATE fee
SET amount = $1, late_fee = $2, discount = $3, due_date = $4, paid_date = $5, paid_amount = $6, status = $7,
    description = $8, payment_method = $9, transaction_id = $10, notes = $11, processed_by = $12, updated_at = $13
WHERE id = $14
RETURNING *`
	var row feeRow
	err := repo.db.Get(
		&row, query,
		f.Amount, f.LateFee, f.Discount, f.DueDate, f.PaidDate, f.PaidAmount, f.Status,
		f.Description, f.PaymentMethod, f.TransactionID, f.Notes, f.ProcessedBy, f.UpdatedAt.UTC(), f.ID,
	)
	if err != nil {
		return fee.Fee{}, repo.trapNoRowsErr(err, "updating fee")
	}
	return row.model(), nil
}

func (repo feeRepository) DeleteFeesByID(ids ...int) error {
	_, err := repo.db.Exec(`DELETE FROM fee WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting fees")
}
