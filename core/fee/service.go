package fee

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

var (
	// errors
	ErrNotFound              = errors.New("fee not found")
	ErrInvalidPayment        = errors.New("payment amount must be greater than 0")
	ErrPaymentExceedsBalance = errors.New("payment amount cannot exceed balance due")
	ErrFeeHasPayments        = errors.New("a fee with payments cannot be deleted")
)

type (
	Repository interface {
		CreateFee(f Fee) (Fee, error)
		CreateFees(fees ...Fee) ([]Fee, error)
		GetFeeByID(id int) (Fee, error)
		// QueryStudentFees returns a student's fees; academicYear filters
		// when non-empty.
		QueryStudentFees(studentID int, academicYear string) ([]Fee, error)
		QueryFeesByStatus(statuses ...string) ([]Fee, error)
		UpdateFee(f Fee) (Fee, error)
		DeleteFeesByID(ids ...int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func newFee(nf NewFee, createdBy null.Int, now time.Time) Fee {
	f := Fee{
		StudentID:    nf.StudentID,
		FeeType:      nf.FeeType,
		Amount:       decimal.NewFromFloat(nf.Amount),
		LateFee:      decimal.NewFromFloat(nf.LateFee),
		Discount:     decimal.NewFromFloat(nf.Discount),
		DueDate:      nf.DueDate,
		AcademicYear: nf.AcademicYear,
		Semester:     nf.Semester,
		Description:  nf.Description,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.RecomputeStatus()
	return f
}

// Create assesses a new fee for a student.
func (svc *Service) Create(nf NewFee, createdBy null.Int) (Fee, error) {
	return svc.repo.CreateFee(newFee(nf, createdBy, time.Now().UTC()))
}

// BulkAssess assesses the same fee to each given student, eg. a whole class.
func (svc *Service) BulkAssess(nf NewFee, studentIDs []int, createdBy null.Int) ([]Fee, error) {
	now := time.Now().UTC()
	fees := make([]Fee, 0, len(studentIDs))
	for _, sid := range studentIDs {
		f := nf
		f.StudentID = sid
		fees = append(fees, newFee(f, createdBy, now))
	}
	return svc.repo.CreateFees(fees...)
}

func (svc *Service) GetByID(id int) (Fee, error) {
	return svc.repo.GetFeeByID(id)
}

func (svc *Service) QueryByStudent(studentID int, academicYear string) ([]Fee, error) {
	return svc.repo.QueryStudentFees(studentID, academicYear)
}

// QueryOverdue returns fees whose status derivation currently yields
// overdue; it re-derives on the fly so fees that lapsed since their last
// recomputation are included.
func (svc *Service) QueryOverdue() ([]Fee, error) {
	fees, err := svc.repo.QueryFeesByStatus(StatusPending, StatusPartial, StatusOverdue)
	if err != nil {
		return nil, err
	}
	overdue := make([]Fee, 0, len(fees))
	for _, f := range fees {
		if f.IsOverdue() {
			overdue = append(overdue, f)
		}
	}
	return overdue, nil
}

// Update modifies a fee's amounts, due date or notes, and re-derives its
// status in the same operation.
func (svc *Service) Update(id int, uf UpdateFee) (Fee, error) {
	f, err := svc.repo.GetFeeByID(id)
	if err != nil {
		return Fee{}, err
	}

	if uf.Amount != nil {
		f.Amount = decimal.NewFromFloat(*uf.Amount)
	}
	if uf.LateFee != nil {
		f.LateFee = decimal.NewFromFloat(*uf.LateFee)
	}
	if uf.Discount != nil {
		f.Discount = decimal.NewFromFloat(*uf.Discount)
	}
	if uf.DueDate.Valid {
		f.DueDate = uf.DueDate.Time
	}
	if uf.Description != "" {
		f.Description = uf.Description
	}
	if uf.Notes != "" {
		f.Notes = uf.Notes
	}
	f.UpdatedAt = time.Now().UTC()

	f.RecomputeStatus()
	return svc.repo.UpdateFee(f)
}

// ApplyPayment credits a payment against a fee. The amount must be positive
// and must not exceed the balance due; the paid amount only ever increases
// (refunds are not modeled). A receipt number is generated when the caller
// supplies no transaction id.
func (svc *Service) ApplyPayment(id int, p Payment, processedBy null.Int) (Fee, error) {
	f, err := svc.repo.GetFeeByID(id)
	if err != nil {
		return Fee{}, err
	}

	amount := decimal.NewFromFloat(p.Amount)
	if !amount.IsPositive() {
		return Fee{}, core.NewValidationError(ErrInvalidPayment, core.FieldError{Field: "amount", Error: ErrInvalidPayment.Error()})
	}
	if amount.GreaterThan(f.BalanceDue()) {
		return Fee{}, core.NewValidationError(ErrPaymentExceedsBalance, core.FieldError{Field: "amount", Error: ErrPaymentExceedsBalance.Error()})
	}

	txID := p.TransactionID
	if txID == "" {
		txID = uuid.New().String()
	}
	f.applyPayment(amount, p.PaymentMethod, txID, processedBy)
	f.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateFee(f)
}

// RecomputeStatus re-derives a fee's status using the current date and
// persists the result.
func (svc *Service) RecomputeStatus(id int) (Fee, error) {
	f, err := svc.repo.GetFeeByID(id)
	if err != nil {
		return Fee{}, err
	}
	prev := f.Status
	f.RecomputeStatus()
	if f.Status == prev {
		return f, nil
	}
	f.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateFee(f)
}

// RefreshOverdue recomputes the status of all fees still awaiting payment;
// this is the explicit pass that catches fees that became overdue with no
// activity. It returns the number of fees whose status changed.
func (svc *Service) RefreshOverdue() (int, error) {
	fees, err := svc.repo.QueryFeesByStatus(StatusPending, StatusPartial)
	if err != nil {
		return 0, err
	}
	var changed int
	for _, f := range fees {
		prev := f.Status
		f.RecomputeStatus()
		if f.Status == prev {
			continue
		}
		f.UpdatedAt = time.Now().UTC()
		if _, err := svc.repo.UpdateFee(f); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// StudentSummary rolls a student's fees up by amount and status.
func (svc *Service) StudentSummary(studentID int, academicYear string) (Summary, error) {
	fees, err := svc.repo.QueryStudentFees(studentID, academicYear)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Counts: make(map[string]int, len(AllStatuses))}
	for _, f := range fees {
		sum.TotalBilled = sum.TotalBilled.Add(f.TotalAmount())
		sum.TotalPaid = sum.TotalPaid.Add(f.PaidAmount)
		sum.BalanceDue = sum.BalanceDue.Add(f.BalanceDue())
		sum.Counts[f.Status]++
	}
	return sum, nil
}

// Delete removes fees; a fee with any payment applied cannot be deleted.
func (svc *Service) Delete(ids ...int) error {
	for _, id := range ids {
		f, err := svc.repo.GetFeeByID(id)
		if err != nil {
			return err
		}
		if f.PaidAmount.IsPositive() {
			return ErrFeeHasPayments
		}
	}
	return svc.repo.DeleteFeesByID(ids...)
}
