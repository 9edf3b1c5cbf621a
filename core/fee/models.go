package fee

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

// Fee types
const (
	TypeTuition        = "tuition"
	TypeLibrary        = "library"
	TypeLaboratory     = "laboratory"
	TypeSports         = "sports"
	TypeTransportation = "transportation"
	TypeExam           = "exam"
	TypeMiscellaneous  = "miscellaneous"
)

// Fee statuses
const (
	StatusPending = "pending"
	StatusPartial = "partial"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

// Semesters
const (
	SemesterFirst    = "first"
	SemesterSecond   = "second"
	SemesterFullYear = "full_year"
)

var (
	AllTypes     = []string{TypeTuition, TypeLibrary, TypeLaboratory, TypeSports, TypeTransportation, TypeExam, TypeMiscellaneous}
	AllStatuses  = []string{StatusPending, StatusPartial, StatusPaid, StatusOverdue}
	AllSemesters = []string{SemesterFirst, SemesterSecond, SemesterFullYear}

	nowFunc = time.Now // mockable
)

func today() time.Time {
	now := nowFunc().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Fee is one billable obligation for a student. Amounts are fixed-point
// decimals; repeated payments must not accumulate rounding drift.
// Status is derived state: it is only re-evaluated by RecomputeStatus, never
// by the passage of time alone.
type Fee struct {
	ID            int             `json:"id"`
	StudentID     int             `json:"student_id"`
	FeeType       string          `json:"fee_type"`
	Amount        decimal.Decimal `json:"amount"`
	LateFee       decimal.Decimal `json:"late_fee"`
	Discount      decimal.Decimal `json:"discount"`
	DueDate       time.Time       `json:"due_date"`
	PaidDate      null.Time       `json:"paid_date"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Status        string          `json:"status"`
	AcademicYear  string          `json:"academic_year"`
	Semester      string          `json:"semester"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"payment_method"`
	TransactionID string          `json:"transaction_id"`
	Notes         string          `json:"notes"`
	CreatedBy     null.Int        `json:"created_by"`
	ProcessedBy   null.Int        `json:"processed_by"`
	CreatedAt     time.Time       `json:"created_at"` // UTC
	UpdatedAt     time.Time       `json:"updated_at"` // UTC
}

// TotalAmount is the full obligation: base amount plus late fee minus discount.
func (f Fee) TotalAmount() decimal.Decimal {
	return f.Amount.Add(f.LateFee).Sub(f.Discount)
}

// BalanceDue is the outstanding amount, never negative.
func (f Fee) BalanceDue() decimal.Decimal {
	balance := f.TotalAmount().Sub(f.PaidAmount)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

func (f Fee) IsOverdue() bool {
	return today().After(f.DueDate) && f.Status != StatusPaid
}

// DaysOverdue is only meaningful when the fee is overdue; 0 otherwise.
func (f Fee) DaysOverdue() int {
	if f.IsOverdue() {
		return core.DaysBetween(f.DueDate, today())
	}
	return 0
}

// RecomputeStatus re-derives the fee status. Priority order, first match
// wins: paid, partial, overdue, pending. Must be called by every mutation
// path that changes the amounts, the due date or the paid amount.
func (f *Fee) RecomputeStatus() {
	switch {
	case f.PaidAmount.GreaterThanOrEqual(f.TotalAmount()):
		f.Status = StatusPaid
	case f.PaidAmount.IsPositive():
		f.Status = StatusPartial
	case today().After(f.DueDate):
		f.Status = StatusOverdue
	default:
		f.Status = StatusPending
	}
}

// applyPayment credits a payment against the fee and re-derives its status.
// PaidDate is stamped on the first credit. Amount checks live in the Service.
func (f *Fee) applyPayment(amount decimal.Decimal, method, transactionID string, processedBy null.Int) {
	f.PaidAmount = f.PaidAmount.Add(amount)
	f.PaymentMethod = method
	f.TransactionID = transactionID
	f.ProcessedBy = processedBy

	if !f.PaidDate.Valid && f.PaidAmount.IsPositive() {
		f.PaidDate = null.TimeFrom(today())
	}
	f.RecomputeStatus()
}

func (f Fee) MarshalJSON() ([]byte, error) {
	type alias Fee
	return json.Marshal(struct {
		alias
		TotalAmount decimal.Decimal `json:"total_amount"`
		BalanceDue  decimal.Decimal `json:"balance_due"`
		IsOverdue   bool            `json:"is_overdue"`
		DaysOverdue int             `json:"days_overdue"`
	}{
		alias:       alias(f),
		TotalAmount: f.TotalAmount(),
		BalanceDue:  f.BalanceDue(),
		IsOverdue:   f.IsOverdue(),
		DaysOverdue: f.DaysOverdue(),
	})
}

// NewFee contains information needed to assess a new Fee.
type NewFee struct {
	StudentID    int       `json:"student_id" validate:"required"`
	FeeType      string    `json:"fee_type" validate:"required,oneof=tuition library laboratory sports transportation exam miscellaneous"`
	Amount       float64   `json:"amount" validate:"required,gt=0"`
	LateFee      float64   `json:"late_fee" validate:"omitempty,gte=0"`
	Discount     float64   `json:"discount" validate:"omitempty,gte=0"`
	DueDate      time.Time `json:"due_date" validate:"required"`
	AcademicYear string    `json:"academic_year" validate:"omitempty,academicyear"`
	Semester     string    `json:"semester" validate:"omitempty,oneof=first second full_year"`
	Description  string    `json:"description"`
}

func (nf *NewFee) Validate() error {
	nf.Description = core.CleanString(nf.Description)
	if nf.AcademicYear == "" {
		nf.AcademicYear = core.CurrentAcademicYear()
	}
	if nf.Semester == "" {
		nf.Semester = SemesterFullYear
	}
	return core.Validate.Struct(nf)
}

// UpdateFee defines what information may be provided to modify an existing
// Fee. Nil fields keep their original values.
type UpdateFee struct {
	Amount      *float64  `json:"amount" validate:"omitempty,gt=0"`
	LateFee     *float64  `json:"late_fee" validate:"omitempty,gte=0"`
	Discount    *float64  `json:"discount" validate:"omitempty,gte=0"`
	DueDate     null.Time `json:"due_date"`
	Description string    `json:"description"`
	Notes       string    `json:"notes"`
}

func (uf *UpdateFee) Validate() error {
	uf.Description = core.CleanString(uf.Description)
	uf.Notes = core.CleanString(uf.Notes)
	return core.Validate.Struct(uf)
}

// Payment is a single payment applied against a fee.
type Payment struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod string  `json:"payment_method"` // Cash, Card, Bank Transfer, etc.
	TransactionID string  `json:"transaction_id"`
}

func (p *Payment) Validate() error {
	p.PaymentMethod = core.CleanString(p.PaymentMethod)
	p.TransactionID = core.CleanString(p.TransactionID)
	return core.Validate.Struct(p)
}

// Summary aggregates a student's fees by amount and status.
type Summary struct {
	TotalBilled decimal.Decimal `json:"total_billed"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	BalanceDue  decimal.Decimal `json:"balance_due"`
	Counts      map[string]int  `json:"counts"` // by status
}
