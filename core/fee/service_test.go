package fee_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/fee"
	dummydb "github.com/trezcool/shule/storage/database/dummy"
	testutil "github.com/trezcool/shule/tests"
)

func newFeeSvc(t *testing.T) (*fee.Service, fee.Repository) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	repo := dummydb.NewFeeRepository(db)
	return fee.NewService(repo), repo
}

func TestServiceApplyPayment(t *testing.T) {
	svc, repo := newFeeSvc(t)

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	f := testutil.CreateFee(t, repo, 1, fee.TypeTuition, 1500, 50, 100, yesterday, "2024-2025")
	if f.Status != fee.StatusOverdue {
		t.Fatalf("status = %v, want %v", f.Status, fee.StatusOverdue)
	}

	// non-positive amount is rejected
	if _, err := svc.ApplyPayment(f.ID, fee.Payment{Amount: 0}, null.Int{}); err == nil {
		t.Error("ApplyPayment() accepted a zero amount")
	} else if _, ok := err.(*core.ValidationError); !ok {
		t.Errorf("ApplyPayment() error = %T, want *core.ValidationError", err)
	}

	// amount above the balance is rejected
	if _, err := svc.ApplyPayment(f.ID, fee.Payment{Amount: 2000}, null.Int{}); err == nil {
		t.Error("ApplyPayment() accepted an amount above the balance")
	}

	// a receipt number is generated when no transaction id is supplied
	f, err := svc.ApplyPayment(f.ID, fee.Payment{Amount: 450, PaymentMethod: "Cash"}, null.IntFrom(7))
	if err != nil {
		t.Fatalf("ApplyPayment() failed: %v", err)
	}
	if f.TransactionID == "" {
		t.Error("ApplyPayment() did not generate a receipt number")
	}
	if f.Status != fee.StatusPartial {
		t.Errorf("status = %v, want %v", f.Status, fee.StatusPartial)
	}
	if got, want := f.BalanceDue(), decimal.NewFromInt(1000); !got.Equal(want) {
		t.Errorf("BalanceDue() = %v, want %v", got, want)
	}

	// settling the balance flips the status to paid
	f, err = svc.ApplyPayment(f.ID, fee.Payment{Amount: 1000, TransactionID: "TX-42"}, null.IntFrom(7))
	if err != nil {
		t.Fatalf("ApplyPayment() failed: %v", err)
	}
	if f.Status != fee.StatusPaid {
		t.Errorf("status = %v, want %v", f.Status, fee.StatusPaid)
	}
	if f.TransactionID != "TX-42" {
		t.Errorf("TransactionID = %v, want TX-42", f.TransactionID)
	}

	// a settled fee accepts no further payments
	if _, err = svc.ApplyPayment(f.ID, fee.Payment{Amount: 1}, null.Int{}); err == nil {
		t.Error("ApplyPayment() accepted a payment on a settled fee")
	}
}

func TestServiceQueryOverdue(t *testing.T) {
	svc, repo := newFeeSvc(t)

	now := time.Now().UTC()
	overdue := testutil.CreateFee(t, repo, 1, fee.TypeTuition, 100, 0, 0, now.AddDate(0, 0, -3), "2024-2025")
	testutil.CreateFee(t, repo, 1, fee.TypeLibrary, 100, 0, 0, now.AddDate(0, 0, 3), "2024-2025")

	fees, err := svc.QueryOverdue()
	if err != nil {
		t.Fatalf("QueryOverdue() failed: %v", err)
	}
	if len(fees) != 1 || fees[0].ID != overdue.ID {
		t.Errorf("QueryOverdue() = %v fees, want [%d]", len(fees), overdue.ID)
	}
}

func TestServiceRefreshOverdue(t *testing.T) {
	svc, repo := newFeeSvc(t)

	now := time.Now().UTC()

	// stored as pending but past due; the refresh pass must catch it
	stale := testutil.CreateFee(t, repo, 1, fee.TypeExam, 100, 0, 0, now.AddDate(0, 0, 2), "2024-2025")
	stale.DueDate = now.AddDate(0, 0, -2)
	if _, err := repo.UpdateFee(stale); err != nil {
		t.Fatalf("UpdateFee() failed: %v", err)
	}
	testutil.CreateFee(t, repo, 1, fee.TypeSports, 100, 0, 0, now.AddDate(0, 0, 30), "2024-2025")

	changed, err := svc.RefreshOverdue()
	if err != nil {
		t.Fatalf("RefreshOverdue() failed: %v", err)
	}
	if changed != 1 {
		t.Errorf("RefreshOverdue() = %d, want 1", changed)
	}

	f, err := svc.GetByID(stale.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if f.Status != fee.StatusOverdue {
		t.Errorf("status = %v, want %v", f.Status, fee.StatusOverdue)
	}

	// second pass finds nothing to change
	if changed, err = svc.RefreshOverdue(); err != nil {
		t.Fatalf("RefreshOverdue() failed: %v", err)
	} else if changed != 0 {
		t.Errorf("RefreshOverdue() = %d, want 0", changed)
	}
}

func TestServiceStudentSummary(t *testing.T) {
	svc, repo := newFeeSvc(t)

	now := time.Now().UTC()
	f1 := testutil.CreateFee(t, repo, 1, fee.TypeTuition, 1000, 0, 0, now.AddDate(0, 0, 10), "2024-2025")
	testutil.CreateFee(t, repo, 1, fee.TypeLibrary, 200, 0, 0, now.AddDate(0, 0, 10), "2024-2025")
	testutil.CreateFee(t, repo, 2, fee.TypeTuition, 999, 0, 0, now.AddDate(0, 0, 10), "2024-2025") // another student
	testutil.CreateFee(t, repo, 1, fee.TypeTuition, 500, 0, 0, now.AddDate(0, 0, 10), "2023-2024") // another year

	if _, err := svc.ApplyPayment(f1.ID, fee.Payment{Amount: 400}, null.Int{}); err != nil {
		t.Fatalf("ApplyPayment() failed: %v", err)
	}

	sum, err := svc.StudentSummary(1, "2024-2025")
	if err != nil {
		t.Fatalf("StudentSummary() failed: %v", err)
	}
	if got, want := sum.TotalBilled, decimal.NewFromInt(1200); !got.Equal(want) {
		t.Errorf("TotalBilled = %v, want %v", got, want)
	}
	if got, want := sum.TotalPaid, decimal.NewFromInt(400); !got.Equal(want) {
		t.Errorf("TotalPaid = %v, want %v", got, want)
	}
	if got, want := sum.BalanceDue, decimal.NewFromInt(800); !got.Equal(want) {
		t.Errorf("BalanceDue = %v, want %v", got, want)
	}
	if sum.Counts[fee.StatusPartial] != 1 || sum.Counts[fee.StatusPending] != 1 {
		t.Errorf("Counts = %v, want 1 partial and 1 pending", sum.Counts)
	}
}

func TestServiceBulkAssess(t *testing.T) {
	svc, _ := newFeeSvc(t)

	nf := fee.NewFee{
		FeeType:      fee.TypeExam,
		Amount:       50,
		DueDate:      time.Now().UTC().AddDate(0, 0, 14),
		AcademicYear: "2024-2025",
		Semester:     fee.SemesterFirst,
	}
	fees, err := svc.BulkAssess(nf, []int{1, 2, 3}, null.IntFrom(9))
	if err != nil {
		t.Fatalf("BulkAssess() failed: %v", err)
	}
	if len(fees) != 3 {
		t.Fatalf("BulkAssess() created %d fees, want 3", len(fees))
	}
	for i, f := range fees {
		if f.StudentID != i+1 {
			t.Errorf("fees[%d].StudentID = %d, want %d", i, f.StudentID, i+1)
		}
		if f.Status != fee.StatusPending {
			t.Errorf("fees[%d].Status = %v, want %v", i, f.Status, fee.StatusPending)
		}
	}
}

func TestServiceDelete(t *testing.T) {
	svc, repo := newFeeSvc(t)

	now := time.Now().UTC()
	paid := testutil.CreateFee(t, repo, 1, fee.TypeTuition, 100, 0, 0, now.AddDate(0, 0, 10), "2024-2025")
	if _, err := svc.ApplyPayment(paid.ID, fee.Payment{Amount: 100}, null.Int{}); err != nil {
		t.Fatalf("ApplyPayment() failed: %v", err)
	}
	if err := svc.Delete(paid.ID); err != fee.ErrFeeHasPayments {
		t.Errorf("Delete() error = %v, want %v", err, fee.ErrFeeHasPayments)
	}

	clean := testutil.CreateFee(t, repo, 1, fee.TypeLibrary, 100, 0, 0, now.AddDate(0, 0, 10), "2024-2025")
	if err := svc.Delete(clean.ID); err != nil {
		t.Errorf("Delete() failed: %v", err)
	}
	if _, err := svc.GetByID(clean.ID); err != fee.ErrNotFound {
		t.Errorf("GetByID() error = %v, want %v", err, fee.ErrNotFound)
	}
}
