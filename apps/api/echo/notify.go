package echoapi

import (
	"net/mail"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/fee"
	"github.com/trezcool/shule/core/reportcard"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
)

// notifier sends the courtesy emails triggered by API actions. Delivery is
// best-effort: a student without a linked account is skipped silently.
type notifier struct {
	mailSvc    core.EmailService
	studentSvc *student.Service
	usrSvc     *user.Service
}

// recipient resolves a student's linked user account to a mail address.
func (n *notifier) recipient(studentID int) (mail.Address, string, bool) {
	if n.mailSvc == nil {
		return mail.Address{}, "", false
	}
	s, err := n.studentSvc.GetByID(studentID)
	if err != nil || !s.UserID.Valid {
		return mail.Address{}, "", false
	}
	usr, err := n.usrSvc.GetByID(s.UserID.Int)
	if err != nil || usr.Email == "" {
		return mail.Address{}, "", false
	}
	return mail.Address{Name: s.FullName(), Address: usr.Email}, s.FullName(), true
}

func (n *notifier) paymentReceived(f fee.Fee, p fee.Payment) {
	to, name, ok := n.recipient(f.StudentID)
	if !ok {
		return
	}
	n.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{to},
		Subject:      "Payment Received",
		TemplateName: "payment-receipt",
		TemplateData: struct {
			StudentName   string
			Amount        float64
			FeeType       string
			TransactionID string
			BalanceDue    string
		}{name, p.Amount, f.FeeType, f.TransactionID, f.BalanceDue().String()},
	})
}

func (n *notifier) reportCardPublished(rc reportcard.ReportCard) {
	to, name, ok := n.recipient(rc.StudentID)
	if !ok {
		return
	}
	n.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{to},
		Subject:      "Report Card Published",
		TemplateName: "report-card-published",
		TemplateData: struct {
			StudentName  string
			AcademicYear string
			Semester     string
		}{name, rc.AcademicYear, rc.Semester},
	})
}
