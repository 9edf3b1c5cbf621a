package reportcard

import (
	"errors"
	"sort"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/grade"
)

var (
	// errors
	ErrNotFound         = errors.New("report card not found")
	ErrDuplicate        = errors.New("a report card already exists for this student, academic year and semester")
	ErrAlreadyPublished = errors.New("report card is already published")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateReportCard(rc ReportCard) (ReportCard, error)
		GetReportCardByID(id int) (ReportCard, error)
		GetReportCard(studentID int, academicYear, semester string) (ReportCard, error)
		QueryStudentReportCards(studentID int) ([]ReportCard, error)
		// QueryPeerReportCards returns the report cards of all students in
		// the given class for one academic year and semester.
		QueryPeerReportCards(classID int, academicYear, semester string) ([]ReportCard, error)
		UpdateReportCard(rc ReportCard) (ReportCard, error)
		DeleteReportCardsByID(ids ...int) error
	}

	// PublishedGrade is one published assessment joined with its subject's
	// credit weight, as the GPA computation consumes it.
	PublishedGrade struct {
		Percentage float64
		Credits    float64
	}

	// GradeSource feeds published grades into the compiler.
	GradeSource interface {
		PublishedGrades(studentID int, academicYear string) ([]PublishedGrade, error)
	}

	// AttendanceSource feeds a student's attendance records into the compiler.
	AttendanceSource interface {
		StudentRecords(studentID int) ([]attendance.Record, error)
	}

	// Roster resolves a student's class for the rank computation; ok is
	// false when the student is not assigned to a class.
	Roster interface {
		StudentClassID(studentID int) (classID int, ok bool, err error)
	}

	Service struct {
		repo       Repository
		grades     GradeSource
		attendance AttendanceSource
		roster     Roster
	}
)

func NewService(repo Repository, grades GradeSource, attendance AttendanceSource, roster Roster) *Service {
	return &Service{
		repo:       repo,
		grades:     grades,
		attendance: attendance,
		roster:     roster,
	}
}

// Create opens a report card for a (student, academic year, semester)
// triple; at most one may exist per triple. Initial metrics are computed
// right away.
func (svc *Service) Create(nrc NewReportCard, generatedBy null.Int) (ReportCard, error) {
	if _, err := svc.repo.GetReportCard(nrc.StudentID, nrc.AcademicYear, nrc.Semester); err == nil {
		return ReportCard{}, core.NewConflictError(ErrDuplicate)
	} else if err != ErrNotFound {
		return ReportCard{}, err
	}

	now := nowFunc().UTC()
	rc := ReportCard{
		StudentID:     nrc.StudentID,
		AcademicYear:  nrc.AcademicYear,
		Semester:      nrc.Semester,
		ConductPoints: 100,
		GeneratedBy:   generatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := svc.calculateMetrics(&rc); err != nil {
		return ReportCard{}, err
	}
	return svc.repo.CreateReportCard(rc)
}

func (svc *Service) GetByID(id int) (ReportCard, error) {
	return svc.repo.GetReportCardByID(id)
}

func (svc *Service) QueryByStudent(studentID int) ([]ReportCard, error) {
	return svc.repo.QueryStudentReportCards(studentID)
}

// calculateMetrics refreshes the GPA and attendance rollups in place from
// the current grade and attendance data.
//
// The GPA is the credit-weighted average of published grade percentages for
// the card's academic year; when no credits are found the previous GPA
// stands (no division by zero). Attendance is intentionally not scoped to
// the academic year.
func (svc *Service) calculateMetrics(rc *ReportCard) error {
	grades, err := svc.grades.PublishedGrades(rc.StudentID, rc.AcademicYear)
	if err != nil {
		return err
	}
	if len(grades) > 0 {
		var totalPoints, totalCredits float64
		for _, g := range grades {
			totalPoints += g.Percentage * g.Credits
			totalCredits += g.Credits
		}
		if totalCredits > 0 {
			rc.OverallGPA = core.Round2(totalPoints / totalCredits)
			rc.OverallGrade = grade.Letter(rc.OverallGPA)
		}
	}

	records, err := svc.attendance.StudentRecords(rc.StudentID)
	if err != nil {
		return err
	}
	if len(records) > 0 {
		sum := attendance.Aggregate(records)
		rc.TotalDays = sum.TotalDays
		rc.DaysPresent = sum.PresentDays
		rc.DaysAbsent = sum.TotalDays - sum.PresentDays
		rc.AttendancePercentage = sum.Percentage
	}
	return nil
}

// CalculateMetrics refreshes a card's computed metrics and persists it.
// A published card is stable; it fails with ErrAlreadyPublished.
func (svc *Service) CalculateMetrics(id int) (ReportCard, error) {
	rc, err := svc.repo.GetReportCardByID(id)
	if err != nil {
		return ReportCard{}, err
	}
	if rc.IsPublished {
		return ReportCard{}, core.NewConflictError(ErrAlreadyPublished)
	}
	if err := svc.calculateMetrics(&rc); err != nil {
		return ReportCard{}, err
	}
	rc.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateReportCard(rc)
}

// calculateRank positions the card among the report cards of the student's
// classmates for the same academic year and semester. Ordering is by GPA
// descending; equal GPAs are broken by ascending student ID so ranks are
// deterministic. Students without a class are not ranked.
func (svc *Service) calculateRank(rc *ReportCard) error {
	classID, ok, err := svc.roster.StudentClassID(rc.StudentID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	peers, err := svc.repo.QueryPeerReportCards(classID, rc.AcademicYear, rc.Semester)
	if err != nil {
		return err
	}

	// the in-memory card carries fresher metrics than its stored row
	var replaced bool
	for i := range peers {
		if peers[i].ID == rc.ID {
			peers[i] = *rc
			replaced = true
			break
		}
	}
	if !replaced {
		peers = append(peers, *rc)
	}

	sort.SliceStable(peers, func(i, j int) bool {
		if peers[i].OverallGPA != peers[j].OverallGPA {
			return peers[i].OverallGPA > peers[j].OverallGPA
		}
		return peers[i].StudentID < peers[j].StudentID
	})

	rc.TotalStudentsInClass = len(peers)
	for i, peer := range peers {
		if peer.ID == rc.ID {
			rc.RankInClass = null.IntFrom(i + 1)
			break
		}
	}
	return nil
}

// Publish finalizes the card: metrics and rank are recomputed one last time,
// the publication flag is set and the publish date stamped. One-way;
// publishing twice fails with ErrAlreadyPublished (see Republish).
func (svc *Service) Publish(id int) (ReportCard, error) {
	rc, err := svc.repo.GetReportCardByID(id)
	if err != nil {
		return ReportCard{}, err
	}
	if rc.IsPublished {
		return ReportCard{}, core.NewConflictError(ErrAlreadyPublished)
	}
	return svc.publish(rc)
}

// Republish is the explicit path to refresh an already-published card; it
// recomputes metrics and rank and re-stamps the publish date.
func (svc *Service) Republish(id int) (ReportCard, error) {
	rc, err := svc.repo.GetReportCardByID(id)
	if err != nil {
		return ReportCard{}, err
	}
	return svc.publish(rc)
}

func (svc *Service) publish(rc ReportCard) (ReportCard, error) {
	if err := svc.calculateMetrics(&rc); err != nil {
		return ReportCard{}, err
	}
	if err := svc.calculateRank(&rc); err != nil {
		return ReportCard{}, err
	}
	now := nowFunc().UTC()
	rc.IsPublished = true
	rc.PublishedDate = null.TimeFrom(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))
	rc.UpdatedAt = now
	return svc.repo.UpdateReportCard(rc)
}

// PublishClass publishes every unpublished report card of a class for one
// academic year and semester, then re-ranks all of them once against the
// final peer set. Ranks computed mid-batch may observe a partially updated
// peer set; callers should serialize publish runs per class so the final
// ranking is stable.
func (svc *Service) PublishClass(classID int, academicYear, semester string) ([]ReportCard, error) {
	peers, err := svc.repo.QueryPeerReportCards(classID, academicYear, semester)
	if err != nil {
		return nil, err
	}

	for _, rc := range peers {
		if rc.IsPublished {
			continue
		}
		if _, err := svc.publish(rc); err != nil {
			return nil, err
		}
	}

	// final pass: rank everyone against the fully published set
	peers, err = svc.repo.QueryPeerReportCards(classID, academicYear, semester)
	if err != nil {
		return nil, err
	}
	published := make([]ReportCard, 0, len(peers))
	for _, rc := range peers {
		if err := svc.calculateRank(&rc); err != nil {
			return nil, err
		}
		rc, err := svc.repo.UpdateReportCard(rc)
		if err != nil {
			return nil, err
		}
		published = append(published, rc)
	}
	return published, nil
}

// Update edits the narrative fields. These stay editable after publication;
// the computed metrics do not.
func (svc *Service) Update(id int, urc UpdateReportCard) (ReportCard, error) {
	rc, err := svc.repo.GetReportCardByID(id)
	if err != nil {
		return ReportCard{}, err
	}

	if urc.TeacherComments != "" {
		rc.TeacherComments = urc.TeacherComments
	}
	if urc.PrincipalComments != "" {
		rc.PrincipalComments = urc.PrincipalComments
	}
	if urc.ParentComments != "" {
		rc.ParentComments = urc.ParentComments
	}
	if urc.BehaviorGrade != "" {
		rc.BehaviorGrade = urc.BehaviorGrade
	}
	if urc.ConductPoints != nil {
		rc.ConductPoints = *urc.ConductPoints
	}
	if urc.Extracurriculars != "" {
		rc.Extracurriculars = urc.Extracurriculars
	}
	if urc.Achievements != "" {
		rc.Achievements = urc.Achievements
	}
	if urc.AreasForImprovement != "" {
		rc.AreasForImprovement = urc.AreasForImprovement
	}
	if urc.NextTermBegins.Valid {
		rc.NextTermBegins = urc.NextTermBegins
	}
	if urc.IsPromoted != nil {
		rc.IsPromoted = *urc.IsPromoted
	}
	rc.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateReportCard(rc)
}

// Delete removes report cards; published cards cannot be deleted.
func (svc *Service) Delete(ids ...int) error {
	for _, id := range ids {
		rc, err := svc.repo.GetReportCardByID(id)
		if err != nil {
			return err
		}
		if rc.IsPublished {
			return core.NewConflictError(ErrAlreadyPublished)
		}
	}
	return svc.repo.DeleteReportCardsByID(ids...)
}
