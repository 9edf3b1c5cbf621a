package reportcard

import (
	"encoding/json"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

// Academic statuses derived from the overall GPA.
const (
	StatusExcellent        = "Excellent"
	StatusGood             = "Good"
	StatusSatisfactory     = "Satisfactory"
	StatusNeedsImprovement = "Needs Improvement"
	StatusUnsatisfactory   = "Unsatisfactory"
)

// ReportCard is a per-student, per-(academic year, semester) snapshot of
// academic and attendance metrics. The computed fields are only as fresh as
// the last CalculateMetrics/Publish invocation; nothing auto-refreshes.
// Once published the snapshot is stable: metrics are not recomputed without
// an explicit republish, though comment fields stay editable.
type ReportCard struct {
	ID                   int       `json:"id"`
	StudentID            int       `json:"student_id"`
	AcademicYear         string    `json:"academic_year"`
	Semester             string    `json:"semester"`
	OverallGPA           float64   `json:"overall_gpa"`
	OverallGrade         string    `json:"overall_grade"`
	RankInClass          null.Int  `json:"rank_in_class"`
	TotalStudentsInClass int       `json:"total_students_in_class"`
	AttendancePercentage float64   `json:"attendance_percentage"`
	TotalDays            int       `json:"total_days"`
	DaysPresent          int       `json:"days_present"`
	DaysAbsent           int       `json:"days_absent"`
	TeacherComments      string    `json:"teacher_comments"`
	PrincipalComments    string    `json:"principal_comments"`
	ParentComments       string    `json:"parent_comments"`
	BehaviorGrade        string    `json:"behavior_grade"`
	ConductPoints        int       `json:"conduct_points"`
	Extracurriculars     string    `json:"extracurricular_activities"`
	Achievements         string    `json:"achievements"`
	AreasForImprovement  string    `json:"areas_for_improvement"`
	NextTermBegins       null.Time `json:"next_term_begins"`
	IsPromoted           bool      `json:"is_promoted"`
	IsPublished          bool      `json:"is_published"`
	PublishedDate        null.Time `json:"published_date"`
	GeneratedBy          null.Int  `json:"generated_by"`
	CreatedAt            time.Time `json:"created_at"` // UTC
	UpdatedAt            time.Time `json:"updated_at"` // UTC
}

// AcademicStatus maps the overall GPA to a qualitative status.
func (rc ReportCard) AcademicStatus() string {
	switch {
	case rc.OverallGPA >= 85:
		return StatusExcellent
	case rc.OverallGPA >= 75:
		return StatusGood
	case rc.OverallGPA >= 65:
		return StatusSatisfactory
	case rc.OverallGPA >= 50:
		return StatusNeedsImprovement
	default:
		return StatusUnsatisfactory
	}
}

func (rc ReportCard) MarshalJSON() ([]byte, error) {
	type alias ReportCard
	return json.Marshal(struct {
		alias
		AcademicStatus string `json:"academic_status"`
	}{
		alias:          alias(rc),
		AcademicStatus: rc.AcademicStatus(),
	})
}

// NewReportCard contains information needed to open a new ReportCard.
type NewReportCard struct {
	StudentID    int    `json:"student_id" validate:"required"`
	AcademicYear string `json:"academic_year" validate:"omitempty,academicyear"`
	Semester     string `json:"semester" validate:"omitempty,oneof=first second full_year"`
}

func (nrc *NewReportCard) Validate() error {
	if nrc.AcademicYear == "" {
		nrc.AcademicYear = core.CurrentAcademicYear()
	}
	if nrc.Semester == "" {
		nrc.Semester = "full_year"
	}
	return core.Validate.Struct(nrc)
}

// UpdateReportCard defines the narrative fields that may be edited; these
// remain editable after publication, unlike the computed metrics.
type UpdateReportCard struct {
	TeacherComments     string    `json:"teacher_comments"`
	PrincipalComments   string    `json:"principal_comments"`
	ParentComments      string    `json:"parent_comments"`
	BehaviorGrade       string    `json:"behavior_grade"`
	ConductPoints       *int      `json:"conduct_points" validate:"omitempty,gte=0,lte=100"`
	Extracurriculars    string    `json:"extracurricular_activities"`
	Achievements        string    `json:"achievements"`
	AreasForImprovement string    `json:"areas_for_improvement"`
	NextTermBegins      null.Time `json:"next_term_begins"`
	IsPromoted          *bool     `json:"is_promoted"`
}

func (urc *UpdateReportCard) Validate() error {
	urc.TeacherComments = core.CleanString(urc.TeacherComments)
	urc.PrincipalComments = core.CleanString(urc.PrincipalComments)
	urc.ParentComments = core.CleanString(urc.ParentComments)
	return core.Validate.Struct(urc)
}
