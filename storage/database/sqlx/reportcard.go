package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/reportcard"
)

type reportCardRow struct {
	ID                   int       `db:"id"`
	StudentID            int       `db:"student_id"`
	AcademicYear         string    `db:"academic_year"`
	Semester             string    `db:"semester"`
	OverallGPA           float64   `db:"overall_gpa"`
	OverallGrade         string    `db:"overall_grade"`
	RankInClass          null.Int  `db:"rank_in_class"`
	TotalStudentsInClass int       `db:"total_students_in_class"`
	AttendancePercentage float64   `db:"attendance_percentage"`
	TotalDays            int       `db:"total_days"`
	DaysPresent          int       `db:"days_present"`
	DaysAbsent           int       `db:"days_absent"`
	TeacherComments      string    `db:"teacher_comments"`
	PrincipalComments    string    `db:"principal_comments"`
	ParentComments       string    `db:"parent_comments"`
	BehaviorGrade        string    `db:"behavior_grade"`
	ConductPoints        int       `db:"conduct_points"`
	Extracurriculars     string    `db:"extracurricular_activities"`
	Achievements         string    `db:"achievements"`
	AreasForImprovement  string    `db:"areas_for_improvement"`
	NextTermBegins       null.Time `db:"next_term_begins"`
	IsPromoted           bool      `db:"is_promoted"`
	IsPublished          bool      `db:"is_published"`
	PublishedDate        null.Time `db:"published_date"`
	GeneratedBy          null.Int  `db:"generated_by"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

func (r reportCardRow) model() reportcard.ReportCard {
	return reportcard.ReportCard{
		ID:                   r.ID,
		StudentID:            r.StudentID,
		AcademicYear:         r.AcademicYear,
		Semester:             r.Semester,
		OverallGPA:           r.OverallGPA,
		OverallGrade:         r.OverallGrade,
		RankInClass:          r.RankInClass,
		TotalStudentsInClass: r.TotalStudentsInClass,
		AttendancePercentage: r.AttendancePercentage,
		TotalDays:            r.TotalDays,
		DaysPresent:          r.DaysPresent,
		DaysAbsent:           r.DaysAbsent,
		TeacherComments:      r.TeacherComments,
		PrincipalComments:    r.PrincipalComments,
		ParentComments:       r.ParentComments,
		BehaviorGrade:        r.BehaviorGrade,
		ConductPoints:        r.ConductPoints,
		Extracurriculars:     r.Extracurriculars,
		Achievements:         r.Achievements,
		AreasForImprovement:  r.AreasForImprovement,
		NextTermBegins:       r.NextTermBegins,
		IsPromoted:           r.IsPromoted,
		IsPublished:          r.IsPublished,
		PublishedDate:        r.PublishedDate,
		GeneratedBy:          r.GeneratedBy,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

func reportCardModels(rows []reportCardRow) []reportcard.ReportCard {
	cards := make([]reportcard.ReportCard, 0, len(rows))
	for _, r := range rows {
		cards = append(cards, r.model())
	}
	return cards
}

type reportCardRepository struct {
	db *sqlx.DB
}

var _ reportcard.Repository = (*reportCardRepository)(nil) // interface compliance check

func NewReportCardRepository(db *sqlx.DB) *reportCardRepository {
	return &reportCardRepository{db: db}
}

func (repo reportCardRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return reportcard.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo reportCardRepository) CreateReportCard(rc reportcard.ReportCard) (reportcard.ReportCard, error) {
	query := `
INSERT INTO report_card (student_id, academic_year, semester, overall_gpa, overall_grade, rank_in_class,
                         total_students_in_class, attendance_percentage, total_days, days_present, days_absent,
                         teacher_comments, principal_comments, parent_comments, behavior_grade, conduct_points,
                         extracurricular_activities, achievements, areas_for_improvement, next_term_begins,
                         is_promoted, is_published, published_date, generated_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
RETURNING id`
	err := repo.db.Get(
		&rc.ID, query,
		rc.StudentID, rc.AcademicYear, rc.Semester, rc.OverallGPA, rc.OverallGrade, rc.RankInClass,
		rc.TotalStudentsInClass, rc.AttendancePercentage, rc.TotalDays, rc.DaysPresent, rc.DaysAbsent,
		rc.TeacherComments, rc.PrincipalComments, rc.ParentComments, rc.BehaviorGrade, rc.ConductPoints,
		rc.Extracurriculars, rc.Achievements, rc.AreasForImprovement, rc.NextTermBegins,
		rc.IsPromoted, rc.IsPublished, rc.PublishedDate, rc.GeneratedBy, rc.CreatedAt, rc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return reportcard.ReportCard{}, reportcard.ErrDuplicate
		}
		return reportcard.ReportCard{}, errors.Wrap(err, "inserting report card")
	}
	return rc, nil
}

func (repo reportCardRepository) GetReportCardByID(id int) (reportcard.ReportCard, error) {
	var row reportCardRow
	if err := repo.db.Get(&row, `SELECT * FROM report_card WHERE id = $1`, id); err != nil {
		return reportcard.ReportCard{}, repo.trapNoRowsErr(err, "finding report card by ID")
	}
	return row.model(), nil
}

func (repo reportCardRepository) GetReportCard(studentID int, academicYear, semester string) (reportcard.ReportCard, error) {
	var row reportCardRow
	query := `SELECT * FROM report_card WHERE student_id = $1 AND academic_year = $2 AND semester = $3`
	if err := repo.db.Get(&row, query, studentID, academicYear, semester); err != nil {
		return reportcard.ReportCard{}, repo.trapNoRowsErr(err, "finding report card")
	}
	return row.model(), nil
}

func (repo reportCardRepository) QueryStudentReportCards(studentID int) ([]reportcard.ReportCard, error) {
	var rows []reportCardRow
	query := `SELECT * FROM report_card WHERE student_id = $1 ORDER BY academic_year, semester`
	if err := repo.db.Select(&rows, query, studentID); err != nil {
		return nil, errors.Wrap(err, "querying student report cards")
	}
	return reportCardModels(rows), nil
}

func (repo reportCardRepository) QueryPeerReportCards(classID int, academicYear, semester string) ([]reportcard.ReportCard, error) {
	var rows []reportCardRow
	query := `
SELECT rc.* FROM report_card rc
JOIN student s ON s.id = rc.student_id
WHERE s.class_id = $1 AND rc.academic_year = $2 AND rc.semester = $3
ORDER BY rc.id`
	if err := repo.db.Select(&rows, query, classID, academicYear, semester); err != nil {
		return nil, errors.Wrap(err, "querying peer report cards")
	}
	return reportCardModels(rows), nil
}

func (repo reportCardRepository) UpdateReportCard(rc reportcard.ReportCard) (reportcard.ReportCard, error) {
	query := `
UPDATE report_card
SET overall_gpa = $1, overall_grade = $2, rank_in_class = $3, total_students_in_class = $4,
    attendance_percentage = $5, total_days = $6, days_present = $7, days_absent = $8,
    teacher_comments = $9, principal_comments = $10, parent_comments = $11, behavior_grade = $12,
    conduct_points = $13, extracurricular_activities = $14, achievements = $15, areas_for_improvement = $16,
    next_term_begins = $17, is_promoted = $18, is_published = $19, published_date = $20, updated_at = $21
WHERE id = $22
RETURNING *`
	var row reportCardRow
	err := repo.db.Get(
		&row, query,
		rc.OverallGPA, rc.OverallGrade, rc.RankInClass, rc.TotalStudentsInClass,
		rc.AttendancePercentage, rc.TotalDays, rc.DaysPresent, rc.DaysAbsent,
		rc.TeacherComments, rc.PrincipalComments, rc.ParentComments, rc.BehaviorGrade,
		rc.ConductPoints, rc.Extracurriculars, rc.Achievements, rc.AreasForImprovement,
		rc.NextTermBegins, rc.IsPromoted, rc.IsPublished, rc.PublishedDate, rc.UpdatedAt.UTC(), rc.ID,
	)
	if err != nil {
		return reportcard.ReportCard{}, repo.trapNoRowsErr(err, "updating report card")
	}
	return row.model(), nil
}

func (repo reportCardRepository) DeleteReportCardsByID(ids ...int) error {
	_, err := repo.db.Exec(`DELETE FROM report_card WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting report cards")
}
