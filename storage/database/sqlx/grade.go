package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/reportcard"
)

type gradeRow struct {
	ID             int          `db:"id"`
	StudentID      int          `db:"student_id"`
	SubjectID      int          `db:"subject_id"`
	TeacherID      int          `db:"teacher_id"`
	GradeType      string       `db:"grade_type"`
	AssignmentName string       `db:"assignment_name"`
	GradeValue     null.Float64 `db:"grade_value"`
	LetterGrade    string       `db:"letter_grade"`
	MaxPoints      float64      `db:"max_points"`
	EarnedPoints   null.Float64 `db:"earned_points"`
	Weight         float64      `db:"weight"`
	GradedDate     time.Time    `db:"graded_date"`
	DueDate        null.Time    `db:"due_date"`
	Comments       string       `db:"comments"`
	IsPublished    bool         `db:"is_published"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

func (r gradeRow) model() grade.Grade {
	return grade.Grade{
		ID:             r.ID,
		StudentID:      r.StudentID,
		SubjectID:      r.SubjectID,
		TeacherID:      r.TeacherID,
		GradeType:      r.GradeType,
		AssignmentName: r.AssignmentName,
		GradeValue:     r.GradeValue,
		LetterGrade:    r.LetterGrade,
		MaxPoints:      r.MaxPoints,
		EarnedPoints:   r.EarnedPoints,
		Weight:         r.Weight,
		GradedDate:     r.GradedDate,
		DueDate:        r.DueDate,
		Comments:       r.Comments,
		IsPublished:    r.IsPublished,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func gradeModels(rows []gradeRow) []grade.Grade {
	grades := make([]grade.Grade, 0, len(rows))
	for _, r := range rows {
		grades = append(grades, r.model())
	}
	return grades
}

type gradeRepository struct {
	db *sqlx.DB
}

var (
	_ grade.Repository       = (*gradeRepository)(nil) // interface compliance check
	_ reportcard.GradeSource = (*gradeRepository)(nil)
)

func NewGradeRepository(db *sqlx.DB) *gradeRepository {
	return &gradeRepository{db: db}
}

func (repo gradeRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return grade.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo gradeRepository) CreateGrade(g grade.Grade) (grade.Grade, error) {
	query := `
INSERT INTO grade (student_id, subject_id, teacher_id, grade_type, assignment_name, grade_value, letter_grade,
                   max_points, earned_points, weight, graded_date, due_date, comments, is_published, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
RETURNING id`
	err := repo.db.Get(
		&g.ID, query,
		g.StudentID, g.SubjectID, g.TeacherID, g.GradeType, g.AssignmentName, g.GradeValue, g.LetterGrade,
		g.MaxPoints, g.EarnedPoints, g.Weight, g.GradedDate, g.DueDate, g.Comments, g.IsPublished, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return grade.Grade{}, errors.Wrap(err, "inserting grade")
	}
	return g, nil
}

func (repo gradeRepository) GetGradeByID(id int) (grade.Grade, error) {
	var row gradeRow
	if err := repo.db.Get(&row, `SELECT * FROM grade WHERE id = $1`, id); err != nil {
		return grade.Grade{}, repo.trapNoRowsErr(err, "finding grade by ID")
	}
	return row.model(), nil
}

func (repo gradeRepository) QueryStudentGrades(studentID int, publishedOnly bool, academicYear string) ([]grade.Grade, error) {
	query := `SELECT g.* FROM grade g`
	args := []interface{}{studentID}
	if academicYear != "" {
		query += ` JOIN subject s ON s.id = g.subject_id AND s.academic_year = $2`
		args = append(args, academicYear)
	}
	query += ` WHERE g.student_id = $1`
	if publishedOnly {
		query += ` AND g.is_published`
	}
	query += ` ORDER BY g.id`

	var rows []gradeRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying student grades")
	}
	return gradeModels(rows), nil
}

func (repo gradeRepository) QuerySubjectGrades(subjectID int) ([]grade.Grade, error) {
	var rows []gradeRow
	if err := repo.db.Select(&rows, `SELECT * FROM grade WHERE subject_id = $1 ORDER BY id`, subjectID); err != nil {
		return nil, errors.Wrap(err, "querying subject grades")
	}
	return gradeModels(rows), nil
}

func (repo gradeRepository) UpdateGrade(g grade.Grade) (grade.Grade, error) {
	query := `
UPDATE grade
SET assignment_name = $1, grade_value = $2, letter_grade = $3, max_points = $4, earned_points = $5,
    weight = $6, due_date = $7, comments = $8, is_published = $9, updated_at = $10
WHERE id = $11
RETURNING *`
	var row gradeRow
	err := repo.db.Get(
		&row, query,
		g.AssignmentName, g.GradeValue, g.LetterGrade, g.MaxPoints, g.EarnedPoints,
		g.Weight, g.DueDate, g.Comments, g.IsPublished, g.UpdatedAt.UTC(), g.ID,
	)
	if err != nil {
		return grade.Grade{}, repo.trapNoRowsErr(err, "updating grade")
	}
	return row.model(), nil
}

func (repo gradeRepository) DeleteGradesByID(ids ...int) error {
	_, err := repo.db.Exec(`DELETE FROM grade WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting grades")
}

// PublishedGrades feeds the GPA computation: each published grade's
// normalized percentage joined with its subject's credit weight.
func (repo gradeRepository) PublishedGrades(studentID int, academicYear string) ([]reportcard.PublishedGrade, error) {
	query := `
SELECT COALESCE(ROUND((g.earned_points / NULLIF(g.max_points, 0) * 100)::numeric, 2)::double precision, g.grade_value, 0) AS percentage,
       s.credits
FROM grade g
JOIN subject s ON s.id = g.subject_id
WHERE g.student_id = $1
  AND g.is_published
  AND s.academic_year = $2
ORDER BY g.id`
	var rows []struct {
		Percentage float64 `db:"percentage"`
		Credits    float64 `db:"credits"`
	}
	if err := repo.db.Select(&rows, query, studentID, academicYear); err != nil {
		return nil, errors.Wrap(err, "querying published grades")
	}

	grades := make([]reportcard.PublishedGrade, 0, len(rows))
	for _, r := range rows {
		grades = append(grades, reportcard.PublishedGrade{Percentage: r.Percentage, Credits: r.Credits})
	}
	return grades, nil
}
