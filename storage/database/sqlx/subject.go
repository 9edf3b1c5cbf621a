package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/subject"
)

type subjectRow struct {
	ID           int       `db:"id"`
	Name         string    `db:"name"`
	Code         string    `db:"code"`
	Credits      float64   `db:"credits"`
	AcademicYear string    `db:"academic_year"`
	TeacherID    null.Int  `db:"teacher_id"`
	ClassID      null.Int  `db:"class_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r subjectRow) model() subject.Subject {
	return subject.Subject{
		ID:           r.ID,
		Name:         r.Name,
		Code:         r.Code,
		Credits:      r.Credits,
		AcademicYear: r.AcademicYear,
		TeacherID:    r.TeacherID,
		ClassID:      r.ClassID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func subjectModels(rows []subjectRow) []subject.Subject {
	subjects := make([]subject.Subject, 0, len(rows))
	for _, r := range rows {
		subjects = append(subjects, r.model())
	}
	return subjects
}

type subjectRepository struct {
	db *sqlx.DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *sqlx.DB) *subjectRepository {
	return &subjectRepository{db: db}
}

func (repo subjectRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return subject.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo subjectRepository) CreateSubject(s subject.Subject) (subject.Subject, error) {
	query := `
INSERT INTO subject (name, code, credits, academic_year, teacher_id, class_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`
	err := repo.db.Get(
		&s.ID, query,
		s.Name, s.Code, s.Credits, s.AcademicYear, s.TeacherID, s.ClassID, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return s, nil
}

func (repo subjectRepository) GetSubjectByID(id int) (subject.Subject, error) {
	var row subjectRow
	if err := repo.db.Get(&row, `SELECT * FROM subject WHERE id = $1`, id); err != nil {
		return subject.Subject{}, repo.trapNoRowsErr(err, "finding subject by ID")
	}
	return row.model(), nil
}

func (repo subjectRepository) QueryAllSubjects() ([]subject.Subject, error) {
	var rows []subjectRow
	if err := repo.db.Select(&rows, `SELECT * FROM subject ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	return subjectModels(rows), nil
}

func (repo subjectRepository) QueryClassSubjects(classID int, academicYear string) ([]subject.Subject, error) {
	query := `SELECT * FROM subject WHERE class_id = $1`
	args := []interface{}{classID}
	if academicYear != "" {
		query += ` AND academic_year = $2`
		args = append(args, academicYear)
	}
	query += ` ORDER BY id`

	var rows []subjectRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying class subjects")
	}
	return subjectModels(rows), nil
}

func (repo subjectRepository) UpdateSubject(s subject.Subject) (subject.Subject, error) {
	query := `
UPDATE subject
SET name = $1, credits = $2, academic_year = $3, teacher_id = $4, class_id = $5, updated_at = $6
WHERE id = $7
RETURNING *`
	var row subjectRow
	err := repo.db.Get(
		&row, query,
		s.Name, s.Credits, s.AcademicYear, s.TeacherID, s.ClassID, s.UpdatedAt.UTC(), s.ID,
	)
	if err != nil {
		return subject.Subject{}, repo.trapNoRowsErr(err, "updating subject")
	}
	return row.model(), nil
}
