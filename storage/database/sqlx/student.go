package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/reportcard"
	"github.com/trezcool/shule/core/student"
)

type studentRow struct {
	ID              int       `db:"id"`
	UserID          null.Int  `db:"user_id"`
	FirstName       string    `db:"first_name"`
	LastName        string    `db:"last_name"`
	AdmissionNumber string    `db:"admission_number"`
	ClassID         null.Int  `db:"class_id"`
	DateOfBirth     null.Time `db:"date_of_birth"`
	EnrollmentDate  time.Time `db:"enrollment_date"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r studentRow) model() student.Student {
	return student.Student{
		ID:              r.ID,
		UserID:          r.UserID,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		AdmissionNumber: r.AdmissionNumber,
		ClassID:         r.ClassID,
		DateOfBirth:     r.DateOfBirth,
		EnrollmentDate:  r.EnrollmentDate,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func studentModels(rows []studentRow) []student.Student {
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.model())
	}
	return students
}

type studentRepository struct {
	db *sqlx.DB
}

var (
	_ student.Repository = (*studentRepository)(nil) // interface compliance check
	_ reportcard.Roster  = (*studentRepository)(nil)
)

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo studentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) CreateStudent(s student.Student) (student.Student, error) {
	query := `
INSERT INTO student (user_id, first_name, last_name, admission_number, class_id, date_of_birth, enrollment_date, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id`
	err := repo.db.Get(
		&s.ID, query,
		s.UserID, s.FirstName, s.LastName, s.AdmissionNumber, s.ClassID, s.DateOfBirth, s.EnrollmentDate, s.Status, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "student_admission_number_key") {
			return student.Student{}, student.ErrAdmissionExists
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return s, nil
}

func (repo studentRepository) GetStudentByID(id int) (student.Student, error) {
	var row studentRow
	if err := repo.db.Get(&row, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "finding student by ID")
	}
	return row.model(), nil
}

func (repo studentRepository) GetStudentByAdmissionNumber(admissionNumber string) (student.Student, error) {
	var row studentRow
	if err := repo.db.Get(&row, `SELECT * FROM student WHERE admission_number = $1`, admissionNumber); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "finding student by admission number")
	}
	return row.model(), nil
}

func (repo studentRepository) QueryAllStudents() ([]student.Student, error) {
	var rows []studentRow
	if err := repo.db.Select(&rows, `SELECT * FROM student ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return studentModels(rows), nil
}

func (repo studentRepository) QueryClassStudents(classID int) ([]student.Student, error) {
	var rows []studentRow
	if err := repo.db.Select(&rows, `SELECT * FROM student WHERE class_id = $1 ORDER BY id`, classID); err != nil {
		return nil, errors.Wrap(err, "querying class students")
	}
	return studentModels(rows), nil
}

func (repo studentRepository) UpdateStudent(s student.Student) (student.Student, error) {
	query := `
UPDATE student
SET user_id = $1, first_name = $2, last_name = $3, class_id = $4, date_of_birth = $5, status = $6, updated_at = $7
WHERE id = $8
RETURNING *`
	var row studentRow
	err := repo.db.Get(
		&row, query,
		s.UserID, s.FirstName, s.LastName, s.ClassID, s.DateOfBirth, s.Status, s.UpdatedAt.UTC(), s.ID,
	)
	if err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "updating student")
	}
	return row.model(), nil
}

// StudentClassID resolves a student's class for peer ranking.
func (repo studentRepository) StudentClassID(studentID int) (int, bool, error) {
	var classID null.Int
	if err := repo.db.Get(&classID, `SELECT class_id FROM student WHERE id = $1`, studentID); err != nil {
		if err == sql.ErrNoRows {
			return 0, false, student.ErrNotFound
		}
		return 0, false, errors.Wrap(err, "finding student class")
	}
	return classID.Int, classID.Valid, nil
}
