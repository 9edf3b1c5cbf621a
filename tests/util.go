package testutil

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/fee"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/subject"
	"github.com/trezcool/shule/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	firstName, lastName, admissionNumber string,
	classID null.Int,
) student.Student {
	now := time.Now().UTC()
	s, err := repo.CreateStudent(student.Student{
		FirstName:       firstName,
		LastName:        lastName,
		AdmissionNumber: admissionNumber,
		ClassID:         classID,
		EnrollmentDate:  now,
		Status:          student.StatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

func CreateSubject(
	t *testing.T,
	repo subject.Repository,
	name, code string,
	credits float64,
	academicYear string,
	classID null.Int,
) subject.Subject {
	now := time.Now().UTC()
	s, err := repo.CreateSubject(subject.Subject{
		Name:         name,
		Code:         code,
		Credits:      credits,
		AcademicYear: academicYear,
		ClassID:      classID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return s
}

func CreateGrade(
	t *testing.T,
	repo grade.Repository,
	studentID, subjectID int,
	earnedPoints, maxPoints float64,
	published bool,
) grade.Grade {
	now := time.Now().UTC()
	g := grade.Grade{
		StudentID:    studentID,
		SubjectID:    subjectID,
		TeacherID:    1,
		GradeType:    grade.TypeExam,
		MaxPoints:    maxPoints,
		EarnedPoints: null.Float64From(earnedPoints),
		Weight:       1,
		GradedDate:   now,
		IsPublished:  published,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	grade.Recompute(&g)
	g, err := repo.CreateGrade(g)
	if err != nil {
		t.Fatalf("CreateGrade() failed: %v", err)
	}
	return g
}

func CreateFee(
	t *testing.T,
	repo fee.Repository,
	studentID int,
	feeType string,
	amount, lateFee, discount float64,
	dueDate time.Time,
	academicYear string,
) fee.Fee {
	now := time.Now().UTC()
	f := fee.Fee{
		StudentID:    studentID,
		FeeType:      feeType,
		Amount:       decimal.NewFromFloat(amount),
		LateFee:      decimal.NewFromFloat(lateFee),
		Discount:     decimal.NewFromFloat(discount),
		DueDate:      dueDate,
		AcademicYear: academicYear,
		Semester:     fee.SemesterFullYear,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.RecomputeStatus()
	f, err := repo.CreateFee(f)
	if err != nil {
		t.Fatalf("CreateFee() failed: %v", err)
	}
	return f
}

func MarkAttendance(
	t *testing.T,
	repo attendance.Repository,
	studentID int,
	date time.Time,
	status string,
) attendance.Record {
	now := time.Now().UTC()
	r, err := repo.CreateRecord(attendance.Record{
		StudentID: studentID,
		Date:      date,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("MarkAttendance() failed: %v", err)
	}
	return r
}
