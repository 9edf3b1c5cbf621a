package dummydb

import (
	"sync"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/fee"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/reportcard"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/subject"
	"github.com/trezcool/shule/core/user"
)

type (
	DB struct {
		user       *userTable
		student    *studentTable
		subject    *subjectTable
		grade      *gradeTable
		fee        *feeTable
		attendance *attendanceTable
		reportCard *reportCardTable
	}

	userTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*user.User
	}

	studentTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*student.Student
	}

	subjectTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*subject.Subject
	}

	gradeTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*grade.Grade
	}

	feeTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*fee.Fee
	}

	attendanceTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*attendance.Record
	}

	reportCardTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*reportcard.ReportCard
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[int]*user.User)},
		student:    &studentTable{table: make(map[int]*student.Student)},
		subject:    &subjectTable{table: make(map[int]*subject.Subject)},
		grade:      &gradeTable{table: make(map[int]*grade.Grade)},
		fee:        &feeTable{table: make(map[int]*fee.Fee)},
		attendance: &attendanceTable{table: make(map[int]*attendance.Record)},
		reportCard: &reportCardTable{table: make(map[int]*reportcard.ReportCard)},
	}
	return db, nil
}
