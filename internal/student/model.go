package student

import (
	"time"

	"github.com/uptrace/bun"
)

type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,unique,notnull" json:"email"`
	Grade     int       `bun:"grade" json:"grade"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// studentRow is the write-side mapping of the students table. A nil Grade is
// written as NULL so the engine rejects it.
type studentRow struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID    int64  `bun:"id,pk,autoincrement"`
	Name  string `bun:"name"`
	Email string `bun:"email"`
	Grade *int   `bun:"grade"`
}

// Input carries the writable fields of a student. Grade is a pointer so an
// absent grade can be told apart from a grade of 0.
type Input struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
	Grade *int   `json:"grade" validate:"required,min=0,max=100"`
}

// Statistics is the aggregate view over all students. Average, highest and
// lowest are nil when the table is empty.
type Statistics struct {
	TotalStudents   int      `bun:"total_students" json:"total_students"`
	AverageGrade    *float64 `bun:"average_grade" json:"average_grade"`
	HighestGrade    *int     `bun:"highest_grade" json:"highest_grade"`
	LowestGrade     *int     `bun:"lowest_grade" json:"lowest_grade"`
	AStudents       int      `bun:"a_students" json:"a_students"`
	BStudents       int      `bun:"b_students" json:"b_students"`
	CStudents       int      `bun:"c_students" json:"c_students"`
	FailingStudents int      `bun:"failing_students" json:"failing_students"`
}
