package student

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fenix011/student-management-API-c6e/internal/metrics"

	"github.com/uptrace/bun"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const statisticsQuery = `
SELECT
	COUNT(*) AS total_students,
	AVG(grade) AS average_grade,
	MAX(grade) AS highest_grade,
	MIN(grade) AS lowest_grade,
	COUNT(CASE WHEN grade >= 90 THEN 1 END) AS a_students,
	COUNT(CASE WHEN grade >= 80 AND grade < 90 THEN 1 END) AS b_students,
	COUNT(CASE WHEN grade >= 70 AND grade < 80 THEN 1 END) AS c_students,
	COUNT(CASE WHEN grade < 70 THEN 1 END) AS failing_students
FROM students`

// Repository is the data access layer for students. Each method runs exactly
// one statement; the pooled connection is released before it returns.
type Repository interface {
	List(ctx context.Context, minGrade *int) ([]Student, error)
	GetByID(ctx context.Context, id int64) (*Student, error)
	Create(ctx context.Context, in Input) (int64, error)
	Update(ctx context.Context, id int64, in Input) error
	Delete(ctx context.Context, id int64) (bool, error)
	Statistics(ctx context.Context) (*Statistics, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{
		db:      db,
		metrics: m,
	}
}

// List returns every student ordered by name, or, when minGrade is set, the
// students with grade >= minGrade ordered by grade descending.
func (r *repository) List(ctx context.Context, minGrade *int) ([]Student, error) {
	start := time.Now()
	students := make([]Student, 0)

	q := r.db.NewSelect().Model(&students)
	if minGrade != nil {
		q = q.Where("grade >= ?", *minGrade).OrderExpr("grade DESC, id ASC")
	} else {
		q = q.OrderExpr("name ASC, id ASC")
	}
	err := q.Scan(ctx)

	r.metrics.RecordQuery(ctx, "select", "students", time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Student, error) {
	start := time.Now()
	student := new(Student)
	err := r.db.NewSelect().Model(student).Where("id = ?", id).Scan(ctx)

	r.metrics.RecordQuery(ctx, "select", "students", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("get student %d: %w", id, err)
	}
	return student, nil
}

// Create inserts a student and returns the id assigned by the engine.
// created_at is filled by the column default.
func (r *repository) Create(ctx context.Context, in Input) (int64, error) {
	student := fromInput(in)

	start := time.Now()
	res, err := r.db.NewInsert().
		Model(student).
		Column("name", "email", "grade").
		Exec(ctx)

	r.metrics.RecordQuery(ctx, "insert", "students", time.Since(start), err)

	if err != nil {
		return 0, classifyWriteError("create student", err)
	}
	// bun fills the pk itself when the dialect returns it
	if student.ID == 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("create student: %w", err)
		}
		student.ID = id
	}
	return student.ID, nil
}

// Update overwrites name, email and grade. id and created_at are never touched.
func (r *repository) Update(ctx context.Context, id int64, in Input) error {
	student := fromInput(in)
	student.ID = id

	start := time.Now()
	result, err := r.db.NewUpdate().
		Model(student).
		Column("name", "email", "grade").
		WherePK().
		Exec(ctx)

	r.metrics.RecordQuery(ctx, "update", "students", time.Since(start), err)

	if err != nil {
		return classifyWriteError("update student", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if rowsAffected == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// Delete reports whether a row was removed. A missing id is not an error.
func (r *repository) Delete(ctx context.Context, id int64) (bool, error) {
	start := time.Now()
	student := &Student{ID: id}
	result, err := r.db.NewDelete().Model(student).WherePK().Exec(ctx)

	r.metrics.RecordQuery(ctx, "delete", "students", time.Since(start), err)

	if err != nil {
		return false, fmt.Errorf("delete student %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete student %d: %w", id, err)
	}
	return rowsAffected > 0, nil
}

func (r *repository) Statistics(ctx context.Context) (*Statistics, error) {
	start := time.Now()
	stats := new(Statistics)
	err := r.db.NewRaw(statisticsQuery).Scan(ctx, stats)

	r.metrics.RecordQuery(ctx, "aggregate", "students", time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("student statistics: %w", err)
	}
	return stats, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	start := time.Now()
	count, err := r.db.NewSelect().Model((*Student)(nil)).Count(ctx)

	r.metrics.RecordQuery(ctx, "count", "students", time.Since(start), err)

	if err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}

func fromInput(in Input) *studentRow {
	return &studentRow{Name: in.Name, Email: in.Email, Grade: in.Grade}
}

// classifyWriteError maps engine constraint violations onto the domain errors.
// The UNIQUE constraint only exists on email, the CHECK only on grade, and the
// only column a write can leave NULL is grade.
func classifyWriteError(op string, err error) error {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return ErrDuplicateEmail
		case sqlite3lib.SQLITE_CONSTRAINT_CHECK:
			return ErrInvalidGrade
		case sqlite3lib.SQLITE_CONSTRAINT_NOTNULL:
			return &MissingFieldError{Field: "grade"}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
