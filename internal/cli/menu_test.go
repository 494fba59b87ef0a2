package cli_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/fenix011/student-management-API-c6e/internal/cli"
	"github.com/fenix011/student-management-API-c6e/internal/db"
	"github.com/fenix011/student-management-API-c6e/internal/metrics"
	"github.com/fenix011/student-management-API-c6e/internal/student"
	"github.com/fenix011/student-management-API-c6e/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func script(lines ...string) io.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestMenu_Shared(t *testing.T) {
	sqlite := testdb.SetupSQLite(t)
	ctx := context.Background()

	service := student.NewService(student.NewRepository(sqlite.DB, metrics.NewMock()), nil, metrics.NewMock(), discardLogger())

	run := func(t *testing.T, in io.Reader) string {
		t.Helper()
		var out bytes.Buffer
		require.NoError(t, cli.NewMenu(service, in, &out).Run(ctx))
		return out.String()
	}

	reseed := func(t *testing.T) {
		t.Helper()
		testdb.CleanupTables(t, sqlite.DB, "students")
		_, err := db.Seed(ctx, sqlite.DB)
		require.NoError(t, err)
	}

	t.Run("CheckDatabase", func(t *testing.T) {
		reseed(t)

		var out bytes.Buffer
		require.NoError(t, cli.NewMenu(service, script(), &out).CheckDatabase(ctx))
		assert.Contains(t, out.String(), "Database found with 5 students")
	})

	t.Run("ListAll", func(t *testing.T) {
		reseed(t)

		out := run(t, script("1", "8"))
		assert.Contains(t, out, strings.Repeat("=", 70))
		assert.Contains(t, out, "ID    Name                 Email                     Grade")
		assert.Less(t, strings.Index(out, "Alice Johnson"), strings.Index(out, "Eve Adams"))
		assert.Contains(t, out, "Goodbye!")
	})

	t.Run("ListAll_Empty", func(t *testing.T) {
		testdb.CleanupTables(t, sqlite.DB, "students")

		out := run(t, script("1", "8"))
		assert.Contains(t, out, "No students found.")
	})

	t.Run("Statistics", func(t *testing.T) {
		reseed(t)

		out := run(t, script("2", "8"))
		assert.Contains(t, out, "Total Students: 5")
		assert.Contains(t, out, "Average Grade: 87.60")
		assert.Contains(t, out, "Highest Grade: 95")
		assert.Contains(t, out, "Lowest Grade: 78")
		assert.Contains(t, out, "A (90-100): 2")
		assert.Contains(t, out, "Below 70:   0")
	})

	t.Run("Statistics_Empty", func(t *testing.T) {
		testdb.CleanupTables(t, sqlite.DB, "students")

		out := run(t, script("2", "8"))
		assert.Contains(t, out, "Total Students: 0")
		assert.Contains(t, out, "Average Grade: N/A")
		assert.Contains(t, out, "Highest Grade: N/A")
	})

	t.Run("SearchByID", func(t *testing.T) {
		reseed(t)
		students, err := service.GetAllStudents(ctx, nil)
		require.NoError(t, err)

		out := run(t, script("3", formatID(students[0].ID), "8"))
		assert.Contains(t, out, "Name: Alice Johnson")
		assert.Contains(t, out, "Email: alice@school.edu")
		assert.Contains(t, out, "Grade: 92")
		assert.Contains(t, out, "Created: ")
	})

	t.Run("SearchByID_NotFound", func(t *testing.T) {
		reseed(t)

		out := run(t, script("3", "99999", "8"))
		assert.Contains(t, out, "Student not found")
	})

	t.Run("SearchByID_NotANumber", func(t *testing.T) {
		reseed(t)

		out := run(t, script("3", "abc", "8"))
		assert.Contains(t, out, "✗ Error: please enter a whole number")
		assert.Contains(t, out, "Goodbye!")
	})

	t.Run("FilterByMinGrade", func(t *testing.T) {
		reseed(t)

		out := run(t, script("4", "90", "8"))
		assert.Less(t, strings.Index(out, "Diana Prince"), strings.Index(out, "Alice Johnson"))
		assert.NotContains(t, out, "Bob Smith")
	})

	t.Run("AddStudent", func(t *testing.T) {
		testdb.CleanupTables(t, sqlite.DB, "students")

		out := run(t, script("5", "Frank Castle", "frank@school.edu", "73", "8"))
		assert.Contains(t, out, "✓ Student added successfully with ID:")

		count, err := service.CountStudents(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("AddStudent_Errors", func(t *testing.T) {
		reseed(t)

		out := run(t, script(
			"5", "Too High", "high@school.edu", "101",
			"5", "Alice Again", "alice@school.edu", "90",
			"5", "", "blank@school.edu", "50",
			"8",
		))
		assert.Contains(t, out, "✗ Error: Grade must be between 0 and 100")
		assert.Contains(t, out, "✗ Error: Email already exists")
		assert.Contains(t, out, "✗ Error: Missing required field: name")

		count, err := service.CountStudents(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})

	t.Run("UpdateStudent_BlankKeepsCurrent", func(t *testing.T) {
		testdb.CleanupTables(t, sqlite.DB, "students")
		grade := 64
		id, err := service.CreateStudent(ctx, student.Input{Name: "Grace", Email: "grace@school.edu", Grade: &grade})
		require.NoError(t, err)

		out := run(t, script("6", formatID(id), "", "", "81", "8"))
		assert.Contains(t, out, "Enter new name [Grace]: ")
		assert.Contains(t, out, "✓ Student updated successfully")

		got, err := service.GetStudentByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Grace", got.Name)
		assert.Equal(t, "grace@school.edu", got.Email)
		assert.Equal(t, 81, got.Grade)
	})

	t.Run("UpdateStudent_NotFound", func(t *testing.T) {
		testdb.CleanupTables(t, sqlite.DB, "students")

		out := run(t, script("6", "99999", "8"))
		assert.Contains(t, out, "Student not found!")

		count, err := service.CountStudents(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("DeleteStudent", func(t *testing.T) {
		reseed(t)
		students, err := service.GetAllStudents(ctx, nil)
		require.NoError(t, err)
		id := formatID(students[0].ID)

		out := run(t, script("7", id, "no", "7", id, "YES", "7", id, "yes", "8"))
		assert.Contains(t, out, "Delete cancelled")
		assert.Contains(t, out, "✓ Student deleted successfully")
		assert.Contains(t, out, "✗ Student not found")

		count, err := service.CountStudents(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})

	t.Run("InvalidChoice", func(t *testing.T) {
		out := run(t, script("9", "8"))
		assert.Contains(t, out, "✗ Invalid choice. Please try again.")
	})

	t.Run("EndOfInput", func(t *testing.T) {
		out := run(t, strings.NewReader(""))
		assert.Contains(t, out, "Goodbye!")
	})
}

func TestMenu_CheckDatabase_Missing(t *testing.T) {
	database, err := db.NewWithDSN("file:" + t.TempDir() + "/empty.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(database) })

	service := student.NewService(student.NewRepository(database, metrics.NewMock()), nil, metrics.NewMock(), discardLogger())

	var out bytes.Buffer
	err = cli.NewMenu(service, script(), &out).CheckDatabase(context.Background())
	assert.ErrorIs(t, err, cli.ErrDatabaseNotFound)
	assert.Contains(t, out.String(), "Database not found! Please run: students init")
}
