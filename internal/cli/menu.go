package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fenix011/student-management-API-c6e/internal/student"
)

// ErrDatabaseNotFound is returned by CheckDatabase when the students table
// cannot be read.
var ErrDatabaseNotFound = errors.New("database not found")

var errInvalidNumber = errors.New("please enter a whole number")

// Menu is the interactive line-oriented front end over student.Service.
type Menu struct {
	service student.Service
	in      *bufio.Scanner
	printer
}

func NewMenu(service student.Service, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		service: service,
		in:      bufio.NewScanner(in),
		printer: printer{out: out, styles: newStyles(out)},
	}
}

// CheckDatabase reports the row count, or ErrDatabaseNotFound with guidance
// to run the init command.
func (m *Menu) CheckDatabase(ctx context.Context) error {
	count, err := m.service.CountStudents(ctx)
	if err != nil {
		m.printf("Database not found! Please run: students init\n")
		return fmt.Errorf("%w: %v", ErrDatabaseNotFound, err)
	}
	m.printf("Database found with %d students\n", count)
	return nil
}

// Run loops until the user picks exit or input ends. Operation errors are
// printed and the loop continues.
func (m *Menu) Run(ctx context.Context) error {
	m.printf("\n%s\n", blockRule)
	m.printf("%s\n", m.styles.title.Render("STUDENT MANAGEMENT SYSTEM"))
	m.printf("%s\n", blockRule)

	for {
		m.printf("\n--- MENU ---\n")
		m.printf("1. View all students\n")
		m.printf("2. View statistics\n")
		m.printf("3. Search student by ID\n")
		m.printf("4. Filter by minimum grade\n")
		m.printf("5. Add new student\n")
		m.printf("6. Update student\n")
		m.printf("7. Delete student\n")
		m.printf("8. Exit\n")

		choice, ok := m.prompt("\nEnter your choice (1-8): ")
		if !ok || choice == "8" {
			m.printf("\nGoodbye!\n")
			return m.in.Err()
		}

		if err := m.dispatch(ctx, choice); err != nil {
			m.failure("Error: " + describe(err))
		}
	}
}

func (m *Menu) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		students, err := m.service.GetAllStudents(ctx, nil)
		if err != nil {
			return err
		}
		m.Table(students)
	case "2":
		stats, err := m.service.GetStatistics(ctx)
		if err != nil {
			return err
		}
		m.Statistics(stats)
	case "3":
		return m.showStudent(ctx)
	case "4":
		minGrade, err := m.promptInt("Enter minimum grade (0-100): ")
		if err != nil {
			return err
		}
		students, err := m.service.GetAllStudents(ctx, &minGrade)
		if err != nil {
			return err
		}
		m.Table(students)
	case "5":
		return m.addStudent(ctx)
	case "6":
		return m.updateStudent(ctx)
	case "7":
		return m.deleteStudent(ctx)
	default:
		m.failure("Invalid choice. Please try again.")
	}
	return nil
}

func (m *Menu) showStudent(ctx context.Context) error {
	id, err := m.promptInt("Enter student ID: ")
	if err != nil {
		return err
	}

	s, err := m.service.GetStudentByID(ctx, int64(id))
	if errors.Is(err, student.ErrStudentNotFound) {
		m.Student(nil)
		return nil
	}
	if err != nil {
		return err
	}
	m.Student(s)
	return nil
}

func (m *Menu) addStudent(ctx context.Context) error {
	name, _ := m.prompt("Enter student name: ")
	email, _ := m.prompt("Enter student email: ")
	grade, err := m.promptInt("Enter grade (0-100): ")
	if err != nil {
		return err
	}

	id, err := m.service.CreateStudent(ctx, student.Input{Name: name, Email: email, Grade: &grade})
	if err != nil {
		return err
	}
	m.success(fmt.Sprintf("Student added successfully with ID: %d", id))
	return nil
}

// updateStudent keeps the current value for any field left blank.
func (m *Menu) updateStudent(ctx context.Context) error {
	id, err := m.promptInt("Enter student ID to update: ")
	if err != nil {
		return err
	}

	current, err := m.service.GetStudentByID(ctx, int64(id))
	if errors.Is(err, student.ErrStudentNotFound) {
		m.printf("Student not found!\n")
		return nil
	}
	if err != nil {
		return err
	}
	m.Student(current)

	in := student.Input{Name: current.Name, Email: current.Email, Grade: &current.Grade}
	if name, _ := m.prompt(fmt.Sprintf("Enter new name [%s]: ", current.Name)); name != "" {
		in.Name = name
	}
	if email, _ := m.prompt(fmt.Sprintf("Enter new email [%s]: ", current.Email)); email != "" {
		in.Email = email
	}
	if raw, _ := m.prompt(fmt.Sprintf("Enter new grade [%d]: ", current.Grade)); raw != "" {
		grade, err := strconv.Atoi(raw)
		if err != nil {
			return errInvalidNumber
		}
		in.Grade = &grade
	}

	err = m.service.UpdateStudent(ctx, int64(id), in)
	if errors.Is(err, student.ErrStudentNotFound) {
		m.failure("Failed to update student")
		return nil
	}
	if err != nil {
		return err
	}
	m.success("Student updated successfully")
	return nil
}

func (m *Menu) deleteStudent(ctx context.Context) error {
	id, err := m.promptInt("Enter student ID to delete: ")
	if err != nil {
		return err
	}

	confirm, _ := m.prompt(fmt.Sprintf("Are you sure you want to delete student %d? (yes/no): ", id))
	if strings.ToLower(confirm) != "yes" {
		m.printf("%s\n", m.styles.muted.Render("Delete cancelled"))
		return nil
	}

	deleted, err := m.service.DeleteStudent(ctx, int64(id))
	if err != nil {
		return err
	}
	if deleted {
		m.success("Student deleted successfully")
	} else {
		m.failure("Student not found")
	}
	return nil
}

// prompt prints label and returns the next trimmed line. ok is false once
// input is exhausted.
func (m *Menu) prompt(label string) (string, bool) {
	m.printf("%s", label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) promptInt(label string) (int, error) {
	raw, _ := m.prompt(label)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errInvalidNumber
	}
	return v, nil
}

func describe(err error) string {
	var missing *student.MissingFieldError
	switch {
	case errors.As(err, &missing):
		return "Missing required field: " + missing.Field
	case errors.Is(err, student.ErrInvalidGrade):
		return "Grade must be between 0 and 100"
	case errors.Is(err, student.ErrDuplicateEmail):
		return "Email already exists"
	case errors.Is(err, student.ErrStudentNotFound):
		return "Student not found"
	default:
		return err.Error()
	}
}
