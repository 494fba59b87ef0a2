package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fenix011/student-management-API-c6e/internal/student"
)

const createdAtLayout = "2006-01-02 15:04:05"

var (
	tableRule = strings.Repeat("=", 70)
	blockRule = strings.Repeat("=", 50)
)

type printer struct {
	out    io.Writer
	styles styles
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *printer) success(msg string) {
	p.printf("\n%s\n", p.styles.success.Render("✓ "+msg))
}

func (p *printer) failure(msg string) {
	p.printf("\n%s\n", p.styles.failure.Render("✗ "+msg))
}

// Student prints one record, or "Student not found" for nil.
func (p *printer) Student(s *student.Student) {
	if s == nil {
		p.printf("Student not found\n")
		return
	}

	p.printf("\nID: %d\n", s.ID)
	p.printf("Name: %s\n", s.Name)
	p.printf("Email: %s\n", s.Email)
	p.printf("Grade: %d\n", s.Grade)
	p.printf("Created: %s\n", s.CreatedAt.UTC().Format(createdAtLayout))
}

func (p *printer) Table(students []student.Student) {
	if len(students) == 0 {
		p.printf("\nNo students found.\n")
		return
	}

	p.printf("\n%s\n", tableRule)
	p.printf("%-5s %-20s %-25s %-5s\n", "ID", "Name", "Email", "Grade")
	p.printf("%s\n", tableRule)
	for _, s := range students {
		p.printf("%-5d %-20s %-25s %-5d\n", s.ID, s.Name, s.Email, s.Grade)
	}
	p.printf("%s\n", tableRule)
}

func (p *printer) Statistics(stats *student.Statistics) {
	if stats == nil {
		p.printf("No statistics available\n")
		return
	}

	p.printf("\n%s\n", blockRule)
	p.printf("%s\n", p.styles.title.Render("GRADE STATISTICS"))
	p.printf("%s\n", blockRule)
	p.printf("Total Students: %d\n", stats.TotalStudents)
	if stats.AverageGrade != nil {
		p.printf("Average Grade: %.2f\n", *stats.AverageGrade)
	} else {
		p.printf("Average Grade: N/A\n")
	}
	p.printf("Highest Grade: %s\n", optionalGrade(stats.HighestGrade))
	p.printf("Lowest Grade: %s\n", optionalGrade(stats.LowestGrade))
	p.printf("\nGrade Distribution:\n")
	p.printf("  A (90-100): %d\n", stats.AStudents)
	p.printf("  B (80-89):  %d\n", stats.BStudents)
	p.printf("  C (70-79):  %d\n", stats.CStudents)
	p.printf("  Below 70:   %d\n", stats.FailingStudents)
	p.printf("%s\n", blockRule)
}

func optionalGrade(v *int) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *v)
}
