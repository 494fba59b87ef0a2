package student_test

import (
	"errors"
	"testing"

	"github.com/fenix011/student-management-API-c6e/internal/student"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name      string
		input     student.Input
		wantErr   error
		wantField string
	}{
		{
			name:  "valid",
			input: student.Input{Name: "Alice", Email: "alice@school.edu", Grade: intPtr(92)},
		},
		{
			name:  "grade zero is valid",
			input: student.Input{Name: "Zed", Email: "zed@school.edu", Grade: intPtr(0)},
		},
		{
			name:  "grade hundred is valid",
			input: student.Input{Name: "Max", Email: "max@school.edu", Grade: intPtr(100)},
		},
		{
			name:      "missing name",
			input:     student.Input{Email: "a@school.edu", Grade: intPtr(50)},
			wantErr:   student.ErrMissingField,
			wantField: "name",
		},
		{
			name:      "missing email",
			input:     student.Input{Name: "A", Grade: intPtr(50)},
			wantErr:   student.ErrMissingField,
			wantField: "email",
		},
		{
			name:      "missing grade",
			input:     student.Input{Name: "A", Email: "a@school.edu"},
			wantErr:   student.ErrMissingField,
			wantField: "grade",
		},
		{
			name:      "first missing field wins",
			input:     student.Input{Grade: intPtr(500)},
			wantErr:   student.ErrMissingField,
			wantField: "name",
		},
		{
			name:    "grade below range",
			input:   student.Input{Name: "A", Email: "a@school.edu", Grade: intPtr(-1)},
			wantErr: student.ErrInvalidGrade,
		},
		{
			name:    "grade above range",
			input:   student.Input{Name: "A", Email: "a@school.edu", Grade: intPtr(101)},
			wantErr: student.ErrInvalidGrade,
		},
		{
			name:  "email format is not checked",
			input: student.Input{Name: "A", Email: "not-an-email", Grade: intPtr(70)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := student.ValidateInput(tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)

			if tt.wantField != "" {
				var missing *student.MissingFieldError
				if assert.True(t, errors.As(err, &missing)) {
					assert.Equal(t, tt.wantField, missing.Field)
					assert.Equal(t, "missing required field: "+tt.wantField, err.Error())
				}
			}
		})
	}
}
