package student

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fenix011/student-management-API-c6e/internal/events"
	"github.com/fenix011/student-management-API-c6e/internal/metrics"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrMissingField    = errors.New("missing required field")
	ErrInvalidGrade    = errors.New("grade must be between 0 and 100")
	ErrDuplicateEmail  = errors.New("email already exists")
)

type Service interface {
	GetAllStudents(ctx context.Context, minGrade *int) ([]Student, error)
	GetStudentByID(ctx context.Context, id int64) (*Student, error)
	CreateStudent(ctx context.Context, in Input) (int64, error)
	UpdateStudent(ctx context.Context, id int64, in Input) error
	DeleteStudent(ctx context.Context, id int64) (bool, error)
	GetStatistics(ctx context.Context) (*Statistics, error)
	CountStudents(ctx context.Context) (int, error)
}

type service struct {
	repo      Repository
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &service{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *service) GetAllStudents(ctx context.Context, minGrade *int) ([]Student, error) {
	return s.repo.List(ctx, minGrade)
}

func (s *service) GetStudentByID(ctx context.Context, id int64) (*Student, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) CreateStudent(ctx context.Context, in Input) (int64, error) {
	if err := s.validate(ctx, in); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, in)
	if err != nil {
		return 0, err
	}

	s.metrics.RecordStudentCreated(ctx)
	s.publish(ctx, events.StudentCreated, id, &in)
	return id, nil
}

func (s *service) UpdateStudent(ctx context.Context, id int64, in Input) error {
	if err := s.validate(ctx, in); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, in); err != nil {
		return err
	}

	s.metrics.RecordStudentUpdated(ctx)
	s.publish(ctx, events.StudentUpdated, id, &in)
	return nil
}

func (s *service) DeleteStudent(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}

	s.metrics.RecordStudentDeleted(ctx)
	s.publish(ctx, events.StudentDeleted, id, nil)
	return true, nil
}

func (s *service) GetStatistics(ctx context.Context) (*Statistics, error) {
	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordStatisticsViewed(ctx)
	return stats, nil
}

func (s *service) CountStudents(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *service) validate(ctx context.Context, in Input) error {
	err := ValidateInput(in)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrMissingField):
		s.metrics.RecordValidationFailure(ctx, "missing_field")
	default:
		s.metrics.RecordValidationFailure(ctx, "invalid_grade")
	}
	return err
}

// publish never fails the caller: the row is already committed.
func (s *service) publish(ctx context.Context, typ events.Type, id int64, in *Input) {
	event := events.Event{
		Type:       typ,
		StudentID:  id,
		OccurredAt: s.now().UTC(),
	}
	if in != nil {
		event.Name = in.Name
		event.Email = in.Email
		event.Grade = in.Grade
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish student event", "type", typ, "id", id, "error", err)
	}
}
