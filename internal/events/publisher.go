package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/fenix011/student-management-API-c6e/internal/config"
)

type Type string

const (
	StudentCreated Type = "student.created"
	StudentUpdated Type = "student.updated"
	StudentDeleted Type = "student.deleted"
)

// Event is the JSON payload published after a student mutation commits.
type Event struct {
	Type       Type      `json:"type"`
	StudentID  int64     `json:"student_id"`
	Name       string    `json:"name,omitempty"`
	Email      string    `json:"email,omitempty"`
	Grade      *int      `json:"grade,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers events to a message broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// New builds the publisher selected by cfg.Driver. A broker that cannot be
// reached at startup is logged and replaced by Noop.
func New(cfg config.EventsConfig, logger *slog.Logger) Publisher {
	switch cfg.Driver {
	case "nats":
		p, err := NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject, logger)
		if err != nil {
			logger.Warn("failed to initialize NATS publisher", "error", err)
			return Noop{}
		}
		return p
	case "kafka":
		p, err := NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			logger.Warn("failed to initialize kafka publisher", "error", err)
			return Noop{}
		}
		return p
	case "", "none":
		return Noop{}
	default:
		logger.Warn("unknown events driver, events disabled", "driver", cfg.Driver)
		return Noop{}
	}
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

func (Noop) Close() error { return nil }
