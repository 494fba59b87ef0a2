package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fenix011/student-management-API-c6e/internal/config"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleEvent() Event {
	grade := 92
	return Event{
		Type:       StudentCreated,
		StudentID:  42,
		Name:       "Alice Johnson",
		Email:      "alice@school.edu",
		Grade:      &grade,
		OccurredAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

type fakeNATSConn struct {
	published []*nats.Msg
	err       error
	drained   bool
}

func (f *fakeNATSConn) PublishMsg(msg *nats.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeNATSConn) Drain() error {
	f.drained = true
	return nil
}

func TestNATSPublisher(t *testing.T) {
	t.Run("Publish_Success", func(t *testing.T) {
		conn := &fakeNATSConn{}
		p := newNATSPublisher(conn, "students.events", discardLogger())

		require.NoError(t, p.Publish(context.Background(), sampleEvent()))
		require.Len(t, conn.published, 1)

		msg := conn.published[0]
		assert.Equal(t, "students.events", msg.Subject)
		assert.Equal(t, "student.created", msg.Header.Get("Event-Type"))

		var decoded Event
		require.NoError(t, json.Unmarshal(msg.Data, &decoded))
		assert.Equal(t, int64(42), decoded.StudentID)
		assert.Equal(t, "alice@school.edu", decoded.Email)
		require.NotNil(t, decoded.Grade)
		assert.Equal(t, 92, *decoded.Grade)
	})

	t.Run("Publish_Error", func(t *testing.T) {
		conn := &fakeNATSConn{err: nats.ErrConnectionClosed}
		p := newNATSPublisher(conn, "students.events", discardLogger())

		err := p.Publish(context.Background(), sampleEvent())
		assert.ErrorIs(t, err, nats.ErrConnectionClosed)
	})

	t.Run("Close_Drains", func(t *testing.T) {
		conn := &fakeNATSConn{}
		p := newNATSPublisher(conn, "students.events", discardLogger())

		require.NoError(t, p.Close())
		assert.True(t, conn.drained)
	})
}

func TestKafkaPublisher(t *testing.T) {
	t.Run("Publish_Success", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, NewKafkaConfig())
		producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
			var decoded Event
			if err := json.Unmarshal(val, &decoded); err != nil {
				return err
			}
			if decoded.Type != StudentCreated || decoded.StudentID != 42 {
				return errors.New("unexpected event payload")
			}
			return nil
		})

		p := NewKafkaPublisherWithProducer(producer, "students.events", discardLogger())
		require.NoError(t, p.Publish(context.Background(), sampleEvent()))
		require.NoError(t, p.Close())
	})

	t.Run("Publish_Error", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, NewKafkaConfig())
		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

		p := NewKafkaPublisherWithProducer(producer, "students.events", discardLogger())
		err := p.Publish(context.Background(), sampleEvent())
		assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
		require.NoError(t, p.Close())
	})
}

func TestNew_FallsBackToNoop(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.EventsConfig
	}{
		{name: "none", cfg: config.EventsConfig{Driver: "none"}},
		{name: "empty", cfg: config.EventsConfig{}},
		{name: "unknown", cfg: config.EventsConfig{Driver: "carrier-pigeon"}},
		{name: "unreachable nats", cfg: config.EventsConfig{
			Driver: "nats",
			NATS:   config.NATSConfig{URL: "nats://127.0.0.1:1", Subject: "students.events"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg, discardLogger())
			assert.IsType(t, Noop{}, p)
			assert.NoError(t, p.Publish(context.Background(), sampleEvent()))
			assert.NoError(t, p.Close())
		})
	}
}
