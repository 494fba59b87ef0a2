package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fenix011/student-management-API-c6e/testing/testnats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNATSPublisher_Integration(t *testing.T) {
	server := testnats.Setup(t)
	msgs := server.Subscribe(t, "students.events.test")

	p, err := NewNATSPublisher(server.URL, "students.events.test", discardLogger())
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))

	select {
	case msg := <-msgs:
		assert.Equal(t, "student.created", msg.Header.Get("Event-Type"))

		var decoded Event
		require.NoError(t, json.Unmarshal(msg.Data, &decoded))
		assert.Equal(t, int64(42), decoded.StudentID)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	require.NoError(t, p.Close())
}
