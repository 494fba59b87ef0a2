package testnats

import (
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
)

// URLEnv names the variable pointing integration tests at a running NATS
// server, e.g. nats://localhost:4222.
const URLEnv = "TEST_NATS_URL"

type Server struct {
	URL string
}

// Setup returns the NATS server configured through TEST_NATS_URL and skips
// the test when none is configured.
//
// Usage:
//
//	func TestPublish(t *testing.T) {
//	    server := testnats.Setup(t)
//	    msgs := server.Subscribe(t, "students.events")
//	    // ... publish to server.URL
//	}
func Setup(t *testing.T) *Server {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping NATS integration test in short mode")
	}

	url := os.Getenv(URLEnv)
	if url == "" {
		t.Skipf("%s not set", URLEnv)
	}

	return &Server{URL: url}
}

func (s *Server) Connect(t *testing.T) *nats.Conn {
	t.Helper()

	conn, err := nats.Connect(s.URL, nats.Timeout(2*time.Second))
	require.NoError(t, err)

	t.Cleanup(func() { conn.Close() })

	return conn
}

// Subscribe delivers every message on subject to the returned channel. The
// subscription is flushed before returning so nothing published afterwards
// is missed.
func (s *Server) Subscribe(t *testing.T, subject string) <-chan *nats.Msg {
	t.Helper()

	conn := s.Connect(t)
	msgs := make(chan *nats.Msg, 16)

	sub, err := conn.ChanSubscribe(subject, msgs)
	require.NoError(t, err)
	require.NoError(t, conn.Flush())

	t.Cleanup(func() { _ = sub.Unsubscribe() })

	return msgs
}
