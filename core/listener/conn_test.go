package listener

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"hotspot-control/core/protocol"
	"hotspot-control/core/router"
	"hotspot-control/core/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingConn is an in-memory connection that records teardown calls.
type recordingConn struct {
	mu       sync.Mutex
	in       io.Reader
	readErr  error
	out      bytes.Buffer
	ops      []string
	failStep string
}

func newRecordingConn(request string) *recordingConn {
	return &recordingConn{in: strings.NewReader(request)}
}

func (c *recordingConn) record(op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, op)
	if op == c.failStep {
		return errors.New(op + " failed")
	}
	return nil
}

func (c *recordingConn) Read(b []byte) (int, error) {
	if c.readErr != nil {
		return 0, c.readErr
	}
	return c.in.Read(b)
}

func (c *recordingConn) Write(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.Write(b)
}

func (c *recordingConn) CloseWrite() error { return c.record("close-write") }
func (c *recordingConn) CloseRead() error  { return c.record("close-read") }
func (c *recordingConn) Close() error      { return c.record("close") }

func (c *recordingConn) LocalAddr() net.Addr              { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999} }
func (c *recordingConn) RemoteAddr() net.Addr             { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40000} }
func (c *recordingConn) SetDeadline(time.Time) error      { return nil }
func (c *recordingConn) SetReadDeadline(time.Time) error  { return nil }
func (c *recordingConn) SetWriteDeadline(time.Time) error { return nil }

func (c *recordingConn) Ops() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.ops...)
}

func (c *recordingConn) Output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.String()
}

func testServer(t *testing.T) *Server {
	t.Helper()
	r := router.New(server.Config{}, zap.NewNop())
	r.Get("/api/status", func(c *router.Context) *protocol.Response {
		return protocol.JSON(http.StatusOK, map[string]bool{"success": true})
	})
	r.Post("/api/echo", func(c *router.Context) *protocol.Response {
		return protocol.Text(http.StatusOK, string(c.Request.Body))
	})
	r.Get("/api/panic", func(c *router.Context) *protocol.Response {
		panic("boom")
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := New(ln, server.Config{Workers: 2, Queue: 4}, r, zap.NewNop())
	t.Cleanup(func() {
		_ = s.Close()
		_ = s.Drain(time.Second, time.Second)
	})
	return s
}

func TestConn_ServesAndTearsDownInOrder(t *testing.T) {
	s := testServer(t)
	rc := newRecordingConn("GET /api/status HTTP/1.1\r\nHost: x\r\n\r\n")

	c := newConn(rc, s)
	c.serve(context.Background())

	out := rc.Output()
	assert.True(t, strings.HasPrefix(out, "HTTP/1.1 200 OK\r\n"), out)
	assert.Contains(t, out, "Access-Control-Allow-Origin: *\r\n")
	assert.Equal(t, []string{"close-write", "close-read", "close"}, rc.Ops())
	assert.True(t, c.writer.closed)
	assert.True(t, c.reader.closed)
	assert.Equal(t, StateClosing, c.state)

	require.NoError(t, c.teardown())
	assert.Equal(t, []string{"close-write", "close-read", "close"}, rc.Ops(), "teardown runs once")
}

func TestConn_TeardownStepFailureDoesNotSkipOthers(t *testing.T) {
	s := testServer(t)
	rc := newRecordingConn("")
	rc.failStep = "close-write"

	c := newConn(rc, s)
	err := c.teardown()

	assert.ErrorContains(t, err, "close-write failed")
	assert.Equal(t, []string{"close-write", "close-read", "close"}, rc.Ops())
	assert.True(t, c.writer.closed)
	assert.True(t, c.reader.closed)
}

func TestConn_TimeoutClosesWithoutResponse(t *testing.T) {
	s := testServer(t)
	rc := newRecordingConn("")
	rc.readErr = os.ErrDeadlineExceeded

	newConn(rc, s).serve(context.Background())

	assert.Empty(t, rc.Output())
	assert.Equal(t, []string{"close-write", "close-read", "close"}, rc.Ops())
	assert.Equal(t, int64(1), s.Stats().Errors)
}

func TestConn_ErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		request string
		status  string
	}{
		{"Malformed Line", "NONSENSE\r\n\r\n", "HTTP/1.1 400 Bad Request"},
		{"Unsupported Method", "BREW /pot HTTP/1.1\r\n\r\n", "HTTP/1.1 400 Bad Request"},
		{"Body Too Large", "POST /api/echo HTTP/1.1\r\nContent-Length: 2000000\r\n\r\n", "HTTP/1.1 413 Request Entity Too Large"},
		{"Handler Panic", "GET /api/panic HTTP/1.1\r\n\r\n", "HTTP/1.1 500 Internal Server Error"},
		{"Unknown Path", "GET /nope HTTP/1.1\r\n\r\n", "HTTP/1.1 404 Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testServer(t)
			rc := newRecordingConn(tt.request)

			newConn(rc, s).serve(context.Background())

			assert.True(t, strings.HasPrefix(rc.Output(), tt.status+"\r\n"), rc.Output())
			assert.Contains(t, rc.Output(), "Access-Control-Allow-Origin: *")
			assert.Equal(t, []string{"close-write", "close-read", "close"}, rc.Ops())
		})
	}
}

func TestConn_BodyAndHead(t *testing.T) {
	s := testServer(t)

	rc := newRecordingConn("POST /api/echo HTTP/1.1\r\nContent-Length: 4\r\n\r\nping")
	newConn(rc, s).serve(context.Background())
	assert.True(t, strings.HasSuffix(rc.Output(), "\r\n\r\nping"))

	rc = newRecordingConn("HEAD /api/status HTTP/1.1\r\n\r\n")
	newConn(rc, s).serve(context.Background())
	assert.Contains(t, rc.Output(), "Content-Length: 16\r\n")
	assert.True(t, strings.HasSuffix(rc.Output(), "\r\n\r\n"))
}

func TestConn_EmptyRequestClosesSilently(t *testing.T) {
	s := testServer(t)
	rc := newRecordingConn("")

	newConn(rc, s).serve(context.Background())

	assert.Empty(t, rc.Output())
	assert.Equal(t, int64(0), s.Stats().Errors)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "reading-request-line", StateReadingRequestLine.String())
	assert.Equal(t, "closing", StateClosing.String())
	assert.Equal(t, "unknown", State(99).String())
}
