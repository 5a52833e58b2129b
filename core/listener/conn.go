package listener

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"sync"
	"syscall"
	"time"

	"hotspot-control/core/cleanup"
	"hotspot-control/core/logger"
	"hotspot-control/core/protocol"
	"hotspot-control/core/router"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// State is a connection protocol state.
type State int

const (
	StateReadingRequestLine State = iota
	StateReadingHeaders
	StateReadingBody
	StateRouting
	StateWritingResponse
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateReadingRequestLine:
		return "reading-request-line"
	case StateReadingHeaders:
		return "reading-headers"
	case StateReadingBody:
		return "reading-body"
	case StateRouting:
		return "routing"
	case StateWritingResponse:
		return "writing-response"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

type closeWriter interface {
	CloseWrite() error
}

type closeReader interface {
	CloseRead() error
}

type readerView struct {
	*bufio.Reader
	closed bool
}

func (r *readerView) Close() error {
	if !r.closed {
		r.closed = true
		r.Reader.Reset(eofReader{})
	}
	return nil
}

type writerView struct {
	*bufio.Writer
	closed bool
}

func (w *writerView) Close() error {
	if !w.closed {
		w.closed = true
		w.Writer.Reset(io.Discard)
	}
	return nil
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

// conn serves a single request on an accepted socket.
type conn struct {
	raw    net.Conn
	srv    *Server
	rayID  string
	logger *zap.Logger

	reader *readerView
	writer *writerView

	acceptedAt time.Time
	state      State
	headOnly   bool

	teardownOnce sync.Once
	teardownErr  error
}

func newConn(raw net.Conn, srv *Server) *conn {
	rayID := uuid.NewString()
	return &conn{
		raw:        raw,
		srv:        srv,
		rayID:      rayID,
		logger:     logger.WithRayID(srv.logger, rayID),
		reader:     &readerView{Reader: bufio.NewReader(raw)},
		writer:     &writerView{Writer: bufio.NewWriter(raw)},
		acceptedAt: time.Now(),
	}
}

// serve runs the state machine. ctx is cancelled when the server forces
// connections closed; the socket deadline is then expired to unblock I/O.
func (c *conn) serve(ctx context.Context) {
	stop := context.AfterFunc(ctx, func() {
		_ = c.raw.SetDeadline(time.Now())
	})
	defer stop()
	defer c.teardown()

	if err := c.raw.SetReadDeadline(c.acceptedAt.Add(c.srv.cfg.ReadTimeout)); err != nil {
		c.fail("Failed to set read deadline", err)
		return
	}

	resp := c.process(ctx)
	if resp == nil {
		return
	}
	c.write(resp)
}

// process reads the request and routes it. A nil response closes silently.
func (c *conn) process(ctx context.Context) *protocol.Response {
	c.state = StateReadingRequestLine
	req, err := protocol.ReadRequestLine(c.reader.Reader)
	if err != nil {
		return c.readFailed(ctx, err)
	}
	c.headOnly = req.Method == http.MethodHead

	c.state = StateReadingHeaders
	if err := protocol.ReadHeaders(c.reader.Reader, req); err != nil {
		return c.readFailed(ctx, err)
	}

	c.state = StateReadingBody
	if err := protocol.ReadBody(c.reader.Reader, req); err != nil {
		return c.readFailed(ctx, err)
	}

	c.state = StateRouting
	return c.route(ctx, req)
}

func (c *conn) route(ctx context.Context, req *protocol.Request) (resp *protocol.Response) {
	defer func() {
		if r := recover(); r != nil {
			c.srv.stats.errors.Add(1)
			c.logger.Error("Routing panicked", zap.Any("panic", r), zap.String("path", req.Path))
			resp = router.InternalError()
		}
	}()

	rc := router.NewContext(ctx, req, c.rayID, c.raw.RemoteAddr().String(), c.logger)
	resp = c.srv.handler.Serve(rc)
	if resp == nil {
		resp = router.InternalError()
	}
	return resp
}

func (c *conn) readFailed(ctx context.Context, err error) *protocol.Response {
	switch {
	case errors.Is(err, protocol.ErrEmpty):
		return nil
	case isTimeout(err) || ctx.Err() != nil:
		c.fail("Request read timed out", err)
		return nil
	case errors.Is(err, protocol.ErrTooLarge) && c.state == StateReadingBody:
		c.fail("Request body too large", err)
		return router.TooLarge()
	case errors.Is(err, protocol.ErrMalformed), errors.Is(err, protocol.ErrTooLarge):
		c.fail("Malformed request", err)
		return router.BadRequest()
	default:
		c.fail("Request read failed", err)
		return nil
	}
}

func (c *conn) write(resp *protocol.Response) {
	c.state = StateWritingResponse
	if err := c.raw.SetWriteDeadline(time.Now().Add(c.srv.cfg.WriteTimeout)); err != nil {
		c.fail("Failed to set write deadline", err)
		return
	}
	if err := resp.Write(c.writer.Writer, c.headOnly); err != nil {
		c.fail("Response write failed", err)
		return
	}
	c.srv.stats.served.Add(1)
}

// fail counts a per-connection error. These never escape the connection.
func (c *conn) fail(msg string, err error) {
	c.srv.stats.errors.Add(1)
	c.logger.Debug(msg, zap.Stringer("state", c.state), zap.Error(err))
}

// teardown releases the connection exactly once.
func (c *conn) teardown() error {
	c.teardownOnce.Do(func() {
		c.state = StateClosing
		c.teardownErr = cleanup.New(c.logger).
			FailureLevel(zapcore.DebugLevel).
			Add("shutdown output", func() error {
				if cw, ok := c.raw.(closeWriter); ok {
					return ignoreClosed(cw.CloseWrite())
				}
				return nil
			}).
			Add("shutdown input", func() error {
				if cr, ok := c.raw.(closeReader); ok {
					return ignoreClosed(cr.CloseRead())
				}
				return nil
			}).
			Add("writer", c.writer.Close).
			Add("reader", c.reader.Close).
			Add("socket", c.raw.Close).
			Run()
		if c.teardownErr != nil {
			c.srv.stats.errors.Add(1)
		}
	})
	return c.teardownErr
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// ignoreClosed drops errors from half-closing a socket the peer already reset.
func ignoreClosed(err error) error {
	if err == nil || errors.Is(err, net.ErrClosed) || errors.Is(err, syscall.ENOTCONN) {
		return nil
	}
	return err
}
