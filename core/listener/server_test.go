package listener

import (
	"bufio"
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"testing"
	"time"

	"hotspot-control/core/protocol"
	"hotspot-control/core/router"
	"hotspot-control/core/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func startServer(t *testing.T, cfg server.Config, h Handler) *Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := New(ln, cfg, h, zap.NewNop())
	s.Start()
	t.Cleanup(func() {
		_ = s.Close()
		_ = s.Drain(time.Second, time.Second)
	})
	return s
}

func url(s *Server, path string) string {
	return "http://127.0.0.1:" + strconv.Itoa(s.Port()) + path
}

func statusRouter() *router.Router {
	r := router.New(server.Config{}, zap.NewNop())
	r.Get("/api/status", func(c *router.Context) *protocol.Response {
		return protocol.JSON(http.StatusOK, map[string]bool{"success": true})
	})
	return r
}

func TestServer_ConcurrentRequests(t *testing.T) {
	s := startServer(t, server.Config{Workers: 4, Queue: 8, ReadTimeout: 2 * time.Second}, statusRouter())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := &http.Client{Timeout: 2 * time.Second}
			resp, err := client.Get(url(s, "/api/status"))
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		}()
	}
	wg.Wait()

	assert.Eventually(t, func() bool { return s.Stats().Served == 5 }, time.Second, 10*time.Millisecond)
}

func TestServer_CloseRefusesConnections(t *testing.T) {
	s := startServer(t, server.Config{Workers: 1, Queue: 1}, statusRouter())
	addr := s.Addr().String()

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := net.DialTimeout("tcp", addr, 200*time.Millisecond)
	assert.Error(t, err)
}

type blockingHandler struct {
	entered chan struct{}
	release chan struct{}
	sawDone chan struct{}
}

func (h *blockingHandler) Serve(c *router.Context) *protocol.Response {
	h.entered <- struct{}{}
	select {
	case <-h.release:
	case <-c.Context().Done():
		close(h.sawDone)
	}
	return protocol.Text(http.StatusOK, "done")
}

func newBlockingHandler() *blockingHandler {
	return &blockingHandler{
		entered: make(chan struct{}, 8),
		release: make(chan struct{}),
		sawDone: make(chan struct{}),
	}
}

func sendRequest(t *testing.T, addr string) net.Conn {
	t.Helper()
	c, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	_, err = io.WriteString(c, "GET /api/status HTTP/1.1\r\n\r\n")
	require.NoError(t, err)
	return c
}

func TestServer_SaturatedPoolDropsConnections(t *testing.T) {
	h := newBlockingHandler()
	s := startServer(t, server.Config{Workers: 1, Queue: 1}, h)

	first := sendRequest(t, s.Addr().String())
	defer first.Close()
	<-h.entered

	queued := sendRequest(t, s.Addr().String())
	defer queued.Close()
	require.Eventually(t, func() bool { return s.Stats().Pool.Queued == 1 }, time.Second, 5*time.Millisecond)

	dropped := sendRequest(t, s.Addr().String())
	defer dropped.Close()

	_ = dropped.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err := bufio.NewReader(dropped).ReadByte()
	assert.Error(t, err, "dropped connection is closed without a response")
	assert.Eventually(t, func() bool { return s.Stats().Dropped == 1 }, time.Second, 10*time.Millisecond)

	close(h.release)
}

func TestServer_DrainForcesStuckConnections(t *testing.T) {
	h := newBlockingHandler()
	s := startServer(t, server.Config{Workers: 1, Queue: 1}, h)

	c := sendRequest(t, s.Addr().String())
	defer c.Close()
	<-h.entered

	require.NoError(t, s.Close())
	start := time.Now()
	require.NoError(t, s.Drain(50*time.Millisecond, time.Second))

	<-h.sawDone
	assert.Less(t, time.Since(start), time.Second)

	_ = c.SetReadDeadline(time.Now().Add(time.Second))
	_, err := io.ReadAll(c)
	assert.NoError(t, err, "forced connection is still torn down cleanly")
}

func TestServer_DrainLetsInFlightFinish(t *testing.T) {
	h := newBlockingHandler()
	s := startServer(t, server.Config{Workers: 1, Queue: 1}, h)

	c := sendRequest(t, s.Addr().String())
	defer c.Close()
	<-h.entered

	require.NoError(t, s.Close())
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(h.release)
	}()
	require.NoError(t, s.Drain(time.Second, time.Second))

	resp, err := http.ReadResponse(bufio.NewReader(c), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_AcceptRateLimit(t *testing.T) {
	s := startServer(t, server.Config{Workers: 2, Queue: 2, AcceptRate: 0.001, AcceptBurst: 1}, statusRouter())

	client := &http.Client{Timeout: time.Second}
	resp, err := client.Get(url(s, "/api/status"))
	require.NoError(t, err)
	resp.Body.Close()

	_, err = client.Get(url(s, "/api/status"))
	assert.Error(t, err)
	assert.GreaterOrEqual(t, s.Stats().Dropped, int64(1))
}

func TestServer_ServeConn(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := New(ln, server.Config{}, statusRouter(), nil)
	defer s.Close()

	client, srv := net.Pipe()
	go s.ServeConn(context.Background(), srv)

	_, err = io.WriteString(client, "GET /api/status HTTP/1.1\r\n\r\n")
	require.NoError(t, err)
	resp, err := http.ReadResponse(bufio.NewReader(client), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "close", resp.Header.Get("Connection"))
}

func TestServer_ZeroQueueServes(t *testing.T) {
	s := startServer(t, server.Config{Workers: 1, Queue: 0, ReadTimeout: 2 * time.Second}, statusRouter())

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(url(s, "/api/status"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, s.Stats().Dropped)
}

func TestServer_CloseWithoutStart(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	core, logs := observer.New(zapcore.WarnLevel)
	s := New(ln, server.Config{}, statusRouter(), zap.New(core))

	start := time.Now()
	require.NoError(t, s.Close())
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Zero(t, logs.FilterMessage("Accept loop did not exit in time").Len())

	// Start after Close must not launch a loop on the closed listener.
	s.Start()
	require.NoError(t, s.Drain(time.Second, time.Second))
}
