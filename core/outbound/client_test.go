package outbound

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"hotspot-control/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func setupSQLiteCache(t *testing.T, ttl time.Duration) *ResponseCache {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	cache, err := NewResponseCache(db, ttl)
	require.NoError(t, err)
	return cache
}

func countingServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestClient_Get(t *testing.T) {
	srv, hits := countingServer(t)
	c := New(Config{}, zap.NewNop())
	defer c.Close(time.Second)

	resp, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.ContentType)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
	assert.False(t, resp.Cached)
	assert.Equal(t, int32(1), hits.Load())
	assert.Nil(t, c.Cache())
}

func TestClient_GetUsesCache(t *testing.T) {
	srv, hits := countingServer(t)
	c := New(Config{}, zap.NewNop()).WithCache(setupSQLiteCache(t, time.Minute))
	defer c.Close(time.Second)

	_, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	resp, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.True(t, resp.Cached)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_CacheFromConfig(t *testing.T) {
	cfg := Config{Cache: CacheConfig{
		Enabled:  true,
		TTL:      time.Minute,
		Database: database.Config{Driver: database.DriverSQLite, Name: ":memory:"},
	}}
	c := New(cfg, zap.NewNop())
	require.NotNil(t, c.Cache())
	assert.NoError(t, c.Close(time.Second))

	cfg.Cache.Database = database.Config{Driver: "unknown"}
	c = New(cfg, zap.NewNop())
	assert.Nil(t, c.Cache())
	assert.NoError(t, c.Close(time.Second))
}

func TestClient_Go(t *testing.T) {
	srv, _ := countingServer(t)
	c := New(Config{Workers: 1, Queue: 4}, zap.NewNop())
	defer c.Close(time.Second)

	result := make(chan *Response, 1)
	require.NoError(t, c.Go(context.Background(), srv.URL, func(resp *Response, err error) {
		assert.NoError(t, err)
		result <- resp
	}))

	select {
	case resp := <-result:
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	case <-time.After(2 * time.Second):
		t.Fatal("async request did not complete")
	}
}

func TestClient_Close(t *testing.T) {
	srv, _ := countingServer(t)
	cache := setupSQLiteCache(t, time.Minute)
	c := New(Config{}, zap.NewNop()).WithCache(cache)

	require.NoError(t, c.Close(time.Second))
	assert.NoError(t, c.Close(time.Second), "second close is a no-op")

	_, err := c.Get(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, c.Go(context.Background(), srv.URL, nil), ErrClosed)

	sqlDB, err := cache.db.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping(), "cache database is closed")
}

func TestClient_CacheFailuresDoNotFailRequests(t *testing.T) {
	srv, hits := countingServer(t)
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `outbound_responses`").WillReturnError(assert.AnError)
	mock.ExpectExec("INSERT INTO `outbound_responses`").WillReturnError(assert.AnError)

	c := New(Config{}, zap.NewNop()).WithCache(newResponseCache(db, time.Minute))
	resp, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.False(t, resp.Cached)
	assert.Equal(t, int32(1), hits.Load())
	assert.NoError(t, mock.ExpectationsWereMet())
}
