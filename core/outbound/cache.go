package outbound

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotspot-control/core/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CachedResponse is a stored outbound response.
type CachedResponse struct {
	CacheKey    string `gorm:"primaryKey;size:512"`
	StatusCode  int
	ContentType string `gorm:"size:255"`
	Body        []byte
	ExpiresAt   time.Time `gorm:"index"`
	CreatedAt   time.Time
}

// TableName returns the table used for cached responses.
func (CachedResponse) TableName() string {
	return "outbound_responses"
}

// ResponseCache stores responses in a database.
type ResponseCache struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewResponseCache migrates the cache table and returns the cache.
func NewResponseCache(db *gorm.DB, ttl time.Duration) (*ResponseCache, error) {
	if db == nil {
		return nil, errors.New("response cache requires a database")
	}
	if err := db.AutoMigrate(&CachedResponse{}); err != nil {
		return nil, fmt.Errorf("failed to migrate response cache: %w", err)
	}
	return newResponseCache(db, ttl), nil
}

func newResponseCache(db *gorm.DB, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ResponseCache{db: db, ttl: ttl, now: time.Now}
}

// Get returns the unexpired response stored under key.
func (c *ResponseCache) Get(ctx context.Context, key string) (*CachedResponse, bool, error) {
	var row CachedResponse
	err := c.db.WithContext(ctx).
		Where("cache_key = ? AND expires_at > ?", key, c.now()).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached response: %w", err)
	}
	return &row, true, nil
}

// Put stores a response under key, replacing any previous row.
func (c *ResponseCache) Put(ctx context.Context, key string, resp *Response) error {
	row := CachedResponse{
		CacheKey:    key,
		StatusCode:  resp.StatusCode,
		ContentType: resp.ContentType,
		Body:        resp.Body,
		ExpiresAt:   c.now().Add(c.ttl),
	}
	err := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to store cached response: %w", err)
	}
	return nil
}

// Purge deletes expired rows and returns how many were removed.
func (c *ResponseCache) Purge(ctx context.Context) (int64, error) {
	res := c.db.WithContext(ctx).
		Where("expires_at <= ?", c.now()).
		Delete(&CachedResponse{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge response cache: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Close releases the database connection.
func (c *ResponseCache) Close() error {
	return database.Close(c.db)
}
