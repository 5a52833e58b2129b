// Package database opens the GORM connection backing the outbound response
// cache.
//
// Two drivers are supported: sqlite for a local file (or ":memory:") and
// mysql for a shared cache. Connect pings the connection before returning it,
// so callers can treat any error as "cache unavailable" and continue without
// it.
//
// # Usage
//
//	db, err := database.Connect(cfg.Outbound.Cache.Database)
//	if err != nil {
//	    log.Warn("Response cache disabled", zap.Error(err))
//	}
package database
