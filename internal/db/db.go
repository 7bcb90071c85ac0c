package db

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/config"
)

// New opens the database, verifies connectivity with exponential backoff
// (startup-only; requests are never retried), applies pool limits and runs
// migrations. A failure after the final attempt is returned to the caller,
// which exits non-zero.
func New(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	dsn := withSessionTimeouts(cfg.DB.DSN, cfg.DB.StatementTimeout)

	var database *gorm.DB
	var err error

	backoff := time.Second
	for attempt := 1; attempt <= cfg.DB.ConnectAttempts; attempt++ {
		database, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err == nil {
			break
		}
		if attempt == cfg.DB.ConnectAttempts {
			return nil, fmt.Errorf("connect after %d attempts: %w", attempt, err)
		}
		log.Warn().Err(err).Int("attempt", attempt).Dur("backoff", backoff).Msg("database not ready")
		time.Sleep(backoff)
		backoff *= 2
		if backoff > 30*time.Second {
			backoff = 30 * time.Second
		}
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	if err := runMigrations(database); err != nil {
		return nil, err
	}
	return database, nil
}

// withSessionTimeouts appends statement and idle-in-transaction timeouts to
// the DSN so a stuck transaction is aborted server-side instead of hanging
// the request.
func withSessionTimeouts(dsn string, timeout time.Duration) string {
	if timeout <= 0 || strings.Contains(dsn, "statement_timeout") {
		return dsn
	}
	ms := timeout.Milliseconds()
	options := fmt.Sprintf("-c statement_timeout=%d -c idle_in_transaction_session_timeout=%d", ms, ms)

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		return dsn + separator + "options=" + url.QueryEscape(options)
	}
	return dsn + fmt.Sprintf(" options='%s'", options)
}
