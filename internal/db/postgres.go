package db

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open opens a Postgres connection using the given DSN. Caller must call Close when done.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenWithRetry opens a Postgres connection, retrying up to attempts times with
// delay between attempts. Used at process startup where the database may still
// be coming up. Returns the last error if every attempt fails.
func OpenWithRetry(dsn string, attempts int, delay time.Duration) (*sql.DB, error) {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		db, err := Open(dsn)
		if err == nil {
			return db, nil
		}
		lastErr = err
		if i < attempts-1 {
			log.Printf("db: connect attempt %d/%d failed: %v", i+1, attempts, err)
			time.Sleep(delay)
		}
	}
	return nil, lastErr
}
