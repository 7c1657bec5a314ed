package persistence

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"comment-insight/infrastructure/configuration"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// NewDB opens the configured vendor and makes sure the analysis schema exists
func NewDB(cfg configuration.Database) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Vendor {
	case configuration.VendorPostgres:
		db, err = NewPostgreSQLDB(cfg.Psql)
	case configuration.VendorSQLite, "":
		db, err = NewSQLiteDB(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database vendor %q", cfg.Vendor)
	}
	if err != nil {
		return nil, err
	}
	if err := EnsureAnalysisSchema(db, cfg.Vendor); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewSQLiteDB opens (or creates) a SQLite file with a single writer connection
func NewSQLiteDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL; PRAGMA busy_timeout=5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}
	return db, nil
}

// NewPostgreSQLDB connects through lib/pq and verifies the connection
func NewPostgreSQLDB(cfg configuration.Db) (*sql.DB, error) {
	u := &url.URL{Scheme: "postgres", Host: fmt.Sprintf("%s:%s", cfg.Host, cfg.Port), Path: "/" + cfg.Name}
	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}
	q := url.Values{}
	q.Set("sslmode", "disable")
	u.RawQuery = q.Encode()

	db, err := sql.Open("postgres", u.String())
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(20)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
