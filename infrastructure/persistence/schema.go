package persistence

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"comment-insight/infrastructure/configuration"
	"comment-insight/infrastructure/logger"
)

// EnsureAnalysisSchema creates the videos, comments, view_snapshots and
// monthly_stats tables if they do not exist yet
func EnsureAnalysisSchema(db *sql.DB, vendor string) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	floatType := "REAL"
	if vendor == configuration.VendorPostgres {
		serial = "BIGSERIAL PRIMARY KEY"
		floatType = "DOUBLE PRECISION"
	}

	ddl := []struct {
		table string
		stmt  string
	}{
		{"videos", `CREATE TABLE IF NOT EXISTS videos (
        id TEXT PRIMARY KEY,
        title TEXT NOT NULL DEFAULT '',
        view_count BIGINT NOT NULL DEFAULT 0,
        like_count BIGINT NOT NULL DEFAULT 0,
        comment_count BIGINT NOT NULL DEFAULT 0,
        published_at TEXT NOT NULL DEFAULT '',
        created_at TEXT NOT NULL
    )`},
		{"view_snapshots", fmt.Sprintf(`CREATE TABLE IF NOT EXISTS view_snapshots (
        id %s,
        video_id TEXT NOT NULL REFERENCES videos (id),
        view_count BIGINT NOT NULL DEFAULT 0,
        like_count BIGINT NOT NULL DEFAULT 0,
        comment_count BIGINT NOT NULL DEFAULT 0,
        snapshot_date TEXT NOT NULL
    )`, serial)},
		{"comments", fmt.Sprintf(`CREATE TABLE IF NOT EXISTS comments (
        id TEXT PRIMARY KEY,
        video_id TEXT NOT NULL REFERENCES videos (id),
        text TEXT NOT NULL DEFAULT '',
        sentiment_score %s NOT NULL DEFAULT 0,
        sentiment_label TEXT NOT NULL DEFAULT 'neutral',
        published_at TEXT NOT NULL DEFAULT '',
        like_count BIGINT NOT NULL DEFAULT 0
    )`, floatType)},
		{"monthly_stats", fmt.Sprintf(`CREATE TABLE IF NOT EXISTS monthly_stats (
        id %s,
        video_id TEXT NOT NULL REFERENCES videos (id),
        month TEXT NOT NULL,
        positive_comments BIGINT NOT NULL DEFAULT 0,
        negative_comments BIGINT NOT NULL DEFAULT 0,
        total_comments BIGINT NOT NULL DEFAULT 0,
        avg_sentiment %s NOT NULL DEFAULT 0,
        UNIQUE (video_id, month)
    )`, serial, floatType)},
	}
	for _, d := range ddl {
		if _, err := db.Exec(d.stmt); err != nil {
			return fmt.Errorf("create %s table: %w", d.table, err)
		}
	}

	indexes := map[string]string{
		"idx_comments_video_id":       `CREATE INDEX IF NOT EXISTS idx_comments_video_id ON comments(video_id)`,
		"idx_comments_published_at":   `CREATE INDEX IF NOT EXISTS idx_comments_published_at ON comments(published_at)`,
		"idx_view_snapshots_video_id": `CREATE INDEX IF NOT EXISTS idx_view_snapshots_video_id ON view_snapshots(video_id, snapshot_date)`,
	}
	for name, stmt := range indexes {
		if _, err := db.Exec(stmt); err != nil {
			logger.GetLogger().WithField("error", err).Warnf("failed creating %s", name)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres
func rebind(vendor, query string) string {
	if vendor != configuration.VendorPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
