package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"comment-insight/domain/model"
)

// AnalysisRepository stores analysis results in SQLite or PostgreSQL.
// Queries use ? placeholders and are rebound per vendor.
type AnalysisRepository struct {
	db     *sql.DB
	vendor string
}

func NewAnalysisRepository(db *sql.DB, vendor string) *AnalysisRepository {
	return &AnalysisRepository{db: db, vendor: vendor}
}

const (
	upsertVideoQuery = `INSERT INTO videos (id, title, view_count, like_count, comment_count, published_at, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (id) DO UPDATE SET title = excluded.title, view_count = excluded.view_count,
        like_count = excluded.like_count, comment_count = excluded.comment_count, published_at = excluded.published_at`

	upsertCommentQuery = `INSERT INTO comments (id, video_id, text, sentiment_score, sentiment_label, published_at, like_count)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (id) DO UPDATE SET video_id = excluded.video_id, text = excluded.text,
        sentiment_score = excluded.sentiment_score, sentiment_label = excluded.sentiment_label,
        published_at = excluded.published_at, like_count = excluded.like_count`

	insertSnapshotQuery = `INSERT INTO view_snapshots (video_id, view_count, like_count, comment_count, snapshot_date)
        VALUES (?, ?, ?, ?, ?)`

	selectCommentsQuery = `SELECT id, video_id, text, sentiment_score, sentiment_label, published_at, like_count
        FROM comments WHERE video_id = ? ORDER BY published_at, id`

	deleteMonthlyStatsQuery = `DELETE FROM monthly_stats WHERE video_id = ?`

	insertMonthlyStatQuery = `INSERT INTO monthly_stats (video_id, month, positive_comments, negative_comments, total_comments, avg_sentiment)
        VALUES (?, ?, ?, ?, ?, ?)`

	commentMonthCountsQuery = `SELECT v.id, v.title, v.published_at, SUBSTR(c.published_at, 1, 7) AS month, COUNT(*) AS comment_count
        FROM videos v
        JOIN comments c ON v.id = c.video_id
        GROUP BY v.id, v.title, v.published_at, SUBSTR(c.published_at, 1, 7)
        ORDER BY v.published_at, v.id, month`

	viewSnapshotsQuery = `SELECT v.id, v.title, vs.view_count, vs.like_count, vs.comment_count, vs.snapshot_date
        FROM view_snapshots vs
        JOIN videos v ON v.id = vs.video_id
        ORDER BY vs.snapshot_date, vs.id`

	getVideoQuery = `SELECT id, title, view_count, like_count, comment_count, published_at, created_at
        FROM videos WHERE id = ?`

	listVideosQuery = `SELECT id, title, view_count, like_count, comment_count, published_at, created_at
        FROM videos ORDER BY published_at DESC, id`

	videoSummariesQuery = `SELECT v.id, v.title, v.view_count, v.like_count, v.comment_count, v.published_at, v.created_at,
        (SELECT COUNT(*) FROM comments c WHERE c.video_id = v.id) AS total_comments_analyzed,
        (SELECT COUNT(*) FROM view_snapshots vs WHERE vs.video_id = v.id) AS snapshots_count
        FROM videos v
        ORDER BY v.created_at DESC, v.id`
)

// rankingColumns maps a ranking key to the monthly_stats column it orders by
var rankingColumns = map[model.RankingKey]string{
	model.RankByNegative: "ms.negative_comments",
	model.RankByPositive: "ms.positive_comments",
	model.RankByTotal:    "ms.total_comments",
}

// deleteOrder lists tables child-first so references stay valid mid-transaction
var deleteOrder = []string{"comments", "view_snapshots", "monthly_stats", "videos"}

func (r *AnalysisRepository) q(query string) string {
	return rebind(r.vendor, query)
}

// UpsertVideo inserts or refreshes a video. created_at keeps its first-seen value.
func (r *AnalysisRepository) UpsertVideo(ctx context.Context, video *model.Video) error {
	if video == nil || video.ID == "" {
		return fmt.Errorf("video id is required: %w", model.ErrInvalidInput)
	}
	createdAt := video.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, r.q(upsertVideoQuery),
		video.ID, video.Title, video.ViewCount, video.LikeCount, video.CommentCount, video.PublishedAt,
		createdAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert video %s: %w", video.ID, err)
	}
	return nil
}

// UpsertComments writes all comments of a video in one transaction
func (r *AnalysisRepository) UpsertComments(ctx context.Context, videoID string, comments []model.Comment) (err error) {
	if len(comments) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert comments: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, r.q(upsertCommentQuery))
	if err != nil {
		return fmt.Errorf("prepare upsert comments: %w", err)
	}
	defer stmt.Close()

	for i := range comments {
		c := &comments[i]
		if _, err = stmt.ExecContext(ctx, c.ID, videoID, c.Text, c.SentimentScore, string(c.SentimentLabel), c.PublishedAt, c.LikeCount); err != nil {
			return fmt.Errorf("upsert comment %s: %w", c.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert comments: %w", err)
	}
	return nil
}

// AppendViewSnapshot records the current counters of video at the given time
func (r *AnalysisRepository) AppendViewSnapshot(ctx context.Context, video *model.Video, at time.Time) error {
	if video == nil || video.ID == "" {
		return fmt.Errorf("video id is required: %w", model.ErrInvalidInput)
	}
	_, err := r.db.ExecContext(ctx, r.q(insertSnapshotQuery),
		video.ID, video.ViewCount, video.LikeCount, video.CommentCount, at.Format(model.SnapshotDateLayout))
	if err != nil {
		return fmt.Errorf("append view snapshot %s: %w", video.ID, err)
	}
	return nil
}

func (r *AnalysisRepository) ListCommentsByVideo(ctx context.Context, videoID string) ([]model.Comment, error) {
	rows, err := r.db.QueryContext(ctx, r.q(selectCommentsQuery), videoID)
	if err != nil {
		return nil, fmt.Errorf("list comments %s: %w", videoID, err)
	}
	defer rows.Close()

	out := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		var label string
		if err := rows.Scan(&c.ID, &c.VideoID, &c.Text, &c.SentimentScore, &label, &c.PublishedAt, &c.LikeCount); err != nil {
			return nil, err
		}
		c.SentimentLabel = model.SentimentLabel(label)
		out = append(out, c)
	}
	return out, rows.Err()
}

// ReplaceMonthlyStats deletes and reinserts the monthly rollup of a video atomically
func (r *AnalysisRepository) ReplaceMonthlyStats(ctx context.Context, videoID string, stats []model.MonthlyStat) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace monthly stats: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, r.q(deleteMonthlyStatsQuery), videoID); err != nil {
		return fmt.Errorf("delete monthly stats %s: %w", videoID, err)
	}
	if len(stats) > 0 {
		stmt, prepErr := tx.PrepareContext(ctx, r.q(insertMonthlyStatQuery))
		if prepErr != nil {
			err = prepErr
			return fmt.Errorf("prepare monthly stats: %w", err)
		}
		defer stmt.Close()
		for _, s := range stats {
			if _, err = stmt.ExecContext(ctx, videoID, s.Month, s.PositiveComments, s.NegativeComments, s.TotalComments, s.AvgSentiment); err != nil {
				return fmt.Errorf("insert monthly stat %s %s: %w", videoID, s.Month, err)
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit monthly stats: %w", err)
	}
	return nil
}

// TopMonthlyStats returns the (video, month) rows with the highest value for key
func (r *AnalysisRepository) TopMonthlyStats(ctx context.Context, key model.RankingKey, limit int) ([]model.RankingEntry, error) {
	column, ok := rankingColumns[key]
	if !ok {
		return nil, fmt.Errorf("unknown ranking %q: %w", key, model.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT ms.video_id, v.title, ms.month, ms.positive_comments, ms.negative_comments, ms.total_comments
        FROM monthly_stats ms
        JOIN videos v ON ms.video_id = v.id
        ORDER BY %s DESC, ms.month DESC, ms.video_id
        LIMIT ?`, column)

	rows, err := r.db.QueryContext(ctx, r.q(query), limit)
	if err != nil {
		return nil, fmt.Errorf("top monthly stats by %s: %w", key, err)
	}
	defer rows.Close()

	out := make([]model.RankingEntry, 0, limit)
	for rows.Next() {
		var e model.RankingEntry
		if err := rows.Scan(&e.VideoID, &e.Title, &e.Month, &e.PositiveComments, &e.NegativeComments, &e.TotalComments); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListCommentMonthCounts returns comment counts per video and comment month,
// ordered by video publish time
func (r *AnalysisRepository) ListCommentMonthCounts(ctx context.Context) ([]model.VideoMonthCount, error) {
	rows, err := r.db.QueryContext(ctx, r.q(commentMonthCountsQuery))
	if err != nil {
		return nil, fmt.Errorf("comment month counts: %w", err)
	}
	defer rows.Close()

	out := make([]model.VideoMonthCount, 0)
	for rows.Next() {
		var m model.VideoMonthCount
		if err := rows.Scan(&m.VideoID, &m.Title, &m.PublishedAt, &m.Month, &m.Count); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListViewSnapshots returns every snapshot joined with its video title, oldest first
func (r *AnalysisRepository) ListViewSnapshots(ctx context.Context) ([]model.SnapshotRecord, error) {
	rows, err := r.db.QueryContext(ctx, r.q(viewSnapshotsQuery))
	if err != nil {
		return nil, fmt.Errorf("list view snapshots: %w", err)
	}
	defer rows.Close()

	out := make([]model.SnapshotRecord, 0)
	for rows.Next() {
		var s model.SnapshotRecord
		if err := rows.Scan(&s.VideoID, &s.Title, &s.ViewCount, &s.LikeCount, &s.CommentCount, &s.SnapshotDate); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetVideo loads one stored video
func (r *AnalysisRepository) GetVideo(ctx context.Context, videoID string) (*model.Video, error) {
	var v model.Video
	var createdAt string
	err := r.db.QueryRowContext(ctx, r.q(getVideoQuery), videoID).
		Scan(&v.ID, &v.Title, &v.ViewCount, &v.LikeCount, &v.CommentCount, &v.PublishedAt, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("video %s: %w", videoID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get video %s: %w", videoID, err)
	}
	v.CreatedAt = parseCreatedAt(createdAt)
	return &v, nil
}

func (r *AnalysisRepository) ListVideos(ctx context.Context) ([]model.Video, error) {
	rows, err := r.db.QueryContext(ctx, r.q(listVideosQuery))
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	out := make([]model.Video, 0)
	for rows.Next() {
		var v model.Video
		var createdAt string
		if err := rows.Scan(&v.ID, &v.Title, &v.ViewCount, &v.LikeCount, &v.CommentCount, &v.PublishedAt, &createdAt); err != nil {
			return nil, err
		}
		v.CreatedAt = parseCreatedAt(createdAt)
		out = append(out, v)
	}
	return out, rows.Err()
}

// ListVideoSummaries lists stored videos with their analysed comment and snapshot counts
func (r *AnalysisRepository) ListVideoSummaries(ctx context.Context) ([]model.VideoSummary, error) {
	rows, err := r.db.QueryContext(ctx, r.q(videoSummariesQuery))
	if err != nil {
		return nil, fmt.Errorf("list video summaries: %w", err)
	}
	defer rows.Close()

	out := make([]model.VideoSummary, 0)
	for rows.Next() {
		var s model.VideoSummary
		var createdAt string
		if err := rows.Scan(&s.ID, &s.Title, &s.ViewCount, &s.LikeCount, &s.CommentCount, &s.PublishedAt, &createdAt,
			&s.TotalCommentsAnalyzed, &s.SnapshotsCount); err != nil {
			return nil, err
		}
		s.CreatedAt = parseCreatedAt(createdAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteVideo removes a video and everything derived from it
func (r *AnalysisRepository) DeleteVideo(ctx context.Context, videoID string) error {
	if videoID == "" {
		return fmt.Errorf("video id is required: %w", model.ErrInvalidInput)
	}
	return r.deleteAll(ctx, "WHERE video_id = ?", "WHERE id = ?", videoID)
}

// ClearAll empties all four tables
func (r *AnalysisRepository) ClearAll(ctx context.Context) error {
	return r.deleteAll(ctx, "", "")
}

func (r *AnalysisRepository) deleteAll(ctx context.Context, childWhere, videoWhere string, args ...interface{}) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range deleteOrder {
		where := childWhere
		if table == "videos" {
			where = videoWhere
		}
		query := fmt.Sprintf("DELETE FROM %s %s", table, where)
		if _, err = tx.ExecContext(ctx, r.q(query), args...); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *AnalysisRepository) Close() error {
	return r.db.Close()
}

func parseCreatedAt(v string) time.Time {
	for _, layout := range []string{time.RFC3339, model.SnapshotDateLayout} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
