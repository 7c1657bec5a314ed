package repository

import (
	"context"
	"time"

	"comment-insight/domain/model"
)

// IAnalysisStore persists videos, comments, snapshots and monthly stats
type IAnalysisStore interface {
	UpsertVideo(ctx context.Context, video *model.Video) error
	// GetVideo returns the stored row, created_at included. Unknown ids yield model.ErrNotFound.
	GetVideo(ctx context.Context, videoID string) (*model.Video, error)
	UpsertComments(ctx context.Context, videoID string, comments []model.Comment) error
	AppendViewSnapshot(ctx context.Context, video *model.Video, at time.Time) error
	ListCommentsByVideo(ctx context.Context, videoID string) ([]model.Comment, error)
	ReplaceMonthlyStats(ctx context.Context, videoID string, stats []model.MonthlyStat) error

	TopMonthlyStats(ctx context.Context, key model.RankingKey, limit int) ([]model.RankingEntry, error)
	ListCommentMonthCounts(ctx context.Context) ([]model.VideoMonthCount, error)
	ListViewSnapshots(ctx context.Context) ([]model.SnapshotRecord, error)
	ListVideos(ctx context.Context) ([]model.Video, error)
	ListVideoSummaries(ctx context.Context) ([]model.VideoSummary, error)

	DeleteVideo(ctx context.Context, videoID string) error
	ClearAll(ctx context.Context) error

	Ping(ctx context.Context) error
	Close() error
}

// IAnalysisPublisher announces completed analyses to downstream consumers
type IAnalysisPublisher interface {
	PublishAnalysis(ctx context.Context, event *model.AnalysisEvent) error
}
