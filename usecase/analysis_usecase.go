package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"comment-insight/domain/model"
	"comment-insight/domain/repository"
	"comment-insight/infrastructure/logger"
	"comment-insight/infrastructure/utils"
)

const (
	cacheKeyRankings      = "rankings"
	cacheKeyViewTrends    = "view_trends"
	cacheKeyCommentsChart = "chart:comments"
	cacheKeyViewsChart    = "chart:views"
	cacheKeyVideos        = "videos"

	defaultCacheTTL = 10 * time.Minute
)

// IAnalysisUsecase is everything the HTTP layer and the scheduler need
type IAnalysisUsecase interface {
	AnalyzeVideo(ctx context.Context, videoURL string) (*model.AnalysisResult, error)
	AnalyzeBatch(ctx context.Context) (*model.BatchResult, error)

	GetRankings(ctx context.Context) (*model.Rankings, error)
	GetViewTrends(ctx context.Context) ([]model.ViewTrend, error)
	GetMonthlyCommentsChart(ctx context.Context) (*model.Chart, error)
	GetMonthlyViewsChart(ctx context.Context) (*model.Chart, error)
	ListVideos(ctx context.Context) ([]model.VideoSummary, error)

	DeleteVideo(ctx context.Context, videoID string) error
	ClearAll(ctx context.Context) error

	LastUpdated() (time.Time, bool)
}

// SentimentClassifier scores a single comment text
type SentimentClassifier interface {
	Classify(text string) model.Sentiment
}

// MetricsRecorder receives analysis counters
type MetricsRecorder interface {
	ObserveAnalysis(start time.Time, err error)
	CountComment(label model.SentimentLabel)
	CountBatchRun()
}

// ProgressBroadcaster fans batch progress out to stream subscribers
type ProgressBroadcaster interface {
	BroadcastProgress(evt model.BatchProgress)
}

// URLLister returns the video URLs a batch run should analyse
type URLLister func() ([]string, error)

type noopMetrics struct{}

func (noopMetrics) ObserveAnalysis(time.Time, error)  {}
func (noopMetrics) CountComment(model.SentimentLabel) {}
func (noopMetrics) CountBatchRun()                    {}

// AnalysisUsecase runs the fetch, classify, persist pipeline and serves the read models
type AnalysisUsecase struct {
	source      repository.IVideoSource // nil when no credentials are configured
	store       repository.IAnalysisStore
	classifier  SentimentClassifier
	fetcher     *CommentFetcher
	maxComments int
	urls        URLLister
	state       *AnalysisState

	// optional
	cache     repository.IAnalysisCache
	cacheTTL  time.Duration
	publisher repository.IAnalysisPublisher
	progress  ProgressBroadcaster
	metrics   MetricsRecorder
	now       func() time.Time
}

// NewAnalysisUsecase creates the use case. source may be nil, in which case
// analysis operations fail with model.ErrSourceUnavailable while reads keep working.
func NewAnalysisUsecase(source repository.IVideoSource, store repository.IAnalysisStore, classifier SentimentClassifier, state *AnalysisState) *AnalysisUsecase {
	if state == nil {
		state = NewAnalysisState()
	}
	u := &AnalysisUsecase{
		source:      source,
		store:       store,
		classifier:  classifier,
		maxComments: DefaultMaxComments,
		state:       state,
		cacheTTL:    defaultCacheTTL,
		metrics:     noopMetrics{},
		now:         utils.GetCurrentTime,
	}
	if source != nil {
		u.fetcher = NewCommentFetcher(source)
	}
	return u
}

// WithCache enables cache-aside reads (fluent)
func (u *AnalysisUsecase) WithCache(cache repository.IAnalysisCache, ttl time.Duration) *AnalysisUsecase {
	u.cache = cache
	if ttl > 0 {
		u.cacheTTL = ttl
	}
	return u
}

func (u *AnalysisUsecase) WithPublisher(p repository.IAnalysisPublisher) *AnalysisUsecase {
	u.publisher = p
	return u
}

func (u *AnalysisUsecase) WithProgress(p ProgressBroadcaster) *AnalysisUsecase {
	u.progress = p
	return u
}

func (u *AnalysisUsecase) WithMetrics(m MetricsRecorder) *AnalysisUsecase {
	if m != nil {
		u.metrics = m
	}
	return u
}

func (u *AnalysisUsecase) WithURLList(l URLLister) *AnalysisUsecase {
	u.urls = l
	return u
}

func (u *AnalysisUsecase) WithMaxComments(n int) *AnalysisUsecase {
	if n > 0 {
		u.maxComments = n
	}
	return u
}

func (u *AnalysisUsecase) WithClock(now func() time.Time) *AnalysisUsecase {
	u.now = now
	return u
}

// AnalyzeVideo analyses one video URL end to end and stores the result
func (u *AnalysisUsecase) AnalyzeVideo(ctx context.Context, videoURL string) (result *model.AnalysisResult, err error) {
	start := time.Now()
	defer func() { u.metrics.ObserveAnalysis(start, err) }()

	videoID, err := utils.ExtractVideoID(videoURL)
	if err != nil {
		return nil, err
	}
	if u.source == nil {
		return nil, model.ErrSourceUnavailable
	}
	log := logger.GetLogger().WithField("video_id", videoID)

	video, err := u.source.GetVideoInfo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	comments := u.fetcher.Fetch(ctx, videoID, u.maxComments)
	var summary model.SentimentSummary
	for i := range comments {
		s := u.classifier.Classify(comments[i].Text)
		comments[i].VideoID = video.ID
		comments[i].SentimentScore = s.Score
		comments[i].SentimentLabel = s.Label
		summary.Add(s.Label)
		u.metrics.CountComment(s.Label)
	}

	now := u.now()
	video.CreatedAt = now
	if err = u.store.UpsertVideo(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to save video: %w", err)
	}
	saved, err := u.store.GetVideo(ctx, video.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load video: %w", err)
	}
	// re-analysis keeps the first-seen time
	video.CreatedAt = saved.CreatedAt
	if err = u.store.UpsertComments(ctx, video.ID, comments); err != nil {
		return nil, fmt.Errorf("failed to save comments: %w", err)
	}
	if err = u.store.AppendViewSnapshot(ctx, video, now); err != nil {
		return nil, fmt.Errorf("failed to save view snapshot: %w", err)
	}

	stored, err := u.store.ListCommentsByVideo(ctx, video.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	if err = u.store.ReplaceMonthlyStats(ctx, video.ID, BuildMonthlyStats(video.ID, stored)); err != nil {
		return nil, fmt.Errorf("failed to update monthly stats: %w", err)
	}

	u.invalidateCache(ctx)
	u.publish(ctx, &model.AnalysisEvent{
		Type:             model.EventAnalysisCompleted,
		VideoID:          video.ID,
		Title:            video.Title,
		CommentsAnalyzed: len(comments),
		Summary:          summary,
		AnalyzedAt:       now,
	})

	log.WithFields(map[string]interface{}{
		"title":    video.Title,
		"comments": len(comments),
		"positive": summary.Positive,
		"negative": summary.Negative,
		"neutral":  summary.Neutral,
	}).Info("video analysed")

	return &model.AnalysisResult{
		VideoInfo:              *video,
		SentimentSummary:       summary,
		TotalCommentsAnalyzed:  len(comments),
		RepresentativeComments: SelectRepresentative(stored),
		AnalysisComplete:       true,
	}, nil
}

// AnalyzeBatch analyses every URL of the configured list, one after another.
// Item failures are recorded in the result and never abort the run.
func (u *AnalysisUsecase) AnalyzeBatch(ctx context.Context) (*model.BatchResult, error) {
	if u.urls == nil {
		return nil, fmt.Errorf("url list is not configured: %w", model.ErrInvalidInput)
	}
	urls, err := u.urls()
	if err != nil {
		return nil, err
	}
	u.metrics.CountBatchRun()

	log := logger.GetLogger()
	result := &model.BatchResult{
		TotalURLs: len(urls),
		Results:   make([]model.BatchItemResult, 0, len(urls)),
		StartedAt: u.now(),
	}
	u.broadcast(model.BatchProgress{Type: "batch_started", Total: len(urls)})

	for i, url := range urls {
		item := model.BatchItemResult{URL: url}
		analysis, err := u.AnalyzeVideo(ctx, url)
		if err != nil {
			item.Error = err.Error()
			result.Failed++
			log.WithFields(map[string]interface{}{"index": i + 1, "total": len(urls), "url": url, "error": err}).Warn("batch item failed")
		} else {
			item.Success = true
			item.Title = analysis.VideoInfo.Title
			item.ViewCount = analysis.VideoInfo.ViewCount
			item.CommentsAnalyzed = analysis.TotalCommentsAnalyzed
			result.Successful++
			log.WithFields(map[string]interface{}{"index": i + 1, "total": len(urls), "url": url}).Info("batch item analysed")
		}
		result.Results = append(result.Results, item)
		u.broadcast(model.BatchProgress{
			Type:    "item_done",
			Index:   i + 1,
			Total:   len(urls),
			URL:     url,
			Success: item.Success,
			Error:   item.Error,
		})
	}

	result.CompletedAt = u.now()
	result.Message = fmt.Sprintf("%d個のURL中%d個の分析が完了しました", result.TotalURLs, result.Successful)
	u.state.MarkUpdated(result.CompletedAt)
	u.broadcast(model.BatchProgress{Type: "batch_done", Index: len(urls), Total: len(urls), Success: result.Failed == 0})
	return result, nil
}

// GetRankings returns the negative, positive and total comment leaderboards
func (u *AnalysisUsecase) GetRankings(ctx context.Context) (*model.Rankings, error) {
	var cached model.Rankings
	if u.cacheGet(ctx, cacheKeyRankings, &cached) {
		return &cached, nil
	}

	rankings := &model.Rankings{}
	var err error
	if rankings.TopNegative, err = u.store.TopMonthlyStats(ctx, model.RankByNegative, RankingNegativeLimit); err != nil {
		return nil, err
	}
	if rankings.TopPositive, err = u.store.TopMonthlyStats(ctx, model.RankByPositive, RankingPositiveLimit); err != nil {
		return nil, err
	}
	if rankings.TopComments, err = u.store.TopMonthlyStats(ctx, model.RankByTotal, RankingTotalLimit); err != nil {
		return nil, err
	}

	u.cacheSet(ctx, cacheKeyRankings, rankings)
	return rankings, nil
}

func (u *AnalysisUsecase) GetViewTrends(ctx context.Context) ([]model.ViewTrend, error) {
	var cached []model.ViewTrend
	if u.cacheGet(ctx, cacheKeyViewTrends, &cached) {
		return cached, nil
	}

	snapshots, err := u.store.ListViewSnapshots(ctx)
	if err != nil {
		return nil, err
	}
	var videos []model.Video
	if len(snapshots) == 0 {
		if videos, err = u.store.ListVideos(ctx); err != nil {
			return nil, err
		}
	}
	trends := BuildViewTrends(snapshots, videos)

	u.cacheSet(ctx, cacheKeyViewTrends, trends)
	return trends, nil
}

func (u *AnalysisUsecase) GetMonthlyCommentsChart(ctx context.Context) (*model.Chart, error) {
	var cached model.Chart
	if u.cacheGet(ctx, cacheKeyCommentsChart, &cached) {
		return &cached, nil
	}

	rows, err := u.store.ListCommentMonthCounts(ctx)
	if err != nil {
		return nil, err
	}
	chart := BuildCommentsChart(rows)

	u.cacheSet(ctx, cacheKeyCommentsChart, chart)
	return chart, nil
}

func (u *AnalysisUsecase) GetMonthlyViewsChart(ctx context.Context) (*model.Chart, error) {
	var cached model.Chart
	if u.cacheGet(ctx, cacheKeyViewsChart, &cached) {
		return &cached, nil
	}

	rows, err := u.store.ListViewSnapshots(ctx)
	if err != nil {
		return nil, err
	}
	chart := BuildViewsChart(rows)

	u.cacheSet(ctx, cacheKeyViewsChart, chart)
	return chart, nil
}

// ListVideos returns stored videos with their comment and snapshot counts
func (u *AnalysisUsecase) ListVideos(ctx context.Context) ([]model.VideoSummary, error) {
	var cached []model.VideoSummary
	if u.cacheGet(ctx, cacheKeyVideos, &cached) {
		return cached, nil
	}

	videos, err := u.store.ListVideoSummaries(ctx)
	if err != nil {
		return nil, err
	}

	u.cacheSet(ctx, cacheKeyVideos, videos)
	return videos, nil
}

// DeleteVideo removes a video and every row derived from it
func (u *AnalysisUsecase) DeleteVideo(ctx context.Context, videoID string) error {
	if videoID == "" {
		return fmt.Errorf("video ID is required: %w", model.ErrInvalidInput)
	}
	if err := u.store.DeleteVideo(ctx, videoID); err != nil {
		return err
	}
	u.invalidateCache(ctx)
	logger.GetLogger().WithField("video_id", videoID).Info("video data deleted")
	return nil
}

func (u *AnalysisUsecase) ClearAll(ctx context.Context) error {
	if err := u.store.ClearAll(ctx); err != nil {
		return err
	}
	u.invalidateCache(ctx)
	logger.GetLogger().Info("all analysis data deleted")
	return nil
}

func (u *AnalysisUsecase) LastUpdated() (time.Time, bool) {
	return u.state.LastUpdated()
}

func (u *AnalysisUsecase) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if u.cache == nil {
		return false
	}
	hit, err := u.cache.Get(ctx, key, dest)
	if err != nil {
		logger.GetLogger().WithField("key", key).WithError(err).Warn("cache read failed")
		return false
	}
	return hit
}

func (u *AnalysisUsecase) cacheSet(ctx context.Context, key string, value interface{}) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Set(ctx, key, value, u.cacheTTL); err != nil {
		logger.GetLogger().WithField("key", key).WithError(err).Warn("cache write failed")
	}
}

func (u *AnalysisUsecase) invalidateCache(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Invalidate(ctx); err != nil {
		logger.GetLogger().WithError(err).Warn("cache invalidation failed")
	}
}

func (u *AnalysisUsecase) publish(ctx context.Context, event *model.AnalysisEvent) {
	if u.publisher == nil {
		return
	}
	if err := u.publisher.PublishAnalysis(ctx, event); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("video_id", event.VideoID).WithError(err).Warn("failed to publish analysis event")
	}
}

func (u *AnalysisUsecase) broadcast(evt model.BatchProgress) {
	if u.progress != nil {
		u.progress.BroadcastProgress(evt)
	}
}
