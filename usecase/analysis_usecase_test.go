package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"comment-insight/domain/dto"
	"comment-insight/domain/model"
	"comment-insight/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testVideoURL = "https://www.youtube.com/watch?v=abcdefghijk"

var (
	fixedNow  = time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC)
	firstSeen = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
)

type analysisFixture struct {
	source     *MockVideoSource
	store      *MockAnalysisStore
	cache      *MockAnalysisCache
	publisher  *MockPublisher
	classifier *MockClassifier
	progress   *progressRecorder
	state      *usecase.AnalysisState
	uc         *usecase.AnalysisUsecase
}

func newAnalysisFixture(t *testing.T) *analysisFixture {
	t.Helper()
	f := &analysisFixture{
		source:     new(MockVideoSource),
		store:      new(MockAnalysisStore),
		cache:      new(MockAnalysisCache),
		publisher:  new(MockPublisher),
		classifier: new(MockClassifier),
		progress:   &progressRecorder{},
		state:      usecase.NewAnalysisState(),
	}
	for _, m := range []interface{ Test(mock.TestingT) }{f.source, f.store, f.cache, f.publisher, f.classifier} {
		m.Test(t)
	}
	f.uc = usecase.NewAnalysisUsecase(f.source, f.store, f.classifier, f.state).
		WithCache(f.cache, time.Minute).
		WithPublisher(f.publisher).
		WithProgress(f.progress).
		WithClock(func() time.Time { return fixedNow })
	return f
}

// expectSuccessfulAnalysis wires every collaborator for one video with two comments
func (f *analysisFixture) expectSuccessfulAnalysis(videoID, title string) {
	ctx := mock.Anything
	f.source.On("GetVideoInfo", ctx, videoID).Return(&model.Video{
		ID: videoID, Title: title, ViewCount: 1000, PublishedAt: "2024-01-01T00:00:00Z",
	}, nil).Once()
	f.source.On("ListCommentThreads", ctx, mock.MatchedBy(func(r *dto.CommentThreadRequest) bool {
		return r.VideoID == videoID
	})).Return(&dto.CommentThreadPage{Items: []model.Comment{
		{ID: videoID + "-1", Text: "love it", PublishedAt: "2024-01-02T00:00:00Z", LikeCount: 3},
		{ID: videoID + "-2", Text: "awful", PublishedAt: "2024-02-02T00:00:00Z"},
	}}, nil)
	f.classifier.On("Classify", "love it").Return(model.Sentiment{Score: 0.3, Label: model.SentimentPositive})
	f.classifier.On("Classify", "awful").Return(model.Sentiment{Score: -0.3, Label: model.SentimentNegative})

	f.store.On("UpsertVideo", ctx, mock.MatchedBy(func(v *model.Video) bool {
		return v.ID == videoID && v.CreatedAt.Equal(fixedNow)
	})).Return(nil).Once()
	f.store.On("GetVideo", ctx, videoID).Return(&model.Video{
		ID: videoID, Title: title, ViewCount: 1000, PublishedAt: "2024-01-01T00:00:00Z", CreatedAt: firstSeen,
	}, nil).Once()
	f.store.On("UpsertComments", ctx, videoID, mock.MatchedBy(func(cs []model.Comment) bool {
		return len(cs) == 2 && cs[0].SentimentLabel == model.SentimentPositive && cs[1].SentimentLabel == model.SentimentNegative
	})).Return(nil).Once()
	f.store.On("AppendViewSnapshot", ctx, mock.AnythingOfType("*model.Video"), fixedNow).Return(nil).Once()
	f.store.On("ListCommentsByVideo", ctx, videoID).Return([]model.Comment{
		{ID: videoID + "-1", VideoID: videoID, Text: "love it", PublishedAt: "2024-01-02T00:00:00Z", LikeCount: 3, SentimentScore: 0.3, SentimentLabel: model.SentimentPositive},
		{ID: videoID + "-2", VideoID: videoID, Text: "awful", PublishedAt: "2024-02-02T00:00:00Z", SentimentScore: -0.3, SentimentLabel: model.SentimentNegative},
	}, nil).Once()
	f.store.On("ReplaceMonthlyStats", ctx, videoID, mock.MatchedBy(func(stats []model.MonthlyStat) bool {
		return len(stats) == 2 && stats[0].Month == "2024-01" && stats[0].PositiveComments == 1 && stats[1].NegativeComments == 1
	})).Return(nil).Once()
	f.cache.On("Invalidate", ctx).Return(nil).Once()
	f.publisher.On("PublishAnalysis", ctx, mock.MatchedBy(func(e *model.AnalysisEvent) bool {
		return e.Type == model.EventAnalysisCompleted && e.VideoID == videoID && e.CommentsAnalyzed == 2
	})).Return(nil).Once()
}

func TestAnalyzeVideo(t *testing.T) {
	f := newAnalysisFixture(t)
	f.expectSuccessfulAnalysis("abcdefghijk", "Sample")

	result, err := f.uc.AnalyzeVideo(context.Background(), testVideoURL)
	require.NoError(t, err)

	assert.True(t, result.AnalysisComplete)
	assert.Equal(t, "Sample", result.VideoInfo.Title)
	assert.True(t, firstSeen.Equal(result.VideoInfo.CreatedAt), result.VideoInfo.CreatedAt)
	assert.Equal(t, 2, result.TotalCommentsAnalyzed)
	assert.Equal(t, model.SentimentSummary{Positive: 1, Negative: 1}, result.SentimentSummary)
	require.Len(t, result.RepresentativeComments.Positive, 1)
	assert.Equal(t, "love it", result.RepresentativeComments.Positive[0].Text)
	assert.Empty(t, result.RepresentativeComments.Neutral)

	f.store.AssertExpectations(t)
	f.cache.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestAnalyzeVideoInvalidURL(t *testing.T) {
	f := newAnalysisFixture(t)

	_, err := f.uc.AnalyzeVideo(context.Background(), "not a url")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	f.source.AssertNotCalled(t, "GetVideoInfo", mock.Anything, mock.Anything)
}

func TestAnalyzeVideoWithoutSource(t *testing.T) {
	store := new(MockAnalysisStore)
	uc := usecase.NewAnalysisUsecase(nil, store, new(MockClassifier), nil)

	_, err := uc.AnalyzeVideo(context.Background(), testVideoURL)
	assert.ErrorIs(t, err, model.ErrSourceUnavailable)
}

func TestAnalyzeVideoNotFound(t *testing.T) {
	f := newAnalysisFixture(t)
	f.source.On("GetVideoInfo", mock.Anything, "abcdefghijk").Return(nil, model.ErrNotFound).Once()

	_, err := f.uc.AnalyzeVideo(context.Background(), testVideoURL)
	assert.ErrorIs(t, err, model.ErrNotFound)
	f.store.AssertNotCalled(t, "UpsertVideo", mock.Anything, mock.Anything)
}

func TestAnalyzeVideoStoreFailure(t *testing.T) {
	f := newAnalysisFixture(t)
	f.source.On("GetVideoInfo", mock.Anything, "abcdefghijk").Return(&model.Video{ID: "abcdefghijk"}, nil).Once()
	f.source.On("ListCommentThreads", mock.Anything, mock.Anything).Return(&dto.CommentThreadPage{}, nil)
	f.store.On("UpsertVideo", mock.Anything, mock.Anything).Return(errors.New("database is locked")).Once()

	_, err := f.uc.AnalyzeVideo(context.Background(), testVideoURL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	f.cache.AssertNotCalled(t, "Invalidate", mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishAnalysis", mock.Anything, mock.Anything)
}

func TestAnalyzeVideoPublishFailureIsNotSurfaced(t *testing.T) {
	f := newAnalysisFixture(t)
	f.publisher.On("PublishAnalysis", mock.Anything, mock.Anything).Return(errors.New("topic gone")).Once()
	f.expectSuccessfulAnalysis("abcdefghijk", "Sample")

	result, err := f.uc.AnalyzeVideo(context.Background(), testVideoURL)
	require.NoError(t, err)
	assert.True(t, result.AnalysisComplete)
}

func TestAnalyzeBatch(t *testing.T) {
	f := newAnalysisFixture(t)
	f.expectSuccessfulAnalysis("abcdefghijk", "First")
	f.uc.WithURLList(func() ([]string, error) {
		return []string{testVideoURL, "not a url"}, nil
	})

	_, ok := f.uc.LastUpdated()
	require.False(t, ok)

	result, err := f.uc.AnalyzeBatch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalURLs)
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, "2個のURL中1個の分析が完了しました", result.Message)
	require.Len(t, result.Results, 2)
	assert.Equal(t, model.BatchItemResult{
		URL: testVideoURL, Success: true, Title: "First", ViewCount: 1000, CommentsAnalyzed: 2,
	}, result.Results[0])
	assert.False(t, result.Results[1].Success)
	assert.NotEmpty(t, result.Results[1].Error)

	last, ok := f.uc.LastUpdated()
	assert.True(t, ok)
	assert.Equal(t, fixedNow, last)

	require.Len(t, f.progress.events, 4)
	assert.Equal(t, "batch_started", f.progress.events[0].Type)
	assert.Equal(t, "item_done", f.progress.events[2].Type)
	assert.Equal(t, 2, f.progress.events[2].Index)
	assert.Equal(t, "batch_done", f.progress.events[3].Type)
}

func TestAnalyzeBatchURLListError(t *testing.T) {
	f := newAnalysisFixture(t)
	f.uc.WithURLList(func() ([]string, error) {
		return nil, model.ErrInvalidInput
	})

	_, err := f.uc.AnalyzeBatch(context.Background())
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	_, ok := f.uc.LastUpdated()
	assert.False(t, ok)
	assert.Empty(t, f.progress.events)
}

func TestAnalyzeBatchWithoutURLList(t *testing.T) {
	f := newAnalysisFixture(t)
	_, err := f.uc.AnalyzeBatch(context.Background())
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestGetRankingsCacheMiss(t *testing.T) {
	f := newAnalysisFixture(t)
	ctx := context.Background()
	neg := []model.RankingEntry{{VideoID: "v1", NegativeComments: 4}}
	pos := []model.RankingEntry{{VideoID: "v2", PositiveComments: 8}}
	total := []model.RankingEntry{{VideoID: "v2", TotalComments: 12}}

	f.cache.On("Get", ctx, "rankings", mock.Anything).Return(false, nil).Once()
	f.store.On("TopMonthlyStats", ctx, model.RankByNegative, 10).Return(neg, nil).Once()
	f.store.On("TopMonthlyStats", ctx, model.RankByPositive, 10).Return(pos, nil).Once()
	f.store.On("TopMonthlyStats", ctx, model.RankByTotal, 20).Return(total, nil).Once()
	f.cache.On("Set", ctx, "rankings", mock.Anything, time.Minute).Return(nil).Once()

	rankings, err := f.uc.GetRankings(ctx)
	require.NoError(t, err)
	assert.Equal(t, &model.Rankings{TopNegative: neg, TopPositive: pos, TopComments: total}, rankings)
	f.store.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestGetRankingsCacheHit(t *testing.T) {
	f := newAnalysisFixture(t)
	ctx := context.Background()
	f.cache.On("Get", ctx, "rankings", mock.Anything).Run(func(args mock.Arguments) {
		dest := args.Get(2).(*model.Rankings)
		dest.TopNegative = []model.RankingEntry{{VideoID: "cached"}}
	}).Return(true, nil).Once()

	rankings, err := f.uc.GetRankings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cached", rankings.TopNegative[0].VideoID)
	f.store.AssertNotCalled(t, "TopMonthlyStats", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetRankingsStoreError(t *testing.T) {
	f := newAnalysisFixture(t)
	f.cache.On("Get", mock.Anything, "rankings", mock.Anything).Return(false, errors.New("redis down")).Once()
	f.store.On("TopMonthlyStats", mock.Anything, model.RankByNegative, 10).Return([]model.RankingEntry(nil), errors.New("no such table")).Once()

	_, err := f.uc.GetRankings(context.Background())
	assert.Error(t, err)
}

func TestGetViewTrendsFallsBackToVideos(t *testing.T) {
	f := newAnalysisFixture(t)
	ctx := context.Background()
	f.cache.On("Get", ctx, "view_trends", mock.Anything).Return(false, nil).Once()
	f.store.On("ListViewSnapshots", ctx).Return([]model.SnapshotRecord{}, nil).Once()
	f.store.On("ListVideos", ctx).Return([]model.Video{{ID: "v1", Title: "Only", PublishedAt: "2024-04-01T00:00:00Z"}}, nil).Once()
	f.cache.On("Set", ctx, "view_trends", mock.Anything, time.Minute).Return(nil).Once()

	trends, err := f.uc.GetViewTrends(ctx)
	require.NoError(t, err)
	require.Len(t, trends, 1)
	assert.Equal(t, model.TrendNoteInitial, trends[0].Note)
	assert.Equal(t, "2024-04", trends[0].Month)
}

func TestGetMonthlyChartsWithoutCache(t *testing.T) {
	store := new(MockAnalysisStore)
	store.Test(t)
	uc := usecase.NewAnalysisUsecase(nil, store, new(MockClassifier), nil)
	ctx := context.Background()

	store.On("ListCommentMonthCounts", ctx).Return([]model.VideoMonthCount{
		{VideoID: "v1", Title: "V", Month: "2024-01", Count: 2},
	}, nil).Once()
	store.On("ListViewSnapshots", ctx).Return([]model.SnapshotRecord{}, nil).Once()

	comments, err := uc.GetMonthlyCommentsChart(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024年01月"}, comments.Labels)

	views, err := uc.GetMonthlyViewsChart(ctx)
	require.NoError(t, err)
	assert.True(t, views.IsEmpty())
	assert.NotEmpty(t, views.Message)
}

func TestListVideos(t *testing.T) {
	f := newAnalysisFixture(t)
	ctx := context.Background()
	summaries := []model.VideoSummary{{Video: model.Video{ID: "v1"}, TotalCommentsAnalyzed: 3, SnapshotsCount: 1}}
	f.cache.On("Get", ctx, "videos", mock.Anything).Return(false, nil).Once()
	f.store.On("ListVideoSummaries", ctx).Return(summaries, nil).Once()
	f.cache.On("Set", ctx, "videos", summaries, time.Minute).Return(errors.New("redis down")).Once()

	got, err := f.uc.ListVideos(ctx)
	require.NoError(t, err)
	assert.Equal(t, summaries, got)
}

func TestDeleteVideo(t *testing.T) {
	f := newAnalysisFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.uc.DeleteVideo(ctx, ""), model.ErrInvalidInput)

	f.store.On("DeleteVideo", ctx, "v1").Return(nil).Once()
	f.cache.On("Invalidate", ctx).Return(nil).Once()
	require.NoError(t, f.uc.DeleteVideo(ctx, "v1"))
	f.store.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestClearAll(t *testing.T) {
	f := newAnalysisFixture(t)
	ctx := context.Background()

	f.store.On("ClearAll", ctx).Return(errors.New("locked")).Once()
	assert.Error(t, f.uc.ClearAll(ctx))
	f.cache.AssertNotCalled(t, "Invalidate", mock.Anything)

	f.store.On("ClearAll", ctx).Return(nil).Once()
	f.cache.On("Invalidate", ctx).Return(nil).Once()
	assert.NoError(t, f.uc.ClearAll(ctx))
}
