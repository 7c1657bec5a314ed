package usecase_test

import (
	"context"
	"sync"
	"time"

	"comment-insight/domain/dto"
	"comment-insight/domain/model"

	"github.com/stretchr/testify/mock"
)

type MockVideoSource struct {
	mock.Mock
}

func (m *MockVideoSource) GetVideoInfo(ctx context.Context, videoID string) (*model.Video, error) {
	args := m.Called(ctx, videoID)
	if v := args.Get(0); v != nil {
		return v.(*model.Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVideoSource) ListCommentThreads(ctx context.Context, req *dto.CommentThreadRequest) (*dto.CommentThreadPage, error) {
	args := m.Called(ctx, req)
	if p := args.Get(0); p != nil {
		return p.(*dto.CommentThreadPage), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAnalysisStore struct {
	mock.Mock
}

func (m *MockAnalysisStore) UpsertVideo(ctx context.Context, video *model.Video) error {
	return m.Called(ctx, video).Error(0)
}

func (m *MockAnalysisStore) GetVideo(ctx context.Context, videoID string) (*model.Video, error) {
	args := m.Called(ctx, videoID)
	if v := args.Get(0); v != nil {
		return v.(*model.Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnalysisStore) UpsertComments(ctx context.Context, videoID string, comments []model.Comment) error {
	return m.Called(ctx, videoID, comments).Error(0)
}

func (m *MockAnalysisStore) AppendViewSnapshot(ctx context.Context, video *model.Video, at time.Time) error {
	return m.Called(ctx, video, at).Error(0)
}

func (m *MockAnalysisStore) ListCommentsByVideo(ctx context.Context, videoID string) ([]model.Comment, error) {
	args := m.Called(ctx, videoID)
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockAnalysisStore) ReplaceMonthlyStats(ctx context.Context, videoID string, stats []model.MonthlyStat) error {
	return m.Called(ctx, videoID, stats).Error(0)
}

func (m *MockAnalysisStore) TopMonthlyStats(ctx context.Context, key model.RankingKey, limit int) ([]model.RankingEntry, error) {
	args := m.Called(ctx, key, limit)
	return args.Get(0).([]model.RankingEntry), args.Error(1)
}

func (m *MockAnalysisStore) ListCommentMonthCounts(ctx context.Context) ([]model.VideoMonthCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.VideoMonthCount), args.Error(1)
}

func (m *MockAnalysisStore) ListViewSnapshots(ctx context.Context) ([]model.SnapshotRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.SnapshotRecord), args.Error(1)
}

func (m *MockAnalysisStore) ListVideos(ctx context.Context) ([]model.Video, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockAnalysisStore) ListVideoSummaries(ctx context.Context) ([]model.VideoSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.VideoSummary), args.Error(1)
}

func (m *MockAnalysisStore) DeleteVideo(ctx context.Context, videoID string) error {
	return m.Called(ctx, videoID).Error(0)
}

func (m *MockAnalysisStore) ClearAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockAnalysisStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockAnalysisStore) Close() error {
	return m.Called().Error(0)
}

type MockAnalysisCache struct {
	mock.Mock
}

func (m *MockAnalysisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockAnalysisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockAnalysisCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishAnalysis(ctx context.Context, event *model.AnalysisEvent) error {
	return m.Called(ctx, event).Error(0)
}

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(text string) model.Sentiment {
	return m.Called(text).Get(0).(model.Sentiment)
}

// progressRecorder collects broadcast batch events
type progressRecorder struct {
	mu     sync.Mutex
	events []model.BatchProgress
}

func (p *progressRecorder) BroadcastProgress(evt model.BatchProgress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

// orderRequest matches a comment page request for one ordering and page token
func orderRequest(order, pageToken string) interface{} {
	return mock.MatchedBy(func(r *dto.CommentThreadRequest) bool {
		return r.Order == order && r.PageToken == pageToken
	})
}
