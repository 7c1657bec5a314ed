package usecase_test

import (
	"strings"
	"testing"

	"comment-insight/domain/model"
	"comment-insight/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labelled(id, publishedAt string, label model.SentimentLabel, score float64) model.Comment {
	return model.Comment{ID: id, PublishedAt: publishedAt, SentimentLabel: label, SentimentScore: score}
}

func values(data []*int64) []interface{} {
	out := make([]interface{}, 0, len(data))
	for _, v := range data {
		if v == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, *v)
	}
	return out
}

func TestMonthOf(t *testing.T) {
	assert.Equal(t, "2024-05", usecase.MonthOf("2024-05-17T08:00:00Z"))
	assert.Equal(t, "2024-05", usecase.MonthOf("2024-05-17 08:00:00"))
	assert.Equal(t, "", usecase.MonthOf(""))
}

func TestBuildMonthlyStats(t *testing.T) {
	stats := usecase.BuildMonthlyStats("v1", []model.Comment{
		labelled("a", "2024-02-01T00:00:00Z", model.SentimentPositive, 0.6),
		labelled("b", "2024-01-10T00:00:00Z", model.SentimentNegative, -0.4),
		labelled("c", "2024-01-11T00:00:00Z", model.SentimentNeutral, 0),
		labelled("d", "2024-01-12T00:00:00Z", model.SentimentPositive, 0.1),
		labelled("e", "", model.SentimentPositive, 0.9),
	})

	require.Len(t, stats, 2)
	jan := stats[0]
	assert.Equal(t, "2024-01", jan.Month)
	assert.Equal(t, "v1", jan.VideoID)
	assert.Equal(t, int64(3), jan.TotalComments)
	assert.Equal(t, int64(1), jan.PositiveComments)
	assert.Equal(t, int64(1), jan.NegativeComments)
	assert.InDelta(t, -0.1, jan.AvgSentiment, 1e-9)
	assert.Equal(t, "2024-02", stats[1].Month)

	for _, s := range stats {
		assert.LessOrEqual(t, s.PositiveComments+s.NegativeComments, s.TotalComments)
	}
}

func TestBuildMonthlyStatsEmpty(t *testing.T) {
	assert.Empty(t, usecase.BuildMonthlyStats("v1", nil))
}

func TestSummarizeSentiment(t *testing.T) {
	s := usecase.SummarizeSentiment([]model.Comment{
		{SentimentLabel: model.SentimentPositive},
		{SentimentLabel: model.SentimentPositive},
		{SentimentLabel: model.SentimentNegative},
		{SentimentLabel: model.SentimentNeutral},
	})
	assert.Equal(t, model.SentimentSummary{Positive: 2, Negative: 1, Neutral: 1}, s)
}

func TestSelectRepresentative(t *testing.T) {
	var comments []model.Comment
	for i, likes := range []int64{3, 9, 1, 9, 0, 4, 7} {
		comments = append(comments, model.Comment{
			ID:             string(rune('a' + i)),
			Text:           strings.Repeat("x", i+1),
			LikeCount:      likes,
			SentimentLabel: model.SentimentPositive,
		})
	}
	comments = append(comments, model.Comment{Text: "bad", LikeCount: 2, SentimentLabel: model.SentimentNegative})

	rep := usecase.SelectRepresentative(comments)

	require.Len(t, rep.Positive, 5)
	// equal likes fall back to the longer text
	assert.Equal(t, int64(9), rep.Positive[0].LikeCount)
	assert.Equal(t, 4, len(rep.Positive[0].Text))
	assert.Equal(t, 2, len(rep.Positive[1].Text))
	for i := 1; i < len(rep.Positive); i++ {
		assert.GreaterOrEqual(t, rep.Positive[i-1].LikeCount, rep.Positive[i].LikeCount)
	}
	assert.Equal(t, int64(3), rep.Positive[4].LikeCount)

	require.Len(t, rep.Negative, 1)
	assert.Equal(t, "bad", rep.Negative[0].Text)
	assert.NotNil(t, rep.Neutral)
	assert.Empty(t, rep.Neutral)
}

func TestSelectRepresentativeCountsRunes(t *testing.T) {
	rep := usecase.SelectRepresentative([]model.Comment{
		{Text: "abcd", SentimentLabel: model.SentimentNeutral},
		{Text: "最高です！！", SentimentLabel: model.SentimentNeutral},
	})
	require.Len(t, rep.Neutral, 2)
	assert.Equal(t, "最高です！！", rep.Neutral[0].Text)
}

func TestFormatMonthLabel(t *testing.T) {
	assert.Equal(t, "2024年01月", usecase.FormatMonthLabel("2024-01"))
	assert.Equal(t, "2024年03月", usecase.FormatMonthLabel("2024-3"))
	assert.Equal(t, "unknown", usecase.FormatMonthLabel("unknown"))
	assert.Equal(t, "2024-xx", usecase.FormatMonthLabel("2024-xx"))
}

func TestBuildCommentsChartFillsGapsWithZero(t *testing.T) {
	chart := usecase.BuildCommentsChart([]model.VideoMonthCount{
		{VideoID: "A", Title: "Video A", Month: "2024-01", Count: 4},
		{VideoID: "A", Title: "Video A", Month: "2024-03", Count: 6},
		{VideoID: "B", Title: "Video B", Month: "2024-02", Count: 2},
	})

	assert.Equal(t, []string{"2024年01月", "2024年02月", "2024年03月"}, chart.Labels)
	require.Len(t, chart.Datasets, 2)
	assert.Equal(t, "Video A", chart.Datasets[0].Label)
	assert.Equal(t, []interface{}{int64(4), int64(0), int64(6)}, values(chart.Datasets[0].Data))
	assert.Equal(t, []interface{}{int64(0), int64(2), int64(0)}, values(chart.Datasets[1].Data))
	assert.Empty(t, chart.Message)
}

func TestBuildCommentsChartStyling(t *testing.T) {
	var rows []model.VideoMonthCount
	for i := 0; i < 10; i++ {
		rows = append(rows, model.VideoMonthCount{VideoID: string(rune('a' + i)), Title: "t", Month: "2024-01", Count: 1})
	}
	rows[0].Title = strings.Repeat("あ", 31)

	chart := usecase.BuildCommentsChart(rows)
	require.Len(t, chart.Datasets, 10)
	assert.Equal(t, strings.Repeat("あ", 30)+"...", chart.Datasets[0].Label)
	assert.Equal(t, "#FF6384", chart.Datasets[0].BorderColor)
	assert.Equal(t, "#FF638420", chart.Datasets[0].BackgroundColor)
	assert.Equal(t, "#36A2EB", chart.Datasets[1].BorderColor)
	// palette wraps after nine colours
	assert.Equal(t, "#FF6384", chart.Datasets[9].BorderColor)
	assert.False(t, chart.Datasets[0].Fill)
	assert.Equal(t, 0.3, chart.Datasets[0].Tension)
}

func TestBuildCommentsChartEmpty(t *testing.T) {
	chart := usecase.BuildCommentsChart(nil)
	assert.True(t, chart.IsEmpty())
	assert.NotEmpty(t, chart.Message)
	assert.NotNil(t, chart.Labels)
	assert.NotNil(t, chart.Datasets)
}

func TestBuildViewsChartKeepsLatestSnapshotPerMonth(t *testing.T) {
	chart := usecase.BuildViewsChart([]model.SnapshotRecord{
		{VideoID: "A", Title: "A", ViewCount: 200, SnapshotDate: "2024-01-20 02:00:00"},
		{VideoID: "A", Title: "A", ViewCount: 100, SnapshotDate: "2024-01-05 02:00:00"},
		{VideoID: "A", Title: "A", ViewCount: 500, SnapshotDate: "2024-03-01 02:00:00"},
		{VideoID: "B", Title: "B", ViewCount: 0, SnapshotDate: "2024-02-10 02:00:00"},
	})

	assert.Equal(t, []string{"2024年01月", "2024年02月", "2024年03月"}, chart.Labels)
	require.Len(t, chart.Datasets, 2)
	assert.Equal(t, []interface{}{int64(200), nil, int64(500)}, values(chart.Datasets[0].Data))
	assert.Equal(t, []interface{}{nil, int64(0), nil}, values(chart.Datasets[1].Data))
}

func TestBuildViewsChartEmpty(t *testing.T) {
	chart := usecase.BuildViewsChart([]model.SnapshotRecord{})
	assert.True(t, chart.IsEmpty())
	assert.NotEmpty(t, chart.Message)
}

func TestBuildViewTrendsFromSnapshots(t *testing.T) {
	trends := usecase.BuildViewTrends([]model.SnapshotRecord{
		{VideoID: "b", Title: "Beta", ViewCount: 10, SnapshotDate: "2024-01-01 00:00:00"},
		{VideoID: "a", Title: "Alpha", ViewCount: 1, SnapshotDate: "2024-01-01 00:00:00"},
		{VideoID: "a", Title: "Alpha", ViewCount: 5, SnapshotDate: "2024-02-01 00:00:00"},
	}, nil)

	require.Len(t, trends, 3)
	assert.Equal(t, model.ViewTrend{
		Title: "Alpha", VideoID: "a", Month: "2024-02", ViewCount: 5,
		SnapshotDate: "2024-02-01 00:00:00", Note: model.TrendNoteSnapshot,
	}, trends[0])
	assert.Equal(t, int64(1), trends[1].ViewCount)
	assert.Equal(t, "Beta", trends[2].Title)
}

func TestBuildViewTrendsFallsBackToVideos(t *testing.T) {
	trends := usecase.BuildViewTrends(nil, []model.Video{
		{ID: "old", Title: "Old", PublishedAt: "2023-05-01T00:00:00Z", ViewCount: 7},
		{ID: "new", Title: "New", PublishedAt: "2024-06-01T00:00:00Z", ViewCount: 3},
	})

	require.Len(t, trends, 2)
	assert.Equal(t, "New", trends[0].Title)
	assert.Equal(t, "2024-06", trends[0].Month)
	assert.Equal(t, model.TrendNoteInitial, trends[0].Note)
	assert.Empty(t, trends[0].SnapshotDate)
	assert.Equal(t, "2023-05", trends[1].Month)
}
