package usecase

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"comment-insight/domain/model"
)

const (
	representativeLimit = 5
	chartTitleRunes     = 30
	chartTension        = 0.3

	RankingNegativeLimit = 10
	RankingPositiveLimit = 10
	RankingTotalLimit    = 20

	commentsChartEmptyMessage = "コメントデータがありません。動画を分析してください。"
	viewsChartEmptyMessage    = "スナップショットデータがありません。複数回分析してください。"
)

var chartPalette = []string{
	"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0", "#9966FF",
	"#FF9F40", "#FF9F9F", "#9FFF9F", "#9F9FFF",
}

// MonthOf returns the YYYY-MM prefix of an ISO timestamp
func MonthOf(publishedAt string) string {
	if len(publishedAt) < 7 {
		return publishedAt
	}
	return publishedAt[:7]
}

// SummarizeSentiment counts comments per label
func SummarizeSentiment(comments []model.Comment) model.SentimentSummary {
	var s model.SentimentSummary
	for _, c := range comments {
		s.Add(c.SentimentLabel)
	}
	return s
}

// BuildMonthlyStats rolls a video's comments up per calendar month, ordered by month.
// Comments without a parseable month are skipped.
func BuildMonthlyStats(videoID string, comments []model.Comment) []model.MonthlyStat {
	type bucket struct {
		stat  model.MonthlyStat
		score float64
	}
	buckets := make(map[string]*bucket)
	for _, c := range comments {
		month := MonthOf(c.PublishedAt)
		if len(month) != 7 {
			continue
		}
		b, ok := buckets[month]
		if !ok {
			b = &bucket{stat: model.MonthlyStat{VideoID: videoID, Month: month}}
			buckets[month] = b
		}
		b.stat.TotalComments++
		b.score += c.SentimentScore
		switch c.SentimentLabel {
		case model.SentimentPositive:
			b.stat.PositiveComments++
		case model.SentimentNegative:
			b.stat.NegativeComments++
		}
	}

	stats := make([]model.MonthlyStat, 0, len(buckets))
	for _, b := range buckets {
		b.stat.AvgSentiment = b.score / float64(b.stat.TotalComments)
		stats = append(stats, b.stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Month < stats[j].Month })
	return stats
}

// SelectRepresentative picks up to five comments per label ordered by likes,
// then by text length, both descending.
func SelectRepresentative(comments []model.Comment) model.RepresentativeComments {
	byLabel := map[model.SentimentLabel][]model.Comment{}
	for _, c := range comments {
		byLabel[c.SentimentLabel] = append(byLabel[c.SentimentLabel], c)
	}
	pick := func(label model.SentimentLabel) []model.RepresentativeComment {
		group := byLabel[label]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].LikeCount != group[j].LikeCount {
				return group[i].LikeCount > group[j].LikeCount
			}
			return utf8.RuneCountInString(group[i].Text) > utf8.RuneCountInString(group[j].Text)
		})
		if len(group) > representativeLimit {
			group = group[:representativeLimit]
		}
		out := make([]model.RepresentativeComment, 0, len(group))
		for _, c := range group {
			out = append(out, model.RepresentativeComment{
				Text:           c.Text,
				LikeCount:      c.LikeCount,
				SentimentScore: c.SentimentScore,
				PublishedAt:    c.PublishedAt,
			})
		}
		return out
	}
	return model.RepresentativeComments{
		Positive: pick(model.SentimentPositive),
		Negative: pick(model.SentimentNegative),
		Neutral:  pick(model.SentimentNeutral),
	}
}

// FormatMonthLabel turns "2024-01" into "2024年01月"; anything else is returned as is
func FormatMonthLabel(month string) string {
	parts := strings.Split(month, "-")
	if len(parts) != 2 {
		return month
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || parts[0] == "" {
		return month
	}
	return fmt.Sprintf("%s年%02d月", parts[0], m)
}

// chartSeries accumulates one video's values keyed by month
type chartSeries struct {
	title  string
	values map[string]int64
}

// seriesSet keeps series in first-appearance order
type seriesSet struct {
	order  []string
	series map[string]*chartSeries
	months map[string]struct{}
}

func newSeriesSet() *seriesSet {
	return &seriesSet{series: map[string]*chartSeries{}, months: map[string]struct{}{}}
}

func (s *seriesSet) get(videoID, title string) *chartSeries {
	cs, ok := s.series[videoID]
	if !ok {
		cs = &chartSeries{title: title, values: map[string]int64{}}
		s.series[videoID] = cs
		s.order = append(s.order, videoID)
	}
	return cs
}

// chart lays the series out over the sorted month union. When fillZero is
// false, months without a value stay nil.
func (s *seriesSet) chart(fillZero bool) *model.Chart {
	months := make([]string, 0, len(s.months))
	for m := range s.months {
		months = append(months, m)
	}
	sort.Strings(months)

	chart := &model.Chart{
		Labels:   make([]string, 0, len(months)),
		Datasets: make([]model.ChartDataset, 0, len(s.order)),
	}
	for _, m := range months {
		chart.Labels = append(chart.Labels, FormatMonthLabel(m))
	}
	for i, id := range s.order {
		cs := s.series[id]
		data := make([]*int64, 0, len(months))
		for _, m := range months {
			v, ok := cs.values[m]
			if !ok && !fillZero {
				data = append(data, nil)
				continue
			}
			data = append(data, &v)
		}
		color := chartPalette[i%len(chartPalette)]
		chart.Datasets = append(chart.Datasets, model.ChartDataset{
			Label:           truncateTitle(cs.title),
			Data:            data,
			BorderColor:     color,
			BackgroundColor: color + "20",
			Fill:            false,
			Tension:         chartTension,
		})
	}
	return chart
}

func emptyChart(message string) *model.Chart {
	return &model.Chart{Labels: []string{}, Datasets: []model.ChartDataset{}, Message: message}
}

// BuildCommentsChart charts comment volume per month, one line per video.
// Months a video has no comments in are 0.
func BuildCommentsChart(rows []model.VideoMonthCount) *model.Chart {
	set := newSeriesSet()
	for _, r := range rows {
		if r.Month == "" {
			continue
		}
		cs := set.get(r.VideoID, r.Title)
		cs.values[r.Month] += r.Count
		set.months[r.Month] = struct{}{}
	}
	if len(set.months) == 0 {
		return emptyChart(commentsChartEmptyMessage)
	}
	return set.chart(true)
}

// BuildViewsChart charts view counts per month from snapshots. Within a month the
// latest snapshot wins; months without a snapshot are null.
func BuildViewsChart(rows []model.SnapshotRecord) *model.Chart {
	set := newSeriesSet()
	latest := map[string]string{}
	for _, r := range rows {
		month := MonthOf(r.SnapshotDate)
		if month == "" {
			continue
		}
		cs := set.get(r.VideoID, r.Title)
		key := r.VideoID + "|" + month
		if at, ok := latest[key]; ok && r.SnapshotDate <= at {
			continue
		}
		latest[key] = r.SnapshotDate
		cs.values[month] = r.ViewCount
		set.months[month] = struct{}{}
	}
	if len(set.months) == 0 {
		return emptyChart(viewsChartEmptyMessage)
	}
	return set.chart(false)
}

// BuildViewTrends lists snapshot history by title ascending and date descending.
// Without any snapshot it falls back to one row per video, newest publish first.
func BuildViewTrends(snapshots []model.SnapshotRecord, videos []model.Video) []model.ViewTrend {
	if len(snapshots) > 0 {
		sorted := make([]model.SnapshotRecord, len(snapshots))
		copy(sorted, snapshots)
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Title != sorted[j].Title {
				return sorted[i].Title < sorted[j].Title
			}
			return sorted[i].SnapshotDate > sorted[j].SnapshotDate
		})
		trends := make([]model.ViewTrend, 0, len(sorted))
		for _, s := range sorted {
			trends = append(trends, model.ViewTrend{
				Title:        s.Title,
				VideoID:      s.VideoID,
				Month:        MonthOf(s.SnapshotDate),
				ViewCount:    s.ViewCount,
				LikeCount:    s.LikeCount,
				CommentCount: s.CommentCount,
				SnapshotDate: s.SnapshotDate,
				Note:         model.TrendNoteSnapshot,
			})
		}
		return trends
	}

	sorted := make([]model.Video, len(videos))
	copy(sorted, videos)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].PublishedAt > sorted[j].PublishedAt })
	trends := make([]model.ViewTrend, 0, len(sorted))
	for _, v := range sorted {
		trends = append(trends, model.ViewTrend{
			Title:        v.Title,
			VideoID:      v.ID,
			Month:        MonthOf(v.PublishedAt),
			ViewCount:    v.ViewCount,
			LikeCount:    v.LikeCount,
			CommentCount: v.CommentCount,
			Note:         model.TrendNoteInitial,
		})
	}
	return trends
}

func truncateTitle(title string) string {
	if utf8.RuneCountInString(title) <= chartTitleRunes {
		return title
	}
	return string([]rune(title)[:chartTitleRunes]) + "..."
}
