package model

import "time"

// SentimentSummary counts comments per label for one analysis
type SentimentSummary struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Add increments the counter for label
func (s *SentimentSummary) Add(label SentimentLabel) {
	switch label {
	case SentimentPositive:
		s.Positive++
	case SentimentNegative:
		s.Negative++
	default:
		s.Neutral++
	}
}

// RepresentativeComment is a trimmed comment shown as an example for a label
type RepresentativeComment struct {
	Text           string  `json:"text"`
	LikeCount      int64   `json:"like_count"`
	SentimentScore float64 `json:"sentiment_score"`
	PublishedAt    string  `json:"published_at"`
}

// RepresentativeComments holds up to five examples per label
type RepresentativeComments struct {
	Positive []RepresentativeComment `json:"positive"`
	Negative []RepresentativeComment `json:"negative"`
	Neutral  []RepresentativeComment `json:"neutral"`
}

// AnalysisResult is returned after a single video has been analysed and stored
type AnalysisResult struct {
	VideoInfo              Video                  `json:"video_info"`
	SentimentSummary       SentimentSummary       `json:"sentiment_summary"`
	TotalCommentsAnalyzed  int                    `json:"total_comments_analyzed"`
	RepresentativeComments RepresentativeComments `json:"representative_comments"`
	AnalysisComplete       bool                   `json:"analysis_complete"`
}

// BatchItemResult records the outcome of one URL in a batch run
type BatchItemResult struct {
	URL              string `json:"url"`
	Success          bool   `json:"success"`
	Title            string `json:"title,omitempty"`
	ViewCount        int64  `json:"view_count,omitempty"`
	CommentsAnalyzed int    `json:"comments_analyzed,omitempty"`
	Error            string `json:"error,omitempty"`
}

// BatchResult is the tally returned by a batch analysis
type BatchResult struct {
	TotalURLs   int               `json:"total_urls"`
	Successful  int               `json:"successful"`
	Failed      int               `json:"failed"`
	Results     []BatchItemResult `json:"results"`
	Message     string            `json:"message"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt time.Time         `json:"completed_at"`
}

// BatchProgress is broadcast to stream subscribers while a batch runs
type BatchProgress struct {
	Type    string `json:"type"` // batch_started | item_done | batch_done
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	URL     string `json:"url,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// EventAnalysisCompleted is the type of events published after a video is stored
const EventAnalysisCompleted = "analysis.completed"

// AnalysisEvent is published after a video analysis has been persisted
type AnalysisEvent struct {
	Type             string           `json:"type"`
	VideoID          string           `json:"video_id"`
	Title            string           `json:"title"`
	CommentsAnalyzed int              `json:"comments_analyzed"`
	Summary          SentimentSummary `json:"sentiment_summary"`
	AnalyzedAt       time.Time        `json:"analyzed_at"`
}

// RankingKey selects the monthly stat column a ranking is ordered by
type RankingKey string

const (
	RankByNegative RankingKey = "negative"
	RankByPositive RankingKey = "positive"
	RankByTotal    RankingKey = "total"
)

// RankingEntry is one (video, month) row of a ranking
type RankingEntry struct {
	VideoID          string `json:"video_id"`
	Title            string `json:"title"`
	Month            string `json:"month"`
	PositiveComments int64  `json:"positive_comments"`
	NegativeComments int64  `json:"negative_comments"`
	TotalComments    int64  `json:"total_comments"`
}

// VideoMonthCount is the number of comments a video received in one month
type VideoMonthCount struct {
	VideoID     string
	Title       string
	PublishedAt string
	Month       string
	Count       int64
}

// SnapshotRecord joins a view snapshot with its video title
type SnapshotRecord struct {
	VideoID      string
	Title        string
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
	SnapshotDate string
}

// VideoSummary describes a stored video for the management view
type VideoSummary struct {
	Video
	TotalCommentsAnalyzed int64 `json:"total_comments_analyzed"`
	SnapshotsCount        int64 `json:"snapshots_count"`
}
