package model

import "time"

// SentimentLabel is the three-way classification attached to a comment
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// SentimentLabels lists the labels in presentation order
var SentimentLabels = []SentimentLabel{SentimentPositive, SentimentNegative, SentimentNeutral}

// Sentiment is the classifier output for a single comment body
type Sentiment struct {
	Score float64        `json:"sentiment_score"`
	Label SentimentLabel `json:"sentiment_label"`
}

// Video represents a YouTube video as stored after analysis.
// PublishedAt keeps the ISO-8601 string returned by the API.
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	PublishedAt  string    `json:"published_at"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// Comment represents a top-level YouTube comment with its derived sentiment
type Comment struct {
	ID             string         `json:"id"`
	VideoID        string         `json:"video_id"`
	Text           string         `json:"text"`
	PublishedAt    string         `json:"published_at"`
	LikeCount      int64          `json:"like_count"`
	SentimentScore float64        `json:"sentiment_score"`
	SentimentLabel SentimentLabel `json:"sentiment_label"`
}

// ViewSnapshot is an append-only observation of a video's counters
type ViewSnapshot struct {
	ID           int64  `json:"id"`
	VideoID      string `json:"video_id"`
	ViewCount    int64  `json:"view_count"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
	SnapshotDate string `json:"snapshot_date"` // 2006-01-02 15:04:05
}

// MonthlyStat aggregates comment sentiment for one video in one calendar month
type MonthlyStat struct {
	ID               int64   `json:"id"`
	VideoID          string  `json:"video_id"`
	Month            string  `json:"month"` // YYYY-MM
	PositiveComments int64   `json:"positive_comments"`
	NegativeComments int64   `json:"negative_comments"`
	TotalComments    int64   `json:"total_comments"`
	AvgSentiment     float64 `json:"avg_sentiment"`
}

// SnapshotDateLayout is the layout used for ViewSnapshot.SnapshotDate
const SnapshotDateLayout = "2006-01-02 15:04:05"
