package model

// Rankings groups the three monthly-stat leaderboards
type Rankings struct {
	TopNegative []RankingEntry `json:"top_negative"`
	TopPositive []RankingEntry `json:"top_positive"`
	TopComments []RankingEntry `json:"top_comments"`
}

// ViewTrend is one row of the view history listing
type ViewTrend struct {
	Title        string `json:"title"`
	VideoID      string `json:"video_id"`
	Month        string `json:"month"`
	ViewCount    int64  `json:"view_count"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
	SnapshotDate string `json:"snapshot_date,omitempty"`
	Note         string `json:"note"`
}

const (
	TrendNoteSnapshot = "snapshot"
	TrendNoteInitial  = "initial analysis"
)

// ChartDataset is one line of a chart.js line chart.
// Data entries are nil where the series has no value for a label.
type ChartDataset struct {
	Label           string   `json:"label"`
	Data            []*int64 `json:"data"`
	BorderColor     string   `json:"borderColor"`
	BackgroundColor string   `json:"backgroundColor"`
	Fill            bool     `json:"fill"`
	Tension         float64  `json:"tension"`
}

// Chart is a chart.js compatible payload keyed by month labels
type Chart struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
	Message  string         `json:"message,omitempty"`
}

// IsEmpty reports whether the chart carries no series
func (c *Chart) IsEmpty() bool {
	return c == nil || len(c.Datasets) == 0
}
