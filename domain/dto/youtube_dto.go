package dto

import "comment-insight/domain/model"

// Comment orderings accepted by commentThreads.list
const (
	CommentOrderTime      = "time"
	CommentOrderRelevance = "relevance"
)

// CommentThreadRequest represents one page request for top-level comments
type CommentThreadRequest struct {
	VideoID    string `json:"video_id" binding:"required"`
	MaxResults int64  `json:"max_results,omitempty"`
	PageToken  string `json:"page_token,omitempty"`
	Order      string `json:"order,omitempty"` // time, relevance
}

// CommentThreadPage is one page of top-level comments
type CommentThreadPage struct {
	Items         []model.Comment `json:"items"`
	NextPageToken string          `json:"next_page_token,omitempty"`
}
