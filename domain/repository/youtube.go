package repository

import (
	"context"

	"comment-insight/domain/dto"
	"comment-insight/domain/model"
)

// IVideoSource defines the read-only YouTube operations the analysis needs
type IVideoSource interface {
	// GetVideoInfo returns title, counters and publish time. Unknown ids yield model.ErrNotFound.
	GetVideoInfo(ctx context.Context, videoID string) (*model.Video, error)
	// ListCommentThreads returns one page of top-level comments
	ListCommentThreads(ctx context.Context, req *dto.CommentThreadRequest) (*dto.CommentThreadPage, error)
}
