package usecase

import (
	"context"
	"sort"

	"comment-insight/domain/dto"
	"comment-insight/domain/model"
	"comment-insight/domain/repository"
	"comment-insight/infrastructure/logger"
)

const (
	// DefaultMaxComments caps how many comments are collected per video
	DefaultMaxComments = 2000
	pageSize           = 100
	// stop trying further orderings once this share of the cap is reached
	sufficientShare = 0.8
)

// commentOrderings are tried in turn; the largest result wins
var commentOrderings = []string{dto.CommentOrderTime, dto.CommentOrderRelevance}

// CommentFetcher pages through top-level comments of a video
type CommentFetcher struct {
	source repository.IVideoSource
}

func NewCommentFetcher(source repository.IVideoSource) *CommentFetcher {
	return &CommentFetcher{source: source}
}

// Fetch returns at most maxResults unique comments sorted by publish time.
// Source failures end the crawl early and whatever was collected is kept, so
// Fetch never fails; it may return an empty slice.
func (f *CommentFetcher) Fetch(ctx context.Context, videoID string, maxResults int) []model.Comment {
	if maxResults <= 0 {
		maxResults = DefaultMaxComments
	}
	log := logger.GetLogger().WithField("video_id", videoID)

	var best []model.Comment
	for _, order := range commentOrderings {
		collected, err := f.fetchOrdering(ctx, videoID, order, maxResults)
		if len(collected) > len(best) {
			best = collected
		}
		if err != nil {
			log.WithFields(map[string]interface{}{
				"order":     order,
				"collected": len(collected),
				"error":     err,
			}).Warn("comment fetch stopped early")
			break
		}
		log.WithFields(map[string]interface{}{"order": order, "collected": len(collected)}).Debug("comment ordering fetched")
		if float64(len(best)) >= float64(maxResults)*sufficientShare {
			break
		}
	}

	result := dedupeAndSort(best)
	if len(result) > 0 {
		log.WithFields(map[string]interface{}{
			"count": len(result),
			"from":  datePrefix(result[0].PublishedAt),
			"to":    datePrefix(result[len(result)-1].PublishedAt),
		}).Info("comments fetched")
	} else {
		log.Info("no comments fetched")
	}
	return result
}

// fetchOrdering pages one ordering until maxResults or the last page.
// On error it returns the comments gathered so far along with the error.
func (f *CommentFetcher) fetchOrdering(ctx context.Context, videoID, order string, maxResults int) ([]model.Comment, error) {
	seen := make(map[string]struct{})
	collected := make([]model.Comment, 0)
	pageToken := ""

	for len(collected) < maxResults {
		if err := ctx.Err(); err != nil {
			return collected, err
		}
		req := &dto.CommentThreadRequest{
			VideoID:    videoID,
			MaxResults: int64(min(pageSize, maxResults-len(collected))),
			PageToken:  pageToken,
			Order:      order,
		}
		page, err := f.source.ListCommentThreads(ctx, req)
		if err != nil {
			return collected, err
		}
		for _, c := range page.Items {
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			if c.VideoID == "" {
				c.VideoID = videoID
			}
			collected = append(collected, c)
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}
	return collected, nil
}

// dedupeAndSort keeps the first occurrence of every id and orders by PublishedAt
func dedupeAndSort(comments []model.Comment) []model.Comment {
	seen := make(map[string]struct{}, len(comments))
	out := make([]model.Comment, 0, len(comments))
	for _, c := range comments {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt < out[j].PublishedAt
	})
	return out
}

func datePrefix(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}
