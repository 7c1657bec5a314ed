package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"comment-insight/domain/dto"
	"comment-insight/domain/model"
	"comment-insight/domain/repository"
	"comment-insight/infrastructure/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Client reads video metadata and comment threads from the YouTube Data API
type Client struct {
	mu          sync.Mutex
	service     *youtube.Service
	limiter     *rate.Limiter
	oauthConfig *oauth2.Config
	token       *oauth2.Token
	opts        []option.ClientOption
	ctx         context.Context
}

// Config represents YouTube API configuration
type Config struct {
	ClientID          string  `json:"client_id"`
	ClientSecret      string  `json:"client_secret"`
	RedirectURL       string  `json:"redirect_url"`
	AccessToken       string  `json:"access_token"`
	RefreshToken      string  `json:"refresh_token"`
	APIKey            string  `json:"api_key"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	Burst             int     `json:"burst"`
}

// NewYouTubeClient creates a read-only client. An API key takes the key-only
// path; otherwise the access/refresh token pair is used through oauth2.
// Extra options are appended to the service options (endpoint overrides, http client).
func NewYouTubeClient(ctx context.Context, config *Config, opts ...option.ClientOption) (repository.IVideoSource, error) {
	if config == nil {
		return nil, fmt.Errorf("youtube config is required: %w", model.ErrInvalidInput)
	}
	c := &Client{
		limiter: newLimiter(config.RequestsPerSecond, config.Burst),
		opts:    opts,
		ctx:     ctx,
	}

	if config.APIKey != "" && (config.AccessToken == "" || config.RefreshToken == "") {
		service, err := youtube.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(config.APIKey)}, opts...)...)
		if err != nil {
			return nil, fmt.Errorf("failed to create YouTube service with API key: %w", err)
		}
		c.service = service
		return c, nil
	}

	if config.AccessToken == "" || config.RefreshToken == "" {
		return nil, fmt.Errorf("youtube api key or oauth tokens are required: %w", model.ErrSourceUnavailable)
	}

	c.oauthConfig = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       []string{youtube.YoutubeReadonlyScope, youtube.YoutubeForceSslScope},
		Endpoint:     google.Endpoint,
	}
	c.token = &oauth2.Token{
		AccessToken:  config.AccessToken,
		RefreshToken: config.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(-1 * time.Minute), // force refresh on first use
	}
	service, err := c.newOAuthService(c.token)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	c.service = service
	return c, nil
}

func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func (c *Client) newOAuthService(token *oauth2.Token) (*youtube.Service, error) {
	httpClient := c.oauthConfig.Client(c.ctx, token)
	return youtube.NewService(c.ctx, append([]option.ClientOption{option.WithHTTPClient(httpClient)}, c.opts...)...)
}

// prepare waits for a rate-limit slot and refreshes the OAuth token when close to expiry
func (c *Client) prepare(ctx context.Context) (*youtube.Service, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.refreshTokenIfNeeded(); err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	return c.service, nil
}

// GetVideoInfo returns the snippet and statistics of one video
func (c *Client) GetVideoInfo(ctx context.Context, videoID string) (*model.Video, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video ID is required: %w", model.ErrInvalidInput)
	}
	service, err := c.prepare(ctx)
	if err != nil {
		return nil, err
	}

	response, err := service.Videos.List([]string{"snippet", "statistics"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("video not found: %s: %w", videoID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get video details: %w", err)
	}
	if len(response.Items) == 0 {
		return nil, fmt.Errorf("video not found: %s: %w", videoID, model.ErrNotFound)
	}

	return convertToVideo(response.Items[0]), nil
}

// ListCommentThreads returns one page of top-level comments for a video
func (c *Client) ListCommentThreads(ctx context.Context, req *dto.CommentThreadRequest) (*dto.CommentThreadPage, error) {
	if req == nil || req.VideoID == "" {
		return nil, fmt.Errorf("video ID is required: %w", model.ErrInvalidInput)
	}
	service, err := c.prepare(ctx)
	if err != nil {
		return nil, err
	}

	call := service.CommentThreads.List([]string{"snippet"}).
		VideoId(req.VideoID).
		Context(ctx)
	if req.MaxResults > 0 {
		call = call.MaxResults(req.MaxResults)
	}
	if req.Order != "" {
		call = call.Order(req.Order)
	}
	if req.PageToken != "" {
		call = call.PageToken(req.PageToken)
	}

	response, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list comment threads: %w", err)
	}

	page := &dto.CommentThreadPage{
		Items:         make([]model.Comment, 0, len(response.Items)),
		NextPageToken: response.NextPageToken,
	}
	for _, item := range response.Items {
		if comment, ok := convertToComment(req.VideoID, item); ok {
			page.Items = append(page.Items, comment)
		}
	}
	return page, nil
}

func convertToVideo(video *youtube.Video) *model.Video {
	v := &model.Video{ID: video.Id}
	if video.Snippet != nil {
		v.Title = video.Snippet.Title
		v.PublishedAt = video.Snippet.PublishedAt
	}
	if video.Statistics != nil {
		v.ViewCount = int64(video.Statistics.ViewCount)
		v.LikeCount = int64(video.Statistics.LikeCount)
		v.CommentCount = int64(video.Statistics.CommentCount)
	}
	return v
}

func convertToComment(videoID string, thread *youtube.CommentThread) (model.Comment, bool) {
	if thread == nil || thread.Snippet == nil || thread.Snippet.TopLevelComment == nil || thread.Snippet.TopLevelComment.Snippet == nil {
		return model.Comment{}, false
	}
	snippet := thread.Snippet.TopLevelComment.Snippet
	return model.Comment{
		ID:          thread.Id,
		VideoID:     videoID,
		Text:        snippet.TextDisplay,
		PublishedAt: snippet.PublishedAt,
		LikeCount:   snippet.LikeCount,
	}, true
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

func (c *Client) refreshTokenIfNeeded() error {
	// API key mode
	if c.oauthConfig == nil || c.token == nil {
		return nil
	}
	if c.token.Expiry.IsZero() || time.Until(c.token.Expiry) < 5*time.Minute {
		newToken, err := c.oauthConfig.TokenSource(c.ctx, c.token).Token()
		if err != nil {
			return fmt.Errorf("failed to refresh token: %w", err)
		}
		c.token = newToken
		service, err := c.newOAuthService(newToken)
		if err != nil {
			return fmt.Errorf("failed to recreate YouTube service with refreshed token: %w", err)
		}
		c.service = service
		logger.GetLogger().WithField("expiry", newToken.Expiry).Info("YouTube token refreshed")
	}
	return nil
}
