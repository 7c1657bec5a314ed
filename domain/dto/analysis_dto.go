package dto

// AnalyzeRequest represents the body of POST /api/analyze
type AnalyzeRequest struct {
	VideoURL string `json:"video_url"`
}

// DeleteVideoRequest represents the body of POST /api/delete_video
type DeleteVideoRequest struct {
	VideoID string `json:"video_id"`
}

// LastUpdatedResponse reports when the last batch finished; nil before the first run
type LastUpdatedResponse struct {
	LastUpdated *string `json:"last_updated"`
}

// MessageResponse is returned by the destructive admin routes
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
