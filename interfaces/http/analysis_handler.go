package http

import (
	"errors"
	"net/http"
	"strings"

	"comment-insight/domain/dto"
	"comment-insight/domain/model"
	"comment-insight/infrastructure/logger"
	"comment-insight/infrastructure/utils"
	"comment-insight/usecase"

	"github.com/gin-gonic/gin"
)

// IAnalysisHandler defines the HTTP handlers of the analysis API
type IAnalysisHandler interface {
	LastUpdated(ctx *gin.Context)
	Analyze(ctx *gin.Context)
	AnalyzeCSV(ctx *gin.Context)

	Rankings(ctx *gin.Context)
	ViewTrends(ctx *gin.Context)
	MonthlyCommentsChart(ctx *gin.Context)
	MonthlyViewsChart(ctx *gin.Context)
	DatabaseManagement(ctx *gin.Context)

	DeleteVideo(ctx *gin.Context)
	ClearDatabase(ctx *gin.Context)
}

type AnalysisHandler struct {
	analysisUsecase usecase.IAnalysisUsecase
}

func NewAnalysisHandler(analysisUsecase usecase.IAnalysisUsecase) IAnalysisHandler {
	return &AnalysisHandler{analysisUsecase: analysisUsecase}
}

// LastUpdated handles GET /api/last_updated
func (h *AnalysisHandler) LastUpdated(ctx *gin.Context) {
	res := dto.LastUpdatedResponse{}
	if at, ok := h.analysisUsecase.LastUpdated(); ok {
		formatted := utils.FormatLastUpdated(at)
		res.LastUpdated = &formatted
	}
	ctx.JSON(http.StatusOK, res)
}

// Analyze handles POST /api/analyze
func (h *AnalysisHandler) Analyze(ctx *gin.Context) {
	var req dto.AnalyzeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.VideoURL) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Video URL is required"})
		return
	}

	result, err := h.analysisUsecase.AnalyzeVideo(ctx.Request.Context(), req.VideoURL)
	if err != nil {
		respondError(ctx, "analyze", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// AnalyzeCSV handles POST /api/analyze_csv
func (h *AnalysisHandler) AnalyzeCSV(ctx *gin.Context) {
	result, err := h.analysisUsecase.AnalyzeBatch(ctx.Request.Context())
	if err != nil {
		respondError(ctx, "analyze_csv", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

func (h *AnalysisHandler) Rankings(ctx *gin.Context) {
	rankings, err := h.analysisUsecase.GetRankings(ctx.Request.Context())
	if err != nil {
		respondError(ctx, "rankings", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": rankings})
}

func (h *AnalysisHandler) ViewTrends(ctx *gin.Context) {
	trends, err := h.analysisUsecase.GetViewTrends(ctx.Request.Context())
	if err != nil {
		respondError(ctx, "view_trends", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": trends})
}

func (h *AnalysisHandler) MonthlyCommentsChart(ctx *gin.Context) {
	chart, err := h.analysisUsecase.GetMonthlyCommentsChart(ctx.Request.Context())
	if err != nil {
		respondError(ctx, "monthly_comments_chart", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": chart})
}

func (h *AnalysisHandler) MonthlyViewsChart(ctx *gin.Context) {
	chart, err := h.analysisUsecase.GetMonthlyViewsChart(ctx.Request.Context())
	if err != nil {
		respondError(ctx, "monthly_views_chart", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": chart})
}

// DatabaseManagement handles GET /api/database_management
func (h *AnalysisHandler) DatabaseManagement(ctx *gin.Context) {
	videos, err := h.analysisUsecase.ListVideos(ctx.Request.Context())
	if err != nil {
		respondError(ctx, "database_management", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": videos})
}

// DeleteVideo handles POST /api/delete_video
func (h *AnalysisHandler) DeleteVideo(ctx *gin.Context) {
	var req dto.DeleteVideoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.VideoID) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Video ID is required"})
		return
	}

	if err := h.analysisUsecase.DeleteVideo(ctx.Request.Context(), req.VideoID); err != nil {
		respondError(ctx, "delete_video", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "動画データを削除しました: " + req.VideoID})
}

// ClearDatabase handles POST /api/clear_database
func (h *AnalysisHandler) ClearDatabase(ctx *gin.Context) {
	if err := h.analysisUsecase.ClearAll(ctx.Request.Context()); err != nil {
		respondError(ctx, "clear_database", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "すべてのデータを削除しました"})
}

func respondError(ctx *gin.Context, route string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrSourceUnavailable):
		status = http.StatusServiceUnavailable
	}
	entry := logger.GetLogger().WithFields(map[string]interface{}{"route": route, "status": status, "error": err})
	if status == http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}
	ctx.JSON(status, gin.H{"success": false, "error": err.Error()})
}
