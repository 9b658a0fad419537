package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	dto "github.com/rraj-official/radical-content-analyzer-sub000/internal/adapter/dto/analysis"
	"github.com/rraj-official/radical-content-analyzer-sub000/internal/adapter/presenter"
	analysisUsecase "github.com/rraj-official/radical-content-analyzer-sub000/internal/usecase/analysis"
)

// Feedback handles analysis feedback HTTP requests
type Feedback struct {
	service *analysisUsecase.Service
	logger  *zap.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(service *analysisUsecase.Service, logger *zap.Logger) *Feedback {
	return &Feedback{
		service: service,
		logger:  logger,
	}
}

// Submit handles POST /v1/feedback
func (h *Feedback) Submit(c echo.Context) error {
	var req dto.FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation_failed", err)
	}

	analysisID, err := uuid.Parse(req.AnalysisID)
	if err != nil {
		return badRequest(c, "invalid_analysis_id", err)
	}

	feedback, err := h.service.SubmitFeedback(c.Request().Context(), analysisID, *req.Helpful, req.Comment)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, presenter.ToFeedbackResponse(feedback))
}
