package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rraj-official/radical-content-analyzer-sub000/errors"
	dto "github.com/rraj-official/radical-content-analyzer-sub000/internal/adapter/dto/analysis"
	"github.com/rraj-official/radical-content-analyzer-sub000/internal/adapter/dto/common"
	"github.com/rraj-official/radical-content-analyzer-sub000/internal/adapter/presenter"
	analysisUsecase "github.com/rraj-official/radical-content-analyzer-sub000/internal/usecase/analysis"
)

const maxTextBytes = 1 << 20

// Analysis handles content analysis HTTP requests
type Analysis struct {
	service *analysisUsecase.Service
	logger  *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service *analysisUsecase.Service, logger *zap.Logger) *Analysis {
	return &Analysis{
		service: service,
		logger:  logger,
	}
}

// AnalyzeURL handles POST /v1/analyses/video/url
func (h *Analysis) AnalyzeURL(c echo.Context) error {
	var req dto.AnalyzeURLRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation_failed", err)
	}

	outcome, err := h.service.AnalyzeURL(c.Request().Context(), req.URL, req.Languages)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, presenter.ToAnalysisResponse(outcome))
}

// AnalyzeUpload handles POST /v1/analyses/video/upload
func (h *Analysis) AnalyzeUpload(c echo.Context) error {
	file, err := c.FormFile("video")
	if err != nil {
		appErr := errors.ErrMissingSource()
		return c.JSON(appErr.HTTPCode, common.ErrorResponse{
			Error:   appErr.Code.String(),
			Message: appErr.Message,
		})
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "video/") {
		appErr := errors.ErrUnsupportedMediaType(contentType)
		return c.JSON(appErr.HTTPCode, common.ErrorResponse{
			Error:   appErr.Code.String(),
			Message: appErr.Message,
			Details: appErr.Details,
		})
	}

	src, err := file.Open()
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	defer src.Close()

	languages := splitLanguages(c.FormValue("languages"))

	outcome, err := h.service.AnalyzeUpload(c.Request().Context(), src, file.Filename, languages)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, presenter.ToAnalysisResponse(outcome))
}

// AnalyzeText handles POST /v1/analyses/text
func (h *Analysis) AnalyzeText(c echo.Context) error {
	file, err := c.FormFile("text")
	if err != nil {
		appErr := errors.ErrMissingSource()
		return c.JSON(appErr.HTTPCode, common.ErrorResponse{
			Error:   appErr.Code.String(),
			Message: appErr.Message,
		})
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "text/plain") {
		appErr := errors.ErrUnsupportedMediaType(contentType)
		return c.JSON(appErr.HTTPCode, common.ErrorResponse{
			Error:   appErr.Code.String(),
			Message: appErr.Message,
			Details: appErr.Details,
		})
	}
	if file.Size > maxTextBytes {
		return badRequest(c, "text_too_large", fmt.Errorf("text file exceeds %d bytes", maxTextBytes))
	}

	src, err := file.Open()
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	defer src.Close()

	text, err := readAll(src, maxTextBytes)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	outcome, err := h.service.AnalyzeText(c.Request().Context(), strings.TrimSpace(text))
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, presenter.ToAnalysisResponse(outcome))
}

// GetAnalysis handles GET /v1/analyses/:id
func (h *Analysis) GetAnalysis(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid_analysis_id", err)
	}

	record, err := h.service.GetAnalysis(c.Request().Context(), id)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, presenter.FromRecord(record))
}

func splitLanguages(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	languages := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			languages = append(languages, p)
		}
	}
	return languages
}
