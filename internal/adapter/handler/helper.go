package handler

import (
	stdErrors "errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rraj-official/radical-content-analyzer-sub000/errors"
	"github.com/rraj-official/radical-content-analyzer-sub000/internal/adapter/dto/common"
	usecaseErrors "github.com/rraj-official/radical-content-analyzer-sub000/internal/usecase/errors"
)

// HandleError maps pipeline and usecase errors to HTTP responses
func HandleError(c echo.Context, logger *zap.Logger, err error) error {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return c.JSON(appErr.HTTPCode, common.ErrorResponse{
			Error:   appErr.Code.String(),
			Message: appErr.Message,
			Details: appErr.Details,
		})
	}

	switch {
	case stdErrors.Is(err, usecaseErrors.ErrAnalysisNotFound):
		appErr = errors.ErrNotFound("analysis")
	case stdErrors.Is(err, usecaseErrors.ErrAcquisitionFailed):
		appErr = errors.ErrMediaAcquisitionFailed(err)
	case stdErrors.Is(err, usecaseErrors.ErrExtractionFailed):
		appErr = errors.ErrAudioExtractionFailed(err)
	case stdErrors.Is(err, usecaseErrors.ErrChunkingFailed):
		appErr = errors.ErrAudioChunkingFailed(err)
	case stdErrors.Is(err, usecaseErrors.ErrEmptyTranscript):
		appErr = errors.ErrInvalidArgument("no transcribable speech was found in the source")
	default:
		if logger != nil {
			logger.Error("❌ Unhandled request error", zap.Error(err))
		}
		appErr = errors.ErrInternal(err)
	}

	return c.JSON(appErr.HTTPCode, common.ErrorResponse{
		Error:   appErr.Code.String(),
		Message: appErr.Message,
		Details: appErr.Details,
	})
}

// readAll drains a reader up to limit bytes
func readAll(r io.Reader, limit int64) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// badRequest writes a 400 with a short machine-readable error tag
func badRequest(c echo.Context, tag string, err error) error {
	return c.JSON(http.StatusBadRequest, common.ErrorResponse{
		Error:   tag,
		Message: err.Error(),
	})
}
