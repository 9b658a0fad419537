package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rraj-official/radical-content-analyzer-sub000/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg             *config.Config
	analysisHandler *Analysis
	feedbackHandler *Feedback
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, analysisHandler *Analysis, feedbackHandler *Feedback) *Router {
	return &Router{
		cfg:             cfg,
		analysisHandler: analysisHandler,
		feedbackHandler: feedbackHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	v1 := e.Group("/v1")
	rt.setupAnalysisRoutes(v1)
	rt.setupFeedbackRoutes(v1)
}

// setupAnalysisRoutes configures content analysis routes
func (rt *Router) setupAnalysisRoutes(g *echo.Group) {
	analyses := g.Group("/analyses")
	analyses.POST("/video/url", rt.analysisHandler.AnalyzeURL)
	analyses.POST("/video/upload", rt.analysisHandler.AnalyzeUpload)
	analyses.POST("/text", rt.analysisHandler.AnalyzeText)
	analyses.GET("/:id", rt.analysisHandler.GetAnalysis)
}

// setupFeedbackRoutes configures feedback routes
func (rt *Router) setupFeedbackRoutes(g *echo.Group) {
	g.POST("/feedback", rt.feedbackHandler.Submit)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
