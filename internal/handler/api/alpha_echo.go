package api

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	models "AlphaPulse/internal/domain/models"
	drepo "AlphaPulse/internal/domain/repository"
	mid "AlphaPulse/internal/middleware"
	"AlphaPulse/internal/service/ratelimit"
	xhttp "AlphaPulse/pkg/http"
	xlogger "AlphaPulse/pkg/logger"
)

// Consumer-side views of the usecases, kept narrow so tests stub them.
type ScoreReader interface {
	Score(ctx context.Context, userID string) (models.AlphaScore, error)
}

type BiasDetector interface {
	Detect(ctx context.Context, userID string) ([]models.BiasAnalysis, error)
}

type SignalGenerator interface {
	Generate(ctx context.Context, userID string) ([]models.AlphaSignal, error)
}

type InsightsBuilder interface {
	Build(ctx context.Context, userID string) (models.AlphaInsights, error)
}

// AlphaEchoHandler implements the Echo-based alpha HTTP surface.
type AlphaEchoHandler struct {
	logger    *xlogger.Logger
	scores    ScoreReader
	detector  BiasDetector
	generator SignalGenerator
	insights  InsightsBuilder
	biases    drepo.BiasStore
	signals   drepo.SignalStore
	limiter   *ratelimit.Limiter
	rlBurst   int
	rlWindow  time.Duration
}

func NewAlphaEchoHandler(
	logger *xlogger.Logger,
	scores ScoreReader,
	detector BiasDetector,
	generator SignalGenerator,
	insights InsightsBuilder,
	biases drepo.BiasStore,
	signals drepo.SignalStore,
	limiter *ratelimit.Limiter,
	rlBurst int,
	rlWindow time.Duration,
) *AlphaEchoHandler {
	return &AlphaEchoHandler{
		logger:    logger,
		scores:    scores,
		detector:  detector,
		generator: generator,
		insights:  insights,
		biases:    biases,
		signals:   signals,
		limiter:   limiter,
		rlBurst:   rlBurst,
		rlWindow:  rlWindow,
	}
}

func (h *AlphaEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/alpha", mid.Identity())
	g.GET("/score", h.Score)
	g.GET("/biases", h.Biases)
	g.GET("/signals", h.Signals)
	g.GET("/insights", h.Insights)

	writes := mid.UserRateLimit(h.limiter, h.rlBurst, h.rlWindow)
	g.POST("/biases/detect", h.DetectBiases, writes)
	g.POST("/signals/generate", h.GenerateSignals, writes)
}

func (h *AlphaEchoHandler) Score(c echo.Context) error {
	score, err := h.scores.Score(c.Request().Context(), mid.UserID(c))
	if err != nil {
		h.logger.Error("score usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, score)
}

func (h *AlphaEchoHandler) Biases(c echo.Context) error {
	req := &models.ListBiasesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	biases, err := h.biases.RecentBiases(c.Request().Context(), mid.UserID(c), req.Limit)
	if err != nil {
		h.logger.Error("list biases error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if since := xhttp.ParseTimeDefault(c.QueryParam("since"), time.Time{}); !since.IsZero() {
		filtered := biases[:0]
		for _, b := range biases {
			if !b.DetectedAt.Before(since) {
				filtered = append(filtered, b)
			}
		}
		biases = filtered
	}
	if biases == nil {
		biases = []models.BiasAnalysis{}
	}
	return xhttp.SuccessResponse(c, biases)
}

type detectionResult struct {
	Biases  []models.BiasAnalysis `json:"biases"`
	Count   int                   `json:"count"`
	Message string                `json:"message"`
}

func (h *AlphaEchoHandler) DetectBiases(c echo.Context) error {
	findings, err := h.detector.Detect(c.Request().Context(), mid.UserID(c))
	if err != nil {
		h.logger.Error("bias detect error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if findings == nil {
		findings = []models.BiasAnalysis{}
	}
	return xhttp.SuccessResponse(c, detectionResult{
		Biases:  findings,
		Count:   len(findings),
		Message: fmt.Sprintf("Detected %d bias patterns", len(findings)),
	})
}

func (h *AlphaEchoHandler) Signals(c echo.Context) error {
	req := &models.ListSignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	signals, err := h.signals.RecentSignals(c.Request().Context(), mid.UserID(c), req.Limit)
	if err != nil {
		h.logger.Error("list signals error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if since := xhttp.ParseTimeDefault(c.QueryParam("since"), time.Time{}); !since.IsZero() {
		filtered := signals[:0]
		for _, s := range signals {
			if !s.Timestamp.Before(since) {
				filtered = append(filtered, s)
			}
		}
		signals = filtered
	}
	if signals == nil {
		signals = []models.AlphaSignal{}
	}
	return xhttp.SuccessResponse(c, signals)
}

type generationResult struct {
	Signals []models.AlphaSignal `json:"signals"`
	Count   int                  `json:"count"`
	Message string               `json:"message"`
}

func (h *AlphaEchoHandler) GenerateSignals(c echo.Context) error {
	signals, err := h.generator.Generate(c.Request().Context(), mid.UserID(c))
	if err != nil {
		h.logger.Error("signal generate error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if signals == nil {
		signals = []models.AlphaSignal{}
	}
	return xhttp.SuccessResponse(c, generationResult{
		Signals: signals,
		Count:   len(signals),
		Message: fmt.Sprintf("Generated %d new alpha signals", len(signals)),
	})
}

func (h *AlphaEchoHandler) Insights(c echo.Context) error {
	insights, err := h.insights.Build(c.Request().Context(), mid.UserID(c))
	if err != nil {
		h.logger.Error("insights error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, insights)
}
