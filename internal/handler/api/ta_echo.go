package api

import (
	"encoding/json"
	"time"

	models "TaPulse/internal/domain/models"
	domrepo "TaPulse/internal/domain/repository"
	icache "TaPulse/internal/service/cache"
	"TaPulse/internal/service/metrics"
	"TaPulse/internal/service/ratelimit"
	"TaPulse/internal/usecase"
	xhttp "TaPulse/pkg/http"
	xlogger "TaPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// TAEchoHandler exposes the snapshot aggregation and backfill trigger over Echo.
type TAEchoHandler struct {
	logger   *xlogger.Logger
	snap     *usecase.SnapshotUseCase
	backfill *usecase.BackfillUseCase
	cache    icache.BytesCache
	rl       *ratelimit.Limiter
	cacheTTL time.Duration
}

func NewTAEchoHandler(logger *xlogger.Logger, snap *usecase.SnapshotUseCase, backfill *usecase.BackfillUseCase) *TAEchoHandler {
	metrics.Register()
	return &TAEchoHandler{
		logger:   logger,
		snap:     snap,
		backfill: backfill,
		rl:       ratelimit.New(),
		cacheTTL: 15 * time.Second,
	}
}

func (h *TAEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *TAEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/ta", h.TA)
	g.POST("/backfill", h.Backfill)
}

func (h *TAEchoHandler) TA(c echo.Context) error {
	start := time.Now()
	endpoint := "ta"
	defer func() { metrics.SnapshotLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.TaRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	periods := domrepo.ParsePeriods(req.Periods)

	if !h.rl.Allow(c.RealIP()+":ta", 5, 2) {
		h.logger.Warn("ta rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.TooManyRequestsResponse(c, "rate limited")
	}

	cacheKey := "ta:" + req.Periods
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			h.logger.Warn("ta cache_get_error", xlogger.Error(err))
		} else if ok {
			metrics.SnapshotCacheHits.WithLabelValues("hit").Inc()
			return xhttp.SuccessResponse(c, json.RawMessage(b))
		}
		metrics.SnapshotCacheHits.WithLabelValues("miss").Inc()
	}

	res, err := h.snap.ComputeSnapshot(c.Request().Context(), periods)
	if err != nil {
		metrics.SnapshotErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("ta usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	if h.cache != nil {
		if b, err := json.Marshal(res); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, h.cacheTTL); err != nil {
				h.logger.Warn("ta cache_set_error", xlogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *TAEchoHandler) Backfill(c echo.Context) error {
	start := time.Now()
	endpoint := "backfill"
	defer func() { metrics.SnapshotLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.BackfillRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	err := h.backfill.TriggerBackfill(c.Request().Context(), usecase.TriggerBackfillParams{
		Exchange: req.Exchange,
		Symbol:   req.Symbol,
		Period:   domrepo.Period(req.Period),
		Date:     req.Date,
	})
	if err != nil {
		metrics.SnapshotErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("backfill usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, map[string]string{"status": "queued"})
}
