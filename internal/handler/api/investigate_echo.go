package api

import (
	"encoding/json"
	"time"

	models "TrustTrace/internal/domain/models"
	domrepo "TrustTrace/internal/domain/repository"
	domsvc "TrustTrace/internal/domain/service"
	icache "TrustTrace/internal/service/cache"
	"TrustTrace/internal/service/ratelimit"
	"TrustTrace/internal/services/trading"
	"TrustTrace/internal/usecase"
	xhttp "TrustTrace/pkg/http"
	xlogger "TrustTrace/pkg/logger"
	pkgqueue "TrustTrace/pkg/queue"
	xutil "TrustTrace/pkg/util"

	"github.com/labstack/echo/v4"
)

const summaryCacheTTL = 30 * time.Second

// InvestigateEchoHandler exposes the investigation engine over HTTP.
type InvestigateEchoHandler struct {
	logger  *xlogger.Logger
	inv     *usecase.Investigator
	trades  domsvc.TradeSource
	archive domrepo.TradeArchive
	reports domrepo.ReportPublisher
	queue   pkgqueue.QueueService
	cache   icache.BytesCache
	rl      *ratelimit.Limiter
}

func NewInvestigateEchoHandler(logger *xlogger.Logger, inv *usecase.Investigator, trades domsvc.TradeSource) *InvestigateEchoHandler {
	return &InvestigateEchoHandler{
		logger: logger,
		inv:    inv,
		trades: trades,
		rl:     ratelimit.New(),
	}
}

// SetArchive injects the trade archive for health reporting.
func (h *InvestigateEchoHandler) SetArchive(a domrepo.TradeArchive) { h.archive = a }

// SetReportPublisher injects the downstream report publisher.
func (h *InvestigateEchoHandler) SetReportPublisher(p domrepo.ReportPublisher) { h.reports = p }

// SetQueue injects the async job queue.
func (h *InvestigateEchoHandler) SetQueue(q pkgqueue.QueueService) { h.queue = q }

// SetCache injects the summary response cache.
func (h *InvestigateEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *InvestigateEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/investigate", h.Investigate)
	g.POST("/investigate/async", h.InvestigateAsync)
	g.GET("/trading/summary", h.TradingSummary)
	g.GET("/health", h.Health)
}

func (h *InvestigateEchoHandler) Investigate(c echo.Context) error {
	req := &models.InvestigateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":investigate", 5, 1) {
		h.logger.Warn("investigate rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "too many requests", 429))
	}

	report, err := h.inv.Investigate(c.Request().Context(), req.Profile(), usecase.InvestigateOptions{Quick: req.Quick})
	if err != nil {
		h.logger.Error("investigate usecase error", xlogger.Error(err))
		return xhttp.BadRequestResponse(c, err.Error())
	}

	// publish is best-effort, the caller already has the report
	if h.reports != nil {
		if err := h.reports.PublishReport(c.Request().Context(), report); err != nil {
			h.logger.Warn("report publish failed", xlogger.Error(err))
		}
	}
	return xhttp.SuccessResponse(c, report)
}

func (h *InvestigateEchoHandler) InvestigateAsync(c echo.Context) error {
	if h.queue == nil {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_QUEUE_DISABLED", "", "async investigations are not enabled", 503))
	}
	req := &models.InvestigateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.queue.PublishMessage(c.Request().Context(), usecase.InvestigateJobType, req); err != nil {
		h.logger.Error("enqueue investigation failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, map[string]string{"status": "queued"})
}

func (h *InvestigateEchoHandler) TradingSummary(c echo.Context) error {
	req := &models.TradingSummaryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":summary", 10, 5) {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "too many requests", 429))
	}

	cacheKey := "summary:" + req.Identifier + ":" + req.From + ":" + req.To
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err == nil && ok {
			var cached models.TradingSummary
			if json.Unmarshal(b, &cached) == nil {
				return xhttp.SuccessResponse(c, &cached)
			}
		}
	}

	rng := parseDateRange(req.From, req.To)
	trades, err := h.trades.SearchTrades(c.Request().Context(), req.Identifier, rng)
	if err != nil {
		h.logger.Error("trade search error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if len(trades) > req.Limit {
		trades = trades[:req.Limit]
	}
	summary := trading.Summarize(trades)

	if h.cache != nil {
		if b, err := json.Marshal(summary); err == nil {
			_ = h.cache.SetBytes(cacheKey, b, summaryCacheTTL)
		}
	}
	return xhttp.SuccessResponse(c, summary)
}

func (h *InvestigateEchoHandler) Health(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	if h.archive != nil {
		if err := h.archive.Health(c.Request().Context()); err != nil {
			status["archive"] = "unhealthy"
			return xhttp.DataResponse(c, 503, status)
		}
		status["archive"] = "ok"
	}
	return xhttp.SuccessResponse(c, status)
}

func parseDateRange(from, to string) *models.DateRange {
	if from == "" && to == "" {
		return nil
	}
	rng := &models.DateRange{}
	if t, ok := xutil.ParseDate(from); ok {
		rng.From = t
	}
	if t, ok := xutil.ParseDate(to); ok {
		rng.To = t
	}
	return rng
}
