package api

import (
	"errors"
	"net/http"
	"time"

	"TrendPull/internal/domain/models"
	"TrendPull/internal/usecase"
	"TrendPull/pkg/cache"
	xhttp "TrendPull/pkg/http"
	xlogger "TrendPull/pkg/logger"

	"github.com/labstack/echo/v4"
)

// BacktestHandler exposes on-demand backtest runs over HTTP. Finished reports
// are cached by parameter fingerprint, so repeated identical requests do not
// recompute.
type BacktestHandler struct {
	logger   *xlogger.Logger
	runner   *usecase.BacktestRunner
	cache    cache.Service
	cacheTTL time.Duration
}

func NewBacktestHandler(logger *xlogger.Logger, runner *usecase.BacktestRunner, c cache.Service, ttl time.Duration) *BacktestHandler {
	return &BacktestHandler{logger: logger, runner: runner, cache: c, cacheTTL: ttl}
}

func (h *BacktestHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/backtest", h.Run)
	e.GET("/healthz", h.Health)
}

// runResponse is the API payload: the run identity plus the full report.
type runResponse struct {
	RunID  string         `json:"run_id"`
	Cached bool           `json:"cached"`
	Report *models.Report `json:"report"`
}

func (h *BacktestHandler) Run(c echo.Context) error {
	req := &models.RunRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	params, err := h.runner.ParamsFromRequest(req)
	if err != nil {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_PARAMS",
			Message: err.Error(),
		}})
	}

	ctx := c.Request().Context()
	runID := params.Fingerprint()

	if h.cache != nil {
		var rep models.Report
		if err := h.cache.Get(ctx, cacheKey(runID), &rep); err == nil {
			return xhttp.SuccessResponse(c, h.respond(runID, true, &rep, req.IncludeDays))
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			h.logger.Warn("report cache get failed", xlogger.Error(err))
		}
	}

	_, rep, err := h.runner.RunWith(ctx, params)
	if err != nil {
		return h.errorResponse(c, err)
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, cacheKey(runID), rep, h.cacheTTL); err != nil {
			h.logger.Warn("report cache set failed", xlogger.Error(err))
		}
	}
	return xhttp.SuccessResponse(c, h.respond(runID, false, rep, req.IncludeDays))
}

func (h *BacktestHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// respond strips the bulky per-day records unless the caller asked for them.
func (h *BacktestHandler) respond(runID string, cached bool, rep *models.Report, includeDays bool) *runResponse {
	if !includeDays && rep.Days != nil {
		trimmed := *rep
		trimmed.Days = nil
		rep = &trimmed
	}
	return &runResponse{RunID: runID, Cached: cached, Report: rep}
}

// errorResponse maps the typed domain errors onto HTTP statuses: bad inputs
// and missing history are the caller's problem, everything else is ours.
func (h *BacktestHandler) errorResponse(c echo.Context, err error) error {
	var ive *models.InputValidationError
	var ihe *models.InsufficientHistoryError
	var de *models.DataError

	switch {
	case errors.As(err, &ive):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()).WithError(err))
	case errors.As(err, &ihe):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()).WithError(err))
	case errors.As(err, &de):
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_DATA", "", err.Error(), http.StatusUnprocessableEntity).WithError(err))
	default:
		h.logger.Error("backtest usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("backtest failed").WithError(err))
	}
}

func cacheKey(runID string) string {
	return "report:" + runID
}
