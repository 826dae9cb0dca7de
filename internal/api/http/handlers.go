package http

import (
	"net/http"

	"github.com/GriffinCanCode/lcmp/internal/domain/lcmp"
	"github.com/GriffinCanCode/lcmp/internal/infrastructure/logging"
	"github.com/GriffinCanCode/lcmp/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/lcmp/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/lcmp/internal/shared/problems"
	"github.com/GriffinCanCode/lcmp/internal/shared/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version is reported by the root endpoint.
const Version = "0.1.0"

// ContextIDParam is the path parameter of the app_contexts/:contextId routes.
const ContextIDParam = "contextId"

// Handlers contains all HTTP handlers
type Handlers struct {
	server  *lcmp.Server
	metrics *monitoring.Metrics
	logger  *logging.Logger
}

// NewHandlers creates a new handler set. metrics may be nil.
func NewHandlers(server *lcmp.Server, metrics *monitoring.Metrics, logger *logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		server:  server,
		metrics: metrics,
		logger:  logger.Component("http"),
	}
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "ETSI MEC Life-Cycle-Management Proxy",
		"version": Version,
	})
}

// Health reports the status of the application list and context servers
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"contexts": h.server.AppContext().Len(),
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}

	if err := h.server.Status(); err != nil {
		body["status"] = "unhealthy"
		body["detail"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}

	body["status"] = "healthy"
	c.JSON(http.StatusOK, body)
}

// AppList returns the catalog entries matching the query parameters
func (h *Handlers) AppList(c *gin.Context) {
	var filter types.AppListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.problem(c, http.StatusBadRequest, "invalid query: "+err.Error())
		return
	}

	list, err := h.server.AppList().Query(&filter)
	if h.metrics != nil {
		h.metrics.RecordAppListQuery(err)
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// CreateContext admits a new application context
func (h *Handlers) CreateContext(c *gin.Context) {
	var req types.AppContext
	if err := c.ShouldBindJSON(&req); err != nil {
		h.problem(c, http.StatusBadRequest, "invalid AppContext: "+err.Error())
		return
	}

	created, err := h.server.AppContext().NewContext(&req)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.logger.Info("context created",
		traceField(c), spanField(c),
		zap.String("context_id", *created.ContextID),
		zap.String("associate_dev_app_id", created.AssociateDevAppID))

	c.Header("Location", c.Request.URL.Path+"/"+*created.ContextID)
	c.JSON(http.StatusCreated, created)
}

// ListContexts returns the IDs of the active contexts
func (h *Handlers) ListContexts(c *gin.Context) {
	c.JSON(http.StatusOK, types.ContextIDList{ContextIDs: h.server.AppContext().ListContexts()})
}

// GetContext returns one context
func (h *Handlers) GetContext(c *gin.Context) {
	ctx, err := h.server.AppContext().GetContext(c.Param(ContextIDParam))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ctx)
}

// UpdateContext replaces the callbackReference of a context
func (h *Handlers) UpdateContext(c *gin.Context) {
	contextID := c.Param(ContextIDParam)

	var req types.AppContext
	if err := c.ShouldBindJSON(&req); err != nil {
		h.problem(c, http.StatusBadRequest, "invalid AppContext: "+err.Error())
		return
	}

	if req.ContextID == nil {
		req.ContextID = &contextID
	} else if *req.ContextID != contextID {
		h.problem(c, http.StatusBadRequest, "context ID mismatch between path and body")
		return
	}

	if err := h.server.AppContext().UpdateContext(&req); err != nil {
		h.fail(c, err)
		return
	}

	h.logger.Info("context updated",
		traceField(c), spanField(c),
		zap.String("context_id", contextID))

	c.Status(http.StatusNoContent)
}

// DeleteContext removes a context
func (h *Handlers) DeleteContext(c *gin.Context) {
	contextID := c.Param(ContextIDParam)

	if err := h.server.AppContext().DelContext(contextID); err != nil {
		h.fail(c, err)
		return
	}

	h.logger.Info("context deleted",
		traceField(c), spanField(c),
		zap.String("context_id", contextID))

	c.Status(http.StatusNoContent)
}

// fail answers with the ProblemDetails of a core failure.
func (h *Handlers) fail(c *gin.Context, err error) {
	status := StatusFor(problems.KindOf(err))

	fields := []zap.Field{
		traceField(c), spanField(c),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
	} else {
		h.logger.Debug("request rejected", fields...)
	}

	h.problem(c, status, err.Error())
}

func (h *Handlers) problem(c *gin.Context, status int, detail string) {
	c.JSON(status, types.ProblemDetails{Status: status, Detail: detail})
}

// StatusFor maps a failure kind to its HTTP status code.
func StatusFor(kind problems.Kind) int {
	switch kind {
	case problems.KindValidation, problems.KindBadRequest:
		return http.StatusBadRequest
	case problems.KindNotFound:
		return http.StatusNotFound
	case problems.KindConflict, problems.KindCapacity, problems.KindResolution:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func traceField(c *gin.Context) zap.Field {
	return zap.String("trace_id", string(tracing.GetTraceID(c.Request.Context())))
}

func spanField(c *gin.Context) zap.Field {
	return zap.String("span_id", string(tracing.GetSpanID(c.Request.Context())))
}
