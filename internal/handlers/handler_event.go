package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/finlytics/ledger-core/internal/core/ports/services"
	"github.com/finlytics/ledger-core/internal/dto"
	"github.com/finlytics/ledger-core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// eventHandler handles HTTP requests for event submission and inspection.
type eventHandler struct {
	processorSvc portssvc.ProcessorSvcFacade
	eventSvc     portssvc.EventSvcFacade
}

func newEventHandler(processorSvc portssvc.ProcessorSvcFacade, eventSvc portssvc.EventSvcFacade) *eventHandler {
	return &eventHandler{processorSvc: processorSvc, eventSvc: eventSvc}
}

// submitEvent records a domain event and immediately attempts to derive and
// post its accounting effect. Responds 202: the event is durably recorded
// even when processing failed, and the body carries the processing status.
func (h *eventHandler) submitEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var req dto.SubmitEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for submitEvent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	event, err := h.processorSvc.Submit(c.Request.Context(), tenantID, req.StreamType, req.EventType, req.Payload)
	if err != nil {
		logger.Error("Failed to submit event", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.ToEventResponse(event))
}

// listUnresolved returns the tenant's PENDING and FAILED events for the
// operational retry/monitoring surface.
func (h *eventHandler) listUnresolved(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	events, err := h.eventSvc.ListUnresolved(c.Request.Context(), tenantID, limit)
	if err != nil {
		logger.Error("Failed to list unresolved events", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": dto.ToEventResponses(events)})
}

// retryEvent re-runs processing for one event and reports its new status.
func (h *eventHandler) retryEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	eventID := c.Param("eventID")

	event, err := h.processorSvc.Retry(c.Request.Context(), tenantID, eventID)
	if err != nil {
		logger.Error("Failed to retry event", slog.String("error", err.Error()), slog.String("event_id", eventID))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventResponse(event))
}
