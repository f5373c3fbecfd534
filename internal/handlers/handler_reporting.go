package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/finlytics/ledger-core/internal/core/domain"
	portssvc "github.com/finlytics/ledger-core/internal/core/ports/services"
	"github.com/finlytics/ledger-core/internal/dto"
	"github.com/finlytics/ledger-core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler serves period reports and raw summaries.
type reportingHandler struct {
	reportingSvc portssvc.ReportingSvcFacade
}

func newReportingHandler(reportingSvc portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingSvc: reportingSvc}
}

// parseWindow reads the from/to query parameters as RFC 3339 timestamps or
// plain dates. Defaults: the beginning of time through now.
func parseWindow(c *gin.Context) (from, to time.Time, err error) {
	to = time.Now().UTC()
	if raw := c.Query("from"); raw != "" {
		from, err = parseTimeParam(raw)
		if err != nil {
			return from, to, fmt.Errorf("invalid 'from' parameter: %v", err)
		}
	}
	if raw := c.Query("to"); raw != "" {
		to, err = parseTimeParam(raw)
		if err != nil {
			return from, to, fmt.Errorf("invalid 'to' parameter: %v", err)
		}
	}
	return from, to, nil
}

func parseTimeParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// getReport returns the composed period report consumed by dashboards.
func (h *reportingHandler) getReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	from, to, err := parseWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportingSvc.PeriodReport(c.Request.Context(), tenantID, from, to)
	if err != nil {
		logger.Error("Failed to build period report", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodReportResponse(report))
}

// getSummary returns the raw per-account aggregation, optionally filtered by
// comma-separated account types (e.g. ?type=REVENUE,EXPENSE).
func (h *reportingHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	from, to, err := parseWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var accountTypes []domain.AccountType
	if raw := c.Query("type"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			accountTypes = append(accountTypes, domain.AccountType(strings.ToUpper(strings.TrimSpace(t))))
		}
	}

	summary, err := h.reportingSvc.Summarize(c.Request.Context(), tenantID, accountTypes, from, to)
	if err != nil {
		logger.Error("Failed to summarize ledger", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}
