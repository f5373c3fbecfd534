package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finlytics/ledger-core/internal/core/ports/services"
	"github.com/finlytics/ledger-core/internal/dto"
	"github.com/finlytics/ledger-core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler serves the tenant's chart of accounts.
type accountHandler struct {
	accountSvc portssvc.AccountSvcFacade
}

func newAccountHandler(accountSvc portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountSvc: accountSvc}
}

// listAccounts returns the tenant's chart, bootstrapping the default set on
// first touch.
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	accounts, err := h.accountSvc.ListAccounts(c.Request.Context(), tenantID)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": dto.ToAccountResponses(accounts)})
}
