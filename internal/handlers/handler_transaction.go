package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finlytics/ledger-core/internal/core/ports/services"
	"github.com/finlytics/ledger-core/internal/dto"
	"github.com/finlytics/ledger-core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler serves posted transactions and reversals.
type transactionHandler struct {
	posterSvc portssvc.PosterSvcFacade
}

func newTransactionHandler(posterSvc portssvc.PosterSvcFacade) *transactionHandler {
	return &transactionHandler{posterSvc: posterSvc}
}

// getTransaction returns a transaction header with its entries.
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	transactionID := c.Param("transactionID")

	txn, err := h.posterSvc.GetTransaction(c.Request.Context(), tenantID, transactionID)
	if err != nil {
		logger.Warn("Failed to get transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// reverseTransaction posts a new transaction mirroring the original's entries.
func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	transactionID := c.Param("transactionID")

	reversal, err := h.posterSvc.Reverse(c.Request.Context(), tenantID, transactionID)
	if err != nil {
		logger.Error("Failed to reverse transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		respondError(c, err)
		return
	}

	logger.Info("Transaction reversed", slog.String("transaction_id", transactionID), slog.String("reversing_transaction_id", reversal.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(reversal))
}
