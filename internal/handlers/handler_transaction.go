package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// transactionHandler handles HTTP requests that post and read ledger transactions.
type transactionHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newTransactionHandler(js portssvc.JournalSvcFacade) *transactionHandler {
	return &transactionHandler{journalService: js}
}

// registerTransactionRoutes registers ledger transaction routes under an organization group.
func registerTransactionRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade, writeLimiter gin.HandlerFunc) {
	h := newTransactionHandler(journalService)

	txns := rg.Group("/transactions")
	{
		txns.POST("", writeLimiter, h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:transaction_id", h.getTransaction)
		txns.POST("/:transaction_id/reverse", writeLimiter, h.reverseTransaction)
	}
}

// createTransaction godoc
// @Summary Post a transaction
// @Description Posts a balanced set of journal entries and updates account balances atomically
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   org_id path string true "Organization ID"
// @Param   transaction body dto.CreateTransactionRequest true "Transaction and entries"
// @Success 201 {object} domain.Transaction
// @Failure 400 {object} errorResponse "Unbalanced or otherwise invalid transaction"
// @Failure 404 {object} errorResponse "Account not found"
// @Failure 503 {object} errorResponse "Store timeout or lock contention, safe to retry"
// @Security BearerAuth
// @Router /organizations/{org_id}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "CreateTransaction", err)
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	txn, err := h.journalService.CreateTransaction(c.Request.Context(), c.Param(orgParam), req, userID)
	if err != nil {
		respondError(c, "CreateTransaction", err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("transaction_number", txn.TransactionNumber))
	c.JSON(http.StatusCreated, txn)
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists transactions newest first with cursor pagination
// @Tags transactions
// @Produce  json
// @Param   org_id path string true "Organization ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} errorResponse "Invalid page token"
// @Security BearerAuth
// @Router /organizations/{org_id}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, "ListTransactions", err)
		return
	}

	resp, err := h.journalService.ListTransactions(c.Request.Context(), c.Param(orgParam), params)
	if err != nil {
		respondError(c, "ListTransactions", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce  json
// @Param   org_id path string true "Organization ID"
// @Param   transaction_id path string true "Transaction ID"
// @Success 200 {object} domain.Transaction
// @Failure 404 {object} errorResponse "Transaction not found"
// @Security BearerAuth
// @Router /organizations/{org_id}/transactions/{transaction_id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	txn, err := h.journalService.GetTransactionByID(c.Request.Context(), c.Param(orgParam), c.Param("transaction_id"))
	if err != nil {
		respondError(c, "GetTransaction", err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

// reverseTransaction godoc
// @Summary Reverse a transaction
// @Description Posts the mirror image of a transaction and marks the original reversed
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   org_id path string true "Organization ID"
// @Param   transaction_id path string true "Transaction ID"
// @Param   request body dto.ReverseTransactionRequest true "Reversal reason"
// @Success 201 {object} domain.Transaction
// @Failure 404 {object} errorResponse "Transaction not found"
// @Failure 409 {object} errorResponse "Already reversed"
// @Security BearerAuth
// @Router /organizations/{org_id}/transactions/{transaction_id}/reverse [post]
func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	var req dto.ReverseTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "ReverseTransaction", err)
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}
	transactionID := c.Param("transaction_id")

	reversal, err := h.journalService.ReverseTransaction(c.Request.Context(), c.Param(orgParam), transactionID, req.Reason, userID)
	if err != nil {
		respondError(c, "ReverseTransaction", err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transaction reversed",
		slog.String("transaction_id", transactionID),
		slog.String("reversal_id", reversal.TransactionID))
	c.JSON(http.StatusCreated, reversal)
}
