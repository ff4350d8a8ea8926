package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	journalService portssvc.LedgerReaderSvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, js portssvc.LedgerReaderSvc) *accountHandler {
	return &accountHandler{
		accountService: as,
		journalService: js,
	}
}

// registerAccountRoutes registers routes related to accounts under an organization group.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, journalService portssvc.LedgerReaderSvc, writeLimiter gin.HandlerFunc) {
	h := newAccountHandler(accountService, journalService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", writeLimiter, h.createAccount)
		accounts.POST("/standard-chart", writeLimiter, h.createStandardChart)
		accounts.GET("", h.getChartOfAccounts)
		accounts.GET("/hierarchy", h.getAccountHierarchy)
		accounts.GET("/by-number/:number", h.getAccountByNumber)
		accounts.GET("/:account_id", h.getAccount)
		accounts.PATCH("/:account_id", writeLimiter, h.updateAccount)
		accounts.DELETE("/:account_id", writeLimiter, h.deleteAccount)
		accounts.GET("/:account_id/balance", h.getAccountBalance)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Adds an account to the organization's chart of accounts
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   org_id path string true "Organization ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} errorResponse "Invalid input format or validation error"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Parent account not found"
// @Failure 409 {object} errorResponse "Duplicate account number"
// @Security BearerAuth
// @Router /organizations/{org_id}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "CreateAccount", err)
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to create account", slog.String("account_number", req.AccountNumber), slog.String("account_type", string(req.AccountType)))

	account, err := h.accountService.CreateAccount(c.Request.Context(), c.Param(orgParam), req, userID)
	if err != nil {
		respondError(c, "CreateAccount", err)
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// createStandardChart godoc
// @Summary Seed the standard chart of accounts
// @Description Creates the built-in chart of accounts for a business type
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   org_id path string true "Organization ID"
// @Param   request body dto.CreateStandardChartRequest true "Business type"
// @Success 201 {array} dto.AccountResponse
// @Failure 400 {object} errorResponse "Invalid business type"
// @Failure 409 {object} errorResponse "Chart already seeded"
// @Security BearerAuth
// @Router /organizations/{org_id}/accounts/standard-chart [post]
func (h *accountHandler) createStandardChart(c *gin.Context) {
	var req dto.CreateStandardChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "CreateStandardChart", err)
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	accounts, err := h.accountService.CreateStandardChartOfAccounts(c.Request.Context(), c.Param(orgParam), req.BusinessType, userID)
	if err != nil {
		respondError(c, "CreateStandardChart", err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Standard chart created", slog.Int("account_count", len(accounts)))
	c.JSON(http.StatusCreated, dto.ToListAccountResponse(accounts))
}

// getChartOfAccounts godoc
// @Summary Get the chart of accounts
// @Description Lists accounts grouped by type and sorted by number
// @Tags accounts
// @Produce  json
// @Param   org_id path string true "Organization ID"
// @Param   includeInactive query bool false "Include inactive accounts"
// @Success 200 {object} dto.ChartOfAccountsResponse
// @Failure 401 {object} errorResponse "Unauthorized"
// @Security BearerAuth
// @Router /organizations/{org_id}/accounts [get]
func (h *accountHandler) getChartOfAccounts(c *gin.Context) {
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, "GetChartOfAccounts", err)
		return
	}

	chart, err := h.accountService.GetChartOfAccounts(c.Request.Context(), c.Param(orgParam), params.IncludeInactive)
	if err != nil {
		respondError(c, "GetChartOfAccounts", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToChartOfAccountsResponse(chart))
}

// getAccountHierarchy godoc
// @Summary Get the account hierarchy
// @Tags accounts
// @Produce  json
// @Param   org_id path string true "Organization ID"
// @Success 200 {array} domain.AccountNode
// @Security BearerAuth
// @Router /organizations/{org_id}/accounts/hierarchy [get]
func (h *accountHandler) getAccountHierarchy(c *gin.Context) {
	nodes, err := h.accountService.GetAccountHierarchy(c.Request.Context(), c.Param(orgParam))
	if err != nil {
		respondError(c, "GetAccountHierarchy", err)
		return
	}
	c.JSON(http.StatusOK, nodes)
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   org_id path string true "Organization ID"
// @Param   account_id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} errorResponse "Account not found"
// @Security BearerAuth
// @Router /organizations/{org_id}/accounts/{account_id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param(orgParam), c.Param("account_id"))
	if err != nil {
		respondError(c, "GetAccount", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountByNumber godoc
// @Summary Get an account by number
// @Tags accounts
// @Produce  json
// @Param   org_id path string true "Organization ID"
// @Param   number path string true "Account number"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} errorResponse "Account not found"
// @Security BearerAuth
// @Router /organizations/{org_id}/accounts/by-number/{number} [get]
func (h *accountHandler) getAccountByNumber(c *gin.Context) {
	account, err := h.accountService.GetAccountByNumber(c.Request.Context(), c.Param(orgParam), c.Param("number"))
	if err != nil {
		respondError(c, "GetAccountByNumber", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Update an account
// @Description Changes account details. Type and balance cannot change.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   org_id path string true "Organization ID"
// @Param   account_id path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} errorResponse "Validation error"
// @Failure 404 {object} errorResponse "Account not found"
// @Failure 409 {object} errorResponse "Circular hierarchy or duplicate number"
// @Security BearerAuth
// @Router /organizations/{org_id}/accounts/{account_id} [patch]
func (h *accountHandler) updateAccount(c *gin.Context) {
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "UpdateAccount", err)
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), c.Param(orgParam), c.Param("account_id"), req, userID)
	if err != nil {
		respondError(c, "UpdateAccount", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Soft-deletes an account with no entries and no children
// @Tags accounts
// @Param   org_id path string true "Organization ID"
// @Param   account_id path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} errorResponse "Account not found"
// @Failure 409 {object} errorResponse "Account has entries or children"
// @Security BearerAuth
// @Router /organizations/{org_id}/accounts/{account_id} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	accountID := c.Param("account_id")

	if err := h.accountService.DeleteAccount(c.Request.Context(), c.Param(orgParam), accountID, userID); err != nil {
		respondError(c, "DeleteAccount", err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account deleted", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Returns the cached balance and the date of the latest entry
// @Tags accounts
// @Produce  json
// @Param   org_id path string true "Organization ID"
// @Param   account_id path string true "Account ID"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} errorResponse "Account not found"
// @Security BearerAuth
// @Router /organizations/{org_id}/accounts/{account_id}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	balance, err := h.journalService.GetAccountBalance(c.Request.Context(), c.Param(orgParam), c.Param("account_id"))
	if err != nil {
		respondError(c, "GetAccountBalance", err)
		return
	}
	c.JSON(http.StatusOK, dto.AccountBalanceResponse{
		AccountID:           balance.AccountID,
		Balance:             balance.Balance,
		LastTransactionDate: balance.LastTransactionDate,
	})
}
