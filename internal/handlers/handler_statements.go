package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// statementsHandler serves financial statements derived from the ledger.
type statementsHandler struct {
	statementsService portssvc.FinancialStatementsSvc
	exportService     portssvc.ExportSvc
}

func newStatementsHandler(ss portssvc.FinancialStatementsSvc, es portssvc.ExportSvc) *statementsHandler {
	return &statementsHandler{statementsService: ss, exportService: es}
}

// registerStatementRoutes registers financial statement routes under an organization group.
func registerStatementRoutes(rg *gin.RouterGroup, statementsService portssvc.FinancialStatementsSvc, exportService portssvc.ExportSvc) {
	h := newStatementsHandler(statementsService, exportService)

	statements := rg.Group("/statements")
	{
		statements.GET("", h.getFinancialStatements)
		statements.GET("/balance-sheet", h.getBalanceSheet)
		statements.GET("/income-statement", h.getIncomeStatement)
		statements.GET("/cash-flow", h.getCashFlowStatement)
		statements.GET("/ratios", h.getFinancialRatios)
	}
}

// periodFromQuery binds and parses ?from=&to=, writing the error response on failure.
func periodFromQuery(c *gin.Context, op string) (domain.Period, bool) {
	var q dto.PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, op, err)
		return domain.Period{}, false
	}
	period, err := q.ToPeriod()
	if err != nil {
		respondError(c, op, err)
		return domain.Period{}, false
	}
	return period, true
}

// getBalanceSheet godoc
// @Summary Generate a balance sheet
// @Tags statements
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param asOf query string false "Balance sheet date (YYYY-MM-DD), defaults to today"
// @Param format query string false "Export format" Enums(csv, json, pdf, xlsx)
// @Success 200 {object} domain.BalanceSheet
// @Failure 400 {object} errorResponse "Invalid date"
// @Security BearerAuth
// @Router /organizations/{org_id}/statements/balance-sheet [get]
func (h *statementsHandler) getBalanceSheet(c *gin.Context) {
	var q dto.AsOfQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, "GenerateBalanceSheet", err)
		return
	}
	asOf, err := q.ToAsOf(time.Now())
	if err != nil {
		respondError(c, "GenerateBalanceSheet", err)
		return
	}

	bs, err := h.statementsService.GenerateBalanceSheet(c.Request.Context(), c.Param(orgParam), asOf)
	if err != nil {
		respondError(c, "GenerateBalanceSheet", err)
		return
	}
	respondReport(c, h.exportService, "balance-sheet", bs)
}

// getIncomeStatement godoc
// @Summary Generate an income statement
// @Tags statements
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param from query string true "Period start (YYYY-MM-DD)"
// @Param to query string true "Period end (YYYY-MM-DD)"
// @Param format query string false "Export format" Enums(csv, json, pdf, xlsx)
// @Success 200 {object} domain.IncomeStatement
// @Failure 400 {object} errorResponse "Invalid period"
// @Security BearerAuth
// @Router /organizations/{org_id}/statements/income-statement [get]
func (h *statementsHandler) getIncomeStatement(c *gin.Context) {
	period, ok := periodFromQuery(c, "GenerateIncomeStatement")
	if !ok {
		return
	}
	is, err := h.statementsService.GenerateIncomeStatement(c.Request.Context(), c.Param(orgParam), period)
	if err != nil {
		respondError(c, "GenerateIncomeStatement", err)
		return
	}
	respondReport(c, h.exportService, "income-statement", is)
}

// getCashFlowStatement godoc
// @Summary Generate a cash flow statement
// @Description Indirect-method cash flow statement reconciled against cash balances
// @Tags statements
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param from query string true "Period start (YYYY-MM-DD)"
// @Param to query string true "Period end (YYYY-MM-DD)"
// @Param format query string false "Export format" Enums(csv, json, pdf, xlsx)
// @Success 200 {object} domain.CashFlowStatement
// @Failure 400 {object} errorResponse "Invalid period"
// @Security BearerAuth
// @Router /organizations/{org_id}/statements/cash-flow [get]
func (h *statementsHandler) getCashFlowStatement(c *gin.Context) {
	period, ok := periodFromQuery(c, "GenerateCashFlowStatement")
	if !ok {
		return
	}
	cf, err := h.statementsService.GenerateCashFlowStatement(c.Request.Context(), c.Param(orgParam), period)
	if err != nil {
		respondError(c, "GenerateCashFlowStatement", err)
		return
	}
	respondReport(c, h.exportService, "cash-flow", cf)
}

// getFinancialRatios godoc
// @Summary Calculate financial ratios
// @Description Ratios from the balance sheet at period end and the period's income statement
// @Tags statements
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param from query string true "Period start (YYYY-MM-DD)"
// @Param to query string true "Period end (YYYY-MM-DD)"
// @Param format query string false "Export format" Enums(csv, json, pdf, xlsx)
// @Success 200 {object} domain.FinancialRatios
// @Security BearerAuth
// @Router /organizations/{org_id}/statements/ratios [get]
func (h *statementsHandler) getFinancialRatios(c *gin.Context) {
	period, ok := periodFromQuery(c, "CalculateFinancialRatios")
	if !ok {
		return
	}
	orgID := c.Param(orgParam)
	bs, err := h.statementsService.GenerateBalanceSheet(c.Request.Context(), orgID, period.To)
	if err != nil {
		respondError(c, "CalculateFinancialRatios", err)
		return
	}
	is, err := h.statementsService.GenerateIncomeStatement(c.Request.Context(), orgID, period)
	if err != nil {
		respondError(c, "CalculateFinancialRatios", err)
		return
	}
	ratios := h.statementsService.CalculateFinancialRatios(*bs, *is)
	respondReport(c, h.exportService, "ratios", &ratios)
}

// getFinancialStatements godoc
// @Summary Generate the full statement bundle
// @Description Balance sheet at period end, income statement, cash flow and ratios
// @Tags statements
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param from query string true "Period start (YYYY-MM-DD)"
// @Param to query string true "Period end (YYYY-MM-DD)"
// @Param format query string false "Export format" Enums(json, pdf, xlsx)
// @Success 200 {object} domain.FinancialStatements
// @Security BearerAuth
// @Router /organizations/{org_id}/statements [get]
func (h *statementsHandler) getFinancialStatements(c *gin.Context) {
	period, ok := periodFromQuery(c, "GenerateFinancialStatements")
	if !ok {
		return
	}
	fs, err := h.statementsService.GenerateFinancialStatements(c.Request.Context(), c.Param(orgParam), period)
	if err != nil {
		respondError(c, "GenerateFinancialStatements", err)
		return
	}
	respondReport(c, h.exportService, "financial-statements", fs)
}
