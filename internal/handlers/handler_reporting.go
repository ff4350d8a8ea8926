package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// reportingHandler serves trial balances and ledger reports.
type reportingHandler struct {
	journalService   portssvc.LedgerReaderSvc
	reportingService portssvc.ReportingService
	exportService    portssvc.ExportSvc
}

func newReportingHandler(js portssvc.LedgerReaderSvc, rs portssvc.ReportingService, es portssvc.ExportSvc) *reportingHandler {
	return &reportingHandler{
		journalService:   js,
		reportingService: rs,
		exportService:    es,
	}
}

// registerReportingRoutes registers report routes under an organization group.
func registerReportingRoutes(rg *gin.RouterGroup, journalService portssvc.LedgerReaderSvc, reportingService portssvc.ReportingService, exportService portssvc.ExportSvc) {
	h := newReportingHandler(journalService, reportingService, exportService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/trial-balance/detailed", h.getTrialBalanceReport)
		reports.GET("/accounting-equation", h.getAccountingEquation)
		reports.GET("/period-comparison", h.comparePeriods)
		reports.GET("/account-statement/:account_id", h.getAccountStatement)
	}
}

// getTrialBalance godoc
// @Summary Generate a trial balance
// @Description Sums every account's entries, including accounts deactivated since, dated on or before asOf
// @Tags reports
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param asOf query string false "Cutoff date (YYYY-MM-DD), defaults to today"
// @Param format query string false "Export format" Enums(csv, json, pdf, xlsx)
// @Success 200 {object} domain.TrialBalance
// @Failure 400 {object} errorResponse "Invalid date"
// @Security BearerAuth
// @Router /organizations/{org_id}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	var q dto.AsOfQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, "GetTrialBalance", err)
		return
	}
	var asOf *time.Time
	if q.AsOf != "" {
		t, err := dto.ParseDate(q.AsOf)
		if err != nil {
			respondError(c, "GetTrialBalance", err)
			return
		}
		asOf = &t
	}

	tb, err := h.journalService.GenerateTrialBalance(c.Request.Context(), c.Param(orgParam), asOf)
	if err != nil {
		respondError(c, "GetTrialBalance", err)
		return
	}
	respondReport(c, h.exportService, "trial-balance", tb)
}

// getTrialBalanceReport godoc
// @Summary Generate a detailed trial balance
// @Description Hierarchical trial balance with roll-ups and fiscal-year-to-date activity
// @Tags reports
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param asOf query string false "Cutoff date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.TrialBalanceReport
// @Security BearerAuth
// @Router /organizations/{org_id}/reports/trial-balance/detailed [get]
func (h *reportingHandler) getTrialBalanceReport(c *gin.Context) {
	var q dto.AsOfQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, "GetTrialBalanceReport", err)
		return
	}
	asOf, err := q.ToAsOf(time.Now())
	if err != nil {
		respondError(c, "GetTrialBalanceReport", err)
		return
	}

	report, err := h.reportingService.TrialBalanceReport(c.Request.Context(), c.Param(orgParam), asOf)
	if err != nil {
		respondError(c, "GetTrialBalanceReport", err)
		return
	}
	respondReport(c, h.exportService, "trial-balance-detailed", report)
}

// getAccountingEquation godoc
// @Summary Validate the accounting equation
// @Description Checks Assets = Liabilities + Equity on cached balances
// @Tags reports
// @Produce json
// @Param org_id path string true "Organization ID"
// @Success 200 {object} domain.AccountingEquationCheck
// @Security BearerAuth
// @Router /organizations/{org_id}/reports/accounting-equation [get]
func (h *reportingHandler) getAccountingEquation(c *gin.Context) {
	check, err := h.journalService.ValidateAccountingEquation(c.Request.Context(), c.Param(orgParam))
	if err != nil {
		respondError(c, "ValidateAccountingEquation", err)
		return
	}
	c.JSON(http.StatusOK, check)
}

// comparePeriods godoc
// @Summary Compare account activity across two periods
// @Tags reports
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param currentFrom query string true "Current period start"
// @Param currentTo query string true "Current period end"
// @Param priorFrom query string true "Prior period start"
// @Param priorTo query string true "Prior period end"
// @Param format query string false "Export format" Enums(csv, json, pdf, xlsx)
// @Success 200 {object} domain.PeriodComparison
// @Failure 400 {object} errorResponse "Invalid period"
// @Security BearerAuth
// @Router /organizations/{org_id}/reports/period-comparison [get]
func (h *reportingHandler) comparePeriods(c *gin.Context) {
	var q dto.ComparePeriodsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, "ComparePeriods", err)
		return
	}
	current, prior, err := q.ToPeriods()
	if err != nil {
		respondError(c, "ComparePeriods", err)
		return
	}

	cmp, err := h.reportingService.ComparePeriods(c.Request.Context(), c.Param(orgParam), current, prior)
	if err != nil {
		respondError(c, "ComparePeriods", err)
		return
	}
	respondReport(c, h.exportService, "period-comparison", cmp)
}

// getAccountStatement godoc
// @Summary Get an account statement
// @Description Entries in a period with opening, running and closing balances
// @Tags reports
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param account_id path string true "Account ID"
// @Param from query string true "Period start"
// @Param to query string true "Period end"
// @Success 200 {object} domain.AccountStatement
// @Failure 404 {object} errorResponse "Account not found"
// @Security BearerAuth
// @Router /organizations/{org_id}/reports/account-statement/{account_id} [get]
func (h *reportingHandler) getAccountStatement(c *gin.Context) {
	var q dto.PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, "GetAccountStatement", err)
		return
	}
	period, err := q.ToPeriod()
	if err != nil {
		respondError(c, "GetAccountStatement", err)
		return
	}

	statement, err := h.reportingService.AccountStatement(c.Request.Context(), c.Param(orgParam), c.Param("account_id"), period)
	if err != nil {
		respondError(c, "GetAccountStatement", err)
		return
	}
	respondReport(c, h.exportService, "account-statement", statement)
}
