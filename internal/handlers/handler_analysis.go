package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// analysisHandler serves comparative, trend, forecast and stress analyses.
type analysisHandler struct {
	balanceAnalysis  portssvc.BalanceSheetAnalysisSvc
	incomeAnalysis   portssvc.IncomeStatementAnalysisSvc
	cashFlowAnalysis portssvc.CashFlowAnalysisSvc
	exportService    portssvc.ExportSvc
}

// registerAnalysisRoutes registers analysis routes under an organization group.
func registerAnalysisRoutes(
	rg *gin.RouterGroup,
	balanceAnalysis portssvc.BalanceSheetAnalysisSvc,
	incomeAnalysis portssvc.IncomeStatementAnalysisSvc,
	cashFlowAnalysis portssvc.CashFlowAnalysisSvc,
	exportService portssvc.ExportSvc,
) {
	h := &analysisHandler{
		balanceAnalysis:  balanceAnalysis,
		incomeAnalysis:   incomeAnalysis,
		cashFlowAnalysis: cashFlowAnalysis,
		exportService:    exportService,
	}

	analysis := rg.Group("/analysis")
	{
		analysis.GET("/balance-sheet/comparative", h.comparativeBalanceSheet)
		analysis.POST("/balance-sheet/trends", h.balanceSheetTrends)

		analysis.GET("/income/comparative", h.comparativeIncomeStatement)
		analysis.GET("/income/break-even", h.breakEven)
		analysis.POST("/income/trends", h.incomeTrends)
		analysis.POST("/income/forecast", h.profitabilityForecast)

		analysis.GET("/cash-flow/conversion-cycle", h.cashConversionCycle)
		analysis.POST("/cash-flow", h.analyzeCashFlow)
		analysis.POST("/cash-flow/forecast", h.cashFlowForecast)
		analysis.POST("/cash-flow/stress-test", h.stressTest)
	}
}

func forecastOptions(req dto.PeriodsRequest) portssvc.ForecastOptions {
	return portssvc.ForecastOptions{
		Horizon:    req.Horizon,
		GrowthRate: req.GrowthRate,
		Method:     req.ForecastMethod(),
	}
}

// bindPeriods binds a PeriodsRequest body and parses its periods.
func bindPeriods(c *gin.Context, op string) (dto.PeriodsRequest, bool) {
	var req dto.PeriodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, op, err)
		return req, false
	}
	return req, true
}

// comparativeBalanceSheet godoc
// @Summary Compare balance sheets at two dates
// @Tags analysis
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param current query string true "Current date (YYYY-MM-DD)"
// @Param prior query string true "Prior date (YYYY-MM-DD)"
// @Param format query string false "Export format" Enums(csv, json, pdf, xlsx)
// @Success 200 {object} domain.ComparativeBalanceSheet
// @Security BearerAuth
// @Router /organizations/{org_id}/analysis/balance-sheet/comparative [get]
func (h *analysisHandler) comparativeBalanceSheet(c *gin.Context) {
	var q dto.CompareDatesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, "ComparativeBalanceSheet", err)
		return
	}
	current, prior, err := q.ToDates()
	if err != nil {
		respondError(c, "ComparativeBalanceSheet", err)
		return
	}
	report, err := h.balanceAnalysis.GenerateComparativeBalanceSheet(c.Request.Context(), c.Param(orgParam), current, prior)
	if err != nil {
		respondError(c, "ComparativeBalanceSheet", err)
		return
	}
	respondReport(c, h.exportService, "comparative-balance-sheet", report)
}

// balanceSheetTrends godoc
// @Summary Analyze balance sheet trends
// @Description Needs at least three dates
// @Tags analysis
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param request body dto.DatesRequest true "Balance sheet dates"
// @Success 200 {object} domain.TrendAnalysis
// @Failure 400 {object} errorResponse "Insufficient data"
// @Security BearerAuth
// @Router /organizations/{org_id}/analysis/balance-sheet/trends [post]
func (h *analysisHandler) balanceSheetTrends(c *gin.Context) {
	var req dto.DatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "BalanceSheetTrends", err)
		return
	}
	dates, err := req.ToDates()
	if err != nil {
		respondError(c, "BalanceSheetTrends", err)
		return
	}
	report, err := h.balanceAnalysis.AnalyzeBalanceSheetTrends(c.Request.Context(), c.Param(orgParam), dates)
	if err != nil {
		respondError(c, "BalanceSheetTrends", err)
		return
	}
	respondReport(c, h.exportService, "balance-sheet-trends", report)
}

// comparativeIncomeStatement godoc
// @Summary Compare income statements across two periods
// @Tags analysis
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param currentFrom query string true "Current period start"
// @Param currentTo query string true "Current period end"
// @Param priorFrom query string true "Prior period start"
// @Param priorTo query string true "Prior period end"
// @Param format query string false "Export format" Enums(csv, json, pdf, xlsx)
// @Success 200 {object} domain.ComparativeIncomeStatement
// @Security BearerAuth
// @Router /organizations/{org_id}/analysis/income/comparative [get]
func (h *analysisHandler) comparativeIncomeStatement(c *gin.Context) {
	var q dto.ComparePeriodsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, "ComparativeIncomeStatement", err)
		return
	}
	current, prior, err := q.ToPeriods()
	if err != nil {
		respondError(c, "ComparativeIncomeStatement", err)
		return
	}
	report, err := h.incomeAnalysis.GenerateComparativeIncomeStatement(c.Request.Context(), c.Param(orgParam), current, prior)
	if err != nil {
		respondError(c, "ComparativeIncomeStatement", err)
		return
	}
	respondReport(c, h.exportService, "comparative-income-statement", report)
}

// breakEven godoc
// @Summary Break-even analysis
// @Tags analysis
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param from query string true "Period start (YYYY-MM-DD)"
// @Param to query string true "Period end (YYYY-MM-DD)"
// @Param format query string false "Export format" Enums(csv, json, pdf, xlsx)
// @Success 200 {object} domain.BreakEvenAnalysis
// @Security BearerAuth
// @Router /organizations/{org_id}/analysis/income/break-even [get]
func (h *analysisHandler) breakEven(c *gin.Context) {
	period, ok := periodFromQuery(c, "BreakEvenAnalysis")
	if !ok {
		return
	}
	report, err := h.incomeAnalysis.PerformBreakEvenAnalysis(c.Request.Context(), c.Param(orgParam), period)
	if err != nil {
		respondError(c, "BreakEvenAnalysis", err)
		return
	}
	respondReport(c, h.exportService, "break-even", report)
}

// incomeTrends godoc
// @Summary Analyze income trends and seasonality
// @Tags analysis
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param request body dto.PeriodsRequest true "Consecutive periods"
// @Success 200 {object} domain.TrendAnalysis
// @Failure 400 {object} errorResponse "Insufficient data"
// @Security BearerAuth
// @Router /organizations/{org_id}/analysis/income/trends [post]
func (h *analysisHandler) incomeTrends(c *gin.Context) {
	req, ok := bindPeriods(c, "IncomeTrends")
	if !ok {
		return
	}
	periods, err := req.ToPeriods()
	if err != nil {
		respondError(c, "IncomeTrends", err)
		return
	}
	report, err := h.incomeAnalysis.AnalyzeIncomeTrends(c.Request.Context(), c.Param(orgParam), periods)
	if err != nil {
		respondError(c, "IncomeTrends", err)
		return
	}
	respondReport(c, h.exportService, "income-trends", report)
}

// profitabilityForecast godoc
// @Summary Forecast profitability
// @Tags analysis
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param request body dto.PeriodsRequest true "Historical periods and forecast options"
// @Success 200 {object} domain.ProfitabilityForecast
// @Failure 400 {object} errorResponse "Insufficient data"
// @Security BearerAuth
// @Router /organizations/{org_id}/analysis/income/forecast [post]
func (h *analysisHandler) profitabilityForecast(c *gin.Context) {
	req, ok := bindPeriods(c, "ProfitabilityForecast")
	if !ok {
		return
	}
	history, err := req.ToPeriods()
	if err != nil {
		respondError(c, "ProfitabilityForecast", err)
		return
	}
	report, err := h.incomeAnalysis.GenerateProfitabilityForecast(c.Request.Context(), c.Param(orgParam), history, forecastOptions(req))
	if err != nil {
		respondError(c, "ProfitabilityForecast", err)
		return
	}
	respondReport(c, h.exportService, "profitability-forecast", report)
}

// cashConversionCycle godoc
// @Summary Calculate the cash conversion cycle
// @Tags analysis
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param from query string true "Period start (YYYY-MM-DD)"
// @Param to query string true "Period end (YYYY-MM-DD)"
// @Param format query string false "Export format" Enums(csv, json, pdf, xlsx)
// @Success 200 {object} domain.CashConversionCycle
// @Security BearerAuth
// @Router /organizations/{org_id}/analysis/cash-flow/conversion-cycle [get]
func (h *analysisHandler) cashConversionCycle(c *gin.Context) {
	period, ok := periodFromQuery(c, "CashConversionCycle")
	if !ok {
		return
	}
	report, err := h.cashFlowAnalysis.CalculateCashConversionCycle(c.Request.Context(), c.Param(orgParam), period)
	if err != nil {
		respondError(c, "CashConversionCycle", err)
		return
	}
	respondReport(c, h.exportService, "cash-conversion-cycle", report)
}

// analyzeCashFlow godoc
// @Summary Analyze cash flows across periods
// @Tags analysis
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param request body dto.PeriodsRequest true "Consecutive periods"
// @Success 200 {object} domain.CashFlowAnalysis
// @Security BearerAuth
// @Router /organizations/{org_id}/analysis/cash-flow [post]
func (h *analysisHandler) analyzeCashFlow(c *gin.Context) {
	req, ok := bindPeriods(c, "CashFlowAnalysis")
	if !ok {
		return
	}
	periods, err := req.ToPeriods()
	if err != nil {
		respondError(c, "CashFlowAnalysis", err)
		return
	}
	report, err := h.cashFlowAnalysis.GenerateCashFlowAnalysis(c.Request.Context(), c.Param(orgParam), periods)
	if err != nil {
		respondError(c, "CashFlowAnalysis", err)
		return
	}
	respondReport(c, h.exportService, "cash-flow-analysis", report)
}

// cashFlowForecast godoc
// @Summary Forecast cash flows
// @Tags analysis
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param request body dto.PeriodsRequest true "Historical periods and forecast options"
// @Success 200 {object} domain.CashFlowForecast
// @Failure 400 {object} errorResponse "Insufficient data"
// @Security BearerAuth
// @Router /organizations/{org_id}/analysis/cash-flow/forecast [post]
func (h *analysisHandler) cashFlowForecast(c *gin.Context) {
	req, ok := bindPeriods(c, "CashFlowForecast")
	if !ok {
		return
	}
	history, err := req.ToPeriods()
	if err != nil {
		respondError(c, "CashFlowForecast", err)
		return
	}
	report, err := h.cashFlowAnalysis.GenerateCashFlowForecast(c.Request.Context(), c.Param(orgParam), history, forecastOptions(req))
	if err != nil {
		respondError(c, "CashFlowForecast", err)
		return
	}
	respondReport(c, h.exportService, "cash-flow-forecast", report)
}

// stressTest godoc
// @Summary Run cash flow stress tests
// @Description Applies revenue and expense shocks. Default scenarios are used when none are given.
// @Tags analysis
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param request body dto.StressTestRequest true "Period and scenarios"
// @Success 200 {object} domain.StressTestReport
// @Security BearerAuth
// @Router /organizations/{org_id}/analysis/cash-flow/stress-test [post]
func (h *analysisHandler) stressTest(c *gin.Context) {
	var req dto.StressTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "StressTest", err)
		return
	}
	period, err := req.ToPeriod()
	if err != nil {
		respondError(c, "StressTest", err)
		return
	}
	report, err := h.cashFlowAnalysis.RunStressTest(c.Request.Context(), c.Param(orgParam), period, req.Scenarios)
	if err != nil {
		respondError(c, "StressTest", err)
		return
	}
	respondReport(c, h.exportService, "stress-test", report)
}
