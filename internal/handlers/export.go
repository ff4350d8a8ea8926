package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// respondReport writes report as JSON, or as a download when ?format= is set.
func respondReport(c *gin.Context, exportService portssvc.ExportSvc, name string, report any) {
	var q dto.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, "Export", err)
		return
	}
	if q.Format == "" {
		c.JSON(http.StatusOK, report)
		return
	}

	payload, contentType, err := exportService.Export(report, domain.ExportFormat(q.Format))
	if err != nil {
		respondError(c, "Export", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, q.Format))
	c.Data(http.StatusOK, contentType, payload)
}
