// roof-mri-backend/internal/handlers/list_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ListProposals отдает страницу кратких проекций для дашборда.
func (h *Set) ListProposals(c *gin.Context) {
	page, pageSize := pageParams(c)

	rows, total, err := h.ctrl.List(c.Request.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(rows, total, page, pageSize))
}

// ExportProposals выгружает все предложения в xlsx.
func (h *Set) ExportProposals(c *gin.Context) {
	rows, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	f := excelize.NewFile()
	sheetName := "Proposals"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Contact", "Company", "Email", "Tier", "Trainees", "Kits", "Total", "Status", "Payment", "Opens", "Signed at", "Created at"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, p := range rows {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), p.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), p.ContactName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), p.Company)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), p.Email)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), p.Tier)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), p.Trainees())
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), p.Kits())
		if p.TotalPrice != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), *p.TotalPrice)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), p.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), p.PaymentStatus)
		f.SetCellValue(sheetName, fmt.Sprintf("K%d", row), p.OpenCount)
		if p.SignedAt != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("L%d", row), p.SignedAt.Format("2006-01-02 15:04"))
		}
		f.SetCellValue(sheetName, fmt.Sprintf("M%d", row), p.CreatedAt.Format("2006-01-02 15:04"))
	}

	fileName := fmt.Sprintf("proposals_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
	}
}
