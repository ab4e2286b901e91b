package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/export"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ledgerHandler serves per-account balance history.
type ledgerHandler struct {
	ledgerService portssvc.LedgerService
}

func newLedgerHandler(ls portssvc.LedgerService) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes nests the ledger reads under /accounts/:id.
func registerLedgerRoutes(accounts *gin.RouterGroup, ledgerService portssvc.LedgerService) {
	h := newLedgerHandler(ledgerService)

	accounts.GET("/:id/opening-balance", h.getOpeningBalance)
	accounts.GET("/:id/ledger", h.getLedger)
	accounts.GET("/:id/ledger/export", h.exportLedger)
}

// ledgerRange reads from/to. to defaults to today and from to the first day of to's month.
func ledgerRange(c *gin.Context) (time.Time, time.Time, bool) {
	to, ok := queryDate(c, "to", today())
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	from, ok := queryDate(c, "from", time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// getOpeningBalance godoc
// @Summary Get an account's opening balance
// @Description Signed balance from posted items dated strictly before asOf
// @Tags ledger
// @Produce json
// @Param id path string true "Account ID"
// @Param asOf query string false "Date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.OpeningBalanceResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to compute opening balance"
// @Security BearerAuth
// @Router /accounts/{id}/opening-balance [get]
func (h *ledgerHandler) getOpeningBalance(c *gin.Context) {
	accountID := c.Param("id")
	asOf, ok := queryDate(c, "asOf", today())
	if !ok {
		return
	}

	balance, err := h.ledgerService.GetOpeningBalance(c.Request.Context(), accountID, asOf)
	if err != nil {
		respondError(c, err, "Failed to compute opening balance")
		return
	}
	c.JSON(http.StatusOK, dto.OpeningBalanceResponse{
		AccountID: accountID,
		AsOf:      asOf.Format(domain.DateLayout),
		Balance:   balance,
	})
}

// getLedger godoc
// @Summary Get an account ledger
// @Description Running-balance rows for posted items dated within [from, to], seeded with the opening balance
// @Tags ledger
// @Produce json
// @Param id path string true "Account ID"
// @Param from query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param to query string false "End date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.LedgerResponse
// @Failure 400 {object} map[string]string "Invalid date range"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to build ledger"
// @Security BearerAuth
// @Router /accounts/{id}/ledger [get]
func (h *ledgerHandler) getLedger(c *gin.Context) {
	from, to, ok := ledgerRange(c)
	if !ok {
		return
	}

	ledger, err := h.ledgerService.GetLedger(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		respondError(c, err, "Failed to build ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerResponse(ledger))
}

// exportLedger godoc
// @Summary Export an account ledger
// @Description Downloads the ledger as CSV or XLSX with columns Date, Reference, Memo, Debit, Credit, Balance
// @Tags ledger
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Account ID"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to export ledger"
// @Security BearerAuth
// @Router /accounts/{id}/ledger/export [get]
func (h *ledgerHandler) exportLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}
	from, to, ok := ledgerRange(c)
	if !ok {
		return
	}

	ledger, err := h.ledgerService.GetLedger(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		respondError(c, err, "Failed to export ledger")
		return
	}

	var buf bytes.Buffer
	contentType := contentTypeCSV
	if format == "xlsx" {
		contentType = contentTypeXLSX
		err = export.WriteLedgerXLSX(&buf, ledger)
	} else {
		err = export.WriteLedgerCSV(&buf, ledger)
	}
	if err != nil {
		respondError(c, err, "Failed to export ledger")
		return
	}

	filename := fmt.Sprintf("ledger-%s-%s-%s.%s", ledger.Account.Code,
		from.Format(domain.DateLayout), to.Format(domain.DateLayout), format)
	logger.Info("Ledger exported", slog.String("account_id", ledger.Account.AccountID),
		slog.String("format", format), slog.Int("row_count", len(ledger.Rows)))

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
