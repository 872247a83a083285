package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/middleware"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/response"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

// ListPayoutPeriods lists periods, newest first.
// GET /api/admin/payouts/periods
func ListPayoutPeriods(c *gin.Context) {
	rows, err := payoutService().ListPeriods()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, rows)
}

// CreatePayoutPeriodRequest represents create period request
type CreatePayoutPeriodRequest struct {
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
}

// CreatePayoutPeriod opens a new payout period.
// POST /api/admin/payouts/periods
func CreatePayoutPeriod(c *gin.Context) {
	var req CreatePayoutPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	period, err := payoutService().CreatePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, response.Success(period))
}

// ClosePayoutPeriod closes a period and snapshots payout rows.
// POST /api/admin/payouts/periods/:id/close
func ClosePayoutPeriod(c *gin.Context) {
	period, err := payoutService().ClosePeriod(c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, period)
}

// MarkPayoutPaidRequest represents mark paid request
type MarkPayoutPaidRequest struct {
	PayoutReference string `json:"payout_reference" binding:"required"`
}

// MarkPayoutPaid marks a closed period as paid.
// POST /api/admin/payouts/periods/:id/pay
func MarkPayoutPaid(c *gin.Context) {
	var req MarkPayoutPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	period, err := payoutService().MarkPaid(c.Param("id"), req.PayoutReference)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, period)
}

// AddAdjustmentRequest represents an adjustment request
type AddAdjustmentRequest struct {
	CooperadoID string `json:"cooperado_id" binding:"required"`
	PeriodID    string `json:"period_id" binding:"required"`
	AmountCents int64  `json:"amount_cents" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
}

// AddAdjustment records a signed-cents correction with an audit reason.
// POST /api/admin/payouts/adjustments
func AddAdjustment(c *gin.Context) {
	var req AddAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	actor := middleware.Actor(c)
	adjustment, err := payoutService().AddAdjustment(req.CooperadoID, req.PeriodID,
		req.AmountCents, req.Reason, actor.UUID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, response.Success(adjustment))
}

// GetPayoutReport lists payout rows for reconciliation.
// GET /api/admin/payouts/report?period_id=...
func GetPayoutReport(c *gin.Context) {
	periodID := c.Query("period_id")
	if periodID == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "period_id is required")
		return
	}
	rows, err := payoutService().PeriodReport(periodID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, rows)
}

// ExportPayoutsCSV streams the period reconciliation as text/csv.
// GET /api/admin/payouts/export?period_id=...
func ExportPayoutsCSV(c *gin.Context) {
	periodID := c.Query("period_id")
	if periodID == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "period_id is required")
		return
	}
	if !services.IsStrictUUID(periodID) {
		response.ErrorJSON(c, http.StatusBadRequest, "period_id must be a valid uuid")
		return
	}

	rows, err := payoutService().PeriodReport(periodID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=payouts-%s.csv", periodID))
	writer := csv.NewWriter(c.Writer)
	_ = writer.Write([]string{
		"cooperado_display_name", "cooperado_id", "period_start", "period_end",
		"ledger_sum_cents", "adjustments_sum_cents", "payout_total_cents",
		"payout_status", "payout_reference",
	})
	for _, row := range rows {
		_ = writer.Write([]string{
			row.CooperadoDisplayName,
			row.CooperadoID,
			row.PeriodStart,
			row.PeriodEnd,
			strconv.FormatInt(row.LedgerSumCents, 10),
			strconv.FormatInt(row.AdjustmentsSumCents, 10),
			strconv.FormatInt(row.PayoutTotalCents, 10),
			row.PayoutStatus,
			row.PayoutReference,
		})
	}
	writer.Flush()
}

// GetMyEarnings lists the caller's ledger entries and payout rows.
// GET /api/me/earnings
func GetMyEarnings(c *gin.Context) {
	actor := middleware.Actor(c)
	entries, payouts, err := payoutService().EarningsForCooperado(actor.UUID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, gin.H{
		"ledger_entries": entries,
		"payouts":        payouts,
	})
}
