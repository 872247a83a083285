package api

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/services"

	"github.com/google/uuid"
)

func TestExportPayoutsCSV(t *testing.T) {
	db := setupTestEnv(t)
	operator := seedProfile(t, db, models.RoleOperator)
	cooperado := seedProfile(t, db, models.RoleCooperado)

	entry := models.LedgerEntry{
		CooperadoID: cooperado.UUID,
		ReceiptID:   uuid.NewString(),
		EntryDate:   "2026-09-05",
		AmountCents: 2500,
		Description: "coleta",
	}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("failed to create ledger entry: %v", err)
	}

	payouts := services.NewPayoutService(db)
	period, err := payouts.CreatePeriod("2026-09-01", "2026-09-15")
	if err != nil {
		t.Fatalf("failed to create period: %v", err)
	}
	if _, err := payouts.ClosePeriod(period.UUID); err != nil {
		t.Fatalf("failed to close period: %v", err)
	}

	w := doGet(t, asActor(operator, ExportPayoutsCSV), "/test?period_id="+period.UUID)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Fatalf("expected text/csv, got %s", got)
	}

	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus 1 row, got %d records", len(records))
	}

	wantHeader := []string{
		"cooperado_display_name", "cooperado_id", "period_start", "period_end",
		"ledger_sum_cents", "adjustments_sum_cents", "payout_total_cents",
		"payout_status", "payout_reference",
	}
	for i, column := range wantHeader {
		if records[0][i] != column {
			t.Fatalf("header column %d: expected %s, got %s", i, column, records[0][i])
		}
	}

	row := records[1]
	if row[1] != cooperado.UUID || row[4] != "2500" || row[6] != "2500" || row[7] != models.PayoutPending {
		t.Fatalf("unexpected csv row: %v", row)
	}
}

func TestExportPayoutsCSVValidation(t *testing.T) {
	db := setupTestEnv(t)
	operator := seedProfile(t, db, models.RoleOperator)

	w := doGet(t, asActor(operator, ExportPayoutsCSV), "/test")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without period_id, got %d", w.Code)
	}

	w = doGet(t, asActor(operator, ExportPayoutsCSV), "/test?period_id=123")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a loose period_id, got %d", w.Code)
	}
}
