package services

import (
	"fmt"
	"time"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PayoutService runs the reconciliation lifecycle: periods open → closed →
// paid, ledger accrual snapshots, signed adjustments and the final payout
// rows per cooperado
type PayoutService struct {
	db *gorm.DB
}

// NewPayoutService creates a payout service
func NewPayoutService(db *gorm.DB) *PayoutService {
	return &PayoutService{db: db}
}

// CreatePeriod opens a new payout period; periods may not overlap
func (s *PayoutService) CreatePeriod(periodStart, periodEnd string) (*models.PayoutPeriod, error) {
	start, err := time.Parse(DateLayout, periodStart)
	if err != nil {
		return nil, fmt.Errorf("invalid period_start date")
	}
	end, err := time.Parse(DateLayout, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid period_end date")
	}
	if !end.After(start) {
		return nil, fmt.Errorf("period_end must be after period_start")
	}

	var overlapping int64
	err = s.db.Model(&models.PayoutPeriod{}).
		Where("period_start <= ? AND period_end >= ?", periodEnd, periodStart).
		Count(&overlapping).Error
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, fmt.Errorf("%w: period overlaps an existing period", ErrConflict)
	}

	period := models.PayoutPeriod{
		UUID:        uuid.NewString(),
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Status:      models.PeriodOpen,
	}
	if err := s.db.Create(&period).Error; err != nil {
		return nil, fmt.Errorf("failed to create payout period: %w", err)
	}
	return &period, nil
}

// ClosePeriod transitions open → closed and snapshots one payout row per
// cooperado with ledger activity or adjustments in the period
func (s *PayoutService) ClosePeriod(periodUUID string) (*models.PayoutPeriod, error) {
	var period models.PayoutPeriod
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ?", periodUUID).First(&period).Error; err != nil {
			return err
		}
		if period.Status != models.PeriodOpen {
			return fmt.Errorf("%w: period is %s", ErrConflict, period.Status)
		}

		period.Status = models.PeriodClosed
		if err := tx.Save(&period).Error; err != nil {
			return err
		}

		cooperados, err := s.cooperadosInPeriod(tx, &period)
		if err != nil {
			return err
		}

		for _, cooperadoID := range cooperados {
			payout, err := s.buildPayout(tx, &period, cooperadoID)
			if err != nil {
				return err
			}
			if err := tx.Create(payout).Error; err != nil {
				return fmt.Errorf("failed to create payout row: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &period, nil
}

// AddAdjustment records a signed-cents correction. Allowed while the period
// is open or closed, never after it is paid; on a closed period the payout
// row is retotaled.
func (s *PayoutService) AddAdjustment(cooperadoID, periodUUID string, amountCents int64, reason, createdBy string) (*models.Adjustment, error) {
	if reason == "" {
		return nil, fmt.Errorf("adjustment reason is required")
	}
	var adjustment models.Adjustment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var period models.PayoutPeriod
		if err := tx.Where("uuid = ?", periodUUID).First(&period).Error; err != nil {
			return err
		}
		if period.Status == models.PeriodPaid {
			return fmt.Errorf("%w: period already paid", ErrConflict)
		}

		adjustment = models.Adjustment{
			UUID:        uuid.NewString(),
			CooperadoID: cooperadoID,
			PeriodID:    period.UUID,
			AmountCents: amountCents,
			Reason:      reason,
			CreatedBy:   createdBy,
		}
		if err := tx.Create(&adjustment).Error; err != nil {
			return fmt.Errorf("failed to create adjustment: %w", err)
		}

		if period.Status == models.PeriodClosed {
			return s.retotalPayout(tx, &period, cooperadoID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &adjustment, nil
}

// MarkPaid transitions closed → paid, stamping the payout reference on the
// period and every payout row
func (s *PayoutService) MarkPaid(periodUUID, payoutReference string) (*models.PayoutPeriod, error) {
	if payoutReference == "" {
		return nil, fmt.Errorf("payout reference is required")
	}
	var period models.PayoutPeriod
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ?", periodUUID).First(&period).Error; err != nil {
			return err
		}
		if period.Status != models.PeriodClosed {
			return fmt.Errorf("%w: period is %s", ErrConflict, period.Status)
		}

		now := time.Now()
		period.Status = models.PeriodPaid
		period.PaidAt = &now
		period.PayoutReference = payoutReference
		if err := tx.Save(&period).Error; err != nil {
			return err
		}

		return tx.Model(&models.Payout{}).
			Where("period_id = ?", period.UUID).
			Updates(map[string]interface{}{
				"status":           models.PayoutPaid,
				"payout_reference": payoutReference,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &period, nil
}

// PayoutRow is the reconciliation line exposed to the admin screens and the
// CSV export
type PayoutRow struct {
	CooperadoDisplayName string `json:"cooperado_display_name"`
	CooperadoID          string `json:"cooperado_id"`
	PeriodStart          string `json:"period_start"`
	PeriodEnd            string `json:"period_end"`
	LedgerSumCents       int64  `json:"ledger_sum_cents"`
	AdjustmentsSumCents  int64  `json:"adjustments_sum_cents"`
	PayoutTotalCents     int64  `json:"payout_total_cents"`
	PayoutStatus         string `json:"payout_status"`
	PayoutReference      string `json:"payout_reference"`
}

// PeriodReport lists the payout rows of a period for reconciliation
func (s *PayoutService) PeriodReport(periodUUID string) ([]PayoutRow, error) {
	var period models.PayoutPeriod
	if err := s.db.Where("uuid = ?", periodUUID).First(&period).Error; err != nil {
		return nil, err
	}

	var payouts []models.Payout
	if err := s.db.Where("period_id = ?", period.UUID).Order("cooperado_id ASC").Find(&payouts).Error; err != nil {
		return nil, err
	}

	rows := make([]PayoutRow, 0, len(payouts))
	for _, payout := range payouts {
		var profile models.Profile
		displayName := ""
		if err := s.db.Where("uuid = ?", payout.CooperadoID).First(&profile).Error; err == nil {
			displayName = profile.DisplayName
		}
		rows = append(rows, PayoutRow{
			CooperadoDisplayName: displayName,
			CooperadoID:          payout.CooperadoID,
			PeriodStart:          period.PeriodStart,
			PeriodEnd:            period.PeriodEnd,
			LedgerSumCents:       payout.LedgerSumCents,
			AdjustmentsSumCents:  payout.AdjustmentsSumCents,
			PayoutTotalCents:     payout.TotalCents,
			PayoutStatus:         payout.Status,
			PayoutReference:      payout.PayoutReference,
		})
	}
	return rows, nil
}

// ListPeriods lists all periods, newest first
func (s *PayoutService) ListPeriods() ([]models.PayoutPeriod, error) {
	var rows []models.PayoutPeriod
	err := s.db.Order("period_start DESC").Find(&rows).Error
	return rows, err
}

// EarningsForCooperado lists a cooperado's ledger entries and payouts
func (s *PayoutService) EarningsForCooperado(cooperadoID string) ([]models.LedgerEntry, []models.Payout, error) {
	var entries []models.LedgerEntry
	if err := s.db.Where("cooperado_id = ?", cooperadoID).
		Order("entry_date DESC").Limit(500).Find(&entries).Error; err != nil {
		return nil, nil, err
	}
	var payouts []models.Payout
	if err := s.db.Where("cooperado_id = ?", cooperadoID).
		Order("created_at DESC").Find(&payouts).Error; err != nil {
		return nil, nil, err
	}
	return entries, payouts, nil
}

// cooperadosInPeriod collects the distinct cooperados with ledger entries or
// adjustments falling inside the period
func (s *PayoutService) cooperadosInPeriod(tx *gorm.DB, period *models.PayoutPeriod) ([]string, error) {
	var fromLedger []string
	err := tx.Model(&models.LedgerEntry{}).
		Where("entry_date >= ? AND entry_date <= ?", period.PeriodStart, period.PeriodEnd).
		Distinct().Pluck("cooperado_id", &fromLedger).Error
	if err != nil {
		return nil, err
	}

	var fromAdjustments []string
	err = tx.Model(&models.Adjustment{}).
		Where("period_id = ?", period.UUID).
		Distinct().Pluck("cooperado_id", &fromAdjustments).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(fromLedger)+len(fromAdjustments))
	var cooperados []string
	for _, id := range append(fromLedger, fromAdjustments...) {
		if !seen[id] {
			seen[id] = true
			cooperados = append(cooperados, id)
		}
	}
	return cooperados, nil
}

// buildPayout computes a fresh payout snapshot for one cooperado
func (s *PayoutService) buildPayout(tx *gorm.DB, period *models.PayoutPeriod, cooperadoID string) (*models.Payout, error) {
	ledgerSum, err := s.sumLedger(tx, period, cooperadoID)
	if err != nil {
		return nil, err
	}
	adjustmentsSum, err := s.sumAdjustments(tx, period.UUID, cooperadoID)
	if err != nil {
		return nil, err
	}
	return &models.Payout{
		PeriodID:            period.UUID,
		CooperadoID:         cooperadoID,
		LedgerSumCents:      ledgerSum,
		AdjustmentsSumCents: adjustmentsSum,
		TotalCents:          ledgerSum + adjustmentsSum,
		Status:              models.PayoutPending,
	}, nil
}

// retotalPayout refreshes the snapshot of a closed period after a late
// adjustment; creates the row when the cooperado had no ledger activity
func (s *PayoutService) retotalPayout(tx *gorm.DB, period *models.PayoutPeriod, cooperadoID string) error {
	fresh, err := s.buildPayout(tx, period, cooperadoID)
	if err != nil {
		return err
	}

	var existing models.Payout
	err = tx.Where("period_id = ? AND cooperado_id = ?", period.UUID, cooperadoID).First(&existing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return tx.Create(fresh).Error
		}
		return err
	}

	existing.LedgerSumCents = fresh.LedgerSumCents
	existing.AdjustmentsSumCents = fresh.AdjustmentsSumCents
	existing.TotalCents = fresh.TotalCents
	return tx.Save(&existing).Error
}

func (s *PayoutService) sumLedger(tx *gorm.DB, period *models.PayoutPeriod, cooperadoID string) (int64, error) {
	var sum int64
	err := tx.Model(&models.LedgerEntry{}).
		Where("cooperado_id = ? AND entry_date >= ? AND entry_date <= ?",
			cooperadoID, period.PeriodStart, period.PeriodEnd).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&sum).Error
	return sum, err
}

func (s *PayoutService) sumAdjustments(tx *gorm.DB, periodUUID, cooperadoID string) (int64, error) {
	var sum int64
	err := tx.Model(&models.Adjustment{}).
		Where("cooperado_id = ? AND period_id = ?", cooperadoID, periodUUID).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&sum).Error
	return sum, err
}
