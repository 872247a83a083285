package models

import "time"

// Payout period statuses. Legal transitions: open → closed → paid.
const (
	PeriodOpen   = "open"
	PeriodClosed = "closed"
	PeriodPaid   = "paid"
)

// Payout row statuses
const (
	PayoutPending = "pending"
	PayoutPaid    = "paid"
)

// PayoutPeriod is a reconciliation window over which cooperado earnings are
// tallied and disbursed
type PayoutPeriod struct {
	BaseModel
	UUID        string `json:"uuid" gorm:"uniqueIndex;size:36;not null"`
	PeriodStart string `json:"period_start" gorm:"size:10;not null"` // "YYYY-MM-DD"
	PeriodEnd   string `json:"period_end" gorm:"size:10;not null"`
	Status      string `json:"status" gorm:"size:20;not null;default:'open';index"`

	PaidAt          *time.Time `json:"paid_at"`
	PayoutReference string     `json:"payout_reference" gorm:"size:100"`
}

// LedgerEntry accrues earnings per receipt for a cooperado
type LedgerEntry struct {
	BaseModel
	CooperadoID string `json:"cooperado_id" gorm:"size:36;not null;index"`
	ReceiptID   string `json:"receipt_id" gorm:"size:36;not null;uniqueIndex"`
	EntryDate   string `json:"entry_date" gorm:"size:10;not null;index"` // "YYYY-MM-DD"
	AmountCents int64  `json:"amount_cents" gorm:"not null"`
	Description string `json:"description" gorm:"size:255"`
}

// Adjustment is a signed-cents correction against a cooperado's payout in a
// period, always carrying an audit reason
type Adjustment struct {
	BaseModel
	UUID        string `json:"uuid" gorm:"uniqueIndex;size:36;not null"`
	CooperadoID string `json:"cooperado_id" gorm:"size:36;not null;index"`
	PeriodID    string `json:"period_id" gorm:"size:36;not null;index"`
	AmountCents int64  `json:"amount_cents" gorm:"not null"`
	Reason      string `json:"reason" gorm:"size:255;not null"`
	CreatedBy   string `json:"created_by" gorm:"size:36;not null"`
}

// Payout is the per-cooperado settlement snapshot for a closed period.
// Reconciliation invariant: LedgerSumCents + AdjustmentsSumCents == TotalCents.
type Payout struct {
	BaseModel
	PeriodID    string `json:"period_id" gorm:"size:36;not null;uniqueIndex:idx_payout_period_coop"`
	CooperadoID string `json:"cooperado_id" gorm:"size:36;not null;uniqueIndex:idx_payout_period_coop"`

	LedgerSumCents      int64 `json:"ledger_sum_cents" gorm:"not null"`
	AdjustmentsSumCents int64 `json:"adjustments_sum_cents" gorm:"not null"`
	TotalCents          int64 `json:"total_cents" gorm:"not null"`

	Status          string `json:"status" gorm:"size:20;not null;default:'pending'"`
	PayoutReference string `json:"payout_reference" gorm:"size:100"`
}
