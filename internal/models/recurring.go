package models

// Fulfillment modes
const (
	FulfillmentDoorstep  = "doorstep"
	FulfillmentDropPoint = "drop_point"
)

// Subscription cadences
const (
	CadenceWeekly   = "weekly"
	CadenceBiweekly = "biweekly"
)

// Subscription statuses
const (
	SubscriptionActive = "active"
	SubscriptionPaused = "paused"
)

// Occurrence statuses, one per expansion outcome
const (
	OccurrenceGenerated       = "generated"
	OccurrenceSkippedExisting = "skipped_existing"
	OccurrenceSkippedPaused   = "skipped_paused"
	OccurrenceSkippedInvalid  = "skipped_invalid"
	OccurrenceSkippedCapacity = "skipped_capacity"
)

// RecurringSubscription is a resident's standing request to have a pickup
// generated automatically each cadence
type RecurringSubscription struct {
	BaseModel
	UUID           string `json:"uuid" gorm:"uniqueIndex;size:36;not null"`
	CreatedBy      string `json:"created_by" gorm:"size:36;not null;index"`
	NeighborhoodID string `json:"neighborhood_id" gorm:"size:36;not null;index"`

	FulfillmentMode   string `json:"fulfillment_mode" gorm:"size:20;not null"`
	Cadence           string `json:"cadence" gorm:"size:20;not null;default:'weekly'"`
	PreferredWeekday  int    `json:"preferred_weekday" gorm:"not null"`
	PreferredWindowID string `json:"preferred_window_id" gorm:"size:36;index"`
	DropPointID       string `json:"drop_point_id" gorm:"size:36"`

	MaterialNotes string `json:"material_notes" gorm:"type:text"`
	Status        string `json:"status" gorm:"size:20;not null;default:'active';index"`
}

// RecurringOccurrence records one expansion attempt of a subscription for a
// specific date. The unique index on (subscription_id, scheduled_for) is the
// idempotency guarantee: no two occurrences may share the pair.
type RecurringOccurrence struct {
	BaseModel
	SubscriptionID  string `json:"subscription_id" gorm:"size:36;not null;uniqueIndex:idx_occurrence_sub_date"`
	ScheduledFor    string `json:"scheduled_for" gorm:"size:10;not null;uniqueIndex:idx_occurrence_sub_date"` // "YYYY-MM-DD"
	Status          string `json:"status" gorm:"size:20;not null;index"`
	PickupRequestID string `json:"pickup_request_id" gorm:"size:36"`
	WindowID        string `json:"window_id" gorm:"size:36;index"`
}
