package models

// Pickup request statuses. Legal transitions:
// open → accepted → en_route → collected; open → cancelled.
const (
	PickupOpen      = "open"
	PickupAccepted  = "accepted"
	PickupEnRoute   = "en_route"
	PickupCollected = "collected"
	PickupCancelled = "cancelled"
)

// Receipt quality grading
const (
	QualityOk           = "ok"
	QualityAttention    = "attention"
	QualityContaminated = "contaminated"
)

// Media entity types
const (
	EntityReceipt = "receipt"
	EntityPost    = "post"
)

// PickupRequest is one concrete collection request, either created directly
// by a resident or expanded from a recurring subscription
type PickupRequest struct {
	BaseModel
	UUID           string `json:"uuid" gorm:"uniqueIndex;size:36;not null"`
	CreatedBy      string `json:"created_by" gorm:"size:36;not null;index"`
	NeighborhoodID string `json:"neighborhood_id" gorm:"size:36;not null;index"`

	FulfillmentMode string `json:"fulfillment_mode" gorm:"size:20;not null"`
	RouteWindowID   string `json:"route_window_id" gorm:"size:36;index"`
	DropPointID     string `json:"drop_point_id" gorm:"size:36"`
	ScheduledFor    string `json:"scheduled_for" gorm:"size:10;not null;index"` // "YYYY-MM-DD"

	Status     string `json:"status" gorm:"size:20;not null;default:'open';index"`
	AcceptedBy string `json:"accepted_by" gorm:"size:36;index"`

	IsRecurring    bool   `json:"is_recurring" gorm:"default:false"`
	SubscriptionID string `json:"subscription_id" gorm:"size:36;index"`

	MaterialNotes string `json:"material_notes" gorm:"type:text"`
}

// Receipt is issued by a cooperado when a pickup is collected, with
// quality/contamination grading and the accrued amount for the payout ledger
type Receipt struct {
	BaseModel
	UUID            string `json:"uuid" gorm:"uniqueIndex;size:36;not null"`
	PickupRequestID string `json:"pickup_request_id" gorm:"size:36;not null;uniqueIndex"`
	CooperadoID     string `json:"cooperado_id" gorm:"size:36;not null;index"`

	QualityStatus      string  `json:"quality_status" gorm:"size:20;not null"`
	ContaminationFlags string  `json:"contamination_flags" gorm:"size:255"` // comma-joined set
	WeightKg           float64 `json:"weight_kg"`
	AmountCents        int64   `json:"amount_cents"`
	Notes              string  `json:"notes" gorm:"type:text"`
}

// Media references a proof photo or post attachment held in object storage.
// Bytes are never served by this service; access goes through signed URLs.
type Media struct {
	BaseModel
	UUID        string `json:"uuid" gorm:"uniqueIndex;size:36;not null"`
	OwnerID     string `json:"owner_id" gorm:"size:36;not null;index"`
	EntityType  string `json:"entity_type" gorm:"size:20;not null;index:idx_media_entity"`
	EntityID    string `json:"entity_id" gorm:"size:36;not null;index:idx_media_entity"`
	StoragePath string `json:"storage_path" gorm:"size:500;not null"`
	ContentType string `json:"content_type" gorm:"size:100"`
}
