package models

import "time"

// Notification kinds
const (
	NotifyRecurringSkippedInvalid  = "recurring_skipped_invalid"
	NotifyRecurringSkippedCapacity = "recurring_skipped_capacity"
	NotifyPickupAccepted           = "pickup_accepted"
	NotifyReceiptIssued            = "receipt_issued"
)

// Notification is an in-app message for a profile
type Notification struct {
	BaseModel
	UUID      string `json:"uuid" gorm:"uniqueIndex;size:36;not null"`
	ProfileID string `json:"profile_id" gorm:"size:36;not null;index"`
	Kind      string `json:"kind" gorm:"size:50;not null;index"`
	Title     string `json:"title" gorm:"size:255;not null"`
	Body      string `json:"body" gorm:"type:text"`
	IsRead    bool   `json:"is_read" gorm:"default:false;index"`
}

// GovernanceTerm is a versioned governance document residents and cooperados
// accept. Publishing bumps the version; acceptances are per version.
type GovernanceTerm struct {
	BaseModel
	UUID        string     `json:"uuid" gorm:"uniqueIndex;size:36;not null"`
	Slug        string     `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Body        string     `json:"body" gorm:"type:text"`
	Version     int        `json:"version" gorm:"not null;default:0"`
	Published   bool       `json:"published" gorm:"default:false"`
	PublishedAt *time.Time `json:"published_at"`
}

// TermAcceptance records one profile accepting one version of a term
type TermAcceptance struct {
	BaseModel
	ProfileID string `json:"profile_id" gorm:"size:36;not null;uniqueIndex:idx_acceptance"`
	TermID    string `json:"term_id" gorm:"size:36;not null;uniqueIndex:idx_acceptance"`
	Version   int    `json:"version" gorm:"not null;uniqueIndex:idx_acceptance"`
}

// AnchorCommitment is a pledged monthly volume from an anchor partner
// (school, market, condominium) in a neighborhood
type AnchorCommitment struct {
	BaseModel
	UUID             string `json:"uuid" gorm:"uniqueIndex;size:36;not null"`
	NeighborhoodID   string `json:"neighborhood_id" gorm:"size:36;not null;index"`
	AnchorName       string `json:"anchor_name" gorm:"size:255;not null"`
	CommittedKgMonth float64 `json:"committed_kg_month" gorm:"not null"`
	StartsOn         string `json:"starts_on" gorm:"size:10;not null"`
	EndsOn           string `json:"ends_on" gorm:"size:10"`
	IsActive         bool   `json:"is_active" gorm:"default:true"`
	Notes            string `json:"notes" gorm:"type:text"`
}

// Post is an educational/transparency article, media attachable
type Post struct {
	BaseModel
	UUID           string `json:"uuid" gorm:"uniqueIndex;size:36;not null"`
	AuthorID       string `json:"author_id" gorm:"size:36;not null;index"`
	NeighborhoodID string `json:"neighborhood_id" gorm:"size:36;index"`
	Title          string `json:"title" gorm:"size:255;not null"`
	Body           string `json:"body" gorm:"type:text"`
	Published      bool   `json:"published" gorm:"default:false"`
}
