package models

import "time"

// Triage statuses for drop points (galpão queue)
const (
	TriagePending    = "pending"
	TriageInProgress = "in_progress"
	TriageDone       = "done"
)

// RouteWindow is a recurring weekly time slot with a pickup capacity ceiling
type RouteWindow struct {
	BaseModel
	UUID           string `json:"uuid" gorm:"uniqueIndex;size:36;not null"`
	NeighborhoodID string `json:"neighborhood_id" gorm:"size:36;not null;index"`
	Weekday        int    `json:"weekday" gorm:"not null"` // 0=Sunday .. 6=Saturday
	StartTime      string `json:"start_time" gorm:"size:5;not null"` // "HH:MM"
	EndTime        string `json:"end_time" gorm:"size:5;not null"`
	Capacity       int    `json:"capacity" gorm:"not null;default:0"`
	IsActive       bool   `json:"is_active" gorm:"default:true"`
}

// DropPoint is a fixed location where residents deliver materials
type DropPoint struct {
	BaseModel
	UUID           string `json:"uuid" gorm:"uniqueIndex;size:36;not null"`
	NeighborhoodID string `json:"neighborhood_id" gorm:"size:36;not null;index"`
	Name           string `json:"name" gorm:"not null"`
	Address        string `json:"address" gorm:"size:255"`
	IsActive       bool   `json:"is_active" gorm:"default:true"`

	// Galpão triage bookkeeping
	TriageStatus  string     `json:"triage_status" gorm:"size:20;default:'pending'"`
	TriageNotes   string     `json:"triage_notes" gorm:"type:text"`
	LastTriagedAt *time.Time `json:"last_triaged_at"`
}
