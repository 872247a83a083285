package services

import (
	"fmt"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionService handles resident self-service over recurring
// subscriptions
type SubscriptionService struct {
	db *gorm.DB
}

// NewSubscriptionService creates a subscription service
func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// CreateSubscriptionInput carries the wizard fields
type CreateSubscriptionInput struct {
	CreatedBy         string
	NeighborhoodID    string
	FulfillmentMode   string
	Cadence           string
	PreferredWeekday  int
	PreferredWindowID string
	DropPointID       string
	MaterialNotes     string
}

// Create validates and stores a new subscription
func (s *SubscriptionService) Create(input CreateSubscriptionInput) (*models.RecurringSubscription, error) {
	if input.FulfillmentMode != models.FulfillmentDoorstep && input.FulfillmentMode != models.FulfillmentDropPoint {
		return nil, fmt.Errorf("invalid fulfillment mode")
	}
	if input.Cadence == "" {
		input.Cadence = models.CadenceWeekly
	}
	if input.Cadence != models.CadenceWeekly && input.Cadence != models.CadenceBiweekly {
		return nil, fmt.Errorf("invalid cadence")
	}
	if input.PreferredWeekday < 0 || input.PreferredWeekday > 6 {
		return nil, fmt.Errorf("invalid weekday")
	}

	if input.PreferredWindowID != "" {
		var window models.RouteWindow
		err := s.db.Where("uuid = ? AND is_active = ?", input.PreferredWindowID, true).First(&window).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, fmt.Errorf("route window not found")
			}
			return nil, err
		}
		if window.Weekday != input.PreferredWeekday {
			return nil, fmt.Errorf("window weekday does not match preferred weekday")
		}
	}

	if input.FulfillmentMode == models.FulfillmentDropPoint {
		var point models.DropPoint
		err := s.db.Where("uuid = ? AND is_active = ?", input.DropPointID, true).First(&point).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, fmt.Errorf("drop point not found")
			}
			return nil, err
		}
	}

	sub := models.RecurringSubscription{
		UUID:              uuid.NewString(),
		CreatedBy:         input.CreatedBy,
		NeighborhoodID:    input.NeighborhoodID,
		FulfillmentMode:   input.FulfillmentMode,
		Cadence:           input.Cadence,
		PreferredWeekday:  input.PreferredWeekday,
		PreferredWindowID: input.PreferredWindowID,
		DropPointID:       input.DropPointID,
		MaterialNotes:     input.MaterialNotes,
		Status:            models.SubscriptionActive,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return &sub, nil
}

// SetStatus pauses or resumes a subscription, scoped to its owner
func (s *SubscriptionService) SetStatus(ownerID, subscriptionUUID, status string) error {
	if status != models.SubscriptionActive && status != models.SubscriptionPaused {
		return fmt.Errorf("invalid subscription status")
	}
	result := s.db.Model(&models.RecurringSubscription{}).
		Where("uuid = ? AND created_by = ?", subscriptionUUID, ownerID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListForOwner lists a resident's subscriptions
func (s *SubscriptionService) ListForOwner(ownerID string) ([]models.RecurringSubscription, error) {
	var rows []models.RecurringSubscription
	err := s.db.Where("created_by = ?", ownerID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// ListForNeighborhood lists subscriptions in a neighborhood (operator view)
func (s *SubscriptionService) ListForNeighborhood(neighborhoodID string) ([]models.RecurringSubscription, error) {
	var rows []models.RecurringSubscription
	err := s.db.Where("neighborhood_id = ?", neighborhoodID).Order("created_at ASC").Find(&rows).Error
	return rows, err
}
