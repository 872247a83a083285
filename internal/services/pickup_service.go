package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrForbidden marks an authorization denial so handlers can map it to 403
var ErrForbidden = fmt.Errorf("forbidden")

// ErrConflict marks an illegal state transition so handlers can map it to 409
var ErrConflict = fmt.Errorf("conflict")

// PickupService drives the pickup request lifecycle
// open → accepted → en_route → collected (open → cancelled) and issues
// receipts with quality grading on collection
type PickupService struct {
	db            *gorm.DB
	notifier      *NotificationService
	rateOk        int
	rateAttention int
}

// NewPickupService creates a pickup service. Rates are cents-per-kg accrued
// to the cooperado ledger by receipt quality class.
func NewPickupService(db *gorm.DB, notifier *NotificationService, rateOkCentsPerKg, rateAttentionCentsPerKg int) *PickupService {
	return &PickupService{
		db:            db,
		notifier:      notifier,
		rateOk:        rateOkCentsPerKg,
		rateAttention: rateAttentionCentsPerKg,
	}
}

// CreateRequestInput carries the resident wizard fields
type CreateRequestInput struct {
	CreatedBy       string
	NeighborhoodID  string
	FulfillmentMode string
	RouteWindowID   string
	DropPointID     string
	ScheduledFor    string
	MaterialNotes   string
}

// CreateRequest validates and stores a direct (non-recurring) pickup request
func (s *PickupService) CreateRequest(input CreateRequestInput) (*models.PickupRequest, error) {
	if input.FulfillmentMode != models.FulfillmentDoorstep && input.FulfillmentMode != models.FulfillmentDropPoint {
		return nil, fmt.Errorf("invalid fulfillment mode")
	}
	scheduled, err := time.Parse(DateLayout, input.ScheduledFor)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduled_for date")
	}

	if input.FulfillmentMode == models.FulfillmentDoorstep {
		var profile models.Profile
		if err := s.db.Where("uuid = ?", input.CreatedBy).First(&profile).Error; err != nil {
			return nil, fmt.Errorf("profile not found")
		}
		if !profile.HasDoorstepAddress() {
			return nil, fmt.Errorf("doorstep pickup requires a registered address")
		}
	} else {
		var point models.DropPoint
		if err := s.db.Where("uuid = ? AND is_active = ?", input.DropPointID, true).First(&point).Error; err != nil {
			return nil, fmt.Errorf("drop point not found")
		}
	}

	if input.RouteWindowID != "" {
		var window models.RouteWindow
		if err := s.db.Where("uuid = ? AND is_active = ?", input.RouteWindowID, true).First(&window).Error; err != nil {
			return nil, fmt.Errorf("route window not found")
		}
		if int(scheduled.Weekday()) != window.Weekday {
			return nil, fmt.Errorf("scheduled date does not fall on the window's weekday")
		}
	}

	request := models.PickupRequest{
		UUID:            uuid.NewString(),
		CreatedBy:       input.CreatedBy,
		NeighborhoodID:  input.NeighborhoodID,
		FulfillmentMode: input.FulfillmentMode,
		RouteWindowID:   input.RouteWindowID,
		DropPointID:     input.DropPointID,
		ScheduledFor:    input.ScheduledFor,
		Status:          models.PickupOpen,
		MaterialNotes:   input.MaterialNotes,
	}
	if err := s.db.Create(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to create pickup request: %w", err)
	}
	return &request, nil
}

// Accept transitions open → accepted for a cooperado
func (s *PickupService) Accept(actor *models.Profile, requestUUID string) (*models.PickupRequest, error) {
	if actor.Role != models.RoleCooperado {
		return nil, ErrForbidden
	}
	var request models.PickupRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ?", requestUUID).First(&request).Error; err != nil {
			return err
		}
		if request.Status != models.PickupOpen {
			return fmt.Errorf("%w: request is %s", ErrConflict, request.Status)
		}
		request.Status = models.PickupAccepted
		request.AcceptedBy = actor.UUID
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		_ = s.notifier.Notify(request.CreatedBy, models.NotifyPickupAccepted,
			"Coleta aceita", fmt.Sprintf("Sua coleta de %s foi aceita por um cooperado.", request.ScheduledFor))
	}
	return &request, nil
}

// MarkEnRoute transitions accepted → en_route for the accepting cooperado
func (s *PickupService) MarkEnRoute(actor *models.Profile, requestUUID string) (*models.PickupRequest, error) {
	var request models.PickupRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ?", requestUUID).First(&request).Error; err != nil {
			return err
		}
		if request.AcceptedBy != actor.UUID {
			return ErrForbidden
		}
		if request.Status != models.PickupAccepted {
			return fmt.Errorf("%w: request is %s", ErrConflict, request.Status)
		}
		request.Status = models.PickupEnRoute
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// CollectInput carries the receipt fields required to close a pickup
type CollectInput struct {
	QualityStatus      string
	ContaminationFlags []string
	WeightKg           float64
	Notes              string
	ProofMediaPaths    []string // at least one proof photo
	ProofContentType   string
}

// Collect transitions en_route → collected, issuing the receipt, its proof
// media rows and the ledger accrual in one transaction
func (s *PickupService) Collect(actor *models.Profile, requestUUID string, input CollectInput) (*models.Receipt, error) {
	switch input.QualityStatus {
	case models.QualityOk, models.QualityAttention, models.QualityContaminated:
	default:
		return nil, fmt.Errorf("invalid quality status")
	}
	if len(input.ProofMediaPaths) == 0 {
		return nil, fmt.Errorf("at least one proof photo is required")
	}
	if input.WeightKg < 0 {
		return nil, fmt.Errorf("weight must be non-negative")
	}

	var request models.PickupRequest
	var receipt models.Receipt
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ?", requestUUID).First(&request).Error; err != nil {
			return err
		}
		if request.AcceptedBy != actor.UUID {
			return ErrForbidden
		}
		if request.Status != models.PickupEnRoute {
			return fmt.Errorf("%w: request is %s", ErrConflict, request.Status)
		}

		request.Status = models.PickupCollected
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		receipt = models.Receipt{
			UUID:               uuid.NewString(),
			PickupRequestID:    request.UUID,
			CooperadoID:        actor.UUID,
			QualityStatus:      input.QualityStatus,
			ContaminationFlags: strings.Join(input.ContaminationFlags, ","),
			WeightKg:           input.WeightKg,
			AmountCents:        s.accrual(input.QualityStatus, input.WeightKg),
			Notes:              input.Notes,
		}
		if err := tx.Create(&receipt).Error; err != nil {
			return fmt.Errorf("failed to create receipt: %w", err)
		}

		for _, path := range input.ProofMediaPaths {
			media := models.Media{
				UUID:        uuid.NewString(),
				OwnerID:     actor.UUID,
				EntityType:  models.EntityReceipt,
				EntityID:    receipt.UUID,
				StoragePath: path,
				ContentType: input.ProofContentType,
			}
			if err := tx.Create(&media).Error; err != nil {
				return fmt.Errorf("failed to create proof media: %w", err)
			}
		}

		entry := models.LedgerEntry{
			CooperadoID: actor.UUID,
			ReceiptID:   receipt.UUID,
			EntryDate:   request.ScheduledFor,
			AmountCents: receipt.AmountCents,
			Description: fmt.Sprintf("Coleta %s (%s)", request.UUID, receipt.QualityStatus),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to create ledger entry: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.Notify(request.CreatedBy, models.NotifyReceiptIssued,
			"Recibo emitido", fmt.Sprintf("Sua coleta de %s foi concluída (qualidade: %s).", request.ScheduledFor, receipt.QualityStatus))
	}
	return &receipt, nil
}

// Cancel transitions open → cancelled for the requester or an operator
func (s *PickupService) Cancel(actor *models.Profile, requestUUID string) (*models.PickupRequest, error) {
	var request models.PickupRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ?", requestUUID).First(&request).Error; err != nil {
			return err
		}
		if request.CreatedBy != actor.UUID && actor.Role != models.RoleOperator {
			return ErrForbidden
		}
		if request.Status != models.PickupOpen {
			return fmt.Errorf("%w: request is %s", ErrConflict, request.Status)
		}
		request.Status = models.PickupCancelled
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// accrual computes the ledger amount for a receipt; contaminated loads
// accrue nothing
func (s *PickupService) accrual(quality string, weightKg float64) int64 {
	switch quality {
	case models.QualityOk:
		return int64(weightKg * float64(s.rateOk))
	case models.QualityAttention:
		return int64(weightKg * float64(s.rateAttention))
	default:
		return 0
	}
}

// ListForRequester lists a resident's own requests, newest first
func (s *PickupService) ListForRequester(profileUUID string) ([]models.PickupRequest, error) {
	var rows []models.PickupRequest
	err := s.db.Where("created_by = ?", profileUUID).Order("created_at DESC").Limit(200).Find(&rows).Error
	return rows, err
}

// ListForCooperado lists open requests in a neighborhood plus the
// cooperado's own assignments
func (s *PickupService) ListForCooperado(actor *models.Profile, neighborhoodID string) ([]models.PickupRequest, error) {
	var rows []models.PickupRequest
	query := s.db.Where("accepted_by = ?", actor.UUID)
	if neighborhoodID != "" {
		query = query.Or("status = ? AND neighborhood_id = ?", models.PickupOpen, neighborhoodID)
	} else {
		query = query.Or("status = ?", models.PickupOpen)
	}
	err := query.Order("scheduled_for ASC").Limit(200).Find(&rows).Error
	return rows, err
}
