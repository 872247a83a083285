package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/pkg/logging"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the wire format for schedule dates
const DateLayout = "2006-01-02"

// RecurringService expands active recurring subscriptions into concrete
// pickup requests, per route window and per scheduling date, enforcing
// capacity limits, idempotency and per-subscription validity
type RecurringService struct {
	db       *gorm.DB
	notifier *NotificationService
}

// NewRecurringService creates a recurring service
func NewRecurringService(db *gorm.DB, notifier *NotificationService) *RecurringService {
	return &RecurringService{db: db, notifier: notifier}
}

// GenerationResult reports one expansion run for a window/date
type GenerationResult struct {
	WindowID        string `json:"window_id"`
	ScheduledFor    string `json:"scheduled_for"`
	Generated       int    `json:"generated"`
	SkippedExisting int    `json:"skipped_existing"`
	SkippedPaused   int    `json:"skipped_paused"`
	SkippedInvalid  int    `json:"skipped_invalid"`
	SkippedCapacity int    `json:"skipped_capacity"`
}

type pendingNotify struct {
	profileID string
	kind      string
	title     string
	body      string
}

// NextWindowDate resolves the next calendar occurrence of a weekday,
// counting from (and including) the given day
func NextWindowDate(from time.Time, weekday int) time.Time {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	offset := (weekday - int(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, offset)
}

// biweeklyDue reports whether a biweekly subscription is due on the target
// date: the ISO week parity must match the week the subscription was created
func biweeklyDue(subscriptionCreated, target time.Time) bool {
	_, createdWeek := subscriptionCreated.ISOWeek()
	_, targetWeek := target.ISOWeek()
	return createdWeek%2 == targetWeek%2
}

// Generate expands one route window into pickup requests for a target date.
// A nil scheduledFor means "next occurrence of this window's weekday".
// The run is transactional; the unique (subscription, date) occurrence index
// makes it idempotent and safe under concurrent invocation.
func (s *RecurringService) Generate(windowUUID string, scheduledFor *time.Time) (*GenerationResult, error) {
	var window models.RouteWindow
	if err := s.db.Where("uuid = ? AND is_active = ?", windowUUID, true).First(&window).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("route window not found")
		}
		return nil, err
	}

	today := time.Now()
	var target time.Time
	if scheduledFor == nil {
		target = NextWindowDate(today, window.Weekday)
	} else {
		target = time.Date(scheduledFor.Year(), scheduledFor.Month(), scheduledFor.Day(), 0, 0, 0, 0, time.UTC)
		if int(target.Weekday()) != window.Weekday {
			return nil, fmt.Errorf("scheduled date does not fall on the window's weekday")
		}
		todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		if target.Before(todayDate) {
			return nil, fmt.Errorf("scheduled date is in the past")
		}
	}
	dateStr := target.Format(DateLayout)

	result := &GenerationResult{WindowID: window.UUID, ScheduledFor: dateStr}
	var notifies []pendingNotify

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var subscriptions []models.RecurringSubscription
		// Oldest subscription first: long-standing residents win a
		// capacity-limited window.
		if err := tx.Where("preferred_window_id = ?", window.UUID).
			Order("created_at ASC, id ASC").
			Find(&subscriptions).Error; err != nil {
			return err
		}

		var admitted int64
		if err := tx.Model(&models.PickupRequest{}).
			Where("route_window_id = ? AND scheduled_for = ? AND status <> ?",
				window.UUID, dateStr, models.PickupCancelled).
			Count(&admitted).Error; err != nil {
			return err
		}

		for i := range subscriptions {
			sub := &subscriptions[i]

			var existing int64
			if err := tx.Model(&models.RecurringOccurrence{}).
				Where("subscription_id = ? AND scheduled_for = ?", sub.UUID, dateStr).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				result.SkippedExisting++
				continue
			}

			if sub.Status == models.SubscriptionPaused {
				if err := s.recordOccurrence(tx, sub.UUID, dateStr, window.UUID,
					models.OccurrenceSkippedPaused, ""); err != nil {
					return err
				}
				result.SkippedPaused++
				continue
			}

			// Off-week for a biweekly cadence is not an expansion attempt
			if sub.Cadence == models.CadenceBiweekly && !biweeklyDue(sub.CreatedAt, target) {
				continue
			}

			valid, reason, err := s.subscriptionValid(tx, sub)
			if err != nil {
				return err
			}
			if !valid {
				if err := s.recordOccurrence(tx, sub.UUID, dateStr, window.UUID,
					models.OccurrenceSkippedInvalid, ""); err != nil {
					return err
				}
				result.SkippedInvalid++
				notifies = append(notifies, pendingNotify{
					profileID: sub.CreatedBy,
					kind:      models.NotifyRecurringSkippedInvalid,
					title:     "Coleta recorrente não gerada",
					body:      fmt.Sprintf("Sua coleta de %s não foi gerada: %s.", dateStr, reason),
				})
				continue
			}

			if admitted >= int64(window.Capacity) {
				if err := s.recordOccurrence(tx, sub.UUID, dateStr, window.UUID,
					models.OccurrenceSkippedCapacity, ""); err != nil {
					return err
				}
				result.SkippedCapacity++
				notifies = append(notifies, pendingNotify{
					profileID: sub.CreatedBy,
					kind:      models.NotifyRecurringSkippedCapacity,
					title:     "Janela de rota lotada",
					body:      fmt.Sprintf("A janela escolhida está sem vagas para %s.", dateStr),
				})
				continue
			}

			request := models.PickupRequest{
				UUID:            uuid.NewString(),
				CreatedBy:       sub.CreatedBy,
				NeighborhoodID:  sub.NeighborhoodID,
				FulfillmentMode: sub.FulfillmentMode,
				RouteWindowID:   window.UUID,
				DropPointID:     sub.DropPointID,
				ScheduledFor:    dateStr,
				Status:          models.PickupOpen,
				IsRecurring:     true,
				SubscriptionID:  sub.UUID,
				MaterialNotes:   sub.MaterialNotes,
			}
			if err := tx.Create(&request).Error; err != nil {
				return fmt.Errorf("failed to create pickup request: %w", err)
			}
			if err := s.recordOccurrence(tx, sub.UUID, dateStr, window.UUID,
				models.OccurrenceGenerated, request.UUID); err != nil {
				return err
			}
			result.Generated++
			admitted++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// In-app notifications only after the run commits
	if s.notifier != nil {
		for _, p := range notifies {
			if err := s.notifier.Notify(p.profileID, p.kind, p.title, p.body); err != nil {
				logging.Errorf("Failed to notify profile %s: %v", p.profileID, err)
			}
		}
	}

	logging.Infof("Generation run window=%s date=%s generated=%d existing=%d paused=%d invalid=%d capacity=%d",
		result.WindowID, result.ScheduledFor, result.Generated, result.SkippedExisting,
		result.SkippedPaused, result.SkippedInvalid, result.SkippedCapacity)

	return result, nil
}

// recordOccurrence writes one expansion attempt row. A unique-index conflict
// means a concurrent run already expanded this subscription for the date.
func (s *RecurringService) recordOccurrence(tx *gorm.DB, subscriptionID, dateStr, windowID, status, requestID string) error {
	occurrence := models.RecurringOccurrence{
		SubscriptionID:  subscriptionID,
		ScheduledFor:    dateStr,
		Status:          status,
		PickupRequestID: requestID,
		WindowID:        windowID,
	}
	if err := tx.Create(&occurrence).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return fmt.Errorf("occurrence already recorded for subscription %s on %s", subscriptionID, dateStr)
		}
		return fmt.Errorf("failed to record occurrence: %w", err)
	}
	return nil
}

// subscriptionValid checks the expansion preconditions: a doorstep
// subscription needs the creator's address, a drop-point one needs an
// active drop point
func (s *RecurringService) subscriptionValid(tx *gorm.DB, sub *models.RecurringSubscription) (bool, string, error) {
	switch sub.FulfillmentMode {
	case models.FulfillmentDoorstep:
		var profile models.Profile
		err := tx.Where("uuid = ? AND is_active = ?", sub.CreatedBy, true).First(&profile).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return false, "perfil do morador não encontrado", nil
			}
			return false, "", err
		}
		if !profile.HasDoorstepAddress() {
			return false, "endereço de coleta não cadastrado", nil
		}
		return true, "", nil
	case models.FulfillmentDropPoint:
		var point models.DropPoint
		err := tx.Where("uuid = ? AND is_active = ?", sub.DropPointID, true).First(&point).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return false, "ponto de entrega indisponível", nil
			}
			return false, "", err
		}
		return true, "", nil
	default:
		return false, "modalidade de coleta desconhecida", nil
	}
}

// ListActiveWindowsForWeekday lists active windows whose weekday matches,
// used by the daily scheduler run
func (s *RecurringService) ListActiveWindowsForWeekday(weekday int) ([]models.RouteWindow, error) {
	var windows []models.RouteWindow
	err := s.db.Where("weekday = ? AND is_active = ?", weekday, true).Find(&windows).Error
	return windows, err
}

// ListOccurrences lists the expansion history of a subscription
func (s *RecurringService) ListOccurrences(subscriptionUUID string) ([]models.RecurringOccurrence, error) {
	var rows []models.RecurringOccurrence
	err := s.db.Where("subscription_id = ?", subscriptionUUID).
		Order("scheduled_for DESC").Limit(100).Find(&rows).Error
	return rows, err
}
