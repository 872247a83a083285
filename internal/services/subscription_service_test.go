package services

import (
	"errors"
	"testing"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestCreateSubscriptionValidation(t *testing.T) {
	db := newTestDB(t)
	service := NewSubscriptionService(db)

	neighborhood := createNeighborhood(t, db)
	resident := createProfile(t, db, models.RoleResident, "Rua A")
	window := createWindow(t, db, neighborhood.UUID, 2, 10)

	base := CreateSubscriptionInput{
		CreatedBy:        resident.UUID,
		NeighborhoodID:   neighborhood.UUID,
		FulfillmentMode:  models.FulfillmentDoorstep,
		PreferredWeekday: 2,
	}

	t.Run("defaults to weekly", func(t *testing.T) {
		sub, err := service.Create(base)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if sub.Cadence != models.CadenceWeekly || sub.Status != models.SubscriptionActive {
			t.Fatalf("unexpected subscription: %+v", sub)
		}
	})

	t.Run("rejects unknown cadence", func(t *testing.T) {
		input := base
		input.Cadence = "monthly"
		if _, err := service.Create(input); err == nil {
			t.Fatal("expected an error for an unknown cadence")
		}
	})

	t.Run("rejects out-of-range weekday", func(t *testing.T) {
		input := base
		input.PreferredWeekday = 7
		if _, err := service.Create(input); err == nil {
			t.Fatal("expected an error for weekday 7")
		}
	})

	t.Run("rejects window weekday mismatch", func(t *testing.T) {
		input := base
		input.PreferredWeekday = 3
		input.PreferredWindowID = window.UUID
		if _, err := service.Create(input); err == nil {
			t.Fatal("expected an error for a window weekday mismatch")
		}
	})

	t.Run("requires an active drop point", func(t *testing.T) {
		input := base
		input.FulfillmentMode = models.FulfillmentDropPoint
		input.DropPointID = uuid.NewString()
		if _, err := service.Create(input); err == nil {
			t.Fatal("expected an error for an unknown drop point")
		}
	})
}

func TestSetStatusOwnerScoped(t *testing.T) {
	db := newTestDB(t)
	service := NewSubscriptionService(db)

	neighborhood := createNeighborhood(t, db)
	owner := createProfile(t, db, models.RoleResident, "Rua A")
	other := createProfile(t, db, models.RoleResident, "Rua B")
	window := createWindow(t, db, neighborhood.UUID, 1, 10)
	sub := createSubscription(t, db, owner, window, models.FulfillmentDoorstep, models.SubscriptionActive)

	// Another resident cannot pause it
	err := service.SetStatus(other.UUID, sub.UUID, models.SubscriptionPaused)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found for a non-owner, got %v", err)
	}

	if err := service.SetStatus(owner.UUID, sub.UUID, models.SubscriptionPaused); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	var reloaded models.RecurringSubscription
	if err := db.Where("uuid = ?", sub.UUID).First(&reloaded).Error; err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if reloaded.Status != models.SubscriptionPaused {
		t.Fatalf("expected paused, got %s", reloaded.Status)
	}

	if err := service.SetStatus(owner.UUID, sub.UUID, "cancelled-forever"); err == nil {
		t.Fatal("expected an error for an unknown status")
	}
}
