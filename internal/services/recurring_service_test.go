package services

import (
	"testing"
	"time"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"
)

// nextTargetDate returns a future date (a week out) matching its own
// weekday, so Generate never rejects it as past or mismatched
func nextTargetDate() time.Time {
	return time.Now().AddDate(0, 0, 7)
}

func TestNextWindowDate(t *testing.T) {
	// Wednesday 2026-01-07
	wednesday := time.Date(2026, 1, 7, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		weekday int
		want    string
	}{
		{name: "same weekday resolves to today", weekday: 3, want: "2026-01-07"},
		{name: "next day", weekday: 4, want: "2026-01-08"},
		{name: "wraps past the weekend", weekday: 1, want: "2026-01-12"},
		{name: "day before wraps a full week", weekday: 2, want: "2026-01-13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextWindowDate(wednesday, tt.weekday).Format(DateLayout)
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestGenerateIdempotent(t *testing.T) {
	db := newTestDB(t)
	notifier := NewNotificationService(db, "", "")
	service := NewRecurringService(db, notifier)

	target := nextTargetDate()
	neighborhood := createNeighborhood(t, db)
	window := createWindow(t, db, neighborhood.UUID, int(target.Weekday()), 5)

	for i := 0; i < 2; i++ {
		owner := createProfile(t, db, models.RoleResident, "Rua das Flores")
		createSubscription(t, db, owner, window, models.FulfillmentDoorstep, models.SubscriptionActive)
	}

	first, err := service.Generate(window.UUID, &target)
	if err != nil {
		t.Fatalf("first generate failed: %v", err)
	}
	if first.Generated != 2 {
		t.Fatalf("expected 2 generated, got %d", first.Generated)
	}

	second, err := service.Generate(window.UUID, &target)
	if err != nil {
		t.Fatalf("second generate failed: %v", err)
	}
	if second.Generated != 0 {
		t.Fatalf("expected 0 generated on repeat, got %d", second.Generated)
	}
	if second.SkippedExisting != first.Generated {
		t.Fatalf("expected skipped_existing == %d, got %d", first.Generated, second.SkippedExisting)
	}

	var requests int64
	db.Model(&models.PickupRequest{}).
		Where("route_window_id = ?", window.UUID).Count(&requests)
	if requests != 2 {
		t.Fatalf("expected 2 pickup requests after both runs, got %d", requests)
	}
}

func TestGenerateCapacityCeiling(t *testing.T) {
	db := newTestDB(t)
	notifier := NewNotificationService(db, "", "")
	service := NewRecurringService(db, notifier)

	target := nextTargetDate()
	neighborhood := createNeighborhood(t, db)
	window := createWindow(t, db, neighborhood.UUID, int(target.Weekday()), 1)

	first := createProfile(t, db, models.RoleResident, "Rua A")
	second := createProfile(t, db, models.RoleResident, "Rua B")
	createSubscription(t, db, first, window, models.FulfillmentDoorstep, models.SubscriptionActive)
	overflowSub := createSubscription(t, db, second, window, models.FulfillmentDoorstep, models.SubscriptionActive)

	result, err := service.Generate(window.UUID, &target)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if result.Generated != 1 {
		t.Fatalf("expected 1 generated, got %d", result.Generated)
	}
	if result.SkippedCapacity != 1 {
		t.Fatalf("expected 1 skipped_capacity, got %d", result.SkippedCapacity)
	}

	// Oldest subscription wins; the overflow occurrence belongs to the second
	var occurrence models.RecurringOccurrence
	if err := db.Where("subscription_id = ?", overflowSub.UUID).First(&occurrence).Error; err != nil {
		t.Fatalf("expected an occurrence for the overflow subscription: %v", err)
	}
	if occurrence.Status != models.OccurrenceSkippedCapacity {
		t.Fatalf("expected skipped_capacity occurrence, got %s", occurrence.Status)
	}

	if got := countNotifications(t, db, second.UUID, models.NotifyRecurringSkippedCapacity); got != 1 {
		t.Fatalf("expected 1 capacity notification for the overflow resident, got %d", got)
	}
}

func TestGenerateInvalidDoorstepSkipped(t *testing.T) {
	db := newTestDB(t)
	notifier := NewNotificationService(db, "", "")
	service := NewRecurringService(db, notifier)

	target := nextTargetDate()
	neighborhood := createNeighborhood(t, db)
	window := createWindow(t, db, neighborhood.UUID, int(target.Weekday()), 5)

	noAddress := createProfile(t, db, models.RoleResident, "")
	createSubscription(t, db, noAddress, window, models.FulfillmentDoorstep, models.SubscriptionActive)

	result, err := service.Generate(window.UUID, &target)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if result.SkippedInvalid != 1 {
		t.Fatalf("expected 1 skipped_invalid, got %d", result.SkippedInvalid)
	}
	if result.Generated != 0 {
		t.Fatalf("expected 0 generated, got %d", result.Generated)
	}

	if got := countNotifications(t, db, noAddress.UUID, models.NotifyRecurringSkippedInvalid); got != 1 {
		t.Fatalf("expected 1 invalid notification, got %d", got)
	}
}

func TestGeneratePausedNeverGenerates(t *testing.T) {
	db := newTestDB(t)
	notifier := NewNotificationService(db, "", "")
	service := NewRecurringService(db, notifier)

	target := nextTargetDate()
	neighborhood := createNeighborhood(t, db)
	window := createWindow(t, db, neighborhood.UUID, int(target.Weekday()), 5)

	owner := createProfile(t, db, models.RoleResident, "Rua C")
	createSubscription(t, db, owner, window, models.FulfillmentDoorstep, models.SubscriptionPaused)

	result, err := service.Generate(window.UUID, &target)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if result.SkippedPaused != 1 {
		t.Fatalf("expected 1 skipped_paused, got %d", result.SkippedPaused)
	}
	if result.Generated != 0 {
		t.Fatalf("expected 0 generated, got %d", result.Generated)
	}
}

func TestGenerateDropPointValidity(t *testing.T) {
	db := newTestDB(t)
	notifier := NewNotificationService(db, "", "")
	service := NewRecurringService(db, notifier)

	target := nextTargetDate()
	neighborhood := createNeighborhood(t, db)
	window := createWindow(t, db, neighborhood.UUID, int(target.Weekday()), 5)

	owner := createProfile(t, db, models.RoleResident, "")
	sub := createSubscription(t, db, owner, window, models.FulfillmentDropPoint, models.SubscriptionActive)

	// No drop point registered: invalid
	result, err := service.Generate(window.UUID, &target)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if result.SkippedInvalid != 1 {
		t.Fatalf("expected 1 skipped_invalid without a drop point, got %d", result.SkippedInvalid)
	}

	// Attach an active drop point and retry on another date
	point := models.DropPoint{
		UUID:           "b3c64a1e-1111-4111-8111-222233334444",
		NeighborhoodID: neighborhood.UUID,
		Name:           "Galpão Central",
		IsActive:       true,
	}
	if err := db.Create(&point).Error; err != nil {
		t.Fatalf("failed to create drop point: %v", err)
	}
	if err := db.Model(&models.RecurringSubscription{}).
		Where("uuid = ?", sub.UUID).Update("drop_point_id", point.UUID).Error; err != nil {
		t.Fatalf("failed to attach drop point: %v", err)
	}

	nextWeek := target.AddDate(0, 0, 7)
	result, err = service.Generate(window.UUID, &nextWeek)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if result.Generated != 1 {
		t.Fatalf("expected 1 generated with an active drop point, got %d", result.Generated)
	}
}

func TestGenerateRejectsWeekdayMismatch(t *testing.T) {
	db := newTestDB(t)
	service := NewRecurringService(db, nil)

	target := nextTargetDate()
	neighborhood := createNeighborhood(t, db)
	window := createWindow(t, db, neighborhood.UUID, int(target.Weekday()), 5)

	wrongDay := target.AddDate(0, 0, 1)
	if _, err := service.Generate(window.UUID, &wrongDay); err == nil {
		t.Fatal("expected an error for a weekday mismatch")
	}
}

func TestBiweeklyDue(t *testing.T) {
	created := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // ISO week 2

	tests := []struct {
		name   string
		target time.Time
		want   bool
	}{
		{name: "same week", target: created, want: true},
		{name: "next week is off", target: created.AddDate(0, 0, 7), want: false},
		{name: "two weeks out is due", target: created.AddDate(0, 0, 14), want: true},
		{name: "three weeks out is off", target: created.AddDate(0, 0, 21), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := biweeklyDue(created, tt.target); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
