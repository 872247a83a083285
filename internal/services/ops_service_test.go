package services

import (
	"testing"
	"time"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"

	"github.com/google/uuid"
)

func TestClassifyBucket(t *testing.T) {
	tests := []struct {
		name        string
		utilization float64
		qualityRate float64
		want        string
	}{
		{name: "idle window", utilization: 0, qualityRate: 1, want: BucketOk},
		{name: "moderate load", utilization: 0.5, qualityRate: 0.9, want: BucketOk},
		{name: "warning from 70 percent", utilization: 0.7, qualityRate: 1, want: BucketWarning},
		{name: "critical at capacity", utilization: 1.0, qualityRate: 1, want: BucketCritical},
		{name: "critical over capacity", utilization: 1.4, qualityRate: 1, want: BucketCritical},
		{name: "critical on poor quality", utilization: 0.1, qualityRate: 0.4, want: BucketCritical},
		{name: "quality at the edge stays ok", utilization: 0.1, qualityRate: 0.5, want: BucketOk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyBucket(tt.utilization, tt.qualityRate); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestWindowLoad7d(t *testing.T) {
	db := newTestDB(t)
	service := NewOpsService(db, NewRedisServiceWithClient(nil))

	neighborhood := createNeighborhood(t, db)
	resident := createProfile(t, db, models.RoleResident, "Rua A")
	window := createWindow(t, db, neighborhood.UUID, int(time.Now().Weekday()), 2)

	tomorrow := time.Now().AddDate(0, 0, 1).Format(DateLayout)
	for i := 0; i < 2; i++ {
		request := models.PickupRequest{
			UUID:            uuid.NewString(),
			CreatedBy:       resident.UUID,
			NeighborhoodID:  neighborhood.UUID,
			FulfillmentMode: models.FulfillmentDoorstep,
			RouteWindowID:   window.UUID,
			ScheduledFor:    tomorrow,
			Status:          models.PickupOpen,
		}
		if err := db.Create(&request).Error; err != nil {
			t.Fatalf("failed to create request: %v", err)
		}
	}
	// Cancelled requests do not count against capacity
	cancelled := models.PickupRequest{
		UUID:            uuid.NewString(),
		CreatedBy:       resident.UUID,
		NeighborhoodID:  neighborhood.UUID,
		FulfillmentMode: models.FulfillmentDoorstep,
		RouteWindowID:   window.UUID,
		ScheduledFor:    tomorrow,
		Status:          models.PickupCancelled,
	}
	if err := db.Create(&cancelled).Error; err != nil {
		t.Fatalf("failed to create cancelled request: %v", err)
	}

	loads, err := service.WindowLoad7d(neighborhood.UUID)
	if err != nil {
		t.Fatalf("window load failed: %v", err)
	}
	if len(loads) != 1 {
		t.Fatalf("expected 1 load row, got %d", len(loads))
	}
	load := loads[0]
	if load.RequestsCount != 2 {
		t.Fatalf("expected 2 counted requests, got %d", load.RequestsCount)
	}
	if load.Utilization != 1.0 {
		t.Fatalf("expected utilization 1.0, got %f", load.Utilization)
	}
	if load.QualityRate != 1.0 {
		t.Fatalf("expected default quality rate 1.0 with no receipts, got %f", load.QualityRate)
	}
	if load.Bucket != BucketCritical {
		t.Fatalf("expected critical bucket at capacity, got %s", load.Bucket)
	}
}

func TestRefreshOpsAlerts(t *testing.T) {
	db := newTestDB(t)
	service := NewOpsService(db, NewRedisServiceWithClient(nil))

	neighborhood := createNeighborhood(t, db)
	resident := createProfile(t, db, models.RoleResident, "Rua B")
	window := createWindow(t, db, neighborhood.UUID, int(time.Now().Weekday()), 1)

	request := models.PickupRequest{
		UUID:            uuid.NewString(),
		CreatedBy:       resident.UUID,
		NeighborhoodID:  neighborhood.UUID,
		FulfillmentMode: models.FulfillmentDoorstep,
		RouteWindowID:   window.UUID,
		ScheduledFor:    time.Now().Format(DateLayout),
		Status:          models.PickupOpen,
	}
	if err := db.Create(&request).Error; err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	stale := time.Now().Add(-30 * 24 * time.Hour)
	point := models.DropPoint{
		UUID:           uuid.NewString(),
		NeighborhoodID: neighborhood.UUID,
		Name:           "Ponto Praça",
		IsActive:       true,
		LastTriagedAt:  &stale,
	}
	if err := db.Create(&point).Error; err != nil {
		t.Fatalf("failed to create drop point: %v", err)
	}

	alerts, err := service.RefreshOpsAlerts(neighborhood.UUID)
	if err != nil {
		t.Fatalf("refresh alerts failed: %v", err)
	}

	kinds := map[string]int{}
	for _, alert := range alerts {
		kinds[alert.Kind]++
	}
	if kinds["window_critical"] != 1 {
		t.Fatalf("expected 1 window_critical alert, got %d", kinds["window_critical"])
	}
	if kinds["triage_stale"] != 1 {
		t.Fatalf("expected 1 triage_stale alert, got %d", kinds["triage_stale"])
	}
}
