package services

import (
	"fmt"
	"testing"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/database"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// newTestDB opens a fresh in-memory sqlite database with the production
// schema. SingularTable matches the server's naming strategy so raw joins
// behave identically.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createProfile(t *testing.T, db *gorm.DB, role, street string) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		UUID:        uuid.NewString(),
		DisplayName: "Test " + role,
		Email:       uuid.NewString() + "@test.local",
		Role:        role,
		Street:      street,
		IsActive:    true,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return profile
}

func createNeighborhood(t *testing.T, db *gorm.DB) *models.Neighborhood {
	t.Helper()
	neighborhood := &models.Neighborhood{
		UUID:     uuid.NewString(),
		Name:     "Bairro " + uuid.NewString()[:8],
		IsActive: true,
	}
	if err := db.Create(neighborhood).Error; err != nil {
		t.Fatalf("failed to create neighborhood: %v", err)
	}
	return neighborhood
}

func createWindow(t *testing.T, db *gorm.DB, neighborhoodID string, weekday, capacity int) *models.RouteWindow {
	t.Helper()
	window := &models.RouteWindow{
		UUID:           uuid.NewString(),
		NeighborhoodID: neighborhoodID,
		Weekday:        weekday,
		StartTime:      "08:00",
		EndTime:        "12:00",
		Capacity:       capacity,
		IsActive:       true,
	}
	if err := db.Create(window).Error; err != nil {
		t.Fatalf("failed to create window: %v", err)
	}
	return window
}

func createSubscription(t *testing.T, db *gorm.DB, owner *models.Profile, window *models.RouteWindow, mode, status string) *models.RecurringSubscription {
	t.Helper()
	sub := &models.RecurringSubscription{
		UUID:              uuid.NewString(),
		CreatedBy:         owner.UUID,
		NeighborhoodID:    window.NeighborhoodID,
		FulfillmentMode:   mode,
		Cadence:           models.CadenceWeekly,
		PreferredWeekday:  window.Weekday,
		PreferredWindowID: window.UUID,
		Status:            status,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}
	return sub
}

func countNotifications(t *testing.T, db *gorm.DB, profileID, kind string) int64 {
	t.Helper()
	var count int64
	err := db.Model(&models.Notification{}).
		Where("profile_id = ? AND kind = ?", profileID, kind).
		Count(&count).Error
	if err != nil {
		t.Fatalf("failed to count notifications: %v", err)
	}
	return count
}
