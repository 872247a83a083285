package services

import (
	"errors"
	"testing"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"
)

func TestPromoteUser(t *testing.T) {
	db := newTestDB(t)
	service := NewUserService(db)

	resident := createProfile(t, db, models.RoleResident, "Rua A")

	promoted, err := service.PromoteUser(resident.UUID, models.RoleCooperado)
	if err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if promoted.Role != models.RoleCooperado {
		t.Fatalf("expected cooperado role, got %s", promoted.Role)
	}

	if _, err := service.PromoteUser(resident.UUID, "superadmin"); err == nil {
		t.Fatal("expected an error for an unknown role")
	}
}

func TestPromoteUserLastOperatorGuard(t *testing.T) {
	db := newTestDB(t)
	service := NewUserService(db)

	only := createProfile(t, db, models.RoleOperator, "")

	if _, err := service.PromoteUser(only.UUID, models.RoleResident); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict demoting the last operator, got %v", err)
	}

	// With a second operator the demotion goes through
	createProfile(t, db, models.RoleOperator, "")
	demoted, err := service.PromoteUser(only.UUID, models.RoleResident)
	if err != nil {
		t.Fatalf("demotion with a second operator failed: %v", err)
	}
	if demoted.Role != models.RoleResident {
		t.Fatalf("expected resident role, got %s", demoted.Role)
	}
}

func TestUpdateAddress(t *testing.T) {
	db := newTestDB(t)
	service := NewUserService(db)

	profile := createProfile(t, db, models.RoleResident, "")
	err := service.UpdateAddress(profile.UUID, UpdateAddressInput{
		Street:       "Rua Nova",
		StreetNumber: "42",
		AddressExtra: "fundos",
	})
	if err != nil {
		t.Fatalf("update address failed: %v", err)
	}

	var updated models.Profile
	if err := db.Where("uuid = ?", profile.UUID).First(&updated).Error; err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if !updated.HasDoorstepAddress() || updated.StreetNumber != "42" {
		t.Fatalf("address not stored: %+v", updated)
	}

	if err := service.UpdateAddress("missing-uuid", UpdateAddressInput{Street: "x"}); err == nil {
		t.Fatal("expected an error for an unknown profile")
	}
}
