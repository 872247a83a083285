package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/config"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/services"

	"github.com/google/uuid"
)

func TestGetSignedMediaURLRequiresAuth(t *testing.T) {
	setupTestEnv(t)
	h := asActor(nil, GetSignedMediaURL)

	w := doGet(t, h, "/test?media_id="+uuid.NewString())
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("expected a flat error payload, got %s", w.Body.String())
	}
}

func TestGetSignedMediaURLValidation(t *testing.T) {
	db := setupTestEnv(t)
	actor := seedProfile(t, db, models.RoleResident)
	h := asActor(actor, GetSignedMediaURL)

	tests := []struct {
		name   string
		target string
	}{
		{name: "loose media id", target: "/test?media_id=not-a-uuid"},
		{name: "missing parameters", target: "/test"},
		{name: "entity type without id", target: "/test?entity_type=receipt"},
		{name: "unknown entity type", target: "/test?entity_type=window&entity_id=" + uuid.NewString()},
		{name: "loose entity id", target: "/test?entity_type=receipt&entity_id=123"},
		{name: "non-integer expiry", target: "/test?media_id=" + uuid.NewString() + "&expires_in=soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(t, h, tt.target)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestGetSignedMediaURLSingleItem(t *testing.T) {
	db := setupTestEnv(t)
	owner := seedProfile(t, db, models.RoleCooperado)
	media := seedMedia(t, db, owner.UUID, models.EntityReceipt, uuid.NewString())
	h := asActor(owner, GetSignedMediaURL)

	w := doGet(t, h, "/test?media_id="+media.UUID)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var item services.SignedMediaItem
	if err := json.Unmarshal(w.Body.Bytes(), &item); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if item.MediaID != media.UUID || item.SignedURL == "" {
		t.Fatalf("unexpected item: %+v", item)
	}
	if item.ExpiresIn != 120 {
		t.Fatalf("expected default ttl 120, got %d", item.ExpiresIn)
	}
}

func TestGetSignedMediaURLClampsExpiry(t *testing.T) {
	db := setupTestEnv(t)
	owner := seedProfile(t, db, models.RoleCooperado)
	media := seedMedia(t, db, owner.UUID, models.EntityReceipt, uuid.NewString())
	h := asActor(owner, GetSignedMediaURL)

	w := doGet(t, h, "/test?media_id="+media.UUID+"&expires_in=9999")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var item services.SignedMediaItem
	if err := json.Unmarshal(w.Body.Bytes(), &item); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if item.ExpiresIn != 300 {
		t.Fatalf("expected clamped ttl 300, got %d", item.ExpiresIn)
	}
}

func TestGetSignedMediaURLNotFoundAndForbidden(t *testing.T) {
	db := setupTestEnv(t)
	owner := seedProfile(t, db, models.RoleCooperado)
	stranger := seedProfile(t, db, models.RoleResident)
	media := seedMedia(t, db, owner.UUID, models.EntityReceipt, uuid.NewString())

	w := doGet(t, asActor(owner, GetSignedMediaURL), "/test?media_id="+uuid.NewString())
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown media, got %d", w.Code)
	}

	w = doGet(t, asActor(stranger, GetSignedMediaURL), "/test?media_id="+media.UUID)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a denied actor, got %d", w.Code)
	}
}

func TestGetSignedMediaURLBatch(t *testing.T) {
	db := setupTestEnv(t)
	owner := seedProfile(t, db, models.RoleCooperado)
	stranger := seedProfile(t, db, models.RoleResident)
	entityID := uuid.NewString()
	seedMedia(t, db, owner.UUID, models.EntityReceipt, entityID)
	seedMedia(t, db, owner.UUID, models.EntityReceipt, entityID)

	w := doGet(t, asActor(owner, GetSignedMediaURL),
		"/test?entity_type=receipt&entity_id="+entityID)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var batch services.SignedMediaBatch
	if err := json.Unmarshal(w.Body.Bytes(), &batch); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(batch.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(batch.Items))
	}

	// Rows exist but every one is denied: the whole call is forbidden
	w = doGet(t, asActor(stranger, GetSignedMediaURL),
		"/test?entity_type=receipt&entity_id="+entityID)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 when every row is excluded, got %d", w.Code)
	}

	// No rows at all is an empty 200
	w = doGet(t, asActor(stranger, GetSignedMediaURL),
		"/test?entity_type=receipt&entity_id="+uuid.NewString())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for an empty entity, got %d", w.Code)
	}
}

func TestGetSignedMediaURLUnconfiguredSigning(t *testing.T) {
	db := setupTestEnv(t)
	owner := seedProfile(t, db, models.RoleCooperado)
	media := seedMedia(t, db, owner.UUID, models.EntityReceipt, uuid.NewString())

	config.AppConfig.MediaSigningSecret = ""

	w := doGet(t, asActor(owner, GetSignedMediaURL), "/test?media_id="+media.UUID)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 without a signing secret, got %d", w.Code)
	}
}
