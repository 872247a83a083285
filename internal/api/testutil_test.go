package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/config"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/database"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/middleware"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// setupTestEnv wires the package globals the handlers read: an in-memory
// sqlite database and a config with media signing enabled
func setupTestEnv(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	database.DB = db
	config.AppConfig = &config.Config{
		Mode:                    "test",
		MediaSigningSecret:      "test-signing-secret",
		MediaBaseURL:            "https://media.test.local",
		MediaDefaultTTLSecs:     120,
		MediaMinTTLSecs:         60,
		MediaMaxTTLSecs:         300,
		RateOkCentsPerKg:        50,
		RateAttentionCentsPerKg: 30,
	}
	return db
}

// asActor wraps a handler behind a middleware that injects the given profile,
// skipping token verification
func asActor(profile *models.Profile, handler gin.HandlerFunc) http.Handler {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if profile != nil {
			middleware.SetActor(c, profile)
		}
		c.Next()
	})
	r.GET("/test", handler)
	return r
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func seedProfile(t *testing.T, db *gorm.DB, role string) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		UUID:        uuid.NewString(),
		DisplayName: "Perfil " + role,
		Email:       uuid.NewString() + "@test.local",
		Role:        role,
		IsActive:    true,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return profile
}

func seedMedia(t *testing.T, db *gorm.DB, ownerID, entityType, entityID string) *models.Media {
	t.Helper()
	media := &models.Media{
		UUID:        uuid.NewString(),
		OwnerID:     ownerID,
		EntityType:  entityType,
		EntityID:    entityID,
		StoragePath: "proofs/" + uuid.NewString() + ".jpg",
		ContentType: "image/jpeg",
	}
	if err := db.Create(media).Error; err != nil {
		t.Fatalf("failed to create media: %v", err)
	}
	return media
}
