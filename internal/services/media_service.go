package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"

	"gorm.io/gorm"
)

// Strict UUID v1–v5 pattern; looser UUID-ish identifiers are rejected with 400
var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

// IsStrictUUID validates an identifier against the UUID v1–v5 pattern
func IsStrictUUID(s string) bool {
	return uuidPattern.MatchString(s)
}

// ErrSigningNotConfigured means the signing secret or base URL is missing
var ErrSigningNotConfigured = fmt.Errorf("media signing is not configured")

// MediaService authorizes callers against receipt/post ownership rules and
// mints short-lived signed URLs from object storage paths
type MediaService struct {
	db            *gorm.DB
	signingSecret string
	baseURL       string
	minTTL        int
	maxTTL        int
	defaultTTL    int
}

// NewMediaService creates a media service
func NewMediaService(db *gorm.DB, signingSecret, baseURL string, minTTL, maxTTL, defaultTTL int) *MediaService {
	return &MediaService{
		db:            db,
		signingSecret: signingSecret,
		baseURL:       baseURL,
		minTTL:        minTTL,
		maxTTL:        maxTTL,
		defaultTTL:    defaultTTL,
	}
}

// ClampTTL bounds a requested expiry to [min, max]; zero means the default
func (s *MediaService) ClampTTL(requested int) int {
	if requested == 0 {
		requested = s.defaultTTL
	}
	if requested < s.minTTL {
		return s.minTTL
	}
	if requested > s.maxTTL {
		return s.maxTTL
	}
	return requested
}

// Authorize decides whether the actor may view one media row.
// Order: operator always; owner always; receipt media additionally opens to
// the request's original resident and the assigned cooperado; post media is
// owner/operator-only.
func (s *MediaService) Authorize(actor *models.Profile, media *models.Media) (bool, error) {
	if actor.Role == models.RoleOperator {
		return true, nil
	}
	if media.OwnerID == actor.UUID {
		return true, nil
	}

	switch media.EntityType {
	case models.EntityReceipt:
		var receipt models.Receipt
		err := s.db.Where("uuid = ?", media.EntityID).First(&receipt).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return false, nil
			}
			return false, err
		}
		if receipt.CooperadoID == actor.UUID {
			return true, nil
		}
		var request models.PickupRequest
		err = s.db.Where("uuid = ?", receipt.PickupRequestID).First(&request).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return false, nil
			}
			return false, err
		}
		return request.CreatedBy == actor.UUID || request.AcceptedBy == actor.UUID, nil
	case models.EntityPost:
		return false, nil
	default:
		return false, nil
	}
}

// SignURL mints a time-limited signed URL for a storage path
func (s *MediaService) SignURL(storagePath string, ttlSeconds int) (string, error) {
	if s.signingSecret == "" || s.baseURL == "" {
		return "", ErrSigningNotConfigured
	}
	expiry := time.Now().Unix() + int64(ttlSeconds)
	h := hmac.New(sha256.New, []byte(s.signingSecret))
	fmt.Fprintf(h, "%s|%d", storagePath, expiry)
	signature := hex.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s/%s?exp=%d&sig=%s",
		strings.TrimRight(s.baseURL, "/"), strings.TrimLeft(storagePath, "/"), expiry, signature), nil
}

// SignedMediaItem is the single-item lookup response
type SignedMediaItem struct {
	MediaID    string `json:"media_id"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	ExpiresIn  int    `json:"expires_in"`
	SignedURL  string `json:"signed_url"`
}

// SignedMediaBatch is the entity-based lookup response
type SignedMediaBatch struct {
	EntityType string            `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	ExpiresIn  int               `json:"expires_in"`
	Items      []SignedBatchItem `json:"items"`
}

// SignedBatchItem is one row of a batch response
type SignedBatchItem struct {
	MediaID   string `json:"media_id"`
	SignedURL string `json:"signed_url"`
}

// SingleItem authorizes and signs one media row.
// Returns gorm.ErrRecordNotFound for unknown media and ErrForbidden on denial.
func (s *MediaService) SingleItem(actor *models.Profile, mediaUUID string, ttlSeconds int) (*SignedMediaItem, error) {
	var media models.Media
	if err := s.db.Where("uuid = ?", mediaUUID).First(&media).Error; err != nil {
		return nil, err
	}

	allowed, err := s.Authorize(actor, &media)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	signedURL, err := s.SignURL(media.StoragePath, ttlSeconds)
	if err != nil {
		return nil, err
	}
	return &SignedMediaItem{
		MediaID:    media.UUID,
		EntityType: media.EntityType,
		EntityID:   media.EntityID,
		ExpiresIn:  ttlSeconds,
		SignedURL:  signedURL,
	}, nil
}

// Batch applies the single-item decision to every media row of an entity,
// silently excluding denied rows. When rows exist but every one is excluded
// the whole call fails with ErrForbidden.
func (s *MediaService) Batch(actor *models.Profile, entityType, entityID string, ttlSeconds int) (*SignedMediaBatch, error) {
	var rows []models.Media
	err := s.db.Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	batch := &SignedMediaBatch{
		EntityType: entityType,
		EntityID:   entityID,
		ExpiresIn:  ttlSeconds,
		Items:      []SignedBatchItem{},
	}

	for i := range rows {
		allowed, err := s.Authorize(actor, &rows[i])
		if err != nil {
			return nil, err
		}
		if !allowed {
			continue
		}
		signedURL, err := s.SignURL(rows[i].StoragePath, ttlSeconds)
		if err != nil {
			return nil, err
		}
		batch.Items = append(batch.Items, SignedBatchItem{
			MediaID:   rows[i].UUID,
			SignedURL: signedURL,
		})
	}

	if len(rows) > 0 && len(batch.Items) == 0 {
		return nil, ErrForbidden
	}
	return batch, nil
}
