package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/pkg/logging"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationService writes in-app notifications and, when an ops backend
// is configured, fans the event out over a signed webhook
type NotificationService struct {
	db            *gorm.DB
	webhookURL    string
	webhookSecret string
	httpClient    *http.Client
}

// NewNotificationService creates a notification service
func NewNotificationService(db *gorm.DB, webhookURL, webhookSecret string) *NotificationService {
	return &NotificationService{
		db:            db,
		webhookURL:    webhookURL,
		webhookSecret: webhookSecret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Notify creates an in-app notification row and schedules the webhook fan-out
func (n *NotificationService) Notify(profileID, kind, title, body string) error {
	row := models.Notification{
		UUID:      uuid.NewString(),
		ProfileID: profileID,
		Kind:      kind,
		Title:     title,
		Body:      body,
	}
	if err := n.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if n.webhookURL != "" {
		go n.sendWithRetry(WebhookPayload{
			Event:     kind,
			ProfileID: profileID,
			Title:     title,
			Body:      body,
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}
	return nil
}

// MarkRead marks a notification read, scoped to its owner
func (n *NotificationService) MarkRead(profileID, notificationUUID string) error {
	result := n.db.Model(&models.Notification{}).
		Where("uuid = ? AND profile_id = ?", notificationUUID, profileID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListForProfile lists notifications for a profile, newest first
func (n *NotificationService) ListForProfile(profileID string, unreadOnly bool) ([]models.Notification, error) {
	var rows []models.Notification
	query := n.db.Where("profile_id = ?", profileID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	err := query.Order("created_at DESC").Limit(200).Find(&rows).Error
	return rows, err
}

// WebhookPayload is the body sent to the ops backend
type WebhookPayload struct {
	Event     string `json:"event"`
	ProfileID string `json:"profile_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Timestamp string `json:"timestamp"` // ISO 8601 format
}

// sendWithRetry sends webhook with retry mechanism
// Retry schedule: 1s, 5s, 30s (3 attempts total)
func (n *NotificationService) sendWithRetry(payload WebhookPayload) {
	retryDelays := []time.Duration{1 * time.Second, 5 * time.Second, 30 * time.Second}
	maxRetries := len(retryDelays)

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := n.sendWebhook(payload)
		if err == nil {
			logging.Infof("Webhook notification sent - event: %s, profile: %s, attempt: %d",
				payload.Event, payload.ProfileID, attempt+1)
			return
		}

		logging.Errorf("Webhook notification failed - event: %s, profile: %s, attempt: %d, error: %v",
			payload.Event, payload.ProfileID, attempt+1, err)

		// If not the last attempt, wait before retry
		if attempt < maxRetries-1 {
			time.Sleep(retryDelays[attempt])
		}
	}

	logging.Errorf("Webhook notification failed after %d attempts - event: %s, profile: %s",
		maxRetries, payload.Event, payload.ProfileID)
}

// sendWebhook sends a single webhook request
func (n *NotificationService) sendWebhook(payload WebhookPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest("POST", n.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Coopeco-Webhook/1.0")

	// Add signature if secret is provided
	if n.webhookSecret != "" {
		signature := n.generateSignature(jsonData)
		req.Header.Set("X-Coopeco-Signature", signature)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

// generateSignature generates HMAC-SHA256 signature for webhook payload
func (n *NotificationService) generateSignature(payload []byte) string {
	h := hmac.New(sha256.New, []byte(n.webhookSecret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
