package services

import (
	"encoding/json"
	"time"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/database"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/pkg/logging"

	"gorm.io/gorm"
)

// Status buckets for window load classification
const (
	BucketOk       = "ok"
	BucketWarning  = "warning"
	BucketCritical = "critical"
)

const windowLoadCacheTTL = 60 * time.Second

// OpsService computes the read-optimized operator views: 7-day window
// load/queue, quality rates, status buckets and ops alerts. Results are
// cached in Redis per neighborhood and refreshed on demand.
type OpsService struct {
	db    *gorm.DB
	cache *RedisService
}

// NewOpsService creates an ops service; cache may wrap a nil client
func NewOpsService(db *gorm.DB, cache *RedisService) *OpsService {
	return &OpsService{db: db, cache: cache}
}

// WindowLoad is one row of the 7-day load view
type WindowLoad struct {
	WindowID       string  `json:"window_id"`
	NeighborhoodID string  `json:"neighborhood_id"`
	Weekday        int     `json:"weekday"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	NextDate       string  `json:"next_date"`
	Capacity       int     `json:"capacity"`
	RequestsCount  int64   `json:"requests_count"`
	Utilization    float64 `json:"utilization"`
	QualityRate    float64 `json:"quality_rate"`
	Bucket         string  `json:"bucket"`
}

// OpsAlert flags a window or drop point needing operator attention
type OpsAlert struct {
	Kind           string `json:"kind"` // window_critical | triage_stale
	NeighborhoodID string `json:"neighborhood_id"`
	SubjectID      string `json:"subject_id"`
	Detail         string `json:"detail"`
}

// WindowLoad7d returns the 7-day load view for a neighborhood (empty
// neighborhood means all), serving from cache when fresh
func (s *OpsService) WindowLoad7d(neighborhoodID string) ([]WindowLoad, error) {
	scope := neighborhoodID
	if scope == "" {
		scope = "all"
	}

	if cached, err := s.cache.GetViewJSON("window_load_7d", scope); err == nil && cached != nil {
		var rows []WindowLoad
		if err := json.Unmarshal(cached, &rows); err == nil {
			return rows, nil
		}
	}

	rows, err := s.computeWindowLoad(neighborhoodID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(rows); err == nil {
		if err := s.cache.CacheViewJSON("window_load_7d", scope, payload, windowLoadCacheTTL); err != nil {
			logging.Warnf("Failed to cache window load view: %v", err)
		}
	}
	return rows, nil
}

// RefreshOpsAlerts busts the cached views for a neighborhood (empty means
// all) and recomputes the alert rows
func (s *OpsService) RefreshOpsAlerts(neighborhoodID string) ([]OpsAlert, error) {
	scope := neighborhoodID
	if scope == "" {
		scope = "all"
	}
	if err := s.cache.BustView("window_load_7d", scope); err != nil {
		logging.Warnf("Failed to bust window load cache: %v", err)
	}

	loads, err := s.computeWindowLoad(neighborhoodID)
	if err != nil {
		return nil, err
	}

	alerts := []OpsAlert{}
	for _, load := range loads {
		if load.Bucket == BucketCritical {
			alerts = append(alerts, OpsAlert{
				Kind:           "window_critical",
				NeighborhoodID: load.NeighborhoodID,
				SubjectID:      load.WindowID,
				Detail:         "janela lotada ou com qualidade baixa",
			})
		}
	}

	staleCutoff := time.Now().Add(-database.StaleTriageCutoff)
	var points []models.DropPoint
	query := s.db.Where("is_active = ?", true).
		Where("last_triaged_at IS NULL OR last_triaged_at < ?", staleCutoff)
	if neighborhoodID != "" {
		query = query.Where("neighborhood_id = ?", neighborhoodID)
	}
	if err := query.Find(&points).Error; err != nil {
		return nil, err
	}
	for _, point := range points {
		alerts = append(alerts, OpsAlert{
			Kind:           "triage_stale",
			NeighborhoodID: point.NeighborhoodID,
			SubjectID:      point.UUID,
			Detail:         "ponto de entrega sem triagem recente",
		})
	}

	return alerts, nil
}

// computeWindowLoad builds the view from scratch
func (s *OpsService) computeWindowLoad(neighborhoodID string) ([]WindowLoad, error) {
	var windows []models.RouteWindow
	query := s.db.Where("is_active = ?", true)
	if neighborhoodID != "" {
		query = query.Where("neighborhood_id = ?", neighborhoodID)
	}
	if err := query.Find(&windows).Error; err != nil {
		return nil, err
	}

	today := time.Now()
	horizon := today.AddDate(0, 0, 7)
	qualityFrom := today.AddDate(0, 0, -7)

	loads := make([]WindowLoad, 0, len(windows))
	for _, window := range windows {
		nextDate := NextWindowDate(today, window.Weekday)

		var requestsCount int64
		err := s.db.Model(&models.PickupRequest{}).
			Where("route_window_id = ? AND status <> ?", window.UUID, models.PickupCancelled).
			Where("scheduled_for >= ? AND scheduled_for <= ?",
				today.Format(DateLayout), horizon.Format(DateLayout)).
			Count(&requestsCount).Error
		if err != nil {
			return nil, err
		}

		qualityRate, err := s.windowQualityRate(window.UUID, qualityFrom)
		if err != nil {
			return nil, err
		}

		utilization := 0.0
		if window.Capacity > 0 {
			utilization = float64(requestsCount) / float64(window.Capacity)
		}

		loads = append(loads, WindowLoad{
			WindowID:       window.UUID,
			NeighborhoodID: window.NeighborhoodID,
			Weekday:        window.Weekday,
			StartTime:      window.StartTime,
			EndTime:        window.EndTime,
			NextDate:       nextDate.Format(DateLayout),
			Capacity:       window.Capacity,
			RequestsCount:  requestsCount,
			Utilization:    utilization,
			QualityRate:    qualityRate,
			Bucket:         classifyBucket(utilization, qualityRate),
		})
	}
	return loads, nil
}

// windowQualityRate is the share of ok receipts among the window's receipts
// since the cutoff; 1.0 when there are none yet
func (s *OpsService) windowQualityRate(windowUUID string, since time.Time) (float64, error) {
	var total, ok int64
	base := s.db.Model(&models.Receipt{}).
		Joins("JOIN pickup_request ON pickup_request.uuid = receipt.pickup_request_id").
		Where("pickup_request.route_window_id = ? AND receipt.created_at >= ?", windowUUID, since)
	if err := base.Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 1.0, nil
	}
	err := s.db.Model(&models.Receipt{}).
		Joins("JOIN pickup_request ON pickup_request.uuid = receipt.pickup_request_id").
		Where("pickup_request.route_window_id = ? AND receipt.created_at >= ?", windowUUID, since).
		Where("receipt.quality_status = ?", models.QualityOk).
		Count(&ok).Error
	if err != nil {
		return 0, err
	}
	return float64(ok) / float64(total), nil
}

// classifyBucket maps utilization and quality to a status bucket:
// critical at full capacity or poor quality, warning from 70% utilization
func classifyBucket(utilization, qualityRate float64) string {
	if utilization >= 1.0 || qualityRate < 0.5 {
		return BucketCritical
	}
	if utilization >= 0.7 {
		return BucketWarning
	}
	return BucketOk
}
