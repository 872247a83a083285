package services

import (
	"sort"
	"time"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"

	"gorm.io/gorm"
)

// TransparencyService builds the public read-only aggregation views: weekly
// bulletins and neighborhood rankings
type TransparencyService struct {
	db *gorm.DB
}

// NewTransparencyService creates a transparency service
func NewTransparencyService(db *gorm.DB) *TransparencyService {
	return &TransparencyService{db: db}
}

// WeeklyBulletin summarizes one neighborhood over the trailing seven days
type WeeklyBulletin struct {
	NeighborhoodID   string  `json:"neighborhood_id"`
	NeighborhoodName string  `json:"neighborhood_name"`
	WeekStart        string  `json:"week_start"`
	WeekEnd          string  `json:"week_end"`
	CollectedCount   int64   `json:"collected_count"`
	TotalWeightKg    float64 `json:"total_weight_kg"`
	QualityRate      float64 `json:"quality_rate"`
}

// NeighborhoodRank is one ranking row, ordered by collected weight
type NeighborhoodRank struct {
	Position         int     `json:"position"`
	NeighborhoodID   string  `json:"neighborhood_id"`
	NeighborhoodName string  `json:"neighborhood_name"`
	TotalWeightKg    float64 `json:"total_weight_kg"`
	CollectedCount   int64   `json:"collected_count"`
}

// Bulletin builds the weekly bulletin for one neighborhood
func (s *TransparencyService) Bulletin(neighborhoodUUID string) (*WeeklyBulletin, error) {
	var neighborhood models.Neighborhood
	if err := s.db.Where("uuid = ? AND is_active = ?", neighborhoodUUID, true).First(&neighborhood).Error; err != nil {
		return nil, err
	}

	weekEnd := time.Now()
	weekStart := weekEnd.AddDate(0, 0, -7)

	bulletin := &WeeklyBulletin{
		NeighborhoodID:   neighborhood.UUID,
		NeighborhoodName: neighborhood.Name,
		WeekStart:        weekStart.Format(DateLayout),
		WeekEnd:          weekEnd.Format(DateLayout),
	}

	count, weight, quality, err := s.neighborhoodStats(neighborhood.UUID, weekStart)
	if err != nil {
		return nil, err
	}
	bulletin.CollectedCount = count
	bulletin.TotalWeightKg = weight
	bulletin.QualityRate = quality
	return bulletin, nil
}

// Ranking orders active neighborhoods by collected weight over the trailing
// seven days
func (s *TransparencyService) Ranking() ([]NeighborhoodRank, error) {
	var neighborhoods []models.Neighborhood
	if err := s.db.Where("is_active = ?", true).Find(&neighborhoods).Error; err != nil {
		return nil, err
	}

	weekStart := time.Now().AddDate(0, 0, -7)
	ranks := make([]NeighborhoodRank, 0, len(neighborhoods))
	for _, neighborhood := range neighborhoods {
		count, weight, _, err := s.neighborhoodStats(neighborhood.UUID, weekStart)
		if err != nil {
			return nil, err
		}
		ranks = append(ranks, NeighborhoodRank{
			NeighborhoodID:   neighborhood.UUID,
			NeighborhoodName: neighborhood.Name,
			TotalWeightKg:    weight,
			CollectedCount:   count,
		})
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].TotalWeightKg > ranks[j].TotalWeightKg
	})
	for i := range ranks {
		ranks[i].Position = i + 1
	}
	return ranks, nil
}

// ActiveAnchors lists active anchor commitments, optionally by neighborhood
func (s *TransparencyService) ActiveAnchors(neighborhoodUUID string) ([]models.AnchorCommitment, error) {
	var rows []models.AnchorCommitment
	query := s.db.Where("is_active = ?", true)
	if neighborhoodUUID != "" {
		query = query.Where("neighborhood_id = ?", neighborhoodUUID)
	}
	err := query.Order("anchor_name ASC").Find(&rows).Error
	return rows, err
}

// PublishedPosts lists published educational posts, newest first
func (s *TransparencyService) PublishedPosts(neighborhoodUUID string) ([]models.Post, error) {
	var rows []models.Post
	query := s.db.Where("published = ?", true)
	if neighborhoodUUID != "" {
		query = query.Where("neighborhood_id = ?", neighborhoodUUID)
	}
	err := query.Order("created_at DESC").Limit(100).Find(&rows).Error
	return rows, err
}

// neighborhoodStats aggregates collected receipts since the cutoff
func (s *TransparencyService) neighborhoodStats(neighborhoodUUID string, since time.Time) (int64, float64, float64, error) {
	base := s.db.Model(&models.Receipt{}).
		Joins("JOIN pickup_request ON pickup_request.uuid = receipt.pickup_request_id").
		Where("pickup_request.neighborhood_id = ? AND receipt.created_at >= ?", neighborhoodUUID, since)

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return 0, 0, 0, err
	}
	if count == 0 {
		return 0, 0, 1.0, nil
	}

	var weight float64
	err := s.db.Model(&models.Receipt{}).
		Joins("JOIN pickup_request ON pickup_request.uuid = receipt.pickup_request_id").
		Where("pickup_request.neighborhood_id = ? AND receipt.created_at >= ?", neighborhoodUUID, since).
		Select("COALESCE(SUM(receipt.weight_kg), 0)").Scan(&weight).Error
	if err != nil {
		return 0, 0, 0, err
	}

	var ok int64
	err = s.db.Model(&models.Receipt{}).
		Joins("JOIN pickup_request ON pickup_request.uuid = receipt.pickup_request_id").
		Where("pickup_request.neighborhood_id = ? AND receipt.created_at >= ?", neighborhoodUUID, since).
		Where("receipt.quality_status = ?", models.QualityOk).
		Count(&ok).Error
	if err != nil {
		return 0, 0, 0, err
	}

	return count, weight, float64(ok) / float64(count), nil
}
