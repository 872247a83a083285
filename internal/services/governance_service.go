package services

import (
	"fmt"
	"time"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GovernanceService manages versioned governance terms and acceptances
type GovernanceService struct {
	db *gorm.DB
}

// NewGovernanceService creates a governance service
func NewGovernanceService(db *gorm.DB) *GovernanceService {
	return &GovernanceService{db: db}
}

// UpsertTerm creates a term by slug or updates its draft content
func (s *GovernanceService) UpsertTerm(slug, title, body string) (*models.GovernanceTerm, error) {
	if slug == "" || title == "" {
		return nil, fmt.Errorf("slug and title are required")
	}
	var term models.GovernanceTerm
	err := s.db.Where("slug = ?", slug).First(&term).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		term = models.GovernanceTerm{
			UUID:  uuid.NewString(),
			Slug:  slug,
			Title: title,
			Body:  body,
		}
		if err := s.db.Create(&term).Error; err != nil {
			return nil, fmt.Errorf("failed to create term: %w", err)
		}
		return &term, nil
	}

	term.Title = title
	term.Body = body
	if err := s.db.Save(&term).Error; err != nil {
		return nil, err
	}
	return &term, nil
}

// PublishTerm bumps the version and marks it published; residents accept
// per version
func (s *GovernanceService) PublishTerm(slug string) (*models.GovernanceTerm, error) {
	var term models.GovernanceTerm
	if err := s.db.Where("slug = ?", slug).First(&term).Error; err != nil {
		return nil, err
	}
	now := time.Now()
	term.Version++
	term.Published = true
	term.PublishedAt = &now
	if err := s.db.Save(&term).Error; err != nil {
		return nil, err
	}
	return &term, nil
}

// AcceptTerm records an acceptance of the current published version, once
// per profile and version
func (s *GovernanceService) AcceptTerm(profileUUID, slug string) (*models.TermAcceptance, error) {
	var term models.GovernanceTerm
	if err := s.db.Where("slug = ? AND published = ?", slug, true).First(&term).Error; err != nil {
		return nil, err
	}

	var existing models.TermAcceptance
	err := s.db.Where("profile_id = ? AND term_id = ? AND version = ?",
		profileUUID, term.UUID, term.Version).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	acceptance := models.TermAcceptance{
		ProfileID: profileUUID,
		TermID:    term.UUID,
		Version:   term.Version,
	}
	if err := s.db.Create(&acceptance).Error; err != nil {
		return nil, fmt.Errorf("failed to record acceptance: %w", err)
	}
	return &acceptance, nil
}

// ListTerms lists terms; unpublished drafts only when includeDrafts is set
func (s *GovernanceService) ListTerms(includeDrafts bool) ([]models.GovernanceTerm, error) {
	var rows []models.GovernanceTerm
	query := s.db.Order("slug ASC")
	if !includeDrafts {
		query = query.Where("published = ?", true)
	}
	err := query.Find(&rows).Error
	return rows, err
}

// HasAccepted reports whether the profile accepted the current version
func (s *GovernanceService) HasAccepted(profileUUID, slug string) (bool, error) {
	var term models.GovernanceTerm
	if err := s.db.Where("slug = ? AND published = ?", slug, true).First(&term).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}
	var count int64
	err := s.db.Model(&models.TermAcceptance{}).
		Where("profile_id = ? AND term_id = ? AND version = ?", profileUUID, term.UUID, term.Version).
		Count(&count).Error
	return count > 0, err
}
