package services

import (
	"fmt"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"

	"gorm.io/gorm"
)

// UserService manages profiles and role promotion
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// PromoteUser changes a profile's role. Operator-only at the handler layer;
// here the last remaining operator may not be demoted.
func (s *UserService) PromoteUser(targetUUID, newRole string) (*models.Profile, error) {
	switch newRole {
	case models.RoleResident, models.RoleCooperado, models.RoleOperator:
	default:
		return nil, fmt.Errorf("invalid role")
	}

	var target models.Profile
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ? AND is_active = ?", targetUUID, true).First(&target).Error; err != nil {
			return err
		}

		if target.Role == models.RoleOperator && newRole != models.RoleOperator {
			var operators int64
			if err := tx.Model(&models.Profile{}).
				Where("role = ? AND is_active = ?", models.RoleOperator, true).
				Count(&operators).Error; err != nil {
				return err
			}
			if operators <= 1 {
				return fmt.Errorf("%w: cannot demote the last operator", ErrConflict)
			}
		}

		target.Role = newRole
		return tx.Save(&target).Error
	})
	if err != nil {
		return nil, err
	}
	return &target, nil
}

// UpdateAddressInput carries the doorstep address fields
type UpdateAddressInput struct {
	Street       string
	StreetNumber string
	AddressExtra string
}

// UpdateAddress updates a profile's own doorstep address
func (s *UserService) UpdateAddress(profileUUID string, input UpdateAddressInput) error {
	result := s.db.Model(&models.Profile{}).
		Where("uuid = ?", profileUUID).
		Updates(map[string]interface{}{
			"street":        input.Street,
			"street_number": input.StreetNumber,
			"address_extra": input.AddressExtra,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListProfiles lists active profiles, optionally by role
func (s *UserService) ListProfiles(role string) ([]models.Profile, error) {
	var rows []models.Profile
	query := s.db.Where("is_active = ?", true)
	if role != "" {
		query = query.Where("role = ?", role)
	}
	err := query.Order("display_name ASC").Find(&rows).Error
	return rows, err
}
