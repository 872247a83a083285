package database

import (
	"time"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"
)

// GetProfileByUUID gets an active profile by its public UUID
func GetProfileByUUID(profileUUID string) (*models.Profile, error) {
	var profile models.Profile
	err := DB.Where("uuid = ? AND is_active = ?", profileUUID, true).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// StaleTriageCutoff is how long a drop point may go untriaged before it is
// considered stale for the galpão queue and the ops alerts
const StaleTriageCutoff = 14 * 24 * time.Hour
