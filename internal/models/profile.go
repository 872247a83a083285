package models

// Roles recognized by the service
const (
	RoleResident  = "resident"
	RoleCooperado = "cooperado"
	RoleOperator  = "operator"
)

// Profile represents a user of the platform (resident, cooperado or operator)
type Profile struct {
	BaseModel
	UUID        string `json:"uuid" gorm:"uniqueIndex;size:36;not null"`
	DisplayName string `json:"display_name" gorm:"not null"`
	Email       string `json:"email" gorm:"uniqueIndex;size:255"`
	Role        string `json:"role" gorm:"size:20;not null;default:'resident';index"`

	NeighborhoodID string `json:"neighborhood_id" gorm:"size:36;index"`

	// Doorstep address. A doorstep recurring subscription is only valid
	// when Street is filled in.
	Street       string `json:"street" gorm:"size:255"`
	StreetNumber string `json:"street_number" gorm:"size:20"`
	AddressExtra string `json:"address_extra" gorm:"size:255"`

	IsActive bool `json:"is_active" gorm:"default:true"`
}

// HasDoorstepAddress reports whether the profile can receive doorstep pickups
func (p *Profile) HasDoorstepAddress() bool {
	return p.Street != ""
}

// Neighborhood groups windows, drop points and transparency reporting
type Neighborhood struct {
	BaseModel
	UUID     string `json:"uuid" gorm:"uniqueIndex;size:36;not null"`
	Name     string `json:"name" gorm:"not null;uniqueIndex"`
	IsActive bool   `json:"is_active" gorm:"default:true"`
}
