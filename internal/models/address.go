package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidAddressType = errors.New("invalid address type")

// Address is one of many delivery/billing records owned by a user. At most
// one address per (user, type) may be the default; the address service
// maintains that invariant transactionally.
type Address struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	AddressType AddressType `gorm:"size:10;not null;default:'HOME'" json:"address_type"`
	IsDefault   bool        `gorm:"not null;default:false" json:"is_default"`

	FullName string  `gorm:"size:255;not null" json:"full_name"`
	Phone    string  `gorm:"size:15;not null" json:"phone"`
	Company  *string `gorm:"size:100" json:"company,omitempty"`

	AddressLine1 string  `gorm:"size:255;not null" json:"address_line_1"`
	AddressLine2 *string `gorm:"size:255" json:"address_line_2,omitempty"`
	Landmark     *string `gorm:"size:100" json:"landmark,omitempty"`
	City         string  `gorm:"size:100;not null;index" json:"city"`
	State        string  `gorm:"size:100;not null" json:"state"`
	PostalCode   string  `gorm:"size:20;not null;index" json:"postal_code"`
	Country      string  `gorm:"size:100;not null;default:'India'" json:"country"`

	IsActive bool    `gorm:"not null;default:true" json:"is_active"`
	Notes    *string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *Address) Validate() error {
	if !a.AddressType.Valid() {
		return ErrInvalidAddressType
	}
	if a.Phone != "" && !PhonePattern.MatchString(a.Phone) {
		return ErrInvalidPhone
	}
	return nil
}

// FormattedLines renders the address as postal lines.
func (a *Address) FormattedLines() []string {
	lines := make([]string, 0, 6)
	if a.Company != nil && *a.Company != "" {
		lines = append(lines, *a.Company)
	}
	lines = append(lines, a.AddressLine1)
	if a.AddressLine2 != nil && *a.AddressLine2 != "" {
		lines = append(lines, *a.AddressLine2)
	}
	if a.Landmark != nil && *a.Landmark != "" {
		lines = append(lines, "Near: "+*a.Landmark)
	}
	lines = append(lines, a.City+", "+a.State+" "+a.PostalCode)
	lines = append(lines, a.Country)
	return lines
}
