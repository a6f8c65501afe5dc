package models

import (
	"time"

	"github.com/google/uuid"
)

// PlatformProfile extends a User with the staff role and capability flags
// the access guard evaluates. Keyed by the owning user's id.
type PlatformProfile struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`

	Role       PlatformRole `gorm:"size:20;not null;default:'ADMIN';index" json:"role"`
	Department *string      `gorm:"size:100;index" json:"department,omitempty"`
	EmployeeID *string      `gorm:"size:50;uniqueIndex" json:"employee_id,omitempty"`
	HireDate   time.Time    `gorm:"not null" json:"hire_date"`

	IsManagement bool `gorm:"not null;default:false;index" json:"is_management"`

	CanManageUsers    bool `gorm:"not null;default:false" json:"can_manage_users"`
	CanManageProducts bool `gorm:"not null;default:false" json:"can_manage_products"`
	CanManageOrders   bool `gorm:"not null;default:false" json:"can_manage_orders"`
	CanManageContent  bool `gorm:"not null;default:false" json:"can_manage_content"`
	CanViewReports    bool `gorm:"not null;default:false" json:"can_view_reports"`

	Bio               *string    `gorm:"type:text" json:"bio,omitempty"`
	ProfileCompleted  bool       `gorm:"not null;default:false" json:"profile_completed"`
	LastPromotionDate *time.Time `json:"last_promotion_date,omitempty"`
	Notes             *string    `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PlatformProfile) TableName() string {
	return "platform_profiles"
}

func (p *PlatformProfile) IsSuperAdmin() bool {
	return p.Role == RoleSuperAdmin
}

// Permissions projects the capability flags into permission tokens.
func (p *PlatformProfile) Permissions() []string {
	perms := make([]string, 0, 5)
	if p.CanManageUsers {
		perms = append(perms, "manage_users")
	}
	if p.CanManageProducts {
		perms = append(perms, "manage_products")
	}
	if p.CanManageOrders {
		perms = append(perms, "manage_orders")
	}
	if p.CanManageContent {
		perms = append(perms, "manage_content")
	}
	if p.CanViewReports {
		perms = append(perms, "view_reports")
	}
	return perms
}
