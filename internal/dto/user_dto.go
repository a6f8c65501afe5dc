package dto

import "github.com/rahulverma-dev/commerce-backoffice/internal/models"

type CreateUserRequest struct {
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Password    string  `json:"password"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Gender      *string `json:"gender,omitempty"`
	IsStaff     bool    `json:"is_staff"`
	IsSuperuser bool    `json:"is_superuser"`
}

// UpdateUserRequest uses pointers so absent fields are left untouched.
type UpdateUserRequest struct {
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	Gender        *string `json:"gender,omitempty"`
	EmailVerified *bool   `json:"email_verified,omitempty"`
	PhoneVerified *bool   `json:"phone_verified,omitempty"`
}

type UserListQuery struct {
	UserType string `query:"type"`
	Active   *bool  `query:"active"`
	Search   string `query:"q"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}

type UserListResponse struct {
	Users  []models.User `json:"users"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

type DashboardResponse struct {
	TotalUsers      int64            `json:"total_users"`
	ActiveUsers     int64            `json:"active_users"`
	PlatformUsers   int64            `json:"platform_users"`
	BuyerUsers      int64            `json:"buyer_users"`
	UnassignedUsers int64            `json:"unassigned_users"`
	BuyersByTier    map[string]int64 `json:"buyers_by_tier"`
	BuyersByStatus  map[string]int64 `json:"buyers_by_status"`
}
