package dto

import "time"

type PlatformProfileRequest struct {
	Role              string     `json:"role"`
	Department        *string    `json:"department,omitempty"`
	EmployeeID        *string    `json:"employee_id,omitempty"`
	HireDate          *time.Time `json:"hire_date,omitempty"`
	IsManagement      bool       `json:"is_management"`
	CanManageUsers    bool       `json:"can_manage_users"`
	CanManageProducts bool       `json:"can_manage_products"`
	CanManageOrders   bool       `json:"can_manage_orders"`
	CanManageContent  bool       `json:"can_manage_content"`
	CanViewReports    bool       `json:"can_view_reports"`
	Bio               *string    `json:"bio,omitempty"`
}

type BuyerProfileRequest struct {
	Status                  string  `json:"status,omitempty"`
	PreferredPaymentMethod  *string `json:"preferred_payment_method,omitempty"`
	PreferredShippingMethod *string `json:"preferred_shipping_method,omitempty"`
	PreferredChannel        string  `json:"preferred_channel,omitempty"`
	NewsletterSubscribed    *bool   `json:"newsletter_subscribed,omitempty"`
	MarketingOptIn          *bool   `json:"marketing_opt_in,omitempty"`
	PersonalizedAdsOptIn    *bool   `json:"personalized_ads_opt_in,omitempty"`
	ReferralCode            string  `json:"referral_code,omitempty"`
}

type LoyaltyRequest struct {
	// Op is "grant" or "redeem".
	Op     string `json:"op"`
	Points uint   `json:"points"`
	Reason string `json:"reason,omitempty"`
}
