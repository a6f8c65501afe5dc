package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrContactRequired   = errors.New("at least one of email or phone number must be provided")
	ErrInvalidPhone      = errors.New("phone number must match +999999999 format with 9-15 digits")
	ErrProfileRequired   = errors.New("user type requires a matching profile")
	ErrProfileNotAllowed = errors.New("unassigned users must not have any profile")
	ErrInvalidUserType   = errors.New("invalid user type")
)

// PhonePattern accepts E.164-like numbers: optional +, 9-15 digits.
var PhonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// User is the identity record. Email and phone are both nullable but at
// least one must be set; the active profile extension is selected by UserType.
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email *string   `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	Phone *string   `gorm:"size:15;uniqueIndex" json:"phone,omitempty"`

	UserType    UserType `gorm:"size:10;not null;default:'UNASSIGNED';index" json:"user_type"`
	IsActive    bool     `gorm:"not null;default:true" json:"is_active"`
	IsStaff     bool     `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser bool     `gorm:"not null;default:false" json:"-"`

	FirstName   string     `gorm:"size:150" json:"first_name"`
	LastName    string     `gorm:"size:150" json:"last_name"`
	Gender      *Gender    `gorm:"size:20" json:"gender,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`

	PasswordHash string `gorm:"not null" json:"-"`

	EmailVerified bool `gorm:"not null;default:false" json:"email_verified"`
	PhoneVerified bool `gorm:"not null;default:false" json:"phone_verified"`

	DateJoined time.Time  `gorm:"not null" json:"date_joined"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`

	PlatformProfile *PlatformProfile `gorm:"foreignKey:UserID" json:"platform_profile,omitempty"`
	BuyerProfile    *BuyerProfile    `gorm:"foreignKey:UserID" json:"buyer_profile,omitempty"`
	Addresses       []Address        `gorm:"foreignKey:UserID" json:"addresses,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.DateJoined.IsZero() {
		u.DateJoined = time.Now().UTC()
	}
	return nil
}

// Validate enforces the identity invariants: a reachable contact, a valid
// phone format, and user_type consistent with the loaded profile extensions.
// Callers must have the profile associations populated before validating.
func (u *User) Validate() error {
	if (u.Email == nil || *u.Email == "") && (u.Phone == nil || *u.Phone == "") {
		return ErrContactRequired
	}
	if u.Phone != nil && *u.Phone != "" && !PhonePattern.MatchString(*u.Phone) {
		return ErrInvalidPhone
	}
	if !u.UserType.Valid() {
		return ErrInvalidUserType
	}

	switch u.UserType {
	case UserTypePlatform:
		if u.PlatformProfile == nil {
			return ErrProfileRequired
		}
	case UserTypeBuyer:
		if u.BuyerProfile == nil {
			return ErrProfileRequired
		}
	case UserTypeUnassigned:
		if u.PlatformProfile != nil || u.BuyerProfile != nil {
			return ErrProfileNotAllowed
		}
	}
	return nil
}

// NormalizeEmail lowercases the domain part, leaving the local part intact.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// DisplayName returns the best available human-readable name.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	case u.Email != nil && *u.Email != "":
		return strings.SplitN(*u.Email, "@", 2)[0]
	case u.Phone != nil && *u.Phone != "":
		return *u.Phone
	}
	return "User #" + u.ID.String()
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) ShortName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Email != nil {
		return strings.SplitN(*u.Email, "@", 2)[0]
	}
	return ""
}

// Profile returns the extension matching the user's type, or nil.
func (u *User) Profile() interface{} {
	switch u.UserType {
	case UserTypePlatform:
		if u.PlatformProfile != nil {
			return u.PlatformProfile
		}
	case UserTypeBuyer:
		if u.BuyerProfile != nil {
			return u.BuyerProfile
		}
	}
	return nil
}
