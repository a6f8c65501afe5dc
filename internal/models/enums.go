package models

// UserType discriminates which profile extension (if any) a user carries.
type UserType string

const (
	UserTypePlatform   UserType = "PLATFORM"
	UserTypeBuyer      UserType = "BUYER"
	UserTypeUnassigned UserType = "UNASSIGNED"
)

func (t UserType) Valid() bool {
	switch t {
	case UserTypePlatform, UserTypeBuyer, UserTypeUnassigned:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale           Gender = "MALE"
	GenderFemale         Gender = "FEMALE"
	GenderOther          Gender = "OTHER"
	GenderPreferNotToSay Gender = "PREFER_NOT_TO_SAY"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay:
		return true
	}
	return false
}

// PlatformRole is the staff role carried by a platform profile. The same
// tokens configure access guard policies, so the valid set lives here once.
type PlatformRole string

const (
	RoleSuperAdmin       PlatformRole = "SUPER_ADMIN"
	RoleAdmin            PlatformRole = "ADMIN"
	RoleProductManager   PlatformRole = "PRODUCT_MANAGER"
	RoleInventoryManager PlatformRole = "INVENTORY_MANAGER"
	RoleCustomerSupport  PlatformRole = "CUSTOMER_SUPPORT"
	RoleMarketing        PlatformRole = "MARKETING"
	RoleSales            PlatformRole = "SALES"
	RoleAnalyst          PlatformRole = "ANALYST"
	RoleContentManager   PlatformRole = "CONTENT_MANAGER"
)

func (r PlatformRole) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleProductManager, RoleInventoryManager,
		RoleCustomerSupport, RoleMarketing, RoleSales, RoleAnalyst, RoleContentManager:
		return true
	}
	return false
}

type BuyerTier string

const (
	TierStandard BuyerTier = "STANDARD"
	TierSilver   BuyerTier = "SILVER"
	TierGold     BuyerTier = "GOLD"
	TierPlatinum BuyerTier = "PLATINUM"
	TierVIP      BuyerTier = "VIP"
)

func (t BuyerTier) Valid() bool {
	switch t {
	case TierStandard, TierSilver, TierGold, TierPlatinum, TierVIP:
		return true
	}
	return false
}

type BuyerStatus string

const (
	BuyerActive      BuyerStatus = "ACTIVE"
	BuyerInactive    BuyerStatus = "INACTIVE"
	BuyerSuspended   BuyerStatus = "SUSPENDED"
	BuyerBlacklisted BuyerStatus = "BLACKLISTED"
)

func (s BuyerStatus) Valid() bool {
	switch s {
	case BuyerActive, BuyerInactive, BuyerSuspended, BuyerBlacklisted:
		return true
	}
	return false
}

type AddressType string

const (
	AddressHome     AddressType = "HOME"
	AddressWork     AddressType = "WORK"
	AddressBilling  AddressType = "BILLING"
	AddressShipping AddressType = "SHIPPING"
	AddressOther    AddressType = "OTHER"
)

func (t AddressType) Valid() bool {
	switch t {
	case AddressHome, AddressWork, AddressBilling, AddressShipping, AddressOther:
		return true
	}
	return false
}

type ContactChannel string

const (
	ChannelEmail    ContactChannel = "EMAIL"
	ChannelSMS      ContactChannel = "SMS"
	ChannelApp      ContactChannel = "APP"
	ChannelWhatsApp ContactChannel = "WHATSAPP"
)

func (c ContactChannel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelApp, ChannelWhatsApp:
		return true
	}
	return false
}
