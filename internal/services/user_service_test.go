package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rahulverma-dev/commerce-backoffice/internal/config"
	"github.com/rahulverma-dev/commerce-backoffice/internal/dto"
	"github.com/rahulverma-dev/commerce-backoffice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)

	user, err := svc.Create(&dto.CreateUserRequest{
		Email:     "Admin@EXAMPLE.COM",
		Password:  "password123",
		FirstName: "Asha",
		IsStaff:   true,
	})
	require.NoError(t, err)
	require.NotNil(t, user.Email)
	assert.Equal(t, "Admin@example.com", *user.Email)
	assert.Equal(t, models.UserTypeUnassigned, user.UserType)
	assert.True(t, user.IsActive)
	assert.True(t, user.IsStaff)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestUserCreate_Rejections(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)

	_, err := svc.Create(&dto.CreateUserRequest{Email: "a@x.com", Password: "short"})
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.Create(&dto.CreateUserRequest{Password: "password123"})
	assert.ErrorIs(t, err, models.ErrContactRequired)

	_, err = svc.Create(&dto.CreateUserRequest{
		Email:       "root@x.com",
		Password:    "password123",
		IsSuperuser: true,
	})
	assert.ErrorIs(t, err, ErrSuperuserFlags)

	bad := "ALIEN"
	_, err = svc.Create(&dto.CreateUserRequest{Email: "g@x.com", Password: "password123", Gender: &bad})
	assert.Error(t, err)
}

func TestUserUpdate_PartialFields(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	user := createTestUser(t, db, "buyer@example.com", "password123")

	first := "Asha"
	verified := true
	updated, err := svc.Update(user.ID, &dto.UpdateUserRequest{
		FirstName:     &first,
		EmailVerified: &verified,
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha", updated.FirstName)
	assert.True(t, updated.EmailVerified)
	require.NotNil(t, updated.Email)
	assert.Equal(t, "buyer@example.com", *updated.Email)

	// Clearing the only contact point fails validation.
	empty := ""
	_, err = svc.Update(user.ID, &dto.UpdateUserRequest{Email: &empty})
	assert.ErrorIs(t, err, models.ErrContactRequired)

	phone := "+919876543210"
	updated, err = svc.Update(user.ID, &dto.UpdateUserRequest{Phone: &phone, Email: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.Email)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
}

func TestUserSetActiveAndGet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	user := createTestUser(t, db, "buyer@example.com", "password123")

	require.NoError(t, svc.SetActive(user.ID, false))
	got, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	require.NoError(t, svc.SetActive(user.ID, true))
	got, err = svc.Get(user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	assert.ErrorIs(t, svc.SetActive(uuid.New(), false), ErrUserNotFound)
	_, err = svc.Get(uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserDelete_Cascades(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	profiles := NewProfileService(db)
	addresses := NewAddressService(db)

	user := createTestUser(t, db, "buyer@example.com", "password123")
	_, err := profiles.AttachBuyerProfile(user.ID, &dto.BuyerProfileRequest{})
	require.NoError(t, err)
	_, err = addresses.Create(user.ID, addressReq("HOME", true))
	require.NoError(t, err)

	require.NoError(t, users.Delete(user.ID))

	var count int64
	db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.BuyerProfile{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Address{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Zero(t, count)

	assert.ErrorIs(t, users.Delete(user.ID), ErrUserNotFound)
}

func TestUserList_FiltersAndPagination(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	profiles := NewProfileService(db)

	buyer := createTestUser(t, db, "buyer@example.com", "password123")
	_, err := profiles.AttachBuyerProfile(buyer.ID, &dto.BuyerProfileRequest{})
	require.NoError(t, err)

	staff := createTestUser(t, db, "staff@example.com", "password123")
	_, err = profiles.AttachPlatformProfile(staff.ID, &dto.PlatformProfileRequest{})
	require.NoError(t, err)

	inactive := createTestUser(t, db, "ghost@example.com", "password123")
	require.NoError(t, users.SetActive(inactive.ID, false))

	page, err := users.List(&dto.UserListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 20, page.Limit)

	page, err = users.List(&dto.UserListQuery{UserType: "PLATFORM"})
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, staff.ID, page.Users[0].ID)
	require.NotNil(t, page.Users[0].PlatformProfile)

	active := true
	page, err = users.List(&dto.UserListQuery{Active: &active})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	page, err = users.List(&dto.UserListQuery{Search: "ghost"})
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, inactive.ID, page.Users[0].ID)

	page, err = users.List(&dto.UserListQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Users, 2)
	assert.EqualValues(t, 3, page.Total)

	page, err = users.List(&dto.UserListQuery{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page.Users, 1)
}

func TestDashboardCounts(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	profiles := NewProfileService(db)

	buyer := createTestUser(t, db, "buyer@example.com", "password123")
	_, err := profiles.AttachBuyerProfile(buyer.ID, &dto.BuyerProfileRequest{})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.BuyerProfile{}).
		Where("user_id = ?", buyer.ID).
		Update("tier", models.TierGold).Error)

	staff := createTestUser(t, db, "staff@example.com", "password123")
	_, err = profiles.AttachPlatformProfile(staff.ID, &dto.PlatformProfileRequest{})
	require.NoError(t, err)

	createTestUser(t, db, "fresh@example.com", "password123")

	resp, err := users.Dashboard()
	require.NoError(t, err)
	assert.EqualValues(t, 3, resp.TotalUsers)
	assert.EqualValues(t, 3, resp.ActiveUsers)
	assert.EqualValues(t, 1, resp.PlatformUsers)
	assert.EqualValues(t, 1, resp.BuyerUsers)
	assert.EqualValues(t, 1, resp.UnassignedUsers)
	assert.EqualValues(t, 1, resp.BuyersByTier["GOLD"])
	assert.EqualValues(t, 1, resp.BuyersByStatus["ACTIVE"])
}

func TestSeedSuperAdmin(t *testing.T) {
	db := setupTestDB(t)
	profiles := NewProfileService(db)
	cfg := &config.Config{
		SuperAdminEmail:    "root@example.com",
		SuperAdminPassword: "password123",
	}

	require.NoError(t, SeedSuperAdmin(db, cfg, profiles))

	var user models.User
	require.NoError(t, db.Preload("PlatformProfile").
		First(&user, "email = ?", "root@example.com").Error)
	assert.True(t, user.IsSuperuser)
	assert.True(t, user.IsStaff)
	assert.Equal(t, models.UserTypePlatform, user.UserType)
	require.NotNil(t, user.PlatformProfile)
	assert.Equal(t, models.RoleSuperAdmin, user.PlatformProfile.Role)

	// Idempotent once a superuser exists.
	require.NoError(t, SeedSuperAdmin(db, cfg, profiles))
	var count int64
	db.Model(&models.User{}).Where("is_superuser = ?", true).Count(&count)
	assert.EqualValues(t, 1, count)

	// A blank config is a no-op.
	require.NoError(t, SeedSuperAdmin(db, &config.Config{}, profiles))
}
