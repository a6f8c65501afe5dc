package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rahulverma-dev/commerce-backoffice/internal/config"
	"github.com/rahulverma-dev/commerce-backoffice/internal/dto"
	"github.com/rahulverma-dev/commerce-backoffice/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSuperuserFlags = errors.New("superuser must have is_staff=true")

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// List returns a paginated page of users with profiles preloaded.
func (s *UserService) List(q *dto.UserListQuery) (*dto.UserListResponse, error) {
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	query := s.db.Model(&models.User{})
	if q.UserType != "" {
		query = query.Where("user_type = ?", q.UserType)
	}
	if q.Active != nil {
		query = query.Where("is_active = ?", *q.Active)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		query = query.Where(
			"email LIKE ? OR phone LIKE ? OR first_name LIKE ? OR last_name LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Preload("PlatformProfile").Preload("BuyerProfile").
		Order("date_joined DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, err
	}

	return &dto.UserListResponse{Users: users, Total: total, Limit: limit, Offset: offset}, nil
}

// Get loads a user with profiles and addresses.
func (s *UserService) Get(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("PlatformProfile").Preload("BuyerProfile").Preload("Addresses").
		First(&user, "id = ?", id).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// Create is the user factory: it normalizes the email, hashes the password
// and enforces the superuser flag rule (a superuser is always staff).
func (s *UserService) Create(req *dto.CreateUserRequest) (*models.User, error) {
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}
	if req.IsSuperuser && !req.IsStaff {
		return nil, ErrSuperuserFlags
	}

	user := models.User{
		UserType:    models.UserTypeUnassigned,
		IsActive:    true,
		IsStaff:     req.IsStaff,
		IsSuperuser: req.IsSuperuser,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
	}
	if req.Email != "" {
		email := models.NormalizeEmail(req.Email)
		user.Email = &email
	}
	if req.Phone != "" {
		phone := req.Phone
		user.Phone = &phone
	}
	if req.Gender != nil {
		gender := models.Gender(*req.Gender)
		if !gender.Valid() {
			return nil, errors.New("invalid gender")
		}
		user.Gender = &gender
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// Update applies a partial identity update, re-validating the invariants
// against the user's loaded profiles.
func (s *UserService) Update(id uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("PlatformProfile").Preload("BuyerProfile").
		First(&user, "id = ?", id).Error; err != nil {
		return nil, ErrUserNotFound
	}

	if req.Email != nil {
		if *req.Email == "" {
			user.Email = nil
		} else {
			email := models.NormalizeEmail(*req.Email)
			user.Email = &email
		}
	}
	if req.Phone != nil {
		if *req.Phone == "" {
			user.Phone = nil
		} else {
			user.Phone = req.Phone
		}
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Gender != nil {
		gender := models.Gender(*req.Gender)
		if !gender.Valid() {
			return nil, errors.New("invalid gender")
		}
		user.Gender = &gender
	}
	if req.EmailVerified != nil {
		user.EmailVerified = *req.EmailVerified
	}
	if req.PhoneVerified != nil {
		user.PhoneVerified = *req.PhoneVerified
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.db.Omit(clause.Associations).Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

// SetActive soft-enables or soft-disables an account. Deactivation is the
// normal removal path; see Delete for the deliberate hard delete.
func (s *UserService) SetActive(id uuid.UUID, active bool) error {
	result := s.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete hard-deletes a user and everything hanging off the identity in one
// transaction. Deactivation via SetActive is the default flow; this exists
// for deliberate data-removal requests.
func (s *UserService) Delete(id uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return ErrUserNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		tx.Where("user_id = ?", id).Delete(&models.RefreshToken{})
		tx.Where("user_id = ?", id).Delete(&models.Address{})
		tx.Where("user_id = ?", id).Delete(&models.PlatformProfile{})
		tx.Where("user_id = ?", id).Delete(&models.BuyerProfile{})
		return tx.Delete(&user).Error
	})
}

// Dashboard aggregates the counts the back-office landing page shows.
func (s *UserService) Dashboard() (*dto.DashboardResponse, error) {
	resp := &dto.DashboardResponse{
		BuyersByTier:   make(map[string]int64),
		BuyersByStatus: make(map[string]int64),
	}

	s.db.Model(&models.User{}).Count(&resp.TotalUsers)
	s.db.Model(&models.User{}).Where("is_active = ?", true).Count(&resp.ActiveUsers)
	s.db.Model(&models.User{}).Where("user_type = ?", models.UserTypePlatform).Count(&resp.PlatformUsers)
	s.db.Model(&models.User{}).Where("user_type = ?", models.UserTypeBuyer).Count(&resp.BuyerUsers)
	s.db.Model(&models.User{}).Where("user_type = ?", models.UserTypeUnassigned).Count(&resp.UnassignedUsers)

	type bucket struct {
		Key   string
		Count int64
	}
	var tiers []bucket
	if err := s.db.Model(&models.BuyerProfile{}).
		Select("tier AS key, COUNT(*) AS count").Group("tier").Scan(&tiers).Error; err != nil {
		return nil, err
	}
	for _, b := range tiers {
		resp.BuyersByTier[b.Key] = b.Count
	}

	var statuses []bucket
	if err := s.db.Model(&models.BuyerProfile{}).
		Select("status AS key, COUNT(*) AS count").Group("status").Scan(&statuses).Error; err != nil {
		return nil, err
	}
	for _, b := range statuses {
		resp.BuyersByStatus[b.Key] = b.Count
	}

	return resp, nil
}

// SeedSuperAdmin creates the initial SUPER_ADMIN account from config when no
// superuser exists yet.
func SeedSuperAdmin(db *gorm.DB, cfg *config.Config, profiles *ProfileService) error {
	if cfg.SuperAdminEmail == "" || cfg.SuperAdminPassword == "" {
		return nil
	}

	var count int64
	db.Model(&models.User{}).Where("is_superuser = ?", true).Count(&count)
	if count > 0 {
		return nil
	}

	users := NewUserService(db)
	user, err := users.Create(&dto.CreateUserRequest{
		Email:       cfg.SuperAdminEmail,
		Password:    cfg.SuperAdminPassword,
		IsStaff:     true,
		IsSuperuser: true,
	})
	if err != nil {
		return fmt.Errorf("failed to seed super admin: %w", err)
	}

	role := string(models.RoleSuperAdmin)
	if _, err := profiles.AttachPlatformProfile(user.ID, &dto.PlatformProfileRequest{
		Role:           role,
		IsManagement:   true,
		CanManageUsers: true,
		CanViewReports: true,
	}); err != nil {
		return fmt.Errorf("failed to attach super admin profile: %w", err)
	}

	slog.Info("seeded initial super admin", "email", cfg.SuperAdminEmail)
	return nil
}
