package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rahulverma-dev/commerce-backoffice/internal/dto"
	"github.com/rahulverma-dev/commerce-backoffice/internal/models"
	"gorm.io/gorm"
)

var ErrAddressNotFound = errors.New("address not found")

type AddressService struct {
	db *gorm.DB
}

func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

func (s *AddressService) List(userID uuid.UUID) ([]models.Address, error) {
	var addresses []models.Address
	if err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC, address_type, city").Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

func (s *AddressService) Create(userID uuid.UUID, req *dto.AddressRequest) (*models.Address, error) {
	address := models.Address{UserID: userID}
	applyAddressRequest(&address, req)
	if err := address.Validate(); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := clearSiblingDefaults(tx, &address); err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return &address, nil
}

func (s *AddressService) Update(userID, addressID uuid.UUID, req *dto.AddressRequest) (*models.Address, error) {
	var address models.Address
	if err := s.db.Where("id = ? AND user_id = ?", addressID, userID).
		First(&address).Error; err != nil {
		return nil, ErrAddressNotFound
	}

	applyAddressRequest(&address, req)
	if err := address.Validate(); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := clearSiblingDefaults(tx, &address); err != nil {
				return err
			}
		}
		return tx.Save(&address).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}
	return &address, nil
}

func (s *AddressService) Delete(userID, addressID uuid.UUID) error {
	result := s.db.Where("id = ? AND user_id = ?", addressID, userID).Delete(&models.Address{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAddressNotFound
	}
	return nil
}

// SetDefault marks one address as the default for its type, clearing the
// flag on every sibling of the same type in the same transaction.
func (s *AddressService) SetDefault(userID, addressID uuid.UUID) (*models.Address, error) {
	var address models.Address
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", addressID, userID).
			First(&address).Error; err != nil {
			return ErrAddressNotFound
		}
		address.IsDefault = true
		if err := clearSiblingDefaults(tx, &address); err != nil {
			return err
		}
		return tx.Model(&address).Update("is_default", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// clearSiblingDefaults drops the default flag on every other address of the
// same (user, type). Must run inside the transaction that persists the new
// default, otherwise two concurrent saves can leave two defaults behind.
func clearSiblingDefaults(tx *gorm.DB, address *models.Address) error {
	return tx.Model(&models.Address{}).
		Where("user_id = ? AND address_type = ? AND is_default = ? AND id <> ?",
			address.UserID, address.AddressType, true, address.ID).
		Update("is_default", false).Error
}

func applyAddressRequest(address *models.Address, req *dto.AddressRequest) {
	address.AddressType = models.AddressType(req.AddressType)
	if req.AddressType == "" {
		address.AddressType = models.AddressHome
	}
	address.IsDefault = req.IsDefault
	address.FullName = req.FullName
	address.Phone = req.Phone
	address.Company = req.Company
	address.AddressLine1 = req.AddressLine1
	address.AddressLine2 = req.AddressLine2
	address.Landmark = req.Landmark
	address.City = req.City
	address.State = req.State
	address.PostalCode = req.PostalCode
	address.Country = req.Country
	if address.Country == "" {
		address.Country = "India"
	}
	address.Notes = req.Notes
	address.IsActive = true
}
