// internal/domain/user/address_service.go
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// AddressService manages the per-user address book
type AddressService struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewAddressService creates a new address service
func NewAddressService(db *gorm.DB, log *logrus.Logger) *AddressService {
	return &AddressService{db: db, log: log}
}

// AddressRequest represents address creation or update data
type AddressRequest struct {
	Street    string `json:"street" binding:"required"`
	Building  string `json:"building"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state"`
	Country   string `json:"country" binding:"required"`
	Pincode   string `json:"pincode" binding:"required"`
	IsDefault bool   `json:"is_default"`
}

// Create adds an address to a user's address book
func (s *AddressService) Create(ctx context.Context, userID uint, req *AddressRequest) (*Address, error) {
	address := &Address{
		UserID:    userID,
		Street:    req.Street,
		Building:  req.Building,
		City:      req.City,
		State:     req.State,
		Country:   req.Country,
		Pincode:   req.Pincode,
		IsDefault: req.IsDefault,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := tx.Model(&Address{}).Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return fmt.Errorf("failed to unset default address: %w", err)
			}
		}
		if err := tx.Create(address).Error; err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return address, nil
}

// ByID returns an address by ID. Checkout uses this to validate the
// shipping address before reserving any stock.
func (s *AddressService) ByID(ctx context.Context, addressID uint) (*Address, error) {
	var address Address
	err := s.db.WithContext(ctx).Where("id = ?", addressID).First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Address", "addressId", addressID)
		}
		return nil, fmt.Errorf("failed to retrieve address: %w", err)
	}
	return &address, nil
}

// ListByUser returns all addresses in a user's address book
func (s *AddressService) ListByUser(ctx context.Context, userID uint) ([]Address, error) {
	var addresses []Address
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("is_default DESC, id").Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

// Update modifies an address owned by the given user
func (s *AddressService) Update(ctx context.Context, userID, addressID uint, req *AddressRequest) (*Address, error) {
	var address Address
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Address", "addressId", addressID)
		}
		return nil, fmt.Errorf("failed to retrieve address: %w", err)
	}

	address.Street = req.Street
	address.Building = req.Building
	address.City = req.City
	address.State = req.State
	address.Country = req.Country
	address.Pincode = req.Pincode
	address.IsDefault = req.IsDefault

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := tx.Model(&Address{}).Where("user_id = ? AND id <> ?", userID, addressID).
				Update("is_default", false).Error; err != nil {
				return fmt.Errorf("failed to unset default address: %w", err)
			}
		}
		if err := tx.Save(&address).Error; err != nil {
			return fmt.Errorf("failed to update address: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &address, nil
}

// Delete removes an address owned by the given user
func (s *AddressService) Delete(ctx context.Context, userID, addressID uint) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", addressID, userID).Delete(&Address{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete address: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Address", "addressId", addressID)
	}
	return nil
}
