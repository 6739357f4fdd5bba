package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

type addressRepository struct{ db *gorm.DB }

func NewAddressRepository(db *gorm.DB) domain.AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

func (r *addressRepository) GetByID(ctx context.Context, id uint) (*domain.Address, error) {
	var model AddressModel
	if err := r.getDB(ctx).WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to get address: %w", err)
	}
	return toAddressDomain(&model), nil
}

func (r *addressRepository) Save(ctx context.Context, address *domain.Address) error {
	model := &AddressModel{
		Street:       address.Street,
		BuildingName: address.BuildingName,
		City:         address.City,
		State:        address.State,
		Country:      address.Country,
		Pincode:      address.Pincode,
	}
	model.ID = address.ID
	if err := r.getDB(ctx).WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save address: %w", err)
	}
	address.ID = model.ID
	return nil
}
