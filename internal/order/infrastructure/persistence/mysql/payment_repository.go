package mysql

import (
	"context"
	"fmt"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

type paymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) domain.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

func (r *paymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	model := &PaymentModel{
		PaymentID:         payment.PaymentID,
		Method:            payment.Method,
		PgName:            payment.PgName,
		PgPaymentID:       payment.PgPaymentID,
		PgStatus:          payment.PgStatus,
		PgResponseMessage: payment.PgResponseMessage,
	}
	if err := r.getDB(ctx).WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}
	payment.ID = model.ID
	return nil
}
