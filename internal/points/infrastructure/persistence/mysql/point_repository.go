package mysql

import (
	"context"
	"fmt"

	"github.com/wyfcoding/ecommerce/internal/points/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

type pointTransactionRepository struct{ db *gorm.DB }

func NewPointTransactionRepository(db *gorm.DB) domain.PointTransactionRepository {
	return &pointTransactionRepository{db: db}
}

func (r *pointTransactionRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

// Append 只插入，账本条目永不更新。
func (r *pointTransactionRepository) Append(ctx context.Context, tx *domain.PointTransaction) error {
	if err := r.getDB(ctx).WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to append point transaction: %w", err)
	}
	return nil
}

func (r *pointTransactionRepository) SumByType(ctx context.Context, userID string, typ domain.TransactionType) (int64, error) {
	var sum *int64
	err := r.getDB(ctx).WithContext(ctx).
		Model(&domain.PointTransaction{}).
		Select("SUM(amount)").
		Where("user_id = ? AND type = ?", userID, typ).
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum point transactions: %w", err)
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}
