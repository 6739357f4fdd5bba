// Package domain 包含积分账本的领域模型。
// 账本只追加，余额永远是 EARN 合计减 USE 合计的派生值，
// 不存在可被并发写坏的余额字段。
package domain

import (
	"context"

	"gorm.io/gorm"
)

// TransactionType 账本条目类型
type TransactionType string

const (
	TypeEarn TransactionType = "EARN"
	TypeUse  TransactionType = "USE"
)

// PointTransaction 积分账本条目。Amount 恒为非负，符号由 Type 表达；
// 条目一经写入不再更新或删除。
type PointTransaction struct {
	gorm.Model
	UserID  string          `gorm:"column:user_id;type:varchar(36);index;not null"`
	Type    TransactionType `gorm:"column:type;type:varchar(10);not null"`
	Amount  int64           `gorm:"column:amount;not null"`
	OrderID string          `gorm:"column:order_id;type:varchar(32);index"`
}

func (PointTransaction) TableName() string { return "point_transactions" }

// PointTransactionRepository 账本仓储接口（仅追加 + 聚合）
type PointTransactionRepository interface {
	Append(ctx context.Context, tx *PointTransaction) error
	SumByType(ctx context.Context, userID string, typ TransactionType) (int64, error)
}
