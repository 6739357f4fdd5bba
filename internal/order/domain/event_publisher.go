package domain

import "context"

// EventPublisher 集成事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
	// PublishInTx 在给定事务内写出事件（Outbox 模式）
	PublishInTx(ctx context.Context, tx any, topic string, key string, event any) error
}
