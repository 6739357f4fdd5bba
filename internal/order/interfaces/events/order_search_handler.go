package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
)

// OrderSearchHandler 监听下单事件并将订单聚合同步到 Elasticsearch。
type OrderSearchHandler struct {
	searchRepo domain.OrderSearchRepository
	orderRepo  domain.OrderRepository // 事件只带 order_id，完整聚合回查主库
}

func NewOrderSearchHandler(searchRepo domain.OrderSearchRepository, orderRepo domain.OrderRepository) *OrderSearchHandler {
	return &OrderSearchHandler{
		searchRepo: searchRepo,
		orderRepo:  orderRepo,
	}
}

// HandleOrderPlaced 处理下单事件。
func (h *OrderSearchHandler) HandleOrderPlaced(ctx context.Context, msg kafkago.Message) error {
	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		slog.Error("failed to decode order placed event", "error", err)
		return err
	}

	order, err := h.orderRepo.Get(ctx, event.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			slog.Warn("order placed event for unknown order", "order_id", event.OrderID)
			return nil
		}
		return err
	}

	return h.searchRepo.Index(ctx, order)
}

// Subscribe 注册消费者订阅。
func (h *OrderSearchHandler) Subscribe(ctx context.Context, consumer *kafka.Consumer) {
	consumer.Start(ctx, 1, h.HandleOrderPlaced)
}
