package application

import (
	"context"
	"math"

	"github.com/wyfcoding/ecommerce/internal/points/domain"
	"github.com/wyfcoding/pkg/logging"
)

// 消费金额的积分回馈率（5%）。
const earnRate = 0.05

// PreviewResult 一次假想积分拆分的完整快照。
type PreviewResult struct {
	BalanceBefore    int64 `json:"my_balance_before"`
	PointsToUse      int64 `json:"points_to_use"`
	FinalPay         int64 `json:"final_pay"`
	WillEarn         int64 `json:"will_earn"`
	BalanceAfterUse  int64 `json:"my_balance_after_use"`
	BalanceAfterEarn int64 `json:"my_balance_after_earn"`
}

// PointsService 积分服务：余额查询、试算、订单结算。
type PointsService struct {
	repo domain.PointTransactionRepository
}

func NewPointsService(repo domain.PointTransactionRepository) *PointsService {
	return &PointsService{repo: repo}
}

// GetBalance 当前余额 = EARN 合计 − USE 合计。
func (s *PointsService) GetBalance(ctx context.Context, userID string) (int64, error) {
	earned, err := s.repo.SumByType(ctx, userID, domain.TypeEarn)
	if err != nil {
		return 0, err
	}
	used, err := s.repo.SumByType(ctx, userID, domain.TypeUse)
	if err != nil {
		return 0, err
	}
	return earned - used, nil
}

// Preview 订单前试算，无副作用。用点数被钳制在
// [0, min(余额, 购物车总额)] 内，因此试算本身不会失败。
func (s *PointsService) Preview(ctx context.Context, userID string, cartTotal, requestedUse int64) (PreviewResult, error) {
	balance, err := s.GetBalance(ctx, userID)
	if err != nil {
		return PreviewResult{}, err
	}
	return computeSplit(balance, cartTotal, requestedUse), nil
}

// SettleAfterOrder 订单确定时落账。重新试算以防止客户端传入
// 过期或被篡改的拆分值，最多追加 USE、EARN 各一行，均带订单号。
// 必须在与订单创建相同的事务上下文中调用。
func (s *PointsService) SettleAfterOrder(ctx context.Context, userID string, cartTotal, requestedUse int64, orderID string) error {
	split, err := s.Preview(ctx, userID, cartTotal, requestedUse)
	if err != nil {
		return err
	}

	if split.PointsToUse > 0 {
		use := &domain.PointTransaction{
			UserID:  userID,
			Type:    domain.TypeUse,
			Amount:  split.PointsToUse,
			OrderID: orderID,
		}
		if err := s.repo.Append(ctx, use); err != nil {
			logging.Error(ctx, "points.settle use append failed", "user_id", userID, "order_id", orderID, "error", err)
			return err
		}
	}

	if split.WillEarn > 0 {
		earn := &domain.PointTransaction{
			UserID:  userID,
			Type:    domain.TypeEarn,
			Amount:  split.WillEarn,
			OrderID: orderID,
		}
		if err := s.repo.Append(ctx, earn); err != nil {
			logging.Error(ctx, "points.settle earn append failed", "user_id", userID, "order_id", orderID, "error", err)
			return err
		}
	}

	return nil
}

// computeSplit 纯计算。积分为整数：先对分值中间量四舍五入，
// 再向下取整回整点。
func computeSplit(balance, cartTotal, requestedUse int64) PreviewResult {
	if cartTotal < 0 {
		cartTotal = 0
	}

	pointsToUse := min(requestedUse, min(balance, cartTotal))
	if pointsToUse < 0 {
		pointsToUse = 0
	}

	finalPay := cartTotal - pointsToUse
	scaled := int64(math.Round(float64(finalPay) * 100 * earnRate))
	willEarn := floorDiv(scaled, 100)

	return PreviewResult{
		BalanceBefore:    balance,
		PointsToUse:      pointsToUse,
		FinalPay:         finalPay,
		WillEarn:         willEarn,
		BalanceAfterUse:  balance - pointsToUse,
		BalanceAfterEarn: balance - pointsToUse + willEarn,
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
