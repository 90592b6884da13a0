package schedule

// 订单兜底调度器：延迟消息丢失时，周期扫描超时未处理的订单并自动拒单

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"steamsbury/config"
	"steamsbury/internal/service"
	"steamsbury/pkg/logger"
)

var (
	orderSchedOnce sync.Once
	orderSchedInst *OrderScheduler
)

type OrderScheduler struct {
	logger *zap.Logger
}

func GetOrderScheduler() *OrderScheduler {
	orderSchedOnce.Do(func() {
		orderSchedInst = &OrderScheduler{
			logger: logger.Logger,
		}
	})
	return orderSchedInst
}

// SweepStaleOrders 扫描 placed 状态超时的订单并拒单。
// 正常情况下延迟消息已经处理过了，这里只是兜底，扫出来的数量应该接近零。
func (s *OrderScheduler) SweepStaleOrders(ctx context.Context) error {
	staleAfter := time.Duration(config.Cfg.OrderStaleHours) * time.Hour
	cutoff := time.Now().Add(-staleAfter)

	ids, err := service.Order().FindStaleOrders(ctx, cutoff, 100)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	s.logger.Warn("Found stale orders missed by delayed messages",
		zap.Int("count", len(ids)),
	)

	failed := 0
	for _, id := range ids {
		if err := service.Order().ExpireOrder(ctx, id); err != nil {
			failed++
			s.logger.Error("Failed to expire stale order",
				zap.Int64("order_id", id),
				zap.Error(err),
			)
		}
	}

	if failed > 0 {
		return fmt.Errorf("stale order sweep completed with %d failures", failed)
	}
	return nil
}
