package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"steamsbury/config"
	"steamsbury/internal/cache"
	"steamsbury/internal/schedule"
	"steamsbury/internal/service"
	"steamsbury/pkg/logger"
	"steamsbury/pkg/snowflake"
	"steamsbury/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Logger.Info("Scheduler received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage for scheduler", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake for scheduler", zap.Error(err))
	}

	// 会员规则配置错误不可恢复，启动期直接失败
	if err := service.InitRules(); err != nil {
		logger.Logger.Fatal("Failed to initialize loyalty rules for scheduler", zap.Error(err))
	}

	logger.Logger.Info("Scheduler service starting",
		zap.String("service", "steamsbury-scheduler"),
		zap.String("environment", config.Cfg.Environment),
	)

	go runBirthdayGrantLoop(ctx)
	go runStaleOrderSweepLoop(ctx)
	go runOfferCacheRefreshLoop(ctx)

	<-ctx.Done()

	logger.Logger.Info("Scheduler service shutting down gracefully")
}

// runBirthdayGrantLoop 每天本地时间 00:05 发放当天的生日礼遇
func runBirthdayGrantLoop(ctx context.Context) {
	s := schedule.GetBirthdayScheduler()

	// 开发环境下改为每分钟执行一次，方便本地调试
	if config.Cfg.Environment == "development" {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		logger.Logger.Info("Birthday grant loop running in development mode with 1m interval")

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
				if err := s.GrantDailyBirthdayCredits(runCtx); err != nil {
					logger.Logger.Error("Birthday grant run failed (development interval)", zap.Error(err))
				}
				cancel()
			}
		}
	}

	for {
		// 计算下一次运行时间（今天/明天的 00:05）
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 0, 5, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}

		delay := time.Until(next)
		logger.Logger.Info("Scheduled next birthday grant run",
			zap.Time("now", now),
			zap.Time("next_run", next),
			zap.Duration("delay", delay),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			if err := s.GrantDailyBirthdayCredits(runCtx); err != nil {
				logger.Logger.Error("Birthday grant run failed", zap.Error(err))
			}
			cancel()
		}
	}
}

// runOfferCacheRefreshLoop 每小时失效一次优惠缓存，确保过了结束日期的优惠及时下线
func runOfferCacheRefreshLoop(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := cache.InvalidateOffers(ctx); err != nil {
				logger.Logger.Warn("Failed to refresh offer cache", zap.Error(err))
			}
		}
	}
}

// runStaleOrderSweepLoop 周期性扫描超时订单，兜底延迟消息丢失的情况
// 当前实现：每 10 分钟扫描一次。
func runStaleOrderSweepLoop(ctx context.Context) {
	s := schedule.GetOrderScheduler()

	interval := 10 * time.Minute
	if config.Cfg.Environment == "development" {
		interval = 1 * time.Minute
		logger.Logger.Info("Stale order sweep loop running in development mode with 1m interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			if err := s.SweepStaleOrders(runCtx); err != nil {
				logger.Logger.Error("Stale order sweep run failed", zap.Error(err))
			}
			cancel()
		}
	}
}
