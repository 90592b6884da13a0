package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"steamsbury/config"
	"steamsbury/internal/queue/consumer"
	"steamsbury/internal/service"
	"steamsbury/pkg/logger"
	"steamsbury/pkg/metrics"
	"steamsbury/pkg/sms"
	"steamsbury/pkg/snowflake"
	"steamsbury/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	// 会员规则配置错误不可恢复，必须在消费任何消息之前失败
	if err := service.InitRules(); err != nil {
		logger.Logger.Fatal("Failed to initialize loyalty rules", zap.Error(err))
	}

	if err := sms.Init(); err != nil {
		logger.Logger.Warn("Failed to initialize SMS service", zap.Error(err))
		logger.Logger.Info("SMS service will be disabled, pickup notifications may not work")
	}

	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Warn("Failed to initialize business metrics", zap.Error(err))
	}

	logger.Logger.Info("Worker service starting",
		zap.String("service", "steamsbury-worker"),
		zap.String("environment", config.Cfg.Environment),
	)

	// 消费者阻塞运行，连接断开后退出；两个队列各占一个 goroutine
	go func() {
		if err := consumer.StartOrderStatusConsumer(); err != nil {
			logger.Logger.Error("Order status consumer stopped", zap.Error(err))
			cancel()
		}
	}()

	go func() {
		if err := consumer.StartOrderExpireConsumer(); err != nil {
			logger.Logger.Error("Order expire consumer stopped", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Logger.Info("Worker service shutting down gracefully")
}
