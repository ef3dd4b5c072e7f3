// notifier 邮件通知消费者：从RabbitMQ邮件队列读取通知并投递
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/notification"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/mq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zl, err := logger.Init(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	metrics.InitMetrics()

	if cfg.RabbitMQ.URL == "" {
		zl.Fatal("rabbitmq url not configured")
	}

	consumer, err := mq.NewConsumer(
		cfg.RabbitMQ.URL,
		cfg.RabbitMQ.Exchange,
		cfg.RabbitMQ.ExchangeType,
		cfg.RabbitMQ.EmailQueue,
		[]string{cfg.RabbitMQ.EmailKey},
	)
	if err != nil {
		zl.Fatal("create consumer failed", zap.Error(err))
	}
	defer func() { _ = consumer.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := notification.EmailHandler(notification.NewLogSender(zl))
	if err := consumer.Consume(ctx, handler); err != nil {
		zl.Error("consume stopped", zap.Error(err))
	}
	zl.Info("notifier exited")
}
