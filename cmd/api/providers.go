package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appreservation "github.com/xiebiao/library/internal/application/reservation"
	"github.com/xiebiao/library/internal/domain/history"
	"github.com/xiebiao/library/internal/domain/loan"
	domainnotification "github.com/xiebiao/library/internal/domain/notification"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/stock"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/notification"
	mongostore "github.com/xiebiao/library/internal/infrastructure/persistence/mongo"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/mq"
)

// provideDB 连接MySQL，cleanup关闭连接池
func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// provideRedis 连接Redis
func provideRedis(cfg *config.Config) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// provideMongo 连接MongoDB，未配置URI时返回nil
func provideMongo(cfg *config.Config) (*mongo.Client, func(), error) {
	client, err := mongostore.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return nil, func() {}, nil
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
	return client, cleanup, nil
}

// provideAuditStore 审计关闭时返回nil接口，而不是带类型的nil指针
func provideAuditStore(client *mongo.Client, cfg *config.Config) history.AuditStore {
	store := mongostore.NewAuditStore(client, cfg)
	if store == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancel()
	if err := store.EnsureIndexes(ctx); err != nil {
		logger.L().Warn("ensure audit indexes failed", zap.Error(err))
	}
	return store
}

// provideEmailPublisher 邮件队列不可用时只关闭邮件通道，不阻止启动
func provideEmailPublisher(cfg *config.Config) (notification.EmailPublisher, func(), error) {
	if cfg.RabbitMQ.URL == "" {
		logger.L().Warn("rabbitmq url not configured, email notification disabled")
		return nil, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.ExchangeType)
	if err != nil {
		logger.L().Warn("rabbitmq unavailable, email notification disabled", zap.Error(err))
		return nil, func() {}, nil
	}
	return publisher, func() { _ = publisher.Close() }, nil
}

func provideNotificationChannel(client *goredis.Client, cfg *config.Config) *redis.NotificationChannel {
	return redis.NewNotificationChannel(client, cfg.Library.InboxSize)
}

// provideNotifier Redis实时通道 + RabbitMQ邮件
func provideNotifier(users user.Repository, realtime *redis.NotificationChannel, email notification.EmailPublisher, cfg *config.Config) domainnotification.Notifier {
	return notification.NewDispatcher(users, realtime, email, cfg.RabbitMQ.EmailKey)
}

func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)
}

func providePolicy(cfg *config.Config) loan.Policy {
	return loan.Policy{
		MaxActiveLoans: cfg.Library.MaxActiveLoans,
		LoanDuration:   cfg.Library.LoanDuration,
		LateFeePerDay:  cfg.Library.LateFeePerDay,
	}
}

func provideLedger(stocks stock.Repository) *stock.Ledger {
	return stock.NewLedger(stocks)
}

func provideCreateReservationUseCase(
	users user.Repository,
	stocks stock.Repository,
	reservations reservation.Repository,
	tx *mysql.TxManager,
	recorder *history.Recorder,
	cfg *config.Config,
) *appreservation.CreateReservationUseCase {
	return appreservation.NewCreateReservationUseCase(users, stocks, reservations, tx, recorder, cfg.Library.ReservationTTL)
}

// provideEngine 设置运行模式并注册路由
func provideEngine(cfg *config.Config, handlers router.Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	return router.New(handlers, auth, router.Options{
		EnableSwagger: cfg.Server.Mode != "release",
		EnableMetrics: true,
	})
}
