//go:build wireinject
// +build wireinject

// Wire依赖注入配置，运行 `wire gen ./cmd/api` 生成wire_gen.go

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	appbook "github.com/xiebiao/library/internal/application/book"
	apphistory "github.com/xiebiao/library/internal/application/history"
	apploan "github.com/xiebiao/library/internal/application/loan"
	appreservation "github.com/xiebiao/library/internal/application/reservation"
	appstock "github.com/xiebiao/library/internal/application/stock"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/history"
	domainnotification "github.com/xiebiao/library/internal/domain/notification"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
)

// infrastructureSet 连接与外部通道
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	provideMongo,
	provideAuditStore,
	provideEmailPublisher,
	provideNotificationChannel,
	provideNotifier,
	provideSessionStore,
	provideJWTManager,
	wire.Bind(new(domainnotification.Inbox), new(*redis.NotificationChannel)),
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
)

// repositorySet 仓储和事务
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewBookRepository,
	mysql.NewStockRepository,
	mysql.NewLoanRepository,
	mysql.NewReservationRepository,
	mysql.NewHistoryRepository,
	mysql.NewTxManager,
	wire.Bind(new(appbook.Transactor), new(*mysql.TxManager)),
	wire.Bind(new(appstock.Transactor), new(*mysql.TxManager)),
	wire.Bind(new(apploan.Transactor), new(*mysql.TxManager)),
	wire.Bind(new(appreservation.Transactor), new(*mysql.TxManager)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
	history.NewRecorder,
	provideLedger,
	providePolicy,
	wire.Bind(new(apphistory.Reader), new(*history.Recorder)),
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,
	appuser.NewChangeRoleUseCase,
	appbook.NewPublishBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appreservation.NewPromoter,
	appstock.NewGetStockUseCase,
	appstock.NewAdjustStockUseCase,
	apploan.NewCreateLoanUseCase,
	apploan.NewReturnLoanUseCase,
	apploan.NewUpdateLoanUseCase,
	apploan.NewDeleteLoanUseCase,
	apploan.NewQueryLoanUseCase,
	provideCreateReservationUseCase,
	appreservation.NewManageReservationUseCase,
	appreservation.NewQueryReservationUseCase,
	apphistory.NewListHistoryUseCase,
)

// interfaceSet HTTP层
var interfaceSet = wire.NewSet(
	middleware.NewAuthMiddleware,
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewStockHandler,
	handler.NewLoanHandler,
	handler.NewReservationHandler,
	handler.NewNotificationHandler,
	handler.NewHistoryHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideEngine,
)

// InitializeApp 组装整个应用，cleanup按依赖逆序释放连接
func InitializeApp(cfg *config.Config) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil, nil
}
