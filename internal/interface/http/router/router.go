// Package router 注册HTTP路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// Handlers 所有HTTP处理器
type Handlers struct {
	User         *handler.UserHandler
	Book         *handler.BookHandler
	Stock        *handler.StockHandler
	Loan         *handler.LoanHandler
	Reservation  *handler.ReservationHandler
	Notification *handler.NotificationHandler
	History      *handler.HistoryHandler
}

// Options 路由开关
type Options struct {
	EnableSwagger bool
	EnableMetrics bool
}

// New 创建Gin引擎并注册路由
// 中间件顺序：Recovery → RequestLogger → Tracing → Metrics → 路由组Auth → Handler
func New(h Handlers, auth *middleware.AuthMiddleware, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.Tracing(),
		middleware.Metrics(),
	)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	if opts.EnableMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	if opts.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")

	users := v1.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)
		users.POST("/refresh", h.User.RefreshToken)
		users.POST("/logout", auth.RequireAuth(), h.User.Logout)
		users.PUT("/:id/role", auth.RequireAuth(), auth.RequireAdmin(), h.User.ChangeRole)
	}

	books := v1.Group("/books")
	{
		books.GET("", h.Book.ListBooks)
		books.GET("/:id", h.Book.GetBook)
		books.POST("", auth.RequireAuth(), auth.RequireLibrarian(), h.Book.PublishBook)
		books.GET("/:id/reservations", auth.RequireAuth(), auth.RequireLibrarian(), h.Book.ReservationQueue)
	}

	authorized := v1.Group("")
	authorized.Use(auth.RequireAuth())

	stocks := authorized.Group("/stocks")
	{
		stocks.GET("/:bookId", h.Stock.GetStock)
		stocks.PUT("/:bookId", auth.RequireLibrarian(), h.Stock.AdjustStock)
	}

	loans := authorized.Group("/loans")
	loans.Use(auth.RequireLibrarian())
	{
		loans.POST("", h.Loan.CreateLoan)
		loans.GET("", h.Loan.ListLoans)
		loans.GET("/:id", h.Loan.GetLoan)
		loans.PUT("/:id", h.Loan.UpdateLoan)
		loans.PUT("/:id/return", h.Loan.ReturnLoan)
		loans.DELETE("/:id", auth.RequireAdmin(), h.Loan.DeleteLoan)
	}

	reservations := authorized.Group("/reservations")
	{
		reservations.POST("", h.Reservation.CreateReservation)
		reservations.GET("", h.Reservation.ListReservations)
		reservations.GET("/:id", h.Reservation.GetReservation)
		reservations.PUT("/:id", h.Reservation.UpdateReservation)
		reservations.PUT("/:id/cancel", h.Reservation.CancelReservation)
		reservations.DELETE("/:id", h.Reservation.DeleteReservation)
	}

	authorized.GET("/notifications", h.Notification.ListNotifications)
	authorized.GET("/history", auth.RequireLibrarian(), h.History.ListHistory)

	return r
}
