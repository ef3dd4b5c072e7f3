package mysql

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/logger"
)

// NewDB 创建数据库连接
// 1. debug模式打印SQL，其他模式只记录慢查询
// 2. 配置连接池
// 3. database.auto_migrate为true时自动迁移表结构
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true, // 唯一索引冲突转换为gorm.ErrDuplicatedKey
		NowFunc:        time.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	logger.L().Info("mysql connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

// AutoMigrate 自动迁移表结构
// 只会建表、加字段，生产环境使用版本化的迁移脚本
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&StockModel{},
		&LoanModel{},
		&ReservationModel{},
		&HistoryModel{},
	)
}

// UserModel 用户表
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt）"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	Role      string         `gorm:"size:20;not null;default:User;comment:角色(User/Librarian/Admin)"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

func (UserModel) TableName() string { return "users" }

// BookModel 图书表，馆藏数量在stocks表
type BookModel struct {
	ID          uint           `gorm:"primaryKey"`
	ISBN        string         `gorm:"uniqueIndex;size:20;not null;comment:ISBN"`
	Title       string         `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Author      string         `gorm:"index:idx_search;size:100;not null;comment:作者"`
	Publisher   string         `gorm:"size:100;not null;comment:出版社"`
	CoverURL    string         `gorm:"size:500;comment:封面图片URL"`
	Description string         `gorm:"type:text;comment:图书描述"`
	PublisherID uint           `gorm:"index;not null;comment:上架馆员ID"`
	CreatedAt   time.Time      `gorm:"index;comment:创建时间"`
	UpdatedAt   time.Time      `gorm:"comment:更新时间"`
	DeletedAt   gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

func (BookModel) TableName() string { return "books" }

// StockModel 库存表，每本书一条
type StockModel struct {
	ID          uint      `gorm:"primaryKey"`
	BookID      uint      `gorm:"uniqueIndex;not null;comment:图书ID"`
	Quantity    int       `gorm:"not null;default:0;comment:可借数量"`
	IsAvailable bool      `gorm:"not null;default:false;comment:是否可借(quantity>0)"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

func (StockModel) TableName() string { return "stocks" }

// LoanModel 借阅表，return_date为空表示在借
type LoanModel struct {
	ID         uint       `gorm:"primaryKey"`
	UserID     uint       `gorm:"index:idx_user_active,priority:1;not null;comment:借书读者ID"`
	BookID     uint       `gorm:"index;not null;comment:图书ID"`
	StockID    *uint      `gorm:"comment:扣减的库存记录ID"`
	LoanDate   time.Time  `gorm:"not null;comment:借出时间"`
	DueDate    time.Time  `gorm:"index;not null;comment:应还时间"`
	ReturnDate *time.Time `gorm:"index:idx_user_active,priority:2;comment:归还时间"`
	Fine       int64      `gorm:"not null;default:0;comment:滞纳金(分)"`
	CreatedAt  time.Time  `gorm:"comment:创建时间"`
	UpdatedAt  time.Time  `gorm:"comment:更新时间"`
}

func (LoanModel) TableName() string { return "loans" }

// ReservationModel 预约表，(book_id, status, created_at)用于排队查询
type ReservationModel struct {
	ID         uint       `gorm:"primaryKey"`
	UserID     uint       `gorm:"index;not null;comment:读者ID"`
	BookID     uint       `gorm:"index:idx_queue,priority:1;not null;comment:图书ID"`
	Status     string     `gorm:"index:idx_queue,priority:2;size:20;not null;comment:状态(Pending/Available/Completed/Cancelled)"`
	CreatedAt  time.Time  `gorm:"index:idx_queue,priority:3;comment:预约时间"`
	ExpiresAt  *time.Time `gorm:"comment:过期时间（提示）"`
	StockID    *uint      `gorm:"comment:晋升时分配的库存记录ID"`
	NotifiedAt *time.Time `gorm:"comment:到书通知时间"`
	UpdatedAt  time.Time  `gorm:"comment:更新时间"`
}

func (ReservationModel) TableName() string { return "reservations" }

// HistoryModel 历史记录表（只追加）
type HistoryModel struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"index;not null;comment:用户ID"`
	EventType     string    `gorm:"index;size:32;not null;comment:事件类型"`
	LoanID        *uint     `gorm:"index;comment:借阅ID"`
	ReservationID *uint     `gorm:"index;comment:预约ID"`
	CreatedAt     time.Time `gorm:"index;comment:发生时间"`
}

func (HistoryModel) TableName() string { return "histories" }
