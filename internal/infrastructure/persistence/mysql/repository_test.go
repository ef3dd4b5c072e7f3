package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appreservation "github.com/xiebiao/library/internal/application/reservation"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/user"
)

// newMockDB gorm + sqlmock，MySQL对未变化的UPDATE返回0行
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func countRows(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count(*)"}).AddRow(n)
}

func TestReservationRepository_Update(t *testing.T) {
	ctx := context.Background()
	cancelled := &reservation.Reservation{ID: 7, Status: reservation.StatusCancelled}

	t.Run("值未变化的已有记录", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("UPDATE `reservations`").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT count").WillReturnRows(countRows(1))

		assert.NoError(t, NewReservationRepository(db).Update(ctx, cancelled))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("记录不存在", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("UPDATE `reservations`").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT count").WillReturnRows(countRows(0))

		assert.ErrorIs(t, NewReservationRepository(db).Update(ctx, cancelled), reservation.ErrReservationNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("正常更新不再查询", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("UPDATE `reservations`").WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewReservationRepository(db).Update(ctx, cancelled))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLoanRepository_Update_Unchanged(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("UPDATE `loans`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT count").WillReturnRows(countRows(1))

	l := &loan.Loan{ID: 3, DueDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)}
	assert.NoError(t, NewLoanRepository(db).Update(context.Background(), l))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("UPDATE `users`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT count").WillReturnRows(countRows(0))

	u := &user.User{ID: 5, Role: user.RoleLibrarian}
	assert.ErrorIs(t, NewUserRepository(db).Update(context.Background(), u), user.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelReservation_TwiceOnMySQL(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	// 第二次取消只读取记录，不发出UPDATE
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `reservations`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "book_id", "status", "created_at", "expires_at", "stock_id", "notified_at", "updated_at"}).
			AddRow(7, 2, 3, "Cancelled", now, nil, nil, nil, now),
	)
	mock.ExpectCommit()

	manage := appreservation.NewManageReservationUseCase(NewReservationRepository(db), NewTxManager(db), nil)
	dto, err := manage.Cancel(context.Background(), 7, appreservation.Actor{UserID: 2, Role: user.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", dto.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
