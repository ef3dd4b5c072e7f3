package mysql

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/reservation"
)

func TestIsDuplicateError(t *testing.T) {
	assert.False(t, isDuplicateError(nil))
	assert.True(t, isDuplicateError(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateError(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, isDuplicateError(errors.New("Error 1062: Duplicate entry 'a@b.com' for key 'users.email'")))
	assert.False(t, isDuplicateError(errors.New("connection refused")))
}

func TestGetDB_PrefersTransaction(t *testing.T) {
	base := &gorm.DB{Config: &gorm.Config{}}
	tx := &gorm.DB{Config: &gorm.Config{}}

	ctx := withTx(context.Background(), tx)
	assert.Same(t, tx, getDB(ctx, base))
}

func TestLoanModelRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	stockID := uint(3)
	l := loan.NewLoan(1, 2, &stockID, now, loan.DefaultPolicy())
	l.ID = 9

	got := toLoanEntity(toLoanModel(l))
	assert.Equal(t, l, got)
	assert.True(t, got.IsActive())
}

func TestReservationModelRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	r := reservation.NewReservation(1, 2, now, time.Hour)
	r.ID = 5
	assert.NoError(t, r.MarkAvailable(7, now))

	got := toReservationEntity(toReservationModel(r))
	assert.Equal(t, r, got)
}
