package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken(7, "librarian@test.com", "Librarian")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "Librarian", claims.Role)
	assert.Equal(t, "7", claims.Subject)

	refresh, err := m.ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Empty(t, refresh.Role, "Refresh Token不携带角色")
}

func TestManager_ParseToken_Errors(t *testing.T) {
	t.Run("过期Token", func(t *testing.T) {
		m := NewManager("test-secret", -time.Minute, time.Hour)
		pair, err := m.GenerateToken(1, "a@test.com", "User")
		require.NoError(t, err)

		_, err = m.ParseToken(pair.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})

	t.Run("签名密钥不同", func(t *testing.T) {
		pair, err := NewManager("secret-a", time.Hour, time.Hour).GenerateToken(1, "a@test.com", "User")
		require.NoError(t, err)

		_, err = NewManager("secret-b", time.Hour, time.Hour).ParseToken(pair.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("格式错误", func(t *testing.T) {
		_, err := NewManager("s", time.Hour, time.Hour).ParseToken("not-a-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestManager_RefreshAccessToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)
	pair, err := m.GenerateToken(3, "u@test.com", "User")
	require.NoError(t, err)

	access, err := m.RefreshAccessToken(pair.RefreshToken, "u@test.com", "Admin")
	require.NoError(t, err)

	claims, err := m.ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, "Admin", claims.Role, "刷新后使用最新角色")
}
