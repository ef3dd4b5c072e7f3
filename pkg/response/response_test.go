package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

func record(t *testing.T, fn func(c *gin.Context)) (int, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestSuccess(t *testing.T) {
	status, resp := record(t, func(c *gin.Context) { Success(c, gin.H{"id": 1}) })
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, resp.Code)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	t.Run("业务错误", func(t *testing.T) {
		status, resp := record(t, func(c *gin.Context) { Error(c, apperrors.ErrBookNotFound) })
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, apperrors.ErrCodeBookNotFound, resp.Code)
		assert.Nil(t, resp.Data)
	})

	t.Run("内部错误不泄露细节", func(t *testing.T) {
		status, resp := record(t, func(c *gin.Context) { Error(c, errors.New("dial tcp 10.0.0.1:3306")) })
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, apperrors.ErrCodeInternal, resp.Code)
		assert.NotContains(t, resp.Message, "10.0.0.1")
	})

	t.Run("Abort终止后续Handler", func(t *testing.T) {
		var aborted bool
		record(t, func(c *gin.Context) {
			Abort(c, apperrors.ErrForbidden)
			aborted = c.IsAborted()
		})
		assert.True(t, aborted)
	})
}
