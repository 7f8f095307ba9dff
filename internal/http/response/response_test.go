package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, PageSize: 20, Total: 41, TotalPage: 3}, BuildPagination(1, 20, 41))
	assert.Equal(t, int64(0), BuildPagination(1, 20, 0).TotalPage)
	assert.Equal(t, int64(0), BuildPagination(1, 0, 10).TotalPage)
}

func TestErrorWithCodeCarriesDetailsAndRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	ErrorWithCode(c, CodeConflict, "DUPLICATE_RESOURCE", "exists", map[string]interface{}{"review_id": 3})

	var body struct {
		StatusCode int                    `json:"status_code"`
		ErrorCode  string                 `json:"error_code"`
		Data       map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, CodeConflict, body.StatusCode)
	assert.Equal(t, "DUPLICATE_RESOURCE", body.ErrorCode)
	assert.Equal(t, "req-1", body.Data["request_id"])
	assert.EqualValues(t, 3, body.Data["review_id"])
}

func TestFailWritesAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	appErr := NewAppError(CodeBadRequest, "COUPON_EXPIRED", "expired", nil).
		WithDetails(map[string]interface{}{"coupon_id": 9})
	Fail(c, appErr)

	var body struct {
		StatusCode int                    `json:"status_code"`
		ErrorCode  string                 `json:"error_code"`
		Msg        string                 `json:"msg"`
		Data       map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CodeBadRequest, body.StatusCode)
	assert.Equal(t, "COUPON_EXPIRED", body.ErrorCode)
	assert.Equal(t, "expired", body.Msg)
	assert.EqualValues(t, 9, body.Data["coupon_id"])
	assert.Equal(t, "COUPON_EXPIRED: expired", appErr.Error())
}
