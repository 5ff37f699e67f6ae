package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladDeliar/PoS/internal/common/errors"
	"github.com/VladDeliar/PoS/internal/common/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// 辅助函数：创建测试上下文
func createTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

// 辅助函数：创建带路径参数的测试上下文
func createTestContextWithParam(paramName, paramValue string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: paramName, Value: paramValue}}
	return c, w
}

// 辅助函数：创建带查询参数的测试上下文
func createTestContextWithQuery(query string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return c, w
}

// 辅助函数：解析响应
func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ============================================================================
// 错误处理测试
// ============================================================================

func TestHandleError_NilError(t *testing.T) {
	c, _ := createTestContext()

	handled := HandleError(c, nil)

	assert.False(t, handled, "nil error should not be handled")
}

func TestHandleError_AppError(t *testing.T) {
	c, w := createTestContext()
	appErr := errors.New(1001, "参数错误")

	handled := HandleError(c, appErr)

	assert.True(t, handled, "AppError should be handled")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := parseResponse(w)
	assert.Equal(t, 1001, resp.Code)
	assert.Equal(t, "参数错误", resp.Message)
}

func TestHandleError_GenericError(t *testing.T) {
	c, w := createTestContext()
	err := assert.AnError

	handled := HandleError(c, err)

	assert.True(t, handled, "generic error should be handled")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleErrorWithMessage_CustomMessage(t *testing.T) {
	c, w := createTestContext()
	err := assert.AnError

	handled := HandleErrorWithMessage(c, err, "操作失败")

	assert.True(t, handled)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	resp := parseResponse(w)
	assert.Equal(t, "操作失败", resp.Message)
}

func TestMustSucceed_Success(t *testing.T) {
	c, w := createTestContext()
	data := map[string]string{"key": "value"}

	MustSucceed(c, nil, data)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(w)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "success", resp.Message)
}

func TestMustSucceed_Error(t *testing.T) {
	c, w := createTestContext()
	appErr := errors.ErrNotFound

	MustSucceed(c, appErr, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := parseResponse(w)
	assert.Equal(t, appErr.Code, resp.Code)
}

func TestMustSucceedWithMessage_Success(t *testing.T) {
	c, w := createTestContext()

	MustSucceedWithMessage(c, nil, "Замовлення скасовано", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(w)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "Замовлення скасовано", resp.Message)
}

func TestMustSucceedPage_Success(t *testing.T) {
	c, w := createTestContext()
	list := []string{"item1", "item2"}

	MustSucceedPage(c, nil, list, 100, 1, 10)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(w)
	assert.Equal(t, 0, resp.Code)

	// 验证分页数据
	dataMap := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(100), dataMap["total"])
	assert.Equal(t, float64(1), dataMap["page"])
	assert.Equal(t, float64(10), dataMap["page_size"])
}

// ============================================================================
// ID 解析测试
// ============================================================================

func TestParseID_Valid(t *testing.T) {
	c, _ := createTestContextWithParam("id", "12345")

	id, ok := ParseID(c, "замовлення")

	assert.True(t, ok)
	assert.Equal(t, int64(12345), id)
}

func TestParseID_Invalid(t *testing.T) {
	c, w := createTestContextWithParam("id", "invalid")

	id, ok := ParseID(c, "замовлення")

	assert.False(t, ok)
	assert.Equal(t, int64(0), id)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := parseResponse(w)
	assert.Equal(t, "Некоректний ідентифікатор: замовлення", resp.Message)
}

func TestParseParamID_Valid(t *testing.T) {
	c, _ := createTestContextWithParam("zone_id", "999")

	id, ok := ParseParamID(c, "zone_id", "зона доставки")

	assert.True(t, ok)
	assert.Equal(t, int64(999), id)
}

func TestParseQueryID_Empty(t *testing.T) {
	c, _ := createTestContextWithQuery("")

	id, ok := ParseQueryID(c, "category_id", "категорія")

	assert.True(t, ok)
	assert.Nil(t, id)
}

func TestParseQueryID_Valid(t *testing.T) {
	c, _ := createTestContextWithQuery("category_id=123")

	id, ok := ParseQueryID(c, "category_id", "категорія")

	assert.True(t, ok)
	require.NotNil(t, id)
	assert.Equal(t, int64(123), *id)
}

func TestParseQueryID_Invalid(t *testing.T) {
	c, w := createTestContextWithQuery("category_id=abc")

	id, ok := ParseQueryID(c, "category_id", "категорія")

	assert.False(t, ok)
	assert.Nil(t, id)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ============================================================================
// 时间解析测试
// ============================================================================

func TestParseDate_Valid(t *testing.T) {
	date, err := ParseDate("2024-01-15")

	assert.NoError(t, err)
	assert.Equal(t, 2024, date.Year())
	assert.Equal(t, time.January, date.Month())
	assert.Equal(t, 15, date.Day())
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("invalid")

	assert.Error(t, err)
}

func TestParseDateTime_MultipleFormats(t *testing.T) {
	testCases := []struct {
		input string
		valid bool
	}{
		{"2024-01-15T10:30:00+02:00", true},
		{"2024-01-15 10:30:00", true},
		{"2024-01-15T10:30:00", true},
		{"2024-01-15 10:30", true},
		{"invalid", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			_, err := ParseDateTime(tc.input)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseQueryDate_Empty(t *testing.T) {
	c, _ := createTestContextWithQuery("")

	date, ok := ParseQueryDate(c, "date", "Некоректна дата")

	assert.True(t, ok)
	assert.Nil(t, date)
}

func TestParseQueryDate_Valid(t *testing.T) {
	c, _ := createTestContextWithQuery("date=2024-01-15")

	date, ok := ParseQueryDate(c, "date", "Некоректна дата")

	assert.True(t, ok)
	require.NotNil(t, date)
	assert.Equal(t, 2024, date.Year())
}

func TestParseQueryDate_Invalid(t *testing.T) {
	c, w := createTestContextWithQuery("date=invalid")

	date, ok := ParseQueryDate(c, "date", "Некоректна дата")

	assert.False(t, ok)
	assert.Nil(t, date)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseQueryDateRange_BothEmpty(t *testing.T) {
	c, _ := createTestContextWithQuery("")

	start, end, ok := ParseQueryDateRange(c)

	assert.True(t, ok)
	assert.Nil(t, start)
	assert.Nil(t, end)
}

func TestParseQueryDateRange_Valid(t *testing.T) {
	c, _ := createTestContextWithQuery("start_date=2024-01-01&end_date=2024-01-31")

	start, end, ok := ParseQueryDateRange(c)

	assert.True(t, ok)
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, 2024, start.Year())
	assert.Equal(t, time.January, start.Month())
	assert.Equal(t, 1, start.Day())
	// 结束日期应该是当天结束时间
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
}

func TestParseQueryDateRange_InvalidStart(t *testing.T) {
	c, w := createTestContextWithQuery("start_date=invalid&end_date=2024-01-31")

	_, _, ok := ParseQueryDateRange(c)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ============================================================================
// 分页测试
// ============================================================================

func TestBindPagination_Defaults(t *testing.T) {
	c, _ := createTestContextWithQuery("")

	p := BindPagination(c)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)
}

func TestBindPagination_CustomValues(t *testing.T) {
	c, _ := createTestContextWithQuery("page=3&page_size=20")

	p := BindPagination(c)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 20, p.PageSize)
}

func TestBindPagination_Normalize(t *testing.T) {
	c, _ := createTestContextWithQuery("page=-1&page_size=200")

	p := BindPagination(c)

	assert.Equal(t, 1, p.Page)       // 规范化为1
	assert.Equal(t, 100, p.PageSize) // 最大100
}

func TestBindPaginationWithDefaults(t *testing.T) {
	c, _ := createTestContextWithQuery("")

	p := BindPaginationWithDefaults(c, 1, 20)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
}

func TestBindPagination_GetOffsetAndLimit(t *testing.T) {
	c, _ := createTestContextWithQuery("page=3&page_size=10")

	p := BindPagination(c)

	assert.Equal(t, 20, p.GetOffset()) // (3-1)*10
	assert.Equal(t, 10, p.GetLimit())
}
