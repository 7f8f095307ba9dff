package public

import (
	"errors"
	"strconv"
	"strings"
	"time"

	handlershared "github.com/bookstore-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

var errInvalidDate = errors.New("invalid date")

// parseOptionalDate 解析 YYYY-MM-DD 或 RFC3339 日期，空串返回 nil
func parseOptionalDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if value, err := time.Parse(dateLayout, raw); err == nil {
		return &value, nil
	}
	if value, err := time.Parse(time.RFC3339, raw); err == nil {
		return &value, nil
	}
	return nil, errInvalidDate
}

// parseOptionalInt64 解析可选整数查询参数
func parseOptionalInt64(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func queryInt(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(c.DefaultQuery(name, strconv.Itoa(fallback))))
	if err != nil {
		return fallback
	}
	return value
}

func queryUint(c *gin.Context, name string) uint {
	return handlershared.QueryUint(c, name)
}

// queryOptionalBool 解析可选布尔查询参数，非法值视为未传
func queryOptionalBool(c *gin.Context, name string) *bool {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}
