package cache

import (
	"context"
	"fmt"
	"time"
)

func bookDetailKey(bookID uint) string {
	return fmt.Sprintf("book:detail:%d", bookID)
}

// GetBookDetail 读取图书详情缓存
func GetBookDetail(ctx context.Context, bookID uint, dest interface{}) (bool, error) {
	if bookID == 0 {
		return false, nil
	}
	return GetJSON(ctx, bookDetailKey(bookID), dest)
}

// SetBookDetail 写入图书详情缓存
func SetBookDetail(ctx context.Context, bookID uint, value interface{}, ttl time.Duration) error {
	if bookID == 0 || ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, bookDetailKey(bookID), value, ttl)
}

// DelBookDetail 删除图书详情缓存
func DelBookDetail(ctx context.Context, bookID uint) error {
	if bookID == 0 {
		return nil
	}
	return Del(ctx, bookDetailKey(bookID))
}
