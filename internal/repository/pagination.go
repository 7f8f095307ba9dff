package repository

import (
	"strings"

	"gorm.io/gorm"
)

// applyPagination 应用分页参数，统一处理非法页码与偏移量。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return query.Limit(pageSize).Offset(offset)
}

// applySort 按白名单字段排序，未知字段回退到 fallback。
// columns 的 key 为外部排序字段名，value 为实际排序表达式。
func applySort(query *gorm.DB, sortBy, sortOrder string, columns map[string]string, fallback string) *gorm.DB {
	if query == nil {
		return query
	}
	column, ok := columns[strings.ToLower(strings.TrimSpace(sortBy))]
	if !ok {
		column = fallback
	}
	direction := "desc"
	if strings.EqualFold(strings.TrimSpace(sortOrder), "asc") {
		direction = "asc"
	}
	// 同值时按主键稳定排序
	return query.Order(column + " " + direction).Order(tieBreaker(columns, fallback) + " " + direction)
}

func tieBreaker(columns map[string]string, fallback string) string {
	if id, ok := columns["id"]; ok {
		return id
	}
	if idx := strings.LastIndex(fallback, "."); idx > 0 {
		return fallback[:idx] + ".id"
	}
	return "id"
}
