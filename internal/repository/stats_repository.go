package repository

import (
	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/models"

	"gorm.io/gorm"
)

// StatsRepository 管理端聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type StatsRepository interface {
	GetOverview() (StatsOverviewRow, error)
}

// GormStatsRepository GORM 实现
type GormStatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository 创建统计仓库
func NewStatsRepository(db *gorm.DB) *GormStatsRepository {
	return &GormStatsRepository{db: db}
}

// GetOverview 获取平台总览统计
func (r *GormStatsRepository) GetOverview() (StatsOverviewRow, error) {
	var row StatsOverviewRow
	if err := r.db.Model(&models.User{}).Count(&row.TotalUsers).Error; err != nil {
		return row, err
	}
	if err := r.db.Model(&models.Book{}).Count(&row.TotalBooks).Error; err != nil {
		return row, err
	}

	var orderRow struct {
		TotalOrders     int64
		PendingOrders   int64
		DeliveredOrders int64
		TotalRevenue    int64
	}
	if err := r.db.Model(&models.Order{}).
		Select(
			"COUNT(*) AS total_orders, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_orders, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS delivered_orders, "+
				"CAST(COALESCE(SUM(CASE WHEN status = ? THEN final_total ELSE 0 END), 0) AS BIGINT) AS total_revenue",
			constants.OrderStatusPending,
			constants.OrderStatusDelivered,
			constants.OrderStatusDelivered,
		).
		Scan(&orderRow).Error; err != nil {
		return row, err
	}
	row.TotalOrders = orderRow.TotalOrders
	row.PendingOrders = orderRow.PendingOrders
	row.DeliveredOrders = orderRow.DeliveredOrders
	row.TotalRevenue = orderRow.TotalRevenue
	return row, nil
}
