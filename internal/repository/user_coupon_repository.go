package repository

import (
	"errors"
	"time"

	"github.com/bookstore-next/internal/models"

	"gorm.io/gorm"
)

// UserCouponRepository 用户持券数据访问接口
type UserCouponRepository interface {
	Create(grant *models.UserCoupon) error
	GetByUserAndCoupon(userID, couponID uint) (*models.UserCoupon, error)
	GetByOrderID(orderID uint) (*models.UserCoupon, error)
	ListByOrderIDs(orderIDs []uint) ([]models.UserCoupon, error)
	ListByUser(filter UserCouponListFilter) ([]models.UserCoupon, int64, error)
	MarkUsed(id, orderID uint, usedAt time.Time) (int64, error)
	ReleaseByOrder(orderID uint) (int64, error)
	WithTx(tx *gorm.DB) *GormUserCouponRepository
}

// GormUserCouponRepository GORM 实现
type GormUserCouponRepository struct {
	db *gorm.DB
}

// NewUserCouponRepository 创建用户持券仓库
func NewUserCouponRepository(db *gorm.DB) *GormUserCouponRepository {
	return &GormUserCouponRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserCouponRepository) WithTx(tx *gorm.DB) *GormUserCouponRepository {
	if tx == nil {
		return r
	}
	return &GormUserCouponRepository{db: tx}
}

// Create 发放优惠券
func (r *GormUserCouponRepository) Create(grant *models.UserCoupon) error {
	return r.db.Create(grant).Error
}

// GetByUserAndCoupon 获取用户持有的某张券
func (r *GormUserCouponRepository) GetByUserAndCoupon(userID, couponID uint) (*models.UserCoupon, error) {
	var grant models.UserCoupon
	if err := r.db.Where("user_id = ? AND coupon_id = ?", userID, couponID).First(&grant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &grant, nil
}

// GetByOrderID 获取订单使用的券
func (r *GormUserCouponRepository) GetByOrderID(orderID uint) (*models.UserCoupon, error) {
	var grant models.UserCoupon
	if err := r.db.Preload("Coupon").Where("order_id = ?", orderID).First(&grant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &grant, nil
}

// ListByOrderIDs 批量获取订单使用的券
func (r *GormUserCouponRepository) ListByOrderIDs(orderIDs []uint) ([]models.UserCoupon, error) {
	var grants []models.UserCoupon
	if len(orderIDs) == 0 {
		return grants, nil
	}
	if err := r.db.Preload("Coupon").Where("order_id IN ?", orderIDs).Find(&grants).Error; err != nil {
		return nil, err
	}
	return grants, nil
}

// ListByUser 获取用户持券列表
func (r *GormUserCouponRepository) ListByUser(filter UserCouponListFilter) ([]models.UserCoupon, int64, error) {
	var grants []models.UserCoupon
	query := r.db.Model(&models.UserCoupon{}).Where("user_id = ?", filter.UserID)
	if filter.IsUsed != nil {
		query = query.Where("is_used = ?", *filter.IsUsed)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Coupon").Order("id desc").Find(&grants).Error; err != nil {
		return nil, 0, err
	}
	return grants, total, nil
}

// MarkUsed 条件更新：仅当券未使用时标记为已使用，返回受影响行数
func (r *GormUserCouponRepository) MarkUsed(id, orderID uint, usedAt time.Time) (int64, error) {
	result := r.db.Model(&models.UserCoupon{}).
		Where("id = ? AND is_used = ?", id, false).
		Updates(map[string]interface{}{
			"is_used":    true,
			"used_at":    usedAt,
			"order_id":   orderID,
			"updated_at": usedAt,
		})
	return result.RowsAffected, result.Error
}

// ReleaseByOrder 释放订单占用的券，恢复为未使用
func (r *GormUserCouponRepository) ReleaseByOrder(orderID uint) (int64, error) {
	result := r.db.Model(&models.UserCoupon{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			"is_used":    false,
			"used_at":    nil,
			"order_id":   nil,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
