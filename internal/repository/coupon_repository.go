package repository

import (
	"errors"
	"time"

	"github.com/bookstore-next/internal/models"

	"gorm.io/gorm"
)

// CouponRepository 优惠券数据访问接口
type CouponRepository interface {
	GetByID(id uint) (*models.Coupon, error)
	ListByIDs(ids []uint) ([]models.Coupon, error)
	Create(coupon *models.Coupon) error
	List(filter CouponListFilter) ([]models.Coupon, int64, error)
	ListAvailable(now time.Time, page, pageSize int) ([]models.Coupon, int64, error)
	IssueStats(couponIDs []uint) (map[uint]CouponIssueStat, error)
	WithTx(tx *gorm.DB) *GormCouponRepository
}

// GormCouponRepository GORM 实现
type GormCouponRepository struct {
	db *gorm.DB
}

// NewCouponRepository 创建优惠券仓库
func NewCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponRepository) WithTx(tx *gorm.DB) *GormCouponRepository {
	if tx == nil {
		return r
	}
	return &GormCouponRepository{db: tx}
}

// GetByID 根据ID获取优惠券
func (r *GormCouponRepository) GetByID(id uint) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.First(&coupon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// ListByIDs 批量获取优惠券
func (r *GormCouponRepository) ListByIDs(ids []uint) ([]models.Coupon, error) {
	if len(ids) == 0 {
		return []models.Coupon{}, nil
	}
	var coupons []models.Coupon
	if err := r.db.Where("id IN ?", ids).Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// Create 创建优惠券
func (r *GormCouponRepository) Create(coupon *models.Coupon) error {
	return r.db.Create(coupon).Error
}

// List 获取优惠券列表
func (r *GormCouponRepository) List(filter CouponListFilter) ([]models.Coupon, int64, error) {
	var coupons []models.Coupon
	query := r.db.Model(&models.Coupon{})
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id desc").Find(&coupons).Error; err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

// ListAvailable 获取当前可领取/可用的优惠券（启用且在有效期内）
func (r *GormCouponRepository) ListAvailable(now time.Time, page, pageSize int) ([]models.Coupon, int64, error) {
	var coupons []models.Coupon
	query := r.db.Model(&models.Coupon{}).
		Where("is_active = ? AND start_at <= ? AND end_at >= ?", true, now, now)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, page, pageSize)
	if err := query.Order("end_at asc").Order("id asc").Find(&coupons).Error; err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

// IssueStats 统计优惠券发放与使用数量
func (r *GormCouponRepository) IssueStats(couponIDs []uint) (map[uint]CouponIssueStat, error) {
	result := make(map[uint]CouponIssueStat, len(couponIDs))
	if len(couponIDs) == 0 {
		return result, nil
	}
	var rows []CouponIssueStat
	if err := r.db.Model(&models.UserCoupon{}).
		Select("coupon_id, COUNT(*) AS issued_count, COALESCE(SUM(CASE WHEN is_used THEN 1 ELSE 0 END), 0) AS used_count").
		Where("coupon_id IN ?", couponIDs).
		Group("coupon_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.CouponID] = row
	}
	return result, nil
}
