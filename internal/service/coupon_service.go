package service

import (
	"time"

	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"
)

// CouponService 用户侧优惠券服务
type CouponService struct {
	couponRepo     repository.CouponRepository
	userCouponRepo repository.UserCouponRepository
}

// NewCouponService 创建优惠券服务
func NewCouponService(couponRepo repository.CouponRepository, userCouponRepo repository.UserCouponRepository) *CouponService {
	return &CouponService{
		couponRepo:     couponRepo,
		userCouponRepo: userCouponRepo,
	}
}

// ListAvailable 当前生效的优惠券
func (s *CouponService) ListAvailable(page, pageSize int) ([]models.Coupon, int64, error) {
	return s.couponRepo.ListAvailable(time.Now(), page, pageSize)
}

// ListMine 用户持有的优惠券
func (s *CouponService) ListMine(filter repository.UserCouponListFilter) ([]models.UserCoupon, int64, error) {
	if filter.UserID == 0 {
		return []models.UserCoupon{}, 0, nil
	}
	return s.userCouponRepo.ListByUser(filter)
}
