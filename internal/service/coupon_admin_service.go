package service

import (
	"strings"
	"time"

	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"
)

// CouponAdminService 优惠券管理服务
type CouponAdminService struct {
	couponRepo     repository.CouponRepository
	userCouponRepo repository.UserCouponRepository
	userRepo       repository.UserRepository
}

// NewCouponAdminService 创建优惠券管理服务
func NewCouponAdminService(couponRepo repository.CouponRepository, userCouponRepo repository.UserCouponRepository, userRepo repository.UserRepository) *CouponAdminService {
	return &CouponAdminService{
		couponRepo:     couponRepo,
		userCouponRepo: userCouponRepo,
		userRepo:       userRepo,
	}
}

// CreateCouponInput 创建优惠券输入
type CreateCouponInput struct {
	Name         string
	Description  string
	DiscountRate int
	StartAt      time.Time
	EndAt        time.Time
	IsActive     *bool
}

// AdminCouponItem 管理端优惠券列表项
type AdminCouponItem struct {
	models.Coupon
	IssuedCount int64 `json:"issued_count"`
	UsedCount   int64 `json:"used_count"`
}

// Create 创建优惠券
func (s *CouponAdminService) Create(input CreateCouponInput) (*models.Coupon, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCouponNameRequired
	}
	if input.DiscountRate <= 0 || input.DiscountRate >= 100 {
		return nil, withDetails(ErrInvalidDiscountRate, "discount_rate", input.DiscountRate)
	}
	if input.StartAt.IsZero() || input.EndAt.IsZero() || !input.StartAt.Before(input.EndAt) {
		return nil, ErrInvalidCouponWindow
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	coupon := &models.Coupon{
		Name:         name,
		Description:  strings.TrimSpace(input.Description),
		DiscountRate: input.DiscountRate,
		StartAt:      input.StartAt,
		EndAt:        input.EndAt,
		IsActive:     isActive,
	}
	if err := s.couponRepo.Create(coupon); err != nil {
		logger.Errorw("coupon_create_failed", "name", name, "error", err)
		return nil, ErrCouponCreateFailed
	}
	return coupon, nil
}

// List 管理端优惠券列表（含发放/使用统计）
func (s *CouponAdminService) List(filter repository.CouponListFilter) ([]AdminCouponItem, int64, error) {
	coupons, total, err := s.couponRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]uint, 0, len(coupons))
	for _, coupon := range coupons {
		ids = append(ids, coupon.ID)
	}
	stats, err := s.couponRepo.IssueStats(ids)
	if err != nil {
		return nil, 0, err
	}
	items := make([]AdminCouponItem, 0, len(coupons))
	for _, coupon := range coupons {
		stat := stats[coupon.ID]
		items = append(items, AdminCouponItem{
			Coupon:      coupon,
			IssuedCount: stat.IssuedCount,
			UsedCount:   stat.UsedCount,
		})
	}
	return items, total, nil
}

// Issue 向用户发放优惠券，每个用户每张券仅发放一次
func (s *CouponAdminService) Issue(couponID, userID uint) (*models.UserCoupon, error) {
	coupon, err := s.couponRepo.GetByID(couponID)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, withDetails(ErrCouponNotFound, "coupon_id", couponID)
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, withDetails(ErrUserNotFound, "user_id", userID)
	}
	exist, err := s.userCouponRepo.GetByUserAndCoupon(userID, couponID)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, withDetails(ErrCouponAlreadyIssued, "coupon_id", couponID, "user_id", userID)
	}

	grant := &models.UserCoupon{UserID: userID, CouponID: couponID}
	if err := s.userCouponRepo.Create(grant); err != nil {
		// 唯一索引冲突：并发发放
		if again, lookupErr := s.userCouponRepo.GetByUserAndCoupon(userID, couponID); lookupErr == nil && again != nil {
			return nil, withDetails(ErrCouponAlreadyIssued, "coupon_id", couponID, "user_id", userID)
		}
		logger.Errorw("coupon_issue_failed", "coupon_id", couponID, "user_id", userID, "error", err)
		return nil, ErrCouponIssueFailed
	}
	grant.Coupon = coupon
	logger.Infow("coupon_issued", "coupon_id", couponID, "user_id", userID, "grant_id", grant.ID)
	return grant, nil
}
