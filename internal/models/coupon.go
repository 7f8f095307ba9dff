package models

import (
	"time"
)

// Coupon 优惠券定义
type Coupon struct {
	ID           uint      `gorm:"primarykey" json:"id"`                   // 主键
	Name         string    `gorm:"type:varchar(100);not null" json:"name"` // 名称
	Description  string    `gorm:"type:varchar(500)" json:"description"`   // 描述
	DiscountRate int       `gorm:"not null" json:"discount_rate"`          // 折扣百分比（0-100 开区间）
	StartAt      time.Time `gorm:"index;not null" json:"start_at"`         // 生效时间
	EndAt        time.Time `gorm:"index;not null" json:"end_at"`           // 失效时间
	IsActive     bool      `gorm:"not null" json:"is_active"`              // 是否启用
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                             // 更新时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}

// UserCoupon 用户持有的优惠券（发放记录）
type UserCoupon struct {
	ID        uint       `gorm:"primarykey" json:"id"`                                        // 主键
	UserID    uint       `gorm:"not null;uniqueIndex:idx_user_coupon" json:"user_id"`         // 用户ID
	CouponID  uint       `gorm:"not null;uniqueIndex:idx_user_coupon;index" json:"coupon_id"` // 优惠券ID
	IsUsed    bool       `gorm:"not null;default:false;index" json:"is_used"`                 // 是否已使用
	UsedAt    *time.Time `json:"used_at"`                                                     // 使用时间
	OrderID   *uint      `gorm:"index" json:"order_id"`                                       // 使用该券的订单
	CreatedAt time.Time  `gorm:"index" json:"issued_at"`                                      // 发放时间
	UpdatedAt time.Time  `json:"updated_at"`                                                  // 更新时间

	Coupon *Coupon `gorm:"foreignKey:CouponID" json:"coupon,omitempty"` // 券定义
}

// TableName 指定表名
func (UserCoupon) TableName() string {
	return "user_coupons"
}
