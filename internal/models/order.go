package models

import (
	"time"
)

// Order 订单表
// 创建后只有 Status 与取消时间会变化，订单项不可修改
type Order struct {
	ID              uint       `gorm:"primarykey" json:"id"`                                  // 主键
	OrderNo         string     `gorm:"type:varchar(40);uniqueIndex;not null" json:"order_no"` // 订单编号
	UserID          uint       `gorm:"index;not null" json:"user_id"`                         // 用户ID
	Status          string     `gorm:"type:varchar(20);index;not null" json:"status"`         // 订单状态
	Subtotal        int64      `gorm:"not null;default:0" json:"subtotal"`                    // 商品小计
	DiscountAmount  int64      `gorm:"not null;default:0" json:"discount_amount"`             // 优惠金额
	FinalTotal      int64      `gorm:"not null;default:0" json:"final_total"`                 // 实付金额
	ShippingAddress string     `gorm:"type:varchar(255);not null" json:"shipping_address"`    // 收货地址
	CancelledAt     *time.Time `gorm:"index" json:"cancelled_at"`                             // 取消时间
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt       time.Time  `gorm:"index" json:"updated_at"`                               // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
	User  *User       `gorm:"foreignKey:UserID" json:"-"`                // 下单用户
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
