package models

import (
	"time"
)

// OrderItem 订单项表
type OrderItem struct {
	ID              uint      `gorm:"primarykey" json:"id"`              // 主键
	OrderID         uint      `gorm:"index;not null" json:"order_id"`    // 订单ID
	BookID          uint      `gorm:"index;not null" json:"book_id"`     // 图书ID
	Quantity        int       `gorm:"not null" json:"quantity"`          // 数量
	PriceAtPurchase int64     `gorm:"not null" json:"price_at_purchase"` // 下单时单价
	CreatedAt       time.Time `json:"created_at"`                        // 创建时间

	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"` // 关联图书
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal 行小计
func (i OrderItem) LineTotal() int64 {
	return i.PriceAtPurchase * int64(i.Quantity)
}
