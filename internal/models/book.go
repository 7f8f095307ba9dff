package models

import (
	"time"
)

// Book 图书
// Price 以最小货币单位存储，订单行会复制下单时的价格
type Book struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                          // 主键
	SellerID        uint      `gorm:"index;not null" json:"seller_id"`                               // 卖家用户ID
	Title           string    `gorm:"type:varchar(255);index;not null" json:"title"`                 // 书名
	Author          string    `gorm:"type:varchar(100);index;not null" json:"author"`                // 作者
	Publisher       string    `gorm:"type:varchar(100);not null" json:"publisher"`                   // 出版社
	Summary         string    `gorm:"type:varchar(500)" json:"summary"`                              // 简介
	ISBN            string    `gorm:"column:isbn;type:varchar(20);uniqueIndex;not null" json:"isbn"` // ISBN
	Price           int64     `gorm:"not null" json:"price"`                                         // 售价
	PublicationDate time.Time `gorm:"type:date;index;not null" json:"publication_date"`              // 出版日期
	CreatedAt       time.Time `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt       time.Time `json:"updated_at"`                                                    // 更新时间

	Seller *User `gorm:"foreignKey:SellerID" json:"seller,omitempty"` // 卖家
}

// TableName 指定表名
func (Book) TableName() string {
	return "books"
}

// BookView 图书浏览记录
type BookView struct {
	ID       uint      `gorm:"primarykey" json:"id"`            // 主键
	UserID   *uint     `gorm:"index" json:"user_id,omitempty"`  // 浏览用户（匿名为空）
	BookID   uint      `gorm:"index;not null" json:"book_id"`   // 图书ID
	ViewedAt time.Time `gorm:"index;not null" json:"viewed_at"` // 浏览时间
}

// TableName 指定表名
func (BookView) TableName() string {
	return "book_views"
}
