package models

import (
	"time"
)

// Review 图书评价
type Review struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                           // 主键
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_user_book" json:"user_id"`       // 用户ID
	BookID    uint      `gorm:"not null;uniqueIndex:idx_review_user_book;index" json:"book_id"` // 图书ID
	OrderID   uint      `gorm:"index;not null" json:"order_id"`                                 // 购买凭证订单
	Content   string    `gorm:"type:text" json:"content"`                                       // 评价内容
	Rating    int       `gorm:"not null;index" json:"rating"`                                   // 评分（1-5）
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                     // 更新时间

	User      *User            `gorm:"foreignKey:UserID" json:"-"`
	Book      *Book            `gorm:"foreignKey:BookID" json:"-"`
	LikeCount *ReviewLikeCount `gorm:"foreignKey:ReviewID" json:"-"`
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}

// ReviewLike 评价点赞
type ReviewLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                           // 主键
	ReviewID  uint      `gorm:"not null;uniqueIndex:idx_review_like_user" json:"review_id"`     // 评价ID
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_like_user;index" json:"user_id"` // 用户ID
	CreatedAt time.Time `json:"created_at"`                                                     // 点赞时间
}

// TableName 指定表名
func (ReviewLike) TableName() string {
	return "review_likes"
}

// ReviewLikeCount 评价点赞计数（冗余计数行）
type ReviewLikeCount struct {
	ReviewID  uint      `gorm:"primarykey;autoIncrement:false" json:"review_id"` // 评价ID
	LikeCount int64     `gorm:"not null;default:0" json:"like_count"`            // 点赞数
	UpdatedAt time.Time `json:"updated_at"`                                      // 更新时间
}

// TableName 指定表名
func (ReviewLikeCount) TableName() string {
	return "review_like_counts"
}
