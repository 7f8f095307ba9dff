package models

import (
	"time"

	"gorm.io/gorm"
)

// Favorite 收藏（软删除）
type Favorite struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                 // 主键
	UserID    uint           `gorm:"not null;index:idx_favorite_user_book" json:"user_id"` // 用户ID
	BookID    uint           `gorm:"not null;index:idx_favorite_user_book" json:"book_id"` // 图书ID
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                              // 收藏时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间

	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"` // 关联图书
}

// TableName 指定表名
func (Favorite) TableName() string {
	return "favorites"
}
