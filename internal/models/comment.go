package models

import (
	"time"
)

// Comment 评价下的评论，回复可逐层嵌套
type Comment struct {
	ID              uint      `gorm:"primarykey" json:"id"`              // 主键
	ReviewID        uint      `gorm:"index;not null" json:"review_id"`   // 评价ID
	UserID          uint      `gorm:"index;not null" json:"user_id"`     // 用户ID
	ParentCommentID *uint     `gorm:"index" json:"parent_comment_id"`    // 父评论ID
	Content         string    `gorm:"type:text;not null" json:"content"` // 评论内容
	CreatedAt       time.Time `gorm:"index" json:"created_at"`           // 创建时间
	UpdatedAt       time.Time `json:"updated_at"`                        // 更新时间

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName 指定表名
func (Comment) TableName() string {
	return "comments"
}

// CommentLike 评论点赞
type CommentLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                            // 主键
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_like_user" json:"comment_id"`    // 评论ID
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_like_user;index" json:"user_id"` // 用户ID
	CreatedAt time.Time `json:"created_at"`                                                      // 点赞时间
}

// TableName 指定表名
func (CommentLike) TableName() string {
	return "comment_likes"
}
