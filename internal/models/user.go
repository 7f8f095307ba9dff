package models

import (
	"time"
)

// User 用户表（账号注销为物理删除）
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`                                           // 主键
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`            // 邮箱
	PasswordHash string     `gorm:"not null" json:"-"`                                              // 密码哈希（不返回给前端）
	Name         string     `gorm:"type:varchar(100);not null" json:"name"`                         // 姓名
	BirthDate    *time.Time `gorm:"type:date" json:"birth_date"`                                    // 生日
	Gender       string     `gorm:"type:varchar(10)" json:"gender"`                                 // 性别（MALE/FEMALE）
	Address      string     `gorm:"type:varchar(255)" json:"address"`                               // 地址
	Role         string     `gorm:"type:varchar(20);index;not null;default:'CUSTOMER'" json:"role"` // 角色
	LastLoginAt  *time.Time `json:"last_login_at"`                                                  // 最后登录时间
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt    time.Time  `json:"updated_at"`                                                     // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// RefreshToken 刷新令牌登记表
type RefreshToken struct {
	ID        uint      `gorm:"primarykey" json:"id"`                           // 主键
	UserID    uint      `gorm:"index;not null" json:"user_id"`                  // 用户ID
	TokenID   string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"` // 令牌 jti
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`               // 过期时间
	CreatedAt time.Time `json:"created_at"`                                     // 签发时间
}

// TableName 指定表名
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
