package repository

import (
	"errors"
	"time"

	"github.com/bookstore-next/internal/models"

	"gorm.io/gorm"
)

// RefreshTokenRepository 刷新令牌数据访问接口
type RefreshTokenRepository interface {
	Create(token *models.RefreshToken) error
	GetByTokenID(tokenID string) (*models.RefreshToken, error)
	DeleteByTokenID(tokenID string) (int64, error)
	DeleteByUser(userID uint) error
	DeleteExpired(now time.Time) (int64, error)
}

// GormRefreshTokenRepository GORM 实现
type GormRefreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository 创建刷新令牌仓库
func NewRefreshTokenRepository(db *gorm.DB) *GormRefreshTokenRepository {
	return &GormRefreshTokenRepository{db: db}
}

// Create 登记刷新令牌
func (r *GormRefreshTokenRepository) Create(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

// GetByTokenID 根据 jti 获取刷新令牌
func (r *GormRefreshTokenRepository) GetByTokenID(tokenID string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.db.Where("token_id = ?", tokenID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

// DeleteByTokenID 删除刷新令牌
func (r *GormRefreshTokenRepository) DeleteByTokenID(tokenID string) (int64, error) {
	result := r.db.Where("token_id = ?", tokenID).Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}

// DeleteByUser 删除用户全部刷新令牌
func (r *GormRefreshTokenRepository) DeleteByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}

// DeleteExpired 清理过期刷新令牌
func (r *GormRefreshTokenRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", now).Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
