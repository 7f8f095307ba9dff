package repository

import (
	"errors"

	"github.com/bookstore-next/internal/models"

	"gorm.io/gorm"
)

// FavoriteRepository 收藏数据访问接口
type FavoriteRepository interface {
	Create(favorite *models.Favorite) error
	GetByID(id uint) (*models.Favorite, error)
	GetByUserAndBook(userID, bookID uint) (*models.Favorite, error)
	ListByUser(userID uint, page, pageSize int) ([]models.Favorite, int64, error)
	Delete(id uint) error
}

// GormFavoriteRepository GORM 实现
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository 创建收藏仓库
func NewFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// Create 添加收藏
func (r *GormFavoriteRepository) Create(favorite *models.Favorite) error {
	return r.db.Omit("Book").Create(favorite).Error
}

// GetByID 获取收藏
func (r *GormFavoriteRepository) GetByID(id uint) (*models.Favorite, error) {
	var favorite models.Favorite
	if err := r.db.First(&favorite, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &favorite, nil
}

// GetByUserAndBook 获取用户对某本书的有效收藏
func (r *GormFavoriteRepository) GetByUserAndBook(userID, bookID uint) (*models.Favorite, error) {
	var favorite models.Favorite
	if err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &favorite, nil
}

// ListByUser 收藏列表
func (r *GormFavoriteRepository) ListByUser(userID uint, page, pageSize int) ([]models.Favorite, int64, error) {
	var favorites []models.Favorite
	query := r.db.Model(&models.Favorite{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, page, pageSize)
	if err := query.Preload("Book").Order("created_at desc").Order("id desc").Find(&favorites).Error; err != nil {
		return nil, 0, err
	}
	return favorites, total, nil
}

// Delete 软删除收藏
func (r *GormFavoriteRepository) Delete(id uint) error {
	return r.db.Delete(&models.Favorite{}, id).Error
}
