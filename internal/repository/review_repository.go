package repository

import (
	"errors"
	"time"

	"github.com/bookstore-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var reviewSortColumns = map[string]string{
	"id":         "reviews.id",
	"created_at": "reviews.created_at",
	"rating":     "reviews.rating",
	"like_count": "COALESCE(review_like_counts.like_count, 0)",
}

// ReviewRepository 评价数据访问接口
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByID(id uint) (*models.Review, error)
	GetByUserAndBook(userID, bookID uint) (*models.Review, error)
	List(filter ReviewListFilter) ([]models.Review, int64, error)
	Update(id uint, updates map[string]interface{}) error
	Delete(id uint) error
	AddLike(reviewID, userID uint) (bool, error)
	RemoveLike(reviewID, userID uint) (bool, error)
	IsLiked(reviewID, userID uint) (bool, error)
	LikedReviewIDs(userID uint, reviewIDs []uint) (map[uint]bool, error)
	AdjustLikeCount(reviewID uint, delta int) error
	GetLikeCount(reviewID uint) (int64, error)
	WithTx(tx *gorm.DB) *GormReviewRepository
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReviewRepository) WithTx(tx *gorm.DB) *GormReviewRepository {
	if tx == nil {
		return r
	}
	return &GormReviewRepository{db: tx}
}

func (r *GormReviewRepository) withRelations(query *gorm.DB) *gorm.DB {
	return query.Preload("User").Preload("Book").Preload("LikeCount")
}

// Create 创建评价，同时初始化点赞计数行
func (r *GormReviewRepository) Create(review *models.Review) error {
	if err := r.db.Omit(clause.Associations).Create(review).Error; err != nil {
		return err
	}
	return r.db.Create(&models.ReviewLikeCount{ReviewID: review.ID, LikeCount: 0}).Error
}

// GetByID 获取评价
func (r *GormReviewRepository) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	if err := r.withRelations(r.db).First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// GetByUserAndBook 获取用户对某本书的评价
func (r *GormReviewRepository) GetByUserAndBook(userID, bookID uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// List 评价列表
func (r *GormReviewRepository) List(filter ReviewListFilter) ([]models.Review, int64, error) {
	var reviews []models.Review
	query := r.db.Model(&models.Review{})
	if filter.BookID != 0 {
		query = query.Where("reviews.book_id = ?", filter.BookID)
	}
	if filter.UserID != 0 {
		query = query.Where("reviews.user_id = ?", filter.UserID)
	}
	if filter.MinRating > 0 {
		query = query.Where("reviews.rating >= ?", filter.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Select("reviews.*").
		Joins("LEFT JOIN review_like_counts ON review_like_counts.review_id = reviews.id")
	query = applySort(query, filter.SortBy, filter.SortOrder, reviewSortColumns, "reviews.created_at")
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := r.withRelations(query).Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// Update 更新评价
func (r *GormReviewRepository) Update(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()
	return r.db.Model(&models.Review{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 删除评价及其点赞、计数、评论
func (r *GormReviewRepository) Delete(id uint) error {
	db := r.db.Session(&gorm.Session{})
	commentIDs := db.Model(&models.Comment{}).Select("id").Where("review_id = ?", id)
	if err := db.Where("comment_id IN (?)", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
		return err
	}
	if err := db.Where("review_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := db.Where("review_id = ?", id).Delete(&models.ReviewLike{}).Error; err != nil {
		return err
	}
	if err := db.Where("review_id = ?", id).Delete(&models.ReviewLikeCount{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.Review{}, id).Error
}

// AddLike 新增点赞，已存在时返回 false
func (r *GormReviewRepository) AddLike(reviewID, userID uint) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.ReviewLike{
		ReviewID: reviewID,
		UserID:   userID,
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RemoveLike 取消点赞，不存在时返回 false
func (r *GormReviewRepository) RemoveLike(reviewID, userID uint) (bool, error) {
	result := r.db.Where("review_id = ? AND user_id = ?", reviewID, userID).Delete(&models.ReviewLike{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IsLiked 是否已点赞
func (r *GormReviewRepository) IsLiked(reviewID, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.ReviewLike{}).Where("review_id = ? AND user_id = ?", reviewID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// LikedReviewIDs 批量查询用户已点赞的评价
func (r *GormReviewRepository) LikedReviewIDs(userID uint, reviewIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(reviewIDs))
	if userID == 0 || len(reviewIDs) == 0 {
		return result, nil
	}
	var ids []uint
	if err := r.db.Model(&models.ReviewLike{}).
		Where("user_id = ? AND review_id IN ?", userID, reviewIDs).
		Pluck("review_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// AdjustLikeCount 原子增减点赞计数，计数不会小于 0
func (r *GormReviewRepository) AdjustLikeCount(reviewID uint, delta int) error {
	if delta == 0 {
		return nil
	}
	now := time.Now()
	if delta > 0 {
		result := r.db.Model(&models.ReviewLikeCount{}).
			Where("review_id = ?", reviewID).
			Updates(map[string]interface{}{
				"like_count": gorm.Expr("like_count + ?", delta),
				"updated_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		// 计数行缺失时按实际点赞行补建
		return r.rebuildLikeCount(reviewID)
	}
	return r.db.Model(&models.ReviewLikeCount{}).
		Where("review_id = ? AND like_count >= ?", reviewID, -delta).
		Updates(map[string]interface{}{
			"like_count": gorm.Expr("like_count - ?", -delta),
			"updated_at": now,
		}).Error
}

func (r *GormReviewRepository) rebuildLikeCount(reviewID uint) error {
	var count int64
	if err := r.db.Model(&models.ReviewLike{}).Where("review_id = ?", reviewID).Count(&count).Error; err != nil {
		return err
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "review_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"like_count": count, "updated_at": time.Now()}),
	}).Create(&models.ReviewLikeCount{ReviewID: reviewID, LikeCount: count}).Error
}

// GetLikeCount 获取点赞计数
func (r *GormReviewRepository) GetLikeCount(reviewID uint) (int64, error) {
	var row models.ReviewLikeCount
	if err := r.db.Where("review_id = ?", reviewID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.LikeCount, nil
}
