package repository

import (
	"errors"
	"time"

	"github.com/bookstore-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository 评论数据访问接口
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id uint) (*models.Comment, error)
	List(filter CommentListFilter) ([]models.Comment, int64, error)
	UpdateContent(id uint, content string) error
	Delete(id uint) error
	AddLike(commentID, userID uint) (bool, error)
	RemoveLike(commentID, userID uint) (bool, error)
	CountLikes(commentID uint) (int64, error)
	CountLikesByCommentIDs(ids []uint) (map[uint]int64, error)
	LikedCommentIDs(userID uint, ids []uint) (map[uint]bool, error)
	WithTx(tx *gorm.DB) *GormCommentRepository
}

// GormCommentRepository GORM 实现
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository 创建评论仓库
func NewCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCommentRepository) WithTx(tx *gorm.DB) *GormCommentRepository {
	if tx == nil {
		return r
	}
	return &GormCommentRepository{db: tx}
}

// Create 创建评论
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Omit(clause.Associations).Create(comment).Error
}

// GetByID 获取评论
func (r *GormCommentRepository) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("User").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// List 评论列表（最新在前）
func (r *GormCommentRepository) List(filter CommentListFilter) ([]models.Comment, int64, error) {
	var comments []models.Comment
	query := r.db.Model(&models.Comment{})
	if filter.ReviewID != 0 {
		query = query.Where("review_id = ?", filter.ReviewID)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("User").Order("created_at desc").Order("id desc").Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// UpdateContent 更新评论内容
func (r *GormCommentRepository) UpdateContent(id uint, content string) error {
	return r.db.Model(&models.Comment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"content":    content,
		"updated_at": time.Now(),
	}).Error
}

// Delete 删除评论及其全部后代回复与点赞
func (r *GormCommentRepository) Delete(id uint) error {
	ids, err := collectCommentTree(r.db, []uint{id})
	if err != nil {
		return err
	}
	return deleteComments(r.db, ids)
}

// collectCommentTree 返回根评论及其所有后代的 ID
func collectCommentTree(db *gorm.DB, roots []uint) ([]uint, error) {
	db = db.Session(&gorm.Session{})
	seen := make(map[uint]struct{}, len(roots))
	all := make([]uint, 0, len(roots))
	frontier := make([]uint, 0, len(roots))
	for _, id := range roots {
		if _, ok := seen[id]; ok || id == 0 {
			continue
		}
		seen[id] = struct{}{}
		all = append(all, id)
		frontier = append(frontier, id)
	}
	for len(frontier) > 0 {
		var children []uint
		if err := db.Model(&models.Comment{}).
			Where("parent_comment_id IN ?", frontier).
			Pluck("id", &children).Error; err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, id := range children {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			all = append(all, id)
			frontier = append(frontier, id)
		}
	}
	return all, nil
}

func deleteComments(db *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	db = db.Session(&gorm.Session{})
	if err := db.Where("comment_id IN ?", ids).Delete(&models.CommentLike{}).Error; err != nil {
		return err
	}
	return db.Where("id IN ?", ids).Delete(&models.Comment{}).Error
}

// AddLike 新增点赞，已存在时返回 false
func (r *GormCommentRepository) AddLike(commentID, userID uint) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.CommentLike{
		CommentID: commentID,
		UserID:    userID,
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RemoveLike 取消点赞，不存在时返回 false
func (r *GormCommentRepository) RemoveLike(commentID, userID uint) (bool, error) {
	result := r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountLikes 统计评论点赞数
func (r *GormCommentRepository) CountLikes(commentID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountLikesByCommentIDs 批量统计评论点赞数
func (r *GormCommentRepository) CountLikesByCommentIDs(ids []uint) (map[uint]int64, error) {
	result := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []struct {
		CommentID uint
		Total     int64
	}
	if err := r.db.Model(&models.CommentLike{}).
		Select("comment_id, COUNT(*) AS total").
		Where("comment_id IN ?", ids).
		Group("comment_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.CommentID] = row.Total
	}
	return result, nil
}

// LikedCommentIDs 批量查询用户已点赞的评论
func (r *GormCommentRepository) LikedCommentIDs(userID uint, ids []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(ids))
	if userID == 0 || len(ids) == 0 {
		return result, nil
	}
	var liked []uint
	if err := r.db.Model(&models.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, ids).
		Pluck("comment_id", &liked).Error; err != nil {
		return nil, err
	}
	for _, id := range liked {
		result[id] = true
	}
	return result, nil
}
