package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/bookstore-next/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	UpdateRole(id uint, role string) error
	TouchLastLogin(id uint, at time.Time) error
	ListAdmin(filter UserListFilter) ([]models.User, int64, error)
	ListByIDs(ids []uint) ([]models.User, error)
	DeleteCascade(id uint) error
	WithTx(tx *gorm.DB) *GormUserRepository
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserRepository) WithTx(tx *gorm.DB) *GormUserRepository {
	if tx == nil {
		return r
	}
	return &GormUserRepository{db: tx}
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail 根据邮箱获取用户
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := r.db.Where("email = ?", normalized).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Update 更新用户
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdateRole 更新用户角色
func (r *GormUserRepository) UpdateRole(id uint, role string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("role", role).Error
}

// TouchLastLogin 记录最近登录时间
func (r *GormUserRepository) TouchLastLogin(id uint, at time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("last_login_at", at).Error
}

// ListAdmin 管理端用户列表
func (r *GormUserRepository) ListAdmin(filter UserListFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"email", "name"})
		query = query.Where(condition, repeatLikeArgs(containsPattern(keyword), argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id desc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ListByIDs 批量获取用户
func (r *GormUserRepository) ListByIDs(ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ErrSellerBooksOrdered 卖家的图书仍被其他用户的订单引用
var ErrSellerBooksOrdered = errors.New("seller books referenced by other orders")

// DeleteCascade 物理删除用户及其全部关联数据，卖家名下的图书一并删除
// 调用方需在事务中执行
func (r *GormUserRepository) DeleteCascade(id uint) error {
	db := r.db.Unscoped().Session(&gorm.Session{})

	var orderIDs, bookIDs, reviewIDs, rootCommentIDs []uint
	if err := db.Model(&models.Order{}).Where("user_id = ?", id).Pluck("id", &orderIDs).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Book{}).Where("seller_id = ?", id).Pluck("id", &bookIDs).Error; err != nil {
		return err
	}
	if len(bookIDs) > 0 {
		// 订单行保留下单快照，被他人订单引用的图书不能随账号删除
		var referenced int64
		query := db.Model(&models.OrderItem{}).Where("book_id IN ?", bookIDs)
		if len(orderIDs) > 0 {
			query = query.Where("order_id NOT IN ?", orderIDs)
		}
		if err := query.Count(&referenced).Error; err != nil {
			return err
		}
		if referenced > 0 {
			return ErrSellerBooksOrdered
		}
	}

	cond, args := userOrIn("book_id", id, bookIDs)
	if err := db.Model(&models.Review{}).Where(cond, args...).Pluck("id", &reviewIDs).Error; err != nil {
		return err
	}
	cond, args = userOrIn("review_id", id, reviewIDs)
	if err := db.Model(&models.Comment{}).Where(cond, args...).Pluck("id", &rootCommentIDs).Error; err != nil {
		return err
	}
	commentIDs, err := collectCommentTree(db, rootCommentIDs)
	if err != nil {
		return err
	}

	// 他人评价上的点赞需要同步扣减计数
	if err := db.Exec(
		"UPDATE review_like_counts SET like_count = like_count - 1 WHERE like_count > 0 AND review_id IN (SELECT review_id FROM review_likes WHERE user_id = ?)",
		id,
	).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", id).Delete(&models.CommentLike{}).Error; err != nil {
		return err
	}
	if err := deleteComments(db, commentIDs); err != nil {
		return err
	}

	type step struct {
		model interface{}
		query string
		args  []interface{}
	}
	steps := make([]step, 0, 12)
	add := func(model interface{}, query string, args ...interface{}) {
		steps = append(steps, step{model: model, query: query, args: args})
	}
	withUser := func(model interface{}, column string, ids []uint) {
		query, args := userOrIn(column, id, ids)
		add(model, query, args...)
	}

	withUser(&models.ReviewLike{}, "review_id", reviewIDs)
	if len(reviewIDs) > 0 {
		add(&models.ReviewLikeCount{}, "review_id IN ?", reviewIDs)
		add(&models.Review{}, "id IN ?", reviewIDs)
	}
	withUser(&models.CartItem{}, "book_id", bookIDs)
	withUser(&models.Favorite{}, "book_id", bookIDs)
	withUser(&models.BookView{}, "book_id", bookIDs)
	add(&models.UserCoupon{}, "user_id = ?", id)
	if len(orderIDs) > 0 {
		add(&models.OrderItem{}, "order_id IN ?", orderIDs)
	}
	add(&models.Order{}, "user_id = ?", id)
	add(&models.RefreshToken{}, "user_id = ?", id)
	add(&models.Book{}, "seller_id = ?", id)

	for _, st := range steps {
		if err := db.Where(st.query, st.args...).Delete(st.model).Error; err != nil {
			return err
		}
	}
	return db.Delete(&models.User{}, id).Error
}

// userOrIn 构造 user_id = ? OR <column> IN ? 条件，ids 为空时只按用户过滤
func userOrIn(column string, userID uint, ids []uint) (string, []interface{}) {
	if len(ids) == 0 {
		return "user_id = ?", []interface{}{userID}
	}
	return "user_id = ? OR " + column + " IN ?", []interface{}{userID, ids}
}
