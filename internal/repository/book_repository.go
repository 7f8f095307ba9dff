package repository

import (
	"errors"
	"strings"

	"github.com/bookstore-next/internal/models"

	"gorm.io/gorm"
)

const bookViewCountJoin = "LEFT JOIN (SELECT book_id, COUNT(*) AS view_count FROM book_views GROUP BY book_id) bv ON bv.book_id = books.id"

var bookSortColumns = map[string]string{
	"id":               "books.id",
	"title":            "books.title",
	"author":           "books.author",
	"price":            "books.price",
	"publication_date": "books.publication_date",
	"created_at":       "books.created_at",
	"view_count":       "COALESCE(bv.view_count, 0)",
}

// BookRepository 图书数据访问接口
type BookRepository interface {
	Create(book *models.Book) error
	GetByID(id uint) (*models.Book, error)
	GetByISBN(isbn string) (*models.Book, error)
	ListByIDs(ids []uint) ([]models.Book, error)
	List(filter BookListFilter) ([]models.Book, int64, error)
	Update(book *models.Book) error
	Delete(id uint) error
	IsReferencedByOrders(id uint) (bool, error)
	RecordView(view *models.BookView) error
	CountViews(bookID uint) (int64, error)
	CountViewsByBookIDs(ids []uint) (map[uint]int64, error)
	WithTx(tx *gorm.DB) *GormBookRepository
}

// GormBookRepository GORM 实现
type GormBookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓库
func NewBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db}
}

// WithTx 绑定事务
func (r *GormBookRepository) WithTx(tx *gorm.DB) *GormBookRepository {
	if tx == nil {
		return r
	}
	return &GormBookRepository{db: tx}
}

// Create 创建图书
func (r *GormBookRepository) Create(book *models.Book) error {
	return r.db.Create(book).Error
}

// GetByID 根据 ID 获取图书
func (r *GormBookRepository) GetByID(id uint) (*models.Book, error) {
	var book models.Book
	if err := r.db.First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &book, nil
}

// GetByISBN 根据 ISBN 获取图书
func (r *GormBookRepository) GetByISBN(isbn string) (*models.Book, error) {
	var book models.Book
	if err := r.db.Where("isbn = ?", isbn).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &book, nil
}

// ListByIDs 批量获取图书
func (r *GormBookRepository) ListByIDs(ids []uint) ([]models.Book, error) {
	var books []models.Book
	if len(ids) == 0 {
		return books, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// List 图书检索
func (r *GormBookRepository) List(filter BookListFilter) ([]models.Book, int64, error) {
	query := r.db.Model(&models.Book{})

	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"books.title", "books.author", "books.publisher"})
		query = query.Where(condition, repeatLikeArgs(containsPattern(keyword), argCount)...)
	}
	if author := strings.TrimSpace(filter.Author); author != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"books.author"})
		query = query.Where(condition, repeatLikeArgs(containsPattern(author), argCount)...)
	}
	if publisher := strings.TrimSpace(filter.Publisher); publisher != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"books.publisher"})
		query = query.Where(condition, repeatLikeArgs(containsPattern(publisher), argCount)...)
	}
	if filter.ISBN != "" {
		query = query.Where("books.isbn = ?", filter.ISBN)
	}
	if filter.SellerID != 0 {
		query = query.Where("books.seller_id = ?", filter.SellerID)
	}
	if filter.MinPrice != nil {
		query = query.Where("books.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("books.price <= ?", *filter.MaxPrice)
	}
	if filter.PublishedFrom != nil {
		query = query.Where("books.publication_date >= ?", *filter.PublishedFrom)
	}
	if filter.PublishedTo != nil {
		query = query.Where("books.publication_date <= ?", *filter.PublishedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []models.Book
	query = query.Select("books.*").Joins(bookViewCountJoin)
	query = applySort(query, filter.SortBy, filter.SortOrder, bookSortColumns, "books.created_at")
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Find(&books).Error; err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// Update 更新图书
func (r *GormBookRepository) Update(book *models.Book) error {
	return r.db.Save(book).Error
}

// Delete 删除图书及其购物车、收藏、浏览记录
func (r *GormBookRepository) Delete(id uint) error {
	db := r.db.Unscoped().Session(&gorm.Session{})
	for _, model := range []interface{}{&models.CartItem{}, &models.Favorite{}, &models.BookView{}} {
		if err := db.Where("book_id = ?", id).Delete(model).Error; err != nil {
			return err
		}
	}
	return db.Delete(&models.Book{}, id).Error
}

// IsReferencedByOrders 图书是否已被订单引用
func (r *GormBookRepository) IsReferencedByOrders(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.OrderItem{}).Where("book_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// RecordView 记录一次浏览
func (r *GormBookRepository) RecordView(view *models.BookView) error {
	return r.db.Create(view).Error
}

// CountViews 统计图书浏览次数
func (r *GormBookRepository) CountViews(bookID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.BookView{}).Where("book_id = ?", bookID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountViewsByBookIDs 批量统计浏览次数
func (r *GormBookRepository) CountViewsByBookIDs(ids []uint) (map[uint]int64, error) {
	result := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []struct {
		BookID uint
		Total  int64
	}
	if err := r.db.Model(&models.BookView{}).
		Select("book_id, COUNT(*) AS total").
		Where("book_id IN ?", ids).
		Group("book_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.BookID] = row.Total
	}
	return result, nil
}
