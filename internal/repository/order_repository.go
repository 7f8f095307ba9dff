package repository

import (
	"errors"
	"time"

	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/models"

	"gorm.io/gorm"
)

var orderSortColumns = map[string]string{
	"id":          "id",
	"created_at":  "created_at",
	"final_total": "final_total",
	"status":      "status",
}

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	ListByIDs(ids []uint) ([]models.Order, error)
	ListByUser(filter OrderListFilter) ([]models.Order, int64, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(id uint, fromStatus, toStatus string, updates map[string]interface{}) (int64, error)
	FindDeliveredOrderWithBook(userID, bookID uint) (uint, error)
	ListPurchasedBooks(userID uint, page, pageSize int) ([]PurchasedBookRow, int64, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Omit("Items", "User").Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Omit("Book").Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

// GetByID 根据 ID 获取订单（含订单项与图书）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	}).Preload("Items.Book").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListByIDs 批量获取订单（不含订单项）
func (r *GormOrderRepository) ListByIDs(ids []uint) ([]models.Order, error) {
	var orders []models.Order
	if len(ids) == 0 {
		return orders, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByUser 获取用户订单列表
func (r *GormOrderRepository) ListByUser(filter OrderListFilter) ([]models.Order, int64, error) {
	if filter.UserID == 0 {
		return []models.Order{}, 0, nil
	}
	return r.list(filter)
}

// ListAdmin 管理端订单列表
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	return r.list(filter)
}

func (r *GormOrderRepository) list(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applySort(query, filter.SortBy, filter.SortOrder, orderSortColumns, "created_at")
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	}).Preload("Items.Book").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus 条件更新订单状态：仅当当前状态等于 fromStatus 时生效
func (r *GormOrderRepository) UpdateStatus(id uint, fromStatus, toStatus string, updates map[string]interface{}) (int64, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = toStatus
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// FindDeliveredOrderWithBook 查找包含指定图书的已送达订单，返回订单ID（0 表示不存在）
func (r *GormOrderRepository) FindDeliveredOrderWithBook(userID, bookID uint) (uint, error) {
	var row struct {
		ID uint
	}
	err := r.db.Model(&models.Order{}).
		Select("orders.id").
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.book_id = ?", userID, constants.OrderStatusDelivered, bookID).
		Order("orders.id asc").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

// ListPurchasedBooks 已送达订单中的图书（按图书去重，OrderID 为最近一次购买的订单）
func (r *GormOrderRepository) ListPurchasedBooks(userID uint, page, pageSize int) ([]PurchasedBookRow, int64, error) {
	base := r.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status = ?", userID, constants.OrderStatusDelivered)

	var total int64
	if err := base.Session(&gorm.Session{}).Distinct("order_items.book_id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []PurchasedBookRow
	query := base.Session(&gorm.Session{}).
		Select("order_items.book_id AS book_id, MAX(orders.id) AS order_id").
		Group("order_items.book_id").
		Order("order_id desc").
		Order("book_id desc")
	query = applyPagination(query, page, pageSize)
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
