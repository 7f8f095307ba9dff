package service

import (
	"time"

	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"
)

// LibraryService 已购图书服务
type LibraryService struct {
	orderRepo repository.OrderRepository
	bookRepo  repository.BookRepository
}

// NewLibraryService 创建已购图书服务
func NewLibraryService(orderRepo repository.OrderRepository, bookRepo repository.BookRepository) *LibraryService {
	return &LibraryService{orderRepo: orderRepo, bookRepo: bookRepo}
}

// LibraryItem 已购图书
type LibraryItem struct {
	Book        models.Book `json:"book"`
	OrderID     uint        `json:"order_id"`
	PurchasedAt time.Time   `json:"purchased_at"`
}

// List 已送达订单中的图书，按最近购买排序
func (s *LibraryService) List(userID uint, page, pageSize int) ([]LibraryItem, int64, error) {
	rows, total, err := s.orderRepo.ListPurchasedBooks(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	bookIDs := make([]uint, 0, len(rows))
	orderIDs := make([]uint, 0, len(rows))
	for _, row := range rows {
		bookIDs = append(bookIDs, row.BookID)
		orderIDs = append(orderIDs, row.OrderID)
	}
	books, err := s.bookRepo.ListByIDs(bookIDs)
	if err != nil {
		return nil, 0, err
	}
	orders, err := s.orderRepo.ListByIDs(orderIDs)
	if err != nil {
		return nil, 0, err
	}
	bookMap := make(map[uint]models.Book, len(books))
	for _, book := range books {
		bookMap[book.ID] = book
	}
	orderMap := make(map[uint]models.Order, len(orders))
	for _, order := range orders {
		orderMap[order.ID] = order
	}

	items := make([]LibraryItem, 0, len(rows))
	for _, row := range rows {
		book, ok := bookMap[row.BookID]
		if !ok {
			continue
		}
		items = append(items, LibraryItem{
			Book:        book,
			OrderID:     row.OrderID,
			PurchasedAt: orderMap[row.OrderID].CreatedAt,
		})
	}
	return items, total, nil
}
