package service

import (
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"
)

const maxCartItemQuantity = 99

// CartService 购物车服务
type CartService struct {
	cartRepo repository.CartRepository
	bookRepo repository.BookRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, bookRepo repository.BookRepository) *CartService {
	return &CartService{cartRepo: cartRepo, bookRepo: bookRepo}
}

// CartLine 购物车行
type CartLine struct {
	ID           uint         `json:"id"`
	BookID       uint         `json:"book_id"`
	Quantity     int          `json:"quantity"`
	LineSubtotal int64        `json:"line_subtotal"`
	Book         *models.Book `json:"book,omitempty"`
}

// CartView 购物车汇总
type CartView struct {
	Items         []CartLine `json:"items"`
	TotalItems    int        `json:"total_items"`
	TotalQuantity int        `json:"total_quantity"`
	TotalPrice    int64      `json:"total_price"`
}

// Get 获取购物车
func (s *CartService) Get(userID uint) (*CartView, error) {
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	view := &CartView{Items: make([]CartLine, 0, len(items))}
	for _, item := range items {
		line := CartLine{ID: item.ID, BookID: item.BookID, Quantity: item.Quantity, Book: item.Book}
		if item.Book != nil {
			line.LineSubtotal = item.Book.Price * int64(item.Quantity)
		}
		view.Items = append(view.Items, line)
		view.TotalQuantity += item.Quantity
		view.TotalPrice += line.LineSubtotal
	}
	view.TotalItems = len(view.Items)
	return view, nil
}

// Add 加入购物车，同一本书合并数量
func (s *CartService) Add(userID, bookID uint, quantity int) (*models.CartItem, error) {
	if err := validateCartQuantity(quantity); err != nil {
		return nil, err
	}
	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, withDetails(ErrBookNotFound, "book_id", bookID)
	}
	existing, err := s.cartRepo.GetByUserAndBook(userID, bookID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		merged := existing.Quantity + quantity
		if err := validateCartQuantity(merged); err != nil {
			return nil, err
		}
		if err := s.cartRepo.UpdateQuantity(existing.ID, merged); err != nil {
			return nil, err
		}
		existing.Quantity = merged
		existing.Book = book
		return existing, nil
	}
	item := &models.CartItem{UserID: userID, BookID: bookID, Quantity: quantity}
	if err := s.cartRepo.Create(item); err != nil {
		return nil, err
	}
	item.Book = book
	return item, nil
}

// UpdateQuantity 修改数量
func (s *CartService) UpdateQuantity(userID, itemID uint, quantity int) (*models.CartItem, error) {
	if err := validateCartQuantity(quantity); err != nil {
		return nil, err
	}
	item, err := s.getOwned(userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.UpdateQuantity(item.ID, quantity); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	return item, nil
}

// Remove 移除购物车项
func (s *CartService) Remove(userID, itemID uint) error {
	item, err := s.getOwned(userID, itemID)
	if err != nil {
		return err
	}
	return s.cartRepo.Delete(item.ID)
}

func (s *CartService) getOwned(userID, itemID uint) (*models.CartItem, error) {
	item, err := s.cartRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	if item.UserID != userID {
		return nil, ErrForbidden
	}
	return item, nil
}

func validateCartQuantity(quantity int) error {
	if quantity < 1 || quantity > maxCartItemQuantity {
		return withDetails(ErrInvalidQuantity, "quantity", quantity, "max", maxCartItemQuantity)
	}
	return nil
}
