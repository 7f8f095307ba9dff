package service

import (
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"
)

// FavoriteService 收藏服务
type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	bookRepo     repository.BookRepository
}

// NewFavoriteService 创建收藏服务
func NewFavoriteService(favoriteRepo repository.FavoriteRepository, bookRepo repository.BookRepository) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo, bookRepo: bookRepo}
}

// Add 收藏图书
func (s *FavoriteService) Add(userID, bookID uint) (*models.Favorite, error) {
	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, withDetails(ErrBookNotFound, "book_id", bookID)
	}
	exist, err := s.favoriteRepo.GetByUserAndBook(userID, bookID)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, withDetails(ErrAlreadyInFavorites, "favorite_id", exist.ID)
	}
	favorite := &models.Favorite{UserID: userID, BookID: bookID}
	if err := s.favoriteRepo.Create(favorite); err != nil {
		return nil, err
	}
	favorite.Book = book
	return favorite, nil
}

// List 收藏列表
func (s *FavoriteService) List(userID uint, page, pageSize int) ([]models.Favorite, int64, error) {
	return s.favoriteRepo.ListByUser(userID, page, pageSize)
}

// Remove 取消收藏
func (s *FavoriteService) Remove(userID, favoriteID uint) error {
	favorite, err := s.favoriteRepo.GetByID(favoriteID)
	if err != nil {
		return err
	}
	if favorite == nil {
		return ErrFavoriteNotFound
	}
	if favorite.UserID != userID {
		return ErrForbidden
	}
	return s.favoriteRepo.Delete(favorite.ID)
}
