package service

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"

	"gorm.io/gorm"
)

const (
	reviewContentMinLength = 10
	reviewContentMaxLength = 2000
)

// ReviewService 图书评价服务
type ReviewService struct {
	db         *gorm.DB
	reviewRepo repository.ReviewRepository
	bookRepo   repository.BookRepository
	orderRepo  repository.OrderRepository
}

// NewReviewService 创建评价服务
func NewReviewService(db *gorm.DB, reviewRepo repository.ReviewRepository, bookRepo repository.BookRepository, orderRepo repository.OrderRepository) *ReviewService {
	return &ReviewService{
		db:         db,
		reviewRepo: reviewRepo,
		bookRepo:   bookRepo,
		orderRepo:  orderRepo,
	}
}

// CreateReviewInput 创建评价输入
type CreateReviewInput struct {
	UserID  uint
	BookID  uint
	Rating  int
	Content string
}

// UpdateReviewInput 更新评价输入
type UpdateReviewInput struct {
	Rating  *int
	Content *string
}

// ReviewView 评价展示结构
type ReviewView struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	BookID    uint      `json:"book_id"`
	OrderID   uint      `json:"order_id"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	LikeCount int64     `json:"like_count"`
	IsLiked   bool      `json:"is_liked"`
	UserName  string    `json:"user_name"`
	BookTitle string    `json:"book_title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LikeResult 点赞切换结果
type LikeResult struct {
	IsLiked   bool  `json:"is_liked"`
	LikeCount int64 `json:"like_count"`
}

// Create 创建评价，需持有包含该图书的已送达订单
func (s *ReviewService) Create(input CreateReviewInput) (*ReviewView, error) {
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}
	content, err := normalizeReviewContent(input.Content)
	if err != nil {
		return nil, err
	}
	book, err := s.bookRepo.GetByID(input.BookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, withDetails(ErrBookNotFound, "book_id", input.BookID)
	}
	orderID, err := s.orderRepo.FindDeliveredOrderWithBook(input.UserID, input.BookID)
	if err != nil {
		return nil, err
	}
	if orderID == 0 {
		return nil, withDetails(ErrReviewRequiresPurchase, "book_id", input.BookID)
	}
	exist, err := s.reviewRepo.GetByUserAndBook(input.UserID, input.BookID)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, withDetails(ErrReviewExists, "review_id", exist.ID)
	}

	review := &models.Review{
		UserID:  input.UserID,
		BookID:  input.BookID,
		OrderID: orderID,
		Rating:  input.Rating,
		Content: content,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.reviewRepo.WithTx(tx).Create(review)
	})
	if err != nil {
		if again, getErr := s.reviewRepo.GetByUserAndBook(input.UserID, input.BookID); getErr == nil && again != nil {
			return nil, withDetails(ErrReviewExists, "review_id", again.ID)
		}
		return nil, err
	}
	logger.Infow("review_created", "review_id", review.ID, "book_id", review.BookID, "user_id", review.UserID)
	return s.Get(review.ID, input.UserID)
}

// Get 获取评价详情，viewerID 为 0 时 is_liked 恒为 false
func (s *ReviewService) Get(reviewID, viewerID uint) (*ReviewView, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	liked := false
	if viewerID != 0 {
		if liked, err = s.reviewRepo.IsLiked(review.ID, viewerID); err != nil {
			return nil, err
		}
	}
	view := buildReviewView(review, liked)
	return &view, nil
}

// List 评价列表
func (s *ReviewService) List(filter repository.ReviewListFilter, viewerID uint) ([]ReviewView, int64, error) {
	if filter.MinRating != 0 {
		if err := validateRating(filter.MinRating); err != nil {
			return nil, 0, err
		}
	}
	reviews, total, err := s.reviewRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	liked := map[uint]bool{}
	if viewerID != 0 && len(reviews) > 0 {
		ids := make([]uint, 0, len(reviews))
		for _, review := range reviews {
			ids = append(ids, review.ID)
		}
		if liked, err = s.reviewRepo.LikedReviewIDs(viewerID, ids); err != nil {
			return nil, 0, err
		}
	}
	items := make([]ReviewView, 0, len(reviews))
	for i := range reviews {
		items = append(items, buildReviewView(&reviews[i], liked[reviews[i].ID]))
	}
	return items, total, nil
}

// Update 更新评价，仅作者本人
func (s *ReviewService) Update(reviewID, userID uint, input UpdateReviewInput) (*ReviewView, error) {
	review, err := s.getOwned(reviewID, userID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if input.Rating != nil {
		if err := validateRating(*input.Rating); err != nil {
			return nil, err
		}
		updates["rating"] = *input.Rating
	}
	if input.Content != nil {
		content, err := normalizeReviewContent(*input.Content)
		if err != nil {
			return nil, err
		}
		updates["content"] = content
	}
	if len(updates) == 0 {
		return nil, ErrReviewUpdateEmpty
	}
	if err := s.reviewRepo.Update(review.ID, updates); err != nil {
		return nil, err
	}
	return s.Get(review.ID, userID)
}

// Delete 删除评价及其评论与点赞
func (s *ReviewService) Delete(reviewID, userID uint) error {
	review, err := s.getOwned(reviewID, userID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.reviewRepo.WithTx(tx).Delete(review.ID)
	})
}

// ToggleLike 切换点赞状态
func (s *ReviewService) ToggleLike(reviewID, userID uint) (*LikeResult, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}

	result := &LikeResult{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.reviewRepo.WithTx(tx)
		removed, err := repo.RemoveLike(review.ID, userID)
		if err != nil {
			return err
		}
		if removed {
			if err := repo.AdjustLikeCount(review.ID, -1); err != nil {
				return err
			}
		} else {
			inserted, err := repo.AddLike(review.ID, userID)
			if err != nil {
				return err
			}
			if inserted {
				if err := repo.AdjustLikeCount(review.ID, 1); err != nil {
					return err
				}
			}
			result.IsLiked = true
		}
		count, err := repo.GetLikeCount(review.ID)
		if err != nil {
			return err
		}
		result.LikeCount = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ReviewService) getOwned(reviewID, userID uint) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	if review.UserID != userID {
		return nil, ErrForbidden
	}
	return review, nil
}

func buildReviewView(review *models.Review, liked bool) ReviewView {
	view := ReviewView{
		ID:        review.ID,
		UserID:    review.UserID,
		BookID:    review.BookID,
		OrderID:   review.OrderID,
		Rating:    review.Rating,
		Content:   review.Content,
		IsLiked:   liked,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
	if review.LikeCount != nil {
		view.LikeCount = review.LikeCount.LikeCount
	}
	if review.User != nil {
		view.UserName = review.User.Name
	}
	if review.Book != nil {
		view.BookTitle = review.Book.Title
	}
	return view
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return withDetails(ErrInvalidRating, "rating", rating)
	}
	return nil
}

func normalizeReviewContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	length := utf8.RuneCountInString(content)
	if length < reviewContentMinLength || length > reviewContentMaxLength {
		return "", withDetails(ErrInvalidReviewContent, "min", reviewContentMinLength, "max", reviewContentMaxLength)
	}
	return content, nil
}
