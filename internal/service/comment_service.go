package service

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"

	"gorm.io/gorm"
)

const commentContentMaxLength = 1000

// CommentService 评价评论服务
type CommentService struct {
	db          *gorm.DB
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

// NewCommentService 创建评论服务
func NewCommentService(db *gorm.DB, commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) *CommentService {
	return &CommentService{db: db, commentRepo: commentRepo, reviewRepo: reviewRepo}
}

// CreateCommentInput 创建评论输入
type CreateCommentInput struct {
	ReviewID        uint
	UserID          uint
	ParentCommentID *uint
	Content         string
}

// CommentView 评论展示结构
type CommentView struct {
	ID              uint      `json:"id"`
	ReviewID        uint      `json:"review_id"`
	UserID          uint      `json:"user_id"`
	ParentCommentID *uint     `json:"parent_comment_id"`
	Content         string    `json:"content"`
	UserName        string    `json:"user_name"`
	LikeCount       int64     `json:"like_count"`
	IsLiked         bool      `json:"is_liked"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Create 发表评论
func (s *CommentService) Create(input CreateCommentInput) (*CommentView, error) {
	content, err := normalizeCommentContent(input.Content)
	if err != nil {
		return nil, err
	}
	review, err := s.reviewRepo.GetByID(input.ReviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	if input.ParentCommentID != nil {
		parent, err := s.commentRepo.GetByID(*input.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, withDetails(ErrParentCommentNotFound, "parent_comment_id", *input.ParentCommentID)
		}
		if parent.ReviewID != review.ID {
			return nil, withDetails(ErrInvalidParentComment, "parent_comment_id", parent.ID)
		}
	}
	comment := &models.Comment{
		ReviewID:        review.ID,
		UserID:          input.UserID,
		ParentCommentID: input.ParentCommentID,
		Content:         content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	return s.Get(comment.ID, input.UserID)
}

// Get 获取评论
func (s *CommentService) Get(commentID, viewerID uint) (*CommentView, error) {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	views, err := s.buildViews([]models.Comment{*comment}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListByReview 评价下的评论
func (s *CommentService) ListByReview(reviewID uint, page, pageSize int, viewerID uint) ([]CommentView, int64, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, 0, err
	}
	if review == nil {
		return nil, 0, ErrReviewNotFound
	}
	return s.list(repository.CommentListFilter{Page: page, PageSize: pageSize, ReviewID: reviewID}, viewerID)
}

// ListByUser 用户发表的评论
func (s *CommentService) ListByUser(userID uint, page, pageSize int) ([]CommentView, int64, error) {
	return s.list(repository.CommentListFilter{Page: page, PageSize: pageSize, UserID: userID}, userID)
}

func (s *CommentService) list(filter repository.CommentListFilter, viewerID uint) ([]CommentView, int64, error) {
	comments, total, err := s.commentRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.buildViews(comments, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// Update 修改评论，仅作者本人
func (s *CommentService) Update(commentID, userID uint, content string) (*CommentView, error) {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if comment.UserID != userID {
		return nil, ErrForbidden
	}
	normalized, err := normalizeCommentContent(content)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.UpdateContent(comment.ID, normalized); err != nil {
		return nil, err
	}
	return s.Get(comment.ID, userID)
}

// Delete 删除评论，作者本人或管理员
func (s *CommentService) Delete(commentID uint, actor Actor) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.UserID != actor.UserID && !actor.IsAdmin() {
		return ErrForbidden
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.commentRepo.WithTx(tx).Delete(comment.ID)
	})
}

// ToggleLike 切换评论点赞
func (s *CommentService) ToggleLike(commentID, userID uint) (*LikeResult, error) {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	result := &LikeResult{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.commentRepo.WithTx(tx)
		removed, err := repo.RemoveLike(comment.ID, userID)
		if err != nil {
			return err
		}
		if !removed {
			if _, err := repo.AddLike(comment.ID, userID); err != nil {
				return err
			}
			result.IsLiked = true
		}
		result.LikeCount, err = repo.CountLikes(comment.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *CommentService) buildViews(comments []models.Comment, viewerID uint) ([]CommentView, error) {
	ids := make([]uint, 0, len(comments))
	for _, comment := range comments {
		ids = append(ids, comment.ID)
	}
	counts, err := s.commentRepo.CountLikesByCommentIDs(ids)
	if err != nil {
		return nil, err
	}
	liked := map[uint]bool{}
	if viewerID != 0 {
		if liked, err = s.commentRepo.LikedCommentIDs(viewerID, ids); err != nil {
			return nil, err
		}
	}
	views := make([]CommentView, 0, len(comments))
	for _, comment := range comments {
		view := CommentView{
			ID:              comment.ID,
			ReviewID:        comment.ReviewID,
			UserID:          comment.UserID,
			ParentCommentID: comment.ParentCommentID,
			Content:         comment.Content,
			LikeCount:       counts[comment.ID],
			IsLiked:         liked[comment.ID],
			CreatedAt:       comment.CreatedAt,
			UpdatedAt:       comment.UpdatedAt,
		}
		if comment.User != nil {
			view.UserName = comment.User.Name
		}
		views = append(views, view)
	}
	return views, nil
}

func normalizeCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	length := utf8.RuneCountInString(content)
	if length < 1 || length > commentContentMaxLength {
		return "", withDetails(ErrInvalidCommentContent, "min", 1, "max", commentContentMaxLength)
	}
	return content, nil
}
