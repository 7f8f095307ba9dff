package public

import (
	"strings"

	"github.com/bookstore-next/internal/http/response"
	"github.com/bookstore-next/internal/repository"
	"github.com/bookstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateReviewRequest 创建评价请求
type CreateReviewRequest struct {
	BookID  uint   `json:"book_id" binding:"required"`
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

// CreateReview 发表评价，需已收货购买过该书
func (h *Handler) CreateReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	review, err := h.ReviewService.Create(service.CreateReviewInput{
		UserID:  uid,
		BookID:  req.BookID,
		Rating:  req.Rating,
		Content: req.Content,
	})
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, review)
}

// ListReviews 评价列表
func (h *Handler) ListReviews(c *gin.Context) {
	page, pageSize := normalizePagination(queryInt(c, "page", 1), queryInt(c, "page_size", 20))

	reviews, total, err := h.ReviewService.List(repository.ReviewListFilter{
		Page:      page,
		PageSize:  pageSize,
		BookID:    queryUint(c, "book_id"),
		UserID:    queryUint(c, "user_id"),
		MinRating: queryInt(c, "min_rating", 0),
		SortBy:    strings.TrimSpace(c.Query("sort_by")),
		SortOrder: strings.TrimSpace(c.Query("sort_order")),
	}, optionalUserID(c))
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.SuccessWithPage(c, reviews, response.BuildPagination(page, pageSize, total))
}

// GetReview 评价详情
func (h *Handler) GetReview(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	review, err := h.ReviewService.Get(reviewID, optionalUserID(c))
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, review)
}

// UpdateReviewRequest 更新评价请求
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Content *string `json:"content"`
}

// UpdateReview 修改本人评价
func (h *Handler) UpdateReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	review, err := h.ReviewService.Update(reviewID, uid, service.UpdateReviewInput{
		Rating:  req.Rating,
		Content: req.Content,
	})
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, review)
}

// DeleteReview 删除本人评价
func (h *Handler) DeleteReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ReviewService.Delete(reviewID, uid); err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// ToggleReviewLike 点赞/取消点赞评价
func (h *Handler) ToggleReviewLike(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.ReviewService.ToggleLike(reviewID, uid)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, result)
}
