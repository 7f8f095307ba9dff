package public

import (
	"github.com/bookstore-next/internal/http/response"
	"github.com/bookstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateCommentRequest 发表评论请求
type CreateCommentRequest struct {
	ParentCommentID *uint  `json:"parent_comment_id"`
	Content         string `json:"content"`
}

// CreateComment 在评价下发表评论或回复
func (h *Handler) CreateComment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	comment, err := h.CommentService.Create(service.CreateCommentInput{
		ReviewID:        reviewID,
		UserID:          uid,
		ParentCommentID: req.ParentCommentID,
		Content:         req.Content,
	})
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, comment)
}

// ListReviewComments 评价下的评论，最新在前
func (h *Handler) ListReviewComments(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, pageSize := normalizePagination(queryInt(c, "page", 1), queryInt(c, "page_size", 20))

	comments, total, err := h.CommentService.ListByReview(reviewID, page, pageSize, optionalUserID(c))
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.SuccessWithPage(c, comments, response.BuildPagination(page, pageSize, total))
}

// ListMyComments 我发表的评论
func (h *Handler) ListMyComments(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := normalizePagination(queryInt(c, "page", 1), queryInt(c, "page_size", 20))

	comments, total, err := h.CommentService.ListByUser(uid, page, pageSize)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.SuccessWithPage(c, comments, response.BuildPagination(page, pageSize, total))
}

// GetComment 评论详情
func (h *Handler) GetComment(c *gin.Context) {
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comment, err := h.CommentService.Get(commentID, optionalUserID(c))
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, comment)
}

// UpdateCommentRequest 修改评论请求
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// UpdateComment 修改本人评论
func (h *Handler) UpdateComment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	comment, err := h.CommentService.Update(commentID, uid, req.Content)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, comment)
}

// DeleteComment 删除评论（本人或管理员）
func (h *Handler) DeleteComment(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.CommentService.Delete(commentID, actor); err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// ToggleCommentLike 点赞/取消点赞评论
func (h *Handler) ToggleCommentLike(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.CommentService.ToggleLike(commentID, uid)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, result)
}
