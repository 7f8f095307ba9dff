package public

import (
	"github.com/bookstore-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AddFavoriteRequest 收藏请求
type AddFavoriteRequest struct {
	BookID uint `json:"book_id" binding:"required"`
}

// AddFavorite 收藏图书
func (h *Handler) AddFavorite(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	favorite, err := h.FavoriteService.Add(uid, req.BookID)
	if err != nil {
		respondShelfError(c, err)
		return
	}

	response.Success(c, favorite)
}

// ListFavorites 我的收藏
func (h *Handler) ListFavorites(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := normalizePagination(queryInt(c, "page", 1), queryInt(c, "page_size", 20))

	favorites, total, err := h.FavoriteService.List(uid, page, pageSize)
	if err != nil {
		respondShelfError(c, err)
		return
	}

	response.SuccessWithPage(c, favorites, response.BuildPagination(page, pageSize, total))
}

// RemoveFavorite 取消收藏
func (h *Handler) RemoveFavorite(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	favoriteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.FavoriteService.Remove(uid, favoriteID); err != nil {
		respondShelfError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// ListLibrary 我的书架：已收货订单中的图书
func (h *Handler) ListLibrary(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := normalizePagination(queryInt(c, "page", 1), queryInt(c, "page_size", 20))

	items, total, err := h.LibraryService.List(uid, page, pageSize)
	if err != nil {
		respondShelfError(c, err)
		return
	}

	response.SuccessWithPage(c, items, response.BuildPagination(page, pageSize, total))
}
