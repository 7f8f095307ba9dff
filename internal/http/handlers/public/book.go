package public

import (
	"strings"

	"github.com/bookstore-next/internal/http/response"
	"github.com/bookstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateBookRequest 创建图书请求，价格为最小货币单位
type CreateBookRequest struct {
	Title           string `json:"title" binding:"required"`
	Author          string `json:"author" binding:"required"`
	Publisher       string `json:"publisher" binding:"required"`
	Summary         string `json:"summary"`
	ISBN            string `json:"isbn" binding:"required"`
	Price           int64  `json:"price" binding:"required"`
	PublicationDate string `json:"publication_date" binding:"required"`
}

// CreateBook 卖家上架图书
func (h *Handler) CreateBook(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	publicationDate, err := parseOptionalDate(req.PublicationDate)
	if err != nil || publicationDate == nil {
		respondError(c, response.CodeBadRequest, "error.validation_failed", nil)
		return
	}

	book, err := h.BookService.Create(actor, service.CreateBookInput{
		Title:           req.Title,
		Author:          req.Author,
		Publisher:       req.Publisher,
		Summary:         req.Summary,
		ISBN:            req.ISBN,
		Price:           req.Price,
		PublicationDate: *publicationDate,
	})
	if err != nil {
		respondBookError(c, err)
		return
	}

	response.Success(c, book)
}

// GetBook 图书详情，记录一次浏览
func (h *Handler) GetBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.BookService.Get(c.Request.Context(), bookID, optionalUserID(c))
	if err != nil {
		respondBookError(c, err)
		return
	}

	response.Success(c, detail)
}

// SearchBooks 图书检索
func (h *Handler) SearchBooks(c *gin.Context) {
	page, pageSize := normalizePagination(queryInt(c, "page", 1), queryInt(c, "page_size", 20))

	minPrice, err := parseOptionalInt64(c.Query("min_price"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_price", nil)
		return
	}
	maxPrice, err := parseOptionalInt64(c.Query("max_price"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_price", nil)
		return
	}
	publishedFrom, err := parseOptionalDate(c.Query("published_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.validation_failed", nil)
		return
	}
	publishedTo, err := parseOptionalDate(c.Query("published_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.validation_failed", nil)
		return
	}

	books, total, err := h.BookService.Search(service.BookSearchInput{
		Page:          page,
		PageSize:      pageSize,
		Keyword:       strings.TrimSpace(c.Query("keyword")),
		Author:        strings.TrimSpace(c.Query("author")),
		Publisher:     strings.TrimSpace(c.Query("publisher")),
		ISBN:          strings.TrimSpace(c.Query("isbn")),
		SellerID:      queryUint(c, "seller_id"),
		MinPrice:      minPrice,
		MaxPrice:      maxPrice,
		PublishedFrom: publishedFrom,
		PublishedTo:   publishedTo,
		SortBy:        strings.TrimSpace(c.Query("sort_by")),
		SortOrder:     strings.TrimSpace(c.Query("sort_order")),
	})
	if err != nil {
		respondBookError(c, err)
		return
	}

	response.SuccessWithPage(c, books, response.BuildPagination(page, pageSize, total))
}

// UpdateBookRequest 更新图书请求
type UpdateBookRequest struct {
	Title           *string `json:"title"`
	Author          *string `json:"author"`
	Publisher       *string `json:"publisher"`
	Summary         *string `json:"summary"`
	ISBN            *string `json:"isbn"`
	Price           *int64  `json:"price"`
	PublicationDate *string `json:"publication_date"`
}

// UpdateBook 更新图书（上架卖家或管理员）
func (h *Handler) UpdateBook(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input := service.UpdateBookInput{
		Title:     req.Title,
		Author:    req.Author,
		Publisher: req.Publisher,
		Summary:   req.Summary,
		ISBN:      req.ISBN,
		Price:     req.Price,
	}
	if req.PublicationDate != nil {
		publicationDate, err := parseOptionalDate(*req.PublicationDate)
		if err != nil || publicationDate == nil {
			respondError(c, response.CodeBadRequest, "error.validation_failed", nil)
			return
		}
		input.PublicationDate = publicationDate
	}

	book, err := h.BookService.Update(c.Request.Context(), actor, bookID, input)
	if err != nil {
		respondBookError(c, err)
		return
	}

	response.Success(c, book)
}

// DeleteBook 删除图书（上架卖家或管理员）
func (h *Handler) DeleteBook(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.BookService.Delete(c.Request.Context(), actor, bookID); err != nil {
		respondBookError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
