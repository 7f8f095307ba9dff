package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/bookstore-next/internal/cache"
	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"

	"golang.org/x/sync/singleflight"
)

// BookService 图书服务
type BookService struct {
	bookRepo repository.BookRepository
	cacheTTL time.Duration
	group    singleflight.Group
}

// NewBookService 创建图书服务
func NewBookService(bookRepo repository.BookRepository, cacheTTLSeconds int) *BookService {
	return &BookService{
		bookRepo: bookRepo,
		cacheTTL: time.Duration(cacheTTLSeconds) * time.Second,
	}
}

// Actor 当前操作者
type Actor struct {
	UserID uint
	Role   string
}

// IsAdmin 是否管理员
func (a Actor) IsAdmin() bool {
	return a.Role == constants.RoleAdmin
}

// CreateBookInput 创建图书输入
type CreateBookInput struct {
	Title           string
	Author          string
	Publisher       string
	Summary         string
	ISBN            string
	Price           int64
	PublicationDate time.Time
}

// UpdateBookInput 更新图书输入，nil 字段不修改
type UpdateBookInput struct {
	Title           *string
	Author          *string
	Publisher       *string
	Summary         *string
	ISBN            *string
	Price           *int64
	PublicationDate *time.Time
}

// BookDetail 图书详情
type BookDetail struct {
	models.Book
	ViewCount int64 `json:"view_count"`
}

// BookSearchInput 图书检索输入
type BookSearchInput struct {
	Page          int
	PageSize      int
	Keyword       string
	Author        string
	Publisher     string
	ISBN          string
	SellerID      uint
	MinPrice      *int64
	MaxPrice      *int64
	PublishedFrom *time.Time
	PublishedTo   *time.Time
	SortBy        string
	SortOrder     string
}

// Create 创建图书
func (s *BookService) Create(actor Actor, input CreateBookInput) (*models.Book, error) {
	if actor.UserID == 0 {
		return nil, ErrForbidden
	}
	title := strings.TrimSpace(input.Title)
	author := strings.TrimSpace(input.Author)
	publisher := strings.TrimSpace(input.Publisher)
	if title == "" || author == "" || publisher == "" || input.PublicationDate.IsZero() {
		return nil, ErrBookFieldRequired
	}
	if input.Price <= 0 {
		return nil, withDetails(ErrInvalidPrice, "price", input.Price)
	}
	isbn, err := normalizeISBN(input.ISBN)
	if err != nil {
		return nil, err
	}
	if err := s.ensureISBNAvailable(isbn, 0); err != nil {
		return nil, err
	}

	book := &models.Book{
		SellerID:        actor.UserID,
		Title:           title,
		Author:          author,
		Publisher:       publisher,
		Summary:         strings.TrimSpace(input.Summary),
		ISBN:            isbn,
		Price:           input.Price,
		PublicationDate: input.PublicationDate,
	}
	if err := s.bookRepo.Create(book); err != nil {
		return nil, err
	}
	logger.Infow("book_created", "book_id", book.ID, "seller_id", book.SellerID, "isbn", book.ISBN)
	return book, nil
}

// Get 获取图书详情并记录一次浏览，viewerID 为 0 表示匿名
func (s *BookService) Get(ctx context.Context, bookID, viewerID uint) (*BookDetail, error) {
	book, err := s.load(ctx, bookID)
	if err != nil {
		return nil, err
	}
	view := &models.BookView{BookID: book.ID, ViewedAt: time.Now()}
	if viewerID != 0 {
		id := viewerID
		view.UserID = &id
	}
	if err := s.bookRepo.RecordView(view); err != nil {
		logger.Warnw("book_view_record_failed", "book_id", book.ID, "error", err)
	}
	count, err := s.bookRepo.CountViews(book.ID)
	if err != nil {
		return nil, err
	}
	return &BookDetail{Book: *book, ViewCount: count}, nil
}

// Search 检索图书
func (s *BookService) Search(input BookSearchInput) ([]BookDetail, int64, error) {
	if input.PublishedFrom != nil && input.PublishedTo != nil && input.PublishedFrom.After(*input.PublishedTo) {
		return nil, 0, ErrInvalidDateRange
	}
	if input.MinPrice != nil && input.MaxPrice != nil && *input.MinPrice > *input.MaxPrice {
		return nil, 0, ErrInvalidPriceRange
	}
	isbn := ""
	if strings.TrimSpace(input.ISBN) != "" {
		isbn = stripISBN(input.ISBN)
	}
	books, total, err := s.bookRepo.List(repository.BookListFilter{
		Page:          input.Page,
		PageSize:      input.PageSize,
		Keyword:       input.Keyword,
		Author:        input.Author,
		Publisher:     input.Publisher,
		ISBN:          isbn,
		SellerID:      input.SellerID,
		MinPrice:      input.MinPrice,
		MaxPrice:      input.MaxPrice,
		PublishedFrom: input.PublishedFrom,
		PublishedTo:   input.PublishedTo,
		SortBy:        input.SortBy,
		SortOrder:     input.SortOrder,
	})
	if err != nil {
		return nil, 0, err
	}
	ids := make([]uint, 0, len(books))
	for _, book := range books {
		ids = append(ids, book.ID)
	}
	views, err := s.bookRepo.CountViewsByBookIDs(ids)
	if err != nil {
		return nil, 0, err
	}
	items := make([]BookDetail, 0, len(books))
	for _, book := range books {
		items = append(items, BookDetail{Book: book, ViewCount: views[book.ID]})
	}
	return items, total, nil
}

// Update 更新图书，仅卖家本人或管理员
func (s *BookService) Update(ctx context.Context, actor Actor, bookID uint, input UpdateBookInput) (*models.Book, error) {
	book, err := s.getOwned(actor, bookID)
	if err != nil {
		return nil, err
	}
	changed := false
	if input.Title != nil {
		if book.Title = strings.TrimSpace(*input.Title); book.Title == "" {
			return nil, ErrBookFieldRequired
		}
		changed = true
	}
	if input.Author != nil {
		if book.Author = strings.TrimSpace(*input.Author); book.Author == "" {
			return nil, ErrBookFieldRequired
		}
		changed = true
	}
	if input.Publisher != nil {
		if book.Publisher = strings.TrimSpace(*input.Publisher); book.Publisher == "" {
			return nil, ErrBookFieldRequired
		}
		changed = true
	}
	if input.Summary != nil {
		book.Summary = strings.TrimSpace(*input.Summary)
		changed = true
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, withDetails(ErrInvalidPrice, "price", *input.Price)
		}
		book.Price = *input.Price
		changed = true
	}
	if input.PublicationDate != nil {
		if input.PublicationDate.IsZero() {
			return nil, ErrBookFieldRequired
		}
		book.PublicationDate = *input.PublicationDate
		changed = true
	}
	if input.ISBN != nil {
		isbn, err := normalizeISBN(*input.ISBN)
		if err != nil {
			return nil, err
		}
		if err := s.ensureISBNAvailable(isbn, book.ID); err != nil {
			return nil, err
		}
		book.ISBN = isbn
		changed = true
	}
	if !changed {
		return nil, ErrBookUpdateEmpty
	}
	if err := s.bookRepo.Update(book); err != nil {
		return nil, err
	}
	s.invalidate(ctx, book.ID)
	return book, nil
}

// Delete 删除图书，已被订单引用的图书不可删除
func (s *BookService) Delete(ctx context.Context, actor Actor, bookID uint) error {
	book, err := s.getOwned(actor, bookID)
	if err != nil {
		return err
	}
	inUse, err := s.bookRepo.IsReferencedByOrders(book.ID)
	if err != nil {
		return err
	}
	if inUse {
		return withDetails(ErrBookInUse, "book_id", book.ID)
	}
	if err := s.bookRepo.Delete(book.ID); err != nil {
		return err
	}
	s.invalidate(ctx, book.ID)
	logger.Infow("book_deleted", "book_id", book.ID, "actor_id", actor.UserID)
	return nil
}

func (s *BookService) getOwned(actor Actor, bookID uint) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, withDetails(ErrBookNotFound, "book_id", bookID)
	}
	if !actor.IsAdmin() && book.SellerID != actor.UserID {
		return nil, ErrForbidden
	}
	return book, nil
}

// load 读取图书，优先走缓存，并发未命中时只回源一次
func (s *BookService) load(ctx context.Context, bookID uint) (*models.Book, error) {
	var cached models.Book
	if hit, err := cache.GetBookDetail(ctx, bookID, &cached); err == nil && hit {
		return &cached, nil
	}
	value, err, _ := s.group.Do(fmt.Sprintf("book:%d", bookID), func() (interface{}, error) {
		book, err := s.bookRepo.GetByID(bookID)
		if err != nil {
			return nil, err
		}
		if book == nil {
			return nil, withDetails(ErrBookNotFound, "book_id", bookID)
		}
		if err := cache.SetBookDetail(ctx, book.ID, book, s.cacheTTL); err != nil {
			logger.Warnw("book_cache_set_failed", "book_id", book.ID, "error", err)
		}
		return book, nil
	})
	if err != nil {
		return nil, err
	}
	book := *value.(*models.Book)
	return &book, nil
}

func (s *BookService) invalidate(ctx context.Context, bookID uint) {
	if err := cache.DelBookDetail(ctx, bookID); err != nil {
		logger.Warnw("book_cache_invalidate_failed", "book_id", bookID, "error", err)
	}
}

func (s *BookService) ensureISBNAvailable(isbn string, selfID uint) error {
	exist, err := s.bookRepo.GetByISBN(isbn)
	if err != nil {
		return err
	}
	if exist != nil && exist.ID != selfID {
		return withDetails(ErrISBNExists, "isbn", isbn)
	}
	return nil
}

func stripISBN(raw string) string {
	return strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(raw)))
}

// normalizeISBN 去掉连字符后必须为 10 位或 13 位，ISBN-10 末位允许 X
func normalizeISBN(raw string) (string, error) {
	isbn := stripISBN(raw)
	switch len(isbn) {
	case 10:
		for i, r := range isbn {
			if unicode.IsDigit(r) || (i == 9 && r == 'X') {
				continue
			}
			return "", withDetails(ErrInvalidISBN, "isbn", raw)
		}
	case 13:
		for _, r := range isbn {
			if !unicode.IsDigit(r) {
				return "", withDetails(ErrInvalidISBN, "isbn", raw)
			}
		}
	default:
		return "", withDetails(ErrInvalidISBN, "isbn", raw)
	}
	return isbn, nil
}
