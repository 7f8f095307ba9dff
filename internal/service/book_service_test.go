package service

import (
	"context"
	"testing"
	"time"

	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeISBN(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{raw: "978-89-6626-123-4", want: "9788966261234", ok: true},
		{raw: "0-306-40615-2", want: "0306406152", ok: true},
		{raw: "0-8044-2957-x", want: "080442957X", ok: true},
		{raw: "12345", ok: false},
		{raw: "97889662612X4", ok: false},
		{raw: "X306406152", ok: false},
	}
	for _, tc := range cases {
		got, err := normalizeISBN(tc.raw)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidISBN, tc.raw)
			continue
		}
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got)
	}
}

func TestBookLifecycle(t *testing.T) {
	db := openServiceTestDB(t)
	seller := seedUser(t, db, "seller@example.com", constants.RoleSeller)
	rival := seedUser(t, db, "rival@example.com", constants.RoleSeller)
	admin := seedUser(t, db, "admin@example.com", constants.RoleAdmin)
	svc := NewBookService(repository.NewBookRepository(db), 60)
	ctx := context.Background()

	sellerActor := Actor{UserID: seller.ID, Role: constants.RoleSeller}
	input := CreateBookInput{
		Title:           "Go in Practice",
		Author:          "Matt",
		Publisher:       "Manning",
		ISBN:            "978-1-63343-007-6",
		Price:           32000,
		PublicationDate: time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	book, err := svc.Create(sellerActor, input)
	require.NoError(t, err)
	assert.Equal(t, "9781633430076", book.ISBN)

	_, err = svc.Create(Actor{UserID: rival.ID, Role: constants.RoleSeller}, input)
	assert.ErrorIs(t, err, ErrISBNExists)

	bad := input
	bad.Price = 0
	bad.ISBN = "9781633430077"
	_, err = svc.Create(sellerActor, bad)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	detail, err := svc.Get(ctx, book.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.ViewCount)
	detail, err = svc.Get(ctx, book.ID, rival.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.ViewCount)

	_, err = svc.Get(ctx, 9999, 0)
	assert.ErrorIs(t, err, ErrBookNotFound)

	newTitle := "Go in Practice 2e"
	_, err = svc.Update(ctx, Actor{UserID: rival.ID, Role: constants.RoleSeller}, book.ID, UpdateBookInput{Title: &newTitle})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Update(ctx, sellerActor, book.ID, UpdateBookInput{})
	assert.ErrorIs(t, err, ErrBookUpdateEmpty)
	updated, err := svc.Update(ctx, Actor{UserID: admin.ID, Role: constants.RoleAdmin}, book.ID, UpdateBookInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)

	require.NoError(t, db.Create(&models.Order{OrderNo: "BK1", UserID: rival.ID, Status: constants.OrderStatusPending, ShippingAddress: "a"}).Error)
	var order models.Order
	require.NoError(t, db.Where("order_no = ?", "BK1").First(&order).Error)
	require.NoError(t, db.Create(&models.OrderItem{OrderID: order.ID, BookID: book.ID, Quantity: 1, PriceAtPurchase: 32000}).Error)
	assert.ErrorIs(t, svc.Delete(ctx, sellerActor, book.ID), ErrBookInUse)

	spare, err := svc.Create(sellerActor, CreateBookInput{
		Title: "Spare", Author: "A", Publisher: "P", ISBN: "0306406152", Price: 100,
		PublicationDate: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.CartItem{UserID: rival.ID, BookID: spare.ID, Quantity: 1}).Error)
	require.NoError(t, svc.Delete(ctx, sellerActor, spare.ID))
	assert.Zero(t, countRows(t, db.Unscoped(), &models.CartItem{}))
}

func TestBookSearch(t *testing.T) {
	db := openServiceTestDB(t)
	seller := seedUser(t, db, "seller@example.com", constants.RoleSeller)
	svc := NewBookService(repository.NewBookRepository(db), 0)
	seedBook(t, db, seller.ID, "Alpha 100%", "9780000000011", 1000)
	seedBook(t, db, seller.ID, "Beta", "9780000000012", 3000)
	seedBook(t, db, seller.ID, "Gamma", "9780000000013", 2000)

	items, total, err := svc.Search(BookSearchInput{Keyword: "100%", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Alpha 100%", items[0].Title)

	minPrice := int64(1500)
	items, total, err = svc.Search(BookSearchInput{MinPrice: &minPrice, SortBy: "price", SortOrder: "asc", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Gamma", items[0].Title)
	assert.Equal(t, "Beta", items[1].Title)

	items, _, err = svc.Search(BookSearchInput{ISBN: "978-0000000012", Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Beta", items[0].Title)

	from := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	_, _, err = svc.Search(BookSearchInput{PublishedFrom: &from, PublishedTo: &to})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}
