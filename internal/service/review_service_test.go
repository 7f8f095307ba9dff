package service

import (
	"strings"
	"testing"

	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type reviewFixture struct {
	db      *gorm.DB
	svc     *ReviewService
	comment *CommentService
	reader  *models.User
	other   *models.User
	admin   *models.User
	book    *models.Book
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	db := openServiceTestDB(t)
	f := &reviewFixture{db: db}
	seller := seedUser(t, db, "seller@example.com", constants.RoleSeller)
	f.reader = seedUser(t, db, "reader@example.com", constants.RoleCustomer)
	f.other = seedUser(t, db, "other@example.com", constants.RoleCustomer)
	f.admin = seedUser(t, db, "admin@example.com", constants.RoleAdmin)
	f.book = seedBook(t, db, seller.ID, "Dune", "9780441172719", 1500)
	reviewRepo := repository.NewReviewRepository(db)
	f.svc = NewReviewService(db, reviewRepo, repository.NewBookRepository(db), repository.NewOrderRepository(db))
	f.comment = NewCommentService(db, repository.NewCommentRepository(db), reviewRepo)
	return f
}

func (f *reviewFixture) placeOrder(t *testing.T, userID uint, status string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:         "BK" + strings.Repeat("0", 6) + status + string(rune('A'+userID)),
		UserID:          userID,
		Status:          status,
		Subtotal:        f.book.Price,
		FinalTotal:      f.book.Price,
		ShippingAddress: "Seoul",
	}
	require.NoError(t, f.db.Create(order).Error)
	require.NoError(t, f.db.Create(&models.OrderItem{OrderID: order.ID, BookID: f.book.ID, Quantity: 1, PriceAtPurchase: f.book.Price}).Error)
	return order
}

func validReviewInput(userID, bookID uint) CreateReviewInput {
	return CreateReviewInput{UserID: userID, BookID: bookID, Rating: 5, Content: "A sweeping desert epic."}
}

func TestReviewRequiresDeliveredPurchase(t *testing.T) {
	f := newReviewFixture(t)

	_, err := f.svc.Create(validReviewInput(f.reader.ID, f.book.ID))
	assert.ErrorIs(t, err, ErrReviewRequiresPurchase)

	f.placeOrder(t, f.reader.ID, constants.OrderStatusShipped)
	_, err = f.svc.Create(validReviewInput(f.reader.ID, f.book.ID))
	assert.ErrorIs(t, err, ErrReviewRequiresPurchase)

	delivered := f.placeOrder(t, f.reader.ID, constants.OrderStatusDelivered)
	view, err := f.svc.Create(validReviewInput(f.reader.ID, f.book.ID))
	require.NoError(t, err)
	assert.Equal(t, delivered.ID, view.OrderID)
	assert.Equal(t, "reader", view.UserName)
	assert.Equal(t, "Dune", view.BookTitle)
	assert.Zero(t, view.LikeCount)

	var counter models.ReviewLikeCount
	require.NoError(t, f.db.Where("review_id = ?", view.ID).First(&counter).Error)
	assert.Zero(t, counter.LikeCount)

	_, err = f.svc.Create(validReviewInput(f.reader.ID, f.book.ID))
	assert.ErrorIs(t, err, ErrReviewExists)
}

func TestReviewValidation(t *testing.T) {
	f := newReviewFixture(t)
	f.placeOrder(t, f.reader.ID, constants.OrderStatusDelivered)

	input := validReviewInput(f.reader.ID, f.book.ID)
	input.Rating = 6
	_, err := f.svc.Create(input)
	assert.ErrorIs(t, err, ErrInvalidRating)

	input = validReviewInput(f.reader.ID, f.book.ID)
	input.Content = "too short"
	_, err = f.svc.Create(input)
	assert.ErrorIs(t, err, ErrInvalidReviewContent)

	input = validReviewInput(f.reader.ID, 9999)
	_, err = f.svc.Create(input)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestReviewLikeToggle(t *testing.T) {
	f := newReviewFixture(t)
	f.placeOrder(t, f.reader.ID, constants.OrderStatusDelivered)
	view, err := f.svc.Create(validReviewInput(f.reader.ID, f.book.ID))
	require.NoError(t, err)

	first, err := f.svc.ToggleLike(view.ID, f.other.ID)
	require.NoError(t, err)
	assert.True(t, first.IsLiked)
	assert.Equal(t, int64(1), first.LikeCount)

	byAdmin, err := f.svc.ToggleLike(view.ID, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byAdmin.LikeCount)

	second, err := f.svc.ToggleLike(view.ID, f.other.ID)
	require.NoError(t, err)
	assert.False(t, second.IsLiked)
	assert.Equal(t, int64(1), second.LikeCount)

	got, err := f.svc.Get(view.ID, f.admin.ID)
	require.NoError(t, err)
	assert.True(t, got.IsLiked)
	assert.Equal(t, int64(1), got.LikeCount)

	_, err = f.svc.ToggleLike(9999, f.other.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewLikeCounterRebuiltWhenMissing(t *testing.T) {
	f := newReviewFixture(t)
	f.placeOrder(t, f.reader.ID, constants.OrderStatusDelivered)
	view, err := f.svc.Create(validReviewInput(f.reader.ID, f.book.ID))
	require.NoError(t, err)
	require.NoError(t, f.db.Where("review_id = ?", view.ID).Delete(&models.ReviewLikeCount{}).Error)

	result, err := f.svc.ToggleLike(view.ID, f.other.ID)
	require.NoError(t, err)
	assert.True(t, result.IsLiked)
	assert.Equal(t, int64(1), result.LikeCount)
}

func TestReviewListSortAndOwnership(t *testing.T) {
	f := newReviewFixture(t)
	f.placeOrder(t, f.reader.ID, constants.OrderStatusDelivered)
	f.placeOrder(t, f.other.ID, constants.OrderStatusDelivered)

	mine, err := f.svc.Create(validReviewInput(f.reader.ID, f.book.ID))
	require.NoError(t, err)
	input := validReviewInput(f.other.ID, f.book.ID)
	input.Rating = 2
	theirs, err := f.svc.Create(input)
	require.NoError(t, err)
	_, err = f.svc.ToggleLike(theirs.ID, f.admin.ID)
	require.NoError(t, err)

	items, total, err := f.svc.List(repository.ReviewListFilter{BookID: f.book.ID, SortBy: "like_count", SortOrder: "desc", Page: 1, PageSize: 10}, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, theirs.ID, items[0].ID)
	assert.True(t, items[0].IsLiked)
	assert.False(t, items[1].IsLiked)

	items, total, err = f.svc.List(repository.ReviewListFilter{MinRating: 4, Page: 1, PageSize: 10}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, mine.ID, items[0].ID)

	rating := 4
	_, err = f.svc.Update(mine.ID, f.other.ID, UpdateReviewInput{Rating: &rating})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Update(mine.ID, f.reader.ID, UpdateReviewInput{})
	assert.ErrorIs(t, err, ErrReviewUpdateEmpty)
	updated, err := f.svc.Update(mine.ID, f.reader.ID, UpdateReviewInput{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)

	_, err = f.comment.Create(CreateCommentInput{ReviewID: mine.ID, UserID: f.other.ID, Content: "agreed"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(mine.ID, f.reader.ID))
	_, err = f.svc.Get(mine.ID, 0)
	assert.ErrorIs(t, err, ErrReviewNotFound)
	assert.Zero(t, countRows(t, f.db, &models.Comment{}))
}

func TestCommentThreadAndLikes(t *testing.T) {
	f := newReviewFixture(t)
	f.placeOrder(t, f.reader.ID, constants.OrderStatusDelivered)
	f.placeOrder(t, f.other.ID, constants.OrderStatusDelivered)
	review, err := f.svc.Create(validReviewInput(f.reader.ID, f.book.ID))
	require.NoError(t, err)
	input := validReviewInput(f.other.ID, f.book.ID)
	otherReview, err := f.svc.Create(input)
	require.NoError(t, err)

	_, err = f.comment.Create(CreateCommentInput{ReviewID: review.ID, UserID: f.other.ID, Content: "   "})
	assert.ErrorIs(t, err, ErrInvalidCommentContent)

	root, err := f.comment.Create(CreateCommentInput{ReviewID: review.ID, UserID: f.other.ID, Content: "Great take"})
	require.NoError(t, err)
	assert.Equal(t, "other", root.UserName)

	missing := uint(9999)
	_, err = f.comment.Create(CreateCommentInput{ReviewID: review.ID, UserID: f.reader.ID, ParentCommentID: &missing, Content: "reply"})
	assert.ErrorIs(t, err, ErrParentCommentNotFound)
	_, err = f.comment.Create(CreateCommentInput{ReviewID: otherReview.ID, UserID: f.reader.ID, ParentCommentID: &root.ID, Content: "reply"})
	assert.ErrorIs(t, err, ErrInvalidParentComment)

	reply, err := f.comment.Create(CreateCommentInput{ReviewID: review.ID, UserID: f.reader.ID, ParentCommentID: &root.ID, Content: "thanks"})
	require.NoError(t, err)

	liked, err := f.comment.ToggleLike(root.ID, f.reader.ID)
	require.NoError(t, err)
	assert.True(t, liked.IsLiked)
	assert.Equal(t, int64(1), liked.LikeCount)

	items, total, err := f.comment.ListByReview(review.ID, 1, 10, f.reader.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	byID := map[uint]CommentView{}
	for _, item := range items {
		byID[item.ID] = item
	}
	assert.True(t, byID[root.ID].IsLiked)
	assert.Equal(t, int64(1), byID[root.ID].LikeCount)
	assert.False(t, byID[reply.ID].IsLiked)

	_, err = f.comment.Update(root.ID, f.reader.ID, "hijack")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, f.comment.Delete(root.ID, Actor{UserID: f.reader.ID, Role: constants.RoleCustomer}), ErrForbidden)

	require.NoError(t, f.comment.Delete(root.ID, Actor{UserID: f.admin.ID, Role: constants.RoleAdmin}))
	assert.Zero(t, countRows(t, f.db, &models.Comment{}))
	assert.Zero(t, countRows(t, f.db, &models.CommentLike{}))

	unliked, err := f.comment.ToggleLike(root.ID, f.reader.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
	assert.Nil(t, unliked)
}

func TestCommentDeleteRemovesNestedReplies(t *testing.T) {
	f := newReviewFixture(t)
	f.placeOrder(t, f.reader.ID, constants.OrderStatusDelivered)
	review, err := f.svc.Create(validReviewInput(f.reader.ID, f.book.ID))
	require.NoError(t, err)

	root, err := f.comment.Create(CreateCommentInput{ReviewID: review.ID, UserID: f.other.ID, Content: "root"})
	require.NoError(t, err)
	reply, err := f.comment.Create(CreateCommentInput{ReviewID: review.ID, UserID: f.reader.ID, ParentCommentID: &root.ID, Content: "reply"})
	require.NoError(t, err)
	deep, err := f.comment.Create(CreateCommentInput{ReviewID: review.ID, UserID: f.admin.ID, ParentCommentID: &reply.ID, Content: "deeper"})
	require.NoError(t, err)
	_, err = f.comment.ToggleLike(deep.ID, f.reader.ID)
	require.NoError(t, err)
	sibling, err := f.comment.Create(CreateCommentInput{ReviewID: review.ID, UserID: f.reader.ID, Content: "unrelated"})
	require.NoError(t, err)

	require.NoError(t, f.comment.Delete(root.ID, Actor{UserID: f.other.ID, Role: constants.RoleCustomer}))

	var left []models.Comment
	require.NoError(t, f.db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, sibling.ID, left[0].ID)
	assert.Zero(t, countRows(t, f.db, &models.CommentLike{}))
}
