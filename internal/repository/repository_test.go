package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))
	return db
}

type repoFixture struct {
	db     *gorm.DB
	seller *models.User
	author *models.User
	fan    *models.User
	book   *models.Book
	order  *models.Order
	review *models.Review
}

func seedRepoUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		Name:         strings.Split(email, "@")[0],
		Gender:       constants.GenderFemale,
		Address:      "Gwangju",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func setupRepoFixture(t *testing.T) *repoFixture {
	t.Helper()
	db := openRepoTestDB(t)
	f := &repoFixture{db: db}
	f.seller = seedRepoUser(t, db, "seller@example.com", constants.RoleSeller)
	f.author = seedRepoUser(t, db, "author@example.com", constants.RoleCustomer)
	f.fan = seedRepoUser(t, db, "fan@example.com", constants.RoleCustomer)

	f.book = &models.Book{
		SellerID:        f.seller.ID,
		Title:           "Concurrency in Go",
		Author:          "Katherine Cox-Buday",
		Publisher:       "O'Reilly",
		ISBN:            "9781491941195",
		Price:           3200,
		PublicationDate: time.Date(2017, 7, 19, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(f.book).Error)

	f.order = &models.Order{
		OrderNo:         "BK-REPO-1",
		UserID:          f.author.ID,
		Status:          constants.OrderStatusDelivered,
		Subtotal:        3200,
		FinalTotal:      3200,
		ShippingAddress: "Gwangju",
		Items: []models.OrderItem{
			{BookID: f.book.ID, Quantity: 1, PriceAtPurchase: 3200},
		},
	}
	require.NoError(t, db.Create(f.order).Error)

	f.review = &models.Review{
		UserID:  f.author.ID,
		BookID:  f.book.ID,
		OrderID: f.order.ID,
		Content: "Clear explanations of channels.",
		Rating:  5,
	}
	require.NoError(t, NewReviewRepository(db).Create(f.review))
	return f
}

func TestUserCouponMarkUsedOnlyOnce(t *testing.T) {
	f := setupRepoFixture(t)
	now := time.Now()
	coupon := &models.Coupon{Name: "ONCE", DiscountRate: 10, StartAt: now.Add(-time.Hour), EndAt: now.Add(time.Hour), IsActive: true}
	require.NoError(t, f.db.Create(coupon).Error)
	grant := &models.UserCoupon{UserID: f.author.ID, CouponID: coupon.ID}
	require.NoError(t, f.db.Create(grant).Error)

	repo := NewUserCouponRepository(f.db)
	affected, err := repo.MarkUsed(grant.ID, f.order.ID, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	affected, err = repo.MarkUsed(grant.ID, f.order.ID+1, now)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)

	var stored models.UserCoupon
	require.NoError(t, f.db.First(&stored, grant.ID).Error)
	assert.True(t, stored.IsUsed)
	require.NotNil(t, stored.OrderID)
	assert.Equal(t, f.order.ID, *stored.OrderID)

	released, err := repo.ReleaseByOrder(f.order.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, released)
	stored = models.UserCoupon{}
	require.NoError(t, f.db.First(&stored, grant.ID).Error)
	assert.False(t, stored.IsUsed)
	assert.Nil(t, stored.OrderID)
	assert.Nil(t, stored.UsedAt)
}

func TestReviewLikeCountNeverNegative(t *testing.T) {
	f := setupRepoFixture(t)
	repo := NewReviewRepository(f.db)

	added, err := repo.AddLike(f.review.ID, f.fan.ID)
	require.NoError(t, err)
	assert.True(t, added)
	require.NoError(t, repo.AdjustLikeCount(f.review.ID, 1))

	added, err = repo.AddLike(f.review.ID, f.fan.ID)
	require.NoError(t, err)
	assert.False(t, added)

	count, err := repo.GetLikeCount(f.review.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, repo.AdjustLikeCount(f.review.ID, -1))
	require.NoError(t, repo.AdjustLikeCount(f.review.ID, -1))
	count, err = repo.GetLikeCount(f.review.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestReviewLikeCountRebuiltWhenRowMissing(t *testing.T) {
	f := setupRepoFixture(t)
	repo := NewReviewRepository(f.db)
	require.NoError(t, f.db.Where("review_id = ?", f.review.ID).Delete(&models.ReviewLikeCount{}).Error)

	_, err := repo.AddLike(f.review.ID, f.fan.ID)
	require.NoError(t, err)
	require.NoError(t, repo.AdjustLikeCount(f.review.ID, 1))

	count, err := repo.GetLikeCount(f.review.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestUserDeleteCascade(t *testing.T) {
	f := setupRepoFixture(t)
	reviews := NewReviewRepository(f.db)
	users := NewUserRepository(f.db)

	_, err := reviews.AddLike(f.review.ID, f.fan.ID)
	require.NoError(t, err)
	require.NoError(t, reviews.AdjustLikeCount(f.review.ID, 1))
	require.NoError(t, f.db.Create(&models.CartItem{UserID: f.fan.ID, BookID: f.book.ID, Quantity: 2}).Error)
	require.NoError(t, f.db.Create(&models.Favorite{UserID: f.fan.ID, BookID: f.book.ID}).Error)
	fanComment := &models.Comment{UserID: f.fan.ID, ReviewID: f.review.ID, Content: "Agreed"}
	require.NoError(t, f.db.Create(fanComment).Error)
	reply := &models.Comment{UserID: f.author.ID, ReviewID: f.review.ID, ParentCommentID: &fanComment.ID, Content: "Thanks"}
	require.NoError(t, f.db.Create(reply).Error)
	require.NoError(t, f.db.Create(&models.Comment{UserID: f.seller.ID, ReviewID: f.review.ID, ParentCommentID: &reply.ID, Content: "Glad you liked it"}).Error)

	require.NoError(t, users.DeleteCascade(f.fan.ID))

	count, err := reviews.GetLikeCount(f.review.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	var remaining int64
	require.NoError(t, f.db.Unscoped().Model(&models.CartItem{}).Where("user_id = ?", f.fan.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
	require.NoError(t, f.db.Unscoped().Model(&models.Favorite{}).Where("user_id = ?", f.fan.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
	// 回复链随被删除的评论一起删除
	require.NoError(t, f.db.Model(&models.Comment{}).Count(&remaining).Error)
	assert.Zero(t, remaining)

	gone, err := users.GetByID(f.fan.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// 图书仍被作者的订单引用，卖家不能注销
	assert.ErrorIs(t, users.DeleteCascade(f.seller.ID), ErrSellerBooksOrdered)
	require.NoError(t, f.db.Model(&models.Book{}).Where("seller_id = ?", f.seller.ID).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)

	// 删除作者时其评价、订单一并删除
	require.NoError(t, users.DeleteCascade(f.author.ID))
	require.NoError(t, f.db.Model(&models.Review{}).Where("id = ?", f.review.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
	require.NoError(t, f.db.Model(&models.ReviewLikeCount{}).Where("review_id = ?", f.review.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
	require.NoError(t, f.db.Model(&models.OrderItem{}).Where("order_id = ?", f.order.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	require.NoError(t, f.db.Create(&models.CartItem{UserID: f.seller.ID, BookID: f.book.ID, Quantity: 1}).Error)
	require.NoError(t, users.DeleteCascade(f.seller.ID))
	require.NoError(t, f.db.Model(&models.Book{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
	require.NoError(t, f.db.Unscoped().Model(&models.CartItem{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}
