package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
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

func seedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		Name:         strings.Split(email, "@")[0],
		Gender:       constants.GenderFemale,
		Address:      "Seoul",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedBook(t *testing.T, db *gorm.DB, sellerID uint, title, isbn string, price int64) *models.Book {
	t.Helper()
	book := &models.Book{
		SellerID:        sellerID,
		Title:           title,
		Author:          "Author " + title,
		Publisher:       "Press",
		ISBN:            isbn,
		Price:           price,
		PublicationDate: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

func seedCoupon(t *testing.T, db *gorm.DB, name string, rate int, startAt, endAt time.Time, active bool) *models.Coupon {
	t.Helper()
	coupon := &models.Coupon{
		Name:         name,
		DiscountRate: rate,
		StartAt:      startAt,
		EndAt:        endAt,
		IsActive:     true,
	}
	require.NoError(t, db.Create(coupon).Error)
	if !active {
		require.NoError(t, db.Model(coupon).Update("is_active", false).Error)
		coupon.IsActive = false
	}
	return coupon
}

func seedGrant(t *testing.T, db *gorm.DB, userID, couponID uint) *models.UserCoupon {
	t.Helper()
	grant := &models.UserCoupon{UserID: userID, CouponID: couponID}
	require.NoError(t, db.Create(grant).Error)
	return grant
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var total int64
	require.NoError(t, db.Model(model).Count(&total).Error)
	return total
}
