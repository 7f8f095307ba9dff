package main

import (
	"time"

	"github.com/bookstore-next/internal/app"
	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const demoPassword = "passw0rd123"

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	db, err := app.OpenDatabase(cfg)
	if err != nil {
		stdLog.Fatalf("Failed to open database: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash demo password: %v", err)
	}

	// 用户
	users := []models.User{
		{Email: "admin@bookstore.local", Name: "Admin", Gender: constants.GenderFemale, Address: "Seoul", Role: constants.RoleAdmin},
		{Email: "seller@bookstore.local", Name: "Seller", Gender: constants.GenderMale, Address: "Busan", Role: constants.RoleSeller},
		{Email: "alice@bookstore.local", Name: "Alice", Gender: constants.GenderFemale, Address: "Daegu", Role: constants.RoleCustomer},
		{Email: "bob@bookstore.local", Name: "Bob", Gender: constants.GenderMale, Address: "Incheon", Role: constants.RoleCustomer},
	}
	userIDs := map[string]uint{}
	for _, user := range users {
		user.PasswordHash = string(hash)
		if err := db.Where("email = ?", user.Email).FirstOrCreate(&user).Error; err != nil {
			stdLog.Printf("Failed to seed user %s: %v", user.Email, err)
			continue
		}
		userIDs[user.Email] = user.ID
	}
	sellerID := userIDs["seller@bookstore.local"]
	if sellerID == 0 {
		stdLog.Fatalf("Seller account missing, abort seeding books")
	}

	// 图书
	books := []struct {
		Title     string
		Author    string
		Publisher string
		ISBN      string
		Price     string
		Published string
		Summary   string
	}{
		{"The Go Programming Language", "Alan Donovan", "Addison-Wesley", "9780134190440", "39.99", "2015-10-26", "Idiomatic Go from first principles."},
		{"Designing Data-Intensive Applications", "Martin Kleppmann", "O'Reilly", "9781449373320", "45.50", "2017-03-16", "Reliable, scalable and maintainable systems."},
		{"Clean Architecture", "Robert Martin", "Prentice Hall", "9780134494166", "29.90", "2017-09-10", "A craftsman's guide to software structure."},
		{"Refactoring", "Martin Fowler", "Addison-Wesley", "9780134757599", "42.00", "2018-11-20", "Improving the design of existing code."},
		{"The Pragmatic Programmer", "David Thomas", "Addison-Wesley", "9780135957059", "36.75", "2019-09-13", "Your journey to mastery."},
	}
	for _, item := range books {
		price, err := toMinorUnits(item.Price)
		if err != nil {
			stdLog.Printf("Skip book %s: %v", item.ISBN, err)
			continue
		}
		published, err := time.Parse("2006-01-02", item.Published)
		if err != nil {
			stdLog.Printf("Skip book %s: %v", item.ISBN, err)
			continue
		}
		book := models.Book{
			SellerID:        sellerID,
			Title:           item.Title,
			Author:          item.Author,
			Publisher:       item.Publisher,
			Summary:         item.Summary,
			ISBN:            item.ISBN,
			Price:           price,
			PublicationDate: published,
		}
		if err := db.Where("isbn = ?", book.ISBN).FirstOrCreate(&book).Error; err != nil {
			stdLog.Printf("Failed to seed book %s: %v", book.ISBN, err)
		}
	}

	// 优惠券
	now := time.Now()
	coupons := []models.Coupon{
		{Name: "WELCOME10", Description: "10% off your first order", DiscountRate: 10, StartAt: now.AddDate(0, 0, -1), EndAt: now.AddDate(0, 3, 0), IsActive: true},
		{Name: "SPRING25", Description: "Seasonal 25% discount", DiscountRate: 25, StartAt: now.AddDate(0, 0, -1), EndAt: now.AddDate(0, 1, 0), IsActive: true},
		{Name: "EXPIRED50", Description: "Expired campaign kept for testing", DiscountRate: 50, StartAt: now.AddDate(0, -2, 0), EndAt: now.AddDate(0, -1, 0), IsActive: true},
	}
	couponIDs := map[string]uint{}
	for _, coupon := range coupons {
		if err := db.Where("name = ?", coupon.Name).FirstOrCreate(&coupon).Error; err != nil {
			stdLog.Printf("Failed to seed coupon %s: %v", coupon.Name, err)
			continue
		}
		couponIDs[coupon.Name] = coupon.ID
	}

	// 发券
	grants := []struct {
		Email  string
		Coupon string
	}{
		{"alice@bookstore.local", "WELCOME10"},
		{"alice@bookstore.local", "SPRING25"},
		{"alice@bookstore.local", "EXPIRED50"},
		{"bob@bookstore.local", "WELCOME10"},
	}
	for _, grant := range grants {
		userID, couponID := userIDs[grant.Email], couponIDs[grant.Coupon]
		if userID == 0 || couponID == 0 {
			continue
		}
		record := models.UserCoupon{UserID: userID, CouponID: couponID}
		if err := db.Where("user_id = ? AND coupon_id = ?", userID, couponID).FirstOrCreate(&record).Error; err != nil {
			stdLog.Printf("Failed to issue %s to %s: %v", grant.Coupon, grant.Email, err)
		}
	}

	stdLog.Printf("Seed finished, demo password for all accounts: %s", demoPassword)
}

// toMinorUnits 把 "39.99" 转换为以分为单位的整数
func toMinorUnits(price string) (int64, error) {
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return 0, err
	}
	return amount.Shift(2).Round(0).IntPart(), nil
}
