package service

import (
	"testing"
	"time"

	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:           "test-secret-key-with-enough-length",
			Issuer:              "bookstore-test",
			AccessExpireMinutes: 30,
			RefreshExpireHours:  24,
		},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{
				MinLength:     8,
				MaxLength:     64,
				RequireLetter: true,
				RequireNumber: true,
			},
		},
	}
}

func newAuthService(t *testing.T) (*AuthService, *config.Config) {
	t.Helper()
	db := openServiceTestDB(t)
	cfg := newAuthTestConfig()
	svc := NewAuthService(cfg, repository.NewUserRepository(db), repository.NewRefreshTokenRepository(db), NewCaptchaService(cfg.Captcha))
	return svc, cfg
}

func TestValidatePasswordPolicy(t *testing.T) {
	policy := newAuthTestConfig().Security.PasswordPolicy
	cases := []struct {
		password string
		key      string
	}{
		{password: "a1", key: "error.password_min_length"},
		{password: "abcdefgh", key: "error.password_require_number"},
		{password: "12345678", key: "error.password_require_letter"},
		{password: "passw0rd", key: ""},
	}
	for _, tc := range cases {
		err := ValidatePassword(policy, tc.password)
		if tc.key == "" {
			assert.NoError(t, err, tc.password)
			continue
		}
		require.ErrorIs(t, err, ErrWeakPassword, tc.password)
		assert.Equal(t, tc.key, err.(passwordPolicyError).Key())
	}
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Signup(SignupInput{
		Email:    " Reader@Example.com ",
		Password: "passw0rd",
		Name:     "Reader",
		Gender:   "female",
		Role:     "seller",
	})
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", user.Email)
	assert.Equal(t, constants.RoleSeller, user.Role)
	assert.Equal(t, constants.GenderFemale, user.Gender)
	assert.NotEqual(t, "passw0rd", user.PasswordHash)

	_, err = svc.Signup(SignupInput{Email: "reader@example.com", Password: "passw0rd", Name: "Again"})
	assert.ErrorIs(t, err, ErrEmailExists)
	_, err = svc.Signup(SignupInput{Email: "boss@example.com", Password: "passw0rd", Name: "Boss", Role: "ADMIN"})
	assert.ErrorIs(t, err, ErrInvalidRole)
	_, err = svc.Signup(SignupInput{Email: "not-an-email", Password: "passw0rd", Name: "X"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, _, err = svc.Login("reader@example.com", "wrong-pass1", CaptchaVerifyPayload{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login("nobody@example.com", "passw0rd", CaptchaVerifyPayload{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	logged, pair, err := svc.Login("READER@example.com", "passw0rd", CaptchaVerifyPayload{})
	require.NoError(t, err)
	assert.NotNil(t, logged.LastLoginAt)

	claims, err := svc.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, constants.RoleSeller, claims.Role)
	assert.Equal(t, constants.TokenTypeAccess, claims.Type)

	// 刷新令牌不能当访问令牌使用
	_, err = svc.ParseAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshAndLogout(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.Signup(SignupInput{Email: "reader@example.com", Password: "passw0rd", Name: "Reader"})
	require.NoError(t, err)
	_, pair, err := svc.Login("reader@example.com", "passw0rd", CaptchaVerifyPayload{})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	_, err = svc.ParseAccessToken(refreshed.AccessToken)
	require.NoError(t, err)

	_, err = svc.Refresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, svc.Logout(pair.RefreshToken))
	require.NoError(t, svc.Logout(pair.RefreshToken))
	_, err = svc.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseExpiredToken(t *testing.T) {
	svc, cfg := newAuthService(t)
	past := time.Now().Add(-time.Hour)
	claims := UserClaims{
		UserID: 1,
		Type:   constants.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(past),
			IssuedAt:  jwt.NewNumericDate(past.Add(-time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWT.SecretKey))
	require.NoError(t, err)
	_, err = svc.ParseAccessToken(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, UserClaims{UserID: 1, Type: constants.TokenTypeAccess}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.ParseAccessToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCaptchaRequiredWhenSceneEnabled(t *testing.T) {
	captcha := NewCaptchaService(config.CaptchaConfig{Enabled: true, Scenes: config.CaptchaSceneConfig{Login: true}})
	assert.ErrorIs(t, captcha.Verify(CaptchaSceneLogin, CaptchaVerifyPayload{}), ErrCaptchaRequired)
	assert.ErrorIs(t, captcha.Verify(CaptchaSceneLogin, CaptchaVerifyPayload{CaptchaID: "missing", CaptchaCode: "abcde"}), ErrCaptchaInvalid)
	assert.NoError(t, captcha.Verify(CaptchaSceneSignup, CaptchaVerifyPayload{}))

	challenge, err := captcha.GenerateImageChallenge()
	require.NoError(t, err)
	assert.NotEmpty(t, challenge.CaptchaID)
	assert.NotEmpty(t, challenge.ImageBase64)
}

func TestUserProfileAndDelete(t *testing.T) {
	db := openServiceTestDB(t)
	reader := seedUser(t, db, "reader@example.com", constants.RoleCustomer)
	seller := seedUser(t, db, "seller@example.com", constants.RoleSeller)
	book := seedBook(t, db, seller.ID, "Dune", "9780441172719", 1500)
	svc := NewUserService(db, repository.NewUserRepository(db), newAuthTestConfig().Security.PasswordPolicy)

	_, err := svc.UpdateProfile(t.Context(), reader.ID, UpdateProfileInput{})
	assert.ErrorIs(t, err, ErrProfileUpdateEmpty)
	bad := "unknown"
	_, err = svc.UpdateProfile(t.Context(), reader.ID, UpdateProfileInput{Gender: &bad})
	assert.ErrorIs(t, err, ErrInvalidGender)

	name := "Renamed"
	password := "n3wpassword"
	updated, err := svc.UpdateProfile(t.Context(), reader.ID, UpdateProfileInput{Name: &name, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.NotEqual(t, "hash", updated.PasswordHash)

	order := &models.Order{OrderNo: "BK-DEL", UserID: reader.ID, Status: constants.OrderStatusDelivered, ShippingAddress: "x"}
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, db.Create(&models.OrderItem{OrderID: order.ID, BookID: book.ID, Quantity: 1, PriceAtPurchase: 1500}).Error)
	require.NoError(t, db.Create(&models.CartItem{UserID: reader.ID, BookID: book.ID, Quantity: 1}).Error)
	require.NoError(t, db.Create(&models.RefreshToken{UserID: reader.ID, TokenID: "jti-1", ExpiresAt: time.Now().Add(time.Hour)}).Error)

	require.NoError(t, svc.DeleteAccount(t.Context(), reader.ID))
	_, err = svc.GetProfile(reader.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, countRows(t, db, &models.Order{}))
	assert.Zero(t, countRows(t, db, &models.OrderItem{}))
	assert.Zero(t, countRows(t, db.Unscoped(), &models.CartItem{}))
	assert.Zero(t, countRows(t, db, &models.RefreshToken{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.Book{}))
}

func TestDeleteSellerAccountRemovesCatalogue(t *testing.T) {
	db := openServiceTestDB(t)
	seller := seedUser(t, db, "seller@example.com", constants.RoleSeller)
	reader := seedUser(t, db, "reader@example.com", constants.RoleCustomer)
	book := seedBook(t, db, seller.ID, "Dune", "9780441172719", 1500)
	other := seedBook(t, db, reader.ID, "Emma", "9780141439587", 900)
	svc := NewUserService(db, repository.NewUserRepository(db), newAuthTestConfig().Security.PasswordPolicy)

	order := &models.Order{OrderNo: "BK-SELL", UserID: reader.ID, Status: constants.OrderStatusDelivered, ShippingAddress: "x"}
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, db.Create(&models.OrderItem{OrderID: order.ID, BookID: book.ID, Quantity: 1, PriceAtPurchase: 1500}).Error)

	// 图书仍在他人订单中时拒绝注销，且不留下部分删除
	err := svc.DeleteAccount(t.Context(), seller.ID)
	require.ErrorIs(t, err, ErrBookInUse)
	assert.Equal(t, seller.ID, ErrorDetails(err)["user_id"])
	_, err = svc.GetProfile(seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), countRows(t, db, &models.Book{}))

	require.NoError(t, db.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error)
	require.NoError(t, db.Delete(order).Error)

	review := &models.Review{UserID: reader.ID, BookID: book.ID, Content: "A sweeping desert epic.", Rating: 5}
	require.NoError(t, repository.NewReviewRepository(db).Create(review))
	require.NoError(t, db.Create(&models.ReviewLike{ReviewID: review.ID, UserID: reader.ID}).Error)
	root := &models.Comment{ReviewID: review.ID, UserID: reader.ID, Content: "root"}
	require.NoError(t, db.Create(root).Error)
	require.NoError(t, db.Create(&models.Comment{ReviewID: review.ID, UserID: reader.ID, ParentCommentID: &root.ID, Content: "reply"}).Error)
	require.NoError(t, db.Create(&models.CartItem{UserID: reader.ID, BookID: book.ID, Quantity: 1}).Error)
	require.NoError(t, db.Create(&models.Favorite{UserID: reader.ID, BookID: book.ID}).Error)
	require.NoError(t, db.Create(&models.BookView{UserID: &reader.ID, BookID: book.ID, ViewedAt: time.Now()}).Error)

	require.NoError(t, svc.DeleteAccount(t.Context(), seller.ID))
	_, err = svc.GetProfile(seller.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	var remaining []models.Book
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, other.ID, remaining[0].ID)
	assert.Zero(t, countRows(t, db, &models.Review{}))
	assert.Zero(t, countRows(t, db, &models.ReviewLike{}))
	assert.Zero(t, countRows(t, db, &models.ReviewLikeCount{}))
	assert.Zero(t, countRows(t, db, &models.Comment{}))
	assert.Zero(t, countRows(t, db.Unscoped(), &models.CartItem{}))
	assert.Zero(t, countRows(t, db.Unscoped(), &models.Favorite{}))
	assert.Zero(t, countRows(t, db, &models.BookView{}))

	_, err = svc.GetProfile(reader.ID)
	assert.NoError(t, err)
}

func TestEnsureDefaultAdmin(t *testing.T) {
	svc, _ := newAuthService(t)

	user, created, err := svc.EnsureDefaultAdmin(" Admin@Example.com ", "adm1npass")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.Equal(t, constants.RoleAdmin, user.Role)

	again, created, err := svc.EnsureDefaultAdmin("admin@example.com", "adm1npass")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)

	_, _, err = svc.EnsureDefaultAdmin("other@example.com", "short")
	assert.Error(t, err)

	loggedIn, _, err := svc.Login("admin@example.com", "adm1npass", CaptchaVerifyPayload{})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}
