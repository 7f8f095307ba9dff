package service

import "errors"

// 认证与用户
var (
	ErrInvalidEmail        = errors.New("invalid email")
	ErrEmailExists         = errors.New("email already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrWeakPassword        = errors.New("password does not satisfy policy")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidGender       = errors.New("invalid gender")
	ErrInvalidBirthDate    = errors.New("invalid birth date")
	ErrNameRequired        = errors.New("name required")
	ErrProfileUpdateEmpty  = errors.New("no profile field to update")
	ErrCaptchaRequired     = errors.New("captcha required")
	ErrCaptchaInvalid      = errors.New("captcha invalid")
	ErrCaptchaConfigFailed = errors.New("captcha generate failed")
	ErrForbidden           = errors.New("forbidden")
)

// 图书
var (
	ErrBookNotFound      = errors.New("book not found")
	ErrBookFieldRequired = errors.New("book field required")
	ErrInvalidISBN       = errors.New("invalid isbn")
	ErrISBNExists        = errors.New("isbn already exists")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrInvalidPriceRange = errors.New("invalid price range")
	ErrBookInUse         = errors.New("book referenced by orders")
	ErrBookUpdateEmpty   = errors.New("no book field to update")
)

// 优惠券
var (
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponInactive      = errors.New("coupon inactive")
	ErrCouponNotStarted    = errors.New("coupon not yet valid")
	ErrCouponExpired       = errors.New("coupon expired")
	ErrCouponNotAvailable  = errors.New("coupon not available")
	ErrCouponAlreadyIssued = errors.New("coupon already issued")
	ErrInvalidDiscountRate = errors.New("invalid discount rate")
	ErrInvalidCouponWindow = errors.New("invalid coupon window")
	ErrCouponNameRequired  = errors.New("coupon name required")
	ErrCouponIssueFailed   = errors.New("coupon issue failed")
	ErrCouponCreateFailed  = errors.New("coupon create failed")
)

// 订单
var (
	ErrInvalidOrderItem        = errors.New("invalid order item")
	ErrInvalidQuantity         = errors.New("invalid quantity")
	ErrShippingAddressRequired = errors.New("shipping address required")
	ErrOrderNotFound           = errors.New("order not found")
	ErrOrderNotCancelable      = errors.New("order not cancelable")
	ErrInvalidOrderStatus      = errors.New("invalid order status transition")
	ErrOrderCreateFailed       = errors.New("order create failed")
	ErrOrderUpdateFailed       = errors.New("order update failed")
	ErrOrderFetchFailed        = errors.New("order fetch failed")
)

// 评价与评论
var (
	ErrReviewNotFound         = errors.New("review not found")
	ErrReviewExists           = errors.New("review already exists")
	ErrReviewRequiresPurchase = errors.New("review requires delivered purchase")
	ErrInvalidRating          = errors.New("invalid rating")
	ErrInvalidReviewContent   = errors.New("invalid review content")
	ErrReviewUpdateEmpty      = errors.New("no review field to update")
	ErrCommentNotFound        = errors.New("comment not found")
	ErrParentCommentNotFound  = errors.New("parent comment not found")
	ErrInvalidParentComment   = errors.New("parent comment belongs to another review")
	ErrInvalidCommentContent  = errors.New("invalid comment content")
)

// 购物车与收藏
var (
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrAlreadyInFavorites = errors.New("already in favorites")
	ErrFavoriteNotFound   = errors.New("favorite not found")
)

// DetailedError 携带结构化详情的业务错误
type DetailedError struct {
	Err     error
	Details map[string]interface{}
}

func (e *DetailedError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func withDetails(err error, kv ...interface{}) error {
	details := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		details[key] = kv[i+1]
	}
	return &DetailedError{Err: err, Details: details}
}

// ErrorDetails 提取错误携带的详情
func ErrorDetails(err error) map[string]interface{} {
	var detailed *DetailedError
	if errors.As(err, &detailed) && len(detailed.Details) > 0 {
		return detailed.Details
	}
	return nil
}
