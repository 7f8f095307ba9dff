package shared

import (
	"errors"

	"github.com/bookstore-next/internal/http/response"
	"github.com/bookstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 定义业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// RespondMappedError 按规则表输出业务错误，未命中时按兜底错误返回并记录日志。
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondBusinessError(c, rule.Code, rule.Key, err)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// ConcatMappedErrors 合并多组映射规则。
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// CommonErrorRules 通用权限错误
var CommonErrorRules = []MappedError{
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.forbidden"},
}

// AuthErrorRules 注册、登录、令牌相关错误
var AuthErrorRules = []MappedError{
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.invalid_email"},
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_already_exists"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrWeakPassword, Code: response.CodeBadRequest, Key: "error.validation_failed"},
	{Target: service.ErrInvalidToken, Code: response.CodeUnauthorized, Key: "error.invalid_token"},
	{Target: service.ErrTokenExpired, Code: response.CodeUnauthorized, Key: "error.token_expired"},
	{Target: service.ErrInvalidRole, Code: response.CodeBadRequest, Key: "error.invalid_role"},
	{Target: service.ErrInvalidGender, Code: response.CodeBadRequest, Key: "error.invalid_gender"},
	{Target: service.ErrInvalidBirthDate, Code: response.CodeBadRequest, Key: "error.invalid_birth_date"},
	{Target: service.ErrNameRequired, Code: response.CodeBadRequest, Key: "error.name_required"},
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
}

// UserErrorRules 用户资料相关错误
var UserErrorRules = []MappedError{
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrProfileUpdateEmpty, Code: response.CodeBadRequest, Key: "error.profile_update_empty"},
	{Target: service.ErrBookInUse, Code: response.CodeConflict, Key: "error.seller_books_ordered"},
}

// BookErrorRules 图书相关错误
var BookErrorRules = []MappedError{
	{Target: service.ErrBookNotFound, Code: response.CodeNotFound, Key: "error.book_not_found"},
	{Target: service.ErrBookFieldRequired, Code: response.CodeBadRequest, Key: "error.book_field_required"},
	{Target: service.ErrInvalidISBN, Code: response.CodeBadRequest, Key: "error.invalid_isbn"},
	{Target: service.ErrISBNExists, Code: response.CodeConflict, Key: "error.isbn_already_exists"},
	{Target: service.ErrInvalidPrice, Code: response.CodeBadRequest, Key: "error.invalid_price"},
	{Target: service.ErrInvalidDateRange, Code: response.CodeBadRequest, Key: "error.invalid_date_range"},
	{Target: service.ErrInvalidPriceRange, Code: response.CodeBadRequest, Key: "error.invalid_price_range"},
	{Target: service.ErrBookInUse, Code: response.CodeConflict, Key: "error.book_in_use"},
	{Target: service.ErrBookUpdateEmpty, Code: response.CodeBadRequest, Key: "error.book_update_empty"},
}

// CouponErrorRules 优惠券校验与发放错误
var CouponErrorRules = []MappedError{
	{Target: service.ErrCouponNotFound, Code: response.CodeNotFound, Key: "error.coupon_not_found"},
	{Target: service.ErrCouponInactive, Code: response.CodeUnprocessable, Key: "error.coupon_inactive"},
	{Target: service.ErrCouponNotStarted, Code: response.CodeUnprocessable, Key: "error.coupon_not_started"},
	{Target: service.ErrCouponExpired, Code: response.CodeUnprocessable, Key: "error.coupon_expired"},
	{Target: service.ErrCouponNotAvailable, Code: response.CodeUnprocessable, Key: "error.coupon_not_available"},
	{Target: service.ErrCouponAlreadyIssued, Code: response.CodeConflict, Key: "error.coupon_already_issued"},
	{Target: service.ErrInvalidDiscountRate, Code: response.CodeBadRequest, Key: "error.invalid_discount_rate"},
	{Target: service.ErrInvalidCouponWindow, Code: response.CodeBadRequest, Key: "error.invalid_coupon_window"},
	{Target: service.ErrCouponNameRequired, Code: response.CodeBadRequest, Key: "error.coupon_name_required"},
}

// OrderErrorRules 订单相关错误
var OrderErrorRules = []MappedError{
	{Target: service.ErrInvalidOrderItem, Code: response.CodeBadRequest, Key: "error.invalid_order_item"},
	{Target: service.ErrInvalidQuantity, Code: response.CodeBadRequest, Key: "error.invalid_quantity"},
	{Target: service.ErrShippingAddressRequired, Code: response.CodeBadRequest, Key: "error.shipping_address_required"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderNotCancelable, Code: response.CodeUnprocessable, Key: "error.order_not_cancelable"},
	{Target: service.ErrInvalidOrderStatus, Code: response.CodeUnprocessable, Key: "error.invalid_order_status"},
}

// ReviewErrorRules 评价与评论相关错误
var ReviewErrorRules = []MappedError{
	{Target: service.ErrReviewNotFound, Code: response.CodeNotFound, Key: "error.review_not_found"},
	{Target: service.ErrReviewExists, Code: response.CodeConflict, Key: "error.duplicate_resource"},
	{Target: service.ErrReviewRequiresPurchase, Code: response.CodeUnprocessable, Key: "error.review_requires_purchase"},
	{Target: service.ErrInvalidRating, Code: response.CodeBadRequest, Key: "error.invalid_rating"},
	{Target: service.ErrInvalidReviewContent, Code: response.CodeBadRequest, Key: "error.invalid_review_content"},
	{Target: service.ErrReviewUpdateEmpty, Code: response.CodeBadRequest, Key: "error.review_update_empty"},
	{Target: service.ErrCommentNotFound, Code: response.CodeNotFound, Key: "error.comment_not_found"},
	{Target: service.ErrParentCommentNotFound, Code: response.CodeNotFound, Key: "error.parent_comment_not_found"},
	{Target: service.ErrInvalidParentComment, Code: response.CodeBadRequest, Key: "error.invalid_parent_comment"},
	{Target: service.ErrInvalidCommentContent, Code: response.CodeBadRequest, Key: "error.invalid_comment_content"},
}

// ShelfErrorRules 购物车与收藏相关错误
var ShelfErrorRules = []MappedError{
	{Target: service.ErrCartItemNotFound, Code: response.CodeNotFound, Key: "error.cart_item_not_found"},
	{Target: service.ErrAlreadyInFavorites, Code: response.CodeConflict, Key: "error.already_in_favorites"},
	{Target: service.ErrFavoriteNotFound, Code: response.CodeNotFound, Key: "error.favorite_not_found"},
}
