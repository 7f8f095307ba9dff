package public

import (
	handlershared "github.com/bookstore-next/internal/http/handlers/shared"
	"github.com/bookstore-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

type mappedHandlerError = handlershared.MappedError

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	handlershared.RespondMappedError(c, err, rules, fallbackCode, fallbackKey)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	return handlershared.ConcatMappedErrors(groups...)
}

var authErrorRules = concatMappedHandlerErrors(handlershared.AuthErrorRules, handlershared.UserErrorRules)

var bookErrorRules = concatMappedHandlerErrors(handlershared.CommonErrorRules, handlershared.BookErrorRules)

var orderErrorRules = concatMappedHandlerErrors(
	handlershared.CommonErrorRules,
	handlershared.OrderErrorRules,
	handlershared.CouponErrorRules,
	handlershared.BookErrorRules,
)

var reviewErrorRules = concatMappedHandlerErrors(
	handlershared.CommonErrorRules,
	handlershared.ReviewErrorRules,
	handlershared.BookErrorRules,
)

var shelfErrorRules = concatMappedHandlerErrors(
	handlershared.CommonErrorRules,
	handlershared.ShelfErrorRules,
	handlershared.BookErrorRules,
	handlershared.OrderErrorRules,
)

func respondAuthError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, authErrorRules, response.CodeInternal, fallbackKey)
}

func respondBookError(c *gin.Context, err error) {
	respondWithMappedError(c, err, bookErrorRules, response.CodeInternal, "error.internal_server_error")
}

func respondOrderCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.order_create_failed")
}

func respondOrderUpdateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.order_update_failed")
}

func respondOrderFetchError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.order_fetch_failed")
}

func respondReviewError(c *gin.Context, err error) {
	respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.internal_server_error")
}

func respondShelfError(c *gin.Context, err error) {
	respondWithMappedError(c, err, shelfErrorRules, response.CodeInternal, "error.internal_server_error")
}
