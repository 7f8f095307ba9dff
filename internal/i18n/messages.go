package i18n

var messages = map[string]map[string]string{
	LocaleZH: {
		"success": "成功",

		"error.bad_request":            "请求参数错误",
		"error.validation_failed":      "参数校验失败",
		"error.invalid_id":             "ID 格式不正确",
		"error.unauthorized":           "未登录或登录已失效",
		"error.forbidden":              "无权执行此操作",
		"error.not_found":              "资源不存在",
		"error.internal_server_error":  "服务器内部错误",
		"error.too_many_requests":      "请求过于频繁，请 %d 秒后再试",
		"error.rate_limit_unavailable": "限流服务暂不可用",
		"error.user_id_invalid":        "用户 ID 无效",
		"error.user_id_type_invalid":   "用户 ID 类型错误",

		"error.auth_header_missing":     "缺少认证信息",
		"error.auth_header_invalid":     "认证信息格式错误",
		"error.invalid_token":           "令牌无效",
		"error.token_expired":           "令牌已过期",
		"error.token_revoked":           "令牌已失效，请重新登录",
		"error.invalid_credentials":     "邮箱或密码错误",
		"error.email_already_exists":    "该邮箱已注册",
		"error.invalid_email":           "邮箱格式不正确",
		"error.password_min_length":     "密码长度至少 %d 位",
		"error.password_max_length":     "密码长度不能超过 %d 位",
		"error.password_require_letter": "密码必须包含字母",
		"error.password_require_number": "密码必须包含数字",
		"error.invalid_role":            "角色不合法",
		"error.invalid_gender":          "性别取值不合法",
		"error.invalid_birth_date":      "生日不合法",
		"error.name_required":           "姓名不能为空",
		"error.profile_update_empty":    "没有需要更新的资料",
		"error.user_not_found":          "用户不存在",
		"error.captcha_required":        "请输入验证码",
		"error.captcha_invalid":         "验证码错误",
		"error.captcha_unavailable":     "验证码暂不可用",

		"error.book_not_found":       "图书不存在",
		"error.book_field_required":  "书名、作者、出版社与出版日期不能为空",
		"error.invalid_isbn":         "ISBN 必须为 10 位或 13 位",
		"error.isbn_already_exists":  "ISBN 已存在",
		"error.invalid_price":        "价格必须大于 0",
		"error.invalid_date_range":   "开始日期不能晚于结束日期",
		"error.invalid_price_range":  "最低价不能高于最高价",
		"error.book_in_use":          "图书已有订单，不能删除",
		"error.seller_books_ordered": "名下图书已有他人订单，无法注销账号",
		"error.book_update_empty":    "没有需要更新的字段",

		"error.coupon_not_found":      "优惠券不存在",
		"error.coupon_inactive":       "优惠券未启用",
		"error.coupon_not_started":    "优惠券尚未生效",
		"error.coupon_expired":        "优惠券已过期",
		"error.coupon_not_available":  "优惠券不可用",
		"error.coupon_already_issued": "该用户已领取此优惠券",
		"error.invalid_discount_rate": "折扣比例需在 1 到 99 之间",
		"error.invalid_coupon_window": "生效时间必须早于失效时间",
		"error.coupon_name_required":  "优惠券名称不能为空",
		"error.coupon_create_failed":  "优惠券创建失败",
		"error.coupon_issue_failed":   "优惠券发放失败",

		"error.invalid_order_item":        "订单项不能为空",
		"error.invalid_quantity":          "数量超出允许范围",
		"error.shipping_address_required": "收货地址不能为空",
		"error.order_not_found":           "订单不存在",
		"error.order_not_cancelable":      "当前订单状态不可取消",
		"error.invalid_order_status":      "订单状态变更不合法",
		"error.order_create_failed":       "订单创建失败",
		"error.order_update_failed":       "订单更新失败",
		"error.order_fetch_failed":        "订单查询失败",

		"error.review_not_found":         "评价不存在",
		"error.duplicate_resource":       "资源已存在",
		"error.review_requires_purchase": "只有已收货的图书才能评价",
		"error.invalid_rating":           "评分需在 1 到 5 之间",
		"error.invalid_review_content":   "评价内容需为 10 到 2000 字",
		"error.review_update_empty":      "没有需要更新的字段",
		"error.comment_not_found":        "评论不存在",
		"error.parent_comment_not_found": "回复的评论不存在",
		"error.invalid_parent_comment":   "回复的评论不属于该评价",
		"error.invalid_comment_content":  "评论内容需为 1 到 1000 字",

		"error.cart_item_not_found":  "购物车项不存在",
		"error.already_in_favorites": "已在收藏中",
		"error.favorite_not_found":   "收藏不存在",

		"error.role_invalid":          "角色名称不合法",
		"error.policy_invalid":        "策略参数不合法",
		"error.builtin_role_readonly": "预置角色不可删除",
		"error.authz_failed":          "权限校验失败",
	},
	LocaleEN: {
		"success": "success",

		"error.bad_request":            "Bad request",
		"error.validation_failed":      "Validation failed",
		"error.invalid_id":             "Invalid id",
		"error.unauthorized":           "Authentication required",
		"error.forbidden":              "You are not allowed to perform this action",
		"error.not_found":              "Resource not found",
		"error.internal_server_error":  "Internal server error",
		"error.too_many_requests":      "Too many requests, retry in %d seconds",
		"error.rate_limit_unavailable": "Rate limiter is temporarily unavailable",
		"error.user_id_invalid":        "Invalid user id",
		"error.user_id_type_invalid":   "Invalid user id type",

		"error.auth_header_missing":     "Missing authorization header",
		"error.auth_header_invalid":     "Malformed authorization header",
		"error.invalid_token":           "Invalid token",
		"error.token_expired":           "Token expired",
		"error.token_revoked":           "Token revoked, please sign in again",
		"error.invalid_credentials":     "Invalid email or password",
		"error.email_already_exists":    "Email already registered",
		"error.invalid_email":           "Invalid email",
		"error.password_min_length":     "Password must be at least %d characters",
		"error.password_max_length":     "Password must be at most %d characters",
		"error.password_require_letter": "Password must contain a letter",
		"error.password_require_number": "Password must contain a number",
		"error.invalid_role":            "Invalid role",
		"error.invalid_gender":          "Invalid gender",
		"error.invalid_birth_date":      "Invalid birth date",
		"error.name_required":           "Name is required",
		"error.profile_update_empty":    "Nothing to update",
		"error.user_not_found":          "User not found",
		"error.captcha_required":        "Captcha required",
		"error.captcha_invalid":         "Captcha invalid",
		"error.captcha_unavailable":     "Captcha unavailable",

		"error.book_not_found":       "Book not found",
		"error.book_field_required":  "Title, author, publisher and publication date are required",
		"error.invalid_isbn":         "ISBN must have 10 or 13 digits",
		"error.isbn_already_exists":  "ISBN already exists",
		"error.invalid_price":        "Price must be greater than 0",
		"error.invalid_date_range":   "Start date must not be after end date",
		"error.invalid_price_range":  "Minimum price must not exceed maximum price",
		"error.book_in_use":          "Book is referenced by orders",
		"error.seller_books_ordered": "Books you sell are referenced by other customers' orders; the account cannot be deleted",
		"error.book_update_empty":    "Nothing to update",

		"error.coupon_not_found":      "Coupon not found",
		"error.coupon_inactive":       "Coupon is inactive",
		"error.coupon_not_started":    "Coupon is not yet valid",
		"error.coupon_expired":        "Coupon expired",
		"error.coupon_not_available":  "Coupon not available",
		"error.coupon_already_issued": "Coupon already issued to this user",
		"error.invalid_discount_rate": "Discount rate must be between 1 and 99",
		"error.invalid_coupon_window": "start_at must be before end_at",
		"error.coupon_name_required":  "Coupon name is required",
		"error.coupon_create_failed":  "Failed to create coupon",
		"error.coupon_issue_failed":   "Failed to issue coupon",

		"error.invalid_order_item":        "Order items are required",
		"error.invalid_quantity":          "Quantity out of range",
		"error.shipping_address_required": "Shipping address is required",
		"error.order_not_found":           "Order not found",
		"error.order_not_cancelable":      "Order cannot be cancelled in its current status",
		"error.invalid_order_status":      "Order status transition not allowed",
		"error.order_create_failed":       "Failed to create order",
		"error.order_update_failed":       "Failed to update order",
		"error.order_fetch_failed":        "Failed to fetch orders",

		"error.review_not_found":         "Review not found",
		"error.duplicate_resource":       "Resource already exists",
		"error.review_requires_purchase": "Only delivered purchases can be reviewed",
		"error.invalid_rating":           "Rating must be between 1 and 5",
		"error.invalid_review_content":   "Review content must be 10 to 2000 characters",
		"error.review_update_empty":      "Nothing to update",
		"error.comment_not_found":        "Comment not found",
		"error.parent_comment_not_found": "Parent comment not found",
		"error.invalid_parent_comment":   "Parent comment belongs to another review",
		"error.invalid_comment_content":  "Comment content must be 1 to 1000 characters",

		"error.cart_item_not_found":  "Cart item not found",
		"error.already_in_favorites": "Already in favorites",
		"error.favorite_not_found":   "Favorite not found",

		"error.role_invalid":          "Invalid role name",
		"error.policy_invalid":        "Invalid policy",
		"error.builtin_role_readonly": "Builtin roles cannot be deleted",
		"error.authz_failed":          "Authorization check failed",
	},
}
