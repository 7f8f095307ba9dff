package constants

// 订单状态常量
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// 用户角色常量
const (
	RoleCustomer = "CUSTOMER"
	RoleSeller   = "SELLER"
	RoleAdmin    = "ADMIN"
)

// 性别常量
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

// Token 类型常量
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// 排序方向常量
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// 订单状态变更来源
const (
	StatusSourceUser    = "user"
	StatusSourceTimeout = "timeout"
	StatusSourceAdmin   = "admin"
)

// 异步队列与任务类型
const (
	QueueDefault           = "default"
	QueueCritical          = "critical"
	TaskOrderStatusNotify  = "order:status_notify"
	TaskOrderTimeoutCancel = "order:timeout_cancel"
)

// IsValidRole 判断角色是否合法
func IsValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// IsValidOrderStatus 判断订单状态是否合法
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsValidGender 判断性别取值是否合法
func IsValidGender(gender string) bool {
	return gender == GenderMale || gender == GenderFemale
}
