package repository

import "time"

// UserListFilter 管理端用户列表过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Role     string
	Keyword  string
}

// BookListFilter 图书检索过滤条件
type BookListFilter struct {
	Page          int
	PageSize      int
	Keyword       string
	Author        string
	Publisher     string
	ISBN          string
	SellerID      uint
	MinPrice      *int64
	MaxPrice      *int64
	PublishedFrom *time.Time
	PublishedTo   *time.Time
	SortBy        string
	SortOrder     string
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page      int
	PageSize  int
	UserID    uint
	Status    string
	SortBy    string
	SortOrder string
}

// CouponListFilter 管理端优惠券列表过滤条件
type CouponListFilter struct {
	Page     int
	PageSize int
	IsActive *bool
}

// UserCouponListFilter 用户持券列表过滤条件
type UserCouponListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	IsUsed   *bool
}

// ReviewListFilter 评价列表过滤条件
type ReviewListFilter struct {
	Page      int
	PageSize  int
	BookID    uint
	UserID    uint
	MinRating int
	SortBy    string
	SortOrder string
}

// CommentListFilter 评论列表过滤条件
type CommentListFilter struct {
	Page     int
	PageSize int
	ReviewID uint
	UserID   uint
}

// CouponIssueStat 优惠券发放统计
type CouponIssueStat struct {
	CouponID    uint
	IssuedCount int64
	UsedCount   int64
}

// PurchasedBookRow 已购图书原始行
type PurchasedBookRow struct {
	BookID  uint
	OrderID uint
}

// StatsOverviewRow 管理端统计原始结果
type StatsOverviewRow struct {
	TotalUsers      int64
	TotalBooks      int64
	TotalOrders     int64
	TotalRevenue    int64
	PendingOrders   int64
	DeliveredOrders int64
}
