package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/queue"
	"github.com/bookstore-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultMaxItemQuantity = 99

// OrderService 订单服务
type OrderService struct {
	db             *gorm.DB
	orderRepo      repository.OrderRepository
	bookRepo       repository.BookRepository
	couponRepo     repository.CouponRepository
	userCouponRepo repository.UserCouponRepository
	queueClient    *queue.Client
	options        config.OrderConfig
}

// NewOrderService 创建订单服务
func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, bookRepo repository.BookRepository, couponRepo repository.CouponRepository, userCouponRepo repository.UserCouponRepository, queueClient *queue.Client, options config.OrderConfig) *OrderService {
	return &OrderService{
		db:             db,
		orderRepo:      orderRepo,
		bookRepo:       bookRepo,
		couponRepo:     couponRepo,
		userCouponRepo: userCouponRepo,
		queueClient:    queueClient,
		options:        options,
	}
}

// CreateOrderItem 下单项输入
type CreateOrderItem struct {
	BookID   uint
	Quantity int
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	UserID          uint
	Items           []CreateOrderItem
	CouponID        *uint
	ShippingAddress string
}

// OrderLineQuote 订单行报价
type OrderLineQuote struct {
	BookID       uint   `json:"book_id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Quantity     int    `json:"quantity"`
	UnitPrice    int64  `json:"unit_price"`
	LineSubtotal int64  `json:"line_subtotal"`
}

// OrderQuote 订单报价
type OrderQuote struct {
	Lines    []OrderLineQuote `json:"lines"`
	Subtotal int64            `json:"subtotal"`
}

// CouponDiscount 优惠券校验结果
type CouponDiscount struct {
	Grant  *models.UserCoupon
	Coupon *models.Coupon
	Amount int64
	Label  string
}

// OrderLineView 订单行展示
type OrderLineView struct {
	ID           uint   `json:"id"`
	BookID       uint   `json:"book_id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Quantity     int    `json:"quantity"`
	UnitPrice    int64  `json:"unit_price"`
	LineSubtotal int64  `json:"line_subtotal"`
}

// OrderDetail 订单展示（含券名与订单行）
type OrderDetail struct {
	models.Order
	CouponLabel *string         `json:"coupon_label"`
	Items       []OrderLineView `json:"items"`
}

// CalculateTotals 解析图书当前价格并计算小计
func (s *OrderService) CalculateTotals(items []CreateOrderItem) (*OrderQuote, error) {
	if len(items) == 0 {
		return nil, ErrInvalidOrderItem
	}
	maxQuantity := s.maxItemQuantity()
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if item.BookID == 0 {
			return nil, ErrInvalidOrderItem
		}
		if item.Quantity < 1 || item.Quantity > maxQuantity {
			return nil, withDetails(ErrInvalidQuantity, "book_id", item.BookID, "quantity", item.Quantity, "max", maxQuantity)
		}
		ids = append(ids, item.BookID)
	}

	books, err := s.bookRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	bookMap := make(map[uint]models.Book, len(books))
	for _, book := range books {
		bookMap[book.ID] = book
	}

	quote := &OrderQuote{Lines: make([]OrderLineQuote, 0, len(items))}
	for _, item := range items {
		book, ok := bookMap[item.BookID]
		if !ok {
			return nil, withDetails(ErrBookNotFound, "book_id", item.BookID)
		}
		line := OrderLineQuote{
			BookID:       book.ID,
			Title:        book.Title,
			Author:       book.Author,
			Quantity:     item.Quantity,
			UnitPrice:    book.Price,
			LineSubtotal: book.Price * int64(item.Quantity),
		}
		quote.Subtotal += line.LineSubtotal
		quote.Lines = append(quote.Lines, line)
	}
	return quote, nil
}

// ValidateCoupon 校验用户持券并计算折扣，couponID 为空时返回 nil
func (s *OrderService) ValidateCoupon(userID uint, couponID *uint, subtotal int64, now time.Time) (*CouponDiscount, error) {
	if couponID == nil || *couponID == 0 {
		return nil, nil
	}
	coupon, err := s.couponRepo.GetByID(*couponID)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, withDetails(ErrCouponNotFound, "coupon_id", *couponID)
	}
	if !coupon.IsActive {
		return nil, ErrCouponInactive
	}
	if now.Before(coupon.StartAt) {
		return nil, withDetails(ErrCouponNotStarted, "start_at", coupon.StartAt)
	}
	if now.After(coupon.EndAt) {
		return nil, withDetails(ErrCouponExpired, "end_at", coupon.EndAt)
	}
	grant, err := s.userCouponRepo.GetByUserAndCoupon(userID, coupon.ID)
	if err != nil {
		return nil, err
	}
	if grant == nil || grant.IsUsed {
		return nil, ErrCouponNotAvailable
	}
	return &CouponDiscount{
		Grant:  grant,
		Coupon: coupon,
		Amount: calculateDiscount(subtotal, coupon.DiscountRate),
		Label:  coupon.Name,
	}, nil
}

// OrderPreview 下单前金额预览
type OrderPreview struct {
	Lines          []OrderLineQuote `json:"lines"`
	Subtotal       int64            `json:"subtotal"`
	DiscountAmount int64            `json:"discount_amount"`
	FinalTotal     int64            `json:"final_total"`
	CouponLabel    *string          `json:"coupon_label"`
}

// PreviewOrder 计算金额并校验优惠券，不写库
func (s *OrderService) PreviewOrder(userID uint, items []CreateOrderItem, couponID *uint) (*OrderPreview, error) {
	quote, err := s.CalculateTotals(items)
	if err != nil {
		return nil, err
	}
	discount, err := s.ValidateCoupon(userID, couponID, quote.Subtotal, time.Now())
	if err != nil {
		return nil, err
	}
	preview := &OrderPreview{
		Lines:      quote.Lines,
		Subtotal:   quote.Subtotal,
		FinalTotal: quote.Subtotal,
	}
	if discount != nil {
		label := discount.Label
		preview.DiscountAmount = discount.Amount
		preview.FinalTotal = finalTotal(quote.Subtotal, discount.Amount)
		preview.CouponLabel = &label
	}
	return preview, nil
}

// CreateOrder 创建订单：订单头、订单行与用券标记在同一事务内提交
func (s *OrderService) CreateOrder(input CreateOrderInput) (*OrderDetail, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidOrderItem
	}
	address := strings.TrimSpace(input.ShippingAddress)
	if address == "" {
		return nil, ErrShippingAddressRequired
	}
	quote, err := s.CalculateTotals(input.Items)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	discount, err := s.ValidateCoupon(input.UserID, input.CouponID, quote.Subtotal, now)
	if err != nil {
		return nil, err
	}

	var discountAmount int64
	if discount != nil {
		discountAmount = discount.Amount
	}
	order := &models.Order{
		OrderNo:         s.generateOrderNo(now),
		UserID:          input.UserID,
		Status:          constants.OrderStatusPending,
		Subtotal:        quote.Subtotal,
		DiscountAmount:  discountAmount,
		FinalTotal:      finalTotal(quote.Subtotal, discountAmount),
		ShippingAddress: address,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	items := make([]models.OrderItem, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		items = append(items, models.OrderItem{
			BookID:          line.BookID,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.UnitPrice,
			CreatedAt:       now,
		})
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Create(order, items); err != nil {
			return err
		}
		if discount == nil {
			return nil
		}
		affected, err := s.userCouponRepo.WithTx(tx).MarkUsed(discount.Grant.ID, order.ID, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrCouponNotAvailable
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCouponNotAvailable) {
			logger.Warnw("order_coupon_grant_conflict",
				"user_id", input.UserID,
				"coupon_id", discount.Coupon.ID,
				"grant_id", discount.Grant.ID,
			)
			return nil, ErrCouponNotAvailable
		}
		logger.Errorw("order_create_failed",
			"user_id", input.UserID,
			"order_no", order.OrderNo,
			"error", err,
		)
		return nil, ErrOrderCreateFailed
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"subtotal", order.Subtotal,
		"discount_amount", order.DiscountAmount,
		"final_total", order.FinalTotal,
	)
	s.scheduleTimeoutCancel(order)

	full, err := s.orderRepo.GetByID(order.ID)
	if err != nil || full == nil {
		return s.buildOrderDetail(order)
	}
	return s.buildOrderDetail(full)
}

// GetOrder 获取订单详情，仅本人或管理员可见
func (s *OrderService) GetOrder(orderID, userID uint, isAdmin bool) (*OrderDetail, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isAdmin && order.UserID != userID {
		return nil, ErrForbidden
	}
	return s.buildOrderDetail(order)
}

// ListOrdersByUser 用户订单列表
func (s *OrderService) ListOrdersByUser(filter repository.OrderListFilter) ([]OrderDetail, int64, error) {
	if filter.Status != "" {
		filter.Status = normalizeOrderStatus(filter.Status)
		if !constants.IsValidOrderStatus(filter.Status) {
			return nil, 0, ErrInvalidOrderStatus
		}
	}
	orders, total, err := s.orderRepo.ListByUser(filter)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	details, err := s.buildOrderDetails(orders)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return details, total, nil
}

// ListOrdersForAdmin 管理端订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]OrderDetail, int64, error) {
	if filter.Status != "" {
		filter.Status = normalizeOrderStatus(filter.Status)
		if !constants.IsValidOrderStatus(filter.Status) {
			return nil, 0, ErrInvalidOrderStatus
		}
	}
	orders, total, err := s.orderRepo.ListAdmin(filter)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	details, err := s.buildOrderDetails(orders)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return details, total, nil
}

// CancelOrder 用户取消订单，释放占用的优惠券
func (s *OrderService) CancelOrder(orderID, userID uint) (*OrderDetail, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	if !isOrderCancelable(order.Status) {
		return nil, withDetails(ErrOrderNotCancelable, "status", order.Status)
	}
	from := order.Status
	if err := s.cancelOrder(order); err != nil {
		return nil, err
	}
	s.notifyStatusChange(order, from, constants.StatusSourceUser)
	return s.buildOrderDetail(order)
}

// UpdateOrderStatus 管理端更新订单状态，按流转表校验
func (s *OrderService) UpdateOrderStatus(orderID uint, targetStatus string) (*OrderDetail, error) {
	target := normalizeOrderStatus(targetStatus)
	if !constants.IsValidOrderStatus(target) {
		return nil, withDetails(ErrInvalidOrderStatus, "to", targetStatus)
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	from := order.Status
	if !isTransitionAllowed(from, target) {
		return nil, withDetails(ErrInvalidOrderStatus, "from", from, "to", target)
	}

	if target == constants.OrderStatusCancelled {
		if err := s.cancelOrder(order); err != nil {
			return nil, err
		}
	} else {
		affected, err := s.orderRepo.UpdateStatus(order.ID, from, target, nil)
		if err != nil {
			return nil, ErrOrderUpdateFailed
		}
		if affected == 0 {
			return nil, withDetails(ErrInvalidOrderStatus, "from", from, "to", target)
		}
		order.Status = target
		order.UpdatedAt = time.Now()
	}
	s.notifyStatusChange(order, from, constants.StatusSourceAdmin)
	return s.buildOrderDetail(order)
}

// CancelExpiredOrder 超时取消仍处于待确认的订单
func (s *OrderService) CancelExpiredOrder(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending {
		return order, nil
	}
	expireMinutes := s.options.PendingExpireMinutes
	if expireMinutes <= 0 {
		return order, nil
	}
	if order.CreatedAt.Add(time.Duration(expireMinutes) * time.Minute).After(time.Now()) {
		return order, nil
	}
	if err := s.cancelOrder(order); err != nil {
		return nil, err
	}
	logger.Infow("order_timeout_cancelled", "order_id", order.ID, "order_no", order.OrderNo)
	s.notifyStatusChange(order, constants.OrderStatusPending, constants.StatusSourceTimeout)
	return order, nil
}

func (s *OrderService) cancelOrder(order *models.Order) error {
	if order == nil {
		return ErrOrderNotFound
	}
	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		affected, err := s.orderRepo.WithTx(tx).UpdateStatus(order.ID, order.Status, constants.OrderStatusCancelled, map[string]interface{}{
			"cancelled_at": now,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderNotCancelable
		}
		if _, err := s.userCouponRepo.WithTx(tx).ReleaseByOrder(order.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotCancelable) {
			return ErrOrderNotCancelable
		}
		logger.Errorw("order_cancel_failed", "order_id", order.ID, "error", err)
		return ErrOrderUpdateFailed
	}
	order.Status = constants.OrderStatusCancelled
	order.CancelledAt = &now
	order.UpdatedAt = now
	return nil
}

func (s *OrderService) scheduleTimeoutCancel(order *models.Order) {
	if s.queueClient == nil || !s.queueClient.Enabled() || s.options.PendingExpireMinutes <= 0 {
		return
	}
	delay := time.Duration(s.options.PendingExpireMinutes) * time.Minute
	if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{OrderID: order.ID}, delay); err != nil {
		logger.Warnw("order_enqueue_timeout_cancel_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"error", err,
		)
	}
}

func (s *OrderService) buildOrderDetail(order *models.Order) (*OrderDetail, error) {
	details, err := s.buildOrderDetails([]models.Order{*order})
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	return &details[0], nil
}

func (s *OrderService) buildOrderDetails(orders []models.Order) ([]OrderDetail, error) {
	result := make([]OrderDetail, 0, len(orders))
	if len(orders) == 0 {
		return result, nil
	}
	ids := make([]uint, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}
	grants, err := s.userCouponRepo.ListByOrderIDs(ids)
	if err != nil {
		return nil, err
	}
	labels := make(map[uint]string, len(grants))
	for _, grant := range grants {
		if grant.OrderID == nil || grant.Coupon == nil {
			continue
		}
		labels[*grant.OrderID] = grant.Coupon.Name
	}

	for _, order := range orders {
		detail := OrderDetail{Order: order, Items: make([]OrderLineView, 0, len(order.Items))}
		if label, ok := labels[order.ID]; ok {
			value := label
			detail.CouponLabel = &value
		}
		for _, item := range order.Items {
			line := OrderLineView{
				ID:           item.ID,
				BookID:       item.BookID,
				Quantity:     item.Quantity,
				UnitPrice:    item.PriceAtPurchase,
				LineSubtotal: item.LineTotal(),
			}
			if item.Book != nil {
				line.Title = item.Book.Title
				line.Author = item.Book.Author
			}
			detail.Items = append(detail.Items, line)
		}
		result = append(result, detail)
	}
	return result, nil
}

// maxItemQuantity 配置只能收紧单行数量上限，不能超过 99
func (s *OrderService) maxItemQuantity() int {
	if limit := s.options.MaxItemQuantity; limit > 0 && limit < defaultMaxItemQuantity {
		return limit
	}
	return defaultMaxItemQuantity
}

func (s *OrderService) generateOrderNo(now time.Time) string {
	prefix := strings.TrimSpace(s.options.OrderNoPrefix)
	if prefix == "" {
		prefix = "BK"
	}
	return fmt.Sprintf("%s%s%s", prefix, now.Format("20060102150405"), randNumeric(6))
}

// calculateDiscount 折扣 = floor(subtotal × rate / 100)
func calculateDiscount(subtotal int64, rate int) int64 {
	if subtotal <= 0 || rate <= 0 {
		return 0
	}
	amount := decimal.NewFromInt(subtotal).
		Mul(decimal.NewFromInt(int64(rate))).
		Div(decimal.NewFromInt(100)).
		Floor()
	return amount.IntPart()
}

func finalTotal(subtotal, discount int64) int64 {
	total := subtotal - discount
	if total < 0 {
		return 0
	}
	return total
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
