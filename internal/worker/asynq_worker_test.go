package worker

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/provider"
	"github.com/bookstore-next/internal/queue"
	"github.com/bookstore-next/internal/repository"
	"github.com/bookstore-next/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openWorkerTestDB(t *testing.T) *gorm.DB {
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

func newTimeoutConsumer(t *testing.T) (*Consumer, *gorm.DB, *models.User) {
	t.Helper()
	db := openWorkerTestDB(t)
	user := &models.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Name:         "buyer",
		Gender:       constants.GenderMale,
		Address:      "Incheon",
		Role:         constants.RoleCustomer,
	}
	require.NoError(t, db.Create(user).Error)

	orderService := service.NewOrderService(
		db,
		repository.NewOrderRepository(db),
		repository.NewBookRepository(db),
		repository.NewCouponRepository(db),
		repository.NewUserCouponRepository(db),
		nil,
		config.OrderConfig{PendingExpireMinutes: 30, OrderNoPrefix: "BK", MaxItemQuantity: 99},
	)
	return NewConsumer(&provider.Container{OrderService: orderService}), db, user
}

func seedPendingOrder(t *testing.T, db *gorm.DB, userID uint, orderNo string, createdAt time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:         orderNo,
		UserID:          userID,
		Status:          constants.OrderStatusPending,
		Subtotal:        1000,
		FinalTotal:      1000,
		ShippingAddress: "Incheon",
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func timeoutTask(t *testing.T, orderID uint) *asynq.Task {
	t.Helper()
	task, err := queue.NewOrderTimeoutCancelTask(queue.OrderTimeoutCancelPayload{OrderID: orderID})
	require.NoError(t, err)
	return task
}

func TestHandleOrderTimeoutCancelCancelsExpiredOrder(t *testing.T) {
	consumer, db, user := newTimeoutConsumer(t)
	expired := seedPendingOrder(t, db, user.ID, "BK-EXPIRED", time.Now().Add(-2*time.Hour))
	fresh := seedPendingOrder(t, db, user.ID, "BK-FRESH", time.Now())

	require.NoError(t, consumer.handleOrderTimeoutCancel(context.Background(), timeoutTask(t, expired.ID)))
	require.NoError(t, consumer.handleOrderTimeoutCancel(context.Background(), timeoutTask(t, fresh.ID)))

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, expired.ID).Error)
	assert.Equal(t, constants.OrderStatusCancelled, reloaded.Status)
	assert.NotNil(t, reloaded.CancelledAt)

	reloaded = models.Order{}
	require.NoError(t, db.First(&reloaded, fresh.ID).Error)
	assert.Equal(t, constants.OrderStatusPending, reloaded.Status)
}

func TestHandleOrderTimeoutCancelSkipsMissingOrder(t *testing.T) {
	consumer, _, _ := newTimeoutConsumer(t)
	assert.NoError(t, consumer.handleOrderTimeoutCancel(context.Background(), timeoutTask(t, 9999)))
}

func TestHandlersToleratePartialConsumer(t *testing.T) {
	consumer := NewConsumer(nil)
	task, err := queue.NewOrderStatusNotifyTask(queue.OrderStatusNotifyPayload{OrderID: 1, Status: constants.OrderStatusShipped})
	require.NoError(t, err)

	assert.NoError(t, consumer.handleOrderStatusNotify(context.Background(), task))
	assert.NoError(t, consumer.handleOrderTimeoutCancel(context.Background(), timeoutTask(t, 1)))
	assert.Error(t, consumer.handleOrderTimeoutCancel(context.Background(), asynq.NewTask(queue.TaskOrderTimeoutCancel, []byte("{"))))
}
