package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 普通通知任务
	DefaultQueue = constants.QueueDefault
	// CriticalQueue 订单超时取消等影响库存与优惠券的任务
	CriticalQueue = constants.QueueCritical

	defaultConcurrency  = 10
	notifyMaxRetry      = 5
	timeoutCancelRetry  = 10
	timeoutCancelIDFmt  = "order-timeout-%d"
	defaultRedisHost    = "127.0.0.1"
	defaultRedisPort    = 6379
	criticalQueueWeight = 6
	defaultQueueWeight  = 3
)

// Client 订单任务投递端，未启用时所有投递为空操作
type Client struct {
	client *asynq.Client
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{client: asynq.NewClient(redisOpt(cfg))}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueOrderStatusNotify 投递订单状态变更通知
func (c *Client) EnqueueOrderStatusNotify(payload OrderStatusNotifyPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderStatusNotifyTask(payload)
	if err != nil {
		return err
	}
	base := []asynq.Option{asynq.Queue(DefaultQueue), asynq.MaxRetry(notifyMaxRetry)}
	return c.enqueue(task, append(base, opts...)...)
}

// EnqueueOrderTimeoutCancel 投递待确认订单的延时取消任务，同一订单只保留一个
func (c *Client) EnqueueOrderTimeoutCancel(payload OrderTimeoutCancelPayload, delay time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderTimeoutCancelTask(payload)
	if err != nil {
		return err
	}
	err = c.enqueue(task,
		asynq.Queue(CriticalQueue),
		asynq.ProcessIn(max(delay, 0)),
		asynq.MaxRetry(timeoutCancelRetry),
		asynq.TaskID(fmt.Sprintf(timeoutCancelIDFmt, payload.OrderID)),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func (c *Client) enqueue(task *asynq.Task, opts ...asynq.Option) error {
	info, err := c.client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	logger.Debugw("queue_task_enqueued", "type", task.Type(), "id", info.ID, "queue", info.Queue)
	return nil
}

// BuildServerConfig 生成 worker 端连接与并发配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: defaultConcurrency,
		Queues: map[string]int{
			CriticalQueue: criticalQueueWeight,
			DefaultQueue:  defaultQueueWeight,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Warnw("queue_task_failed", "type", task.Type(), "error", err)
		}),
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			serverCfg.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return redisOpt(cfg), serverCfg
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: fmt.Sprintf("%s:%d", defaultRedisHost, defaultRedisPort)}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = defaultRedisHost
	}
	port := cfg.Port
	if port <= 0 {
		port = defaultRedisPort
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
