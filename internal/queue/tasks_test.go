package queue

import (
	"testing"

	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/constants"
)

func TestOrderStatusNotifyTaskRoundTrip(t *testing.T) {
	task, err := NewOrderStatusNotifyTask(OrderStatusNotifyPayload{
		OrderID: 12,
		UserID:  3,
		From:    constants.OrderStatusPending,
		Status:  constants.OrderStatusConfirmed,
		Source:  constants.StatusSourceAdmin,
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != constants.TaskOrderStatusNotify {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := ParseOrderStatusNotifyPayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.OrderID != 12 || payload.Status != constants.OrderStatusConfirmed {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueOrderStatusNotify(OrderStatusNotifyPayload{OrderID: 1}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op: %v", err)
	}
	if err := client.EnqueueOrderTimeoutCancel(OrderTimeoutCancelPayload{OrderID: 1}, 0); err != nil {
		t.Fatalf("disabled enqueue should be a no-op: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected redis addr: %s", opt.Addr)
	}
	if cfg.Concurrency != 10 {
		t.Fatalf("unexpected concurrency: %d", cfg.Concurrency)
	}
	if cfg.Queues[DefaultQueue] == 0 || cfg.Queues[CriticalQueue] == 0 {
		t.Fatalf("expected default and critical queues: %+v", cfg.Queues)
	}
}

func TestBuildServerConfigPrefersCritical(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: "queue", Port: 6380, DB: 2, Concurrency: 4})
	if opt.Addr != "queue:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 4 {
		t.Fatalf("unexpected concurrency: %d", cfg.Concurrency)
	}
	if cfg.Queues[CriticalQueue] <= cfg.Queues[DefaultQueue] {
		t.Fatalf("critical queue should outrank default: %+v", cfg.Queues)
	}
	if cfg.ErrorHandler == nil {
		t.Fatalf("expected error handler")
	}
}
