package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type stubService struct {
	name     string
	startErr error
	stopped  bool
}

func (s *stubService) Name() string { return s.name }

func (s *stubService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	<-ctx.Done()
	return nil
}

func (s *stubService) Stop(context.Context) error {
	s.stopped = true
	return nil
}

func openAppTestDB(t *testing.T) *gorm.DB {
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

func TestRunnerStopsServicesAndRunsClosersInReverse(t *testing.T) {
	failing := &stubService{name: "failing", startErr: errors.New("bind failed")}
	idle := &stubService{name: "idle"}
	runner := NewRunner(failing, idle)

	var order []string
	runner.OnShutdown(func() error { order = append(order, "first"); return nil })
	runner.OnShutdown(func() error { order = append(order, "second"); return nil })

	err := runner.Run(context.Background(), time.Second, nil)
	assert.EqualError(t, err, "bind failed")
	assert.True(t, idle.stopped)
	assert.True(t, failing.stopped)
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestRunnerTreatsCancellationAsCleanExit(t *testing.T) {
	runner := NewRunner(&stubService{name: "idle"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, runner.Run(ctx, time.Second, nil))
}

func TestBuildRunnerModes(t *testing.T) {
	db := openAppTestDB(t)
	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: "0", Mode: "test"},
		JWT:    config.JWTConfig{SecretKey: "app-test-secret", AccessExpireMinutes: 5, RefreshExpireHours: 1},
	}

	runner, err := BuildRunner(cfg, db, ModeAPI)
	require.NoError(t, err)
	require.Len(t, runner.services, 1)
	assert.Equal(t, "http", runner.services[0].Name())

	_, err = BuildRunner(cfg, db, ModeWorker)
	assert.Error(t, err)

	runner, err = BuildRunner(cfg, db, ModeAll)
	require.NoError(t, err)
	assert.Len(t, runner.services, 1)

	_, err = BuildRunner(cfg, db, "bogus")
	assert.Error(t, err)
}

func TestNormalizeOptions(t *testing.T) {
	opts := normalizeOptions(Options{Mode: " API "})
	assert.Equal(t, ModeAPI, opts.Mode)
	assert.Equal(t, 10*time.Second, opts.ShutdownTimeout)
	assert.NotNil(t, opts.Logger)
	assert.True(t, IsValidMode("worker"))
	assert.False(t, IsValidMode("cron"))
}

func TestNewHTTPServiceAppliesTimeouts(t *testing.T) {
	svc := NewHTTPService(config.ServerConfig{Host: "0.0.0.0", Port: "9090", WriteTimeoutSeconds: 5}, nil)
	assert.Equal(t, "0.0.0.0:9090", svc.Addr())
	assert.Equal(t, 15*time.Second, svc.server.ReadTimeout)
	assert.Equal(t, 5*time.Second, svc.server.WriteTimeout)
}
