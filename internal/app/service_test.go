package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/config"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type fakeService struct {
	name     string
	startErr error
	mu       sync.Mutex
	stopped  bool
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	<-ctx.Done()
	return nil
}

func (s *fakeService) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *fakeService) wasStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func TestRunnerStopsAllServicesOnFailure(t *testing.T) {
	failing := &fakeService{name: "failing", startErr: errors.New("boom")}
	healthy := &fakeService{name: "healthy"}
	runner := NewRunner(failing, healthy)
	cleaned := false
	runner.OnShutdown(func() { cleaned = true })

	err := runner.Run(context.Background(), time.Second, nil)
	if err == nil || !errors.Is(err, failing.startErr) || !strings.HasPrefix(err.Error(), "failing: ") {
		t.Fatalf("expected failing: boom, got %v", err)
	}
	if !failing.wasStopped() || !healthy.wasStopped() {
		t.Fatalf("all services should be stopped")
	}
	if !cleaned {
		t.Fatalf("cleanup should run after stop")
	}
}

func TestRunnerCancelledContextIsCleanExit(t *testing.T) {
	svc := &fakeService{name: "http"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewRunner(svc).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancelled run should return nil, got %v", err)
	}
}

func TestRunnerWithoutServices(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("empty runner should fail")
	}
	if err := NewRunner(nil, nil).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("runner with only nil services should fail")
	}
}

func TestRunnerCleanupsRunInReverse(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := NewRunner(&fakeService{name: "worker"})
	var order []string
	runner.OnShutdown(func() { order = append(order, "db") })
	runner.OnShutdown(func() { order = append(order, "queue") })

	if err := runner.Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if strings.Join(order, ",") != "queue,db" {
		t.Fatalf("cleanups should run in reverse order, got %v", order)
	}
}

func TestNormalizeOptionsShutdownTimeout(t *testing.T) {
	opts := normalizeOptions(Options{Config: &config.Config{Server: config.ServerConfig{ShutdownTimeoutSeconds: 3}}})
	if opts.ShutdownTimeout != 3*time.Second || opts.Mode != ModeAll {
		t.Fatalf("unexpected options: timeout=%s mode=%s", opts.ShutdownTimeout, opts.Mode)
	}
	opts = normalizeOptions(Options{ShutdownTimeout: time.Second, Config: &config.Config{Server: config.ServerConfig{ShutdownTimeoutSeconds: 3}}})
	if opts.ShutdownTimeout != time.Second {
		t.Fatalf("explicit timeout should win, got %s", opts.ShutdownTimeout)
	}
	if got := normalizeOptions(Options{}).ShutdownTimeout; got != defaultShutdownTimeout {
		t.Fatalf("default timeout want %s got %s", defaultShutdownTimeout, got)
	}
}

func TestListenAddr(t *testing.T) {
	if got := listenAddr(&config.Config{Server: config.ServerConfig{Host: "::1", Port: "8080"}}); got != "[::1]:8080" {
		t.Fatalf("ipv6 addr unexpected: %s", got)
	}
	if got := listenAddr(&config.Config{Server: config.ServerConfig{Host: "0.0.0.0", Port: "8080"}}); got != "0.0.0.0:8080" {
		t.Fatalf("ipv4 addr unexpected: %s", got)
	}
}

func TestHTTPServiceServesUntilStopped(t *testing.T) {
	svc := NewHTTPService("127.0.0.1:0", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	done := make(chan error, 1)
	go func() { done <- svc.Start(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for svc.Addr() == "" {
		if time.Now().After(deadline) {
			t.Fatalf("http service did not start listening")
		}
		time.Sleep(5 * time.Millisecond)
	}

	resp, err := http.Get("http://" + svc.Addr() + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}

	if err := svc.Stop(context.Background()); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("start should return nil after stop, got %v", err)
	}
}

func openAppTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func TestBuildRunnerModes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: "0", Mode: "debug"},
		JWT:    config.JWTConfig{SecretKey: "app-test-secret"},
	}

	runner, err := BuildRunner(cfg, openAppTestDB(t), ModeAll)
	if err != nil {
		t.Fatalf("all mode without queue should fall back to http only: %v", err)
	}
	if len(runner.services) != 1 || runner.services[0].Name() != "http" {
		t.Fatalf("expected only http service, got %d", len(runner.services))
	}

	if _, err := BuildRunner(cfg, openAppTestDB(t), ModeWorker); err == nil {
		t.Fatalf("worker mode with queue disabled should fail")
	}
	if _, err := BuildRunner(cfg, openAppTestDB(t), "bogus"); err == nil {
		t.Fatalf("unknown mode should fail")
	}
}

func TestBuildRunnerClaimsConfiguredAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openAppTestDB(t)
	for i, email := range []string{"owner@example.com", "late@example.com"} {
		account := &models.Account{Name: "Owner", Email: email, Phone: fmt.Sprintf("555000000%d", i+1), Role: models.RoleMember, Active: true}
		if err := db.Create(account).Error; err != nil {
			t.Fatalf("create account failed: %v", err)
		}
	}
	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: "0", Mode: "debug"},
		JWT:    config.JWTConfig{SecretKey: "app-test-secret"},
		Admin:  config.AdminConfig{BootstrapEmail: "owner@example.com"},
	}
	if _, err := BuildRunner(cfg, db, ModeAPI); err != nil {
		t.Fatalf("build runner failed: %v", err)
	}
	cfg.Admin.BootstrapEmail = "late@example.com"
	if _, err := BuildRunner(cfg, db, ModeAPI); err != nil {
		t.Fatalf("second build should ignore existing administrator: %v", err)
	}

	var owner, late models.Account
	if err := db.Where("email = ?", "owner@example.com").First(&owner).Error; err != nil {
		t.Fatalf("load owner failed: %v", err)
	}
	if err := db.Where("email = ?", "late@example.com").First(&late).Error; err != nil {
		t.Fatalf("load late failed: %v", err)
	}
	if !owner.Role.IsAdministrator() || late.Role.IsAdministrator() {
		t.Fatalf("only configured first account should be administrator: owner=%s late=%s", owner.Role, late.Role)
	}
}
