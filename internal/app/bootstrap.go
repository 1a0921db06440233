package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/config"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/logger"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/provider"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/router"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/service"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/worker"

	"gorm.io/gorm"
)

// BuildRunner 按运行模式装配 HTTP 服务与队列 worker
func BuildRunner(cfg *config.Config, db *gorm.DB, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if mode != ModeAll && mode != ModeAPI && mode != ModeWorker {
		return nil, errors.New("unknown mode: " + mode)
	}

	container, err := provider.NewContainer(cfg, db)
	if err != nil {
		return nil, err
	}

	claimConfiguredAdmin(container.AuthorizationGate, cfg.Admin.BootstrapEmail)

	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(listenAddr(cfg), engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		sweepInterval := time.Duration(cfg.Verification.SweepIntervalSeconds) * time.Second
		workerService, err := worker.NewService(&cfg.Queue, sweepInterval, worker.NewConsumer(container))
		switch {
		case err == nil:
			services = append(services, workerService)
		case mode == ModeAll && !cfg.Queue.Enabled:
			// 全量模式下队列未启用时只跑 HTTP
			logger.Warnw("app_worker_skipped", "reason", err.Error())
		default:
			container.Close()
			return nil, err
		}
	}

	if len(services) == 0 {
		container.Close()
		return nil, errors.New("no services initialized (check mode and config)")
	}

	runner := NewRunner(services...)
	runner.OnShutdown(container.Close)
	return runner, nil
}

// claimConfiguredAdmin 启动时按配置认领首个管理员，已有管理员时忽略
func claimConfiguredAdmin(gate *service.AuthorizationGate, email string) {
	email = strings.TrimSpace(email)
	if gate == nil || email == "" {
		return
	}
	_, err := gate.ClaimFirstAdmin(context.Background(), email)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrAdministratorExists):
		logger.Debugw("app_admin_bootstrap_skipped", "email", email)
	default:
		logger.Warnw("app_admin_bootstrap_failed", "email", email, "error", err)
	}
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.DB, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start", "addr", listenAddr(opts.Config), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
