package app

import (
	"net"
	"os"
	"time"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/config"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/logger"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 运行模式：all 同时运行 HTTP 与 worker，api / worker 只运行其一
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

const defaultShutdownTimeout = 10 * time.Second

// Options 应用启动选项，零值字段由 normalizeOptions 补齐
type Options struct {
	Config          *config.Config
	DB              *gorm.DB
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.DB == nil {
		opts.DB = models.DB
	}
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	if opts.ShutdownTimeout <= 0 && opts.Config != nil && opts.Config.Server.ShutdownTimeoutSeconds > 0 {
		opts.ShutdownTimeout = time.Duration(opts.Config.Server.ShutdownTimeoutSeconds) * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	return opts
}

// listenAddr 拼接监听地址，兼容 IPv6 主机
func listenAddr(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	return net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
}
