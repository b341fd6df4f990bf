package server

import (
	"context"
	"time"

	"github.com/stardustagi/TopChat/libs/logs"
	"github.com/stardustagi/TopChat/utils"
	"go.uber.org/zap"
)

// Server 进程级生命周期：等待退出信号后依次执行关闭函数
type Server struct {
	Ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.Logger
	doneCh   chan struct{}
	closers  []func(ctx context.Context)
	deadline time.Duration
}

func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		Ctx:      ctx,
		cancel:   cancel,
		logger:   logs.GetLogger("Server"),
		doneCh:   utils.MakeShutdownCh(),
		deadline: 10 * time.Second,
	}
}

// OnShutdown 注册关闭函数，按注册的逆序执行
func (m *Server) OnShutdown(fn func(ctx context.Context)) {
	m.closers = append(m.closers, fn)
}

func (m *Server) HandleSignal() {
	<-m.doneCh
	m.cancel()
	m.logger.Info("server shutting...")
	ctx, cancel := context.WithTimeout(context.Background(), m.deadline)
	defer cancel()
	for i := len(m.closers) - 1; i >= 0; i-- {
		m.closers[i](ctx)
	}
	m.logger.Info("server shutdown completed")
}
