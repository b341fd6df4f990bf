package server

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stardustagi/TopChat/libs/logs"
	"go.uber.org/zap"
)

type Backend struct {
	config     HttpServerConfig
	Logger     *zap.Logger
	httpServer *HttpServer
}

func NewBackend(config HttpServerConfig, v *validator.Validate) (*Backend, error) {
	logger := logs.GetLogger("http_backend")
	httpServer, err := NewHttpServer(config, v, logger)
	if err != nil {
		return nil, err
	}
	return &Backend{
		config:     config,
		Logger:     logger,
		httpServer: httpServer,
	}, nil
}

func (m *Backend) Engine() *echo.Echo {
	return m.httpServer.Engine()
}

func (m *Backend) AddGroup(group string, middleware ...echo.MiddlewareFunc) {
	m.httpServer.AddGroup(group, middleware...)
}

func (m *Backend) AddPostHandler(group string, h IHandler) {
	m.httpServer.Post(h.GetName(), group, h)
}

func (m *Backend) AddGetHandler(group string, h IHandler) {
	m.httpServer.Get(h.GetName(), group, h)
}

// Start 阻塞直到 Stop
func (m *Backend) Start() error {
	return m.httpServer.Startup()
}

func (m *Backend) Stop(ctx context.Context) {
	m.httpServer.Stop(ctx)
}
