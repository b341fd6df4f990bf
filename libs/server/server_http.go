package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stardustagi/TopChat/libs/logs"
	"go.uber.org/zap"
)

type HttpServer struct {
	addr   string
	path   string
	logger *zap.Logger
	engine *echo.Echo
	group  map[string]*StarDustGroup
}

func NewHttpServer(config HttpServerConfig, v *validator.Validate, logger *zap.Logger) (*HttpServer, error) {
	if config.Path != "" && config.Path[0] != '/' {
		return nil, errors.New("the http.path must start with a /")
	}
	if v == nil {
		v = validator.New()
	}
	if logger == nil {
		logger = logs.GetLogger("httpServer")
	}
	engine := echo.New()
	engine.HideBanner = true
	engine.HidePort = true
	engine.Validator = &CustomValidator{Validator: v}
	if config.Cors {
		engine.Use(Cors())
	}
	if config.RequestLog {
		engine.Use(Request(logger))
	}

	srv := &HttpServer{
		logger: logger,
		engine: engine,
		group:  make(map[string]*StarDustGroup),
		addr:   fmt.Sprintf("%s:%d", config.Address, config.Port),
		path:   config.Path,
	}
	return srv, nil
}

func (m *HttpServer) Engine() *echo.Echo {
	return m.engine
}

func (m *HttpServer) Addr() string {
	return m.addr
}

// Startup 阻塞直到服务关闭
func (m *HttpServer) Startup() error {
	m.logger.Info("http server listened on:", zap.String("addr", m.addr))
	// 打印路由
	for _, route := range m.engine.Routes() {
		m.logger.Info("http route registered:", logs.String("method", route.Method), logs.String("path", route.Path))
	}
	if err := m.engine.Start(m.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (m *HttpServer) Stop(ctx context.Context) {
	if err := m.engine.Shutdown(ctx); err != nil {
		m.logger.Error("shutdown http server:", zap.Error(err))
	}
}

// Handle registers a new route under {path}/api.
func (m *HttpServer) Handle(method string, path string, handler IHandler) {
	path, _ = url.JoinPath("/", m.path, "api", path)
	m.engine.Add(method, path, handler.GetFunc())
}

func (m *HttpServer) AddGroup(path string, middleware ...echo.MiddlewareFunc) {
	urlPath, _ := url.JoinPath("/", m.path, "api", path)
	m.group[path] = NewStarDustGroup(path, m.engine.Group(urlPath, middleware...))
	m.logger.Info("http group registered:", logs.String("path", urlPath))
}

func (m *HttpServer) Get(path string, group string, handler IHandler) {
	m.add(http.MethodGet, path, group, handler)
}

func (m *HttpServer) Post(path string, group string, handler IHandler) {
	m.add(http.MethodPost, path, group, handler)
}

func (m *HttpServer) add(method, path, group string, handler IHandler) {
	if group == "" {
		m.Handle(method, path, handler)
		return
	}
	g, exists := m.group[group]
	if !exists {
		m.logger.Error("group not found", logs.String("group", group))
		return
	}
	g.Group.Add(method, fmt.Sprintf("/%s", path), handler.GetFunc())
	m.logger.Debug("http handler registered to group:", logs.String("method", method), logs.String("path", path), logs.String("prefix", g.Prefix))
}
