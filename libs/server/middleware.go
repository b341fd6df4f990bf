package server

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stardustagi/TopChat/libs/logs"
	"go.uber.org/zap"
)

func Cors() echo.MiddlewareFunc {
	return middleware.CORS()
}

// Request 以 zap 记录每个请求
func Request(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.Info("http request",
				logs.String("method", c.Request().Method),
				logs.String("path", c.Request().URL.Path),
				logs.Int("status", c.Response().Status),
				logs.String("remote", c.RealIP()),
				logs.Duration("latency", time.Since(start)))
			return nil
		}
	}
}
