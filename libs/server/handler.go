package server

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator 将 validator 接入 echo
type CustomValidator struct {
	Validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.Validator.Struct(i)
}

type Handler[Req any, Resp any] struct {
	Name string
	Tags []string
	Func func(echo.Context, Req, Resp) error
}

// 抽象接口
type IHandler interface {
	GetName() string
	GetTags() []string
	GetFunc() func(echo.Context) error
}

func NewHandler[Req any, Resp any](
	name string,
	tags []string,
	f func(echo.Context, Req, Resp) error,
) *Handler[Req, Resp] {
	return &Handler[Req, Resp]{
		Name: name,
		Tags: tags,
		Func: f,
	}
}

func (h *Handler[Req, Resp]) GetName() string {
	return h.Name
}

func (h *Handler[Req, Resp]) GetTags() []string {
	return h.Tags
}

// GetFunc 每个请求独立绑定 Req
func (h *Handler[Req, Resp]) GetFunc() func(echo.Context) error {
	return func(c echo.Context) error {
		var req Req
		var resp Resp
		// 绑定
		if err := c.Bind(&req); err != nil {
			return err
		}
		// 验证
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		// 执行体
		return h.Func(c, req, resp)
	}
}

type StarDustGroup struct {
	Prefix string
	Group  *echo.Group
}

func NewStarDustGroup(prefix string, group *echo.Group) *StarDustGroup {
	return &StarDustGroup{
		Prefix: prefix,
		Group:  group,
	}
}
