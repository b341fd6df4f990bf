package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type HelloReq struct {
	Name string `json:"name" validate:"required"`
}

type HelloResp struct {
	Message string `json:"message"`
}

func newTestServer(t *testing.T, config HttpServerConfig) *HttpServer {
	srv, err := NewHttpServer(config, nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	h := NewHandler(
		"hello",
		[]string{"greet"},
		func(ctx echo.Context, req HelloReq, resp HelloResp) error {
			resp.Message = "Hello " + req.Name
			return ctx.JSON(http.StatusOK, resp)
		},
	)
	srv.AddGroup("test")
	srv.Post(h.GetName(), "test", h)
	srv.Get("ping", "", NewHandler("ping", nil, func(ctx echo.Context, req struct{}, resp struct{}) error {
		return ctx.String(http.StatusOK, "pong")
	}))
	return srv
}

func serve(srv *HttpServer, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func TestHandlerBindAndValidate(t *testing.T) {
	srv := newTestServer(t, HttpServerConfig{Port: 8080})

	t.Run("Valid", func(t *testing.T) {
		rec := serve(srv, http.MethodPost, "/api/test/hello", `{"name":"gopher"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Hello gopher"}`, rec.Body.String())
	})

	t.Run("MissingField", func(t *testing.T) {
		rec := serve(srv, http.MethodPost, "/api/test/hello", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		rec := serve(srv, http.MethodPost, "/api/test/hello", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Ungrouped", func(t *testing.T) {
		rec := serve(srv, http.MethodGet, "/api/ping", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pong", rec.Body.String())
	})
}

func TestHandlerRequestsDoNotShareState(t *testing.T) {
	srv := newTestServer(t, HttpServerConfig{})

	var wg sync.WaitGroup
	for _, name := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			rec := serve(srv, http.MethodPost, "/api/test/hello", `{"name":"`+name+`"}`)
			assert.JSONEq(t, `{"message":"Hello `+name+`"}`, rec.Body.String())
		}(name)
	}
	wg.Wait()
}

func TestContextPath(t *testing.T) {
	srv := newTestServer(t, HttpServerConfig{Path: "/chatd", RequestLog: true, Cors: true})
	rec := serve(srv, http.MethodPost, "/chatd/api/test/hello", `{"name":"x"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	_, err := NewHttpServer(HttpServerConfig{Path: "chatd"}, nil, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestAddr(t *testing.T) {
	srv := newTestServer(t, HttpServerConfig{Address: "127.0.0.1", Port: 9090})
	assert.Equal(t, "127.0.0.1:9090", srv.Addr())
}
