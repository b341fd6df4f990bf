package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/stardustagi/TopChat/libs/errors"
	"github.com/stardustagi/TopChat/libs/logs"
	"github.com/stardustagi/TopChat/libs/server"
	"github.com/stardustagi/TopChat/llm/chat"
	"github.com/stardustagi/TopChat/llm/clients"
	"github.com/stardustagi/TopChat/llm/config"
	"github.com/stardustagi/TopChat/llm/models"
	"github.com/stardustagi/TopChat/protocol"
	"github.com/stardustagi/TopChat/queue"
)

// ChatGroup 路由分组，所有接口位于 /api/chat 下
const ChatGroup = "chat"

const maskRun = "****"

var _ Service = (*ChatService)(nil)

// ChatService exposes the configuration store and the chat session over HTTP.
type ChatService struct {
	BaseService
	backend *server.Backend
	store   *config.Store
	session *chat.Session
}

func NewChatService(backend *server.Backend, store *config.Store, session *chat.Session, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = logs.GetLogger("chat_service")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ChatService{
		BaseService: BaseService{
			logger: logger,
			ctx:    ctx,
			cancel: cancel,
		},
		backend: backend,
		store:   store,
		session: session,
	}
}

// Init 注册路由
func (s *ChatService) Init(_ ...interface{}) {
	s.backend.AddGroup(ChatGroup)
	s.backend.AddGetHandler(ChatGroup, server.NewHandler("config", []string{"config"}, s.getConfig))
	s.backend.AddPostHandler(ChatGroup, server.NewHandler("config", []string{"config"}, s.setConfig))
	s.backend.AddGetHandler(ChatGroup, server.NewHandler("models", []string{"config"}, s.listModels))
	s.backend.AddPostHandler(ChatGroup, server.NewHandler("send", []string{"chat"}, s.send))
	s.backend.AddGetHandler(ChatGroup, server.NewHandler("state", []string{"chat"}, s.state))
	s.backend.AddPostHandler(ChatGroup, server.NewHandler("clear", []string{"chat"}, s.clear))
}

// Start 在后台启动 HTTP 服务
func (s *ChatService) Start() {
	s.isRun = true
	go func() {
		if err := s.backend.Start(); err != nil {
			s.logger.Error("http backend exited", logs.ErrorInfo(err))
		}
	}()
}

func (s *ChatService) Stop() {
	if !s.isRun {
		return
	}
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.backend.Stop(ctx)
	s.session.Close()
	s.isRun = false
}

func (s *ChatService) getConfig(c echo.Context, _ protocol.EmptyReq, _ protocol.EmptyResp) error {
	return protocol.Response(c, nil, s.store.Get().Masked())
}

// setConfig 整体替换配置。key 原样回传 GET config 的掩码值时保留当前凭证，
// 其他带掩码的 key 拒绝
func (s *ChatService) setConfig(c echo.Context, req config.Config, _ protocol.EmptyResp) error {
	current := s.store.Get()
	switch {
	case req.Key != "" && req.Key == current.Masked().Key:
		req.Key = current.Key
	case strings.Contains(req.Key, maskRun):
		return protocol.Response(c, errors.New(errors.CodeBadRequest, "key looks masked, send the full credential"), nil)
	}
	if m, ok := models.ParseModel(string(req.Model)); ok {
		req.Model = m
	}
	s.store.Set(req)
	s.logger.Info("config replaced",
		logs.String("model", req.Model.String()),
		logs.Bool("available", models.IsModelAvailable(req.Model)))
	return protocol.Response(c, nil, req.Masked())
}

func (s *ChatService) listModels(c echo.Context, _ protocol.EmptyReq, _ []protocol.ModelInfo) error {
	list := make([]protocol.ModelInfo, 0, len(models.AllModels()))
	for _, m := range models.AllModels() {
		list = append(list, protocol.ModelInfo{Name: m, Available: s.store.IsModelAvailable(m)})
	}
	return protocol.Response(c, nil, list)
}

func (s *ChatService) send(c echo.Context, req protocol.SendChatReq, resp protocol.SendChatResp) error {
	opts := []chat.SendOption{}
	if req.Role != nil {
		opts = append(opts, chat.WithRole(*req.Role))
	}
	if req.APIVersion != "" {
		opts = append(opts, chat.WithAPIVersion(req.APIVersion))
	}
	if req.Temperature != nil {
		opts = append(opts, chat.WithTemperature(*req.Temperature))
	}
	if req.Stream != nil {
		opts = append(opts, chat.WithStream(*req.Stream))
	}
	if req.MaxTokens != nil {
		opts = append(opts, chat.WithMaxTokens(*req.MaxTokens))
	}

	content, err := s.session.SendChat(c.Request().Context(), req.Message, opts...)
	if err != nil {
		return protocol.Response(c, toStackError(err), nil)
	}
	resp.Response = content
	return protocol.Response(c, nil, resp)
}

func (s *ChatService) state(c echo.Context, _ protocol.EmptyReq, resp protocol.StateResp) error {
	st := s.session.State()
	resp.Messages = st.Messages
	resp.Responses = st.Responses
	resp.Loading = st.Loading
	if st.Err != nil {
		resp.Error = st.Err.Error()
		resp.ErrorKind = clients.Kind(st.Err).String()
	}
	return protocol.Response(c, nil, resp)
}

func (s *ChatService) clear(c echo.Context, _ protocol.EmptyReq, _ protocol.EmptyResp) error {
	s.session.ClearHistory()
	return protocol.Response(c, nil, nil)
}

func toStackError(err error) *errors.StackError {
	switch {
	case stderrors.Is(err, chat.ErrMessageEmpty):
		return errors.Wrap(errors.CodeBadRequest, err)
	case stderrors.Is(err, queue.ErrWorkerStopped):
		return errors.Wrap(errors.CodeUnavailable, err)
	}
	switch clients.Kind(err) {
	case clients.KindRemoteAPI:
		return errors.Wrap(errors.CodeRemoteAPI, err)
	case clients.KindEmptyResponse:
		return errors.Wrap(errors.CodeEmptyReply, err)
	default:
		return errors.Wrap(errors.CodeTransport, err)
	}
}
