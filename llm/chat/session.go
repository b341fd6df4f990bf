// Package chat keeps the observable state of a chat: the prompts sent, the
// completions received, whether a call is in flight and the last error.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/stardustagi/TopChat/libs/logs"
	"github.com/stardustagi/TopChat/llm/clients"
	"github.com/stardustagi/TopChat/llm/config"
	"github.com/stardustagi/TopChat/llm/models"
	"github.com/stardustagi/TopChat/queue"
)

// ExchangeChannel redis 频道名（不含前缀）
const ExchangeChannel = "chat:exchange"

var ErrMessageEmpty = errors.New("message cannot be empty")

// nodeSeq 为未指定 WithNodeID 的会话分配 snowflake 节点号
var nodeSeq atomic.Int64

func nextNodeID() int64 {
	nodeMax := int64(-1 ^ (-1 << snowflake.NodeBits))
	return (nodeSeq.Add(1) - 1) % (nodeMax + 1)
}

// Completer performs one completion round trip.
type Completer interface {
	Complete(ctx context.Context, apiKey, apiVersion string, req *models.ChatRequest) (string, error)
}

// Publisher 广播已完成的对话，如 libs/redis 的 RedisCli
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) (int64, error)
}

// Exchange 一次成功的请求与应答
type Exchange struct {
	ID        int64        `json:"id"`
	SessionID string       `json:"session_id"`
	Model     models.Model `json:"model"`
	Role      string       `json:"role"`
	Message   string       `json:"message"`
	Response  string       `json:"response"`
	Elapsed   string       `json:"elapsed"`
	At        time.Time    `json:"at"`
}

// State 某一时刻的会话快照
type State struct {
	Messages  []string
	Responses []string
	Loading   bool
	Err       error
}

type Session struct {
	id        string
	store     *config.Store
	completer Completer
	publisher Publisher
	worker    queue.IWorker
	node      *snowflake.Node
	logger    *zap.Logger

	nodeID              int64
	queueSize           int
	recordFailedPrompts bool

	mu        sync.RWMutex
	messages  []string
	responses []string
	pending   int
	lastErr   error
}

// NewSession reads request defaults from store on every call, so a Set on the
// store applies to the next SendChat.
func NewSession(store *config.Store, completer Completer, opts ...Option) (*Session, error) {
	s := &Session{
		id:        uuid.NewString(),
		store:     store,
		completer: completer,
		nodeID:    -1,
		messages:  make([]string, 0),
		responses: make([]string, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logs.GetLogger("chat")
	}
	s.logger = s.logger.With(logs.String("session", s.id))

	if s.nodeID < 0 {
		s.nodeID = nextNodeID()
	}
	node, err := snowflake.NewNode(s.nodeID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create call id node")
	}
	s.node = node
	s.worker = queue.NewWorker(s.queueSize, s.logger)
	s.worker.Start()
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

// Close 停止内部队列，之后的 SendChat 返回 queue.ErrWorkerStopped
func (s *Session) Close() {
	s.worker.Stop()
}

// SendChat sends message as a single-message chat and waits for the result.
// Calls are serialized; each one clears the last error when issued and
// records its own failure, if any, when it finishes. The WithHandler callback
// runs on the caller's goroutine once the call has left the queue, so it may
// issue a follow-up SendChat.
func (s *Session) SendChat(ctx context.Context, message string, opts ...SendOption) (string, error) {
	if message == "" {
		return "", ErrMessageEmpty
	}
	o := &sendOptions{}
	for _, opt := range opts {
		opt(o)
	}

	callID := s.node.Generate()
	logger := s.logger.With(logs.Int64("call", callID.Int64()))

	s.begin()
	var content string
	err := s.worker.Do(ctx, func(ctx context.Context) error {
		var err error
		content, err = s.roundTrip(ctx, callID, logger, message, o)
		return err
	})
	if err != nil {
		s.fail(logger, message, err)
		s.end()
		return "", err
	}
	if o.handler != nil {
		o.handler(content)
	}
	s.end()
	return content, nil
}

func (s *Session) roundTrip(ctx context.Context, callID snowflake.ID, logger *zap.Logger, message string, o *sendOptions) (string, error) {
	cfg := s.store.Get()
	req := buildRequest(cfg, message, o)
	version := defaultAPIVersion(o.apiVersion)

	logger.Info("sending chat",
		logs.String("model", req.Model.String()),
		logs.String("version", version),
		logs.Float32("temperature", req.Temperature),
		logs.Int("max_tokens", req.MaxTokens),
		logs.Bool("stream", req.Stream))

	start := time.Now()
	content, err := s.completer.Complete(ctx, cfg.Key, version, req)
	if err != nil {
		return "", err
	}
	elapsed := time.Since(start)

	s.mu.Lock()
	s.messages = append(s.messages, message)
	s.responses = append(s.responses, content)
	s.lastErr = nil
	s.mu.Unlock()

	logger.Info("chat completed", logs.Duration("elapsed", elapsed), logs.Int("length", len(content)))

	s.publish(ctx, logger, Exchange{
		ID:        callID.Int64(),
		SessionID: s.id,
		Model:     req.Model,
		Role:      req.Messages[0].Role,
		Message:   message,
		Response:  content,
		Elapsed:   elapsed.String(),
		At:        start,
	})
	return content, nil
}

func buildRequest(cfg config.Config, message string, o *sendOptions) *models.ChatRequest {
	req := &models.ChatRequest{
		Model:       cfg.Model,
		Messages:    []models.ChatMessage{{Role: cfg.Role, Content: message}},
		Temperature: cfg.Temperature,
		Stream:      cfg.Stream,
		MaxTokens:   cfg.MaxTokens,
	}
	if o.role != nil {
		req.Messages[0].Role = *o.role
	}
	if o.temperature != nil {
		req.Temperature = *o.temperature
	}
	if o.stream != nil {
		req.Stream = *o.stream
	}
	if o.maxTokens != nil {
		req.MaxTokens = *o.maxTokens
	}
	return req
}

func (s *Session) publish(ctx context.Context, logger *zap.Logger, ex Exchange) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(ex)
	if err != nil {
		logger.Warn("encode exchange failed", logs.ErrorInfo(err))
		return
	}
	if _, err := s.publisher.Publish(ctx, ExchangeChannel, string(payload)); err != nil {
		logger.Warn("publish exchange failed", logs.ErrorInfo(err))
	}
}

func (s *Session) begin() {
	s.mu.Lock()
	s.pending++
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *Session) end() {
	s.mu.Lock()
	s.pending--
	s.mu.Unlock()
}

func (s *Session) fail(logger *zap.Logger, message string, err error) {
	s.mu.Lock()
	s.lastErr = err
	if s.recordFailedPrompts && !clients.Unanswered(err) {
		s.messages = append(s.messages, message)
	}
	s.mu.Unlock()
	logger.Error("chat failed", logs.String("kind", clients.Kind(err).String()), logs.ErrorInfo(err))
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Messages:  append(make([]string, 0, len(s.messages)), s.messages...),
		Responses: append(make([]string, 0, len(s.responses)), s.responses...),
		Loading:   s.pending > 0,
		Err:       s.lastErr,
	}
}

func (s *Session) Messages() []string {
	return s.State().Messages
}

func (s *Session) Responses() []string {
	return s.State().Responses
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending > 0
}

func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// SetResponses replaces the response log; the message log is left as is.
func (s *Session) SetResponses(responses []string) {
	s.mu.Lock()
	s.responses = append(make([]string, 0, len(responses)), responses...)
	s.mu.Unlock()
}

// ClearHistory 清空两个日志
func (s *Session) ClearHistory() {
	s.mu.Lock()
	s.messages = make([]string, 0)
	s.responses = make([]string, 0)
	s.mu.Unlock()
}
