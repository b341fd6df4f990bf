package chat

import (
	"go.uber.org/zap"

	"github.com/stardustagi/TopChat/llm/clients"
)

// SendOption overrides one request parameter for a single SendChat call.
// Anything not overridden is read from the store at call time.
type SendOption func(*sendOptions)

type sendOptions struct {
	handler     func(string)
	role        *string
	apiVersion  string
	temperature *float32
	stream      *bool
	maxTokens   *int
}

// WithHandler registers a callback invoked once, synchronously, with the completion,
// before SendChat returns. Loading stays true while it runs.
func WithHandler(fn func(content string)) SendOption {
	return func(o *sendOptions) { o.handler = fn }
}

func WithRole(role string) SendOption {
	return func(o *sendOptions) { o.role = &role }
}

func WithAPIVersion(version string) SendOption {
	return func(o *sendOptions) { o.apiVersion = version }
}

func WithTemperature(temperature float32) SendOption {
	return func(o *sendOptions) { o.temperature = &temperature }
}

func WithStream(stream bool) SendOption {
	return func(o *sendOptions) { o.stream = &stream }
}

func WithMaxTokens(maxTokens int) SendOption {
	return func(o *sendOptions) { o.maxTokens = &maxTokens }
}

// Option 配置 Session
type Option func(*Session)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithPublisher 每次成功的对话都会发布到 {prefix}:chat:exchange
func WithPublisher(p Publisher) Option {
	return func(s *Session) { s.publisher = p }
}

// WithFailedPromptRecording keeps the outgoing message in the message log
// when the remote side answered but the call still failed, leaving it without
// a matching response. A request that never got an answer records nothing.
func WithFailedPromptRecording(enabled bool) Option {
	return func(s *Session) { s.recordFailedPrompts = enabled }
}

// WithNodeID 设置 snowflake 节点号，取值 0-1023；默认按进程内创建顺序分配
func WithNodeID(id int64) Option {
	return func(s *Session) { s.nodeID = id }
}

func WithQueueSize(size int) Option {
	return func(s *Session) { s.queueSize = size }
}

func defaultAPIVersion(v string) string {
	if v == "" {
		return clients.DefaultAPIVersion
	}
	return v
}
