package models

import "strings"

// Model 模型在 API 中的名称
type Model string

const (
	Davinci   Model = "text-davinci-003"
	Babbage   Model = "text-babbage-001"
	Curie     Model = "text-curie-001"
	Ada       Model = "text-ada-001"
	GPT3Turbo Model = "gpt-3.5-turbo"
	GPT4      Model = "gpt-4"
)

var modelKeys = map[string]Model{
	"davinci":   Davinci,
	"babbage":   Babbage,
	"curie":     Curie,
	"ada":       Ada,
	"gpt3turbo": GPT3Turbo,
	"gpt4":      GPT4,
}

// AllModels 按声明顺序返回全部模型
func AllModels() []Model {
	return []Model{Davinci, Babbage, Curie, Ada, GPT3Turbo, GPT4}
}

// IsModelAvailable reports whether the model may be used. Only GPT4 is restricted.
func IsModelAvailable(m Model) bool {
	return m != GPT4
}

func (m Model) Valid() bool {
	for _, known := range AllModels() {
		if m == known {
			return true
		}
	}
	return false
}

func (m Model) String() string {
	return string(m)
}

// ParseModel 接受枚举名 (gpt3turbo) 或 API 名 (gpt-3.5-turbo)
func ParseModel(s string) (Model, bool) {
	s = strings.TrimSpace(s)
	if m, ok := modelKeys[strings.ToLower(s)]; ok {
		return m, true
	}
	if m := Model(s); m.Valid() {
		return m, true
	}
	return "", false
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type ChatMessage struct {
	Role    string `json:"role"`    // "user", "assistant", "system"
	Content string `json:"content"` // e.g., "Hello!"
}

// ChatRequest temperature/stream/max_tokens 总是序列化
type ChatRequest struct {
	Model       Model         `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	Stream      bool          `json:"stream"`
	MaxTokens   int           `json:"max_tokens"`
}

type ChatChoice struct {
	Index        int          `json:"index"`
	Message      *ChatMessage `json:"message"`
	FinishReason string       `json:"finish_reason"`
}

// APIError 服务端返回的 error 字段
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Code    any    `json:"code,omitempty"`
}

type ChatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *APIError `json:"error,omitempty"`
}

// Content 返回 choices[0].message.content，缺失时为空
func (r *ChatResponse) Content() string {
	if len(r.Choices) == 0 || r.Choices[0].Message == nil {
		return ""
	}
	return r.Choices[0].Message.Content
}
