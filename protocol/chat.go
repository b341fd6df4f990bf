package protocol

import (
	"github.com/stardustagi/TopChat/llm/models"
)

type EmptyReq struct{}

type EmptyResp struct{}

// SendChatReq 未提供的字段使用当前配置
type SendChatReq struct {
	Message     string   `json:"message" validate:"required"`
	Role        *string  `json:"role,omitempty" validate:"omitempty,oneof=user assistant system"`
	APIVersion  string   `json:"api_version,omitempty" validate:"omitempty,alphanum"`
	Temperature *float32 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	Stream      *bool    `json:"stream,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty" validate:"omitempty,gt=0"`
}

type SendChatResp struct {
	Response string `json:"response"`
}

type ModelInfo struct {
	Name      models.Model `json:"name"`
	Available bool         `json:"available"`
}

type StateResp struct {
	Messages  []string `json:"messages"`
	Responses []string `json:"responses"`
	Loading   bool     `json:"loading"`
	Error     string   `json:"error,omitempty"`
	ErrorKind string   `json:"error_kind,omitempty"`
}
