package clients

import (
	"errors"
	"fmt"
)

// MsgNoResponse is the fixed text of ErrEmptyResponse and the fallback text of
// a RemoteAPIError without a provider message.
const MsgNoResponse = "No response"

// ErrEmptyResponse 响应格式正确但没有可用的 choices[0].message.content
var ErrEmptyResponse = errors.New(MsgNoResponse)

// RemoteAPIError 服务端返回了 error 字段
type RemoteAPIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *RemoteAPIError) Error() string {
	return e.Message
}

// TransportError.Op 取值
const (
	OpEncode = "encode"
	OpPost   = "post"
	OpDecode = "decode"
)

// TransportError 网络调用或响应解码失败
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Unanswered reports whether err means the request never got a response body.
func Unanswered(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Op == OpPost
}

// ErrorKind 三类错误
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindRemoteAPI
	KindEmptyResponse
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindRemoteAPI:
		return "remote_api"
	case KindEmptyResponse:
		return "empty_response"
	case KindTransport:
		return "transport"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Kind 对错误分类，无法识别的错误归为 KindTransport
func Kind(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var remote *RemoteAPIError
	if errors.As(err, &remote) {
		return KindRemoteAPI
	}
	if errors.Is(err, ErrEmptyResponse) {
		return KindEmptyResponse
	}
	return KindTransport
}
