package clients

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/stardustagi/TopChat/libs/logs"
	"github.com/stardustagi/TopChat/llm/models"
	"go.uber.org/zap"
	"resty.dev/v3"
)

const (
	DefaultEndpoint   = "https://api.openai.com"
	DefaultAPIVersion = "v1"
)

// OpenAIClient sends one chat completion request per call. It never retries
// and sets no timeout of its own; ctx is the only way to bound a call.
type OpenAIClient struct {
	endpoint string
	client   *resty.Client
	logger   *zap.Logger
}

func NewOpenAIClient(endpoint string, logger *zap.Logger) *OpenAIClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if logger == nil {
		logger = logs.GetLogger("openai_client")
	}
	client := resty.New().
		SetLogger(logger.Sugar()).
		SetRetryCount(0)
	return &OpenAIClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   client,
		logger:   logger,
	}
}

// URL 返回 {endpoint}/{apiVersion}/chat/completions
func (c *OpenAIClient) URL(apiVersion string) string {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	u, err := url.JoinPath(c.endpoint, apiVersion, "chat", "completions")
	if err != nil {
		return c.endpoint + "/" + apiVersion + "/chat/completions"
	}
	return u
}

// Complete posts req and returns choices[0].message.content.
// The error is a *RemoteAPIError, ErrEmptyResponse or a *TransportError.
func (c *OpenAIClient) Complete(ctx context.Context, apiKey, apiVersion string, req *models.ChatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", &TransportError{Op: OpEncode, Err: errors.Wrap(err, "encode chat request")}
	}

	target := c.URL(apiVersion)
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(target)
	if err != nil {
		c.logger.Error("chat completion request failed", logs.String("url", target), logs.ErrorInfo(err))
		return "", &TransportError{Op: OpPost, Err: err}
	}

	var chatResp models.ChatResponse
	if err := json.Unmarshal(resp.Bytes(), &chatResp); err != nil {
		c.logger.Error("chat completion decode failed",
			logs.Int("status", resp.StatusCode()),
			logs.ErrorInfo(err))
		return "", &TransportError{Op: OpDecode, Err: err}
	}
	c.logger.Debug("chat completion response",
		logs.String("id", chatResp.ID),
		logs.Int("status", resp.StatusCode()),
		logs.Int("choices", len(chatResp.Choices)))

	if chatResp.Error != nil {
		msg := chatResp.Error.Message
		if msg == "" {
			msg = MsgNoResponse
		}
		return "", &RemoteAPIError{
			StatusCode: resp.StatusCode(),
			Type:       chatResp.Error.Type,
			Message:    msg,
		}
	}
	content := chatResp.Content()
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

func (c *OpenAIClient) Close() error {
	return c.client.Close()
}
