package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config redis 连接配置
type Config struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Prefix   string `json:"prefix"`
}

// RedisCmd go-redis 客户端的最小命令集
type RedisCmd interface {
	redis.Cmdable
}

type RedisCli interface {
	KeyPrefix() string
	NativeCmd() RedisCmd
	Key(parts ...string) string
	Publish(ctx context.Context, channel string, message interface{}) (int64, error)
	Subscribe(ctx context.Context, channels ...string) (*redis.PubSub, error)
	Close() error
}

type redisView struct {
	cmd    RedisCmd
	prefix string
	logger *zap.Logger
}

func NewRedisView(cmd RedisCmd, prefix string, logger *zap.Logger) RedisCli {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisView{
		cmd:    cmd,
		prefix: prefix,
		logger: logger,
	}
}

// Dial 按配置建立连接并返回带前缀的视图
func Dial(ctx context.Context, cfg Config, logger *zap.Logger) (RedisCli, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedisView(client, cfg.Prefix, logger), nil
}

func (r *redisView) KeyPrefix() string {
	return r.prefix
}

func (r *redisView) NativeCmd() RedisCmd {
	return r.cmd
}

// Key 以 ':' 拼接前缀与各部分
func (r *redisView) Key(parts ...string) string {
	key := r.prefix
	for _, p := range parts {
		if key == "" {
			key = p
			continue
		}
		key += ":" + p
	}
	return key
}

func (r *redisView) Close() error {
	switch v := r.cmd.(type) {
	case interface{ Close() error }:
		return v.Close()
	default:
		return nil
	}
}

// Subscribe 订阅，频道名自动加前缀
// @return *redis.PubSub, error
func (r *redisView) Subscribe(ctx context.Context, channels ...string) (*redis.PubSub, error) {
	keys := make([]string, 0, len(channels))
	for _, c := range channels {
		keys = append(keys, r.Key(c))
	}
	switch v := r.cmd.(type) {
	case interface {
		Subscribe(context.Context, ...string) *redis.PubSub
	}:
		return v.Subscribe(ctx, keys...), nil
	default:
		return nil, errors.New("UnSupported")
	}
}

// Publish 发布消息，频道名自动加前缀
// @return int64, error
func (r *redisView) Publish(ctx context.Context, channel string, message interface{}) (int64, error) {
	n, err := r.cmd.Publish(ctx, r.Key(channel), message).Result()
	if err != nil {
		r.logger.Error("redis publish failed", zap.String("channel", r.Key(channel)), zap.Error(err))
		return 0, err
	}
	r.logger.Debug("redis published", zap.String("channel", r.Key(channel)), zap.Int64("receivers", n))
	return n, nil
}
