package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/stardustagi/TopChat/libs/conf"
	"github.com/stardustagi/TopChat/libs/logs"
	"github.com/stardustagi/TopChat/libs/option"
	"github.com/stardustagi/TopChat/libs/redis"
	"github.com/stardustagi/TopChat/libs/server"
	"github.com/stardustagi/TopChat/llm/chat"
	"github.com/stardustagi/TopChat/llm/clients"
	"github.com/stardustagi/TopChat/llm/config"
	"github.com/stardustagi/TopChat/services"
	"github.com/stardustagi/TopChat/utils"
)

const version = "0.1.0"

func main() {
	opts := option.NewOptions()
	if err := opts.Parse(); err != nil {
		os.Exit(2)
	}
	if opts.Version {
		fmt.Println(version)
		return
	}
	if err := run(opts); err != nil {
		logs.Errorf("chatd exited: %+v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opts *option.Options) error {
	if err := conf.Load(opts.ConfigFile); err != nil {
		return err
	}
	initLogs(opts)

	cfg, err := config.Load(conf.Get("openai"))
	if err != nil {
		return err
	}
	if cfg.Key == "" {
		logs.Warn("no API key set, requests will be rejected by the remote API")
	}
	store := config.NewStore(cfg)

	client := clients.NewOpenAIClient(opts.OpenAI.Endpoint, logs.GetLogger("openai_client"))
	defer client.Close()

	sessionOpts := []chat.Option{chat.WithLogger(logs.GetLogger("chat"))}
	if opts.Redis.Addr != "" {
		view, err := redis.Dial(context.Background(), redis.Config{
			Addr:   opts.Redis.Addr,
			Prefix: opts.Redis.Prefix,
		}, logs.GetLogger("redis"))
		if err != nil {
			logs.Error("redis unavailable", logs.String("addr", opts.Redis.Addr), logs.ErrorInfo(err))
			return err
		}
		defer view.Close()
		sessionOpts = append(sessionOpts, chat.WithPublisher(view))
	}
	session, err := chat.NewSession(store, client, sessionOpts...)
	if err != nil {
		return err
	}

	httpConfig := server.HttpServerConfig{
		Port:       opts.Http.Port,
		Address:    opts.Http.Address,
		Path:       opts.Http.Path,
		Cors:       opts.Http.Cors,
		RequestLog: opts.Http.RequestLog,
	}
	if section := conf.Get("http"); section != nil {
		if err := json.Unmarshal(section, &httpConfig); err != nil {
			return err
		}
	}
	logs.Debug("http config",
		logs.String("address", httpConfig.Address),
		logs.Int("port", httpConfig.Port),
		logs.String("path", httpConfig.Path))
	backend, err := server.NewBackend(httpConfig, config.Validator())
	if err != nil {
		return err
	}

	var svc services.Service = services.NewChatService(backend, store, session, logs.GetLogger("chat_service"))
	svc.Init()
	svc.Start()
	logs.Info("chatd started",
		logs.String("version", version),
		logs.String("model", cfg.Model.String()),
		logs.String("endpoint", opts.OpenAI.Endpoint))

	srv := server.NewServer()
	srv.OnShutdown(func(ctx context.Context) {
		logs.Infof("chatd %s stopping", version)
		svc.Stop()
	})
	srv.HandleSignal()
	return nil
}

// initLogs 配置文件中的 [log] 优先于命令行参数
func initLogs(opts *option.Options) {
	if section := conf.Get("log"); section != nil {
		logs.Init(section)
		return
	}
	logConfig := logs.LoggerConfig{
		Filename:   opts.Log.File,
		MaxSize:    60,
		MaxBackups: 5,
		MaxAge:     7,
		Compress:   true,
		Level:      opts.ZapLevel(),
	}
	section, err := utils.Struct2Bytes(logConfig)
	if err != nil {
		panic(err)
	}
	logs.Init([]byte(section))
}
