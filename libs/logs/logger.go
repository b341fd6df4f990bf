package logs

import (
	"encoding/json"
	"os"

	"github.com/stardustagi/TopChat/utils"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Log *zap.Logger

type LoggerConfig struct {
	Filename   string `json:"filename" toml:"filename"`
	MaxSize    int    `json:"maxsize" toml:"maxsize"`
	MaxAge     int    `json:"maxage" toml:"maxage"`
	MaxBackups int    `json:"maxbackups" toml:"maxbackups"`
	LocalTime  bool   `json:"localtime" toml:"localtime"`
	Compress   bool   `json:"compress" toml:"compress"`
	Level      int    `json:"level" toml:"level"`
}

// Init 根据 JSON 配置初始化全局日志
// filename 为空时只输出到控制台
func Init(logConfigJson []byte) {
	logConfig, err := utils.Bytes2Struct[LoggerConfig](logConfigJson)
	if err != nil {
		panic("Failed to parse log configuration: " + err.Error())
	}
	Log = New(logConfig)
}

func New(logConfig LoggerConfig) *zap.Logger {
	// 日志级别
	level := zapcore.Level(logConfig.Level)
	if level < zapcore.DebugLevel || level > zapcore.FatalLevel {
		level = zapcore.InfoLevel
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	// 控制台输出
	zapCore := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	// 文件输出，lumberjack 负责轮转
	if logConfig.Filename != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   logConfig.Filename,
			MaxSize:    logConfig.MaxSize, // megabytes
			MaxBackups: logConfig.MaxBackups,
			MaxAge:     logConfig.MaxAge, // days
			LocalTime:  logConfig.LocalTime,
			Compress:   logConfig.Compress,
		})
		zapCore = append(zapCore, zapcore.NewCore(encoder, fileWriter, level))
	}

	return zap.New(zapcore.NewTee(zapCore...), zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

func Infof(format string, args ...interface{}) {
	if Log != nil {
		Log.Sugar().Infof(format, args...)
	}
}

func Info(msg string, fields ...zap.Field) {
	if Log != nil {
		Log.Info(msg, fields...)
	}
}

func Warn(msg string, fields ...zap.Field) {
	if Log != nil {
		Log.Warn(msg, fields...)
	}
}

func Errorf(format string, args ...interface{}) {
	if Log != nil {
		Log.Sugar().Errorf(format, args...)
	}
}

func Error(msg string, fields ...zap.Field) {
	if Log != nil {
		Log.Error(msg, fields...)
	}
}

func Debug(msg string, fields ...zap.Field) {
	if Log != nil {
		Log.Debug(msg, fields...)
	}
}

func GetLogger(m string) *zap.Logger {
	if Log == nil {
		// 默认配置，仅控制台
		loggerConf := map[string]any{
			"level": 0,
		}
		jsonBytes, err := json.Marshal(loggerConf)
		if err != nil {
			panic("Failed to marshal logger configuration: " + err.Error())
		}
		Init(jsonBytes)
	}
	return Log.With(zap.String("module", m))
}
