package logs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	dir := t.TempDir()
	configMap := map[string]interface{}{
		"filename":   filepath.Join(dir, "app.log"),
		"maxsize":    1,
		"maxbackups": 1,
		"maxage":     1,
		"level":      int(zapcore.InfoLevel),
	}
	conf, err := json.Marshal(configMap)
	require.NoError(t, err)
	Init(conf)

	Log.Info("This is an info message")
	Log.Warn("This is a warning message")
	Log.Debug("This debug message is filtered")
	require.NoError(t, Log.Sync())

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "This is an info message")
	assert.Contains(t, string(data), "This is a warning message")
	assert.NotContains(t, string(data), "This debug message is filtered")
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	logger := New(LoggerConfig{Level: 42})
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestGetLoggerInitializesDefault(t *testing.T) {
	Log = nil
	logger := GetLogger("logs_test")
	assert.NotNil(t, logger)
	assert.NotNil(t, Log)
}

func TestErrorInfoSkipsNil(t *testing.T) {
	assert.Equal(t, zapcore.SkipType, ErrorInfo(nil).Type)
	assert.Equal(t, zapcore.ErrorType, ErrorInfo(assert.AnError).Type)
}

func TestStacktraceField(t *testing.T) {
	field := StacktraceField()
	assert.Equal(t, "stacktrace", field.Key)
	assert.Contains(t, field.String, "TestStacktraceField")
}

func TestPackageHelpers(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	Log = nil
	assert.NotPanics(t, func() {
		Info("dropped")
		Errorf("dropped %d", 1)
	})

	core, recorded := observer.New(zapcore.DebugLevel)
	Log = zap.New(core)
	Debug("debug", String("k", "v"))
	Info("info")
	Infof("infof %s", "x")
	Warn("warn")
	Error("error")
	Errorf("errorf %d", 2)

	var got []string
	for _, e := range recorded.All() {
		got = append(got, e.Level.String()+":"+e.Message)
	}
	assert.Equal(t, []string{
		"debug:debug", "info:info", "info:infof x",
		"warn:warn", "error:error", "error:errorf 2",
	}, got)
	assert.Equal(t, "v", recorded.FilterField(zap.String("k", "v")).All()[0].ContextMap()["k"])
}
