package option

import (
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	opts := NewOptions()
	require.NoError(t, opts.ParseArgs([]string{}))

	assert.Equal(t, "0.0.0.0", opts.Http.Address)
	assert.Equal(t, 8080, opts.Http.Port)
	assert.Equal(t, "https://api.openai.com", opts.OpenAI.Endpoint)
	assert.Equal(t, "topchat", opts.Redis.Prefix)
	assert.Empty(t, opts.Redis.Addr)
	assert.Equal(t, 0, opts.ZapLevel())
}

func TestParseArgs(t *testing.T) {
	opts := NewOptions()
	err := opts.ParseArgs([]string{
		"--config", "chatd.toml",
		"--http.port", "9090",
		"--log.level", "debug",
		"--openai.endpoint", "http://localhost:1234",
		"--redis.addr", "127.0.0.1:6379",
	})
	require.NoError(t, err)

	assert.Equal(t, "chatd.toml", opts.ConfigFile)
	assert.Equal(t, 9090, opts.Http.Port)
	assert.Equal(t, -1, opts.ZapLevel())
	assert.Equal(t, "http://localhost:1234", opts.OpenAI.Endpoint)
	assert.Equal(t, "127.0.0.1:6379", opts.Redis.Addr)
}

func TestParseArgsRejectsUnknownLevel(t *testing.T) {
	opts := NewOptions()
	err := opts.ParseArgs([]string{"--log.level", "trace"})
	require.Error(t, err)

	flagErr, ok := err.(*flags.Error)
	require.True(t, ok)
	assert.Equal(t, flags.ErrInvalidChoice, flagErr.Type)
}
