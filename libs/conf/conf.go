package conf

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// EnvConfigPath 未显式指定配置文件时读取的环境变量
const EnvConfigPath = "runConfig"

var (
	mu     sync.RWMutex
	config map[string]interface{}
)

// Load 解析 TOML 文件，path 为空时读取环境变量 runConfig
// 两者都为空时使用空配置
func Load(path string) error {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	next := make(map[string]interface{})
	if path != "" {
		if _, err := toml.DecodeFile(path, &next); err != nil {
			return errors.Wrapf(err, "decode config file %s", path)
		}
	}
	mu.Lock()
	config = next
	mu.Unlock()
	return nil
}

// Get 以 JSON 形式返回某个配置段，不存在时返回 nil
func Get(key string) []byte {
	mu.RLock()
	defer mu.RUnlock()
	if value, exists := config[key]; exists {
		bytes, err := json.Marshal(value)
		if err != nil {
			return nil
		}
		return bytes
	}
	return nil
}
