package server

type HttpServerConfig struct {
	Port       int    `json:"port" toml:"port"`               // HTTP服务器端口
	Address    string `json:"address" toml:"address"`         // HTTP服务器主机名
	Path       string `json:"path" toml:"path"`               // HTTP服务器路径
	Cors       bool   `json:"cors" toml:"cors"`               // 是否启用CORS
	RequestLog bool   `json:"request_log" toml:"request_log"` // 是否启用请求日志
}
