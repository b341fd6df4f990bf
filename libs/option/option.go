/*
 * Copyright 2022 The Go Authors<36625090@qq.com>. All rights reserved.
 * Use of this source code is governed by a MIT-style
 * license that can be found in the LICENSE file.
 */

package option

import (
	"log"
	"os"

	"github.com/jessevdk/go-flags"
)

type Http struct {
	Path       string `long:"http.path" default:"" description:"Path for the HTTP server context" `
	Address    string `long:"http.address" default:"0.0.0.0" description:"Address for the HTTP server listening" `
	Port       int    `long:"http.port" default:"8080" description:"Port for the HTTP server listening" `
	Cors       bool   `long:"http.cors" description:"Support CORS access" `
	RequestLog bool   `long:"http.requestlog" description:"Log HTTP requests" `
}

// Log logging settings
type Log struct {
	File  string `long:"log.file" default:"" description:"Sets the log file, empty logs to console only"`
	Level string `long:"log.level" default:"info" description:"Sets the log level" choice:"info" choice:"warn" choice:"error" choice:"debug" `
}

// OpenAI completion endpoint settings
type OpenAI struct {
	Endpoint string `long:"openai.endpoint" default:"https://api.openai.com" description:"Base URL of the chat completions API"`
}

// Redis exchange broadcast settings
type Redis struct {
	Addr   string `long:"redis.addr" default:"" description:"Redis address for exchange broadcast, empty disables it"`
	Prefix string `long:"redis.prefix" default:"topchat" description:"Key prefix for redis channels"`
}

// Options 服务参数选项
type Options struct {
	ConfigFile string `long:"config" description:"TOML config file for startup"`
	Log        Log    `group:"log"`
	Http       Http   `group:"http"`
	OpenAI     OpenAI `group:"openai"`
	Redis      Redis  `group:"redis"`
	Version    bool   `long:"version" short:"v" description:"Show the program version"`

	parser *flags.Parser
}

func NewOptions() *Options {
	log.SetFlags(log.Lshortfile | log.LstdFlags)
	var opts Options
	opts.parser = flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	return &opts
}

// Parse 解析 os.Args
func (m *Options) Parse() error {
	err := m.ParseArgs(os.Args[1:])
	if err == nil {
		return nil
	}
	switch err.(type) {
	case *flags.Error:
		flagError := err.(*flags.Error)
		if flagError.Type == flags.ErrHelp {
			m.parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		os.Stdout.WriteString("Fault: \n" + err.Error() + "\n")
	default:
		log.Fatal("Unknown error: ", err)
	}
	return err
}

func (m *Options) ParseArgs(args []string) error {
	_, err := m.parser.ParseArgs(args)
	return err
}

// ZapLevel 将 log.level 转为 zapcore 的数值级别
func (m *Options) ZapLevel() int {
	switch m.Log.Level {
	case "debug":
		return -1
	case "warn":
		return 1
	case "error":
		return 2
	default:
		return 0
	}
}
