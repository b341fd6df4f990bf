package utils

import (
	"os"
	"os/signal"
	"syscall"
)

// MakeShutdownCh 返回一个在收到 SIGINT/SIGTERM 时关闭的通道
func MakeShutdownCh() chan struct{} {
	resultCh := make(chan struct{})
	signalCh := make(chan os.Signal, 4)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		close(resultCh)
	}()
	return resultCh
}
