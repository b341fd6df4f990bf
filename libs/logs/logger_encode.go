package logs

import (
	"runtime/debug"
	"strings"

	"go.uber.org/zap"
)

// StacktraceField 当前 goroutine 的调用栈，每帧缩进一行
func StacktraceField() zap.Field {
	lines := strings.Split(strings.TrimRight(string(debug.Stack()), "\n"), "\n")
	return zap.String("stacktrace", strings.Join(lines, "\n\t"))
}
