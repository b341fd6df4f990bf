package errors

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// 错误码
const (
	CodeOK           = 0
	CodeBadRequest   = 400
	CodeRemoteAPI    = 1001
	CodeEmptyReply   = 1002
	CodeTransport    = 1003
	CodeUnavailable  = 1004
	CodeInternal     = 500
	DefaultErrorCode = CodeInternal
)

// StackError 带错误码与调用栈的错误
type StackError struct {
	code int
	msg  string
	err  error
}

func New(code int, msg string) *StackError {
	return &StackError{
		code: code,
		msg:  msg,
		err:  pkgerrors.New(msg),
	}
}

// Wrap 包装已有错误，msg 取原错误的文本
func Wrap(code int, err error) *StackError {
	if err == nil {
		return nil
	}
	return &StackError{
		code: code,
		msg:  err.Error(),
		err:  pkgerrors.WithStack(err),
	}
}

func (e *StackError) Code() int {
	return e.code
}

func (e *StackError) Msg() string {
	return e.msg
}

func (e *StackError) Error() string {
	return fmt.Sprintf("[%d] %s", e.code, e.msg)
}

func (e *StackError) Unwrap() error {
	return e.err
}

// Format %+v 时输出调用栈
func (e *StackError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "[%d] %+v", e.code, e.err)
		return
	}
	fmt.Fprint(s, e.Error())
}
