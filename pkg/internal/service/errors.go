package service

import (
	"errors"
	"fmt"

	"github.com/yeisme/hazopvault/pkg/internal/detect"
	"github.com/yeisme/hazopvault/pkg/internal/imageproc"
	"github.com/yeisme/hazopvault/pkg/internal/render"
)

// 错误分类，处理层用 errors.Is 映射到 HTTP 状态码.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrUnsupportedFormat = imageproc.ErrUnsupportedFormat
	ErrDetectionFailed   = detect.ErrDetectionFailed
	ErrRenderFailed      = render.ErrRenderFailed
	ErrStore             = errors.New("store error")
)

// clientError 携带可以直接返回给客户端的稳定消息.
type clientError struct {
	kind error
	msg  string
}

func (e *clientError) Error() string { return e.msg }

func (e *clientError) Unwrap() error { return e.kind }

func invalid(msg string) error { return &clientError{kind: ErrValidation, msg: msg} }

func notFound(msg string) error { return &clientError{kind: ErrNotFound, msg: msg} }

// Message 返回错误中面向客户端的消息，没有时返回 false.
func Message(err error) (string, bool) {
	var ce *clientError
	if errors.As(err, &ce) {
		return ce.msg, true
	}

	return "", false
}

// storeErr 包装存储层错误.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStore, op, err)
}
