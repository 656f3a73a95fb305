package mq

import (
	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// zerologAdapter 将 watermill 的日志输出写入应用的 zerolog，component 固定为 mq.
type zerologAdapter struct {
	l zerolog.Logger
}

func newLoggerAdapter(base zerolog.Logger) *zerologAdapter {
	return &zerologAdapter{l: base.With().Str("component", "mq").Logger()}
}

func emit(ev *zerolog.Event, msg string, fields watermill.LogFields) {
	if ev == nil {
		return
	}

	ev.Fields(map[string]any(fields)).Msg(msg)
}

func (z *zerologAdapter) Error(msg string, err error, fields watermill.LogFields) {
	emit(z.l.Error().Err(err), msg, fields)
}

func (z *zerologAdapter) Info(msg string, fields watermill.LogFields) {
	emit(z.l.Info(), msg, fields)
}

// Debug 与 Trace 都降到 zerolog 的 Debug/Trace，默认级别下不输出.
func (z *zerologAdapter) Debug(msg string, fields watermill.LogFields) {
	emit(z.l.Debug(), msg, fields)
}

func (z *zerologAdapter) Trace(msg string, fields watermill.LogFields) {
	emit(z.l.Trace(), msg, fields)
}

func (z *zerologAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &zerologAdapter{l: z.l.With().Fields(map[string]any(fields)).Logger()}
}
