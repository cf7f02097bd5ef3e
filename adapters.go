package respdecode

import (
	"os"

	"github.com/raniellyferreira/respdecode/protocol"
	"github.com/rs/zerolog"
)

// zerologAdapter adapts a zerolog.Logger to our Logger interface
type zerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologLogger returns a Logger that writes through zl
func NewZerologLogger(zl zerolog.Logger) Logger {
	return &zerologAdapter{logger: zl}
}

// defaultLogger writes JSON lines to stderr at info level
func defaultLogger() Logger {
	zl := zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	return NewZerologLogger(zl)
}

func (za *zerologAdapter) Debug(msg string, fields ...Field) {
	withFields(za.logger.Debug(), fields).Msg(msg)
}

func (za *zerologAdapter) Info(msg string, fields ...Field) {
	withFields(za.logger.Info(), fields).Msg(msg)
}

func (za *zerologAdapter) Error(msg string, fields ...Field) {
	withFields(za.logger.Error(), fields).Msg(msg)
}

func withFields(e *zerolog.Event, fields []Field) *zerolog.Event {
	for _, field := range fields {
		switch v := field.Value.(type) {
		case error:
			e = e.AnErr(field.Key, v)
		case string:
			e = e.Str(field.Key, v)
		case int:
			e = e.Int(field.Key, v)
		default:
			e = e.Interface(field.Key, v)
		}
	}
	return e
}

// nopMetrics discards all metrics
type nopMetrics struct{}

func (nopMetrics) RecordDecoded(protocol.ValueType, int) {}

func (nopMetrics) RecordError(string) {}
