package telemetry

import (
	"context"

	"github.com/bobmcallan/toolbridge/internal/common"
)

// LogSink writes usage records to the logger at debug level.
type LogSink struct {
	logger *common.Logger
}

// NewLogSink creates a sink that logs each record.
func NewLogSink(logger *common.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Send(_ context.Context, u Usage) error {
	s.logger.Debug().
		Str("tool", u.Tool).
		Str("instance", u.Instance).
		Str("timestamp", u.Timestamp.Format("2006-01-02T15:04:05.000Z07:00")).
		Msg("tool usage")
	return nil
}

func (s *LogSink) Close() error { return nil }
