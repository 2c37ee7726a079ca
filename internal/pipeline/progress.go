package pipeline

import "go.uber.org/zap"

// ProgressSink receives ordered progress events during a batch. Sinks must
// be safe for concurrent use; per-claim pipelines report independently.
type ProgressSink interface {
	Notify(message string, details map[string]any)
}

// NopSink discards all progress events.
type NopSink struct{}

// Notify implements ProgressSink.
func (NopSink) Notify(string, map[string]any) {}

// LogSink forwards progress events to a zap logger.
type LogSink struct {
	Logger *zap.Logger
}

// Notify implements ProgressSink.
func (s LogSink) Notify(message string, details map[string]any) {
	fields := make([]zap.Field, 0, len(details))
	for k, v := range details {
		fields = append(fields, zap.Any(k, v))
	}
	s.Logger.Info(message, fields...)
}
