package logger

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

type ctxKeyLog struct{}

// New returns a JSON logger; unknown levels fall back to info.
func New(level string, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	log.Out = out

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

func WithContext(ctx context.Context, log logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, ctxKeyLog{}, log)
}

// FromContext returns the request-scoped logger, or fallback when none is set.
// The active trace id is attached when the context carries a valid span.
func FromContext(ctx context.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	log, ok := ctx.Value(ctxKeyLog{}).(logrus.FieldLogger)
	if !ok {
		log = fallback
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		log = log.WithField("trace_id", sc.TraceID().String())
	}
	return log
}
