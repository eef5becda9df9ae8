package logger

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Entry = logrus.Entry

type ctxKey struct{}

// Init настраивает общий логгер: JSON-формат, вывод в stdout.
// Уровень берётся из level; переменная DEBUG=true всегда включает debug.
func Init(level string) {
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	Log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	if os.Getenv("DEBUG") == "true" {
		lvl = logrus.DebugLevel
	}
	Log.SetLevel(lvl)
}

// Discard отключает вывод логов (для тестов).
func Discard() {
	Log.SetOutput(io.Discard)
}

// WithContext кладёт entry в контекст запроса.
func WithContext(ctx context.Context, e *Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, e)
}

// FromContext возвращает entry запроса или общий логгер, если его нет.
func FromContext(ctx context.Context) *Entry {
	if e, ok := ctx.Value(ctxKey{}).(*Entry); ok && e != nil {
		return e
	}
	return logrus.NewEntry(Log)
}
