package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	appctx "github.com/mealmate/mealmate-api/internal/pkg/context"
)

// Logger is the process-wide logger. Init must run before the first
// request is served; the zero value is a no-op until then.
var Logger zerolog.Logger

func Init() {
	InitWithWriter(os.Stdout)
}

// InitWithWriter configures the logger from LOG_LEVEL and LOG_FORMAT
// ("json" or "console"; console is the default). Unknown levels fall
// back to info.
func InitWithWriter(w io.Writer) {
	level, err := zerolog.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer = w
	if envOr("LOG_FORMAT", "console") != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	Logger = zerolog.New(out).With().Timestamp().Logger().Level(level)
	zlog.Logger = Logger
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// WithCtx returns the package logger enriched with the request id, if any.
func WithCtx(ctx context.Context) *zerolog.Logger {
	if reqID, ok := appctx.RequestIDFromContext(ctx); ok {
		l := Logger.With().Str("request_id", reqID).Logger()
		return &l
	}
	return &Logger
}
