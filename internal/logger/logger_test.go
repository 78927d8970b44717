package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	zlog "github.com/rs/zerolog/log"

	appctx "github.com/mealmate/mealmate-api/internal/pkg/context"
)

func TestInitWithWriter_Defaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	var buf bytes.Buffer
	InitWithWriter(&buf)

	if Logger.GetLevel().String() != "info" {
		t.Fatalf("level = %s, want info", Logger.GetLevel().String())
	}
	if zlog.Logger.GetLevel().String() != "info" {
		t.Fatalf("global level = %s, want info", zlog.Logger.GetLevel().String())
	}

	Logger.Info().Msg("hello")
	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("expected console output, got json-like: %q", out)
	}
	if !strings.Contains(out, "hello") {
		t.Fatalf("expected message in output, got %q", out)
	}
}

func TestInitWithWriter_InvalidLevel_FallsBackToInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loudest")
	t.Setenv("LOG_FORMAT", "json")

	var buf bytes.Buffer
	InitWithWriter(&buf)

	Logger.Debug().Msg("quiet")
	Logger.Info().Msg("loud")
	out := buf.String()

	if strings.Contains(out, "quiet") {
		t.Fatalf("debug printed at info level: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Fatalf("info missing: %q", out)
	}
}

func TestInitWithWriter_JSONFormat(t *testing.T) {
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_FORMAT", "json")

	var buf bytes.Buffer
	InitWithWriter(&buf)

	Logger.Info().Str("k", "v").Msg("hello")
	out := strings.TrimSpace(buf.String())

	if !strings.HasPrefix(out, "{") || !strings.HasSuffix(out, "}") {
		t.Fatalf("expected json line, got %q", out)
	}
	if !strings.Contains(out, `"k":"v"`) {
		t.Fatalf("expected field, got %q", out)
	}
}

func TestWithCtx_AddsRequestID(t *testing.T) {
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_FORMAT", "json")

	var buf bytes.Buffer
	InitWithWriter(&buf)

	ctx := appctx.WithRequestID(context.Background(), "req-9")
	WithCtx(ctx).Info().Msg("tagged")

	if !strings.Contains(buf.String(), `"request_id":"req-9"`) {
		t.Fatalf("expected request_id, got %q", buf.String())
	}

	buf.Reset()
	WithCtx(context.Background()).Info().Msg("untagged")
	if strings.Contains(buf.String(), "request_id") {
		t.Fatalf("unexpected request_id, got %q", buf.String())
	}
}
