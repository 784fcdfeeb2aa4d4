package logs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"rentalhub/config"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/lmittmann/tint"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params defines the parameters required for the logger
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
}

// New creates and initializes slog.Logger. Pretty output uses tint, otherwise JSON.
// When a Fluent forwarder is configured, records are also shipped there.
func New(params Params) (*slog.Logger, error) {
	// Parse log level from config
	level, err := parseLogLevel(params.Config.Env.Log.Level)
	if err != nil {
		return nil, err
	}

	handler := newConsoleHandler(os.Stdout, level, params.Config.Env.Log.Pretty)

	if fc := params.Config.Env.Log.Fluent; fc != nil && fc.Host != "" {
		client, err := fluent.New(fluent.Config{
			FluentHost: fc.Host,
			FluentPort: fc.Port,
			TagPrefix:  fluentTagPrefix(fc.Tag, params.Config.Env.ServiceName),
			Async:      true,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create fluent client")
		}

		params.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return errors.WithStack(client.Close())
			},
		})

		handler = NewFanoutHandler(handler, NewFluentHandler(client, level))
	}

	return slog.New(handler), nil
}

func newConsoleHandler(w io.Writer, level slog.Level, pretty bool) slog.Handler {
	if pretty {
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
		})
	}

	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

func fluentTagPrefix(tag, serviceName string) string {
	if tag != "" {
		return tag
	}
	if serviceName != "" {
		return serviceName
	}

	return "rentalhub"
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Errorf("unknown log level: %s", level)
	}
}
