package logs

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// FluentPoster is the subset of *fluent.Fluent the handler needs.
type FluentPoster interface {
	Post(tag string, message any) error
}

// FluentHandler is a slog.Handler that posts each record to Fluentd/Fluent Bit,
// tagged with the lowercased level name.
type FluentHandler struct {
	client FluentPoster
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewFluentHandler returns a handler posting records at or above level.
func NewFluentHandler(client FluentPoster, level slog.Leveler) *FluentHandler {
	return &FluentHandler{client: client, level: level}
}

// Enabled implements slog.Handler.
func (h *FluentHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler. Post failures are dropped so logging never fails a caller.
func (h *FluentHandler) Handle(_ context.Context, r slog.Record) error {
	data := make(map[string]any, len(h.attrs)+r.NumAttrs()+3)
	for _, a := range h.attrs {
		put(data, "", a)
	}
	prefix := h.groupPrefix()
	r.Attrs(func(a slog.Attr) bool {
		put(data, prefix, a)

		return true
	})
	data["level"] = r.Level.String()
	data["message"] = r.Message
	data["timestamp"] = r.Time.UTC().Format(time.RFC3339Nano)

	_ = h.client.Post(strings.ToLower(r.Level.String()), data)

	return nil
}

// WithAttrs implements slog.Handler.
func (h *FluentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(slices.Clone(h.attrs), h.qualify(attrs)...)

	return &clone
}

// WithGroup implements slog.Handler.
func (h *FluentHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(slices.Clone(h.groups), name)

	return &clone
}

func (h *FluentHandler) groupPrefix() string {
	if len(h.groups) == 0 {
		return ""
	}

	return strings.Join(h.groups, ".") + "."
}

func (h *FluentHandler) qualify(attrs []slog.Attr) []slog.Attr {
	prefix := h.groupPrefix()
	if prefix == "" {
		return attrs
	}
	out := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, slog.Attr{Key: prefix + a.Key, Value: a.Value})
	}

	return out
}

func put(data map[string]any, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := prefix + a.Key

	switch a.Value.Kind() {
	case slog.KindGroup:
		for _, ga := range a.Value.Group() {
			put(data, key+".", ga)
		}
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			data[key] = err.Error()

			return
		}
		data[key] = a.Value.Any()
	default:
		data[key] = a.Value.Any()
	}
}

// FanoutHandler forwards every record to all handlers that accept its level.
type FanoutHandler struct {
	handlers []slog.Handler
}

// NewFanoutHandler returns a handler writing to each of handlers.
func NewFanoutHandler(handlers ...slog.Handler) *FanoutHandler {
	return &FanoutHandler{handlers: handlers}
}

// Enabled implements slog.Handler.
func (f *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

// Handle implements slog.Handler and returns the first handler error.
func (f *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// WithAttrs implements slog.Handler.
func (f *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, 0, len(f.handlers))
	for _, h := range f.handlers {
		next = append(next, h.WithAttrs(attrs))
	}

	return &FanoutHandler{handlers: next}
}

// WithGroup implements slog.Handler.
func (f *FanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, 0, len(f.handlers))
	for _, h := range f.handlers {
		next = append(next, h.WithGroup(name))
	}

	return &FanoutHandler{handlers: next}
}
