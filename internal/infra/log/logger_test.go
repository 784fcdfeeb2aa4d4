package logs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoster struct {
	mu    sync.Mutex
	tags  []string
	posts []map[string]any
}

func (p *fakePoster) Post(tag string, message any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tags = append(p.tags, tag)
	p.posts = append(p.posts, message.(map[string]any))

	return nil
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestFluentHandler_PostsRecordWithAttrs(t *testing.T) {
	poster := &fakePoster{}
	logger := slog.New(NewFluentHandler(poster, slog.LevelInfo)).
		With(slog.String("request_id", "req-1")).
		WithGroup("http")

	logger.Debug("dropped")
	logger.Warn("slow request", slog.Int("status", 503), slog.Any("error", errors.New("boom")))

	require.Len(t, poster.posts, 1)
	assert.Equal(t, "warn", poster.tags[0])

	post := poster.posts[0]
	assert.Equal(t, "slow request", post["message"])
	assert.Equal(t, "WARN", post["level"])
	assert.Equal(t, "req-1", post["request_id"])
	assert.EqualValues(t, 503, post["http.status"])
	assert.Equal(t, "boom", post["http.error"])
}

func TestFanoutHandler_WritesToEveryHandler(t *testing.T) {
	var buf bytes.Buffer
	poster := &fakePoster{}
	logger := slog.New(NewFanoutHandler(
		newConsoleHandler(&buf, slog.LevelInfo, false),
		NewFluentHandler(poster, slog.LevelError),
	))

	logger.Info("listing approved", slog.String("property_id", "p1"))
	logger.Error("push failed")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "listing approved", first["msg"])
	assert.Equal(t, "p1", first["property_id"])

	require.Len(t, poster.posts, 1)
	assert.Equal(t, "push failed", poster.posts[0]["message"])
}
