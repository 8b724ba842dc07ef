package cache

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/gradenet/internal/infrastructure/config"
)

func TestKeysAreGenerationScoped(t *testing.T) {
	if got := generationKey("gradenet:"); got != "gradenet:reports:generation" {
		t.Fatalf("generation key = %q", got)
	}
	a := entryKey("gradenet:", 0, "dashboard")
	b := entryKey("gradenet:", 1, "dashboard")
	if a == b {
		t.Fatalf("expected keys to differ across generations, both %q", a)
	}
	if a != "gradenet:reports:0:dashboard" {
		t.Fatalf("entry key = %q", a)
	}
}

func TestNoopNeverHits(t *testing.T) {
	ctx := context.Background()
	var c Noop
	if err := c.Set(ctx, "k", map[string]int{"a": 1}); err != nil {
		t.Fatalf("set: %v", err)
	}
	var dst map[string]int
	hit, err := c.Get(ctx, "k", &dst)
	if err != nil || hit {
		t.Fatalf("expected miss, got hit=%v err=%v", hit, err)
	}
}

func TestNewReportCacheDisabled(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	c, cleanup := NewReportCache(&config.Config{}, logger)
	defer cleanup()
	if _, ok := c.(Noop); !ok {
		t.Fatalf("expected Noop cache when disabled, got %T", c)
	}
}

type failingCache struct{ err error }

func (f failingCache) Get(context.Context, string, any) (bool, error) { return true, f.err }
func (f failingCache) Set(context.Context, string, any) error         { return f.err }
func (f failingCache) Invalidate(context.Context) error               { return f.err }

func TestLoggingReportCacheLogsAndSwallowsErrors(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logs)
	logger.SetFormatter(&logrus.JSONFormatter{})

	c := NewLoggingReportCache(failingCache{err: errors.New("connection refused")}, logger)

	var dst map[string]int
	hit, err := c.Get(ctx, "dashboard", &dst)
	if err != nil || hit {
		t.Fatalf("expected a silent miss, got hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, "dashboard", map[string]int{"a": 1}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected one log line per failure, got %d: %s", len(lines), logs.String())
	}
	for i, op := range []string{"get", "set", "invalidate"} {
		if !strings.Contains(lines[i], `"op":"`+op+`"`) || !strings.Contains(lines[i], "connection refused") {
			t.Fatalf("line %d missing op %s: %s", i, op, lines[i])
		}
	}
	if !strings.Contains(lines[0], `"key":"dashboard"`) {
		t.Fatalf("expected key on get failure: %s", lines[0])
	}
}

func TestLoggingReportCachePassesHitsThrough(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	c := NewLoggingReportCache(Noop{}, logger)
	if hit, err := c.Get(context.Background(), "k", new(int)); hit || err != nil {
		t.Fatalf("expected miss from Noop, got hit=%v err=%v", hit, err)
	}
}
