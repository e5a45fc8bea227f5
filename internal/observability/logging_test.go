package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestContextAccumulates(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithRepository(ctx, "https://example.com/r.git")
	ctx = WithUnit(ctx, "core", "v1.0")
	ctx = WithStage(ctx, "checkout")

	lc := FromContext(ctx)
	want := LogContext{RunID: "run-1", Repository: "https://example.com/r.git", Project: "core", Tag: "v1.0", Stage: "checkout"}
	if lc != want {
		t.Fatalf("FromContext() = %+v, want %+v", lc, want)
	}

	// parent context is unchanged
	if FromContext(WithRunID(context.Background(), "x")).Project != "" {
		t.Fatal("unexpected project on fresh context")
	}
}

func TestErrorContextIncludesUnit(t *testing.T) {
	buf := captureLogs(t)

	ctx := WithUnit(WithRunID(context.Background(), "run-9"), "core", "v2")
	ErrorContext(ctx, "step failed", slog.Int("exit_code", 3))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line: %v (%s)", err, buf.String())
	}
	for key, want := range map[string]any{"msg": "step failed", "level": "ERROR", "run_id": "run-9", "project": "core", "tag": "v2", "exit_code": float64(3)} {
		if rec[key] != want {
			t.Errorf("%s = %v, want %v", key, rec[key], want)
		}
	}
	if _, ok := rec["stage"]; ok {
		t.Error("stage should be omitted when unset")
	}
}

func TestLevels(t *testing.T) {
	buf := captureLogs(t)
	ctx := context.Background()
	DebugContext(ctx, "d")
	InfoContext(ctx, "i")
	WarnContext(ctx, "w")

	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	if lines != 3 {
		t.Fatalf("expected 3 log lines, got %d: %s", lines, buf.String())
	}
}
