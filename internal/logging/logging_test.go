package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"verbose": zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithLogger(context.Background(), logger)
	fromCtx := FromContext(ctx)
	fromCtx.Info().Msg("hello")

	if buf.Len() == 0 {
		t.Fatal("expected logger from context to write")
	}

	// A bare context yields a no-op logger rather than panicking.
	bare := FromContext(context.Background())
	bare.Info().Msg("dropped")
}

func TestLogImportFields(t *testing.T) {
	var buf bytes.Buffer
	logger := WithOwner(zerolog.New(&buf), "trader-1")

	LogImport(logger, 4, 1, 2, 150*time.Millisecond)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["owner"] != "trader-1" {
		t.Errorf("owner = %v", entry["owner"])
	}
	if entry["succeeded"] != float64(4) || entry["failed"] != float64(1) || entry["skipped"] != float64(2) {
		t.Errorf("unexpected counts: %v", entry)
	}
}

func TestNewLoggerWithConfigFileOnly(t *testing.T) {
	path := t.TempDir() + "/logs/journal.log"
	logger := NewLoggerWithConfig(LogConfig{
		Level:    "debug",
		File:     true,
		FilePath: path,
		MaxSize:  1,
	})
	if logger.GetLevel() != zerolog.DebugLevel {
		t.Errorf("level = %v, want debug", logger.GetLevel())
	}
	logger.Debug().Msg("written to rotating file")
}
