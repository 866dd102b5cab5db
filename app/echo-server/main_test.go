//go:build !integration

package main

import (
	"context"
	"myMovieRecs/pkg/logger"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	t.Cleanup(logger.Replace(zap.New(core)))
	return logs
}

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadIndexLogsOutcomeOnce(t *testing.T) {
	logs := observeLogs(t)

	users := writeCSV(t, "users.csv", "user_id,rec_type,show_id,title,match_score,genre_name\n"+
		"1,top_all,s1,One,0.9,\n")
	content := writeCSV(t, "content.csv", "show_id,recommended_show_id,recommended_title\n"+
		"s1,s2,Two\n")

	if got := loadUserIndex(context.Background(), users).Len(); got != 1 {
		t.Fatalf("user index Len() = %d, want 1", got)
	}
	if got := loadContentIndex(context.Background(), content).Len(); got != 1 {
		t.Fatalf("content index Len() = %d, want 1", got)
	}

	if n := logs.Len(); n != 2 {
		t.Fatalf("observed %d entries, want one per index: %+v", n, logs.All())
	}
	if logs.FilterLevelExact(zapcore.WarnLevel).Len() != 0 {
		t.Fatal("successful loads must not warn")
	}
}

func TestLoadIndexFallbackLogsOnlyWarning(t *testing.T) {
	logs := observeLogs(t)

	broken := writeCSV(t, "users.csv", "user_id,show_id\n1,s1\n")
	if got := loadUserIndex(context.Background(), broken).Len(); got != 0 {
		t.Fatalf("user index Len() = %d, want 0", got)
	}
	if got := loadContentIndex(context.Background(), filepath.Join(t.TempDir(), "content.sav")).Len(); got != 0 {
		t.Fatalf("content index Len() = %d, want 0", got)
	}

	if n := logs.FilterLevelExact(zapcore.WarnLevel).Len(); n != 2 {
		t.Fatalf("warnings = %d, want 2", n)
	}
	if n := logs.FilterLevelExact(zapcore.InfoLevel).Len(); n != 0 {
		t.Fatalf("info entries = %d after a fallback, want 0: %+v", n, logs.All())
	}
}
