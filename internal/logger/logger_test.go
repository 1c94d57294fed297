package logger

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoggerServiceWritesJSON(t *testing.T) {
	dir := t.TempDir()
	svc := NewLoggerService(map[string]interface{}{"folder_path": dir, "level": "debug"})
	if err := svc.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	l := svc.Logger()
	l.Info().Str("run_id", "r1").Msg("analysis complete")
	svc.LogAudit("proxied /aging/analyze")
	file := svc.CurrentFile()
	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var found, audit bool
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line is not JSON: %q", line)
		}
		if entry["message"] == "analysis complete" && entry["run_id"] == "r1" {
			found = true
		}
		if entry["audit"] == true {
			audit = true
		}
	}
	if !found || !audit {
		t.Errorf("expected structured and audit entries, got:\n%s", data)
	}
}

func TestRotateIfNeeded(t *testing.T) {
	dir := t.TempDir()
	svc := NewLoggerService(map[string]interface{}{"folder_path": dir, "max_file_mb": 1})
	if err := svc.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer svc.Stop()

	first := svc.CurrentFile()
	if _, err := svc.Write(bytes.Repeat([]byte("x"), 1024*1024)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	rotated, err := svc.rotateIfNeeded()
	if err != nil {
		t.Fatalf("rotateIfNeeded: %v", err)
	}
	if !rotated || svc.CurrentFile() == first {
		t.Errorf("expected rotation away from %s", first)
	}
}

func TestZipAndCleanOldLogs(t *testing.T) {
	dir := t.TempDir()
	svc := NewLoggerService(map[string]interface{}{"folder_path": dir, "retention_days": 7})
	if err := svc.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer svc.Stop()

	old := filepath.Join(dir, "app_20200101_000000.000.log")
	if err := os.WriteFile(old, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().AddDate(0, 0, -30)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	svc.zipAndCleanOldLogs()

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Errorf("old log still present: %v", err)
	}
	if _, err := os.Stat(svc.CurrentFile()); err != nil {
		t.Errorf("current log removed: %v", err)
	}
	archives, _ := filepath.Glob(filepath.Join(dir, "logs_*.zip"))
	if len(archives) != 1 {
		t.Fatalf("archives = %v, want 1", archives)
	}
	zr, err := zip.OpenReader(archives[0])
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer zr.Close()
	if len(zr.File) != 1 || zr.File[0].Name != filepath.Base(old) {
		t.Errorf("archive contents = %v", zr.File)
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), NewWithWriter(&buf))
	l := FromContext(ctx)
	l.Info().Msg("hello")
	if !strings.Contains(buf.String(), `"message":"hello"`) {
		t.Errorf("log output = %q", buf.String())
	}
}
