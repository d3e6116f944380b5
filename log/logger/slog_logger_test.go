package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hatlonely/uidx/log/writer"
	"github.com/hatlonely/uidx/ref"
)

func TestNewSLogWithOptions(t *testing.T) {
	tests := []struct {
		name    string
		options *SLogOptions
		wantErr bool
	}{
		{
			name:    "nil options",
			options: nil,
			wantErr: false,
		},
		{
			name: "console output",
			options: &SLogOptions{
				Level:  "debug",
				Format: "json",
				Output: &ref.TypeOptions{
					Namespace: "github.com/hatlonely/uidx/log/writer",
					Type:      "ConsoleWriter",
					Options:   &writer.ConsoleWriterOptions{Target: "stderr"},
				},
			},
			wantErr: false,
		},
		{
			name:    "invalid level",
			options: &SLogOptions{Level: "invalid"},
			wantErr: true,
		},
		{
			name:    "invalid format",
			options: &SLogOptions{Format: "xml"},
			wantErr: true,
		},
		{
			name: "unknown writer",
			options: &SLogOptions{
				Output: &ref.TypeOptions{Namespace: "github.com/hatlonely/uidx/log/writer", Type: "Missing"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewSLogWithOptions(tt.options)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSLogWithOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && l == nil {
				t.Fatal("NewSLogWithOptions() returned nil logger without error")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"warning", false},
		{"error", false},
		{"DEBUG", false}, // 大小写不敏感
		{"", false},
		{"invalid", true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			_, err := parseLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLevel(%q) error = %v, wantErr %v", tt.level, err, tt.wantErr)
			}
		})
	}
}

func TestSLogJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewSLogWithOptions(&SLogOptions{
		Level:  "info",
		Format: "json",
		Writer: &buf,
		Fields: map[string]any{"service": "snowflake"},
	})
	if err != nil {
		t.Fatalf("NewSLogWithOptions() error = %v", err)
	}

	l.Debug("hidden")
	l.With("instance", 3).WarnContext(context.Background(), "generated", "sequence", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("期望 1 行日志，实际 %d 行: %q", len(lines), buf.String())
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("日志不是合法 JSON: %v", err)
	}
	if record["msg"] != "generated" || record["level"] != "WARN" || record["service"] != "snowflake" ||
		record["instance"] != float64(3) || record["sequence"] != float64(7) {
		t.Errorf("日志字段不正确: %v", record)
	}
}

func TestSLogTimeFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewSLogWithOptions(&SLogOptions{Writer: &buf, TimeFormat: "2006"})
	if err != nil {
		t.Fatalf("NewSLogWithOptions() error = %v", err)
	}
	l.Warn("clock moved backwards")

	out := buf.String()
	first, _, _ := strings.Cut(out, " ")
	if !strings.HasPrefix(first, "time=") || len(first) != len("time=2006") {
		t.Errorf("时间格式不正确: %q", out)
	}
	if !strings.Contains(out, `level=WARN msg="clock moved backwards"`) {
		t.Errorf("日志内容不正确: %q", out)
	}
}

func TestSLogFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snowflake.log")
	l, err := NewSLogWithOptions(&SLogOptions{
		Output: &ref.TypeOptions{
			Namespace: "github.com/hatlonely/uidx/log/writer",
			Type:      "FileWriter",
			Options:   &writer.FileWriterOptions{Path: path},
		},
	})
	if err != nil {
		t.Fatalf("NewSLogWithOptions() error = %v", err)
	}

	l.Error("sequence exhausted", "instance", 1)
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	if !strings.Contains(string(content), `msg="sequence exhausted" instance=1`) {
		t.Errorf("日志文件内容不正确: %q", content)
	}
}

func TestNewSLogByRef(t *testing.T) {
	var buf bytes.Buffer
	obj, err := ref.New("github.com/hatlonely/uidx/log/logger", "SLog", &SLogOptions{Writer: &buf})
	if err != nil {
		t.Fatalf("ref.New() error = %v", err)
	}
	l, ok := obj.(Logger)
	if !ok {
		t.Fatalf("%T 没有实现 Logger", obj)
	}
	l.Info("ok")
	if !strings.Contains(buf.String(), "msg=ok") {
		t.Errorf("日志内容不正确: %q", buf.String())
	}
}
