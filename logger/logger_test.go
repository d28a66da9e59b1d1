package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nijaru/yt-summary/config"
	"github.com/sirupsen/logrus"
)

func TestConfigure_Levels(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		want    logrus.Level
		wantErr bool
	}{
		{"debug level", "debug", logrus.DebugLevel, false},
		{"info level", "info", logrus.InfoLevel, false},
		{"warn level", "warn", logrus.WarnLevel, false},
		{"error level", "error", logrus.ErrorLevel, false},
		{"invalid level", "invalid", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := logrus.New()
			_, err := configure(log, config.LogConfig{Level: tt.level}, &bytes.Buffer{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("configure() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && log.GetLevel() != tt.want {
				t.Errorf("level = %v, want %v", log.GetLevel(), tt.want)
			}
		})
	}
}

func TestConfigure_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	if _, err := configure(log, config.LogConfig{Level: "info", Format: "json"}, &buf); err != nil {
		t.Fatal(err)
	}

	log.WithField("video_id", "dQw4w9WgXcQ").Info("fetched transcript")

	out := buf.String()
	if !strings.Contains(out, `"video_id":"dQw4w9WgXcQ"`) {
		t.Errorf("expected JSON field in output, got %s", out)
	}
}

func TestConfigure_InvalidFormat(t *testing.T) {
	_, err := configure(logrus.New(), config.LogConfig{Level: "info", Format: "xml"}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for invalid format, got nil")
	}
}

func TestConfigure_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	var buf bytes.Buffer
	log := logrus.New()
	closer, err := configure(log, config.LogConfig{Level: "info", File: path}, &buf)
	if err != nil {
		t.Fatal(err)
	}

	log.Info("written to both outputs")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to both outputs") {
		t.Errorf("log file missing entry: %s", data)
	}
	if !strings.Contains(buf.String(), "written to both outputs") {
		t.Errorf("stdout missing entry: %s", buf.String())
	}
}
