package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beacon.log")
	log, closer, err := New(path, "debug")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	log.WithField("region", "MyBeacon").Debug("ranged")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "region=MyBeacon") {
		t.Errorf("log missing field: %q", data)
	}
}

func TestNewRejectsLevel(t *testing.T) {
	if _, _, err := New("", "loud"); err == nil {
		t.Error("New() accepted an invalid level")
	}
}

func TestNewWithoutPath(t *testing.T) {
	log, closer, err := New("", "info")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	log.Info("dropped")
	if err := closer.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
}
