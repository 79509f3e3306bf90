package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("creating pipe: %v", err)
	}
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()

	w.Close()
	os.Stdout = old
	return <-outC
}

func TestVersionCommand(t *testing.T) {
	out := captureStdout(t, func() {
		versionCmd.Run(nil, nil)
	})

	// Version is "dev" by default in tests
	if !strings.Contains(out, "truthlens dev") {
		t.Errorf("Expected version output to contain 'truthlens dev', got: %s", out)
	}
	if !strings.Contains(out, "Fake-news detection client") {
		t.Errorf("Expected version output to contain 'Fake-news detection client', got: %s", out)
	}
	if !strings.Contains(out, "github.com/truthlens/truthlens") {
		t.Errorf("Expected version output to contain the module path, got: %s", out)
	}
}

func TestGenerateConfigCommand(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, ".config", "truthlens", "config.toml")

	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	out := captureStdout(t, func() {
		configGenCmd.Run(nil, nil)
	})

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		t.Errorf("Config file was not created at %s", configFile)
	}
	if !strings.Contains(out, "Generated default configuration at:") {
		t.Errorf("Expected output to contain 'Generated default configuration at:', got: %s", out)
	}
}

func TestLoadConfigWithURLOverride(t *testing.T) {
	oldURL := flagBaseURL
	defer func() { flagBaseURL = oldURL }()

	flagBaseURL = "localhost:9000"
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:9000" {
		t.Errorf("Expected normalized URL http://localhost:9000, got %s", cfg.API.BaseURL)
	}
}

func TestLoadConfigRejectsBadURL(t *testing.T) {
	oldURL := flagBaseURL
	defer func() { flagBaseURL = oldURL }()

	flagBaseURL = "http://host/../escape"
	if _, err := loadConfig(); err == nil {
		t.Error("Expected an error for a URL with path traversal")
	}
}
