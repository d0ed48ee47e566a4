package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// withTestLogDir points the package at a temp directory and resets the
// process-wide session ID, restoring both afterwards.
func withTestLogDir(t *testing.T) {
	t.Helper()

	origLogDir := logDir
	origInitErr := initErr
	origInitOnce := initOnce
	origSessionID := sessionID
	origSessionIDOnce := sessionIDOnce

	logDir = t.TempDir()
	initErr = nil
	initOnce = sync.Once{}
	sessionID = ""
	sessionIDOnce = sync.Once{}

	t.Cleanup(func() {
		logDir = origLogDir
		initErr = origInitErr
		initOnce = origInitOnce
		sessionID = origSessionID
		sessionIDOnce = origSessionIDOnce
	})
}

func TestNewLogger(t *testing.T) {
	withTestLogDir(t)

	logger, err := NewLogger("session")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	if logger.component != "session" {
		t.Errorf("Expected component 'session', got %q", logger.component)
	}
	if logger.SessionID() == "" {
		t.Error("Expected non-empty session ID")
	}

	if _, err := os.Stat(logger.LogPath()); os.IsNotExist(err) {
		t.Errorf("Log file does not exist at %s", logger.LogPath())
	}

	// File name format: <session-id>-chronicle.log
	fileName := filepath.Base(logger.LogPath())
	if !strings.HasSuffix(fileName, "-chronicle.log") {
		t.Errorf("Expected log file to end with '-chronicle.log', got %q", fileName)
	}
	if !strings.HasPrefix(fileName, logger.SessionID()) {
		t.Errorf("Expected log file to start with session ID, got %q", fileName)
	}
}

func TestLogger_Levels(t *testing.T) {
	withTestLogDir(t)

	logger, err := NewLogger("archive")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	logger.Debugf("placed record for turn %d", 7)
	logger.Infof("compacted turns %d-%d", 1, 10)
	logger.Warnf("merged summaries under size pressure")
	logger.Errorf("restore failed: %v", os.ErrNotExist)

	content, err := os.ReadFile(logger.LogPath())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	logContent := string(content)

	expectedPatterns := []string{
		"[archive] [DEBUG] placed record for turn 7",
		"[archive] [INFO] compacted turns 1-10",
		"[archive] [WARN] merged summaries under size pressure",
		"[archive] [ERROR] restore failed:",
	}
	for _, pattern := range expectedPatterns {
		if !strings.Contains(logContent, pattern) {
			t.Errorf("Log content missing expected pattern: %q\nContent:\n%s", pattern, logContent)
		}
	}
}

func TestLogger_ComponentsShareSessionFile(t *testing.T) {
	withTestLogDir(t)

	sessionLogger, err := NewLogger("session")
	if err != nil {
		t.Fatalf("Failed to create session logger: %v", err)
	}
	defer sessionLogger.Close()

	archiveLogger, err := NewLogger("archive")
	if err != nil {
		t.Fatalf("Failed to create archive logger: %v", err)
	}
	defer archiveLogger.Close()

	if sessionLogger.SessionID() != archiveLogger.SessionID() {
		t.Errorf("Expected same session ID, got %q and %q",
			sessionLogger.SessionID(), archiveLogger.SessionID())
	}
	if sessionLogger.LogPath() != archiveLogger.LogPath() {
		t.Errorf("Expected same log path, got %q and %q",
			sessionLogger.LogPath(), archiveLogger.LogPath())
	}

	sessionLogger.Infof("created session abc123")
	archiveLogger.Infof("compacted turns 1-10")

	content, err := os.ReadFile(sessionLogger.LogPath())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	logContent := string(content)

	if !strings.Contains(logContent, "[session]") {
		t.Error("Log missing session entries")
	}
	if !strings.Contains(logContent, "[archive]") {
		t.Error("Log missing archive entries")
	}
}

func TestLogger_Close(t *testing.T) {
	withTestLogDir(t)

	logger, err := NewLogger("session")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("First close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Second close failed: %v", err)
	}
}
