package logs

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

var (
	Logger  *log.Logger
	logFile *os.File
	mu      sync.Mutex
)

// The logger starts out discarding everything so package code can log
// unconditionally. Initialize points it at a real file once the notes root
// is known.
func init() {
	Logger = log.New(io.Discard, "[tasknotes] ", log.LstdFlags|log.Lshortfile)
}

// Initialize redirects the logger to debug.log inside the given directory.
func Initialize(logDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if logDir == "" {
		return nil
	}

	logPath := filepath.Join(logDir, "debug.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return err
	}

	if logFile != nil {
		logFile.Close()
	}

	logFile = f
	Logger = log.New(f, "[tasknotes] ", log.LstdFlags|log.Lshortfile)
	return nil
}

// Close closes the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		return logFile.Close()
	}
	return nil
}
