package tools

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

func InitLogger() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   false,
		PadLevelText:    true,
	})
	Log.SetLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// ParseLevel maps a LOG_LEVEL value to a logrus level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// StartTranscript tees all log output into <dir>/<name>-<timestamp>.log.
// The directory is created if missing. The returned func closes the file
// and restores stderr-only output.
func StartTranscript(dir, name string, now time.Time) (string, func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%s.log", Slugify(name), now.Format("20060102-150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open transcript %s: %w", path, err)
	}

	Log.SetOutput(io.MultiWriter(os.Stderr, f))
	Log.WithField("path", path).Debug("Transcript started")

	return path, func() {
		Log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

// LogReconcileSummary writes the end-of-run counters in a single line.
func LogReconcileSummary(label string, processed, alreadyDisabled, needsDisabling, notFound int) {
	Log.Infof("[%s] processed=%d already_disabled=%d needs_disabling=%d not_found=%d",
		label, processed, alreadyDisabled, needsDisabling, notFound)
}
