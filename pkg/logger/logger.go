package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Leveled logger shared by the server, the CLI and the stores.
// - backed by logrus, text or JSON output
// - optional rotating log file (lumberjack)
// - Debug/Info/Warn/Error/Fatal variants and Init(level)

// Options configures output beyond the level.
type Options struct {
	Level      string
	Format     string // "text" (default) or "json"
	File       string // empty = stdout
	MaxSizeMB  int
	MaxBackups int
	Compress   bool
}

var (
	mu     sync.RWMutex
	logger = newLogrus(os.Stdout)
)

func newLogrus(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	return l
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetLevel(parseLevel(l))
}

// Configure applies level, format and output. When the log file cannot be
// prepared the logger keeps writing to stdout and the error is returned.
func Configure(opts Options) error {
	mu.Lock()
	defer mu.Unlock()
	logger.SetLevel(parseLevel(opts.Level))
	if strings.EqualFold(opts.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	}
	if opts.File == "" {
		logger.SetOutput(os.Stdout)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		logger.SetOutput(os.Stdout)
		return fmt.Errorf("create log directory: %w", err)
	}
	logger.SetOutput(&lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		Compress:   opts.Compress,
		LocalTime:  true,
	})
	return nil
}

func parseLevel(l string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

func current() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debugf(format string, v ...interface{}) { current().Debugf(format, v...) }
func Infof(format string, v ...interface{})  { current().Infof(format, v...) }
func Warnf(format string, v ...interface{})  { current().Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { current().Errorf(format, v...) }

func Fatalf(format string, v ...interface{}) {
	current().Logf(logrus.FatalLevel, format, v...)
	os.Exit(1)
}

// Println kept for brief messages (maps to Info)
func Println(v ...interface{}) { current().Infoln(v...) }

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// WithFields returns an entry carrying structured fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return current().WithFields(fields)
}

// Writer exposes the current output, e.g. for gin's recovery writer.
func Writer() io.Writer { return current().Out }

// LevelString returns the current level as text.
func LevelString() string {
	switch current().GetLevel() {
	case logrus.DebugLevel, logrus.TraceLevel:
		return "debug"
	case logrus.WarnLevel:
		return "warn"
	case logrus.ErrorLevel:
		return "error"
	case logrus.FatalLevel, logrus.PanicLevel:
		return "fatal"
	}
	return "info"
}
