package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"facescope/internal/config"
)

// levelFiles maps each leveled log file to the logrus levels written into it.
var levelFiles = map[string][]logrus.Level{
	"info.log":    {logrus.InfoLevel, logrus.DebugLevel},
	"warning.log": {logrus.WarnLevel},
	"error.log":   {logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel},
}

// Logger provides leveled logging (info/warning/error) to rotating files and stdout.
type Logger struct {
	log    *logrus.Logger
	logDir string
	files  map[string]*lumberjack.Logger
	mu     sync.Mutex
	closed bool
}

// NewLogger creates a Logger and ensures the log directory exists.
func NewLogger(cfg *config.Config) (*Logger, error) {
	if err := os.MkdirAll(cfg.LogDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	l := &Logger{
		log:    logrus.New(),
		logDir: cfg.LogDirectory,
		files:  make(map[string]*lumberjack.Logger),
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.log.SetLevel(level)
	l.log.SetOutput(os.Stdout)
	l.log.SetReportCaller(true)
	l.log.SetFormatter(consoleFormatter(false))

	l.setupFiles()
	return l, nil
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &Logger{log: log, files: make(map[string]*lumberjack.Logger)}
}

// setupFiles attaches one rotating writer per level file.
func (l *Logger) setupFiles() {
	for name, levels := range levelFiles {
		file := &lumberjack.Logger{
			Filename:   filepath.Join(l.logDir, name),
			LocalTime:  true,
			MaxSize:    20,
			MaxBackups: 3,
			MaxAge:     14,
		}
		l.files[name] = file
		l.log.AddHook(&fileHook{
			writer:    file,
			levels:    levels,
			formatter: consoleFormatter(true),
		})
	}
}

func consoleFormatter(noColors bool) logrus.Formatter {
	return &formatter.Formatter{
		NoColors:        noColors,
		TimestampFormat: "2006-01-02 15:04:05",
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			return fmt.Sprintf(" [%s:%d][%s()]", filepath.Base(f.File), f.Line, s[len(s)-1])
		},
	}
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.log.Infof(format, v...)
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.log.Warnf(format, v...)
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	l.log.Errorf(format, v...)
}

// CleanLogs truncates the specified log file.
func (l *Logger) CleanLogs(fileName string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if file, ok := l.files[fileName]; ok {
		// Zamknij writer, żeby lumberjack otworzył plik od nowa
		file.Close()
	}

	filePath := filepath.Join(l.logDir, fileName)
	if err := os.Truncate(filePath, 0); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to truncate %s: %w", fileName, err)
	}

	l.Info("Log file %s has been cleared", fileName)
	return nil
}

// Directory returns the directory holding the level files.
func (l *Logger) Directory() string {
	return l.logDir
}

// Close flushes and closes the rotating file writers.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, file := range l.files {
		file.Close()
	}
	l.closed = true
}

// Closed reports whether Close has been called.
func (l *Logger) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// fileHook writes entries of the given levels into one file.
type fileHook struct {
	writer    io.Writer
	levels    []logrus.Level
	formatter logrus.Formatter
	mu        sync.Mutex
}

func (h *fileHook) Levels() []logrus.Level {
	return h.levels
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.writer.Write(line)
	return err
}
