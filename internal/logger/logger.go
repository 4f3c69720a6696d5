package logger

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"regexp"
	"sync"
	"time"
)

type LogLevel string

const (
	InfoLevel  LogLevel = "INFO"
	WarnLevel  LogLevel = "WARN"
	ErrorLevel LogLevel = "ERROR"
	DebugLevel LogLevel = "DEBUG"
)

// LogEntry describes the structure of a log message
type LogEntry struct {
	Time    string   `json:"time"`
	Level   LogLevel `json:"level"`
	Module  string   `json:"module,omitempty"`
	Message string   `json:"message"`
	Error   string   `json:"error,omitempty"`
}

// Logger writes one JSON object per line, tagged with the module that owns it.
type Logger struct {
	module string
	out    *log.Logger
}

var (
	outMu sync.RWMutex
	out   io.Writer = os.Stdout

	emailRegex  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	tokenRegex  = regexp.MustCompile(`eyJ[^\s"]+`)
	bcryptRegex = regexp.MustCompile(`\$2[abxy]\$\d{2}\$[./A-Za-z0-9]{53}`)
	bearerRegex = regexp.MustCompile(`(?i)bearer\s+[^\s"]+`)
)

// SetOutput redirects every logger created afterwards. Tests use it to
// capture output.
func SetOutput(w io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	out = w
}

// New creates a logger for the given module.
func New(module string) *Logger {
	outMu.RLock()
	defer outMu.RUnlock()
	return &Logger{
		module: module,
		out:    log.New(out, "", 0),
	}
}

// Anonymize replaces sensitive information in logs (emails, tokens, password hashes)
func Anonymize(s string) string {
	s = emailRegex.ReplaceAllString(s, "[REDACTED_EMAIL]")
	s = bearerRegex.ReplaceAllString(s, "Bearer [REDACTED_TOKEN]")
	s = tokenRegex.ReplaceAllString(s, "[REDACTED_TOKEN]")
	s = bcryptRegex.ReplaceAllString(s, "[REDACTED_HASH]")
	return s
}

func (l *Logger) log(level LogLevel, msg string, err error) {
	entry := LogEntry{
		Time:    time.Now().Format(time.RFC3339),
		Level:   level,
		Module:  l.module,
		Message: Anonymize(msg),
	}
	if err != nil {
		entry.Error = Anonymize(err.Error())
	}
	data, _ := json.Marshal(entry)
	l.out.Println(string(data))
}

// --- Convenient methods ---
func (l *Logger) Info(msg string) {
	l.log(InfoLevel, msg, nil)
}

func (l *Logger) Debug(msg string) {
	l.log(DebugLevel, msg, nil)
}

func (l *Logger) Warn(msg string, err error) {
	l.log(WarnLevel, msg, err)
}

func (l *Logger) Error(msg string, err error) {
	l.log(ErrorLevel, msg, err)
}
