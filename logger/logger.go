package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger - 패널 전역에서 사용하는 로거 인터페이스
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
}

var _ Logger = (*logrusLogger)(nil)

type logrusLogger struct {
	entry *logrus.Entry
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New - logrus 기반 로거 생성
//
// logDir이 비어있지 않으면 콘솔과 logDir/panel.log에 동시에 기록한다.
// 반환된 io.Closer는 로그 파일을 닫는다 (파일이 없으면 아무것도 하지 않음).
func New(level string, logDir string) (Logger, io.Closer, error) {
	l := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	l.SetFormatter(&SimpleFormatter{TimestampFormat: "2006/01/02 15:04:05.000"})

	if logDir == "" {
		l.SetOutput(os.Stdout)
		return &logrusLogger{entry: logrus.NewEntry(l)}, nopCloser{}, nil
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory '%s': %w", logDir, err)
	}
	path := filepath.Join(logDir, "panel.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file '%s': %w", path, err)
	}
	l.SetOutput(io.MultiWriter(os.Stdout, f))

	return &logrusLogger{entry: logrus.NewEntry(l)}, f, nil
}

// NewWriter - 지정한 writer로만 기록하는 로거 (테스트용)
func NewWriter(w io.Writer) Logger {
	l := logrus.New()
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&SimpleFormatter{TimestampFormat: "15:04:05.000"})
	l.SetOutput(w)
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

// Discard - 아무것도 출력하지 않는 로거
func Discard() Logger {
	return NewWriter(io.Discard)
}

func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

func (l *logrusLogger) WithField(key string, value interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

// SimpleFormatter - "2025/04/06 17:30:00.000 [INF] message key=value" 형식
type SimpleFormatter struct {
	TimestampFormat string
}

// Format implements logrus.Formatter.
func (f *SimpleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	tsFormat := f.TimestampFormat
	if tsFormat == "" {
		tsFormat = "2006/01/02 15:04:05.000"
	}
	b.WriteString(entry.Time.Format(tsFormat))
	b.WriteByte(' ')

	level := strings.ToUpper(entry.Level.String())
	if len(level) > 3 {
		level = level[:3]
	}
	fmt.Fprintf(b, "[%s] %s", level, entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(b, " %s=%v", k, entry.Data[k])
		}
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}
