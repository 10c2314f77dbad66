package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It is usable before Init.
var Log = logrus.New()

type lineFormatter struct{}

// Format renders "[time] [LEVL] [file:line] msg key=value ...".
func (f *lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}
	fmt.Fprintf(&b, "[%s] [%s]", entry.Time.Format("2006-01-02 15:04:05"), level)
	if entry.HasCaller() {
		fmt.Fprintf(&b, " [%s:%d]", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}
	b.WriteString(" ")
	b.WriteString(entry.Message)

	for k, v := range entry.Data {
		fmt.Fprintf(&b, " %s=%v", k, v)
	}
	b.WriteString("\n")
	return []byte(b.String()), nil
}

// Init configures Log. Output goes to stdout and, if filePath is set, to
// that file as well.
func Init(levelStr, filePath string) error {
	Log.SetReportCaller(true)
	Log.SetFormatter(&lineFormatter{})

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	writers := []io.Writer{os.Stdout}
	if filePath != "" {
		if dir := filepath.Dir(filePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create log directory: %w", err)
			}
		}
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return err
		}
		writers = append(writers, file)
	}
	Log.SetOutput(io.MultiWriter(writers...))
	return nil
}
