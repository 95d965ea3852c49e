package log

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

type Fields = logrus.Fields

type Options struct {
	Level string
	Env   string
	Dir   string
}

func NewLogger(opts Options) *logrus.Logger {
	once.Do(func() {
		logger = build(opts)
	})

	return logger
}

func build(opts Options) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(ParseLevel(opts.Level))

	l.SetFormatter(&formatter.Formatter{
		NoColors:        false,
		TimestampFormat: "02 Jan 06 - 15:04",
		HideKeys:        false,
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			funcName := s[len(s)-1]
			return fmt.Sprintf(" \x1b[%dm[%s:%d][%s()]", 34, path.Base(f.File), f.Line, funcName)
		},
	})

	writers := []io.Writer{os.Stderr}

	if opts.Env != "test" {
		dir := opts.Dir
		if dir == "" {
			dir = "./storage/logs"
		}
		fileWriter := &lumberjack.Logger{
			Filename:   filepath.Join(dir, fmt.Sprintf("app-%s.log", time.Now().Format("2006-01-02"))),
			LocalTime:  true,
			Compress:   true,
			MaxSize:    100,
			MaxAge:     7,
			MaxBackups: 3,
		}
		writers = append(writers, fileWriter)
	}

	l.SetOutput(io.MultiWriter(writers...))
	l.SetReportCaller(true)

	return l
}

// ParseLevel accepts logrus names plus WARNING and CRITICAL. Unknown values
// fall back to info.
func ParseLevel(level string) logrus.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "WARNING":
		return logrus.WarnLevel
	case "CRITICAL":
		return logrus.FatalLevel
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
