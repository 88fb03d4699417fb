package logger

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New builds a key/value logger writing to w. Unknown levels fall back to
// info.
func New(w io.Writer, level, prefix string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
}

// Setup replaces the package level logger used across the server.
func Setup(w io.Writer, level, prefix string) *log.Logger {
	l := New(w, level, prefix)
	log.SetDefault(l)
	return l
}
