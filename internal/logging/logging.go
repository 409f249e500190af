package logging

import (
	"fmt"
	"io"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"textintel/internal/config"
)

// New builds the process logger. Format "json" emits one JSON object per
// line, anything else emits key=value text.
func New(cfg config.LoggingConfig, w io.Writer) logr.Logger {
	out := &lockedWriter{w: w}
	opts := funcr.Options{
		LogTimestamp:    true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		Verbosity:       cfg.Verbosity,
	}
	if cfg.Format == "json" {
		return funcr.NewJSON(func(obj string) { out.line(obj) }, opts)
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			out.line(prefix + ": " + args)
			return
		}
		out.line(args)
	}, opts)
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) line(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintln(l.w, s)
}
