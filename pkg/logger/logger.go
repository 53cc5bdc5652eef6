// Package logger builds the zerolog loggers used across the SDK and the
// marklyctl CLI.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const permission = 0o664

// Build assembles a zerolog.Logger step by step.
type Build struct {
	writer  io.Writer
	path    string
	console bool
	level   zerolog.Level
}

// New starts a build with level info and no output configured.
func New() *Build {
	return &Build{level: zerolog.InfoLevel}
}

// ToWriter directs log output to w.
func (b *Build) ToWriter(w io.Writer) *Build {
	b.writer = w
	return b
}

// ToPath appends log output to the file at path, creating it if needed.
func (b *Build) ToPath(path string) *Build {
	b.path = path
	return b
}

// Console wraps the writer in zerolog's human-readable console format.
func (b *Build) Console() *Build {
	b.console = true
	return b
}

// Level sets the minimum level.
func (b *Build) Level(level zerolog.Level) *Build {
	b.level = level
	return b
}

// Make finalizes the build. With no writer or path configured the logger
// writes to stderr.
func (b *Build) Make() (zerolog.Logger, error) {
	writer := b.writer
	if writer == nil {
		writer = os.Stderr
	}
	if b.path != "" {
		file, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return zerolog.Nop(), err
		}
		writer = zerolog.SyncWriter(file)
	}
	if b.console {
		writer = zerolog.ConsoleWriter{Out: writer}
	}
	log := zerolog.New(writer).Level(b.level).With().Timestamp().Logger()
	return log, nil
}
