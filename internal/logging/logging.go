// Package logging sets up the logrus logger. The TUI owns the terminal, so
// all logging goes to a file; with no file configured everything is
// discarded.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to path at the given level. The returned
// close function releases the log file and is safe to call when no file was
// opened.
func New(path, level string) (*logrus.Logger, func(), error) {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	log.SetLevel(lvl)

	if path == "" {
		log.SetOutput(io.Discard)
		return log, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening log file %s: %w", path, err)
	}
	log.SetOutput(f)

	return log, func() { _ = f.Close() }, nil
}
