/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package logging provides the colored stderr logger used by hotmod commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	warningColor = color.New(color.FgYellow, color.Bold)
	debugColor   = color.New(color.FgHiBlack)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// Logger writes leveled messages. Debug messages are dropped unless verbose.
type Logger struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

// New creates a Logger writing to stderr.
func New(verbose bool) *Logger {
	return NewWriter(color.Error, verbose)
}

// NewWriter creates a Logger writing to w.
func NewWriter(w io.Writer, verbose bool) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{w: w, verbose: verbose}
}

// Warning logs a warning.
func (l *Logger) Warning(format string, args ...any) {
	l.print(warningColor, "warning", format, args...)
}

// Debug logs a message when verbose output is on.
func (l *Logger) Debug(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.print(debugColor, "debug", format, args...)
}

// Error logs an error.
func (l *Logger) Error(format string, args ...any) {
	l.print(errorColor, "error", format, args...)
}

func (l *Logger) print(c *color.Color, level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = c.Fprint(l.w, level+":")
	_, _ = fmt.Fprintf(l.w, " %s\n", fmt.Sprintf(format, args...))
}
