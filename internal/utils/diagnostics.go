package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// DiagnosticLevel represents the level of diagnostic output
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
	DiagnosticDebug
)

// String returns the label printed in front of messages of this level
func (l DiagnosticLevel) String() string {
	switch l {
	case DiagnosticError:
		return "ERROR"
	case DiagnosticWarn:
		return "WARN"
	case DiagnosticInfo:
		return "INFO"
	case DiagnosticVerbose:
		return "VERBOSE"
	case DiagnosticDebug:
		return "DEBUG"
	default:
		return "SILENT"
	}
}

// levelColors maps each level to the color of its label
var levelColors = map[DiagnosticLevel]*color.Color{
	DiagnosticError:   color.New(color.FgRed, color.Bold),
	DiagnosticWarn:    color.New(color.FgYellow),
	DiagnosticInfo:    color.New(color.FgBlue),
	DiagnosticVerbose: color.New(color.FgHiBlack),
	DiagnosticDebug:   color.New(color.FgMagenta),
}

// DiagnosticSystem provides levelled, structured log output. Every level is
// written to the same writer, stderr by default, so stdout stays reserved for
// program output.
type DiagnosticSystem struct {
	level     DiagnosticLevel
	useColors bool
	showTime  bool
	output    io.Writer
	indent    int
}

// NewDiagnosticSystem creates a new diagnostic system writing to stderr
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	return NewDiagnosticSystemWithWriter(level, os.Stderr)
}

// NewDiagnosticSystemWithWriter creates a diagnostic system writing to w.
// Colors are only used when writing to a terminal.
func NewDiagnosticSystemWithWriter(level DiagnosticLevel, w io.Writer) *DiagnosticSystem {
	return &DiagnosticSystem{
		level:     level,
		useColors: w == os.Stderr && !color.NoColor,
		showTime:  level >= DiagnosticVerbose,
		output:    w,
	}
}

// NewQuietDiagnostics creates a diagnostic system that only shows errors
func NewQuietDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticError)
}

// Level returns the configured level
func (d *DiagnosticSystem) Level() DiagnosticLevel {
	return d.level
}

// Error outputs error messages (always shown unless silent)
func (d *DiagnosticSystem) Error(format string, args ...interface{}) {
	d.log(DiagnosticError, format, args...)
}

// Warn outputs warning messages
func (d *DiagnosticSystem) Warn(format string, args ...interface{}) {
	d.log(DiagnosticWarn, format, args...)
}

// Info outputs informational messages
func (d *DiagnosticSystem) Info(format string, args ...interface{}) {
	d.log(DiagnosticInfo, format, args...)
}

// Verbose outputs detailed messages (verbose mode only)
func (d *DiagnosticSystem) Verbose(format string, args ...interface{}) {
	d.log(DiagnosticVerbose, format, args...)
}

// Debug outputs debug messages (highest verbosity)
func (d *DiagnosticSystem) Debug(format string, args ...interface{}) {
	d.log(DiagnosticDebug, format, args...)
}

// Indent increases the indentation level
func (d *DiagnosticSystem) Indent() {
	d.indent++
}

// Unindent decreases the indentation level
func (d *DiagnosticSystem) Unindent() {
	if d.indent > 0 {
		d.indent--
	}
}

func (d *DiagnosticSystem) log(level DiagnosticLevel, format string, args ...interface{}) {
	if d.level < level {
		return
	}
	d.writeMessage(level, fmt.Sprintf(format, args...))
}

// writeMessage is the internal message writing function
func (d *DiagnosticSystem) writeMessage(level DiagnosticLevel, message string) {
	var output strings.Builder
	output.WriteString(strings.Repeat("  ", d.indent))

	// Add timestamp if enabled
	if d.showTime {
		output.WriteString(time.Now().Format("15:04:05 "))
	}

	label := "[" + level.String() + "]"
	if c, ok := levelColors[level]; ok && d.useColors {
		label = c.Sprint(label)
	}
	output.WriteString(label)
	output.WriteString(" ")

	// Add the message
	output.WriteString(message)
	output.WriteString("\n")

	fmt.Fprint(d.output, output.String())
}
