package console

import (
	"fmt"
	"io"
	"os"

	"github.com/TwiN/go-color"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	colorize = term.IsTerminal(int(os.Stdout.Fd()))
	logger   = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !colorize}).
			Level(zerolog.Disabled).With().Timestamp().Logger()
)

// Set up console output. Verbose enables debug logging on stderr.
func Init(verbose bool) {
	level := zerolog.Disabled
	if verbose {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: !colorize}).
		Level(level).With().Timestamp().Logger()
}

// Redirect console output. Used by tests.
func SetOutput(out, errOut io.Writer) {
	stdout = out
	stderr = errOut
	colorize = false
}

// Structured logger for debug output.
func Log() *zerolog.Logger {
	return &logger
}

func paint(c string, message string) string {
	if !colorize {
		return message
	}
	return color.Ize(c, message)
}

// Log verbose message.
// Only printed with `--verbose` or `VERBOSE=1`.
func Verbose(message string, vars ...any) {
	logger.Debug().Msgf(message, vars...)
}

// Log success message to console.
func Success(message string, vars ...any) {
	fmt.Fprintf(stdout, paint(color.Green, message)+"\n", vars...)
}

// Log info message to console.
func Info(message string, vars ...any) {
	fmt.Fprintf(stdout, paint(color.Cyan, message)+"\n", vars...)
}

// Print plain output.
func Print(message string, vars ...any) {
	fmt.Fprintf(stdout, message+"\n", vars...)
}

// Log warning message to stderr.
func Warning(message string, vars ...any) {
	fmt.Fprintf(stderr, paint(color.Yellow, message)+"\n", vars...)
}

// Build an error with a colored message.
func Error(message string, vars ...any) error {
	return fmt.Errorf(paint(color.Red, message), vars...)
}

// Log error message to stderr.
func ErrorPrint(message string, vars ...any) {
	fmt.Fprintf(stderr, paint(color.Red, message)+"\n", vars...)
}

// Standard output writer.
func Stdout() io.Writer {
	return stdout
}

// Standard error writer.
func Stderr() io.Writer {
	return stderr
}
