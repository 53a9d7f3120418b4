package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

type Color func(string, ...interface{}) string

var (
	output io.Writer = os.Stdout
	silent bool
)

// Silent stops every message from being reported.
func Silent() {
	silent = true
}

// Verbose restores reporting after Silent.
func Verbose() {
	silent = false
}

// SetOutput changes where messages are reported. The default is stdout.
func SetOutput(w io.Writer) {
	output = w
}

func Warn(format string, args ...interface{}) {
	report(color.YellowString, "WARN", format, args...)
}

func Error(format string, args ...interface{}) {
	report(color.RedString, "ERROR", format, args...)
}

func Info(format string, args ...interface{}) {
	report(color.GreenString, "INFO", format, args...)
}

func report(color Color, lvl string, format string, args ...interface{}) {
	if silent {
		return
	}
	fmt.Fprintf(output, "%s: %s\n", color(lvl), fmt.Sprintf(format, args...))
}
