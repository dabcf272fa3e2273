package util

import (
	"os"

	"github.com/fatih/color"
)

func isCharDevice(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return isCharDevice(os.Stdout)
}

// Interactive reports whether prompts and full-screen views may be shown:
// both stdin and stdout are terminals and the caller has not opted out.
func Interactive(disabled bool) bool {
	return !disabled && IsTTY() && isCharDevice(os.Stdin)
}

// InitColor turns colored output off for --no-color, NO_COLOR, or a
// redirected stdout.
func InitColor(noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" || !IsTTY() {
		color.NoColor = true
	}
}
