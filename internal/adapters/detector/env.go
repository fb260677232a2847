// Package detector picks the log format from the environment.
package detector

import (
	"os"

	"golang.org/x/term"
)

// LogFormat is the rendering format of log lines.
type LogFormat int

const (
	// FormatAuto detects the format from the environment.
	FormatAuto LogFormat = iota
	// FormatPretty forces coloured human readable lines.
	FormatPretty
	// FormatJSON forces one JSON object per line.
	FormatJSON
)

// DetectEnvironment returns the recommended log format.
// Logs go to stderr, so JSON is chosen when stderr is not a TTY or CI is set.
func DetectEnvironment() LogFormat {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return FormatJSON
	}
	return FormatPretty
}

// ResolveFormat applies the --log-format flag to the detected format.
// userFlag should be one of: "auto", "pretty", "json", or empty.
func ResolveFormat(detected LogFormat, userFlag string) LogFormat {
	switch userFlag {
	case "pretty":
		return FormatPretty
	case "json":
		return FormatJSON
	default:
		return detected
	}
}
