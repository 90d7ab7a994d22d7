package output

import (
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/asprules/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how results are written.
type Format int

const (
	// FormatAuto resolves to terminal or text from the writer
	FormatAuto Format = iota
	// FormatTerminal renders styled tables
	FormatTerminal
	// FormatText renders the same tables without color
	FormatText
	// FormatJSON renders rules and reports as JSON
	FormatJSON
)

var formatNames = map[Format]string{
	FormatAuto:     "auto",
	FormatTerminal: "term",
	FormatText:     "text",
	FormatJSON:     "json",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat accepts the --output flag values. "terminal" and "plain" are
// aliases of "term" and "text".
func ParseFormat(s string) (Format, error) {
	switch name := strings.ToLower(strings.TrimSpace(s)); name {
	case "", "auto":
		return FormatAuto, nil
	case "terminal":
		return FormatTerminal, nil
	case "plain":
		return FormatText, nil
	default:
		for f, n := range formatNames {
			if n == name {
				return f, nil
			}
		}
	}
	return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown output format %q (want auto, term, text or json)", s)
}

// Resolve turns FormatAuto into a concrete format for w. Writers that are
// not files, such as buffers in tests, always get plain text.
func Resolve(f Format, w io.Writer) Format {
	if f != FormatAuto {
		return f
	}
	if file, ok := w.(*os.File); ok {
		return DetectFormat(file)
	}
	return FormatText
}

// DetectFormat reports FormatTerminal when output is a color capable
// terminal and NO_COLOR is unset, FormatText otherwise.
func DetectFormat(output *os.File) Format {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return FormatText
	}
	fd := output.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return FormatText
	}
	if termenv.NewOutput(output).EnvColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
