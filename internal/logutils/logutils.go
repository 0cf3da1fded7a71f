package logutils

import "fmt"

// FormatPrinter defers formatting of an arbitrary value until a log line is
// actually emitted, so a debug-level field costs nothing when debug logging
// is off.
type FormatPrinter struct {
	verb string
	item any
}

func (p FormatPrinter) String() string {
	return fmt.Sprintf(p.verb, p.item)
}

// Format wraps item for lazy rendering with the given format verb.
func Format(verb string, item any) FormatPrinter {
	return FormatPrinter{verb, item}
}
