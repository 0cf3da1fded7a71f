package action

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// commandOut is the stream the runner scans for workflow commands. Tests
// swap it out to capture emitted commands.
var commandOut io.Writer = os.Stdout

// messageEscaper applies the runner's data escaping rules for workflow
// command payloads.
var messageEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

// SetFailed reports a fatal error through the runner's error annotation;
// the runner marks the hosting step failed once it sees the annotation.
// The process keeps executing, stopping is the caller's responsibility.
func SetFailed(message string) {
	issue("error", message)
}

// Error emits an error annotation without implying the step must stop;
// use SetFailed to report a failure the runner should act on.
func Error(message string) {
	issue("error", message)
}

// Notice emits a notice annotation attached to the workflow run.
func Notice(message string) {
	issue("notice", message)
}

// Warning emits a warning annotation attached to the workflow run.
func Warning(message string) {
	issue("warning", message)
}

// AddMask registers value with the runner so every later occurrence of it in
// the step log is redacted.
func AddMask(value string) {
	issue("add-mask", value)
}

// Group opens a collapsible group in the step log. Close it with EndGroup.
func Group(name string) {
	issue("group", name)
}

// EndGroup closes the group opened by the most recent Group.
func EndGroup() {
	issue("endgroup", "")
}

func issue(command, message string) {
	fmt.Fprintf(commandOut, "::%s::%s\n", command, messageEscaper.Replace(message))
}
