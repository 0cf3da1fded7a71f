package action

import (
	"fmt"
	"os"
	"strings"

	"emperror.dev/errors"
	"github.com/google/uuid"
)

const (
	// inputPrefix is the prefix the runner applies when it maps a declared
	// action input to an environment variable.
	inputPrefix = "INPUT_"

	// OutputEnv names the environment variable holding the path of the
	// file that receives action output records.
	OutputEnv = "GITHUB_OUTPUT"

	// EnvFileEnv names the environment variable holding the path of the
	// file that exports environment variables to later workflow steps.
	EnvFileEnv = "GITHUB_ENV"
)

// GetInput returns the value of the declared action input, or the empty
// string when the input was not provided. The name is mapped to the runner's
// environment variable convention: upper-cased, hyphens replaced with
// underscores, prefixed with INPUT_. The name itself is not validated; pass
// it exactly as declared in the action metadata.
func GetInput(name string) string {
	key := inputPrefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	return os.Getenv(key)
}

// SetOutput appends a name/value record to the file named by GITHUB_OUTPUT.
// Records are heredoc-framed so multiline values survive; append semantics,
// the runner resolves duplicate names itself (last writer wins). An unset
// GITHUB_OUTPUT or an unwritable file is returned as an error, never
// swallowed.
func SetOutput(name, value string) error {
	return appendRecord(OutputEnv, name, value)
}

// SetEnv appends a name/value record to the file named by GITHUB_ENV, making
// the variable visible to subsequent steps of the running job. Same record
// format and error policy as SetOutput.
func SetEnv(name, value string) error {
	return appendRecord(EnvFileEnv, name, value)
}

func appendRecord(env, name, value string) error {
	path := os.Getenv(env)
	if path == "" {
		return errors.Errorf("%s is not set", env)
	}

	record, err := formatRecord(name, value)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "unable to open %s file", env)
	}
	if _, err := f.WriteString(record); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "unable to append to %s file", env)
	}
	return errors.Wrapf(f.Close(), "unable to append to %s file", env)
}

// newDelimiter generates the heredoc delimiter for a single record. Tests
// swap it out to exercise the collision guard.
var newDelimiter = func() string {
	return "ghadelimiter_" + uuid.NewString()
}

// formatRecord frames value in the runner's heredoc record syntax. The
// delimiter carries a random suffix so a value containing a literal "EOF"
// line cannot terminate the record early.
func formatRecord(name, value string) (string, error) {
	if strings.ContainsAny(name, "\r\n") {
		return "", errors.Errorf("record name %q must not contain line breaks", name)
	}
	delimiter := newDelimiter()
	if strings.Contains(value, delimiter) {
		return "", errors.Errorf("record value collides with delimiter %s", delimiter)
	}
	return fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter), nil
}
