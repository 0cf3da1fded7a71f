package action

import (
	"strings"

	"emperror.dev/errors"
)

// Inputs is implemented by per-action input structs so that every action
// validates its configuration the same way before doing any work.
type Inputs interface {
	Validate() error
}

// Require returns an error naming every listed input that is unset or empty.
// Intended as the first check of an Inputs.Validate implementation; the
// caller decides whether a failed validation also fails the action.
func Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if GetInput(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required input(s): %s", strings.Join(missing, ", "))
	}
	return nil
}
