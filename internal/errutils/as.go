package errutils

import "emperror.dev/errors"

// As unwraps err into the concrete error type T, reporting whether the
// error chain contains one.
func As[T error](err error) (T, bool) {
	var concrete T
	if err == nil {
		return concrete, false
	}
	if !errors.As(err, &concrete) {
		return concrete, false
	}
	return concrete, true
}
