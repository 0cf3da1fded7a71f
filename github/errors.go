package github

import (
	"net/http"

	gh "github.com/google/go-github/v80/github"

	"github.com/actionkit-io/actionkit/internal/errutils"
)

// isNotFound reports whether err is the API's 404 response, the one failure
// the manager distinguishes in its logs. Every other client-reported failure
// (auth, rate limit, transport) is collapsed identically at call sites.
func isNotFound(err error) bool {
	respErr, ok := errutils.As[*gh.ErrorResponse](err)
	if !ok {
		return false
	}
	return respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound
}
