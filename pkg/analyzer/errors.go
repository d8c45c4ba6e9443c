package analyzer

import "strings"

// QueryRateLimitedError is the single user-visible failure for a request.
// It lists every operation whose window was exceeded, in visit order, with
// duplicates preserved. One request produces at most one of these no matter
// how many operations are over limit.
type QueryRateLimitedError struct {
	Operations []string
}

func (e *QueryRateLimitedError) Error() string {
	return "Query rate limit exceeded on " + strings.Join(e.Operations, ", ")
}
