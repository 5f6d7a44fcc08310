package api

import (
	"fmt"
	"strings"
	"time"

	"squad-ladder/internal/domain"

	"github.com/valyala/fasthttp"
)

// Error carries the identifiers of the call that failed.
type Error struct {
	Op         string
	Target     string
	Region     string
	Status     int
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "riot api %s %s (%s)", e.Op, e.Target, e.Region)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap maps the status to a domain sentinel. Only a 404 on the account
// lookup means the player is gone; a 404 elsewhere is an upstream fault.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 3)
	switch {
	case e.Status == fasthttp.StatusNotFound && e.Op == endpointAccount:
		errs = append(errs, domain.ErrNotFoundUpstream)
	case e.Status == fasthttp.StatusTooManyRequests:
		errs = append(errs, domain.ErrRateLimited, domain.ErrUpstream)
	default:
		errs = append(errs, domain.ErrUpstream)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
