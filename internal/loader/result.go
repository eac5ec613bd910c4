package loader

import (
	"errors"
	"fmt"

	"issues-import/internal/issues"
)

const (
	msgNoIssuesParsed   = "couldn't parse any issues"
	msgUnknownException = "unknown exception"
)

// Failure describes why a load produced no issues.
type Failure struct {
	Message string
	// WrongParams is set when a loader received parameters meant for another
	// source. It indicates a programming error, not a runtime failure.
	WrongParams bool
}

func (f *Failure) Error() string {
	return f.Message
}

// Result is either a successful, possibly empty, list of issues or a Failure.
type Result struct {
	Issues []issues.IssueTemplate
	Err    *Failure
}

// OK reports whether the load succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Success wraps loaded issues.
func Success(templates []issues.IssueTemplate) Result {
	if templates == nil {
		templates = []issues.IssueTemplate{}
	}
	return Result{Issues: templates}
}

// Failed builds a failed result.
func Failed(message string) Result {
	return Result{Err: &Failure{Message: message}}
}

// WrongParams is returned by a loader called with another source's params.
func WrongParams(loaderName string, params Params) Result {
	return Result{Err: &Failure{
		Message:     fmt.Sprintf("wrong parameters %T for %s loader", params, loaderName),
		WrongParams: true,
	}}
}

// FromError converts a transport or auth error into a failed result, using
// the error message when there is one.
func FromError(err error) Result {
	if err == nil || err.Error() == "" {
		return Failed(msgUnknownException)
	}
	var f *Failure
	if errors.As(err, &f) {
		return Result{Err: f}
	}
	return Failed(err.Error())
}
