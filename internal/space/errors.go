package space

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmailTagMapping is returned when tags are configured to map by email.
var ErrEmailTagMapping = errors.New("can't map tags' emails, use --tagPropertyMappingType id or name")

// SecondaryError reports board placement and tag attachment problems. The
// import itself succeeded when Upload returns it.
type SecondaryError struct {
	BoardNotFound bool
	BoardLookup   error
	TagLookup     error
	BoardFailures int
	TagFailures   int
}

func (e *SecondaryError) Error() string {
	var parts []string
	if e.BoardNotFound {
		parts = append(parts, "board not found")
	}
	if e.BoardLookup != nil {
		parts = append(parts, fmt.Sprintf("board lookup failed: %v", e.BoardLookup))
	}
	if e.TagLookup != nil {
		parts = append(parts, fmt.Sprintf("tag lookup failed: %v", e.TagLookup))
	}
	if e.BoardFailures > 0 {
		parts = append(parts, fmt.Sprintf("%d issues not added to board", e.BoardFailures))
	}
	if e.TagFailures > 0 {
		parts = append(parts, fmt.Sprintf("%d tags not attached", e.TagFailures))
	}
	return "post-import steps incomplete: " + strings.Join(parts, "; ")
}

func (e *SecondaryError) empty() bool {
	return !e.BoardNotFound && e.BoardLookup == nil && e.TagLookup == nil && e.BoardFailures == 0 && e.TagFailures == 0
}
