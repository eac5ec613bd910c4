package loader

import (
	"github.com/rs/zerolog"

	"issues-import/internal/issues"
	"issues-import/internal/logging"
)

// ParseFunc converts one fetched item into a template.
type ParseFunc[T any] func(item T) (issues.IssueTemplate, error)

// Collect parses every fetched item independently. Items that fail to parse
// are logged and dropped. The result fails only when items were fetched and
// none of them parsed.
func Collect[T any](l zerolog.Logger, source string, fetched []T, parse ParseFunc[T]) Result {
	count := len(fetched)
	templates := make([]issues.IssueTemplate, 0, count)

	for i, item := range fetched {
		tmpl, err := parse(item)
		if err != nil {
			logging.ParseFailure(l, err, i, count, source)
			continue
		}
		logging.IssueLoaded(l, tmpl.Issue, i, count)
		templates = append(templates, tmpl)
	}

	if len(templates) < count {
		logging.SomeFailedToParse(l, len(templates), count)
	}
	if count > 0 && len(templates) == 0 {
		return Failed(msgNoIssuesParsed)
	}
	return Success(templates)
}
