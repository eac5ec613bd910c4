// Package logging configures the global zerolog logger and provides the
// named log events the import pipeline emits.
package logging

import (
	"strings"

	"github.com/rs/zerolog"

	"issues-import/internal/issues"
)

const reportURL = "https://github.com/JetBrains/space-issues-import/issues/new"

const descriptionPreview = 64

// IssueLoaded logs progress for one parsed issue and, at debug level, its
// fields.
func IssueLoaded(l zerolog.Logger, issue issues.ExternalIssue, index, count int) {
	l.Info().Msgf("issue %d / %d", index+1, count)
	l.Debug().
		Str("id", issue.ExternalID).
		Str("status", issue.Status).
		Str("assignee", issues.Deref(issue.Assignee)).
		Str("summary", issue.Summary).
		Str("description", preview(issues.Deref(issue.Description))).
		Msg("issue fields")
}

// ParseFailure logs that a single fetched item could not be converted.
func ParseFailure(l zerolog.Logger, err error, index, count int, source string) {
	l.Error().Err(err).Msgf("failed to parse issue %d / %d from %s", index+1, count, source)
}

// SomeFailedToParse is logged once per load when at least one item was
// dropped.
func SomeFailedToParse(l zerolog.Logger, parsed, fetched int) {
	l.Warn().
		Int("parsed", parsed).
		Int("fetched", fetched).
		Str("report", reportURL).
		Msg("some issues failed to parse")
}

// ExternalServiceError logs a transport or auth failure of a source system.
func ExternalServiceError(l zerolog.Logger, err error, message string) {
	l.Error().Err(err).Str("report", reportURL).Msg(message)
}

// GeneralError logs an unexpected failure.
func GeneralError(l zerolog.Logger, err error) {
	l.Error().Err(err).Str("report", reportURL).Msg("unexpected error")
}

func preview(s string) string {
	if len(s) > descriptionPreview {
		s = s[:descriptionPreview] + "..."
	}
	return strings.Join(strings.Fields(s), " ")
}
