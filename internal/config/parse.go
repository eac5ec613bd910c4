package config

import (
	"fmt"
	"strings"

	"issues-import/internal/issues"
	"issues-import/internal/space"
)

// Separator splits keys from values in mapping and identifier arguments.
const Separator = "::"

// UsageError reports invalid or missing arguments.
type UsageError struct {
	Msg string
	Err error
}

func (e *UsageError) Error() string { return e.Msg }

func (e *UsageError) Unwrap() error { return e.Err }

func usagef(format string, args ...any) *UsageError {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// ParseMapping splits "key::value". Exactly one separator is allowed.
func ParseMapping(arg string) (string, string, error) {
	parts := strings.Split(arg, Separator)
	if len(parts) != 2 {
		return "", "", usagef("mapping format is wrong for argument: %s", arg)
	}
	return parts[0], parts[1], nil
}

// BuildMapping builds a rename table from "key::value" pairs. Keys are
// lowercased and later pairs override earlier ones.
func BuildMapping(pairs []string) (issues.Mapping, error) {
	m := make(issues.Mapping, len(pairs))
	for _, pair := range pairs {
		key, value, err := ParseMapping(pair)
		if err != nil {
			return nil, err
		}
		m[strings.ToLower(key)] = value
	}
	return m, nil
}

// ParseProjectIdentifier parses key::ABC or id::42.
func ParseProjectIdentifier(arg string) (space.ProjectIdentifier, error) {
	kind, value, err := ParseMapping(arg)
	if err != nil {
		return space.ProjectIdentifier{}, err
	}
	switch strings.ToLower(kind) {
	case "key":
		return space.ProjectByKey(value), nil
	case "id":
		return space.ProjectByID(value), nil
	}
	return space.ProjectIdentifier{}, usagef("only key::value or id::value are allowed for --spaceProject as identifier")
}

// ParseBoardIdentifier parses name::Tasks or id::DRrHX45Jsxl. Blank means
// no board.
func ParseBoardIdentifier(arg string) (*space.BoardIdentifier, error) {
	if arg == "" {
		return nil, nil
	}
	kind, value, err := ParseMapping(arg)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(kind) {
	case "name":
		return space.BoardByName(value), nil
	case "id":
		return space.BoardByID(value), nil
	}
	return nil, usagef("only name::value or id::value are allowed for --spaceBoard as identifier")
}

// ParsePropertyIdentifier parses name::Status or id::abc for flag. Blank
// means the property is not configured.
func ParsePropertyIdentifier(flag, arg string) (*issues.PropertyIdentifier, error) {
	if arg == "" {
		return nil, nil
	}
	kind, value, err := ParseMapping(arg)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(kind) {
	case "name":
		return issues.PropertyByName(value), nil
	case "id":
		return issues.PropertyByID(value), nil
	}
	return nil, usagef("only name::value or id::value are allowed for --%s as identifier", flag)
}
