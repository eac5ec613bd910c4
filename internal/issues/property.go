package issues

import (
	"fmt"
	"strings"
)

// PropertyKind selects how a PropertyIdentifier matches a source column.
type PropertyKind int

const (
	ByID PropertyKind = iota
	ByName
)

// PropertyIdentifier locates a source column either by its stable id or
// by its display name.
type PropertyIdentifier struct {
	Kind  PropertyKind
	Value string
}

// PropertyByID returns an identifier matching the column id.
func PropertyByID(id string) *PropertyIdentifier {
	return &PropertyIdentifier{Kind: ByID, Value: id}
}

// PropertyByName returns an identifier matching the column name.
func PropertyByName(name string) *PropertyIdentifier {
	return &PropertyIdentifier{Kind: ByName, Value: name}
}

func (p PropertyIdentifier) String() string {
	if p.Kind == ByID {
		return "id::" + p.Value
	}
	return "name::" + p.Value
}

// MappingType controls which facet of a resolved property is used as text.
type MappingType int

const (
	MappingName MappingType = iota
	MappingID
	MappingEmail
)

// DefaultMappingType is used when no mapping type was configured.
const DefaultMappingType = MappingName

// ParseMappingType parses id, name or email case-insensitively. Unknown
// values fall back to DefaultMappingType.
func ParseMappingType(s string) MappingType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "id":
		return MappingID
	case "email":
		return MappingEmail
	default:
		return DefaultMappingType
	}
}

func (m MappingType) String() string {
	switch m {
	case MappingID:
		return "id"
	case MappingEmail:
		return "email"
	case MappingName:
		return "name"
	default:
		return fmt.Sprintf("MappingType(%d)", int(m))
	}
}
