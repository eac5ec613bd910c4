package space

import "fmt"

// IdentifierKind says whether an identifier holds a key, a name or an id.
type IdentifierKind int

const (
	ByID IdentifierKind = iota
	ByKey
	ByName
)

// ProjectIdentifier addresses a destination project by key or by id.
type ProjectIdentifier struct {
	Kind  IdentifierKind
	Value string
}

func ProjectByKey(key string) ProjectIdentifier { return ProjectIdentifier{Kind: ByKey, Value: key} }
func ProjectByID(id string) ProjectIdentifier   { return ProjectIdentifier{Kind: ByID, Value: id} }

// String renders the identifier as a path segment, e.g. key:ABC.
func (p ProjectIdentifier) String() string {
	if p.Kind == ByKey {
		return "key:" + p.Value
	}
	return "id:" + p.Value
}

// BoardIdentifier addresses a planning board by id or by display name.
type BoardIdentifier struct {
	Kind  IdentifierKind
	Value string
}

func BoardByID(id string) *BoardIdentifier     { return &BoardIdentifier{Kind: ByID, Value: id} }
func BoardByName(name string) *BoardIdentifier { return &BoardIdentifier{Kind: ByName, Value: name} }

func (b BoardIdentifier) String() string {
	if b.Kind == ByName {
		return fmt.Sprintf("name:%s", b.Value)
	}
	return "id:" + b.Value
}
