package notion

import (
	"strings"

	"issues-import/internal/issues"
)

const (
	titlePropertyID = "title"

	typeTitle        = "title"
	typeRichText     = "rich_text"
	typeSelect       = "select"
	typeMultiSelect  = "multi_select"
	typePeople       = "people"
	typeCreatedBy    = "created_by"
	typeLastEditedBy = "last_edited_by"
	typeEmail        = "email"
	typePhoneNumber  = "phone_number"
)

// FindProperty locates a property by id or by column name.
func FindProperty(page PageDTO, id issues.PropertyIdentifier) (PropertyDTO, bool) {
	if id.Kind == issues.ByName {
		p, ok := page.Properties[id.Value]
		return p, ok
	}
	for _, p := range page.Properties {
		if p.ID == id.Value {
			return p, true
		}
	}
	return PropertyDTO{}, false
}

// ScalarValue projects a property to a single string. Nil means the
// property has no value for the requested mapping type.
func ScalarValue(p PropertyDTO, mt issues.MappingType) *string {
	values := projectValues(p, mt)
	if len(values) == 0 {
		return nil
	}
	return issues.Ptr(values[0])
}

// TagValues projects a property to a tag set. Email and phone number
// properties do not yield tags.
func TagValues(p PropertyDTO, mt issues.MappingType) []string {
	switch p.Type {
	case typeEmail, typePhoneNumber:
		return nil
	}
	return projectValues(p, mt)
}

func projectValues(p PropertyDTO, mt issues.MappingType) []string {
	switch p.Type {
	case typeTitle:
		return textFacet(p.ID, plainText(p.Title), mt)
	case typeRichText:
		return textFacet(p.ID, plainText(p.RichText), mt)
	case typeSelect:
		if p.Select == nil {
			return nil
		}
		return optionFacets([]OptionDTO{*p.Select}, mt)
	case typeMultiSelect:
		return optionFacets(p.MultiSelect, mt)
	case typePeople:
		return userFacets(p.People, mt)
	case typeCreatedBy:
		if p.CreatedBy == nil {
			return nil
		}
		return userFacets([]UserDTO{*p.CreatedBy}, mt)
	case typeLastEditedBy:
		if p.LastEditedBy == nil {
			return nil
		}
		return userFacets([]UserDTO{*p.LastEditedBy}, mt)
	case typeEmail:
		return single(p.Email)
	case typePhoneNumber:
		return single(p.PhoneNumber)
	default:
		return nil
	}
}

func textFacet(id, text string, mt issues.MappingType) []string {
	switch mt {
	case issues.MappingID:
		return []string{id}
	case issues.MappingName:
		return []string{text}
	default:
		return nil
	}
}

func optionFacets(options []OptionDTO, mt issues.MappingType) []string {
	if mt == issues.MappingEmail {
		return nil
	}
	out := make([]string, 0, len(options))
	for _, o := range options {
		if mt == issues.MappingID {
			out = append(out, o.ID)
		} else {
			out = append(out, o.Name)
		}
	}
	return out
}

func userFacets(users []UserDTO, mt issues.MappingType) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		switch mt {
		case issues.MappingID:
			out = append(out, u.ID)
		case issues.MappingName:
			out = append(out, u.Name)
		case issues.MappingEmail:
			// Bots have no email.
			if u.Person != nil && u.Person.Email != "" {
				out = append(out, u.Person.Email)
			}
		}
	}
	return out
}

func single(s *string) []string {
	if s == nil {
		return nil
	}
	return []string{*s}
}

func plainText(parts []RichTextDTO) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.PlainText)
	}
	return sb.String()
}

// Title returns the row title prefixed with the page emoji, if any.
func Title(page PageDTO) (string, bool) {
	p, ok := FindProperty(page, issues.PropertyIdentifier{Kind: issues.ByID, Value: titlePropertyID})
	if !ok || p.Type != typeTitle {
		return "", false
	}
	text := plainText(p.Title)
	if page.Icon != nil && page.Icon.Type == "emoji" && page.Icon.Emoji != "" {
		return page.Icon.Emoji + " " + text, true
	}
	return text, true
}
