package youtrack

import (
	"encoding/json"
)

// IssueDTO is one entry of the /api/issues response.
type IssueDTO struct {
	ID           string           `json:"id"`
	IDReadable   string           `json:"idReadable"`
	Summary      *string          `json:"summary"`
	Description  *string          `json:"description"`
	CustomFields []CustomFieldDTO `json:"customFields"`
}

// CustomFieldDTO holds a custom field whose value may be null, a single
// object or a list of objects depending on the field type.
type CustomFieldDTO struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// FieldValueDTO covers enum, state and user values.
type FieldValueDTO struct {
	Name     string `json:"name"`
	Login    string `json:"login"`
	FullName string `json:"fullName"`
}

// Field returns the custom field with the given name.
func (i IssueDTO) Field(name string) (CustomFieldDTO, bool) {
	for _, f := range i.CustomFields {
		if f.Name == name {
			return f, true
		}
	}
	return CustomFieldDTO{}, false
}

// Values decodes the field value. Null yields nothing, a list yields every
// element.
func (f CustomFieldDTO) Values() []FieldValueDTO {
	if len(f.Value) == 0 || string(f.Value) == "null" {
		return nil
	}
	var many []FieldValueDTO
	if err := json.Unmarshal(f.Value, &many); err == nil {
		return many
	}
	var one FieldValueDTO
	if err := json.Unmarshal(f.Value, &one); err == nil {
		return []FieldValueDTO{one}
	}
	var text string
	if err := json.Unmarshal(f.Value, &text); err == nil {
		return []FieldValueDTO{{Name: text}}
	}
	return nil
}
