package notion

import (
	"encoding/json"
	"fmt"
)

// QueryResponse is one page of a database query.
type QueryResponse struct {
	Results    []PageDTO `json:"results"`
	HasMore    bool      `json:"has_more"`
	NextCursor *string   `json:"next_cursor"`
}

// BlocksResponse is one page of block children.
type BlocksResponse struct {
	Results    []BlockDTO `json:"results"`
	HasMore    bool       `json:"has_more"`
	NextCursor *string    `json:"next_cursor"`
}

// PageDTO is a database row. Properties are keyed by column name.
type PageDTO struct {
	ID         string                 `json:"id"`
	Icon       *IconDTO               `json:"icon"`
	Properties map[string]PropertyDTO `json:"properties"`
}

type IconDTO struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

// PropertyDTO is a property value. Only the field matching Type is set.
type PropertyDTO struct {
	ID           string        `json:"id"`
	Type         string        `json:"type"`
	Title        []RichTextDTO `json:"title"`
	RichText     []RichTextDTO `json:"rich_text"`
	Select       *OptionDTO    `json:"select"`
	MultiSelect  []OptionDTO   `json:"multi_select"`
	People       []UserDTO     `json:"people"`
	CreatedBy    *UserDTO      `json:"created_by"`
	LastEditedBy *UserDTO      `json:"last_edited_by"`
	Email        *string       `json:"email"`
	PhoneNumber  *string       `json:"phone_number"`
}

type OptionDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserDTO is a person or a bot.
type UserDTO struct {
	Object string `json:"object"`
	ID     string `json:"id"`
	Type   string `json:"type"`
	Name   string `json:"name"`
	Person *struct {
		Email string `json:"email"`
	} `json:"person"`
}

type RichTextDTO struct {
	PlainText   string  `json:"plain_text"`
	Href        *string `json:"href"`
	Annotations struct {
		Bold          bool `json:"bold"`
		Italic        bool `json:"italic"`
		Strikethrough bool `json:"strikethrough"`
		Underline     bool `json:"underline"`
		Code          bool `json:"code"`
	} `json:"annotations"`
}

// BlockDTO is a content block. The type specific payload is decoded into
// Content.
type BlockDTO struct {
	ID          string
	Type        string
	HasChildren bool
	Content     BlockContentDTO
}

// BlockContentDTO is the union of the block payload fields the exporter
// renders.
type BlockContentDTO struct {
	RichText []RichTextDTO `json:"rich_text"`
	Caption  []RichTextDTO `json:"caption"`
	Checked  bool          `json:"checked"`
	Language string        `json:"language"`
	URL      string        `json:"url"`
	Icon     *IconDTO      `json:"icon"`
	External *struct {
		URL string `json:"url"`
	} `json:"external"`
	File *struct {
		URL string `json:"url"`
	} `json:"file"`
}

func (b *BlockDTO) UnmarshalJSON(data []byte) error {
	var head struct {
		ID          string `json:"id"`
		Type        string `json:"type"`
		HasChildren bool   `json:"has_children"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	b.ID, b.Type, b.HasChildren = head.ID, head.Type, head.HasChildren
	b.Content = BlockContentDTO{}
	if payload, ok := raw[head.Type]; ok && string(payload) != "null" {
		if err := json.Unmarshal(payload, &b.Content); err != nil {
			return fmt.Errorf("block %s: %w", head.ID, err)
		}
	}
	return nil
}
