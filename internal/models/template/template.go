package template

import (
	"time"

	"etendering/internal/lib/flatrows"
	"etendering/internal/models/section"

	"github.com/google/uuid"
)

type Template struct {
	Id          uuid.UUID         `json:"templateId"`
	Name        string            `json:"templateName"`
	Description string            `json:"description"`
	TypeId      int               `json:"typeId"`
	TypeName    string            `json:"typeName"`
	IsDeleted   bool              `json:"isDeleted"`
	CreatedAt   time.Time         `json:"templateCreatedDateTime"`
	ModifiedAt  *time.Time        `json:"templateModifiedDateTime"`
	Sections    []section.Section `json:"sections"`
}

type Type struct {
	Id   int    `json:"typeId"`
	Name string `json:"typeName"`
}

type UpsertRequest struct {
	TemplateId  *uuid.UUID      `json:"templateId,omitempty"`
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	TypeId      int             `json:"typeId" validate:"required,gt=0"`
	Sections    []section.Input `json:"sections"`
}

// FlatRow is one row of a template read: the template columns repeated next
// to at most one section. Section is nil for a template without sections.
type FlatRow struct {
	TemplateId  uuid.UUID
	Name        string
	Description *string
	TypeId      int
	TypeName    *string
	IsDeleted   bool
	CreatedAt   time.Time
	ModifiedAt  *time.Time
	Section     *section.Columns
}

var shape = flatrows.Shape[FlatRow, uuid.UUID, Template, section.Section]{
	Key: func(r FlatRow) uuid.UUID { return r.TemplateId },
	Parent: func(r FlatRow) Template {
		t := Template{
			Id:         r.TemplateId,
			Name:       r.Name,
			TypeId:     r.TypeId,
			IsDeleted:  r.IsDeleted,
			CreatedAt:  r.CreatedAt,
			ModifiedAt: r.ModifiedAt,
		}
		if r.Description != nil {
			t.Description = *r.Description
		}
		if r.TypeName != nil {
			t.TypeName = *r.TypeName
		}
		return t
	},
	Child: func(r FlatRow) (section.Section, bool) {
		if r.Section == nil {
			return section.Section{}, false
		}
		return r.Section.Section(), true
	},
	Order:  func(s section.Section) int { return s.Order },
	Attach: func(t *Template, sections []section.Section) { t.Sections = sections },
}

func FromRows(rows []FlatRow) []Template {
	return flatrows.ReconstructSlice(rows, shape)
}
