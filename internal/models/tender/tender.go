package tender

import (
	"time"

	"etendering/internal/lib/flatrows"
	"etendering/internal/models/section"

	"github.com/google/uuid"
)

const (
	StatusNotSubmitted = "Not Submitted"
	StatusInProgress   = "In Progress"
	StatusSubmitted    = "Submitted"
)

type TenderRequest struct {
	Name      string    `json:"name" validate:"required,max=200"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
	TypeId    int       `json:"typeId" validate:"required,gt=0"`
}

type TenderResponse struct {
	Id         uuid.UUID  `json:"tenderHeaderId"`
	Name       string     `json:"name"`
	StartDate  time.Time  `json:"startDate"`
	EndDate    time.Time  `json:"endDate"`
	TypeId     int        `json:"typeId"`
	TypeName   string     `json:"typeName"`
	CreatedAt  time.Time  `json:"createdDateTime"`
	ModifiedAt *time.Time `json:"modifiedDateTime"`
}

type CreatedTemplate struct {
	TenderTemplateId uuid.UUID `json:"tenderTemplateId"`
	TenderId         uuid.UUID `json:"tenderId"`
	SourceTemplateId uuid.UUID `json:"templateId"`
	Name             string    `json:"name"`
}

type Template struct {
	Id          uuid.UUID         `json:"tenderTempHeaderId"`
	TenderId    uuid.UUID         `json:"tenderHeaderId"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	TypeId      int               `json:"typeId"`
	IsDeleted   bool              `json:"isDeleted"`
	CreatedAt   time.Time         `json:"createdDateTime"`
	ModifiedAt  *time.Time        `json:"modifiedDateTime"`
	Sections    []section.Section `json:"sections"`
}

type TemplatePatchRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	TypeId      int             `json:"typeId" validate:"required,gt=0"`
	Sections    []section.Input `json:"sections"`
}

type TemplateFlatRow struct {
	TemplateId  uuid.UUID
	TenderId    uuid.UUID
	Name        string
	Description *string
	TypeId      int
	IsDeleted   bool
	CreatedAt   time.Time
	ModifiedAt  *time.Time
	Section     *section.Columns
}

var templateShape = flatrows.Shape[TemplateFlatRow, uuid.UUID, Template, section.Section]{
	Key: func(r TemplateFlatRow) uuid.UUID { return r.TemplateId },
	Parent: func(r TemplateFlatRow) Template {
		t := Template{
			Id:         r.TemplateId,
			TenderId:   r.TenderId,
			Name:       r.Name,
			TypeId:     r.TypeId,
			IsDeleted:  r.IsDeleted,
			CreatedAt:  r.CreatedAt,
			ModifiedAt: r.ModifiedAt,
		}
		if r.Description != nil {
			t.Description = *r.Description
		}
		return t
	},
	Child: func(r TemplateFlatRow) (section.Section, bool) {
		if r.Section == nil {
			return section.Section{}, false
		}
		return r.Section.Section(), true
	},
	Order:  func(s section.Section) int { return s.Order },
	Attach: func(t *Template, sections []section.Section) { t.Sections = sections },
}

func TemplatesFromRows(rows []TemplateFlatRow) []Template {
	return flatrows.ReconstructSlice(rows, templateShape)
}

type ListItem struct {
	TenderId     uuid.UUID `json:"tenderId"`
	Name         string    `json:"name"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	TemplateType string    `json:"templateType"`
	Status       string    `json:"status"`
}

type Page struct {
	TotalRecords int        `json:"totalRecords"`
	PageNumber   int        `json:"pageNumber"`
	PageSize     int        `json:"pageSize"`
	Items        []ListItem `json:"items"`
}

type BidDetails struct {
	TenderId     uuid.UUID     `json:"tenderId"`
	Name         string        `json:"name"`
	StartDate    time.Time     `json:"startDate"`
	EndDate      time.Time     `json:"endDate"`
	TemplateType string        `json:"templateType"`
	SubmittedAt  *time.Time    `json:"submittedDateTime"`
	Templates    []BidTemplate `json:"templates"`
}

type BidTemplate struct {
	TenderTemplateId uuid.UUID         `json:"tenderTemplateHeaderId"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	IsCompleted      bool              `json:"isCompleted"`
	CompletedAt      *time.Time        `json:"completedDateTime"`
	Response         []section.Section `json:"response"`
}

// Status derives the vendor-facing status of a tender.
func Status(responses int, submitted bool) string {
	switch {
	case submitted:
		return StatusSubmitted
	case responses > 0:
		return StatusInProgress
	default:
		return StatusNotSubmitted
	}
}
