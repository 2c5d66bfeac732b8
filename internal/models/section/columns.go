package section

import (
	"time"

	"github.com/google/uuid"
)

// Columns is the child half of a flat template row.
type Columns struct {
	Id                       uuid.UUID
	TypeId                   int
	Order                    int
	Title                    *string
	Content                  *string
	ResponseType             *int
	Properties               *string
	AcknowledgementStatement *string
	Signature                *string
	CreatedAt                *time.Time
	ModifiedAt               *time.Time
}

func (c Columns) Section() Section {
	s := Section{
		Id:         c.Id,
		Order:      c.Order,
		Title:      deref(c.Title),
		Content:    deref(c.Content),
		CreatedAt:  c.CreatedAt,
		ModifiedAt: c.ModifiedAt,
	}

	t := Type(normalizeType(c.TypeId))
	switch t {
	case TypeResponse:
		body := Response{}
		if c.ResponseType != nil {
			body.ResponseType = ResponseType(*c.ResponseType)
		}
		if c.Properties != nil && !body.ResponseType.Valid() {
			if inferred, ok := inferResponseType([]byte(*c.Properties)); ok {
				body.ResponseType = inferred
			}
		}
		if c.Properties != nil {
			if props, ok := parseProperties(body.ResponseType, []byte(*c.Properties)); ok {
				body.Properties = props
			}
		}
		s.Body = body
	case TypeAcknowledgement:
		s.Body = Acknowledgement{Statement: deref(c.AcknowledgementStatement)}
	case TypeESignature:
		s.Body = ESignature{Signature: deref(c.Signature)}
	default:
		s.Body = Statement{}
	}

	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
