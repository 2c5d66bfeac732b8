package section

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Blob is a section array encoded as JSON text. It is the only form in which
// sections cross the persistence boundary, as a single text parameter or
// column. Inside a Blob the properties of each Response section are
// themselves JSON-encoded strings.
type Blob string

type wireSection struct {
	Id                       *uuid.UUID    `json:"id,omitempty"`
	SectionTypeId            Type          `json:"sectionTypeId"`
	SectionOrder             int           `json:"sectionOrder"`
	Title                    string        `json:"title"`
	Content                  string        `json:"content"`
	ResponseType             *ResponseType `json:"responseType"`
	Properties               *string       `json:"properties"`
	AcknowledgementStatement *string       `json:"acknowledgementStatement"`
	Signature                *string       `json:"signature"`
	Response                 any           `json:"response"`
	CreatedDateTime          *time.Time    `json:"createdDateTime,omitempty"`
	ModifiedDateTime         *time.Time    `json:"modifiedDateTime,omitempty"`
}

func (s Section) MarshalJSON() ([]byte, error) {
	w := wireSection{
		SectionTypeId:    s.Type(),
		SectionOrder:     s.Order,
		Title:            s.Title,
		Content:          s.Content,
		Response:         s.Answer,
		CreatedDateTime:  s.CreatedAt,
		ModifiedDateTime: s.ModifiedAt,
	}
	if s.Id != uuid.Nil {
		id := s.Id
		w.Id = &id
	}

	switch b := s.Body.(type) {
	case Response:
		rt := b.ResponseType
		w.ResponseType = &rt
		if b.Properties != nil {
			props, err := json.Marshal(b.Properties)
			if err != nil {
				return nil, fmt.Errorf("section properties: %w", err)
			}
			text := string(props)
			w.Properties = &text
		}
	case Acknowledgement:
		statement := b.Statement
		w.AcknowledgementStatement = &statement
	case ESignature:
		signature := b.Signature
		w.Signature = &signature
	}

	return json.Marshal(w)
}

func (s *Section) UnmarshalJSON(data []byte) error {
	f, ok := parseFields(unwrapString(data, 2))
	if !ok {
		return fmt.Errorf("section: expected a JSON object")
	}
	*s = decodeSection(f)
	return nil
}

// Encode serializes sections in their current order.
func Encode(sections []Section) (Blob, error) {
	if sections == nil {
		sections = []Section{}
	}

	data, err := json.Marshal(sections)
	if err != nil {
		return "", fmt.Errorf("section.Encode: %w", err)
	}

	return Blob(data), nil
}

// Decode reads a persisted section array. It accepts a bare array, an object
// carrying a sections member, or either of those wrapped in JSON strings.
// Elements that are not objects are skipped and unreadable optional fields
// take their zero value. A nil result means the input held no section data.
func Decode(raw []byte) []Section {
	raw = unwrapString(raw, 2)
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case '{':
		f, ok := parseFields(raw)
		if !ok {
			return nil
		}
		inner, ok := f.lookup("sections")
		if !ok {
			return nil
		}
		inner = unwrapString(inner, 2)
		if len(inner) == 0 || inner[0] != '[' {
			return nil
		}
		return decodeArray(inner)
	case '[':
		return decodeArray(raw)
	default:
		return nil
	}
}

func decodeArray(raw []byte) []Section {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	result := make([]Section, 0, len(items))
	for _, item := range items {
		f, ok := parseFields(unwrapString(item, 1))
		if !ok {
			continue
		}
		result = append(result, decodeSection(f))
	}

	return result
}

func decodeSection(f fields) Section {
	var s Section

	if v, ok := f.getString("id", "tenderTempSectionId", "sectionUniqueId"); ok {
		if id, err := uuid.Parse(strings.TrimSpace(v)); err == nil {
			s.Id = id
		}
	}
	s.Order, _ = f.getInt("sectionOrder", "order")
	s.Title, _ = f.getString("title")
	s.Content, _ = f.getString("content")
	s.CreatedAt = f.getTime("createdDateTime", "sectionCreatedDateTime", "createdAt")
	s.ModifiedAt = f.getTime("modifiedDateTime", "sectionModifiedDateTime", "modifiedAt")

	if v, ok := f.lookup("response"); ok {
		var answer any
		if err := json.Unmarshal(v, &answer); err == nil {
			s.Answer = answer
		}
	}

	rt := 0
	if n, ok := f.getInt("responseType"); ok {
		rt = n
	}
	propsRaw, hasProps := f.lookup("properties")
	if hasProps && !ResponseType(rt).Valid() {
		if inferred, ok := inferResponseType(propsRaw); ok {
			rt = int(inferred)
		}
	}
	statement, hasStatement := f.getString("acknowledgementStatement")
	signature, hasSignature := f.getString("signature")

	t := 0
	if n, ok := f.getInt("sectionTypeId", "sectionId"); ok {
		t = normalizeType(n)
	}
	if !Type(t).Valid() {
		switch {
		case hasSignature && !blank(signature):
			t = int(TypeESignature)
		case hasStatement && !blank(statement):
			t = int(TypeAcknowledgement)
		case ResponseType(rt).Valid():
			t = int(TypeResponse)
		default:
			t = int(TypeStatement)
		}
	}

	switch Type(t) {
	case TypeStatement:
		s.Body = Statement{}
	case TypeResponse:
		body := Response{ResponseType: ResponseType(rt)}
		if hasProps {
			if props, ok := parseProperties(body.ResponseType, propsRaw); ok {
				body.Properties = props
			}
		}
		s.Body = body
	case TypeAcknowledgement:
		s.Body = Acknowledgement{Statement: statement}
	case TypeESignature:
		s.Body = ESignature{Signature: signature}
	}

	return s
}

// normalizeType maps the legacy one-digit section codes onto the current tags.
func normalizeType(n int) int {
	if n >= 1 && n <= 4 {
		return n * 10
	}
	return n
}

func (f fields) getTime(names ...string) *time.Time {
	v, ok := f.getString(names...)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}

// IsEmpty reports whether an answer counts as not given.
func IsEmpty(answer any) bool {
	switch v := answer.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}
