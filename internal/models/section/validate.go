package section

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Input is a section as submitted by an administrator when a template or a
// tender template is written.
type Input struct {
	Id                       *uuid.UUID     `json:"id,omitempty"`
	SectionTypeId            int            `json:"sectionTypeId"`
	SectionOrder             int            `json:"sectionOrder"`
	Title                    string         `json:"title"`
	Content                  string         `json:"content"`
	ResponseType             *int           `json:"responseType"`
	Properties               *RawProperties `json:"properties"`
	AcknowledgementStatement *string        `json:"acknowledgementStatement"`
	Signature                string         `json:"signature"`
}

// RawProperties holds the properties member of an Input as JSON text. Clients
// send it either as a JSON string or as a nested object.
type RawProperties string

func (p *RawProperties) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = RawProperties(s)
		return nil
	}
	*p = RawProperties(data)
	return nil
}

func (p RawProperties) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

type ValidationError struct {
	Index  int
	Type   int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("section %d: %s", e.Index+1, e.Reason)
}

const (
	reasonStatement       = "For SectionType 10, Title and Content are required."
	reasonResponse        = "For SectionType 20, Content, ResponseType and Properties are required."
	reasonAcknowledgement = "For SectionType 30, Content and AcknowledgementStatement are required."
	reasonPropertiesJSON  = "Properties must be a valid JSON string."
	reasonPropertiesShape = "Invalid Properties format."
	reasonResponseType    = "Invalid ResponseType."
	reasonSectionType     = "Invalid SectionTypeId."
	reasonDuplicateOrder  = "SectionOrder must be unique."
)

// Validate checks a full section array and reports the first failing
// section. A write must not proceed on any error.
func Validate(inputs []Input) error {
	orders := make(map[int]struct{}, len(inputs))
	for i, in := range inputs {
		if reason := validateOne(in); reason != "" {
			return &ValidationError{Index: i, Type: in.SectionTypeId, Reason: reason}
		}
		if _, ok := orders[in.SectionOrder]; ok {
			return &ValidationError{Index: i, Type: in.SectionTypeId, Reason: reasonDuplicateOrder}
		}
		orders[in.SectionOrder] = struct{}{}
	}
	return nil
}

func validateOne(in Input) string {
	switch Type(in.SectionTypeId) {
	case TypeStatement:
		if blank(in.Title) || blank(in.Content) {
			return reasonStatement
		}
	case TypeResponse:
		if blank(in.Content) || in.ResponseType == nil || in.Properties == nil {
			return reasonResponse
		}
		return validateProperties(*in.ResponseType, *in.Properties)
	case TypeAcknowledgement:
		if blank(in.Content) || in.AcknowledgementStatement == nil || blank(*in.AcknowledgementStatement) {
			return reasonAcknowledgement
		}
	case TypeESignature:
		// signature is captured from the vendor later
	default:
		return reasonSectionType
	}
	return ""
}

func validateProperties(responseType int, raw RawProperties) string {
	if blank(string(raw)) {
		return reasonResponse
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return reasonPropertiesJSON
	}
	if obj == nil {
		return reasonPropertiesShape
	}

	if !ResponseType(responseType).Valid() {
		return reasonResponseType
	}
	return ""
}

// FromInputs validates inputs and converts them into typed sections.
func FromInputs(inputs []Input) ([]Section, error) {
	if err := Validate(inputs); err != nil {
		return nil, err
	}

	result := make([]Section, 0, len(inputs))
	for _, in := range inputs {
		s := Section{
			Order:   in.SectionOrder,
			Title:   in.Title,
			Content: in.Content,
		}
		if in.Id != nil {
			s.Id = *in.Id
		}

		switch Type(in.SectionTypeId) {
		case TypeStatement:
			s.Body = Statement{}
		case TypeResponse:
			rt := ResponseType(*in.ResponseType)
			props, _ := parseProperties(rt, []byte(*in.Properties))
			s.Body = Response{ResponseType: rt, Properties: props}
		case TypeAcknowledgement:
			s.Body = Acknowledgement{Statement: *in.AcknowledgementStatement}
		case TypeESignature:
			s.Body = ESignature{Signature: in.Signature}
		}
		result = append(result, s)
	}

	return result, nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
