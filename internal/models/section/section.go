package section

import (
	"time"

	"github.com/google/uuid"
)

type Type int

const (
	TypeStatement       Type = 10
	TypeResponse        Type = 20
	TypeAcknowledgement Type = 30
	TypeESignature      Type = 40
)

func (t Type) Valid() bool {
	switch t {
	case TypeStatement, TypeResponse, TypeAcknowledgement, TypeESignature:
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	switch t {
	case TypeStatement:
		return "Statement"
	case TypeResponse:
		return "Response"
	case TypeAcknowledgement:
		return "Acknowledgement"
	case TypeESignature:
		return "E-Signature"
	default:
		return "Unknown"
	}
}

type ResponseType int

const (
	ResponseText    ResponseType = 10
	ResponseNumeric ResponseType = 20
	ResponseList    ResponseType = 30
)

func (r ResponseType) Valid() bool {
	switch r {
	case ResponseText, ResponseNumeric, ResponseList:
		return true
	default:
		return false
	}
}

// Section is one ordered unit of a template or tender template. Title and
// Content are shared by every kind; the kind-specific part lives in Body.
type Section struct {
	Id         uuid.UUID
	Order      int
	Title      string
	Content    string
	Body       Body
	Answer     any
	CreatedAt  *time.Time
	ModifiedAt *time.Time
}

func (s Section) Type() Type {
	if s.Body == nil {
		return 0
	}
	return s.Body.Type()
}

// Body is implemented only by the four section kinds of this package.
type Body interface {
	Type() Type
	isBody()
}

type Statement struct{}

type Response struct {
	ResponseType ResponseType
	Properties   Properties
}

type Acknowledgement struct {
	Statement string
}

type ESignature struct {
	Signature string
}

func (Statement) Type() Type       { return TypeStatement }
func (Response) Type() Type        { return TypeResponse }
func (Acknowledgement) Type() Type { return TypeAcknowledgement }
func (ESignature) Type() Type      { return TypeESignature }

func (Statement) isBody()       {}
func (Response) isBody()        {}
func (Acknowledgement) isBody() {}
func (ESignature) isBody()      {}

// Properties configures how a Response section is answered.
type Properties interface {
	ResponseType() ResponseType
	Required() bool
	isProperties()
}

type TextProperties struct {
	IsRequired bool `json:"isRequired"`
	MaxLength  *int `json:"maxLength,omitempty"`
}

type NumericProperties struct {
	IsRequired bool     `json:"isRequired"`
	Min        *float64 `json:"min,omitempty"`
	Max        *float64 `json:"max,omitempty"`
}

type ListOption struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type ListProperties struct {
	IsRequired bool         `json:"isRequired"`
	Options    []ListOption `json:"options"`
}

func (TextProperties) ResponseType() ResponseType    { return ResponseText }
func (NumericProperties) ResponseType() ResponseType { return ResponseNumeric }
func (ListProperties) ResponseType() ResponseType    { return ResponseList }

func (p TextProperties) Required() bool    { return p.IsRequired }
func (p NumericProperties) Required() bool { return p.IsRequired }
func (p ListProperties) Required() bool    { return p.IsRequired }

func (TextProperties) isProperties()    {}
func (NumericProperties) isProperties() {}
func (ListProperties) isProperties()    {}

// HasOption reports whether id names one of the configured options.
func (p ListProperties) HasOption(id string) bool {
	for _, o := range p.Options {
		if o.Id == id {
			return true
		}
	}
	return false
}
