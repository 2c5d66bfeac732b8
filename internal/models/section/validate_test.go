package section

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func props(s string) *RawProperties {
	p := RawProperties(s)
	return &p
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		input  Input
		reason string
	}{
		{
			name:  "statement",
			input: Input{SectionTypeId: 10, Title: "Scope", Content: "Supply of goods"},
		},
		{
			name:   "statement without title",
			input:  Input{SectionTypeId: 10, Content: "Supply of goods"},
			reason: reasonStatement,
		},
		{
			name:   "statement with blank content",
			input:  Input{SectionTypeId: 10, Title: "Scope", Content: "   "},
			reason: reasonStatement,
		},
		{
			name: "text response",
			input: Input{
				SectionTypeId: 20, Content: "Company name",
				ResponseType: ptr(10), Properties: props(`{"isRequired":true,"maxLength":50}`),
			},
		},
		{
			name:   "response without properties",
			input:  Input{SectionTypeId: 20, Content: "Company name", ResponseType: ptr(10)},
			reason: reasonResponse,
		},
		{
			name:   "response without response type",
			input:  Input{SectionTypeId: 20, Content: "Company name", Properties: props(`{}`)},
			reason: reasonResponse,
		},
		{
			name: "properties not json",
			input: Input{
				SectionTypeId: 20, Content: "Company name",
				ResponseType: ptr(10), Properties: props(`{isRequired:true`),
			},
			reason: reasonPropertiesJSON,
		},
		{
			name: "properties not an object",
			input: Input{
				SectionTypeId: 20, Content: "Company name",
				ResponseType: ptr(10), Properties: props(`null`),
			},
			reason: reasonPropertiesShape,
		},
		{
			name: "unknown response type",
			input: Input{
				SectionTypeId: 20, Content: "Company name",
				ResponseType: ptr(40), Properties: props(`{"isRequired":false}`),
			},
			reason: reasonResponseType,
		},
		{
			name: "acknowledgement",
			input: Input{
				SectionTypeId: 30, Content: "Terms",
				AcknowledgementStatement: ptr("I accept"),
			},
		},
		{
			name:   "acknowledgement with blank statement",
			input:  Input{SectionTypeId: 30, Content: "Terms", AcknowledgementStatement: ptr(" ")},
			reason: reasonAcknowledgement,
		},
		{
			name:  "esignature needs nothing",
			input: Input{SectionTypeId: 40},
		},
		{
			name:   "unknown section type",
			input:  Input{SectionTypeId: 99, Title: "Scope", Content: "Supply of goods"},
			reason: reasonSectionType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]Input{tt.input})
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.reason, ve.Reason)
			assert.Equal(t, 0, ve.Index)
		})
	}
}

func TestValidateReportsFirstFailingSection(t *testing.T) {
	inputs := []Input{
		{SectionTypeId: 10, SectionOrder: 1, Title: "Scope", Content: "Supply"},
		{SectionTypeId: 30, SectionOrder: 2, Content: "Terms"},
		{SectionTypeId: 99, SectionOrder: 3},
	}

	err := Validate(inputs)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, 1, ve.Index)
	assert.Equal(t, reasonAcknowledgement, ve.Reason)
	assert.Equal(t, "section 2: "+reasonAcknowledgement, ve.Error())
}

func TestValidateRejectsDuplicateOrder(t *testing.T) {
	inputs := []Input{
		{SectionTypeId: 10, SectionOrder: 1, Title: "Scope", Content: "Supply"},
		{SectionTypeId: 40, SectionOrder: 1},
	}

	var ve *ValidationError
	require.True(t, errors.As(Validate(inputs), &ve))
	assert.Equal(t, 1, ve.Index)
	assert.Equal(t, reasonDuplicateOrder, ve.Reason)
}

func TestValidateRejectsInvalidTagWhateverElseIsSet(t *testing.T) {
	in := Input{
		SectionTypeId: 99, Title: "t", Content: "c",
		ResponseType: ptr(10), Properties: props(`{"isRequired":true}`),
		AcknowledgementStatement: ptr("ok"), Signature: "sig",
	}

	var ve *ValidationError
	require.True(t, errors.As(Validate([]Input{in}), &ve))
	assert.Equal(t, "Invalid SectionTypeId.", ve.Reason)
}

func TestFromInputs(t *testing.T) {
	id := uuid.New()
	inputs := []Input{
		{Id: &id, SectionTypeId: 10, SectionOrder: 1, Title: "Scope", Content: "Supply"},
		{
			SectionTypeId: 20, SectionOrder: 2, Content: "Pick one",
			ResponseType: ptr(30),
			Properties:   props(`{"isRequired":true,"options":[{"id":"a","name":"Opt A"}]}`),
		},
		{SectionTypeId: 30, SectionOrder: 3, Content: "Terms", AcknowledgementStatement: ptr("I accept")},
		{SectionTypeId: 40, SectionOrder: 4, Signature: "J. Doe"},
	}

	sections, err := FromInputs(inputs)
	require.NoError(t, err)
	require.Len(t, sections, 4)

	assert.Equal(t, id, sections[0].Id)
	assert.Equal(t, Statement{}, sections[0].Body)

	assert.Equal(t, Response{
		ResponseType: ResponseList,
		Properties: ListProperties{
			IsRequired: true,
			Options:    []ListOption{{Id: "a", Name: "Opt A"}},
		},
	}, sections[1].Body)
	assert.Equal(t, uuid.Nil, sections[1].Id)

	assert.Equal(t, Acknowledgement{Statement: "I accept"}, sections[2].Body)
	assert.Equal(t, ESignature{Signature: "J. Doe"}, sections[3].Body)
}

func TestFromInputsRejectsWholeArray(t *testing.T) {
	inputs := []Input{
		{SectionTypeId: 10, SectionOrder: 1, Title: "Scope", Content: "Supply"},
		{SectionTypeId: 10, SectionOrder: 2, Title: "", Content: "Missing title"},
	}

	sections, err := FromInputs(inputs)
	assert.Error(t, err)
	assert.Nil(t, sections)
}

func TestRawPropertiesAcceptsStringOrObject(t *testing.T) {
	var in struct {
		A RawProperties `json:"a"`
		B RawProperties `json:"b"`
	}

	err := json.Unmarshal([]byte(`{"a":"{\"isRequired\":true}","b":{"isRequired":true}}`), &in)
	require.NoError(t, err)

	assert.JSONEq(t, `{"isRequired":true}`, string(in.A))
	assert.JSONEq(t, `{"isRequired":true}`, string(in.B))
}
