package templates

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"etendering/internal/models/section"
	"etendering/internal/models/template"
	"etendering/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	rows     []template.FlatRow
	upserted int
	blob     section.Blob
	deleted  int64
}

func (f *fakeStorage) ReadTemplates(context.Context) ([]template.FlatRow, error) {
	return f.rows, nil
}

func (f *fakeStorage) ReadTemplate(_ context.Context, id uuid.UUID) ([]template.FlatRow, error) {
	result := make([]template.FlatRow, 0)
	for _, r := range f.rows {
		if r.TemplateId == id {
			result = append(result, r)
		}
	}
	return result, nil
}

func (f *fakeStorage) ReadTemplateTypes(context.Context) ([]template.Type, error) {
	return []template.Type{{Id: 10, Name: "RFP"}}, nil
}

func (f *fakeStorage) UpsertTemplate(_ context.Context, req template.UpsertRequest, blob section.Blob) (uuid.UUID, error) {
	f.upserted++
	f.blob = blob
	if req.TemplateId != nil {
		return *req.TemplateId, nil
	}
	return uuid.New(), nil
}

func (f *fakeStorage) DeleteTemplate(context.Context, uuid.UUID) (int64, error) {
	return f.deleted, nil
}

func newService(f *fakeStorage) *Service {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), f)
}

func TestTemplates(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	f := &fakeStorage{rows: []template.FlatRow{
		{TemplateId: a, Name: "A"},
		{TemplateId: b, Name: "B"},
	}}
	svc := newService(f)

	all, err := svc.Templates(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Name)

	one, err := svc.Template(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, "B", one.Name)

	_, err = svc.Template(context.Background(), uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTemplatesEmpty(t *testing.T) {
	all, err := newService(&fakeStorage{}).Templates(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestUpsertWritesNothingOnInvalidSection(t *testing.T) {
	f := &fakeStorage{}
	statement := "I accept"

	_, err := newService(f).Upsert(context.Background(), template.UpsertRequest{
		Name: "RFP", TypeId: 10,
		Sections: []section.Input{
			{SectionTypeId: 30, SectionOrder: 1, Content: "Terms", AcknowledgementStatement: &statement},
			{SectionTypeId: 10, SectionOrder: 2, Content: "no title"},
		},
	})

	var ve *section.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, 1, ve.Index)
	assert.Zero(t, f.upserted)
}

func TestUpsert(t *testing.T) {
	f := &fakeStorage{}
	id := uuid.New()

	got, err := newService(f).Upsert(context.Background(), template.UpsertRequest{
		TemplateId: &id, Name: "RFP", TypeId: 10,
		Sections: []section.Input{{SectionTypeId: 40, SectionOrder: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, 1, f.upserted)

	decoded := section.Decode([]byte(f.blob))
	require.Len(t, decoded, 1)
	assert.Equal(t, section.TypeESignature, decoded[0].Type())
}

func TestDelete(t *testing.T) {
	assert.ErrorIs(t, newService(&fakeStorage{}).Delete(context.Background(), uuid.New()), storage.ErrNotFound)
	assert.NoError(t, newService(&fakeStorage{deleted: 1}).Delete(context.Background(), uuid.New()))
}

func TestUpsertNewTemplateDropsCopiedSectionIds(t *testing.T) {
	f := &fakeStorage{}
	copied := uuid.New()

	_, err := newService(f).Upsert(context.Background(), template.UpsertRequest{
		Name: "RFP copy", TypeId: 10,
		Sections: []section.Input{{Id: &copied, SectionTypeId: 10, SectionOrder: 1, Title: "Scope", Content: "Goods"}},
	})
	require.NoError(t, err)

	decoded := section.Decode([]byte(f.blob))
	require.Len(t, decoded, 1)
	assert.Equal(t, uuid.Nil, decoded[0].Id)
}

func TestUpsertExistingTemplateKeepsSectionIds(t *testing.T) {
	f := &fakeStorage{}
	templateId, sectionId := uuid.New(), uuid.New()

	_, err := newService(f).Upsert(context.Background(), template.UpsertRequest{
		TemplateId: &templateId, Name: "RFP", TypeId: 10,
		Sections: []section.Input{{Id: &sectionId, SectionTypeId: 10, SectionOrder: 1, Title: "Scope", Content: "Goods"}},
	})
	require.NoError(t, err)

	decoded := section.Decode([]byte(f.blob))
	require.Len(t, decoded, 1)
	assert.Equal(t, sectionId, decoded[0].Id)
}
