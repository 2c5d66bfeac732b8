package bids

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"etendering/internal/models/bids"
	"etendering/internal/models/section"
	"etendering/internal/models/tender"
	"etendering/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type fakeStorage struct {
	mu        sync.Mutex
	templates map[uuid.UUID][]tender.TemplateFlatRow
	responses map[uuid.UUID]bids.Record
	inserts   int
	// beforeInsert runs before an insert is applied, under no lock.
	beforeInsert func(tenderTemplateId uuid.UUID)
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		templates: make(map[uuid.UUID][]tender.TemplateFlatRow),
		responses: make(map[uuid.UUID]bids.Record),
	}
}

func (f *fakeStorage) ReadVendorResponse(_ context.Context, id uuid.UUID) (bids.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.responses[id]
	if !ok {
		return bids.Record{}, fmt.Errorf("fake: %w", storage.ErrNotFound)
	}
	return rec, nil
}

func (f *fakeStorage) InsertVendorResponse(_ context.Context, id uuid.UUID, snapshot section.Blob) error {
	if f.beforeInsert != nil {
		f.beforeInsert(id)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.templates[id]; !ok {
		return fmt.Errorf("fake: %w", storage.ErrNotFound)
	}
	if _, ok := f.responses[id]; ok {
		return fmt.Errorf("fake: %w", storage.ErrConflict)
	}

	f.inserts++
	f.responses[id] = bids.Record{Id: uuid.New(), BidId: uuid.New(), TenderTemplateId: id, Snapshot: snapshot}
	return nil
}

func (f *fakeStorage) UpsertVendorResponse(_ context.Context, id uuid.UUID, snapshot section.Blob, isCompleted bool) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.responses[id]
	if !ok {
		return uuid.Nil, fmt.Errorf("fake: %w", storage.ErrNotFound)
	}
	rec.Snapshot = snapshot
	rec.IsCompleted = isCompleted
	if isCompleted {
		now := time.Now()
		rec.CompletedAt = &now
	}
	f.responses[id] = rec
	return rec.Id, nil
}

func (f *fakeStorage) ReadTenderTemplate(_ context.Context, id uuid.UUID) ([]tender.TemplateFlatRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.templates[id], nil
}

type BidsServiceSuite struct {
	suite.Suite
	storage  *fakeStorage
	service  *Service
	ttId     uuid.UUID
	textId   uuid.UUID
	ackId    uuid.UUID
	statusId uuid.UUID
}

func (s *BidsServiceSuite) SetupTest() {
	s.storage = newFakeStorage()
	s.service = New(slog.New(slog.NewTextHandler(io.Discard, nil)), s.storage)

	s.ttId = uuid.New()
	s.textId, s.ackId, s.statusId = uuid.New(), uuid.New(), uuid.New()

	str := func(v string) *string { return &v }
	rt := 10
	base := tender.TemplateFlatRow{TemplateId: s.ttId, TenderId: uuid.New(), Name: "RFP", TypeId: 10}

	rows := []tender.TemplateFlatRow{base, base, base}
	rows[0].Section = &section.Columns{Id: s.statusId, TypeId: 10, Order: 1, Title: str("Scope"), Content: str("Goods")}
	rows[1].Section = &section.Columns{Id: s.textId, TypeId: 20, Order: 2, Content: str("Company name"),
		ResponseType: &rt, Properties: str(`{"isRequired":true,"maxLength":20}`)}
	rows[2].Section = &section.Columns{Id: s.ackId, TypeId: 30, Order: 3, Content: str("Terms"),
		AcknowledgementStatement: str("I accept")}

	s.storage.templates[s.ttId] = rows
}

func (s *BidsServiceSuite) TestGetOrCreateSnapshotsTemplate() {
	resp, err := s.service.GetOrCreate(context.Background(), s.ttId)
	s.Require().NoError(err)

	s.Equal(bids.StateDraft, resp.State)
	s.False(resp.IsCompleted)
	s.Require().Len(resp.Sections, 3)
	s.Equal(s.statusId, resp.Sections[0].Id)
	s.Equal(s.textId, resp.Sections[1].Id)
	s.Nil(resp.Sections[1].Answer)
}

func (s *BidsServiceSuite) TestGetOrCreateIsIdempotent() {
	first, err := s.service.GetOrCreate(context.Background(), s.ttId)
	s.Require().NoError(err)

	second, err := s.service.GetOrCreate(context.Background(), s.ttId)
	s.Require().NoError(err)

	s.Equal(first.Id, second.Id)
	s.Equal(1, s.storage.inserts)
}

func (s *BidsServiceSuite) TestGetOrCreateUnknownTemplate() {
	_, err := s.service.GetOrCreate(context.Background(), uuid.New())
	s.ErrorIs(err, storage.ErrNotFound)
	s.Zero(s.storage.inserts)
}

func (s *BidsServiceSuite) TestGetOrCreateReadsBackConcurrentInsert() {
	winner := bids.Record{Id: uuid.New(), TenderTemplateId: s.ttId, Snapshot: section.Blob(`[]`)}
	s.storage.beforeInsert = func(id uuid.UUID) {
		s.storage.mu.Lock()
		s.storage.responses[id] = winner
		s.storage.mu.Unlock()
	}

	resp, err := s.service.GetOrCreate(context.Background(), s.ttId)
	s.Require().NoError(err)
	s.Equal(winner.Id, resp.Id)
}

func (s *BidsServiceSuite) TestSaveAnswersPartialMerge() {
	ctx := context.Background()

	_, err := s.service.SaveAnswers(ctx, s.ttId, map[uuid.UUID]any{s.textId: "Acme"}, false)
	s.Require().NoError(err)

	_, err = s.service.SaveAnswers(ctx, s.ttId, map[uuid.UUID]any{s.ackId: true, uuid.New(): "stray"}, false)
	s.Require().NoError(err)

	resp, err := s.service.GetOrCreate(ctx, s.ttId)
	s.Require().NoError(err)
	s.Require().Len(resp.Sections, 3)
	s.Equal("Acme", resp.Sections[1].Answer)
	s.Equal(true, resp.Sections[2].Answer)
	s.Nil(resp.Sections[0].Answer)
}

func (s *BidsServiceSuite) TestDraftThenFinal() {
	ctx := context.Background()

	_, err := s.service.SaveAnswers(ctx, s.ttId, map[uuid.UUID]any{s.textId: "hello"}, false)
	s.Require().NoError(err)

	id, err := s.service.SaveAnswers(ctx, s.ttId, map[uuid.UUID]any{s.textId: "hello", s.ackId: true}, true)
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, id)

	resp, err := s.service.GetOrCreate(ctx, s.ttId)
	s.Require().NoError(err)
	s.True(resp.IsCompleted)
	s.Equal(bids.StateFinal, resp.State)
	s.NotNil(resp.CompletedAt)
	s.Equal("hello", resp.Sections[1].Answer)
	s.Equal(true, resp.Sections[2].Answer)
}

func (s *BidsServiceSuite) TestCompletedResponseIsFinal() {
	ctx := context.Background()

	_, err := s.service.SaveAnswers(ctx, s.ttId, map[uuid.UUID]any{s.textId: "hello"}, true)
	s.Require().NoError(err)

	_, err = s.service.SaveAnswers(ctx, s.ttId, map[uuid.UUID]any{s.textId: "changed"}, false)
	s.ErrorIs(err, ErrFinalized)

	resp, err := s.service.GetOrCreate(ctx, s.ttId)
	s.Require().NoError(err)
	s.Equal("hello", resp.Sections[1].Answer)
}

func (s *BidsServiceSuite) TestCompletionGateKeepsDraft() {
	ctx := context.Background()

	_, err := s.service.SaveAnswers(ctx, s.ttId, map[uuid.UUID]any{s.textId: ""}, true)

	var ce *bids.CompletionError
	s.Require().True(errors.As(err, &ce))
	s.Equal(s.textId, ce.SectionId)

	resp, err := s.service.GetOrCreate(ctx, s.ttId)
	s.Require().NoError(err)
	s.False(resp.IsCompleted)
}

func TestBidsServiceSuite(t *testing.T) {
	suite.Run(t, new(BidsServiceSuite))
}
