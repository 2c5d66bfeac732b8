package tenders

import (
	"context"
	"fmt"
	"log/slog"

	"etendering/internal/lib/logger/sl"
	"etendering/internal/models/section"
	"etendering/internal/models/tender"
	"etendering/internal/storage"

	"github.com/google/uuid"
)

type Storage interface {
	ReadTenders(ctx context.Context) ([]tender.TenderResponse, error)
	SaveTender(ctx context.Context, ten tender.TenderRequest) ([]tender.CreatedTemplate, error)
	ReadTenderTemplate(ctx context.Context, tenderTemplateId uuid.UUID) ([]tender.TemplateFlatRow, error)
	UpdateTenderTemplate(ctx context.Context, tenderTemplateId uuid.UUID, req tender.TemplatePatchRequest, sections section.Blob) (uuid.UUID, error)
	DeleteTenderTemplate(ctx context.Context, tenderTemplateId uuid.UUID) (int64, error)
	ReadTenderPage(ctx context.Context, limit, offset int) (int, []tender.ListItem, error)
	ReadTenderBid(ctx context.Context, tenderId uuid.UUID) (tender.BidDetails, error)
	MarkBidSubmitted(ctx context.Context, tenderId uuid.UUID) (int64, error)
}

type Service struct {
	log     *slog.Logger
	storage Storage
}

func New(log *slog.Logger, storage Storage) *Service {
	return &Service{log: log, storage: storage}
}

func (s *Service) Tenders(ctx context.Context) ([]tender.TenderResponse, error) {
	const op = "service.tenders.Tenders"

	result, err := s.storage.ReadTenders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Service) Create(ctx context.Context, req tender.TenderRequest) ([]tender.CreatedTemplate, error) {
	const op = "service.tenders.Create"
	log := s.log.With(slog.String("op", op))

	created, err := s.storage.SaveTender(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("%s: no templates for type %d: %w", op, req.TypeId, storage.ErrNotFound)
	}

	log.Info("tender created", slog.String("tenderId", created[0].TenderId.String()), slog.Int("templates", len(created)))

	return created, nil
}

func (s *Service) Template(ctx context.Context, tenderTemplateId uuid.UUID) (tender.Template, error) {
	const op = "service.tenders.Template"

	rows, err := s.storage.ReadTenderTemplate(ctx, tenderTemplateId)
	if err != nil {
		return tender.Template{}, fmt.Errorf("%s: %w", op, err)
	}

	result := tender.TemplatesFromRows(rows)
	if len(result) == 0 {
		return tender.Template{}, fmt.Errorf("%s: tender template %s: %w", op, tenderTemplateId, storage.ErrNotFound)
	}

	return result[0], nil
}

func (s *Service) UpdateTemplate(ctx context.Context, tenderTemplateId uuid.UUID, req tender.TemplatePatchRequest) (uuid.UUID, error) {
	const op = "service.tenders.UpdateTemplate"
	log := s.log.With(slog.String("op", op))

	sections, err := section.FromInputs(req.Sections)
	if err != nil {
		log.Info("tender template rejected", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	blob, err := section.Encode(sections)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.storage.UpdateTenderTemplate(ctx, tenderTemplateId, req, blob)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Service) DeleteTemplate(ctx context.Context, tenderTemplateId uuid.UUID) error {
	const op = "service.tenders.DeleteTemplate"

	affected, err := s.storage.DeleteTenderTemplate(ctx, tenderTemplateId)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: tender template %s: %w", op, tenderTemplateId, storage.ErrNotFound)
	}

	return nil
}

func (s *Service) Page(ctx context.Context, pageNumber, pageSize int) (tender.Page, error) {
	const op = "service.tenders.Page"

	if pageNumber < 1 || pageSize < 1 {
		return tender.Page{}, fmt.Errorf("%s: page number and size must be positive: %w", op, storage.ErrBadRequest)
	}

	total, items, err := s.storage.ReadTenderPage(ctx, pageSize, (pageNumber-1)*pageSize)
	if err != nil {
		return tender.Page{}, fmt.Errorf("%s: %w", op, err)
	}

	return tender.Page{
		TotalRecords: total,
		PageNumber:   pageNumber,
		PageSize:     pageSize,
		Items:        items,
	}, nil
}

func (s *Service) Bid(ctx context.Context, tenderId uuid.UUID) (tender.BidDetails, error) {
	const op = "service.tenders.Bid"

	details, err := s.storage.ReadTenderBid(ctx, tenderId)
	if err != nil {
		return tender.BidDetails{}, fmt.Errorf("%s: %w", op, err)
	}

	return details, nil
}

func (s *Service) SubmitBid(ctx context.Context, tenderId uuid.UUID) error {
	const op = "service.tenders.SubmitBid"

	affected, err := s.storage.MarkBidSubmitted(ctx, tenderId)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: no vendor bid for tender %s: %w", op, tenderId, storage.ErrNotFound)
	}

	s.log.Info("vendor bid submitted", slog.String("op", op), slog.String("tenderId", tenderId.String()))

	return nil
}
