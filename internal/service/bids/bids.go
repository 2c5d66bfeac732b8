package bids

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"etendering/internal/lib/logger/sl"
	"etendering/internal/models/bids"
	"etendering/internal/models/section"
	"etendering/internal/models/tender"
	"etendering/internal/storage"

	"github.com/google/uuid"
)

// ErrFinalized is returned when answers are saved into a completed response.
var ErrFinalized = errors.New("response is already completed")

type Storage interface {
	ReadVendorResponse(ctx context.Context, tenderTemplateId uuid.UUID) (bids.Record, error)
	InsertVendorResponse(ctx context.Context, tenderTemplateId uuid.UUID, snapshot section.Blob) error
	UpsertVendorResponse(ctx context.Context, tenderTemplateId uuid.UUID, snapshot section.Blob, isCompleted bool) (uuid.UUID, error)
	ReadTenderTemplate(ctx context.Context, tenderTemplateId uuid.UUID) ([]tender.TemplateFlatRow, error)
}

type Service struct {
	log     *slog.Logger
	storage Storage
}

func New(log *slog.Logger, storage Storage) *Service {
	return &Service{log: log, storage: storage}
}

// GetOrCreate snapshots the tender template into a draft on first access.
func (s *Service) GetOrCreate(ctx context.Context, tenderTemplateId uuid.UUID) (bids.VendorResponse, error) {
	const op = "service.bids.GetOrCreate"
	log := s.log.With(slog.String("op", op), slog.String("tenderTemplateId", tenderTemplateId.String()))

	rec, err := s.storage.ReadVendorResponse(ctx, tenderTemplateId)
	if err == nil {
		return bids.FromRecord(rec), nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return bids.VendorResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.storage.ReadTenderTemplate(ctx, tenderTemplateId)
	if err != nil {
		return bids.VendorResponse{}, fmt.Errorf("%s: %w", op, err)
	}
	instances := tender.TemplatesFromRows(rows)
	if len(instances) == 0 {
		return bids.VendorResponse{}, fmt.Errorf("%s: tender template %s: %w", op, tenderTemplateId, storage.ErrNotFound)
	}

	snapshot, err := section.Encode(instances[0].Sections)
	if err != nil {
		return bids.VendorResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	err = s.storage.InsertVendorResponse(ctx, tenderTemplateId, snapshot)
	switch {
	case errors.Is(err, storage.ErrConflict):
		log.Debug("response created concurrently, reading it back")
	case err != nil:
		return bids.VendorResponse{}, fmt.Errorf("%s: %w", op, err)
	default:
		log.Info("vendor response created", slog.Int("sections", len(instances[0].Sections)))
	}

	rec, err = s.storage.ReadVendorResponse(ctx, tenderTemplateId)
	if err != nil {
		return bids.VendorResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	return bids.FromRecord(rec), nil
}

func (s *Service) SaveAnswers(ctx context.Context, tenderTemplateId uuid.UUID, answers map[uuid.UUID]any, isCompleted bool) (uuid.UUID, error) {
	const op = "service.bids.SaveAnswers"
	log := s.log.With(slog.String("op", op), slog.String("tenderTemplateId", tenderTemplateId.String()))

	current, err := s.GetOrCreate(ctx, tenderTemplateId)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	if current.IsCompleted {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrFinalized)
	}

	merged := bids.Merge(current.Sections, answers)
	if isCompleted {
		if err := bids.CheckCompletion(merged); err != nil {
			log.Info("response not complete", sl.Err(err))
			return uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	snapshot, err := section.Encode(merged)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.storage.UpsertVendorResponse(ctx, tenderTemplateId, snapshot, isCompleted)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if isCompleted {
		log.Info("vendor response completed", slog.String("responseId", id.String()))
	}

	return id, nil
}
