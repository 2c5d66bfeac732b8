package templates

import (
	"context"
	"fmt"
	"log/slog"

	"etendering/internal/lib/logger/sl"
	"etendering/internal/models/section"
	"etendering/internal/models/template"
	"etendering/internal/storage"

	"github.com/google/uuid"
)

type Storage interface {
	ReadTemplates(ctx context.Context) ([]template.FlatRow, error)
	ReadTemplate(ctx context.Context, templateId uuid.UUID) ([]template.FlatRow, error)
	ReadTemplateTypes(ctx context.Context) ([]template.Type, error)
	UpsertTemplate(ctx context.Context, req template.UpsertRequest, sections section.Blob) (uuid.UUID, error)
	DeleteTemplate(ctx context.Context, templateId uuid.UUID) (int64, error)
}

type Service struct {
	log     *slog.Logger
	storage Storage
}

func New(log *slog.Logger, storage Storage) *Service {
	return &Service{log: log, storage: storage}
}

func (s *Service) Templates(ctx context.Context) ([]template.Template, error) {
	const op = "service.templates.Templates"

	rows, err := s.storage.ReadTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return template.FromRows(rows), nil
}

func (s *Service) Template(ctx context.Context, templateId uuid.UUID) (template.Template, error) {
	const op = "service.templates.Template"

	rows, err := s.storage.ReadTemplate(ctx, templateId)
	if err != nil {
		return template.Template{}, fmt.Errorf("%s: %w", op, err)
	}

	result := template.FromRows(rows)
	if len(result) == 0 {
		return template.Template{}, fmt.Errorf("%s: template %s: %w", op, templateId, storage.ErrNotFound)
	}

	return result[0], nil
}

func (s *Service) Types(ctx context.Context) ([]template.Type, error) {
	const op = "service.templates.Types"

	types, err := s.storage.ReadTemplateTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return types, nil
}

func (s *Service) Upsert(ctx context.Context, req template.UpsertRequest) (uuid.UUID, error) {
	const op = "service.templates.Upsert"
	log := s.log.With(slog.String("op", op))

	sections, err := section.FromInputs(req.Sections)
	if err != nil {
		log.Info("template rejected", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if req.TemplateId == nil {
		for i := range sections {
			sections[i].Id = uuid.Nil
		}
	}

	blob, err := section.Encode(sections)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.storage.UpsertTemplate(ctx, req, blob)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("template saved", slog.String("templateId", id.String()), slog.Int("sections", len(sections)))

	return id, nil
}

func (s *Service) Delete(ctx context.Context, templateId uuid.UUID) error {
	const op = "service.templates.Delete"

	affected, err := s.storage.DeleteTemplate(ctx, templateId)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: template %s: %w", op, templateId, storage.ErrNotFound)
	}

	return nil
}
