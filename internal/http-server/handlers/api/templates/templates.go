package templates

import (
	"context"
	"log/slog"
	"net/http"

	"etendering/internal/http-server/handlers/api"
	"etendering/internal/lib/api/response"
	"etendering/internal/models/template"

	"github.com/go-chi/render"
	"github.com/google/uuid"
)

const notFound = "Template not found."

type TemplatesGetter interface {
	Templates(ctx context.Context) ([]template.Template, error)
}

type TemplateGetter interface {
	Template(ctx context.Context, templateId uuid.UUID) (template.Template, error)
}

type TypesGetter interface {
	Types(ctx context.Context) ([]template.Type, error)
}

type TemplateUpserter interface {
	Upsert(ctx context.Context, req template.UpsertRequest) (uuid.UUID, error)
}

type TemplateDeleter interface {
	Delete(ctx context.Context, templateId uuid.UUID) error
}

func NewGetTemplates(log *slog.Logger, getter TemplatesGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.templates.NewGetTemplates"
		log := log.With(slog.String("op", op))

		result, err := getter.Templates(r.Context())
		if err != nil {
			api.Fail(w, r, log, nil, err, notFound)
			return
		}

		render.JSON(w, r, response.OK(nil, result))
	}
}

func NewGetTemplate(log *slog.Logger, getter TemplateGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.templates.NewGetTemplate"
		log := log.With(slog.String("op", op))

		templateId, err := api.PathUUID(r, "templateId")
		if err != nil {
			api.Fail(w, r, log, nil, err, notFound)
			return
		}

		result, err := getter.Template(r.Context(), templateId)
		if err != nil {
			api.Fail(w, r, log, templateId, err, notFound)
			return
		}

		render.JSON(w, r, response.OK(result.Id, result))
	}
}

func NewGetTypes(log *slog.Logger, getter TypesGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.templates.NewGetTypes"
		log := log.With(slog.String("op", op))

		result, err := getter.Types(r.Context())
		if err != nil {
			api.Fail(w, r, log, nil, err, "Template types not found.")
			return
		}

		render.JSON(w, r, response.OK(nil, result))
	}
}

func NewPostTemplate(log *slog.Logger, upserter TemplateUpserter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.templates.NewPostTemplate"
		log := log.With(slog.String("op", op))

		var req template.UpsertRequest
		if err := api.DecodeJSON(r, &req); err != nil {
			api.Fail(w, r, log, nil, err, notFound)
			return
		}

		id, err := upserter.Upsert(r.Context(), req)
		if err != nil {
			api.Fail(w, r, log, req.TemplateId, err, notFound)
			return
		}

		if req.TemplateId == nil {
			render.Status(r, http.StatusCreated)
		}
		render.JSON(w, r, response.OK(id, map[string]uuid.UUID{"templateId": id}))
	}
}

func NewDeleteTemplate(log *slog.Logger, deleter TemplateDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.templates.NewDeleteTemplate"
		log := log.With(slog.String("op", op))

		templateId, err := api.PathUUID(r, "templateId")
		if err != nil {
			api.Fail(w, r, log, nil, err, notFound)
			return
		}

		if err := deleter.Delete(r.Context(), templateId); err != nil {
			api.Fail(w, r, log, templateId, err, notFound)
			return
		}

		log.Info("template deleted", slog.String("templateId", templateId.String()))

		render.JSON(w, r, response.OK(templateId, nil))
	}
}
