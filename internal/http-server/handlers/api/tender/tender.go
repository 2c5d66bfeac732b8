package tender

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"etendering/internal/http-server/handlers/api"
	"etendering/internal/lib/api/response"
	"etendering/internal/models/tender"

	"github.com/go-chi/render"
	"github.com/google/uuid"
)

const (
	tenderNotFound   = "Tender not found."
	templateNotFound = "Tender template not found."
)

type TenderGetter interface {
	Tenders(ctx context.Context) ([]tender.TenderResponse, error)
}

type TenderSaver interface {
	Create(ctx context.Context, req tender.TenderRequest) ([]tender.CreatedTemplate, error)
}

type TenderPager interface {
	Page(ctx context.Context, pageNumber, pageSize int) (tender.Page, error)
}

type BidGetter interface {
	Bid(ctx context.Context, tenderId uuid.UUID) (tender.BidDetails, error)
}

type BidSubmitter interface {
	SubmitBid(ctx context.Context, tenderId uuid.UUID) error
}

type TemplateGetter interface {
	Template(ctx context.Context, tenderTemplateId uuid.UUID) (tender.Template, error)
}

type TemplateUpdater interface {
	UpdateTemplate(ctx context.Context, tenderTemplateId uuid.UUID, req tender.TemplatePatchRequest) (uuid.UUID, error)
}

type TemplateDeleter interface {
	DeleteTemplate(ctx context.Context, tenderTemplateId uuid.UUID) error
}

func NewGetTenders(log *slog.Logger, getter TenderGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.tender.NewGetTenders"
		log := log.With(slog.String("op", op))

		result, err := getter.Tenders(r.Context())
		if err != nil {
			api.Fail(w, r, log, nil, err, tenderNotFound)
			return
		}

		render.JSON(w, r, response.OK(nil, result))
	}
}

func NewPostTender(log *slog.Logger, saver TenderSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.tender.NewPostTender"
		log := log.With(slog.String("op", op))

		var req tender.TenderRequest
		if err := api.DecodeJSON(r, &req); err != nil {
			api.Fail(w, r, log, nil, err, tenderNotFound)
			return
		}

		created, err := saver.Create(r.Context(), req)
		if err != nil {
			api.Fail(w, r, log, nil, err, "No templates found for this type.")
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.OK(created[0].TenderId, created))
	}
}

func NewGetVendorTenders(log *slog.Logger, pager TenderPager, defaultPageSize int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.tender.NewGetVendorTenders"
		log := log.With(slog.String("op", op))

		pageNumber, err := queryInt(r, "pageNumber", 1)
		if err != nil {
			api.Fail(w, r, log, nil, err, tenderNotFound)
			return
		}
		pageSize, err := queryInt(r, "pageSize", defaultPageSize)
		if err != nil {
			api.Fail(w, r, log, nil, err, tenderNotFound)
			return
		}

		page, err := pager.Page(r.Context(), pageNumber, pageSize)
		if err != nil {
			api.Fail(w, r, log, nil, err, tenderNotFound)
			return
		}

		render.JSON(w, r, response.Paged(page.Items, response.MetaData{
			PageNumber:   page.PageNumber,
			PageSize:     page.PageSize,
			TotalRecords: page.TotalRecords,
		}))
	}
}

func NewGetBid(log *slog.Logger, getter BidGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.tender.NewGetBid"
		log := log.With(slog.String("op", op))

		tenderId, err := api.PathUUID(r, "tenderId")
		if err != nil {
			api.Fail(w, r, log, nil, err, tenderNotFound)
			return
		}

		details, err := getter.Bid(r.Context(), tenderId)
		if err != nil {
			api.Fail(w, r, log, tenderId, err, tenderNotFound)
			return
		}

		render.JSON(w, r, response.OK(tenderId, details))
	}
}

func NewPutSubmitBid(log *slog.Logger, submitter BidSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.tender.NewPutSubmitBid"
		log := log.With(slog.String("op", op))

		tenderId, err := api.PathUUID(r, "tenderId")
		if err != nil {
			api.Fail(w, r, log, nil, err, tenderNotFound)
			return
		}

		if err := submitter.SubmitBid(r.Context(), tenderId); err != nil {
			api.Fail(w, r, log, tenderId, err, "No vendor bid found for this tender.")
			return
		}

		render.JSON(w, r, response.OK(tenderId, nil))
	}
}

func NewGetTemplate(log *slog.Logger, getter TemplateGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.tender.NewGetTemplate"
		log := log.With(slog.String("op", op))

		tenderTemplateId, err := api.PathUUID(r, "tenderTemplateId")
		if err != nil {
			api.Fail(w, r, log, nil, err, templateNotFound)
			return
		}

		result, err := getter.Template(r.Context(), tenderTemplateId)
		if err != nil {
			api.Fail(w, r, log, tenderTemplateId, err, templateNotFound)
			return
		}

		render.JSON(w, r, response.OK(result.Id, result))
	}
}

func NewPutTemplate(log *slog.Logger, updater TemplateUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.tender.NewPutTemplate"
		log := log.With(slog.String("op", op))

		tenderTemplateId, err := api.PathUUID(r, "tenderTemplateId")
		if err != nil {
			api.Fail(w, r, log, nil, err, templateNotFound)
			return
		}

		var req tender.TemplatePatchRequest
		if err := api.DecodeJSON(r, &req); err != nil {
			api.Fail(w, r, log, tenderTemplateId, err, templateNotFound)
			return
		}

		id, err := updater.UpdateTemplate(r.Context(), tenderTemplateId, req)
		if err != nil {
			api.Fail(w, r, log, tenderTemplateId, err, templateNotFound)
			return
		}

		render.JSON(w, r, response.OK(id, map[string]uuid.UUID{"tenderTemplateId": id}))
	}
}

func NewDeleteTemplate(log *slog.Logger, deleter TemplateDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.tender.NewDeleteTemplate"
		log := log.With(slog.String("op", op))

		tenderTemplateId, err := api.PathUUID(r, "tenderTemplateId")
		if err != nil {
			api.Fail(w, r, log, nil, err, templateNotFound)
			return
		}

		if err := deleter.DeleteTemplate(r.Context(), tenderTemplateId); err != nil {
			api.Fail(w, r, log, tenderTemplateId, err, templateNotFound)
			return
		}

		render.JSON(w, r, response.OK(tenderTemplateId, nil))
	}
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: incorrect %s value", api.ErrInvalidInput, name)
	}

	return n, nil
}
