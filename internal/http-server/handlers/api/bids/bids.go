package bids

import (
	"context"
	"log/slog"
	"net/http"

	"etendering/internal/http-server/handlers/api"
	"etendering/internal/lib/api/response"
	"etendering/internal/models/bids"

	"github.com/go-chi/render"
	"github.com/google/uuid"
)

const notFound = "Tender template not found."

type ResponseGetter interface {
	GetOrCreate(ctx context.Context, tenderTemplateId uuid.UUID) (bids.VendorResponse, error)
}

type AnswersSaver interface {
	SaveAnswers(ctx context.Context, tenderTemplateId uuid.UUID, answers map[uuid.UUID]any, isCompleted bool) (uuid.UUID, error)
}

func NewGetResponse(log *slog.Logger, getter ResponseGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.bids.NewGetResponse"
		log := log.With(slog.String("op", op))

		tenderTemplateId, err := api.PathUUID(r, "tenderTemplateId")
		if err != nil {
			api.Fail(w, r, log, nil, err, notFound)
			return
		}

		resp, err := getter.GetOrCreate(r.Context(), tenderTemplateId)
		if err != nil {
			api.Fail(w, r, log, tenderTemplateId, err, notFound)
			return
		}

		render.JSON(w, r, response.OK(resp.Id, resp))
	}
}

func NewPutResponse(log *slog.Logger, saver AnswersSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.bids.NewPutResponse"
		log := log.With(slog.String("op", op))

		tenderTemplateId, err := api.PathUUID(r, "tenderTemplateId")
		if err != nil {
			api.Fail(w, r, log, nil, err, notFound)
			return
		}

		var req bids.AnswersRequest
		if err := api.DecodeJSON(r, &req); err != nil {
			api.Fail(w, r, log, tenderTemplateId, err, notFound)
			return
		}

		id, err := saver.SaveAnswers(r.Context(), tenderTemplateId, req.Answers, req.IsCompleted)
		if err != nil {
			api.Fail(w, r, log, tenderTemplateId, err, notFound)
			return
		}

		state := bids.StateDraft
		if req.IsCompleted {
			state = bids.StateFinal
		}

		render.JSON(w, r, response.OK(id, map[string]any{
			"responseId": id,
			"state":      state,
		}))
	}
}
