package ping

import (
	"context"
	"log/slog"
	"net/http"

	"etendering/internal/lib/logger/sl"

	"github.com/go-chi/render"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func New(log *slog.Logger, pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.ping.New"

		log := log.With(slog.String("op", op))
		log.Debug("ping request")

		if err := pinger.Ping(r.Context()); err != nil {
			log.Error("database is unreachable", sl.Err(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.PlainText(w, r, "unavailable")
			return
		}

		render.PlainText(w, r, "ok")
	}
}
