package router

import (
	"log/slog"
	"net/http"

	"etendering/internal/http-server/handlers/api/bids"
	"etendering/internal/http-server/handlers/api/ping"
	"etendering/internal/http-server/handlers/api/templates"
	"etendering/internal/http-server/handlers/api/tender"
	mwLogger "etendering/internal/http-server/middleware/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Templates interface {
	templates.TemplatesGetter
	templates.TemplateGetter
	templates.TypesGetter
	templates.TemplateUpserter
	templates.TemplateDeleter
}

type Tenders interface {
	tender.TenderGetter
	tender.TenderSaver
	tender.TenderPager
	tender.BidGetter
	tender.BidSubmitter
	tender.TemplateGetter
	tender.TemplateUpdater
	tender.TemplateDeleter
}

type Bids interface {
	bids.ResponseGetter
	bids.AnswersSaver
}

type Deps struct {
	Pinger          ping.Pinger
	Templates       Templates
	Tenders         Tenders
	Bids            Bids
	DefaultPageSize int
}

func New(log *slog.Logger, deps Deps) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		r.Get("/ping", ping.New(log, deps.Pinger))
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", templates.NewGetTemplates(log, deps.Templates))
			r.Post("/", templates.NewPostTemplate(log, deps.Templates))
			r.Get("/types", templates.NewGetTypes(log, deps.Templates))
			r.Get("/{templateId}", templates.NewGetTemplate(log, deps.Templates))
			r.Delete("/{templateId}", templates.NewDeleteTemplate(log, deps.Templates))
		})
		r.Route("/tenders", func(r chi.Router) {
			r.Get("/", tender.NewGetTenders(log, deps.Tenders))
			r.Post("/new", tender.NewPostTender(log, deps.Tenders))
			r.Get("/vendor", tender.NewGetVendorTenders(log, deps.Tenders, deps.DefaultPageSize))
			r.Get("/{tenderId}/bid", tender.NewGetBid(log, deps.Tenders))
			r.Put("/{tenderId}/submit", tender.NewPutSubmitBid(log, deps.Tenders))
		})
		r.Route("/tender-templates/{tenderTemplateId}", func(r chi.Router) {
			r.Get("/", tender.NewGetTemplate(log, deps.Tenders))
			r.Put("/", tender.NewPutTemplate(log, deps.Tenders))
			r.Delete("/", tender.NewDeleteTemplate(log, deps.Tenders))
			r.Get("/response", bids.NewGetResponse(log, deps.Bids))
			r.Put("/response", bids.NewPutResponse(log, deps.Bids))
		})
	})

	return router
}
