package httpinterface

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

const (
	publicInterface   = "public"
	operatorInterface = "operator"
)

func newPublicRouter(opts ServiceOpts, m *metrics) http.Handler {
	h := &escrowHandler{
		svc:        opts.EscrowSvc,
		metrics:    m,
		skipVerify: opts.NoSignatureCheck,
	}

	r := newRouter(publicInterface, m)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/offers", h.listOffers)
		r.Post("/offers", h.makeOffer)
		r.Get("/offers/{id}", h.getOffer)
		r.Post("/offers/{id}/take", h.takeOffer)
		r.Post("/offers/{id}/refund", h.refundOffer)
		r.Get("/accounts/{owner}", h.getBalances)
	})
	r.Method(http.MethodGet, "/metrics", m.handler())
	return r
}

func newOperatorRouter(opts ServiceOpts, m *metrics) http.Handler {
	h := &operatorHandler{svc: opts.OperatorSvc}

	r := newRouter(operatorInterface, m)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/mints", h.listMints)
		r.Post("/mints", h.createMint)
		r.Post("/mints/{mint}/mint-to", h.mintTo)
		r.Post("/airdrop", h.airdrop)
		r.Get("/webhooks", h.listWebhooks)
		r.Post("/webhooks", h.addWebhook)
		r.Delete("/webhooks/{id}", h.removeWebhook)
	})
	r.Method(http.MethodGet, "/metrics", m.handler())
	return r
}

func newRouter(iface string, m *metrics) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(iface))
	r.Use(middleware.Recoverer)
	r.Use(m.middleware(iface))
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("NOT_FOUND", "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(
			w, http.StatusMethodNotAllowed,
			errorBody("METHOD_NOT_ALLOWED", "method not allowed"),
		)
	})
	return r
}

func requestLogger(iface string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				entry := log.WithFields(log.Fields{
					"interface":  iface,
					"request_id": middleware.GetReqID(r.Context()),
					"method":     r.Method,
					"path":       r.URL.Path,
					"status":     ww.Status(),
					"elapsed":    time.Since(start).String(),
				})
				if ww.Status() >= http.StatusInternalServerError {
					entry.Warn("request failed")
					return
				}
				entry.Debug("request served")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
