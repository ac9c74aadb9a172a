package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/school-payroll-api/internal/middleware"
)

// Router настраивает маршруты API
type Router struct {
	mux            *chi.Mux
	logger         *slog.Logger
	empHandler     *EmployeeHandler
	slipHandler    *SlipHandler
	paymentHandler *PaymentHandler
}

// NewRouter создаёт новый роутер
func NewRouter(empHandler *EmployeeHandler, slipHandler *SlipHandler, paymentHandler *PaymentHandler, logger *slog.Logger) *Router {
	return &Router{
		mux:            chi.NewRouter(),
		logger:         logger,
		empHandler:     empHandler,
		slipHandler:    slipHandler,
		paymentHandler: paymentHandler,
	}
}

// Setup настраивает все маршруты
func (r *Router) Setup() http.Handler {
	r.mux.Use(chimw.RequestID)
	r.mux.Use(middleware.Recoverer(r.logger))
	r.mux.Use(middleware.Logger(r.logger))
	r.mux.Use(middleware.ContentType)

	r.mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	})
	r.mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
	})

	r.mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.mux.Route("/employees", func(rt chi.Router) {
		rt.Get("/", r.empHandler.List)
		rt.Post("/", r.empHandler.Create)

		rt.Route("/{id}", func(rt chi.Router) {
			rt.Get("/", r.empHandler.Get)
			rt.Put("/", r.empHandler.Upsert)
			rt.Get("/salary-structure", r.empHandler.GetStructure)
			rt.Put("/salary-structure", r.empHandler.SaveStructure)
			rt.Get("/slips", r.slipHandler.History)
			rt.Post("/slips", r.slipHandler.Generate)
		})
	})

	r.mux.Post("/salary/preview", r.slipHandler.Preview)

	r.mux.Route("/slips/{slipID}", func(rt chi.Router) {
		rt.Get("/", r.slipHandler.Get)
		rt.Post("/supersede", r.slipHandler.Supersede)
		rt.Get("/pdf", r.slipHandler.PDF)
		rt.Post("/payments", r.paymentHandler.Record)
		rt.Get("/payment", r.paymentHandler.Get)
	})

	return r.mux
}
