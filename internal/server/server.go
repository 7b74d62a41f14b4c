// Package server exposes the triage pipeline over HTTP webhooks.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sells-group/spam-triage/internal/dispatch"
	"github.com/sells-group/spam-triage/internal/model"
	"github.com/sells-group/spam-triage/internal/triage"
)

// Version is reported by the status endpoint.
const Version = "1.0.0"

// Classifier checks a single phone number.
type Classifier interface {
	Classify(ctx context.Context, raw any) (model.Verdict, error)
}

// Processor runs the full pipeline synchronously.
type Processor interface {
	Process(ctx context.Context, leadID int64, phone any) (triage.Result, error)
}

// Dispatcher accepts batches for background processing.
type Dispatcher interface {
	Dispatch(ctx context.Context, entries []model.RawLead) dispatch.Summary
}

// BreakerStates reports circuit breaker states by service.
type BreakerStates interface {
	States() map[string]string
}

// Info is the configuration summary shown on the status endpoint.
type Info struct {
	ReputationURL    string
	CRMDomain        string
	Threshold        int
	StatusConfigured bool
	AllowedOrigins   []string
}

// Deps are the collaborators of the HTTP handlers.
type Deps struct {
	Classifier Classifier
	Pipeline   Processor
	Dispatcher Dispatcher
	Breakers   BreakerStates // optional
	Info       Info
	Now        func() time.Time // optional
}

type handlers struct {
	Deps
}

// NewRouter builds the webhook router.
func NewRouter(d Deps) http.Handler {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{Deps: d}

	origins := d.Info.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/", h.status)
	r.Get("/health", h.health)
	r.Get("/test/check", h.testCheck)
	r.Route("/webhook", func(r chi.Router) {
		r.Post("/check-spam", h.checkSpam)
		r.Post("/amocrm", h.amocrm)
	})
	return r
}
