package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"granite-console/internal/core"
	"granite-console/internal/metrics"
)

// InventoryStore is the part of core.InventoryService the HTTP layer uses.
type InventoryStore interface {
	List(ctx context.Context) ([]core.InventoryItem, error)
	Get(ctx context.Context, id string) (*core.InventoryItem, error)
	Create(ctx context.Context, item core.InventoryItem) (*core.InventoryItem, error)
	Update(ctx context.Context, id string, item core.InventoryItem) (*core.InventoryItem, error)
	Delete(ctx context.Context, id string) error
}

// Authenticator checks login credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*core.User, error)
}

// Services are the backend services behind the REST API.
type Services struct {
	Invoices  core.InvoiceService
	Inventory InventoryStore
	Reports   core.ReportingService
	Users     Authenticator
}

// Options configures the HTTP layer.
type Options struct {
	AllowedOrigins string
	JWTSecret      string
	TokenTTL       time.Duration
	Metrics        *metrics.HTTPMetrics // optional; /metrics is served when set
	Now            func() time.Time
}

// Handler holds the services and settings shared by all routes.
type Handler struct {
	svc       Services
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc Services, opts Options) http.Handler {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	h := &Handler{
		svc:       svc,
		jwtSecret: []byte(opts.JWTSecret),
		tokenTTL:  opts.TokenTTL,
		now:       opts.Now,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Metrics(opts.Metrics))
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(opts.AllowedOrigins))

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		// ── Public ────────────────────────────────────────────────────────────
		r.Get("/health", h.health)
		r.Post("/auth/login", h.login)

		// ── Protected (x-auth-token) ──────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)

			r.Get("/auth/me", h.me)

			r.Get("/invoices", h.listInvoices)
			r.Post("/invoices", h.createInvoice)
			r.Get("/invoices/{id}", h.getInvoice)
			r.Put("/invoices/{id}", h.updateInvoice)
			r.Delete("/invoices/{id}", h.deleteInvoice)

			r.Get("/inventory", h.listInventory)
			r.Post("/inventory", h.createInventory)
			r.Get("/inventory/{id}", h.getInventory)
			r.Put("/inventory/{id}", h.updateInventory)
			r.Delete("/inventory/{id}", h.deleteInventory)

			r.Get("/reports/dashboard-summary", h.dashboardSummary)
			r.Get("/reports/{type}", h.report)
		})
	})

	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
