package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/roomstead/roomstead/internal/hotel/service"
	"github.com/roomstead/roomstead/internal/hotel/store"
	"github.com/roomstead/roomstead/pkg/httpx"
	"github.com/roomstead/roomstead/pkg/slogx"
	"github.com/roomstead/roomstead/pkg/tokenx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	tokens       tokenx.Config
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	AuthService  *service.AuthService
	Availability *service.AvailabilityService
	Mapper       *service.RowMapper
}

func NewRouter(tokens tokenx.Config, buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		tokens:       tokens,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,

		AuthService:  &service.AuthService{Store: st, Tokens: tokens},
		Availability: &service.AvailabilityService{Store: st},
		Mapper:       &service.RowMapper{Store: st},
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerHotels()
	r.registerRooms()
	r.registerReservations()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Credential endpoints carry strict per-IP limits to slow brute force.
	r.Mux.Handle("POST /v1/auth/signup",
		httpx.Chain(http.HandlerFunc(h.HandleSignUp),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/signin",
		httpx.Chain(http.HandlerFunc(h.HandleSignIn),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Refresh happens on a timer in every client, so it gets more headroom.
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerHotels() {
	h := &HotelsHandler{Store: r.store, Mapper: r.Mapper, Availability: r.Availability}

	r.Mux.Handle("GET /v1/hotels",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/hotels/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/hotels/{id}/free-rooms",
		httpx.Chain(http.HandlerFunc(h.HandleFreeRooms),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("POST /v1/hotels", r.secured(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("PUT /v1/hotels/{id}", r.secured(http.HandlerFunc(h.HandleUpdate)))
	r.Mux.Handle("DELETE /v1/hotels/{id}", r.secured(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerRooms() {
	h := &RoomsHandler{Store: r.store, Mapper: r.Mapper, Availability: r.Availability}

	r.Mux.Handle("GET /v1/hotels/{id}/rooms",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/rooms/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/rooms/{id}/availability",
		httpx.Chain(http.HandlerFunc(h.HandleAvailability),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("POST /v1/hotels/{id}/rooms", r.secured(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("PUT /v1/rooms/{id}", r.secured(http.HandlerFunc(h.HandleUpdate)))
	r.Mux.Handle("DELETE /v1/rooms/{id}", r.secured(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerReservations() {
	h := &ReservationsHandler{Store: r.store, Mapper: r.Mapper, Availability: r.Availability}

	r.Mux.Handle("GET /v1/hotels/{id}/reservations", r.secured(http.HandlerFunc(h.HandleListByHotel)))
	r.Mux.Handle("GET /v1/rooms/{id}/reservations", r.secured(http.HandlerFunc(h.HandleListByRoom)))
	r.Mux.Handle("GET /v1/users/{id}/reservations", r.secured(http.HandlerFunc(h.HandleListByGuest)))
	r.Mux.Handle("GET /v1/reservations/{id}", r.secured(http.HandlerFunc(h.HandleGet)))

	r.Mux.Handle("POST /v1/rooms/{id}/book", r.secured(http.HandlerFunc(h.HandleBook)))
	r.Mux.Handle("PUT /v1/reservations/{id}", r.secured(http.HandlerFunc(h.HandleUpdate)))
	r.Mux.Handle("DELETE /v1/reservations/{id}", r.secured(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}

// secured wraps a handler with bearer authentication and a per-IP limit.
func (r *Router) secured(h http.Handler) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.tokens),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	)
}
