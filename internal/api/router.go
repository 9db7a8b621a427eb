package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"lwsbooking/internal/auth"
)

type RouterDeps struct {
	Booking        *BookingHandler
	Contact        *ContactHandler
	Tokens         *auth.TokenIssuer
	ContactLimiter *RateLimiter
	AllowedOrigins []string
	Logger         *zap.Logger
}

func NewRouter(d RouterDeps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := mux.NewRouter()
	r.Use(MetricsMiddleware, RequestLoggingMiddleware(logger))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Public endpoints
	booking := r.PathPrefix("/api/booking").Subrouter()
	booking.HandleFunc("/dates", d.Booking.ListDates).Methods(http.MethodGet)
	booking.HandleFunc("/slots", d.Booking.ListSlots).Methods(http.MethodGet)
	booking.HandleFunc("/sessions", d.Booking.StartSession).Methods(http.MethodPost)

	contact := r.PathPrefix("/api/contact").Subrouter()
	if d.ContactLimiter != nil {
		contact.Use(d.ContactLimiter.Middleware)
	}
	contact.HandleFunc("", d.Contact.Submit).Methods(http.MethodPost)

	// Session endpoints (token protected)
	session := booking.PathPrefix("/sessions/{id}").Subrouter()
	session.Use(auth.SessionTokenMiddleware(d.Tokens))
	session.HandleFunc("", d.Booking.GetSession).Methods(http.MethodGet)
	session.HandleFunc("/format", d.Booking.SetFormat).Methods(http.MethodPut)
	session.HandleFunc("/date-step", d.Booking.ChooseDate).Methods(http.MethodPost)
	session.HandleFunc("/date", d.Booking.SelectDate).Methods(http.MethodPut)
	session.HandleFunc("/time", d.Booking.SelectTime).Methods(http.MethodPut)
	session.HandleFunc("/proceed", d.Booking.Proceed).Methods(http.MethodPost)
	session.HandleFunc("/back", d.Booking.Back).Methods(http.MethodPost)
	session.HandleFunc("/client", d.Booking.UpdateClient).Methods(http.MethodPut)
	session.HandleFunc("/submit", d.Booking.Submit).Methods(http.MethodPost)
	session.HandleFunc("/dismiss", d.Booking.Dismiss).Methods(http.MethodPost)
	session.HandleFunc("/reset", d.Booking.Reset).Methods(http.MethodPost)

	cors := handlers.CORS(
		handlers.AllowedOrigins(d.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(logger)),
		handlers.PrintRecoveryStack(true),
	)
	return recovery(handlers.ProxyHeaders(cors(r)))
}
