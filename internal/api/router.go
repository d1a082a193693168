package api

import (
	"io"
	"net/http"

	"carrental/internal/auth"
	"carrental/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	Catalog      *service.CatalogService
	Reservations *service.ReservationService
	AdminAuth    service.AdminAuthService
	AdminFleet   *service.AdminVehicleService

	JWTSecret      string
	AllowedOrigins []string
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// AccessLog receives combined-format request logs. Nil disables them.
	AccessLog io.Writer
}

func NewRouter(cfg RouterConfig) http.Handler {
	catalogHandler := NewCatalogHandler(cfg.Catalog)
	userReservationHandler := NewUserReservationHandler(cfg.Reservations)
	adminAuthHandler := NewAdminAuthHandler(cfg.AdminAuth)
	adminHandler := NewAdminHandler(cfg.AdminFleet)

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}

	// Public endpoints
	r.HandleFunc("/api/vehicles", catalogHandler.ListVehicles).Methods("GET")
	r.HandleFunc("/api/vehicles/{id}", catalogHandler.GetVehicle).Methods("GET")
	r.HandleFunc("/api/time-slots", catalogHandler.TimeSlots).Methods("GET")
	r.HandleFunc("/api/quotes", userReservationHandler.Quote).Methods("POST")
	r.HandleFunc("/api/reservations", userReservationHandler.StartReservation).Methods("POST")
	r.HandleFunc("/api/reservations/{id}", userReservationHandler.GetReservation).Methods("GET")
	r.HandleFunc("/api/reservations/{id}/draft", userReservationHandler.UpdateDraft).Methods("PATCH")
	r.HandleFunc("/api/reservations/{id}/vehicle", userReservationHandler.SelectVehicle).Methods("PUT")
	r.HandleFunc("/api/reservations/{id}/next", userReservationHandler.Next).Methods("POST")
	r.HandleFunc("/api/reservations/{id}/back", userReservationHandler.Back).Methods("POST")
	r.HandleFunc("/api/reservations/{id}/close", userReservationHandler.Close).Methods("POST")
	r.HandleFunc("/api/quick-reservations", userReservationHandler.QuickReserve).Methods("POST")
	r.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware(cfg.JWTSecret))
	admin.HandleFunc("/vehicles", adminHandler.ListVehicles).Methods("GET")
	admin.HandleFunc("/vehicles", adminHandler.CreateVehicle).Methods("POST")
	admin.HandleFunc("/vehicles/{id}", adminHandler.UpdateVehicle).Methods("PUT")
	admin.HandleFunc("/vehicles/{id}", adminHandler.DeleteVehicle).Methods("DELETE")
	admin.HandleFunc("/dashboard", adminHandler.Dashboard).Methods("GET")

	var h http.Handler = r
	h = handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(h)
	if cfg.AccessLog != nil {
		h = handlers.CombinedLoggingHandler(cfg.AccessLog, h)
	}
	return h
}
