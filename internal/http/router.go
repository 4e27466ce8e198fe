package http

import (
	"net/http"

	"dorm-backend/internal/handlers"
	"dorm-backend/internal/middleware"
	"dorm-backend/internal/models"
	"dorm-backend/internal/monitoring"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	buildingHandler *handlers.BuildingHandler,
	roomHandler *handlers.RoomHandler,
	studentHandler *handlers.StudentHandler,
	guestHandler *handlers.GuestHandler,
	assetHandler *handlers.AssetHandler,
	billHandler *handlers.BillHandler,
	statsHandler *handlers.StatsHandler,
	healthHandler *handlers.HealthHandler,
	liveFeed *monitoring.LiveFeed,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.APILogging)

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)
	if liveFeed != nil {
		api.Use(middleware.NotifyOnWrite(liveFeed.Notify))
		api.HandleFunc("/live", liveFeed.HandleWebSocket).Methods("GET")
	}

	api.HandleFunc("/me", authHandler.Me).Methods("GET")

	// Buildings
	api.HandleFunc("/buildings", buildingHandler.List).Methods("GET")
	api.HandleFunc("/buildings", buildingHandler.Create).Methods("POST")
	api.HandleFunc("/buildings/{id}", buildingHandler.Get).Methods("GET")
	api.HandleFunc("/buildings/{id}", buildingHandler.Update).Methods("PUT", "PATCH")
	api.HandleFunc("/buildings/{id}", buildingHandler.Delete).Methods("DELETE")

	// Rooms
	api.HandleFunc("/rooms", roomHandler.List).Methods("GET")
	api.HandleFunc("/rooms", roomHandler.Create).Methods("POST")
	api.HandleFunc("/rooms/{id}", roomHandler.Get).Methods("GET")
	api.HandleFunc("/rooms/{id}", roomHandler.Update).Methods("PUT", "PATCH")
	api.HandleFunc("/rooms/{id}", roomHandler.Delete).Methods("DELETE")
	api.HandleFunc("/rooms/{id}/recount", roomHandler.Recount).Methods("POST")

	// Students
	api.HandleFunc("/students", studentHandler.List).Methods("GET")
	api.HandleFunc("/students", studentHandler.Create).Methods("POST")
	api.HandleFunc("/students/{id}", studentHandler.Get).Methods("GET")
	api.HandleFunc("/students/{id}", studentHandler.Update).Methods("PUT", "PATCH")
	api.HandleFunc("/students/{id}", studentHandler.Delete).Methods("DELETE")

	// Guests
	api.HandleFunc("/guests", guestHandler.List).Methods("GET")
	api.HandleFunc("/guests", guestHandler.CheckIn).Methods("POST")
	api.HandleFunc("/guests/{id}", guestHandler.Get).Methods("GET")
	api.HandleFunc("/guests/{id}", guestHandler.Update).Methods("PUT", "PATCH")
	api.HandleFunc("/guests/{id}", guestHandler.CheckOut).Methods("DELETE")
	api.HandleFunc("/guests/{id}/checkout", guestHandler.CheckOut).Methods("POST")

	// Assets
	api.HandleFunc("/assets", assetHandler.List).Methods("GET")
	api.HandleFunc("/assets", assetHandler.Create).Methods("POST")
	api.HandleFunc("/assets/{id}", assetHandler.Get).Methods("GET")
	api.HandleFunc("/assets/{id}", assetHandler.Update).Methods("PUT", "PATCH")
	api.HandleFunc("/assets/{id}", assetHandler.Delete).Methods("DELETE")

	// Bills
	api.HandleFunc("/bills", billHandler.List).Methods("GET")
	api.HandleFunc("/bills", billHandler.Create).Methods("POST")
	api.HandleFunc("/bills/export/csv", billHandler.ExportCSV).Methods("GET")
	api.HandleFunc("/bills/export/receipts", billHandler.ExportReceipts).Methods("GET")
	api.HandleFunc("/bills/{id}", billHandler.Get).Methods("GET")
	api.HandleFunc("/bills/{id}", billHandler.Update).Methods("PUT", "PATCH")
	api.HandleFunc("/bills/{id}", billHandler.Delete).Methods("DELETE")
	api.HandleFunc("/bills/{id}/pay", billHandler.Pay).Methods("POST")
	api.HandleFunc("/bills/{id}/unpay", billHandler.Unpay).Methods("POST")
	api.HandleFunc("/bills/{id}/receipt", billHandler.Receipt).Methods("GET")

	// Users (the service rejects STAFF on every action)
	api.HandleFunc("/users", userHandler.ListUsers).Methods("GET")
	api.HandleFunc("/users", userHandler.CreateUser).Methods("POST")
	api.HandleFunc("/users/{id}", userHandler.GetUser).Methods("GET")
	api.HandleFunc("/users/{id}", userHandler.UpdateUser).Methods("PUT", "PATCH")
	api.HandleFunc("/users/{id}", userHandler.DeleteUser).Methods("DELETE")

	// Aggregates
	api.HandleFunc("/stats", statsHandler.Dashboard).Methods("GET")
	api.HandleFunc("/stats/revenue", statsHandler.Revenue).Methods("GET")
	api.HandleFunc("/notifications", statsHandler.Notifications).Methods("GET")

	// Health check endpoints (no auth required)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.Handle("/health/detailed",
		authMiddleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(healthHandler.DetailedHealth))).Methods("GET")

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
