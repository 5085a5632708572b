// Package http exposes the REST API. Routes are grouped under /api/v1;
// everything except login and token refresh requires a valid access token,
// and mutating routes are gated by role.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"locnos-backend/internal/domain"
	"locnos-backend/internal/security"
	"locnos-backend/internal/service"
)

// Services bundles everything the router needs.
type Services struct {
	Auth      service.AuthService
	Category  service.CategoryService
	Person    service.PersonService
	Equipment service.EquipmentService
	Contract  service.ContractService
	Dashboard service.DashboardService
	Tokens    security.TokenManager
}

func NewRouter(s Services) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	api.Use(logRequests)

	auth := NewAuthHandler(s.Auth)
	api.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", auth.Refresh).Methods(http.MethodPost)

	authMW := newAuthMiddleware(s.Tokens)
	protected := api.NewRoute().Subrouter()
	protected.Use(authMW.Authenticate)

	protected.HandleFunc("/auth/me", auth.Me).Methods(http.MethodGet)

	admin := RequireRole()
	manager := RequireRole(domain.UserRoleManager)
	staff := RequireRole(domain.UserRoleManager, domain.UserRoleOperator)

	// Staff accounts are provisioned by an admin; there is no open signup.
	protected.Handle("/auth/register", admin(http.HandlerFunc(auth.Register))).Methods(http.MethodPost)

	categories := NewCategoryHandler(s.Category)
	protected.HandleFunc("/categories", categories.List).Methods(http.MethodGet)
	protected.HandleFunc("/categories/{id:[0-9]+}", categories.Get).Methods(http.MethodGet)
	protected.Handle("/categories", manager(http.HandlerFunc(categories.Create))).Methods(http.MethodPost)
	protected.Handle("/categories/{id:[0-9]+}", manager(http.HandlerFunc(categories.Update))).Methods(http.MethodPut)
	protected.Handle("/categories/{id:[0-9]+}", manager(http.HandlerFunc(categories.Delete))).Methods(http.MethodDelete)

	persons := NewPersonHandler(s.Person)
	protected.HandleFunc("/persons", persons.List).Methods(http.MethodGet)
	protected.HandleFunc("/persons/{id:[0-9]+}", persons.Get).Methods(http.MethodGet)
	protected.Handle("/persons", staff(http.HandlerFunc(persons.Create))).Methods(http.MethodPost)
	protected.Handle("/persons/{id:[0-9]+}", staff(http.HandlerFunc(persons.Update))).Methods(http.MethodPut)
	protected.Handle("/persons/{id:[0-9]+}", manager(http.HandlerFunc(persons.Delete))).Methods(http.MethodDelete)

	equipment := NewEquipmentHandler(s.Equipment)
	protected.HandleFunc("/equipment", equipment.List).Methods(http.MethodGet)
	protected.HandleFunc("/equipment/{id:[0-9]+}", equipment.Get).Methods(http.MethodGet)
	protected.HandleFunc("/equipment/{id:[0-9]+}/availability", equipment.CheckAvailability).Methods(http.MethodGet)
	protected.HandleFunc("/equipment/{id:[0-9]+}/quote", equipment.Quote).Methods(http.MethodGet)
	protected.Handle("/equipment", manager(http.HandlerFunc(equipment.Create))).Methods(http.MethodPost)
	protected.Handle("/equipment/{id:[0-9]+}", manager(http.HandlerFunc(equipment.Update))).Methods(http.MethodPut)
	protected.Handle("/equipment/{id:[0-9]+}", manager(http.HandlerFunc(equipment.Delete))).Methods(http.MethodDelete)

	contracts := NewContractHandler(s.Contract)
	protected.HandleFunc("/contracts", contracts.List).Methods(http.MethodGet)
	protected.HandleFunc("/contracts/{id:[0-9]+}", contracts.Get).Methods(http.MethodGet)
	protected.HandleFunc("/contracts/{id:[0-9]+}/payments", contracts.ListPayments).Methods(http.MethodGet)
	protected.Handle("/contracts", staff(http.HandlerFunc(contracts.Create))).Methods(http.MethodPost)
	protected.Handle("/contracts/{id:[0-9]+}/approve", manager(http.HandlerFunc(contracts.Approve))).Methods(http.MethodPost)
	protected.Handle("/contracts/{id:[0-9]+}/pickup", staff(http.HandlerFunc(contracts.Pickup))).Methods(http.MethodPost)
	protected.Handle("/contracts/{id:[0-9]+}/return", staff(http.HandlerFunc(contracts.Return))).Methods(http.MethodPost)
	protected.Handle("/contracts/{id:[0-9]+}/cancel", manager(http.HandlerFunc(contracts.Cancel))).Methods(http.MethodPost)
	protected.Handle("/contracts/{id:[0-9]+}/payments", staff(http.HandlerFunc(contracts.RegisterPayment))).Methods(http.MethodPost)

	dashboard := NewDashboardHandler(s.Dashboard)
	protected.HandleFunc("/dashboard/summary", dashboard.Summary).Methods(http.MethodGet)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return r
}
