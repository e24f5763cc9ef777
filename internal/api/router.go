package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the HTTP surface. Everything except the health root and
// /metrics sits behind basic auth.
func NewRouter(h *Handler, adminUsername, adminPassword string) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/", h.HealthCheckHandler).Methods("GET")

	authed := r.PathPrefix("/").Subrouter()
	authed.Use(func(next http.Handler) http.Handler {
		return BasicAuth(adminUsername, adminPassword, next)
	})
	authed.HandleFunc("/accounts", h.ListAccountsHandler).Methods("GET")
	authed.HandleFunc("/accounts/{email}", h.GetAccountHandler).Methods("GET")
	authed.HandleFunc("/accounts/{email}/balance", h.GetBalanceHandler).Methods("GET")
	authed.HandleFunc("/transactions", h.ListTransactionsHandler).Methods("GET")
	authed.HandleFunc("/transactions", h.CreateTransactionHandler).Methods("POST")
	authed.HandleFunc("/transfers", h.CreateTransferHandler).Methods("POST")

	return r
}
