package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/ledgercore/ledger-api/internal/domain"
	"github.com/ledgercore/ledger-api/internal/service"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})
)

type Handler struct {
	accounts     *service.AccountService
	transactions *service.TransactionService
	logger       *zap.Logger
}

func NewHandler(accounts *service.AccountService, transactions *service.TransactionService, logger *zap.Logger) *Handler {
	return &Handler{accounts: accounts, transactions: transactions, logger: logger}
}

func (h *Handler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListAccounts(r.Context())
	if err != nil {
		h.serverError(w, r, "GET", "/accounts", err)
		return
	}
	h.observe("GET", "/accounts", http.StatusOK)
	respondWithJSON(w, http.StatusOK, accounts)
}

func (h *Handler) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	account, err := h.accounts.GetAccount(r.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			h.observe("GET", "/accounts/{email}", http.StatusNotFound)
			respondWithError(w, http.StatusNotFound, "Account not found")
			return
		}
		h.serverError(w, r, "GET", "/accounts/{email}", err)
		return
	}

	h.observe("GET", "/accounts/{email}", http.StatusOK)
	respondWithJSON(w, http.StatusOK, account)
}

// GetBalanceHandler responds 200 with the signed integer balance. An
// email with no transactions, even one with no account, yields 0 rather
// than 404.
func (h *Handler) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	balance, err := h.accounts.GetBalance(r.Context(), email)
	if err != nil {
		h.serverError(w, r, "GET", "/accounts/{email}/balance", err)
		return
	}

	h.observe("GET", "/accounts/{email}/balance", http.StatusOK)
	respondWithJSON(w, http.StatusOK, balance)
}

func (h *Handler) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.transactions.ListTransactions(r.Context())
	if err != nil {
		h.serverError(w, r, "GET", "/transactions", err)
		return
	}
	h.observe("GET", "/transactions", http.StatusOK)
	respondWithJSON(w, http.StatusOK, transactions)
}

type createTransactionRequest struct {
	UserEmail string    `json:"userEmail"`
	Amount    int64     `json:"amount"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/transactions"))
	defer timer.ObserveDuration()

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.observe("POST", "/transactions", http.StatusBadRequest)
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	id, err := h.transactions.CreateTransaction(r.Context(), domain.Transaction{
		UserEmail: req.UserEmail,
		Amount:    req.Amount,
		Type:      domain.TransactionType(req.Type),
		CreatedAt: req.CreatedAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTransactionType):
			h.observe("POST", "/transactions", http.StatusUnprocessableEntity)
			respondWithError(w, http.StatusUnprocessableEntity, "Invalid transaction type")
		case errors.Is(err, domain.ErrInvalidAmount):
			h.observe("POST", "/transactions", http.StatusUnprocessableEntity)
			respondWithError(w, http.StatusUnprocessableEntity, "Amount must be at least 1")
		case errors.Is(err, domain.ErrUnknownAccount):
			h.observe("POST", "/transactions", http.StatusBadRequest)
			respondWithError(w, http.StatusBadRequest, "Unknown account")
		default:
			h.serverError(w, r, "POST", "/transactions", err)
		}
		return
	}

	h.observe("POST", "/transactions", http.StatusCreated)
	respondWithJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) CreateTransferHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/transfers"))
	defer timer.ObserveDuration()

	var req domain.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.observe("POST", "/transfers", http.StatusBadRequest)
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	ids, err := h.transactions.CreateTransfer(r.Context(), req.FromEmail, req.ToEmail, req.Amount, req.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			h.observe("POST", "/transfers", http.StatusUnprocessableEntity)
			respondWithError(w, http.StatusUnprocessableEntity, "Amount must be at least 1")
		case errors.Is(err, domain.ErrUnknownAccount):
			h.observe("POST", "/transfers", http.StatusBadRequest)
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.serverError(w, r, "POST", "/transfers", err)
		}
		return
	}

	h.observe("POST", "/transfers", http.StatusCreated)
	respondWithJSON(w, http.StatusCreated, map[string][]string{"ids": {ids[0], ids[1]}})
}

func (h *Handler) observe(method, endpoint string, code int) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, method, endpoint string, err error) {
	h.logger.Error("request failed",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Error(err))
	h.observe(method, endpoint, http.StatusInternalServerError)
	respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}
