package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ledgercore/ledger-api/internal/api"
	"github.com/ledgercore/ledger-api/internal/domain"
	"github.com/ledgercore/ledger-api/internal/service"
	"github.com/ledgercore/ledger-api/internal/store"
)

const (
	testUser = "admin"
	testPass = "secret"
)

var testTime = time.Date(2019, 12, 20, 20, 18, 11, 0, time.UTC)

func newTestServer(t *testing.T, emails ...string) (*store.MemoryStore, http.Handler) {
	t.Helper()
	mem := store.NewMemoryStore()
	for _, email := range emails {
		mem.AddAccount(domain.Account{
			Email:     email,
			FirstName: "Test",
			LastName:  "User",
			Country:   "CA",
			DOB:       "1990-01-01",
			CreatedAt: testTime,
			UpdatedAt: testTime,
		})
	}
	handler := api.NewHandler(
		service.NewAccountService(mem),
		service.NewTransactionService(mem),
		zap.NewNop(),
	)
	return mem, api.NewRouter(handler, testUser, testPass)
}

func doRequest(router http.Handler, method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.SetBasicAuth(testUser, testPass)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthRouteSkipsAuth(t *testing.T) {
	_, router := newTestServer(t)
	rec := doRequest(router, "GET", "/", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMissingCredentialsChallenged(t *testing.T) {
	_, router := newTestServer(t, "alice@x.com")

	for _, path := range []string{
		"/accounts",
		"/transactions",
		"/accounts/alice@x.com",
		"/accounts/alice@x.com/balance",
	} {
		rec := doRequest(router, "GET", path, nil, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "path %s", path)
		assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic", "path %s", path)
	}
}

func TestWrongCredentialsRejected(t *testing.T) {
	_, router := newTestServer(t, "alice@x.com")

	req := httptest.NewRequest("GET", "/accounts", nil)
	req.SetBasicAuth(testUser, "wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest("GET", "/accounts", nil)
	req.SetBasicAuth("wrong", testPass)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetAccount(t *testing.T) {
	_, router := newTestServer(t, "alice@x.com")

	rec := doRequest(router, "GET", "/accounts/alice@x.com", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var account domain.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.Equal(t, "alice@x.com", account.Email)

	rec = doRequest(router, "GET", "/accounts/ghost@x.com", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEndpoints(t *testing.T) {
	mem, router := newTestServer(t, "alice@x.com", "bob@x.com")
	mem.InsertTransaction(context.Background(), &domain.Transaction{
		ID: "tx-1", UserEmail: "alice@x.com", Amount: 10, Type: domain.TypeCredit, CreatedAt: testTime,
	})

	rec := doRequest(router, "GET", "/accounts", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var accounts []domain.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accounts))
	assert.Len(t, accounts, 2)

	rec = doRequest(router, "GET", "/transactions", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var transactions []domain.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transactions))
	assert.Len(t, transactions, 1)
}

func TestGetBalance(t *testing.T) {
	mem, router := newTestServer(t, "alice@x.com")
	mem.InsertTransaction(context.Background(), &domain.Transaction{
		ID: "tx-1", UserEmail: "alice@x.com", Amount: 100, Type: domain.TypeReceive, CreatedAt: testTime,
	})
	mem.InsertTransaction(context.Background(), &domain.Transaction{
		ID: "tx-2", UserEmail: "alice@x.com", Amount: 30, Type: domain.TypeSend, CreatedAt: testTime,
	})

	rec := doRequest(router, "GET", "/accounts/alice@x.com/balance", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var balance int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &balance))
	assert.Equal(t, int64(70), balance)

	// Unknown email is 200 with 0, not 404.
	rec = doRequest(router, "GET", "/accounts/ghost@x.com/balance", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &balance))
	assert.Equal(t, int64(0), balance)
}

func TestCreateTransaction(t *testing.T) {
	mem, router := newTestServer(t, "alice@x.com")

	rec := doRequest(router, "POST", "/transactions", map[string]interface{}{
		"userEmail": "alice@x.com",
		"amount":    5,
		"type":      "credit",
		"createdAt": "2019-12-20T20:18:11.806Z",
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created["id"])
	assert.Equal(t, 1, mem.TransactionCount())
}

func TestCreateTransactionErrors(t *testing.T) {
	mem, router := newTestServer(t, "alice@x.com")

	tests := []struct {
		name string
		body map[string]interface{}
		want int
	}{
		{"invalid type", map[string]interface{}{
			"userEmail": "alice@x.com", "amount": 5, "type": "bonus", "createdAt": "2019-12-20T20:18:11.806Z",
		}, http.StatusUnprocessableEntity},
		{"zero amount", map[string]interface{}{
			"userEmail": "alice@x.com", "amount": 0, "type": "credit", "createdAt": "2019-12-20T20:18:11.806Z",
		}, http.StatusUnprocessableEntity},
		{"negative amount", map[string]interface{}{
			"userEmail": "alice@x.com", "amount": -1, "type": "credit", "createdAt": "2019-12-20T20:18:11.806Z",
		}, http.StatusUnprocessableEntity},
		{"unknown account", map[string]interface{}{
			"userEmail": "ghost@x.com", "amount": 5, "type": "credit", "createdAt": "2019-12-20T20:18:11.806Z",
		}, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(router, "POST", "/transactions", tc.body, true)
			assert.Equal(t, tc.want, rec.Code)
		})
	}

	// Malformed JSON body.
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString("{not json"))
	req.SetBasicAuth(testUser, testPass)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, 0, mem.TransactionCount())
}

func TestCreateTransfer(t *testing.T) {
	mem, router := newTestServer(t, "alice@x.com", "bob@x.com")

	rec := doRequest(router, "POST", "/transfers", map[string]interface{}{
		"fromEmail": "alice@x.com",
		"toEmail":   "bob@x.com",
		"amount":    20,
		"createdAt": "2019-12-20T20:18:11.806Z",
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, created["ids"], 2)
	assert.NotEqual(t, created["ids"][0], created["ids"][1])
	assert.Equal(t, 2, mem.TransactionCount())
}

func TestCreateTransferErrors(t *testing.T) {
	mem, router := newTestServer(t, "alice@x.com")

	rec := doRequest(router, "POST", "/transfers", map[string]interface{}{
		"fromEmail": "alice@x.com", "toEmail": "ghost@x.com", "amount": 20,
		"createdAt": "2019-12-20T20:18:11.806Z",
	}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(router, "POST", "/transfers", map[string]interface{}{
		"fromEmail": "ghost@x.com", "toEmail": "alice@x.com", "amount": 20,
		"createdAt": "2019-12-20T20:18:11.806Z",
	}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(router, "POST", "/transfers", map[string]interface{}{
		"fromEmail": "alice@x.com", "toEmail": "alice@x.com", "amount": 0,
		"createdAt": "2019-12-20T20:18:11.806Z",
	}, true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Failed transfers never persist a leg.
	assert.Equal(t, 0, mem.TransactionCount())
}
